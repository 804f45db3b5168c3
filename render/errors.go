package render

import "errors"

var (
	ErrNoWorkers            = errors.New("render: no workers attached")
	ErrSceneNotDefined      = errors.New("render: no scene defined")
	ErrIntegratorNotDefined = errors.New("render: no integrator defined")
	ErrCameraNotDefined     = errors.New("render: no camera defined")
	ErrInvalidTransition    = errors.New("render: invalid job state transition")
	ErrTooManyRetries       = errors.New("render: block exceeded reassignment bound")
	ErrCancelled            = errors.New("render: job cancelled")
)
