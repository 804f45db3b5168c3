package render

import "github.com/joeylitalien/mitsuba/integrator"

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Nominal block edge length. Blocks at the frame edge are clipped.
	BlockSize uint32

	// Number of times a failed block is reassigned before the job fails.
	MaxBlockRetries int

	// Radiance components requested from the root integrator.
	Components integrator.Component
}

// Apply defaults for unset options.
func (opts *Options) setDefaults() {
	if opts.BlockSize == 0 {
		opts.BlockSize = 32
	}
	if opts.MaxBlockRetries == 0 {
		opts.MaxBlockRetries = 3
	}
	if opts.Components == 0 {
		opts.Components = integrator.AllComponents
	}
}
