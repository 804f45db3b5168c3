package render

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/joeylitalien/mitsuba/integrator"
	"github.com/joeylitalien/mitsuba/registry"
	"github.com/joeylitalien/mitsuba/scene"
)

type JobState uint8

const (
	Submitted JobState = iota
	Distributing
	Preprocessing
	Ready
	Running
	Completed
	Cancelled
	Failed
)

func (s JobState) String() string {
	switch s {
	case Submitted:
		return "submitted"
	case Distributing:
		return "distributing"
	case Preprocessing:
		return "preprocessing"
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Forward transitions of the job state machine. Cancellation is handled
// separately: any non-terminal state may transition to Cancelled.
var validTransitions = map[JobState]JobState{
	Submitted:     Distributing,
	Distributing:  Preprocessing,
	Preprocessing: Ready,
	Ready:         Running,
	Running:       Completed,
}

// A Chunk is a named engine-wide object distributed once per job to all
// workers. Workers resolve chunks through opaque integer handles local
// to the job.
type Chunk struct {
	Name string
	Node registry.Serializable
}

// A Job is one rendering request: a resource chunk set, a target extent
// and the block queue derived from it.
type Job struct {
	ID   uuid.UUID
	Opts Options

	scene  *scene.Scene
	root   integrator.Integrator
	chunks []Chunk

	mu     sync.Mutex
	state  JobState
	cancel chan struct{}
}

// Create a render job for a scene and a root integrator tree. The scene
// and the integrator are registered as the job's initial resource
// chunks.
func NewJob(sc *scene.Scene, root integrator.Integrator, opts Options) (*Job, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if root == nil {
		return nil, ErrIntegratorNotDefined
	}
	opts.setDefaults()

	job := &Job{
		ID:     uuid.New(),
		Opts:   opts,
		scene:  sc,
		root:   root,
		cancel: make(chan struct{}),
	}
	job.chunks = []Chunk{
		{Name: chunkScene, Node: sc},
		{Name: chunkIntegrator, Node: root},
	}
	return job, nil
}

// Register an additional named resource chunk. Chunks must be registered
// before the job is submitted to a coordinator.
func (j *Job) AddChunk(name string, node registry.Serializable) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state != Submitted {
		return fmt.Errorf("%w: cannot add chunks in state %s", ErrInvalidTransition, j.state)
	}
	j.chunks = append(j.chunks, Chunk{Name: name, Node: node})
	return nil
}

// Get the current job state.
func (j *Job) State() JobState {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Request cancellation. Any non-terminal state transitions to Cancelled;
// in-flight block results are discarded, not force-aborted. Cancelling a
// terminal job is a no-op.
func (j *Job) Cancel() {
	j.mu.Lock()
	defer j.mu.Unlock()
	switch j.state {
	case Completed, Cancelled, Failed:
		return
	}
	j.state = Cancelled
	close(j.cancel)
}

// Test whether cancellation was requested.
func (j *Job) cancelled() bool {
	select {
	case <-j.cancel:
		return true
	default:
		return false
	}
}

// Advance the state machine by one forward transition.
func (j *Job) transition(to JobState) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.state == Cancelled {
		return ErrCancelled
	}
	next, ok := validTransitions[j.state]
	if !ok || next != to {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, j.state, to)
	}
	j.state = to
	return nil
}

// Mark the job failed. Terminal; only the first failure wins.
func (j *Job) fail() {
	j.mu.Lock()
	defer j.mu.Unlock()
	switch j.state {
	case Completed, Cancelled, Failed:
		return
	}
	j.state = Failed
}
