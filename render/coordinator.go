package render

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/joeylitalien/mitsuba/log"
)

// The Coordinator owns a job's resource chunks for the job's lifetime
// and drives it through its state machine: distribution, the one-time
// preprocessing phase, and block dispatch.
type Coordinator struct {
	workers []Worker
	logger  log.Logger
}

// Create a coordinator over a set of workers.
func NewCoordinator(workers ...Worker) (*Coordinator, error) {
	if len(workers) == 0 {
		return nil, ErrNoWorkers
	}
	return &Coordinator{
		workers: workers,
		logger:  log.New("render"),
	}, nil
}

// Render a job to completion. Completed blocks are delivered to the
// sink. The returned stats are valid whenever the job reached Running;
// the job's terminal state reports the outcome.
func (c *Coordinator) Render(job *Job, sink BlockSink) (JobStats, error) {
	var stats JobStats

	if err := job.transition(Distributing); err != nil {
		return stats, err
	}
	c.logger.Noticef("job %s: distributing %d resource chunks to %d workers",
		job.ID, len(job.chunks), len(c.workers))
	if err := c.distribute(job); err != nil {
		job.fail()
		return stats, err
	}

	if err := job.transition(Preprocessing); err != nil {
		return stats, err
	}
	c.logger.Noticef("job %s: preprocessing", job.ID)
	if err := c.preprocess(job); err != nil {
		job.fail()
		return stats, fmt.Errorf("render: preprocessing failed: %v", err)
	}

	// Preprocessing may have mutated derived state anywhere in the
	// graph. Publish it with a full re-serialization so no worker runs
	// with stale chunks.
	if err := c.distribute(job); err != nil {
		job.fail()
		return stats, err
	}

	if err := job.transition(Ready); err != nil {
		return stats, err
	}
	if err := job.transition(Running); err != nil {
		return stats, err
	}

	c.logger.Noticef("job %s: rendering %dx%d frame in %d px blocks",
		job.ID, job.Opts.FrameW, job.Opts.FrameH, job.Opts.BlockSize)
	stats, err := c.dispatch(job, sink)
	if err != nil {
		if job.State() != Cancelled {
			job.fail()
		}
		return stats, err
	}

	if err = job.transition(Completed); err != nil {
		return stats, err
	}
	c.logger.Noticef("job %s: completed in %s", job.ID, stats.RenderTime)
	return stats, nil
}

// Close all attached workers.
func (c *Coordinator) Close() {
	for _, worker := range c.workers {
		worker.Close()
	}
}

// Serialize the job's chunk set to every worker. Each worker reports the
// chunk name to local handle mapping it assigned.
func (c *Coordinator) distribute(job *Job) error {
	var group errgroup.Group
	for _, worker := range c.workers {
		worker := worker
		group.Go(func() error {
			handles, err := worker.Distribute(job.chunks)
			if err != nil {
				return fmt.Errorf("render: distributing to worker %s: %v", worker.Id(), err)
			}
			c.logger.Debugf("worker %s installed %d chunks: %v", worker.Id(), len(handles), handles)
			return nil
		})
	}
	return group.Wait()
}

// Run the one-time setup phase on the initiating node only. Workers
// never preprocess; they receive the derived state through the
// re-distribution that follows.
func (c *Coordinator) preprocess(job *Job) error {
	if err := job.scene.ComputeBounds(); err != nil {
		return err
	}
	return job.root.Preprocess(job.scene)
}
