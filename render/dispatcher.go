package render

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Dispatch the job's blocks across the worker pool. Workers pull one
// block at a time; a failed block returns to the queue until it exceeds
// the reassignment bound, which fails the whole job. The cancellation
// flag is checked between assignments; in-flight blocks are left to
// finish and their results discarded.
func (c *Coordinator) dispatch(job *Job, sink BlockSink) (JobStats, error) {
	blocks := partitionFrame(job.Opts.FrameW, job.Opts.FrameH, job.Opts.BlockSize)

	// Capacity covers every possible reassignment so requeues never block.
	pending := make(chan *Block, len(blocks)*(job.Opts.MaxBlockRetries+1))
	for _, block := range blocks {
		pending <- block
	}

	var (
		mu        sync.Mutex
		remaining = len(blocks)
		stats     = newJobStats(c.workers)
		abort     = make(chan struct{})
		abortOnce sync.Once
	)
	start := time.Now()

	var group errgroup.Group
	for idx, worker := range c.workers {
		idx, worker := idx, worker
		group.Go(func() error {
			for {
				select {
				case <-job.cancel:
					return ErrCancelled
				case <-abort:
					return nil
				case block, open := <-pending:
					if !open {
						return nil
					}
					if job.cancelled() {
						return ErrCancelled
					}

					blockStart := time.Now()
					pixels, err := worker.Render(BlockRequest{
						Block:      *block,
						FrameW:     job.Opts.FrameW,
						FrameH:     job.Opts.FrameH,
						Components: job.Opts.Components,
					})
					if job.cancelled() {
						// The block finished after cancellation; drop it.
						return ErrCancelled
					}

					if err != nil {
						c.logger.Warningf("worker %s failed block (%d,%d): %v",
							worker.Id(), block.X, block.Y, err)

						mu.Lock()
						stats.Workers[idx].Retries++
						block.retries++
						exhausted := block.retries > job.Opts.MaxBlockRetries
						mu.Unlock()

						if exhausted {
							abortOnce.Do(func() { close(abort) })
							return fmt.Errorf("%w: block (%d,%d) failed %d times",
								ErrTooManyRetries, block.X, block.Y, block.retries)
						}
						pending <- block
						continue
					}

					if err = sink.SubmitBlock(*block, pixels); err != nil {
						abortOnce.Do(func() { close(abort) })
						return fmt.Errorf("render: submitting block (%d,%d): %v",
							block.X, block.Y, err)
					}

					mu.Lock()
					stats.Workers[idx].Blocks++
					stats.Workers[idx].RenderTime += time.Since(blockStart)
					remaining--
					done := remaining == 0
					mu.Unlock()

					if done {
						close(pending)
					}
				}
			}
		})
	}

	err := group.Wait()
	stats.Blocks = len(blocks) - remaining
	stats.RenderTime = time.Since(start)
	return stats, err
}
