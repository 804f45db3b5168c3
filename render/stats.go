package render

import "time"

type WorkerStat struct {
	// The worker id.
	Id string

	// Completed blocks and failed assignments.
	Blocks  int
	Retries int

	// Cumulative render time across assigned blocks.
	RenderTime time.Duration
}

type JobStats struct {
	// Individual worker stats.
	Workers []WorkerStat

	// Total completed blocks.
	Blocks int

	// Wall-clock time for the dispatch phase.
	RenderTime time.Duration
}

func newJobStats(workers []Worker) JobStats {
	stats := JobStats{Workers: make([]WorkerStat, len(workers))}
	for idx, worker := range workers {
		stats.Workers[idx].Id = worker.Id()
	}
	return stats
}
