package render

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNoWorkers(t *testing.T) {
	_, err := NewCoordinator()
	require.ErrorIs(t, err, ErrNoWorkers)
}

// A 64x64 frame split into 16x16 blocks across two workers yields
// exactly 16 blocks, each submitted once, before the job completes.
func TestRenderCompletesAllBlocks(t *testing.T) {
	probe := &probeIntegrator{}
	w1 := makeMockWorker("mock-1", probe)
	w2 := makeMockWorker("mock-2", probe)

	coordinator, err := NewCoordinator(w1, w2)
	require.NoError(t, err)

	job, err := NewJob(testJobScene(), probe, Options{
		FrameW:    64,
		FrameH:    64,
		BlockSize: 16,
	})
	require.NoError(t, err)

	sink := &mockSink{}
	stats, err := coordinator.Render(job, sink)
	require.NoError(t, err)
	require.Equal(t, Completed, job.State())

	require.Equal(t, 16, sink.count())
	require.Equal(t, 16, stats.Blocks)

	// Absent failures every block is assigned exactly once.
	seen := make(map[[2]uint32]bool)
	for _, block := range sink.blocks {
		key := [2]uint32{block.X, block.Y}
		require.Falsef(t, seen[key], "block (%d,%d) submitted twice", block.X, block.Y)
		seen[key] = true
	}

	// Preprocessing ran exactly once, strictly before any dispatch, and
	// its derived state was republished with a second distribution.
	require.Equal(t, 1, probe.preprocessCount())
	require.Zero(t, w1.earlyDispatches)
	require.Zero(t, w2.earlyDispatches)
	require.Equal(t, 2, w1.distributions)
	require.Equal(t, 2, w2.distributions)
}

func TestPreprocessFailureFailsJob(t *testing.T) {
	probe := &probeIntegrator{failPreprocess: true}
	worker := makeMockWorker("mock-1", probe)

	coordinator, err := NewCoordinator(worker)
	require.NoError(t, err)

	job, err := NewJob(testJobScene(), probe, Options{FrameW: 32, FrameH: 32})
	require.NoError(t, err)

	_, err = coordinator.Render(job, &mockSink{})
	require.Error(t, err)
	require.Equal(t, Failed, job.State())

	// No block was dispatched with stale state.
	require.Empty(t, worker.rendered)
}

func TestBlockRetryBound(t *testing.T) {
	probe := &probeIntegrator{}
	worker := makeMockWorker("mock-1", probe)
	worker.failRemaining = -1 // fail every assignment

	coordinator, err := NewCoordinator(worker)
	require.NoError(t, err)

	job, err := NewJob(testJobScene(), probe, Options{
		FrameW:          16,
		FrameH:          16,
		BlockSize:       16,
		MaxBlockRetries: 2,
	})
	require.NoError(t, err)

	sink := &mockSink{}
	stats, err := coordinator.Render(job, sink)
	require.ErrorIs(t, err, ErrTooManyRetries)
	require.Equal(t, Failed, job.State())
	require.Zero(t, sink.count())
	require.Equal(t, 3, stats.Workers[0].Retries)
}

func TestFlakyWorkerRecovers(t *testing.T) {
	probe := &probeIntegrator{}
	worker := makeMockWorker("mock-1", probe)
	worker.failRemaining = 2

	coordinator, err := NewCoordinator(worker)
	require.NoError(t, err)

	job, err := NewJob(testJobScene(), probe, Options{
		FrameW:          16,
		FrameH:          16,
		BlockSize:       16,
		MaxBlockRetries: 3,
	})
	require.NoError(t, err)

	sink := &mockSink{}
	stats, err := coordinator.Render(job, sink)
	require.NoError(t, err)
	require.Equal(t, Completed, job.State())
	require.Equal(t, 1, sink.count())
	require.Equal(t, 2, stats.Workers[0].Retries)
	require.Equal(t, 1, stats.Workers[0].Blocks)
}

func TestCancelledJobRejectsRender(t *testing.T) {
	probe := &probeIntegrator{}
	coordinator, err := NewCoordinator(makeMockWorker("mock-1", probe))
	require.NoError(t, err)

	job, err := NewJob(testJobScene(), probe, Options{FrameW: 32, FrameH: 32})
	require.NoError(t, err)
	job.Cancel()

	_, err = coordinator.Render(job, &mockSink{})
	require.ErrorIs(t, err, ErrCancelled)
	require.Equal(t, Cancelled, job.State())
}

// Cancellation mid-run discards in-flight results and assigns no
// further blocks.
func TestMidRenderCancellation(t *testing.T) {
	probe := &probeIntegrator{}
	worker := makeMockWorker("mock-1", probe)

	coordinator, err := NewCoordinator(worker)
	require.NoError(t, err)

	job, err := NewJob(testJobScene(), probe, Options{
		FrameW:    32,
		FrameH:    32,
		BlockSize: 16,
	})
	require.NoError(t, err)

	worker.onRender = func(_ *mockWorker) {
		job.Cancel()
	}

	sink := &mockSink{}
	_, err = coordinator.Render(job, sink)
	require.ErrorIs(t, err, ErrCancelled)
	require.Equal(t, Cancelled, job.State())
	require.Zero(t, sink.count())
}
