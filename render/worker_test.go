package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joeylitalien/mitsuba/integrator"
	"github.com/joeylitalien/mitsuba/types"
)

func TestLocalWorkerRendersPrivateCopy(t *testing.T) {
	worker, err := NewLocalWorker("local-0")
	require.NoError(t, err)

	sc := testJobScene()
	root := integrator.NewConstant(types.XYZ(0.5, 0.25, 0.125))
	chunks := []Chunk{
		{Name: chunkScene, Node: sc},
		{Name: chunkIntegrator, Node: root},
	}

	handles, err := worker.Distribute(chunks)
	require.NoError(t, err)
	require.Contains(t, handles, chunkScene)
	require.Contains(t, handles, chunkIntegrator)

	// The worker operates on a deserialized copy, never on the
	// coordinator's instances.
	require.NotSame(t, sc, worker.sc)
	require.NotSame(t, sc.Spheres[0], worker.sc.Spheres[0])

	original := worker.sc.Spheres[0].Albedo
	sc.Spheres[0].Albedo = types.XYZ(0, 0, 0)
	require.Equal(t, original, worker.sc.Spheres[0].Albedo)

	pixels, err := worker.Render(BlockRequest{
		Block:      Block{X: 0, Y: 0, W: 4, H: 4},
		FrameW:     16,
		FrameH:     16,
		Components: integrator.AllComponents,
	})
	require.NoError(t, err)
	require.Len(t, pixels, 16)
	for _, px := range pixels {
		require.True(t, px.ApproxEqual(types.XYZ(0.5, 0.25, 0.125)))
	}
}

func TestLocalWorkerWithoutChunks(t *testing.T) {
	worker, err := NewLocalWorker("local-0")
	require.NoError(t, err)

	_, err = worker.Render(BlockRequest{
		Block:  Block{W: 2, H: 2},
		FrameW: 2,
		FrameH: 2,
	})
	require.ErrorIs(t, err, ErrSceneNotDefined)
}

func TestRedistributionReplacesChunks(t *testing.T) {
	worker, err := NewLocalWorker("local-0")
	require.NoError(t, err)

	sc := testJobScene()
	root := integrator.NewProximity(types.XYZ(1, 1, 1), 0)
	chunks := []Chunk{
		{Name: chunkScene, Node: sc},
		{Name: chunkIntegrator, Node: root},
	}

	_, err = worker.Distribute(chunks)
	require.NoError(t, err)
	stale := worker.root.(*integrator.Proximity)
	require.Zero(t, stale.MaxDist)

	// Preprocessing on the initiator derives the max distance; the
	// follow-up distribution publishes it.
	require.NoError(t, sc.ComputeBounds())
	require.NoError(t, root.Preprocess(sc))

	_, err = worker.Distribute(chunks)
	require.NoError(t, err)
	fresh := worker.root.(*integrator.Proximity)
	require.Equal(t, root.MaxDist, fresh.MaxDist)
	require.Positive(t, fresh.MaxDist)
}
