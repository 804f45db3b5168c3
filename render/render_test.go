package render

import (
	"errors"
	"fmt"
	"sync"

	"github.com/joeylitalien/mitsuba/integrator"
	"github.com/joeylitalien/mitsuba/registry"
	"github.com/joeylitalien/mitsuba/scene"
	"github.com/joeylitalien/mitsuba/types"
)

// probeIntegrator records lifecycle events so tests can assert phase
// ordering. Estimates are always black.
type probeIntegrator struct {
	mu             sync.Mutex
	preprocessed   int
	failPreprocess bool
}

func (in *probeIntegrator) Preprocess(_ *scene.Scene) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.failPreprocess {
		return errors.New("probe: preprocess failed")
	}
	in.preprocessed++
	return nil
}

func (in *probeIntegrator) preprocessCount() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.preprocessed
}

func (in *probeIntegrator) Estimate(_ types.Ray, _ *integrator.QueryContext) types.Vec3 {
	return types.Vec3{}
}

func (in *probeIntegrator) TypeTag() string                  { return "test.probe" }
func (in *probeIntegrator) Encode(_ *registry.Encoder) error { return nil }
func (in *probeIntegrator) Decode(_ *registry.Decoder) error { return nil }

func init() {
	registry.Register("test.probe", func() registry.Serializable { return &probeIntegrator{} })
	registry.Register("test.broken", func() registry.Serializable { return &brokenChunk{} })
}

// brokenChunk fails to decode, poisoning any distribution it is part of.
type brokenChunk struct{}

func (b *brokenChunk) TypeTag() string                  { return "test.broken" }
func (b *brokenChunk) Encode(_ *registry.Encoder) error { return nil }
func (b *brokenChunk) Decode(_ *registry.Decoder) error { return errors.New("truncated chunk body") }

// mockWorker renders synthetic pixels and can be scripted to fail the
// first few assignments.
type mockWorker struct {
	id    string
	probe *probeIntegrator

	mu              sync.Mutex
	distributions   int
	rendered        []Block
	failRemaining   int
	earlyDispatches int
	onRender        func(w *mockWorker)
}

func makeMockWorker(id string, probe *probeIntegrator) *mockWorker {
	return &mockWorker{id: id, probe: probe}
}

func (w *mockWorker) Id() string {
	return w.id
}

func (w *mockWorker) Speed() uint32 {
	return 1
}

func (w *mockWorker) Distribute(chunks []Chunk) (map[string]int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.distributions++
	handles := make(map[string]int, len(chunks))
	for index, chunk := range chunks {
		handles[chunk.Name] = index
	}
	return handles, nil
}

func (w *mockWorker) Render(req BlockRequest) ([]types.Vec3, error) {
	w.mu.Lock()
	if w.probe != nil && w.probe.preprocessCount() == 0 {
		w.earlyDispatches++
	}
	if w.failRemaining != 0 {
		w.failRemaining--
		w.mu.Unlock()
		return nil, fmt.Errorf("mock worker %s: induced failure", w.id)
	}
	w.rendered = append(w.rendered, req.Block)
	onRender := w.onRender
	w.mu.Unlock()

	if onRender != nil {
		onRender(w)
	}
	return make([]types.Vec3, req.Block.W*req.Block.H), nil
}

func (w *mockWorker) Close() {
}

// mockSink records submitted blocks.
type mockSink struct {
	mu     sync.Mutex
	blocks []Block
}

func (sink *mockSink) SubmitBlock(block Block, pixels []types.Vec3) error {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if uint32(len(pixels)) != block.W*block.H {
		return fmt.Errorf("mock sink: expected %d pixels, got %d", block.W*block.H, len(pixels))
	}
	sink.blocks = append(sink.blocks, block)
	return nil
}

func (sink *mockSink) count() int {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	return len(sink.blocks)
}

func testJobScene() *scene.Scene {
	return &scene.Scene{
		Camera: scene.NewCamera(types.XYZ(0, 0, 5), types.XYZ(0, 0, 0), types.XYZ(0, 1, 0), 45),
		Spheres: []*scene.Sphere{
			{Center: types.XYZ(0, 0, 0), Radius: 1, Albedo: types.XYZ(1, 0, 0)},
		},
	}
}
