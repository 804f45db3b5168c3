package render

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"golang.org/x/sync/errgroup"

	"github.com/joeylitalien/mitsuba/integrator"
	"github.com/joeylitalien/mitsuba/registry"
	"github.com/joeylitalien/mitsuba/scene"
	"github.com/joeylitalien/mitsuba/stream"
	"github.com/joeylitalien/mitsuba/types"
)

// Well-known chunk names resolved by every worker.
const (
	chunkScene      = "scene"
	chunkIntegrator = "integrator"
)

type Worker interface {
	// Get worker id.
	Id() string

	// Get the worker's speed estimate relative to a single-threaded
	// baseline.
	Speed() uint32

	// Receive the job's resource chunks. Returns the chunk name to
	// local handle mapping. Called again after preprocessing to publish
	// derived state; the previous chunk table is replaced wholesale.
	Distribute(chunks []Chunk) (map[string]int, error)

	// Render one block.
	Render(req BlockRequest) ([]types.Vec3, error)

	// Shutdown and cleanup worker.
	Close()
}

// workerCore holds the per-job chunk table and the block rendering loop
// shared by local and remote worker ends.
type workerCore struct {
	handles map[string]int
	table   []registry.Serializable
	sc      *scene.Scene
	root    integrator.Integrator
	threads int
}

// Decode count chunks from a registry session into a fresh chunk table
// and resolve the well-known scene and integrator chunks.
func (wc *workerCore) decodeChunks(dec *registry.Decoder, count int) (map[string]int, error) {
	wc.handles = make(map[string]int, count)
	wc.table = make([]registry.Serializable, 0, count)
	wc.sc = nil
	wc.root = nil

	for i := 0; i < count; i++ {
		name, err := dec.Stream().ReadString()
		if err != nil {
			return nil, err
		}
		node, err := dec.DecodeGraph()
		if err != nil {
			return nil, fmt.Errorf("render: decoding chunk %q: %v", name, err)
		}
		wc.handles[name] = len(wc.table)
		wc.table = append(wc.table, node)
	}

	if handle, ok := wc.handles[chunkScene]; ok {
		sc, isScene := wc.table[handle].(*scene.Scene)
		if !isScene {
			return nil, fmt.Errorf("render: chunk %q is not a scene", chunkScene)
		}
		wc.sc = sc
	}
	if handle, ok := wc.handles[chunkIntegrator]; ok {
		root, isIntegrator := wc.table[handle].(integrator.Integrator)
		if !isIntegrator {
			return nil, fmt.Errorf("render: chunk %q is not an integrator", chunkIntegrator)
		}
		wc.root = root
	}

	return wc.handles, nil
}

// Render one block with the installed chunks. Rows are processed in
// parallel; each row goroutine owns its query context, so a context is
// never shared across concurrent rays.
func (wc *workerCore) renderBlock(req BlockRequest) ([]types.Vec3, error) {
	if wc.sc == nil {
		return nil, ErrSceneNotDefined
	}
	if wc.root == nil {
		return nil, ErrIntegratorNotDefined
	}
	if wc.sc.Camera == nil {
		return nil, ErrCameraNotDefined
	}

	block := req.Block
	pixels := make([]types.Vec3, block.W*block.H)

	var group errgroup.Group
	group.SetLimit(wc.threads)

	for row := uint32(0); row < block.H; row++ {
		row := row
		group.Go(func() error {
			q := integrator.NewQueryContext(wc.sc, req.Components)
			for col := uint32(0); col < block.W; col++ {
				q.Reset(req.Components)
				ray := wc.sc.Camera.PrimaryRay(
					int(block.X+col), int(block.Y+row),
					int(req.FrameW), int(req.FrameH),
				)
				pixels[row*block.W+col] = wc.root.Estimate(ray, q)
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return pixels, nil
}

// A LocalWorker renders blocks in the coordinator's process. Chunks
// still round-trip through a registry session over a memory stream, so
// the worker operates on a private copy exactly like a remote worker
// would.
type LocalWorker struct {
	workerCore
	id string
}

// Create a local worker. Block rows are rendered concurrently across the
// machine's logical cores.
func NewLocalWorker(id string) (*LocalWorker, error) {
	threads, err := cpu.Counts(true)
	if err != nil || threads < 1 {
		threads = 1
	}
	worker := &LocalWorker{id: id}
	worker.threads = threads
	return worker, nil
}

func (w *LocalWorker) Id() string {
	return w.id
}

func (w *LocalWorker) Speed() uint32 {
	return uint32(w.threads)
}

func (w *LocalWorker) Distribute(chunks []Chunk) (map[string]int, error) {
	ms := stream.NewMemoryStream()
	enc := registry.NewEncoder(ms)
	for _, chunk := range chunks {
		if err := ms.WriteString(chunk.Name); err != nil {
			return nil, err
		}
		if err := enc.EncodeGraph(chunk.Node); err != nil {
			return nil, err
		}
	}
	return w.decodeChunks(registry.NewDecoder(ms), len(chunks))
}

func (w *LocalWorker) Render(req BlockRequest) ([]types.Vec3, error) {
	return w.renderBlock(req)
}

func (w *LocalWorker) Close() {
}
