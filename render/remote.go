package render

import (
	"fmt"
	"sync"

	"github.com/joeylitalien/mitsuba/registry"
	"github.com/joeylitalien/mitsuba/stream"
	"github.com/joeylitalien/mitsuba/types"
)

// Wire opcodes of the master to worker protocol.
const (
	opDistribute uint8 = iota + 1
	opRender
	opShutdown
)

// Reply status codes.
const (
	statusOK uint8 = iota
	statusError
)

// A RemoteWorker proxies block requests to a worker process over a
// stream. One outstanding request at a time; the dispatcher drives each
// worker from a single goroutine.
type RemoteWorker struct {
	mu    sync.Mutex
	s     stream.Stream
	id    string
	speed uint32
}

// Attach to a worker that has connected on the given stream. The worker
// announces its id and speed estimate first.
func NewRemoteWorker(s stream.Stream) (*RemoteWorker, error) {
	id, err := s.ReadString()
	if err != nil {
		return nil, fmt.Errorf("render: reading worker hello: %v", err)
	}
	speed, err := s.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("render: reading worker hello: %v", err)
	}
	return &RemoteWorker{s: s, id: id, speed: speed}, nil
}

func (w *RemoteWorker) Id() string {
	return w.id
}

func (w *RemoteWorker) Speed() uint32 {
	return w.speed
}

func (w *RemoteWorker) Distribute(chunks []Chunk) (map[string]int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.s.WriteUint8(opDistribute); err != nil {
		return nil, err
	}
	if err := w.s.WriteUint32(uint32(len(chunks))); err != nil {
		return nil, err
	}

	// One encoder session spans all chunks so nodes shared between
	// chunks are transmitted once.
	enc := registry.NewEncoder(w.s)
	for _, chunk := range chunks {
		if err := w.s.WriteString(chunk.Name); err != nil {
			return nil, err
		}
		if err := enc.EncodeGraph(chunk.Node); err != nil {
			return nil, err
		}
	}

	if err := w.readStatus(); err != nil {
		return nil, err
	}

	count, err := w.s.ReadUint32()
	if err != nil {
		return nil, err
	}
	handles := make(map[string]int, count)
	for i := uint32(0); i < count; i++ {
		name, err := w.s.ReadString()
		if err != nil {
			return nil, err
		}
		handle, err := w.s.ReadUint32()
		if err != nil {
			return nil, err
		}
		handles[name] = int(handle)
	}
	return handles, nil
}

func (w *RemoteWorker) Render(req BlockRequest) ([]types.Vec3, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.s.WriteUint8(opRender); err != nil {
		return nil, err
	}
	for _, v := range []uint32{
		req.Block.X, req.Block.Y, req.Block.W, req.Block.H,
		req.FrameW, req.FrameH, uint32(req.Components),
	} {
		if err := w.s.WriteUint32(v); err != nil {
			return nil, err
		}
	}

	if err := w.readStatus(); err != nil {
		return nil, err
	}

	pixels := make([]types.Vec3, req.Block.W*req.Block.H)
	for i := range pixels {
		for c := 0; c < 3; c++ {
			v, err := w.s.ReadFloat32()
			if err != nil {
				return nil, err
			}
			pixels[i][c] = v
		}
	}
	return pixels, nil
}

func (w *RemoteWorker) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.s.WriteUint8(opShutdown)
	w.s.Close()
}

// Read a reply status byte; an error status carries a message string.
func (w *RemoteWorker) readStatus() error {
	status, err := w.s.ReadUint8()
	if err != nil {
		return err
	}
	if status == statusOK {
		return nil
	}
	msg, err := w.s.ReadString()
	if err != nil {
		return err
	}
	return fmt.Errorf("render: worker %s: %s", w.id, msg)
}
