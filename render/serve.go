package render

import (
	"fmt"

	"github.com/joeylitalien/mitsuba/integrator"
	"github.com/joeylitalien/mitsuba/log"
	"github.com/joeylitalien/mitsuba/registry"
	"github.com/joeylitalien/mitsuba/stream"
)

// ServeWorker runs the worker end of the master protocol on a connected
// stream. It announces the worker, then processes distribute and render
// requests until the master shuts the link down or the stream fails.
func ServeWorker(id string, s stream.Stream, logger log.Logger) error {
	worker, err := NewLocalWorker(id)
	if err != nil {
		return err
	}

	if err = s.WriteString(id); err != nil {
		return err
	}
	if err = s.WriteUint32(worker.Speed()); err != nil {
		return err
	}

	for {
		op, err := s.ReadUint8()
		if err != nil {
			return err
		}

		switch op {
		case opDistribute:
			err = serveDistribute(worker, s, logger)
		case opRender:
			err = serveRender(worker, s, logger)
		case opShutdown:
			logger.Notice("master closed the session")
			return nil
		default:
			err = fmt.Errorf("render: unknown opcode 0x%02x", op)
		}
		if err != nil {
			// Drop the link so a master still writing into the failed
			// session is unblocked.
			s.Close()
			return err
		}
	}
}

func serveDistribute(worker *LocalWorker, s stream.Stream, logger log.Logger) error {
	count, err := s.ReadUint32()
	if err != nil {
		return err
	}

	handles, err := worker.decodeChunks(registry.NewDecoder(s), int(count))
	if err != nil {
		// A decode failure leaves the stream position undefined and the
		// master may still be writing chunks into the session, so an
		// inline reply can deadlock an unbuffered link. Report best
		// effort from the side; the caller drops the link either way.
		go writeError(s, err)
		return err
	}
	logger.Infof("installed %d resource chunks", len(handles))

	if err = s.WriteUint8(statusOK); err != nil {
		return err
	}
	if err = s.WriteUint32(uint32(len(handles))); err != nil {
		return err
	}
	for name, handle := range handles {
		if err = s.WriteString(name); err != nil {
			return err
		}
		if err = s.WriteUint32(uint32(handle)); err != nil {
			return err
		}
	}
	return nil
}

func serveRender(worker *LocalWorker, s stream.Stream, logger log.Logger) error {
	var fields [7]uint32
	for i := range fields {
		v, err := s.ReadUint32()
		if err != nil {
			return err
		}
		fields[i] = v
	}
	req := BlockRequest{
		Block:      Block{X: fields[0], Y: fields[1], W: fields[2], H: fields[3]},
		FrameW:     fields[4],
		FrameH:     fields[5],
		Components: integrator.Component(fields[6]),
	}

	pixels, err := worker.Render(req)
	if err != nil {
		logger.Warningf("block (%d,%d) failed: %v", req.Block.X, req.Block.Y, err)
		return writeError(s, err)
	}

	if err = s.WriteUint8(statusOK); err != nil {
		return err
	}
	for _, px := range pixels {
		for c := 0; c < 3; c++ {
			if err = s.WriteFloat32(px[c]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Report a recoverable request failure to the master without dropping
// the link.
func writeError(s stream.Stream, reqErr error) error {
	if err := s.WriteUint8(statusError); err != nil {
		return err
	}
	return s.WriteString(reqErr.Error())
}
