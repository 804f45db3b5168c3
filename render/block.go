package render

import "github.com/joeylitalien/mitsuba/integrator"

// A Block is a rectangular unit of dispatchable work within the frame.
type Block struct {
	// Top-left corner and dims in pixels.
	X uint32
	Y uint32
	W uint32
	H uint32

	// Number of failed assignments so far.
	retries int
}

// A unit of work sent to a worker.
type BlockRequest struct {
	Block Block

	// Full frame dims; the worker needs them for camera ray setup.
	FrameW uint32
	FrameH uint32

	// Radiance components requested from the root integrator.
	Components integrator.Component
}

// Split the frame into blocks of the nominal edge length. Blocks at the
// right and bottom edges are clipped to the frame extent.
func partitionFrame(frameW, frameH, blockSize uint32) []*Block {
	blocks := make([]*Block, 0, ((frameW+blockSize-1)/blockSize)*((frameH+blockSize-1)/blockSize))

	for y := uint32(0); y < frameH; y += blockSize {
		h := blockSize
		if y+h > frameH {
			h = frameH - y
		}
		for x := uint32(0); x < frameW; x += blockSize {
			w := blockSize
			if x+w > frameW {
				w = frameW - x
			}
			blocks = append(blocks, &Block{X: x, Y: y, W: w, H: h})
		}
	}

	return blocks
}
