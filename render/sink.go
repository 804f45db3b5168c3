package render

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"sync"

	"github.com/joeylitalien/mitsuba/types"
)

// A BlockSink receives completed block pixel data. Implementations must
// be safe for concurrent submission.
type BlockSink interface {
	SubmitBlock(block Block, pixels []types.Vec3) error
}

// An ImageSink composites completed blocks into an 8-bit frame.
type ImageSink struct {
	mu  sync.Mutex
	img *image.RGBA
}

// Create an image sink for a frame of the given dims.
func NewImageSink(frameW, frameH uint32) *ImageSink {
	return &ImageSink{
		img: image.NewRGBA(image.Rect(0, 0, int(frameW), int(frameH))),
	}
}

func (sink *ImageSink) SubmitBlock(block Block, pixels []types.Vec3) error {
	sink.mu.Lock()
	defer sink.mu.Unlock()

	for row := uint32(0); row < block.H; row++ {
		for col := uint32(0); col < block.W; col++ {
			px := pixels[row*block.W+col]
			sink.img.SetRGBA(int(block.X+col), int(block.Y+row), color.RGBA{
				R: quantize(px[0]),
				G: quantize(px[1]),
				B: quantize(px[2]),
				A: 0xff,
			})
		}
	}
	return nil
}

// Encode the composited frame as a PNG file.
func (sink *ImageSink) WritePNG(path string) error {
	sink.mu.Lock()
	defer sink.mu.Unlock()

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return png.Encode(file, sink.img)
}

func quantize(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint8(v * 255.0)
}
