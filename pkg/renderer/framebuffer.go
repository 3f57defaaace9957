package renderer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/df07/go-scanline-tracer/pkg/core"
)

// bytesPerPixel is the size of one BGRA pixel
const bytesPerPixel = 4

// maxFramebufferBytes bounds allocations for absurd resolutions
const maxFramebufferBytes = 1 << 31

// Framebuffer is a row-major BGRA8 image. Each row is written by exactly
// one task, so rows may be filled concurrently without locking.
type Framebuffer struct {
	Width  int
	Height int
	Pix    []byte
}

// NewFramebuffer allocates a zeroed framebuffer of the given size
func NewFramebuffer(width, height int) (*Framebuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid framebuffer size %dx%d", width, height)
	}
	if int64(width)*int64(height)*bytesPerPixel > maxFramebufferBytes {
		return nil, fmt.Errorf("framebuffer size %dx%d exceeds %d bytes", width, height, maxFramebufferBytes)
	}
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*bytesPerPixel),
	}, nil
}

// quantize maps a color channel onto [0, 255] as floor(255.999 * c), with
// c clamped to [0, 0.999]
func quantize(c float64) byte {
	return byte(255.999 * max(0, min(0.999, c)))
}

// SetPixel stores c at (x, y) as blue, green, red, alpha
func (fb *Framebuffer) SetPixel(x, y int, c core.Color) {
	i := (y*fb.Width + x) * bytesPerPixel
	fb.Pix[i+0] = quantize(c.Z)
	fb.Pix[i+1] = quantize(c.Y)
	fb.Pix[i+2] = quantize(c.X)
	fb.Pix[i+3] = 255
}

// Row returns the BGRA bytes of row y. The slice aliases the framebuffer.
func (fb *Framebuffer) Row(y int) []byte {
	stride := fb.Width * bytesPerPixel
	return fb.Pix[y*stride : (y+1)*stride]
}

// ColorAt returns the stored color at (x, y) scaled back to [0, 1]
func (fb *Framebuffer) ColorAt(x, y int) core.Color {
	i := (y*fb.Width + x) * bytesPerPixel
	return core.NewColor(
		float64(fb.Pix[i+2])/255,
		float64(fb.Pix[i+1])/255,
		float64(fb.Pix[i+0])/255,
	)
}

// ToImage converts the framebuffer to an RGBA image
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			i := (y*fb.Width + x) * bytesPerPixel
			img.SetRGBA(x, y, color.RGBA{R: fb.Pix[i+2], G: fb.Pix[i+1], B: fb.Pix[i+0], A: fb.Pix[i+3]})
		}
	}
	return img
}
