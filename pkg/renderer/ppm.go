package renderer

import (
	"bufio"
	"fmt"
	"io"

	"github.com/df07/go-scanline-tracer/pkg/core"
)

// WritePPM writes colors in row-major order as a plain-text P3 image
func WritePPM(w io.Writer, width, height int, colors []core.Color) error {
	if len(colors) != width*height {
		return fmt.Errorf("ppm: have %d colors for a %dx%d image", len(colors), width, height)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3\n%d %d\n255\n", width, height)
	for _, c := range colors {
		fmt.Fprintf(bw, "%d %d %d\n", quantize(c.X), quantize(c.Y), quantize(c.Z))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("while writing ppm: %w", err)
	}
	return nil
}

// WritePPM writes the framebuffer as a plain-text P3 image. SetPixel already
// quantized the bytes, so they are emitted unchanged and match WritePPM.
func (fb *Framebuffer) WritePPM(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3\n%d %d\n255\n", fb.Width, fb.Height)
	for i := 0; i < len(fb.Pix); i += bytesPerPixel {
		fmt.Fprintf(bw, "%d %d %d\n", fb.Pix[i+2], fb.Pix[i+1], fb.Pix[i+0])
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("while writing ppm: %w", err)
	}
	return nil
}
