package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-scanline-tracer/pkg/core"
	"github.com/df07/go-scanline-tracer/pkg/renderer"
)

// ImageData contains loaded image data as a color array
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Color
}

// LoadImage loads a PNG or JPEG image and converts it to a color array
func LoadImage(filename string) (*ImageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	// Decode image (auto-detects PNG/JPEG from file header)
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Color, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535], convert to [0, 1]
			pixels[y*width+x] = core.NewColor(
				float64(r)/65535.0,
				float64(g)/65535.0,
				float64(b)/65535.0,
			)
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}, nil
}

// SaveImage writes fb to filename, choosing PNG or PPM from the extension.
// Nothing is created for an unsupported extension.
func SaveImage(filename string, fb *renderer.Framebuffer) error {
	var encode func(io.Writer) error
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".ppm":
		encode = fb.WritePPM
	case ".png":
		encode = func(w io.Writer) error { return png.Encode(w, fb.ToImage()) }
	default:
		return fmt.Errorf("unsupported output format %q", filepath.Ext(filename))
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	err = encode(file)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

// RMSE returns the root mean square difference between fb and a reference
// image over all color channels, in [0, 1]
func RMSE(fb *renderer.Framebuffer, reference *ImageData) (float64, error) {
	if fb.Width != reference.Width || fb.Height != reference.Height {
		return 0, fmt.Errorf("size mismatch: render is %dx%d, reference is %dx%d",
			fb.Width, fb.Height, reference.Width, reference.Height)
	}

	var sum float64
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			d := fb.ColorAt(x, y).Subtract(reference.Pixels[y*fb.Width+x])
			sum += d.LengthSquared()
		}
	}
	n := float64(fb.Width * fb.Height * 3)
	if n == 0 {
		return 0, nil
	}
	return math.Sqrt(sum / n), nil
}
