package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width           int           // Image width in pixels
	Height          int           // Image height in pixels
	Rows            int           // Rows completed and presented
	SamplesPerPixel int           // Samples taken for each pixel
	TotalSamples    int           // Total number of camera rays traced
	Workers         int           // Number of workers that rendered rows
	Elapsed         time.Duration // Wall clock time of the render
}

// TotalPixels returns the number of pixels in the completed rows
func (s RenderStats) TotalPixels() int {
	return s.Width * s.Rows
}

// SamplesPerSecond returns camera-ray throughput, or zero for an instant render
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Elapsed.Seconds()
}
