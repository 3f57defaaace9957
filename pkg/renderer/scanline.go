package renderer

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/df07/go-scanline-tracer/pkg/core"
)

// RenderConfig contains configuration for scanline rendering
type RenderConfig struct {
	NumWorkers int   // Number of parallel workers (0 = DefaultWorkerCount)
	Seed       int64 // Base seed; row y uses Seed+y (0 = seed from the clock)
}

// RowCompletion describes a finished row, delivered in row order
type RowCompletion struct {
	Row           int
	Width         int
	Height        int
	Pixels        []byte // BGRA bytes of the row, aliasing the framebuffer
	RowsCompleted int
}

// ScanlineRenderer renders one task per image row on a worker pool and
// presents the rows strictly top to bottom
type ScanlineRenderer struct {
	scene  Scene
	camera *Camera
	config RenderConfig
	logger core.Logger

	newPool func(numWorkers int) *WorkerPool
}

// NewScanlineRenderer creates a renderer for scene
func NewScanlineRenderer(scene Scene, config RenderConfig, logger core.Logger) (*ScanlineRenderer, error) {
	if scene == nil {
		return nil, errors.New("scanline renderer: nil scene")
	}
	camera := scene.GetCamera()
	if camera == nil {
		return nil, errors.New("scanline renderer: scene has no camera")
	}
	if scene.GetWorld() == nil || scene.GetMaterials() == nil {
		return nil, errors.New("scanline renderer: scene has no world")
	}
	if logger == nil {
		logger = NewNopLogger()
	}
	if config.Seed == 0 {
		config.Seed = time.Now().UnixNano()
	}
	return &ScanlineRenderer{
		scene:   scene,
		camera:  camera,
		config:  config,
		logger:  logger,
		newPool: NewWorkerPool,
	}, nil
}

// renderRow fills row y of fb. It only touches that row.
func (r *ScanlineRenderer) renderRow(fb *Framebuffer, y int, random *rand.Rand) {
	sampler := core.NewRandomSampler(random)
	world := r.scene.GetWorld()
	materials := r.scene.GetMaterials()

	for x := 0; x < fb.Width; x++ {
		pixelCenter := r.camera.PixelCenter(x, y)
		fb.SetPixel(x, y, r.camera.CalculateHitColor(world, materials, pixelCenter, sampler))
	}
}

// Render draws the whole image. onRow, if non-nil, is called from the
// calling goroutine once per row in order 0..Height-1. Cancelling ctx stops
// presentation; rows already queued are drained before Render returns, and
// any that had not started yet are skipped.
func (r *ScanlineRenderer) Render(ctx context.Context, onRow func(RowCompletion)) (*Framebuffer, RenderStats, error) {
	width, height := r.camera.Width(), r.camera.Height()
	fb, err := NewFramebuffer(width, height)
	if err != nil {
		return nil, RenderStats{}, fmt.Errorf("while allocating framebuffer: %w", err)
	}

	pool := r.newPool(r.config.NumWorkers)
	defer pool.Shutdown()

	spp := r.camera.Config().SamplesPerPixel
	stats := RenderStats{
		Width:           width,
		Height:          height,
		SamplesPerPixel: spp,
		Workers:         pool.NumWorkers(),
	}

	r.logger.Printf("Rendering %dx%d at %d samples/pixel, depth %d (using %d workers)...\n",
		width, height, spp, r.camera.Config().MaxDepth, pool.NumWorkers())
	startTime := time.Now()

	err = runRowsInOrder(ctx, pool, height,
		func(y int) {
			// Queued rows still drain after cancellation but skip the work
			if ctx.Err() != nil {
				return
			}
			r.renderRow(fb, y, rand.New(rand.NewSource(r.config.Seed+int64(y))))
		},
		func(y, completed int) {
			stats.Rows = completed
			if onRow != nil {
				onRow(RowCompletion{
					Row:           y,
					Width:         width,
					Height:        height,
					Pixels:        fb.Row(y),
					RowsCompleted: completed,
				})
			}
		})

	stats.TotalSamples = stats.Rows * width * spp
	stats.Elapsed = time.Since(startTime)
	if err != nil {
		r.logger.Printf("Render stopped after %d of %d rows: %v\n", stats.Rows, height, err)
		return nil, stats, err
	}

	r.logger.Printf("Render completed in %v (%.0f samples/sec)\n", stats.Elapsed, stats.SamplesPerSecond())
	return fb, stats, nil
}

// runRowsInOrder submits one task per row and waits on their futures in
// row order, calling present for each row as soon as it and every row
// before it have finished
func runRowsInOrder(ctx context.Context, pool *WorkerPool, height int, render func(y int), present func(y, completed int)) error {
	futures := make([]*Future, height)
	for y := 0; y < height; y++ {
		row := y
		f, err := pool.SubmitTask(func() (int, error) {
			render(row)
			return row, nil
		})
		if err != nil {
			return fmt.Errorf("while submitting row %d: %w", row, err)
		}
		futures[y] = f
	}

	for y, f := range futures {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-f.Done():
		}

		row, err := f.Wait()
		if err != nil {
			return fmt.Errorf("while rendering row %d: %w", y, err)
		}
		present(row, y+1)
	}
	return nil
}

// RenderResult is the final outcome of a streamed render
type RenderResult struct {
	Framebuffer *Framebuffer
	Stats       RenderStats
}

// RenderStream renders in the background and streams completed rows in
// order. Both channels are closed when the render ends; a failure or
// cancellation is delivered on errChan instead of a result.
func (r *ScanlineRenderer) RenderStream(ctx context.Context) (<-chan RowCompletion, <-chan RenderResult, <-chan error) {
	rowChan := make(chan RowCompletion, r.camera.Height())
	resultChan := make(chan RenderResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(rowChan)
		defer close(resultChan)
		defer close(errChan)

		fb, stats, err := r.Render(ctx, func(row RowCompletion) {
			// Copy so consumers never observe the shared framebuffer
			row.Pixels = append([]byte(nil), row.Pixels...)
			rowChan <- row
		})
		if err != nil {
			errChan <- err
			return
		}
		resultChan <- RenderResult{Framebuffer: fb, Stats: stats}
	}()

	return rowChan, resultChan, errChan
}
