package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"github.com/df07/go-scanline-tracer/pkg/config"
	"github.com/df07/go-scanline-tracer/pkg/gpumirror"
	"github.com/df07/go-scanline-tracer/pkg/loaders"
	"github.com/df07/go-scanline-tracer/pkg/preview"
	"github.com/df07/go-scanline-tracer/pkg/renderer"
	"github.com/df07/go-scanline-tracer/pkg/scene"
)

// options are the resolved command line settings for one render
type options struct {
	scene     string
	scenesDir string
	outputDir string
	output    string // explicit output file, overrides outputDir
	format    string
	overrides renderer.CameraConfig
	render    renderer.RenderConfig
	preview   bool
	gpuDump   string
	compare   string // reference image to measure the render against
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	sceneType := flag.String("scene", scene.DefaultSceneID, "Scene ID: a built-in name, yaml:<name> or a path to a .yaml file")
	// Flags override the environment
	flag.IntVar(&cfg.Width, "width", cfg.Width, "Image width (0 = scene default)")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "Image height (0 = scene default)")
	flag.IntVar(&cfg.Samples, "samples", cfg.Samples, "Samples per pixel (0 = scene default)")
	flag.IntVar(&cfg.MaxDepth, "depth", cfg.MaxDepth, "Maximum bounces per path (0 = scene default)")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "Worker goroutines (0 = half the CPUs)")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed (0 = seed from the clock)")
	flag.StringVar(&cfg.ScenesDir, "scenes-dir", cfg.ScenesDir, "Directory holding yaml scene files")
	output := flag.String("output", "", "Output file (default <output-dir>/<scene>/render_<timestamp>.<format>)")
	format := flag.String("format", "png", "Output format when -output is not set: png or ppm")
	showPreview := flag.Bool("preview", false, "Show rows in the terminal as they complete")
	gpuDump := flag.String("gpu-dump", "", "Also write the scene as compute shader buffers to this file")
	compare := flag.String("compare", "", "Reference PNG or JPEG to report the RMSE of the render against")
	list := flag.Bool("list", false, "List available scenes and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Scanline Tracer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: tracer [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nSettings can also come from TRACER_* environment variables.\n")
	}
	flag.Parse()
	glog.CopyStandardLogTo("INFO")
	defer glog.Flush()

	if err := cfg.Validate(); err != nil {
		glog.Exitf("Error: %v", err)
	}

	if *list {
		if err := listScenes(cfg.ScenesDir); err != nil {
			glog.Exitf("Error: %v", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	filename, err := run(ctx, options{
		scene:     *sceneType,
		scenesDir: cfg.ScenesDir,
		outputDir: cfg.OutputDir,
		output:    *output,
		format:    *format,
		overrides: cfg.CameraOverrides(),
		render:    cfg.RenderConfig(),
		preview:   *showPreview,
		gpuDump:   *gpuDump,
		compare:   *compare,
	})
	if err != nil {
		glog.Exitf("Error: %v", err)
	}
	fmt.Printf("Render saved as %s\n", filename)
}

// listScenes prints every scene ID grouped the way the web UI shows them
func listScenes(dir string) error {
	scenes, err := scene.ListAllScenes(dir)
	if err != nil {
		return err
	}
	for _, group := range scenes.Groups {
		fmt.Printf("%s:\n", group.Name)
		for _, info := range group.Scenes {
			fmt.Printf("  %-24s %s\n", info.ID, info.Description)
		}
	}
	return nil
}

// createScene resolves a scene ID from the command line
func createScene(sceneType string, opts scene.CreateOptions) (*scene.Scene, error) {
	if sceneType == "" {
		return nil, fmt.Errorf("no scene given")
	}
	return scene.CreateScene(sceneType, opts)
}

// createOutputDir returns the directory renders of sceneType are saved in
func createOutputDir(base, sceneType string) string {
	name := sceneType
	if stem, ok := strings.CutPrefix(sceneType, scene.YAMLScenePrefix); ok {
		name = stem
	} else if loaders.IsSceneFile(sceneType) {
		name = strings.TrimSuffix(filepath.Base(sceneType), filepath.Ext(sceneType))
	}
	return filepath.Join(base, name)
}

// outputFilename picks where a render is written
func outputFilename(opts options, now time.Time) (string, error) {
	if opts.output != "" {
		return opts.output, nil
	}
	format := strings.ToLower(opts.format)
	if format != "png" && format != "ppm" {
		return "", fmt.Errorf("unsupported output format %q", opts.format)
	}
	dir := createOutputDir(opts.outputDir, opts.scene)
	return filepath.Join(dir, fmt.Sprintf("render_%s.%s", now.Format("20060102_150405"), format)), nil
}

// run renders one scene and saves it, returning the file written
func run(ctx context.Context, opts options) (string, error) {
	filename, err := outputFilename(opts, time.Now())
	if err != nil {
		return "", err
	}

	sceneObj, err := createScene(opts.scene, scene.CreateOptions{
		ScenesDir:       opts.scenesDir,
		Seed:            opts.render.Seed,
		CameraOverrides: opts.overrides,
	})
	if err != nil {
		return "", fmt.Errorf("while creating scene: %w", err)
	}
	glog.Infof("Using scene %q with %d spheres", sceneObj.Name, sceneObj.GetPrimitiveCount())

	if opts.gpuDump != "" {
		if err := writeGPUBuffers(opts.gpuDump, sceneObj, opts.render.Seed); err != nil {
			return "", err
		}
	}

	tracer, err := renderer.NewScanlineRenderer(sceneObj, opts.render, renderer.NewGlogLogger())
	if err != nil {
		return "", err
	}

	var fb *renderer.Framebuffer
	if opts.preview {
		fb, err = renderWithPreview(ctx, tracer, sceneObj.GetCamera())
	} else {
		fb, err = renderWithProgress(ctx, tracer)
	}
	if err != nil {
		return "", err
	}

	if err := loaders.SaveImage(filename, fb); err != nil {
		return "", err
	}

	if opts.compare != "" {
		reference, err := loaders.LoadImage(opts.compare)
		if err != nil {
			return "", fmt.Errorf("while loading reference: %w", err)
		}
		rmse, err := loaders.RMSE(fb, reference)
		if err != nil {
			return "", fmt.Errorf("while comparing to %s: %w", opts.compare, err)
		}
		glog.Infof("RMSE against %s: %.5f", opts.compare, rmse)
	}
	return filename, nil
}

// renderWithProgress logs roughly every tenth of the image
func renderWithProgress(ctx context.Context, tracer *renderer.ScanlineRenderer) (*renderer.Framebuffer, error) {
	lastDecile := 0
	fb, _, err := tracer.Render(ctx, func(row renderer.RowCompletion) {
		decile := row.RowsCompleted * 10 / row.Height
		if decile > lastDecile {
			lastDecile = decile
			glog.Infof("%d%% (%d/%d rows)", decile*10, row.RowsCompleted, row.Height)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("while rendering: %w", err)
	}
	return fb, nil
}

// renderWithPreview streams rows into the terminal preview. Closing the
// preview cancels the render.
func renderWithPreview(ctx context.Context, tracer *renderer.ScanlineRenderer, camera *renderer.Camera) (*renderer.Framebuffer, error) {
	presenter := preview.NewPresenter(camera.Width(), camera.Height())

	eg, ctx := errgroup.WithContext(ctx)
	rows, results, errs := tracer.RenderStream(ctx)

	var fb *renderer.Framebuffer
	eg.Go(func() error {
		return preview.Run(ctx, presenter, rows)
	})
	eg.Go(func() error {
		result, ok := <-results
		if !ok {
			return fmt.Errorf("while rendering: %w", <-errs)
		}
		fb = result.Framebuffer
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return fb, nil
}

func writeGPUBuffers(filename string, sceneObj *scene.Scene, seed int64) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("while creating %s: %w", filename, err)
	}
	defer f.Close()

	buffers := gpumirror.Build(sceneObj.World, sceneObj.Materials, sceneObj.GetCamera(), seed)
	if _, err := buffers.WriteTo(f); err != nil {
		return fmt.Errorf("while writing %s: %w", filename, err)
	}
	glog.Infof("Wrote %d spheres to %s", buffers.Global.ObjectCount, filename)
	return f.Close()
}
