package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"

	"github.com/df07/go-scanline-tracer/pkg/config"
	"github.com/df07/go-scanline-tracer/web/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		glog.Exitf("Error loading config: %v", err)
	}

	// Flags override the environment
	flag.IntVar(&cfg.Port, "port", cfg.Port, "Port to serve on")
	flag.StringVar(&cfg.ScenesDir, "scenes-dir", cfg.ScenesDir, "Directory holding yaml scene files")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "Worker goroutines per render (0 = half the CPUs)")
	flag.Parse()
	glog.CopyStandardLogTo("INFO")
	defer glog.Flush()

	if err := cfg.Validate(); err != nil {
		glog.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	glog.Infof("Scanline Tracer Web Server")
	glog.Infof("Visit http://localhost:%d to start rendering", cfg.Port)

	if err := server.NewServer(cfg).Run(ctx); err != nil {
		glog.Errorf("Error running server: %v", err)
		glog.Flush()
		os.Exit(1)
	}
}
