// Package config reads tracer settings from TRACER_* environment variables.
// Command-line flags take precedence over anything set here.
package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/df07/go-scanline-tracer/pkg/renderer"
)

// Config holds settings shared by the CLI and the web server
type Config struct {
	Width          int    `envconfig:"WIDTH" default:"0"`
	Height         int    `envconfig:"HEIGHT" default:"0"`
	Samples        int    `envconfig:"SAMPLES" default:"0"`
	MaxDepth       int    `envconfig:"MAX_DEPTH" default:"0"`
	Workers        int    `envconfig:"WORKERS" default:"0"`
	Seed           int64  `envconfig:"SEED" default:"0"`
	Port           int    `envconfig:"PORT" default:"8080"`
	ScenesDir      string `envconfig:"SCENES_DIR" default:"scenes"`
	OutputDir      string `envconfig:"OUTPUT_DIR" default:"output"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"localhost:*,127.0.0.1:*"`
}

// Load reads and validates the environment
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("tracer", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects negative sizes and out of range ports
func (c *Config) Validate() error {
	for name, v := range map[string]int{
		"width":     c.Width,
		"height":    c.Height,
		"samples":   c.Samples,
		"max depth": c.MaxDepth,
		"workers":   c.Workers,
	} {
		if v < 0 {
			return fmt.Errorf("config: %s must not be negative, got %d", name, v)
		}
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Port)
	}
	return nil
}

// CameraOverrides returns the camera fields this config sets. Zero fields
// leave the scene's own values alone.
func (c *Config) CameraOverrides() renderer.CameraConfig {
	return renderer.CameraConfig{
		Width:           c.Width,
		Height:          c.Height,
		SamplesPerPixel: c.Samples,
		MaxDepth:        c.MaxDepth,
	}
}

func (c *Config) RenderConfig() renderer.RenderConfig {
	return renderer.RenderConfig{NumWorkers: c.Workers, Seed: c.Seed}
}

// Origins splits AllowedOrigins into websocket origin patterns
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
