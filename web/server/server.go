package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/df07/go-scanline-tracer/pkg/config"
	"github.com/df07/go-scanline-tracer/pkg/loaders"
	"github.com/df07/go-scanline-tracer/pkg/renderer"
	"github.com/df07/go-scanline-tracer/pkg/scene"
)

// Request limits shared by every endpoint that builds a scene
const (
	minImageSize = 16
	maxImageSize = 2000
	maxSamples   = 10000
	maxDepth     = 100
)

// Server handles web requests for the scanline tracer
type Server struct {
	port      int
	scenesDir string
	origins   []string
	workers   int
	router    *mux.Router
}

// NewServer creates a new web server
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		port:      cfg.Port,
		scenesDir: cfg.ScenesDir,
		origins:   cfg.Origins(),
		workers:   cfg.Workers,
		router:    mux.NewRouter(),
	}

	s.router.HandleFunc("/api/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/api/scenes", s.handleScenes).Methods("GET")
	s.router.HandleFunc("/api/scene-config", s.handleSceneConfig).Methods("GET")
	s.router.HandleFunc("/api/inspect", s.handleInspect).Methods("GET")
	s.router.HandleFunc("/api/gpu-buffers", s.handleGPUBuffers).Methods("GET")
	s.router.HandleFunc("/api/render", s.handleRender).Methods("GET")

	return s
}

// Handler returns the router serving every endpoint
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", s.port),
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		glog.Infof("Starting web server on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("while serving: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		glog.Info("Shutting down web server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes followed by the files in the scenes directory
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		glog.Errorf("Listing scenes in %s: %v", s.scenesDir, err)
		writeError(w, http.StatusInternalServerError, "failed to list scenes")
		return
	}
	writeJSON(w, http.StatusOK, scenes)
}

// handleSceneConfig returns the default camera of a scene with request limits
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneID := r.URL.Query().Get("scene")
	sceneObj, err := s.createScene(sceneID, 0, renderer.CameraConfig{})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	camera := sceneObj.GetCamera().Config()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"scene":      sceneID,
		"primitives": sceneObj.GetPrimitiveCount(),
		"defaults": map[string]interface{}{
			"width":           camera.Width,
			"height":          camera.Height,
			"samplesPerPixel": camera.SamplesPerPixel,
			"maxDepth":        camera.MaxDepth,
		},
		"limits": map[string]interface{}{
			"width":           map[string]int{"min": minImageSize, "max": maxImageSize},
			"height":          map[string]int{"min": minImageSize, "max": maxImageSize},
			"samplesPerPixel": map[string]int{"min": 1, "max": maxSamples},
			"maxDepth":        map[string]int{"min": 1, "max": maxDepth},
		},
	})
}

// createScene builds a scene for a request. Only built-in IDs and
// "yaml:" names are accepted; raw file paths are not reachable over HTTP.
func (s *Server) createScene(id string, seed int64, overrides renderer.CameraConfig) (*scene.Scene, error) {
	if !strings.HasPrefix(id, scene.YAMLScenePrefix) && loaders.IsSceneFile(id) {
		return nil, fmt.Errorf("unknown scene %q", id)
	}
	return scene.CreateScene(id, scene.CreateOptions{
		ScenesDir:       s.scenesDir,
		Seed:            seed,
		CameraOverrides: overrides,
	})
}

// parseCameraParams reads the optional size, samples and depth overrides.
// Absent parameters stay zero so the scene keeps its own values.
func parseCameraParams(values url.Values) (renderer.CameraConfig, error) {
	var cfg renderer.CameraConfig
	var err error
	if cfg.Width, err = parseIntParam(values, "width", 0, minImageSize, maxImageSize); err != nil {
		return cfg, err
	}
	if cfg.Height, err = parseIntParam(values, "height", 0, minImageSize, maxImageSize); err != nil {
		return cfg, err
	}
	if cfg.SamplesPerPixel, err = parseIntParam(values, "samples", 0, 1, maxSamples); err != nil {
		return cfg, err
	}
	if cfg.MaxDepth, err = parseIntParam(values, "maxDepth", 0, 1, maxDepth); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseSeedParam parses an optional 64-bit seed
func parseSeedParam(values url.Values) (int64, error) {
	value := values.Get("seed")
	if value == "" {
		return 0, nil
	}
	seed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seed: %s", value)
	}
	return seed, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		glog.Warningf("Writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
