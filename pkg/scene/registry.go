package scene

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/df07/go-scanline-tracer/pkg/core"
	"github.com/df07/go-scanline-tracer/pkg/loaders"
	"github.com/df07/go-scanline-tracer/pkg/renderer"
)

// Built-in scene identifiers
const (
	DefaultSceneID       = "default"
	RandomSpheresSceneID = "random-spheres"
	SphereGridSceneID    = "sphere-grid"
	FlatSceneID          = "flat"
)

// YAMLScenePrefix marks scene IDs that refer to files in the scenes directory
const YAMLScenePrefix = "yaml:"

// CreateOptions controls how CreateScene resolves and builds a scene
type CreateOptions struct {
	ScenesDir       string                // Directory searched for "yaml:" scene IDs
	Seed            int64                 // Seed for procedurally generated scenes
	CameraOverrides renderer.CameraConfig // Non-zero fields replace scene defaults
}

// CreateScene builds a scene by ID. IDs are either built-in names,
// "yaml:<name>" for a file in the scenes directory, or a path to a
// .yaml file.
func CreateScene(id string, opts CreateOptions) (*Scene, error) {
	overrides := opts.CameraOverrides

	switch id {
	case DefaultSceneID, "":
		return NewDefaultScene(overrides), nil
	case RandomSpheresSceneID:
		return NewRandomSpheresScene(opts.Seed, overrides), nil
	case SphereGridSceneID:
		return NewSphereGridScene(overrides), nil
	case FlatSceneID:
		return NewFlatScene(core.NewColor(0.5, 0.5, 0.5), overrides), nil
	}

	if name, ok := strings.CutPrefix(id, YAMLScenePrefix); ok {
		if strings.ContainsAny(name, `/\`) {
			return nil, fmt.Errorf("invalid scene name %q", name)
		}
		return NewYAMLScene(filepath.Join(opts.ScenesDir, name+".yaml"), overrides)
	}
	if loaders.IsSceneFile(id) {
		return NewYAMLScene(id, overrides)
	}

	return nil, fmt.Errorf("unknown scene %q", id)
}
