package scene

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/df07/go-scanline-tracer/pkg/core"
	"github.com/df07/go-scanline-tracer/pkg/loaders"
	"github.com/df07/go-scanline-tracer/pkg/material"
	"github.com/df07/go-scanline-tracer/pkg/renderer"
)

// NewYAMLScene creates a scene from a YAML scene file
func NewYAMLScene(filename string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	sf, err := loaders.LoadSceneFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene file: %w", err)
	}

	name := sf.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	return buildScene(name, sf, cameraOverrides...)
}

// buildScene converts a parsed scene file into a renderable scene
func buildScene(name string, sf *loaders.SceneFile, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	fileCamera, err := convertCamera(sf.Camera)
	if err != nil {
		return nil, fmt.Errorf("failed to convert camera: %w", err)
	}
	cameraConfig := renderer.MergeCameraConfig(renderer.DefaultCameraConfig(), fileCamera)
	// Zero is a real value for these two but means "unset" to the merge
	if sf.Camera.DefocusAngle != nil {
		cameraConfig.DefocusAngle = *sf.Camera.DefocusAngle
	}
	if sf.Camera.MaxDepth != nil {
		cameraConfig.MaxDepth = *sf.Camera.MaxDepth
	}
	s := NewScene(name, mergeOverrides(cameraConfig, cameraOverrides...))

	// Convert all materials first
	byName := make(map[string]core.MaterialIndex, len(sf.Materials))
	for i, decl := range sf.Materials {
		if decl.Name == "" {
			return nil, fmt.Errorf("material %d has no name", i)
		}
		if _, exists := byName[decl.Name]; exists {
			return nil, fmt.Errorf("material %q defined twice", decl.Name)
		}
		mat, err := convertMaterial(decl)
		if err != nil {
			return nil, fmt.Errorf("failed to convert material %q: %w", decl.Name, err)
		}
		byName[decl.Name] = s.AddMaterial(mat)
	}

	for i, decl := range sf.Spheres {
		mat, ok := byName[decl.Material]
		if !ok {
			return nil, fmt.Errorf("sphere %d uses undefined material %q", i, decl.Material)
		}
		center, err := loaders.Vec3(decl.Center, "center")
		if err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
		s.AddSphere(center, decl.Radius, mat)
	}

	return s, nil
}

func convertMaterial(decl loaders.MaterialDecl) (material.Material, error) {
	kind, err := material.ParseKind(decl.Kind)
	if err != nil {
		return material.Material{}, err
	}

	switch kind {
	case material.Lambertian, material.Metal:
		albedo, err := loaders.Vec3(decl.Albedo, "albedo")
		if err != nil {
			return material.Material{}, err
		}
		if kind == material.Metal {
			return material.NewMetal(albedo, decl.Fuzz), nil
		}
		return material.NewLambertian(albedo), nil
	default:
		if decl.IOR <= 0 {
			return material.Material{}, fmt.Errorf("ior must be positive, got %v", decl.IOR)
		}
		return material.NewDielectric(decl.IOR), nil
	}
}

func convertCamera(section loaders.CameraSection) (renderer.CameraConfig, error) {
	config := renderer.CameraConfig{
		Width:           section.Width,
		Height:          section.Height,
		VFov:            section.VFov,
		FocusDistance:   section.FocusDistance,
		SamplesPerPixel: section.SamplesPerPixel,
		Gamma:           section.Gamma,
	}

	vectors := []struct {
		field  string
		values []float64
		dest   *core.Vec3
	}{
		{"center", section.Center, &config.Center},
		{"lookAt", section.LookAt, &config.LookAt},
		{"up", section.Up, &config.Up},
		{"backgroundTop", section.BackgroundTop, &config.BackgroundTop},
		{"backgroundBottom", section.BackgroundBottom, &config.BackgroundBottom},
	}
	for _, v := range vectors {
		vec, err := loaders.OptionalVec3(v.values, v.field)
		if err != nil {
			return renderer.CameraConfig{}, err
		}
		*v.dest = vec
	}
	return config, nil
}
