package scene

import (
	"github.com/df07/go-scanline-tracer/pkg/core"
	"github.com/df07/go-scanline-tracer/pkg/geometry"
	"github.com/df07/go-scanline-tracer/pkg/material"
	"github.com/df07/go-scanline-tracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name         string
	CameraConfig renderer.CameraConfig
	Materials    *material.Table // Arena referenced by the world's material handles
	World        *geometry.World // Spheres in insertion order

	camera *renderer.Camera
}

// NewScene creates an empty scene viewed through cameraConfig
func NewScene(name string, cameraConfig renderer.CameraConfig) *Scene {
	return &Scene{
		Name:         name,
		CameraConfig: cameraConfig,
		Materials:    material.NewTable(),
		World:        geometry.NewWorld(0),
		camera:       renderer.NewCamera(cameraConfig),
	}
}

// AddMaterial stores a material and returns its handle
func (s *Scene) AddMaterial(m material.Material) core.MaterialIndex {
	return s.Materials.Add(m)
}

// AddSphere adds a sphere using a previously added material
func (s *Scene) AddSphere(center core.Point3, radius float64, mat core.MaterialIndex) int {
	return s.World.AddSphere(geometry.NewSphere(center, radius, mat))
}

// SetCameraConfig replaces the camera configuration and rebuilds the camera
func (s *Scene) SetCameraConfig(config renderer.CameraConfig) {
	s.CameraConfig = config
	s.camera = renderer.NewCamera(config)
}

// GetCamera returns the scene camera
func (s *Scene) GetCamera() *renderer.Camera {
	return s.camera
}

// GetWorld returns the sphere list used for intersection
func (s *Scene) GetWorld() geometry.Hittable {
	return s.World
}

// GetMaterials returns the material arena
func (s *Scene) GetMaterials() *material.Table {
	return s.Materials
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Len()
}

// mergeOverrides applies the first of cameraOverrides, if any, to defaults
func mergeOverrides(defaults renderer.CameraConfig, cameraOverrides ...renderer.CameraConfig) renderer.CameraConfig {
	if len(cameraOverrides) > 0 {
		return renderer.MergeCameraConfig(defaults, cameraOverrides[0])
	}
	return defaults
}
