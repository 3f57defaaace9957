package scene

import (
	"github.com/df07/go-scanline-tracer/pkg/core"
	"github.com/df07/go-scanline-tracer/pkg/material"
	"github.com/df07/go-scanline-tracer/pkg/renderer"
)

// NewDefaultScene creates a ground sphere with a diffuse, a hollow glass
// and a metal sphere in a row
func NewDefaultScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.MergeCameraConfig(renderer.DefaultCameraConfig(), renderer.CameraConfig{
		Width:  400,
		Height: 225,
		Gamma:  2,
	})

	s := NewScene("default", mergeOverrides(defaultCameraConfig, cameraOverrides...))

	// Create materials
	ground := s.AddMaterial(material.NewLambertian(core.NewColor(0.8, 0.8, 0.0)))
	center := s.AddMaterial(material.NewLambertian(core.NewColor(0.1, 0.2, 0.5)))
	glass := s.AddMaterial(material.NewDielectric(1.5))
	// Air bubble inside the glass: the relative index is inverted
	bubble := s.AddMaterial(material.NewDielectric(1.0 / 1.5))
	gold := s.AddMaterial(material.NewMetal(core.NewColor(0.8, 0.6, 0.2), 1.0))

	s.AddSphere(core.NewVec3(0, -100.5, -1), 100, ground)
	s.AddSphere(core.NewVec3(0, 0, -1.2), 0.5, center)
	s.AddSphere(core.NewVec3(-1, 0, -1), 0.5, glass)
	s.AddSphere(core.NewVec3(-1, 0, -1), 0.4, bubble)
	s.AddSphere(core.NewVec3(1, 0, -1), 0.5, gold)

	return s
}

// NewFlatScene looks down at a single giant diffuse sphere under a
// uniform white sky. With one bounce of budget to reach the sky, every
// pixel comes out as exactly albedo.
func NewFlatScene(albedo core.Color, cameraOverrides ...renderer.CameraConfig) *Scene {
	white := core.NewColor(1, 1, 1)
	defaultCameraConfig := renderer.CameraConfig{
		Width:            4,
		Height:           3,
		Center:           core.NewVec3(0, 1, 0),
		LookAt:           core.NewVec3(0, 0, -1),
		Up:               core.NewVec3(0, 1, 0),
		VFov:             20,
		SamplesPerPixel:  1,
		MaxDepth:         2,
		BackgroundTop:    white,
		BackgroundBottom: white,
	}

	s := NewScene("flat", mergeOverrides(defaultCameraConfig, cameraOverrides...))
	ground := s.AddMaterial(material.NewLambertian(albedo))
	s.AddSphere(core.NewVec3(0, -1000, 0), 1000, ground)
	return s
}
