package renderer

import (
	"github.com/df07/go-scanline-tracer/pkg/core"
	"github.com/df07/go-scanline-tracer/pkg/geometry"
	"github.com/df07/go-scanline-tracer/pkg/material"
)

// testScene is a minimal Scene built directly from its parts
type testScene struct {
	camera    *Camera
	world     *geometry.World
	materials *material.Table
}

func (s *testScene) GetCamera() *Camera { return s.camera }
func (s *testScene) GetWorld() geometry.Hittable { return s.world }
func (s *testScene) GetMaterials() *material.Table { return s.materials }

// newFlatTestScene looks down at a giant diffuse sphere under a uniform white sky
func newFlatTestScene(width, height int, albedo core.Color) *testScene {
	materials := material.NewTable()
	ground := materials.Add(material.NewLambertian(albedo))
	world := geometry.NewWorld(1)
	world.AddSphere(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, ground))

	white := core.NewColor(1, 1, 1)
	camera := NewCamera(CameraConfig{
		Width:            width,
		Height:           height,
		Center:           core.NewVec3(0, 1, 0),
		LookAt:           core.NewVec3(0, 0, -1),
		Up:               core.NewVec3(0, 1, 0),
		VFov:             20,
		SamplesPerPixel:  1,
		MaxDepth:         2,
		BackgroundTop:    white,
		BackgroundBottom: white,
	})
	return &testScene{camera: camera, world: world, materials: materials}
}

// newSpheresTestScene is a small scene exercising every material kind
func newSpheresTestScene(width, height int) *testScene {
	materials := material.NewTable()
	ground := materials.Add(material.NewLambertian(core.NewColor(0.8, 0.8, 0.0)))
	center := materials.Add(material.NewLambertian(core.NewColor(0.1, 0.2, 0.5)))
	glass := materials.Add(material.NewDielectric(1.5))
	gold := materials.Add(material.NewMetal(core.NewColor(0.8, 0.6, 0.2), 0.3))

	world := geometry.NewWorld(4)
	world.AddSphere(geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, ground))
	world.AddSphere(geometry.NewSphere(core.NewVec3(0, 0, -1.2), 0.5, center))
	world.AddSphere(geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, glass))
	world.AddSphere(geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, gold))

	config := MergeCameraConfig(DefaultCameraConfig(), CameraConfig{
		Width:           width,
		Height:          height,
		SamplesPerPixel: 4,
		MaxDepth:        5,
		Gamma:           2,
	})
	return &testScene{camera: NewCamera(config), world: world, materials: materials}
}
