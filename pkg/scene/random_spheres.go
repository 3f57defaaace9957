package scene

import (
	"math/rand"

	"github.com/df07/go-scanline-tracer/pkg/core"
	"github.com/df07/go-scanline-tracer/pkg/material"
	"github.com/df07/go-scanline-tracer/pkg/renderer"
)

// NewRandomSpheresScene creates a field of small random spheres around
// three large feature spheres. The same seed always builds the same world.
func NewRandomSpheresScene(seed int64, cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.MergeCameraConfig(renderer.DefaultCameraConfig(), renderer.CameraConfig{
		Width:           800,
		Height:          450,
		Center:          core.NewVec3(13, 2, 3),
		LookAt:          core.NewVec3(0, 0, 0),
		Up:              core.NewVec3(0, 1, 0),
		VFov:            20,
		DefocusAngle:    0.6,
		FocusDistance:   10,
		SamplesPerPixel: 20,
		MaxDepth:        10,
		Gamma:           2,
	})

	s := NewScene("random-spheres", mergeOverrides(defaultCameraConfig, cameraOverrides...))
	random := rand.New(rand.NewSource(seed))
	sampler := core.NewRandomSampler(random)

	ground := s.AddMaterial(material.NewLambertian(core.NewColor(0.5, 0.5, 0.5)))
	s.AddSphere(core.NewVec3(0, -1000, 0), 1000, ground)

	// Keep the small spheres clear of the big metal one
	clearing := core.NewVec3(4, 0.2, 0)
	glass := s.AddMaterial(material.NewDielectric(1.5))

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := random.Float64()
			center := core.NewVec3(float64(a)+0.9*random.Float64(), 0.2, float64(b)+0.9*random.Float64())
			if center.Subtract(clearing).Length() <= 0.9 {
				continue
			}

			switch {
			case chooseMat < 0.8:
				// Diffuse
				albedo := randomColor(sampler, 0, 1).MultiplyVec(randomColor(sampler, 0, 1))
				s.AddSphere(center, 0.2, s.AddMaterial(material.NewLambertian(albedo)))
			case chooseMat < 0.95:
				// Metal
				albedo := randomColor(sampler, 0.5, 1)
				fuzz := core.RandomInRange(sampler, 0, 0.5)
				s.AddSphere(center, 0.2, s.AddMaterial(material.NewMetal(albedo, fuzz)))
			default:
				s.AddSphere(center, 0.2, glass)
			}
		}
	}

	s.AddSphere(core.NewVec3(0, 1, 0), 1.0, glass)
	s.AddSphere(core.NewVec3(-4, 1, 0), 1.0, s.AddMaterial(material.NewLambertian(core.NewColor(0.4, 0.2, 0.1))))
	s.AddSphere(core.NewVec3(4, 1, 0), 1.0, s.AddMaterial(material.NewMetal(core.NewColor(0.7, 0.6, 0.5), 0.0)))

	return s
}

// randomColor returns a color with each channel uniform in [lo, hi)
func randomColor(sampler core.Sampler, lo, hi float64) core.Color {
	return core.NewColor(
		core.RandomInRange(sampler, lo, hi),
		core.RandomInRange(sampler, lo, hi),
		core.RandomInRange(sampler, lo, hi),
	)
}
