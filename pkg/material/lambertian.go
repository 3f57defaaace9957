package material

import (
	"github.com/df07/go-scanline-tracer/pkg/core"
)

// NewLambertian creates a new diffuse material
func NewLambertian(albedo core.Color) Material {
	return Material{Kind: Lambertian, Albedo: albedo}
}

func scatterLambertian(m Material, hit core.HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	direction := hit.Normal.Add(core.RandomUnitVector(sampler))

	// Catch degenerate scatter direction
	if direction.NearZero() {
		direction = hit.Normal
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: m.Albedo,
	}, true
}
