package material

import (
	"github.com/df07/go-scanline-tracer/pkg/core"
)

// NewMetal creates a new metal material
func NewMetal(albedo core.Color, fuzz float64) Material {
	// Clamp fuzz to valid range
	fuzz = max(0.0, min(1.0, fuzz))
	return Material{Kind: Metal, Albedo: albedo, FuzzOrIOR: fuzz}
}

// Fuzz returns the reflection perturbation radius of a metal
func (m Material) Fuzz() float64 {
	if m.Kind != Metal {
		return 0
	}
	return m.FuzzOrIOR
}

func scatterMetal(m Material, rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	reflected := core.Reflect(rayIn.Direction, hit.Normal).Normalize()

	// A perfect mirror draws no random numbers
	if m.FuzzOrIOR > 0 {
		reflected = reflected.Add(core.RandomUnitVector(sampler).Multiply(m.FuzzOrIOR))
	}

	scattered := core.NewRay(hit.Point, reflected)

	// Perturbed rays that end up below the surface are absorbed
	scatters := scattered.Direction.Dot(hit.Normal) > 0

	return ScatterResult{
		Scattered:   scattered,
		Attenuation: m.Albedo,
	}, scatters
}
