package material

import (
	"math"

	"github.com/df07/go-scanline-tracer/pkg/core"
)

// NewDielectric creates a clear refractive material surrounded by air
func NewDielectric(refractiveIndex float64) Material {
	return Material{Kind: Dielectric, Albedo: core.NewColor(1, 1, 1), FuzzOrIOR: refractiveIndex}
}

// RefractiveIndex returns the index of refraction of a dielectric
func (m Material) RefractiveIndex() float64 {
	if m.Kind != Dielectric {
		return 1
	}
	return m.FuzzOrIOR
}

func scatterDielectric(m Material, rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	// Clear glass does not tint
	attenuation := core.NewColor(1.0, 1.0, 1.0)

	// Entering from air or exiting into air
	refractionRatio := m.FuzzOrIOR
	if hit.FrontFace {
		refractionRatio = 1.0 / m.FuzzOrIOR
	}

	unitDirection := rayIn.Direction.Normalize()
	cosTheta := math.Min(-unitDirection.Dot(hit.Normal), 1.0)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)

	// Check for total internal reflection
	cannotRefract := refractionRatio*sinTheta > 1.0

	var direction core.Vec3
	if cannotRefract || Reflectance(cosTheta, refractionRatio) > sampler.Get1D() {
		direction = core.Reflect(unitDirection, hit.Normal)
	} else {
		direction = core.Refract(unitDirection, hit.Normal, refractionRatio)
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: attenuation,
	}, true
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
