package material

import (
	"fmt"

	"github.com/df07/go-scanline-tracer/pkg/core"
)

// Kind tags a material variant. The numeric values are shared with the
// GPU mirror buffers and must stay stable.
type Kind uint32

const (
	Lambertian Kind = iota
	Metal
	Dielectric
)

// String returns the lowercase name used in scene files
func (k Kind) String() string {
	switch k {
	case Lambertian:
		return "lambertian"
	case Metal:
		return "metal"
	case Dielectric:
		return "dielectric"
	default:
		return fmt.Sprintf("kind(%d)", uint32(k))
	}
}

// ParseKind converts a scene file material name into a Kind
func ParseKind(s string) (Kind, error) {
	switch s {
	case "lambertian", "diffuse":
		return Lambertian, nil
	case "metal":
		return Metal, nil
	case "dielectric", "glass":
		return Dielectric, nil
	}
	return 0, fmt.Errorf("unknown material kind %q", s)
}

// Material is a closed tagged variant over the supported surface models.
// FuzzOrIOR holds the fuzz radius for Metal and the refractive index for
// Dielectric; it is unused for Lambertian.
type Material struct {
	Kind      Kind
	Albedo    core.Color
	FuzzOrIOR float64
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray   // The scattered ray
	Attenuation core.Color // Color attenuation
}

// Scatter dispatches to the scattering model selected by Kind.
// It reports false when the ray is absorbed.
func (m Material) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	switch m.Kind {
	case Lambertian:
		return scatterLambertian(m, hit, sampler)
	case Metal:
		return scatterMetal(m, rayIn, hit, sampler)
	case Dielectric:
		return scatterDielectric(m, rayIn, hit, sampler)
	default:
		return ScatterResult{}, false
	}
}
