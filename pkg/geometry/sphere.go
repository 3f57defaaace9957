package geometry

import (
	"math"

	"github.com/df07/go-scanline-tracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Point3
	Radius   float64
	Material core.MaterialIndex
}

// NewSphere creates a new sphere. Negative radii are clamped to zero,
// which produces a sphere that is never hit.
func NewSphere(center core.Point3, radius float64, material core.MaterialIndex) Sphere {
	return Sphere{
		Center:   center,
		Radius:   max(0, radius),
		Material: material,
	}
}

// Hit tests if a ray intersects with the sphere
func (s Sphere) Hit(ray core.Ray, rayT core.Interval) (core.HitRecord, bool) {
	return hitSphere(s.Center, s.Radius, s.Material, ray, rayT)
}

// hitSphere is the single intersection routine shared by Sphere and World
func hitSphere(center core.Point3, radius float64, mat core.MaterialIndex, ray core.Ray, rayT core.Interval) (core.HitRecord, bool) {
	if radius <= 0 {
		return core.HitRecord{}, false
	}

	// Vector from ray origin to sphere center
	oc := center.Subtract(ray.Origin)

	// Quadratic coefficients in half-b form
	a := ray.Direction.LengthSquared()
	h := ray.Direction.Dot(oc)
	c := oc.LengthSquared() - radius*radius

	discriminant := h*h - a*c
	if discriminant < 0 || a == 0 {
		return core.HitRecord{}, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (h - sqrtD) / a
	if !rayT.Surrounds(root) {
		// Try the farther intersection point
		root = (h + sqrtD) / a
		if !rayT.Surrounds(root) {
			return core.HitRecord{}, false
		}
	}

	hit := core.HitRecord{
		T:        root,
		Point:    ray.At(root),
		Material: mat,
	}

	// Outward normal points from center to hit point
	outwardNormal := hit.Point.Subtract(center).Divide(radius)
	hit.SetFaceNormal(ray, outwardNormal)

	return hit, true
}
