package geometry

import (
	"github.com/df07/go-scanline-tracer/pkg/core"
)

// World holds the scene's spheres as parallel slices. Index i across
// Centers, Radii and Materials describes one sphere, and the order is the
// order spheres were added. The same layout is uploaded to the GPU mirror.
type World struct {
	Centers   []core.Point3
	Radii     []float64
	Materials []core.MaterialIndex
}

// NewWorld creates an empty world with room for capacity spheres
func NewWorld(capacity int) *World {
	return &World{
		Centers:   make([]core.Point3, 0, capacity),
		Radii:     make([]float64, 0, capacity),
		Materials: make([]core.MaterialIndex, 0, capacity),
	}
}

// AddSphere appends a sphere and returns its index
func (w *World) AddSphere(s Sphere) int {
	w.Centers = append(w.Centers, s.Center)
	w.Radii = append(w.Radii, s.Radius)
	w.Materials = append(w.Materials, s.Material)
	return len(w.Centers) - 1
}

// Len returns the number of spheres
func (w *World) Len() int {
	return len(w.Centers)
}

// Sphere reassembles the sphere stored at index i
func (w *World) Sphere(i int) Sphere {
	return Sphere{Center: w.Centers[i], Radius: w.Radii[i], Material: w.Materials[i]}
}

// Clear removes every sphere, keeping the allocated capacity
func (w *World) Clear() {
	w.Centers = w.Centers[:0]
	w.Radii = w.Radii[:0]
	w.Materials = w.Materials[:0]
}

// Hit returns the nearest intersection within rayT by linear scan. Each
// successful hit shrinks the search interval so farther spheres are pruned.
func (w *World) Hit(ray core.Ray, rayT core.Interval) (core.HitRecord, bool) {
	var closest core.HitRecord
	hitAnything := false
	closestSoFar := rayT.Max

	for i := range w.Centers {
		if hit, ok := hitSphere(w.Centers[i], w.Radii[i], w.Materials[i], ray, core.NewInterval(rayT.Min, closestSoFar)); ok {
			hitAnything = true
			closestSoFar = hit.T
			closest = hit
		}
	}

	return closest, hitAnything
}
