package geometry

import (
	"github.com/df07/go-scanline-tracer/pkg/core"
)

// Hittable is anything a ray can be intersected with. Only hits whose
// parameter lies strictly inside the interval are reported.
type Hittable interface {
	Hit(ray core.Ray, rayT core.Interval) (core.HitRecord, bool)
}
