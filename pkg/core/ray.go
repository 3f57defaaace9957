package core

// Ray represents a ray with an origin and direction
type Ray struct {
	Origin    Point3
	Direction Vec3
}

// NewRay creates a new ray
func NewRay(origin Point3, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Point3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// MaterialIndex is a non-owning handle into a material table
type MaterialIndex int

// HitRecord contains information about a ray-surface intersection
type HitRecord struct {
	Point     Point3
	Normal    Vec3 // always points against the incoming ray
	T         float64
	FrontFace bool
	Material  MaterialIndex
}

// SetFaceNormal sets the normal vector and determines if ray hits front face.
// outwardNormal is assumed to have unit length.
func (h *HitRecord) SetFaceNormal(ray Ray, outwardNormal Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}
