package types

// A ray with a normalized direction.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// Create a new ray. The direction is normalized.
func NewRay(origin, dir Vec3) Ray {
	return Ray{
		Origin: origin,
		Dir:    dir.Normalize(),
	}
}

// Get the point along the ray at distance t from its origin.
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}
