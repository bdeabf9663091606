package core

// Ray is a parametric half-line origin + t*direct. Every ray handed to the
// intersection kernel is normalized by the caller; nothing downstream
// renormalizes Direct.
type Ray struct {
	Origin Vec3
	Direct Vec3
}

// NewRay constructs a ray from an origin and direction.
func NewRay(origin, direct Vec3) Ray {
	return Ray{Origin: origin, Direct: direct}
}

// At evaluates the ray at parameter t.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direct.Multiply(t))
}
