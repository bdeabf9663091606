package geometry

import (
	"math"

	"github.com/df07/cg-tracing/pkg/core"
	"github.com/df07/cg-tracing/pkg/texture"
)

// Sphere is an analytic sphere; its center comes from a Transform so scene
// files can place it with the same shift/scale/rotate steps as any object.
type Sphere struct {
	Radius    float64
	Transform *core.Transform
	Texture   texture.Texture

	center core.Vec3
}

// NewSphere builds a sphere of the given radius, positioned by transform.
func NewSphere(radius float64, transform *core.Transform, tex texture.Texture) *Sphere {
	return &Sphere{Radius: radius, Transform: transform, Texture: tex}
}

// Init resolves the sphere's center from its transform.
func (s *Sphere) Init() error {
	s.center = s.Transform.Position()
	return nil
}

// HitT solves the intersection quadratic: op = c - o, b = op.d,
// delta = b^2 - op.op + r^2. The smaller positive root is preferred; if it's
// at or below epsilon, the larger root is tried instead.
func (s *Sphere) HitT(ray core.Ray) (HitTemp, bool) {
	op := s.center.Subtract(ray.Origin)
	b := op.Dot(ray.Direct)
	delta := b*b - op.Dot(op) + s.Radius*s.Radius
	if delta < 0 {
		return HitTemp{}, false
	}
	sq := math.Sqrt(delta)
	if t := b - sq; t > epsilon {
		return HitTemp{T: t}, true
	}
	if t := b + sq; t > epsilon {
		return HitTemp{T: t}, true
	}
	return HitTemp{}, false
}

// Hit computes the shading point and the outward normal (p-c)/r; the sign
// is left as-is since the BSDF machine orients it against the incoming ray.
func (s *Sphere) Hit(ray core.Ray, temp HitTemp) HitResult {
	pos := ray.At(temp.T)
	norm := pos.Subtract(s.center).Divide(s.Radius)
	u := 0.5 + math.Atan2(norm.Z, norm.X)/(2*math.Pi)
	v := 0.5 - math.Asin(norm.Y)/math.Pi
	return HitResult{Pos: pos, Norm: norm, Texture: s.Texture.At(u, v)}
}
