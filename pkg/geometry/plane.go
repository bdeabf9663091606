package geometry

import (
	"math"

	"github.com/df07/cg-tracing/pkg/core"
	"github.com/df07/cg-tracing/pkg/texture"
)

// Plane is an infinite plane given by a local frame (P, X, Y, Z) where Z is
// the normal. The frame comes from a Transform's axes, so Init asserts
// orthonormality rather than trusting the scene file.
type Plane struct {
	Transform *core.Transform
	Texture   texture.Texture

	p, x, y, z core.Vec3
}

// NewPlane builds a plane from a transform whose axes define its frame.
func NewPlane(transform *core.Transform, tex texture.Texture) *Plane {
	return &Plane{Transform: transform, Texture: tex}
}

// Init resolves the plane's frame from its transform and checks that the
// normalized axes are mutually orthogonal, returning errOrthonormality
// when they are not.
func (p *Plane) Init() error {
	p.p = p.Transform.Position()
	p.x = p.Transform.AxisX().Normalize()
	p.y = p.Transform.AxisY().Normalize()
	p.z = p.Transform.AxisZ().Normalize()

	const tol = 1e-6
	if math.Abs(p.x.Dot(p.y)) > tol || math.Abs(p.y.Dot(p.z)) > tol || math.Abs(p.x.Dot(p.z)) > tol {
		return errOrthonormality
	}
	return nil
}

// HitT intersects the plane z=0 in local coordinates: t = n.(p0-o)/n.d,
// miss if |n.d| < epsilon (numerical near-miss, not an error) or t <= epsilon.
func (p *Plane) HitT(ray core.Ray) (HitTemp, bool) {
	nd := p.z.Dot(ray.Direct)
	if math.Abs(nd) < epsilon {
		return HitTemp{}, false
	}
	t := p.z.Dot(p.p.Subtract(ray.Origin)) / nd
	if t <= epsilon {
		return HitTemp{}, false
	}
	return HitTemp{T: t}, true
}

// Hit returns the shading point and the normal flipped to face the
// incoming ray, with UVs from the point's projection onto the local frame.
func (p *Plane) Hit(ray core.Ray, temp HitTemp) HitResult {
	pos := ray.At(temp.T)
	norm := p.z
	if p.z.Dot(ray.Direct) >= 0 {
		norm = p.z.Negate()
	}
	local := pos.Subtract(p.p)
	u, v := local.Dot(p.x), local.Dot(p.y)
	return HitResult{Pos: pos, Norm: norm, Texture: p.Texture.At(u, v)}
}
