// Package integrator implements the BSDF sampling machine shared by the PT
// and SPPM estimators, and the two estimators themselves.
package integrator

import (
	"math"

	"github.com/df07/cg-tracing/pkg/core"
)

// diffuseDirection draws a cosine-weighted hemisphere sample around the
// oriented normal w.
func diffuseDirection(w core.Vec3, rng *core.RNG) core.Vec3 {
	r1 := 2 * math.Pi * rng.Float64()
	r2 := rng.Float64()
	r2s := math.Sqrt(r2)

	axis := core.NewVec3(0, 1, 0)
	if math.Abs(w.X) <= 0.1 {
		axis = core.NewVec3(1, 0, 0)
	}
	u := axis.Cross(w).Normalize()
	v := w.Cross(u)

	d := u.Multiply(math.Cos(r1) * r2s).
		Add(v.Multiply(math.Sin(r1) * r2s)).
		Add(w.Multiply(math.Sqrt(1 - r2)))
	return d.Normalize()
}

// specularDirection reflects d about the raw normal.
func specularDirection(d, norm core.Vec3) core.Vec3 {
	return d.Subtract(norm.Multiply(2 * norm.Dot(d)))
}

// orientedNormal returns w, the normal flipped to face the incoming ray.
func orientedNormal(norm core.Vec3, nd float64) core.Vec3 {
	if nd < 0 {
		return norm
	}
	return norm.Negate()
}

// refraction holds the dielectric branch computed at a hit.
type refraction struct {
	totalInternal bool
	transmit      core.Vec3
	re, tr        float64
}

// computeRefraction derives the transmitted direction and Schlick
// reflectance for a dielectric interaction. norm is the raw geometric
// normal, w the oriented normal, d the incoming ray direction.
func computeRefraction(na, ng, r0 float64, norm, w, d core.Vec3) refraction {
	entering := norm.Dot(w) > 0
	ddw := d.Dot(w)

	eta, sign := ng/na, -1.0
	if entering {
		eta, sign = na/ng, 1.0
	}

	cos2t := 1 - eta*eta*(1-ddw*ddw)
	if cos2t < 0 {
		return refraction{totalInternal: true}
	}

	transmit := d.Multiply(eta).
		Subtract(norm.Multiply((ddw*eta + math.Sqrt(cos2t)) * sign)).
		Normalize()

	c := 1 - transmit.Dot(norm)
	if entering {
		c = 1 + ddw
	}
	cc := c * c
	re := r0 + (1-r0)*cc*cc*c
	return refraction{transmit: transmit, re: re, tr: 1 - re}
}

// russianRoulette applies the depth>5 continuation test of §4.5 to an
// albedo color, returning the (possibly rescaled) color and whether the
// path survives.
func russianRoulette(depth int, color core.Vec3, rng *core.RNG) (core.Vec3, bool) {
	if depth <= 5 {
		return color, true
	}
	p := color.MaxComponent()
	if rng.Float64() < p {
		return color.Divide(p), true
	}
	return color, false
}
