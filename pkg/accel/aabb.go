// Package accel holds the triangle-mesh KD-tree acceleration structure and
// the SPPM view-point KD-tree, both built on the same slab-tested AABB.
package accel

import "github.com/df07/cg-tracing/pkg/core"

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max core.Vec3
}

// Union returns the smallest AABB containing both a and b.
func Union(a, b AABB) AABB {
	return AABB{Min: a.Min.Min(b.Min), Max: a.Max.Max(b.Max)}
}

// Expand grows the box by r on every side, used by the SPPM view-point tree
// so node bounds account for the current gather radius.
func (b AABB) Expand(r float64) AABB {
	d := core.NewVec3(r, r, r)
	return AABB{Min: b.Min.Subtract(d), Max: b.Max.Add(d)}
}

// Hit implements the slab test: it precomputes the sign of each inverse
// direction component to decide which corner is "near" per axis, clamps
// t_min to zero, and returns (t_enter, t_exit) or false on a miss.
func (b AABB) Hit(origin, invDirect core.Vec3) (tMin, tMax float64, hit bool) {
	near := func(axis int) float64 {
		if invDirect.Component(axis) < 0 {
			return b.Max.Component(axis)
		}
		return b.Min.Component(axis)
	}
	far := func(axis int) float64 {
		if invDirect.Component(axis) < 0 {
			return b.Min.Component(axis)
		}
		return b.Max.Component(axis)
	}

	tMin = (near(0) - origin.X) * invDirect.X
	tMax = (far(0) - origin.X) * invDirect.X
	if tMin < 0 {
		tMin = 0
	}

	tyMin := (near(1) - origin.Y) * invDirect.Y
	tyMax := (far(1) - origin.Y) * invDirect.Y
	if tMin > tyMax || tyMin > tMax {
		return 0, 0, false
	}
	if tyMin > tMin {
		tMin = tyMin
	}
	if tyMax < tMax {
		tMax = tyMax
	}

	tzMin := (near(2) - origin.Z) * invDirect.Z
	tzMax := (far(2) - origin.Z) * invDirect.Z
	if tMin > tzMax || tzMin > tMax {
		return 0, 0, false
	}
	if tzMin > tMin {
		tMin = tzMin
	}
	if tzMax < tMax {
		tMax = tzMax
	}

	if tMin > tMax {
		return 0, 0, false
	}
	return tMin, tMax, true
}
