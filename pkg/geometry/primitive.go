// Package geometry implements the primitive capability set (hit_t/hit/init)
// over spheres, planes, triangle meshes and bezier-revolution surfaces.
package geometry

import (
	"math"

	"github.com/df07/cg-tracing/pkg/core"
	"github.com/df07/cg-tracing/pkg/texture"
)

const epsilon = 1e-9

var posInf = math.Inf(1)

// HitTemp is the opaque per-primitive intersection parameter returned by
// HitT and consumed by Hit: a ray parameter t plus whatever extra data the
// primitive needs to shade the point (triangle index + barycentrics for a
// mesh, nothing for sphere/plane).
type HitTemp struct {
	T     float64
	Extra any
}

// MeshExtra is the Extra payload a Mesh attaches to its HitTemp.
type MeshExtra struct {
	Triangle int
	U, V     float64
}

// HitResult is the shading input produced at a confirmed intersection.
type HitResult struct {
	Pos     core.Vec3
	Norm    core.Vec3
	Texture texture.Raw
}

// Primitive is the capability set every scene object implements.
type Primitive interface {
	// Init performs one-time setup: loading mesh/image assets, normalizing
	// frames, building spatial trees. Called once before render begins.
	Init() error

	// HitT returns the nearest positive intersection parameter along ray,
	// or false if there is none.
	HitT(ray core.Ray) (HitTemp, bool)

	// Hit produces the shading inputs at the intersection found by HitT.
	Hit(ray core.Ray, temp HitTemp) HitResult
}
