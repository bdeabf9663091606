package integrator

import (
	"github.com/df07/cg-tracing/pkg/core"
	"github.com/df07/cg-tracing/pkg/geometry"
	"github.com/df07/cg-tracing/pkg/scene"
	"github.com/df07/cg-tracing/pkg/texture"
)

// PathTracer implements the PT estimator of §4.6.
type PathTracer struct {
	Scene *scene.Scene
}

// Trace walks one camera path, applying Russian-roulette continuation and
// the BSDF machine of §4.4 at each hit.
func (pt *PathTracer) Trace(ray core.Ray, depth int, rng *core.RNG) core.Vec3 {
	hit, ok := pt.Scene.Find(ray)
	if !ok {
		return core.Zero
	}

	depth++
	if depth > pt.Scene.MaxDepth {
		return hit.Texture.Emission
	}

	color, alive := russianRoulette(depth, hit.Texture.Color, rng)
	if !alive {
		return hit.Texture.Emission
	}

	return hit.Texture.Emission.Add(color.MultiplyVec(pt.scatter(ray, hit, depth, rng)))
}

// scatter samples the BSDF branch selected by the hit's material and
// recurses through it.
func (pt *PathTracer) scatter(ray core.Ray, hit geometry.HitResult, depth int, rng *core.RNG) core.Vec3 {
	norm := hit.Norm
	nd := norm.Dot(ray.Direct)

	switch hit.Texture.Material {
	case texture.Diffuse:
		w := orientedNormal(norm, nd)
		d := diffuseDirection(w, rng)
		return pt.Trace(core.NewRay(hit.Pos, d), depth, rng)

	case texture.Specular:
		d := specularDirection(ray.Direct, norm)
		return pt.Trace(core.NewRay(hit.Pos, d), depth, rng)

	default: // Refractive
		return pt.refract(ray, hit, norm, nd, depth, rng)
	}
}

func (pt *PathTracer) refract(ray core.Ray, hit geometry.HitResult, norm core.Vec3, nd float64, depth int, rng *core.RNG) core.Vec3 {
	reflRay := core.NewRay(hit.Pos, specularDirection(ray.Direct, norm))

	w := orientedNormal(norm, nd)
	rf := computeRefraction(pt.Scene.Na, pt.Scene.Ng, pt.Scene.R0, norm, w, ray.Direct)
	if rf.totalInternal {
		return pt.Trace(reflRay, depth, rng)
	}
	refrRay := core.NewRay(hit.Pos, rf.transmit)

	if depth > 2 {
		p := 0.25 + 0.5*rf.re
		if rng.Float64() < p {
			return pt.Trace(reflRay, depth, rng).Multiply(rf.re / p)
		}
		return pt.Trace(refrRay, depth, rng).Multiply(rf.tr / (1 - p))
	}
	return pt.Trace(reflRay, depth, rng).Multiply(rf.re).
		Add(pt.Trace(refrRay, depth, rng).Multiply(rf.tr))
}
