package integrator

import (
	"math"

	"github.com/df07/cg-tracing/pkg/accel"
	"github.com/df07/cg-tracing/pkg/core"
	"github.com/df07/cg-tracing/pkg/scene"
	"github.com/df07/cg-tracing/pkg/texture"
)

// fluxEpsilon is the throughput floor below which a photon/view-point path
// is abandoned rather than traced further - it can no longer contribute a
// visible amount of light.
const fluxEpsilon = 1e-4

// ViewPoint is a recorded diffuse-surface interaction from the camera pass,
// later gathered against by incoming photons.
type ViewPoint struct {
	Pos, Norm, Throughput core.Vec3
	PixelIndex            int
}

// PixelFlux accumulates one round's photon contribution for one pixel:
// summed flux and the number of photons that deposited into it.
type PixelFlux struct {
	Flux  core.Vec3
	Count float64
}

// PixelEstimate is the running per-pixel average across SPPM rounds.
type PixelEstimate struct {
	Sum   core.Vec3
	Round float64
}

// Add folds one round's resolved color into the running average.
func (e *PixelEstimate) Add(color core.Vec3) {
	e.Sum = e.Sum.Add(color)
	e.Round++
}

// Color returns the current running average, zero until the first round.
func (e PixelEstimate) Color() core.Vec3 {
	if e.Round == 0 {
		return core.Zero
	}
	return e.Sum.Divide(e.Round)
}

// Color resolves one round's flux/count pair to the per-pixel estimate of
// §4.7: flux divided by contributing photon count, zero if none gathered.
func (f PixelFlux) Color() core.Vec3 {
	if f.Count == 0 {
		return core.Zero
	}
	return f.Flux.Divide(f.Count)
}

// SPPM implements the two-pass Stochastic Progressive Photon Mapping
// estimator of §4.7, sharing the BSDF machine of §4.4 with PathTracer.
type SPPM struct {
	Scene *scene.Scene
}

// CollectViewPoints walks one camera path for pass 1: on a diffuse hit it
// records a ViewPoint and stops; specular/refractive interactions propagate
// throughput and recurse, exactly as the BSDF machine dictates.
func (s *SPPM) CollectViewPoints(ray core.Ray, depth int, rng *core.RNG, throughput core.Vec3, pixelIndex int, points *[]ViewPoint) {
	if throughput.MaxComponent() < fluxEpsilon {
		return
	}
	depth++
	if depth > s.Scene.MaxDepth {
		return
	}

	hit, ok := s.Scene.Find(ray)
	if !ok {
		return
	}

	color, alive := russianRoulette(depth, hit.Texture.Color, rng)
	if !alive {
		return
	}
	throughput = throughput.MultiplyVec(color)

	norm := hit.Norm
	nd := norm.Dot(ray.Direct)

	if hit.Texture.Material == texture.Diffuse {
		*points = append(*points, ViewPoint{Pos: hit.Pos, Norm: norm, Throughput: throughput, PixelIndex: pixelIndex})
		return
	}

	reflRay := core.NewRay(hit.Pos, specularDirection(ray.Direct, norm))
	if hit.Texture.Material == texture.Specular {
		s.CollectViewPoints(reflRay, depth, rng, throughput, pixelIndex, points)
		return
	}

	w := orientedNormal(norm, nd)
	rf := computeRefraction(s.Scene.Na, s.Scene.Ng, s.Scene.R0, norm, w, ray.Direct)
	if rf.totalInternal {
		s.CollectViewPoints(reflRay, depth, rng, throughput, pixelIndex, points)
		return
	}
	refrRay := core.NewRay(hit.Pos, rf.transmit)

	if depth > 2 {
		p := 0.25 + 0.5*rf.re
		if rng.Float64() < p {
			s.CollectViewPoints(reflRay, depth, rng, throughput.Multiply(rf.re/p), pixelIndex, points)
		} else {
			s.CollectViewPoints(refrRay, depth, rng, throughput.Multiply(rf.tr/(1-p)), pixelIndex, points)
		}
		return
	}
	s.CollectViewPoints(reflRay, depth, rng, throughput.Multiply(rf.re), pixelIndex, points)
	s.CollectViewPoints(refrRay, depth, rng, throughput.Multiply(rf.tr), pixelIndex, points)
}

// WalkPhoton traces one photon path for pass 2, gathering against tree at
// every diffuse hit into pixels (a per-thread, per-round scratch array of
// length width*height indexed by ViewPoint.PixelIndex).
func (s *SPPM) WalkPhoton(ray core.Ray, depth int, rng *core.RNG, tree *accel.ViewPointTree, points []ViewPoint, radius float64, throughput core.Vec3, pixels []PixelFlux) {
	if throughput.MaxComponent() < fluxEpsilon {
		return
	}
	depth++
	if depth > s.Scene.MaxDepth {
		return
	}

	hit, ok := s.Scene.Find(ray)
	if !ok {
		return
	}

	color, alive := russianRoulette(depth, hit.Texture.Color, rng)
	if !alive {
		return
	}

	norm := hit.Norm
	nd := norm.Dot(ray.Direct)

	if hit.Texture.Material == texture.Diffuse {
		s.gather(hit.Pos, norm, throughput, tree, points, radius, pixels)
		w := orientedNormal(norm, nd)
		d := diffuseDirection(w, rng)
		s.WalkPhoton(core.NewRay(hit.Pos, d), depth, rng, tree, points, radius, throughput.MultiplyVec(color), pixels)
		return
	}

	throughput = throughput.MultiplyVec(color)
	reflRay := core.NewRay(hit.Pos, specularDirection(ray.Direct, norm))
	if hit.Texture.Material == texture.Specular {
		s.WalkPhoton(reflRay, depth, rng, tree, points, radius, throughput, pixels)
		return
	}

	w := orientedNormal(norm, nd)
	rf := computeRefraction(s.Scene.Na, s.Scene.Ng, s.Scene.R0, norm, w, ray.Direct)
	if rf.totalInternal {
		s.WalkPhoton(reflRay, depth, rng, tree, points, radius, throughput, pixels)
		return
	}
	refrRay := core.NewRay(hit.Pos, rf.transmit)

	if depth > 2 {
		p := 0.25 + 0.5*rf.re
		if rng.Float64() < p {
			s.WalkPhoton(reflRay, depth, rng, tree, points, radius, throughput.Multiply(rf.re/p), pixels)
		} else {
			s.WalkPhoton(refrRay, depth, rng, tree, points, radius, throughput.Multiply(rf.tr/(1-p)), pixels)
		}
		return
	}
	s.WalkPhoton(reflRay, depth, rng, tree, points, radius, throughput.Multiply(rf.re), pixels)
	s.WalkPhoton(refrRay, depth, rng, tree, points, radius, throughput.Multiply(rf.tr), pixels)
}

// gather adds this photon's contribution, cone-kernel weighted, into every
// view point within radius of pos whose normal doesn't oppose the photon's.
func (s *SPPM) gather(pos, norm, throughput core.Vec3, tree *accel.ViewPointTree, points []ViewPoint, radius float64, pixels []PixelFlux) {
	r2 := radius * radius
	tree.Query(pos, func(index int) {
		vp := points[index]
		dist2 := pos.Subtract(vp.Pos).LengthSquared()
		if dist2 > r2 || vp.Norm.Dot(norm) < 0 {
			return
		}
		weight := 1 - dist2/r2
		flux := throughput.MultiplyVec(vp.Throughput).Multiply(weight)
		pixels[vp.PixelIndex].Flux = pixels[vp.PixelIndex].Flux.Add(flux)
		pixels[vp.PixelIndex].Count++
	})
}

// SamplePhotonRay draws one photon's origin/direction from the disc-area
// light of §4.7.1: uniform point in a disc of radius lightR around lightPos
// on the floor plane, direction on the upper hemisphere (d.y >= 0).
func SamplePhotonRay(lightPos core.Vec3, lightR float64, rng *core.RNG) core.Ray {
	ang := rng.Float64() * 2 * math.Pi
	r := math.Sqrt(rng.Float64()) * lightR
	origin := core.NewVec3(lightPos.X+r*math.Cos(ang), lightPos.Y, lightPos.Z+r*math.Sin(ang))

	t1 := rng.Float64() * 2 * math.Pi
	t2 := rng.Float64() * 2 * math.Pi
	d := core.NewVec3(math.Sin(t1)*math.Cos(t2), math.Sin(t1)*math.Sin(t2), math.Cos(t1)).Normalize()
	if d.Y < 0 {
		d.Y = -d.Y
	}
	return core.NewRay(origin, d)
}
