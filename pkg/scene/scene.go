package scene

import (
	"math"

	"github.com/df07/cg-tracing/pkg/core"
	"github.com/df07/cg-tracing/pkg/geometry"
)

// Renderer is the tagged union of renderer configs a scene file selects
// between; exactly one of PT/SPPM is non-nil.
type Renderer struct {
	PT   *PTConfig
	SPPM *SPPMConfig
}

// PTConfig holds the "pt" renderer's fields.
type PTConfig struct {
	Sample int
}

// SPPMConfig holds the "sppm" renderer's fields.
type SPPMConfig struct {
	ViewPointSample int
	PhotonSample    int
	Radius          float64
	RadiusDecay     float64
	Rounds          int
	LightPos        core.Vec3
	LightR          float64
}

// Scene is every scene-level object constructed before render and read-only
// for its duration: the camera, every primitive, and the two IoRs used by
// Fresnel/refraction sampling.
type Scene struct {
	Width, Height int
	Camera        Camera
	Primitives    []geometry.Primitive
	MaxDepth      int
	ThreadNum     int
	StackSize     int

	Na, Ng float64 // air, glass index of refraction
	R0     float64 // Schlick reflectance at normal incidence, precomputed from Na/Ng

	Renderer Renderer
}

// NewScene computes the derived Fresnel constant from Na/Ng.
func NewScene(width, height int, camera Camera, primitives []geometry.Primitive, maxDepth, threadNum, stackSize int, na, ng float64, renderer Renderer) *Scene {
	r0 := (na - ng) * (na - ng) / ((na + ng) * (na + ng))
	return &Scene{
		Width: width, Height: height, Camera: camera, Primitives: primitives,
		MaxDepth: maxDepth, ThreadNum: threadNum, StackSize: stackSize,
		Na: na, Ng: ng, R0: r0, Renderer: renderer,
	}
}

// Init calls Init on every primitive, building meshes' acceleration trees
// and resolving sphere/plane frames. The first error is fatal and aborts
// the remaining calls.
func (s *Scene) Init() error {
	for _, p := range s.Primitives {
		if err := p.Init(); err != nil {
			return err
		}
	}
	return nil
}

// Find performs the scene-level linear scan of §4.3: for each primitive
// with a valid HitT, keep the smallest t; after the loop, call Hit on the
// winner. Scene-level primitive counts are small, so this is not a
// candidate for further acceleration — the hard spatial problem lives
// inside each mesh's own tree.
func (s *Scene) Find(ray core.Ray) (geometry.HitResult, bool) {
	bestT := math.Inf(1)
	var bestPrim geometry.Primitive
	var bestTemp geometry.HitTemp

	for _, p := range s.Primitives {
		temp, ok := p.HitT(ray)
		if ok && temp.T < bestT {
			bestT = temp.T
			bestPrim = p
			bestTemp = temp
		}
	}
	if bestPrim == nil {
		return geometry.HitResult{}, false
	}
	return bestPrim.Hit(ray, bestTemp), true
}
