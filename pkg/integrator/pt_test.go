package integrator

import (
	"math"
	"testing"

	"github.com/df07/cg-tracing/pkg/core"
	"github.com/df07/cg-tracing/pkg/geometry"
	"github.com/df07/cg-tracing/pkg/scene"
	"github.com/df07/cg-tracing/pkg/texture"
)

// buildTestScene returns a floor plane (normal +Z, diffuse gray) with an
// emissive, zero-albedo sphere "light" floating above it at z=5 - enough to
// exercise one diffuse bounce plus a direct light hit.
func buildTestScene(t *testing.T, maxDepth int) *scene.Scene {
	t.Helper()

	floorTex := texture.NewRaw(core.Zero, core.NewVec3(0.7, 0.7, 0.7), texture.Diffuse)
	plane := geometry.NewPlane(core.Identity3(), floorTex)

	lightTransform := core.NewTransform([]core.TransformStep{{Kind: "shift", Z: 5}})
	lightTex := texture.NewRaw(core.NewVec3(10, 10, 10), core.Zero, texture.Diffuse)
	light := geometry.NewSphere(1.0, lightTransform, lightTex)

	primitives := []geometry.Primitive{plane, light}
	for _, p := range primitives {
		if err := p.Init(); err != nil {
			t.Fatalf("init: %v", err)
		}
	}

	s := scene.NewScene(4, 4, scene.Camera{}, primitives, maxDepth, 1, 0, 1.0, 1.5, scene.Renderer{})
	return s
}

func TestPathTracerDirectLightHit(t *testing.T) {
	s := buildTestScene(t, 8)
	pt := &PathTracer{Scene: s}
	rng := core.NewRNG(1)

	ray := core.NewRay(core.NewVec3(0, 0, 0.5), core.NewVec3(0, 0, 1))
	c := pt.Trace(ray, 0, rng)
	if c.X < 9 || c.Y < 9 || c.Z < 9 {
		t.Errorf("direct hit on the light should return its emission, got %v", c)
	}
}

func TestPathTracerMissReturnsZero(t *testing.T) {
	s := buildTestScene(t, 8)
	pt := &PathTracer{Scene: s}
	rng := core.NewRNG(1)

	ray := core.NewRay(core.NewVec3(0, 0, -1), core.NewVec3(0, 0, -1))
	c := pt.Trace(ray, 0, rng)
	if c != core.Zero {
		t.Errorf("ray pointing away from everything should return zero, got %v", c)
	}
}

func TestPathTracerFloorBounceGathersLight(t *testing.T) {
	s := buildTestScene(t, 8)
	pt := &PathTracer{Scene: s}

	// Average many samples of a ray hitting the floor just below the light;
	// some diffuse bounces should reach the emissive sphere, so the mean
	// should be positive but bounded well below the light's own emission.
	var sum core.Vec3
	const n = 4000
	for i := 0; i < n; i++ {
		rng := core.NewRNG(uint32(i + 1))
		ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))
		sum = sum.Add(pt.Trace(ray, 0, rng))
	}
	mean := sum.Divide(n)
	if mean.X <= 0 {
		t.Errorf("expected some bounce light to reach the floor, got mean %v", mean)
	}
	if mean.X >= 10 {
		t.Errorf("floor bounce mean %v should be far below the light's own emission", mean)
	}
}

func TestPathTracerDepthCutoffReturnsEmissionOnly(t *testing.T) {
	// With MaxDepth=0, any hit should return only its own emission: the
	// first Find succeeds, depth becomes 1 > MaxDepth, and Trace returns
	// hit.Texture.Emission without scattering further.
	s := buildTestScene(t, 0)
	pt := &PathTracer{Scene: s}
	rng := core.NewRNG(3)

	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))
	c := pt.Trace(ray, 0, rng)
	if c != core.Zero {
		t.Errorf("depth-cutoff hit on the (non-emissive) floor should return zero emission, got %v", c)
	}
}

func TestDiffuseDirectionIsDeterministicForFixedSeed(t *testing.T) {
	w := core.NewVec3(0.1, 0.9, 0.2).Normalize()
	a := diffuseDirection(w, core.NewRNG(123))
	b := diffuseDirection(w, core.NewRNG(123))
	if a != b {
		t.Errorf("same seed produced different directions: %v vs %v", a, b)
	}
}

func TestPathTracerIsDeterministicForFixedSeed(t *testing.T) {
	s := buildTestScene(t, 8)
	pt := &PathTracer{Scene: s}
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	a := pt.Trace(ray, 0, core.NewRNG(99))
	b := pt.Trace(ray, 0, core.NewRNG(99))
	if a != b {
		t.Errorf("same seed produced different results: %v vs %v", a, b)
	}
}

func TestSceneFindPicksNearestHit(t *testing.T) {
	s := buildTestScene(t, 8)
	ray := core.NewRay(core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 1))
	hit, ok := s.Find(ray)
	if !ok {
		t.Fatalf("expected a hit")
	}
	if math.Abs(hit.Pos.Z) > 1e-9 {
		t.Errorf("expected the nearer floor plane hit at z=0, got %v", hit.Pos)
	}
}
