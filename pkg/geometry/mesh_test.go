package geometry

import (
	"math"
	"testing"

	"github.com/df07/cg-tracing/pkg/core"
	"github.com/df07/cg-tracing/pkg/texture"
)

func newTriangleMesh(t *testing.T, v1, v2, v3 core.Vec3) *Mesh {
	t.Helper()
	n := v2.Subtract(v1).Cross(v3.Subtract(v1)).Normalize()
	mesh := NewMesh(
		[]core.Vec3{v1, v2, v3},
		[]core.Vec3{n, n, n},
		nil,
		[]Triangle{{I: 0, J: 1, K: 2}},
		texture.NewRaw(core.Zero, core.One, texture.Diffuse),
	)
	if err := mesh.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return mesh
}

// TestUnitTriangleHit is scenario S2: a unit axis-aligned triangle at the
// origin, hit dead-center from above.
func TestUnitTriangleHit(t *testing.T) {
	mesh := newTriangleMesh(t, core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0))
	ray := core.NewRay(core.NewVec3(0.25, 0.25, 1), core.NewVec3(0, 0, -1))

	temp, ok := mesh.HitT(ray)
	if !ok {
		t.Fatalf("expected hit")
	}
	extra := temp.Extra.(MeshExtra)
	if math.Abs(temp.T-1) > 1e-9 {
		t.Errorf("t = %v, want 1", temp.T)
	}
	if math.Abs(extra.U-0.25) > 1e-9 || math.Abs(extra.V-0.25) > 1e-9 {
		t.Errorf("(u,v) = (%v,%v), want (0.25,0.25)", extra.U, extra.V)
	}
}

// TestTriangleRoundTrip is Testable Property 4: a ray aimed at a triangle's
// centroid reports barycentrics that reconstruct the hit point.
func TestTriangleRoundTrip(t *testing.T) {
	v1 := core.NewVec3(-3, 0, 5)
	v2 := core.NewVec3(2, -1, 6)
	v3 := core.NewVec3(0, 4, 4)
	mesh := newTriangleMesh(t, v1, v2, v3)

	centroid := v1.Add(v2).Add(v3).Divide(3)
	origin := core.NewVec3(0, 0, 0)
	direct := centroid.Subtract(origin).Normalize()
	ray := core.NewRay(origin, direct)

	temp, ok := mesh.HitT(ray)
	if !ok {
		t.Fatalf("expected hit")
	}
	extra := temp.Extra.(MeshExtra)
	u, v := extra.U, extra.V
	if u < -1e-9 || v < -1e-9 || u+v > 1+1e-9 {
		t.Fatalf("barycentrics out of range: u=%v v=%v", u, v)
	}

	reconstructed := v1.Multiply(1 - u - v).Add(v2.Multiply(u)).Add(v3.Multiply(v))
	got := ray.At(temp.T)
	if reconstructed.Subtract(got).Length() > 1e-9 {
		t.Errorf("reconstructed point %v != hit point %v", reconstructed, got)
	}
}

func TestTriangleMissBehindRay(t *testing.T) {
	mesh := newTriangleMesh(t, core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0))
	ray := core.NewRay(core.NewVec3(0.25, 0.25, -1), core.NewVec3(0, 0, -1))
	if _, ok := mesh.HitT(ray); ok {
		t.Errorf("expected miss for ray pointing away from the triangle")
	}
}
