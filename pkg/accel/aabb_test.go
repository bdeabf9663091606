package accel

import (
	"testing"

	"github.com/df07/cg-tracing/pkg/core"
)

func TestAABBHitUnitCube(t *testing.T) {
	box := AABB{Min: core.NewVec3(0, 0, 0), Max: core.NewVec3(1, 1, 1)}

	cases := []struct {
		name           string
		origin, direct core.Vec3
		wantMin        float64
		wantMax        float64
	}{
		{"center +x", core.NewVec3(0.5, 0.5, 0.5), core.NewVec3(1, 0, 0), 0, 0.5},
		{"outside -x +x", core.NewVec3(-0.5, 0.5, 0.5), core.NewVec3(1, 0, 0), 0.5, 1.5},
		{"center -x", core.NewVec3(0.5, 0.5, 0.5), core.NewVec3(-1, 0, 0), 0, 0.5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			invDirect := core.NewVec3(1/c.direct.X, 1/c.direct.Y, 1/c.direct.Z)
			tMin, tMax, ok := box.Hit(c.origin, invDirect)
			if !ok {
				t.Fatalf("expected hit")
			}
			if tMin != c.wantMin || tMax != c.wantMax {
				t.Errorf("got (%v, %v), want (%v, %v)", tMin, tMax, c.wantMin, c.wantMax)
			}
		})
	}
}

func TestAABBMiss(t *testing.T) {
	box := AABB{Min: core.NewVec3(0, 0, 0), Max: core.NewVec3(1, 1, 1)}
	origin := core.NewVec3(5, 5, 5)
	direct := core.NewVec3(1, 0, 0)
	invDirect := core.NewVec3(1/direct.X, 1/direct.Y, 1/direct.Z)
	if _, _, ok := box.Hit(origin, invDirect); ok {
		t.Errorf("expected miss")
	}
}
