package accel

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/cg-tracing/pkg/core"
)

// fakeMesh is a minimal TriangleSource used to test the tree's traversal
// against a brute-force linear scan over the same triangles.
type fakeMesh struct {
	tris [][3]core.Vec3
}

func (m *fakeMesh) TriangleCount() int { return len(m.tris) }

func (m *fakeMesh) TriangleBounds(tri int) AABB {
	v := m.tris[tri]
	box := AABB{Min: v[0], Max: v[0]}
	box.Min = box.Min.Min(v[1]).Min(v[2])
	box.Max = box.Max.Max(v[1]).Max(v[2])
	return box
}

// IntersectTriangle is a standard Möller-Trumbore test, independent of the
// mesh package's precomputed-matrix variant, used only to validate that the
// tree visits the same triangles a linear scan would.
func (m *fakeMesh) IntersectTriangle(tri int, ray core.Ray) (t, u, v float64, ok bool) {
	tv := m.tris[tri]
	e1 := tv[1].Subtract(tv[0])
	e2 := tv[2].Subtract(tv[0])
	h := ray.Direct.Cross(e2)
	a := e1.Dot(h)
	if math.Abs(a) < 1e-12 {
		return 0, 0, 0, false
	}
	f := 1.0 / a
	s := ray.Origin.Subtract(tv[0])
	u = f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}
	q := s.Cross(e1)
	v = f * ray.Direct.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}
	t = f * e2.Dot(q)
	if t <= 1e-9 {
		return 0, 0, 0, false
	}
	return t, u, v, true
}

func linearHit(m *fakeMesh, ray core.Ray, tMin, tMax float64) (TriHit, bool) {
	best := TriHit{}
	found := false
	bestT := tMax
	for i := range m.tris {
		t, u, v, ok := m.IntersectTriangle(i, ray)
		if ok && t > tMin && t < bestT {
			best = TriHit{Triangle: i, T: t, U: u, V: v}
			bestT = t
			found = true
		}
	}
	return best, found
}

// TestTriangleTreeMatchesLinearScan builds a grid of many small triangles,
// fires rays at a sample of grid cells, and checks the tree's nearest hit
// agrees with a brute-force linear scan over every triangle.
func TestTriangleTreeMatchesLinearScan(t *testing.T) {
	mesh := &fakeMesh{}
	const n = 20
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x, y := float64(i), float64(j)
			mesh.tris = append(mesh.tris, [3]core.Vec3{
				core.NewVec3(x, y, 0),
				core.NewVec3(x+1, y, 0),
				core.NewVec3(x, y+1, 0),
			})
		}
	}

	tree := BuildTriangleTree(mesh)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			ray := core.NewRay(core.NewVec3(float64(i)+0.25, float64(j)+0.25, -5), core.NewVec3(0, 0, 1))
			want, wantOk := linearHit(mesh, ray, 1e-6, math.Inf(1))
			got, gotOk := tree.Hit(ray, 1e-6, math.Inf(1))
			if gotOk != wantOk {
				t.Fatalf("ray (%d,%d): hit=%v, want %v", i, j, gotOk, wantOk)
			}
			if wantOk && (got.Triangle != want.Triangle || math.Abs(got.T-want.T) > 1e-9) {
				t.Errorf("ray (%d,%d): got tri %d t=%v, want tri %d t=%v", i, j, got.Triangle, got.T, want.Triangle, want.T)
			}
		}
	}
}

// depth returns the tree's maximum node depth (root = depth 1), walking the
// node slice directly since both live in this package.
func (t *TriangleTree) depth(idx int) int {
	node := &t.nodes[idx]
	if node.isLeaf {
		return 1
	}
	l := t.depth(node.left)
	r := t.depth(node.right)
	if l > r {
		return l + 1
	}
	return r + 1
}

// TestTriangleTreeDepthBoundedAndMatchesLinearScan builds a tree over 1000
// random triangles and checks both that its depth stays within the
// leafSize=16 budget (ceil(log2(1000/16))+8) and that a sample of random
// rays agrees with a brute-force linear scan.
func TestTriangleTreeDepthBoundedAndMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	mesh := &fakeMesh{}
	const n = 1000
	for i := 0; i < n; i++ {
		base := core.NewVec3(rng.Float64()*20-10, rng.Float64()*20-10, rng.Float64()*20-10)
		jitter := func() core.Vec3 {
			return core.NewVec3(rng.Float64()*2-1, rng.Float64()*2-1, rng.Float64()*2-1)
		}
		mesh.tris = append(mesh.tris, [3]core.Vec3{base, base.Add(jitter()), base.Add(jitter())})
	}

	tree := BuildTriangleTree(mesh)

	maxDepth := int(math.Ceil(math.Log2(float64(n)/16))) + 8
	if got := tree.depth(0); got > maxDepth {
		t.Errorf("tree depth %d exceeds bound %d", got, maxDepth)
	}

	for i := 0; i < 100; i++ {
		origin := core.NewVec3(rng.Float64()*40-20, rng.Float64()*40-20, -30)
		dir := core.NewVec3(rng.Float64()*0.4-0.2, rng.Float64()*0.4-0.2, 1).Normalize()
		ray := core.NewRay(origin, dir)

		want, wantOk := linearHit(mesh, ray, 1e-6, math.Inf(1))
		got, gotOk := tree.Hit(ray, 1e-6, math.Inf(1))
		if gotOk != wantOk {
			t.Fatalf("ray %d: hit=%v, want %v", i, gotOk, wantOk)
		}
		if wantOk && (got.Triangle != want.Triangle || math.Abs(got.T-want.T) > 1e-9) {
			t.Errorf("ray %d: got tri %d t=%v, want tri %d t=%v", i, got.Triangle, got.T, want.Triangle, want.T)
		}
	}
}

func TestTriangleTreeEmpty(t *testing.T) {
	tree := BuildTriangleTree(&fakeMesh{})
	_, ok := tree.Hit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0)), 0, math.Inf(1))
	if ok {
		t.Errorf("expected no hit on empty tree")
	}
}
