package accel

import (
	"sort"

	"github.com/df07/cg-tracing/pkg/core"
)

// TriangleSource is the data a TriangleTree needs from its owning mesh: the
// per-triangle bounds for building, and the leaf-level precomputed-matrix
// intersection test. Kept as an interface (rather than a direct field) so
// this package never imports the geometry package that owns meshes.
type TriangleSource interface {
	TriangleCount() int
	TriangleBounds(tri int) AABB
	IntersectTriangle(tri int, ray core.Ray) (t, u, v float64, ok bool)
}

// leafSize is the K from spec.md §9: a node becomes a leaf once it holds
// this many or fewer triangles.
const leafSize = 16

type ttNode struct {
	bbox AABB
	// internal node fields (used when isLeaf is false)
	axis     int
	key      float64
	left     int
	right    int
	isLeaf   bool
	triangle []int
}

// TriangleTree is an immutable KD-tree over a mesh's triangle indices, built
// once at scene load and traversed read-only during render.
type TriangleTree struct {
	src   TriangleSource
	nodes []ttNode
}

// BuildTriangleTree constructs the tree over every triangle reported by src.
func BuildTriangleTree(src TriangleSource) *TriangleTree {
	t := &TriangleTree{src: src}
	if src.TriangleCount() == 0 {
		return t
	}
	all := make([]int, src.TriangleCount())
	for i := range all {
		all[i] = i
	}
	t.build(all)
	return t
}

func boundsOf(src TriangleSource, tris []int) AABB {
	box := src.TriangleBounds(tris[0])
	for _, tri := range tris[1:] {
		box = Union(box, src.TriangleBounds(tri))
	}
	return box
}

// build recursively partitions tris by the axis of maximum variance of each
// triangle's per-axis maximum vertex coordinate (spec.md §9's chosen
// variant), splitting on the median of that value. Triangles straddling the
// split key are duplicated into both children. A split that makes no
// progress, or a batch at or below leafSize, becomes a leaf.
func (t *TriangleTree) build(tris []int) int {
	box := boundsOf(t.src, tris)

	if len(tris) <= leafSize {
		t.nodes = append(t.nodes, ttNode{bbox: box, isLeaf: true, triangle: tris})
		return len(t.nodes) - 1
	}

	maxVal := make([]core.Vec3, len(tris))
	for i, tri := range tris {
		maxVal[i] = t.src.TriangleBounds(tri).Max
	}

	var avg, variance [3]float64
	for _, m := range maxVal {
		avg[0] += m.X
		avg[1] += m.Y
		avg[2] += m.Z
	}
	n := float64(len(tris))
	avg[0] /= n
	avg[1] /= n
	avg[2] /= n
	for _, m := range maxVal {
		d0, d1, d2 := m.X-avg[0], m.Y-avg[1], m.Z-avg[2]
		variance[0] += d0 * d0
		variance[1] += d1 * d1
		variance[2] += d2 * d2
	}
	axis := 0
	if variance[1] > variance[axis] {
		axis = 1
	}
	if variance[2] > variance[axis] {
		axis = 2
	}

	sorted := append([]int(nil), tris...)
	maxOf := func(tri int) float64 { return t.src.TriangleBounds(tri).Max.Component(axis) }
	minOf := func(tri int) float64 { return t.src.TriangleBounds(tri).Min.Component(axis) }
	sortByKey(sorted, maxOf)
	key := maxOf(sorted[len(sorted)/2])

	// A triangle straddling the split key is duplicated into both children:
	// it goes left if its min is below key, right if its max is at or above it.
	var left, right []int
	for _, tri := range tris {
		if minOf(tri) < key {
			left = append(left, tri)
		}
		if maxOf(tri) >= key {
			right = append(right, tri)
		}
	}

	if len(left) == 0 || len(right) == 0 || max(len(left), len(right)) == len(tris) {
		t.nodes = append(t.nodes, ttNode{bbox: box, isLeaf: true, triangle: tris})
		return len(t.nodes) - 1
	}

	t.nodes = append(t.nodes, ttNode{bbox: box, axis: axis, key: key})
	idx := len(t.nodes) - 1
	l := t.build(left)
	r := t.build(right)
	t.nodes[idx].left = l
	t.nodes[idx].right = r
	return idx
}

func sortByKey(tris []int, key func(int) float64) {
	sort.Slice(tris, func(i, j int) bool { return key(tris[i]) < key(tris[j]) })
}

// TriHit is a triangle intersection result: parameter t and barycentrics.
type TriHit struct {
	Triangle int
	T        float64
	U, V     float64
}

// Hit walks the tree front-to-back using the slab test, maintaining the
// current best t, and returns the nearest triangle intersection (if any).
func (t *TriangleTree) Hit(ray core.Ray, tMin, tMax float64) (TriHit, bool) {
	if len(t.nodes) == 0 {
		return TriHit{}, false
	}
	invDirect := core.NewVec3(1/ray.Direct.X, 1/ray.Direct.Y, 1/ray.Direct.Z)
	best := TriHit{}
	found := false
	bestT := tMax
	t.hitNode(0, ray, invDirect, tMin, bestT, &best, &found, &bestT)
	return best, found
}

func (t *TriangleTree) hitNode(idx int, ray core.Ray, invDirect core.Vec3, tMin, tMax float64, best *TriHit, found *bool, bestT *float64) {
	node := &t.nodes[idx]
	enter, exit, ok := node.bbox.Hit(ray.Origin, invDirect)
	if !ok || enter > *bestT || exit < tMin {
		return
	}

	if node.isLeaf {
		for _, tri := range node.triangle {
			tt, u, v, ok := t.src.IntersectTriangle(tri, ray)
			if ok && tt > tMin && tt < *bestT {
				*best = TriHit{Triangle: tri, T: tt, U: u, V: v}
				*bestT = tt
				*found = true
			}
		}
		return
	}

	// Visit near child first. The split-plane parametric distance
	// determines which child the ray reaches first along axis.
	tPlane := (node.key - ray.Origin.Component(node.axis)) * invDirect.Component(node.axis)
	first, second := node.left, node.right
	if invDirect.Component(node.axis) < 0 {
		first, second = second, first
	}

	t.hitNode(first, ray, invDirect, tMin, *bestT, best, found, bestT)
	if tPlane <= *bestT {
		t.hitNode(second, ray, invDirect, tMin, *bestT, best, found, bestT)
	}
}
