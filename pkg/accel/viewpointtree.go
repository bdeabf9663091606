package accel

import (
	"sort"

	"github.com/df07/cg-tracing/pkg/core"
)

// ViewPointTree indexes SPPM view-point positions for radius-r nearest
// neighbor queries during the photon pass. It is rebuilt every round since
// the gather radius (and so every node's expanded bounds) shrinks round over
// round per spec.md's radius_decay.
type ViewPointTree struct {
	positions []core.Vec3
	radius    float64
	nodes     []vpNode
}

type vpNode struct {
	bbox    AABB
	axis    int
	key     float64
	left    int
	right   int
	isLeaf  bool
	indices []int
}

// BuildViewPointTree builds a median-split KD-tree over positions, with
// every node's AABB expanded by radius so Query can prune subtrees whose
// expanded bounds don't reach the query point.
func BuildViewPointTree(positions []core.Vec3, radius float64) *ViewPointTree {
	t := &ViewPointTree{positions: positions, radius: radius}
	if len(positions) == 0 {
		return t
	}
	all := make([]int, len(positions))
	for i := range all {
		all[i] = i
	}
	t.build(all)
	return t
}

func (t *ViewPointTree) boundsOf(indices []int) AABB {
	box := AABB{Min: t.positions[indices[0]], Max: t.positions[indices[0]]}
	for _, i := range indices[1:] {
		box = Union(box, AABB{Min: t.positions[i], Max: t.positions[i]})
	}
	return box.Expand(t.radius)
}

func (t *ViewPointTree) build(indices []int) int {
	box := t.boundsOf(indices)

	if len(indices) <= leafSize {
		t.nodes = append(t.nodes, vpNode{bbox: box, isLeaf: true, indices: indices})
		return len(t.nodes) - 1
	}

	var avg, variance [3]float64
	for _, i := range indices {
		p := t.positions[i]
		avg[0] += p.X
		avg[1] += p.Y
		avg[2] += p.Z
	}
	n := float64(len(indices))
	avg[0] /= n
	avg[1] /= n
	avg[2] /= n
	for _, i := range indices {
		p := t.positions[i]
		d0, d1, d2 := p.X-avg[0], p.Y-avg[1], p.Z-avg[2]
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

	sorted := append([]int(nil), indices...)
	axisOf := func(i int) float64 { return t.positions[i].Component(axis) }
	sort.Slice(sorted, func(a, b int) bool { return axisOf(sorted[a]) < axisOf(sorted[b]) })
	key := axisOf(sorted[len(sorted)/2])

	var left, right []int
	for _, i := range indices {
		if axisOf(i) < key {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	if len(left) == 0 || len(right) == 0 {
		t.nodes = append(t.nodes, vpNode{bbox: box, isLeaf: true, indices: indices})
		return len(t.nodes) - 1
	}

	t.nodes = append(t.nodes, vpNode{bbox: box, axis: axis, key: key})
	idx := len(t.nodes) - 1
	l := t.build(left)
	r := t.build(right)
	t.nodes[idx].left = l
	t.nodes[idx].right = r
	return idx
}

// Query visits every view-point index within radius of p, calling visit for
// each. The radius check itself is left to the caller (together with the
// norm·photon_norm ≥ 0 test), since the cone-kernel weight needs dist²
// directly; Query only prunes subtrees whose expanded bounds can't contain p.
func (t *ViewPointTree) Query(p core.Vec3, visit func(index int)) {
	if len(t.nodes) == 0 {
		return
	}
	t.queryNode(0, p, visit)
}

func (t *ViewPointTree) queryNode(idx int, p core.Vec3, visit func(index int)) {
	node := &t.nodes[idx]
	if !containsExpanded(node.bbox, p) {
		return
	}
	if node.isLeaf {
		for _, i := range node.indices {
			visit(i)
		}
		return
	}
	t.queryNode(node.left, p, visit)
	t.queryNode(node.right, p, visit)
}

func containsExpanded(box AABB, p core.Vec3) bool {
	return p.X >= box.Min.X && p.X <= box.Max.X &&
		p.Y >= box.Min.Y && p.Y <= box.Max.Y &&
		p.Z >= box.Min.Z && p.Z <= box.Max.Z
}
