package geometry

import (
	"github.com/df07/cg-tracing/pkg/accel"
	"github.com/df07/cg-tracing/pkg/core"
	"github.com/df07/cg-tracing/pkg/texture"
)

// triMat is the precomputed per-triangle affine map: for a world point x,
// point(x) = (u, v, n.(x-v1)/(n.n)) in the triangle's own basis, the third
// coordinate being the signed distance to the plane divided by |n|
// (edges e1, e2 and normal n = e1 x e2). Built once by precomputeTri.
type triMat struct {
	row0, row1, row2 core.Vec3
	off0, off1, off2 float64
}

// precomputeTri builds the affine matrix for a triangle with vertices
// v1, v2, v3: the rows of the inverse of [e1|e2|n] (columns), offset so that
// point(v1) = (0,0,0). Since n = e1 x e2 is already orthogonal to both
// edges, the inverse has a closed form via the scalar triple product
// det = e1.(e2 x n) = n.n, giving row2 = n/det directly (the plane-distance
// row), with no separate dominant-axis branch needed for stability.
func precomputeTri(v1, v2, v3 core.Vec3) triMat {
	e1 := v2.Subtract(v1)
	e2 := v3.Subtract(v1)
	n := e1.Cross(e2)
	det := n.Dot(n)

	row0 := e2.Cross(n).Divide(det)
	row1 := n.Cross(e1).Divide(det)
	row2 := n.Divide(det)

	return triMat{
		row0: row0, row1: row1, row2: row2,
		off0: -row0.Dot(v1), off1: -row1.Dot(v1), off2: -row2.Dot(v1),
	}
}

func (m triMat) point(x core.Vec3) core.Vec3 {
	return core.NewVec3(m.row0.Dot(x)+m.off0, m.row1.Dot(x)+m.off1, m.row2.Dot(x)+m.off2)
}

func (m triMat) direction(d core.Vec3) core.Vec3 {
	return core.NewVec3(m.row0.Dot(d), m.row1.Dot(d), m.row2.Dot(d))
}

// Triangle is one face: indices into the mesh's shared vertex arrays.
type Triangle struct {
	I, J, K int
}

// Mesh is a triangle soup sharing vertex position/normal/UV arrays, wrapped
// in a KD-tree built at Init time. Positions and normals are assumed already
// in world space (the OBJ loader applies the mesh's transform at load time).
type Mesh struct {
	P  []core.Vec3
	N  []core.Vec3
	UV [][2]float64 // may be nil if the mesh carries no texture coordinates
	T  []Triangle

	Texture texture.Texture

	pre  []triMat
	tree *accel.TriangleTree
}

// NewMesh builds a Mesh from already-populated vertex and face arrays.
func NewMesh(p, n []core.Vec3, uv [][2]float64, tris []Triangle, tex texture.Texture) *Mesh {
	return &Mesh{P: p, N: n, UV: uv, T: tris, Texture: tex}
}

// Init precomputes every triangle's affine matrix and builds the KD-tree.
func (m *Mesh) Init() error {
	m.pre = make([]triMat, len(m.T))
	for i, tri := range m.T {
		m.pre[i] = precomputeTri(m.P[tri.I], m.P[tri.J], m.P[tri.K])
	}
	m.tree = accel.BuildTriangleTree(m)
	return nil
}

// TriangleCount implements accel.TriangleSource.
func (m *Mesh) TriangleCount() int { return len(m.T) }

// TriangleBounds implements accel.TriangleSource.
func (m *Mesh) TriangleBounds(tri int) accel.AABB {
	t := m.T[tri]
	v1, v2, v3 := m.P[t.I], m.P[t.J], m.P[t.K]
	box := accel.AABB{Min: v1, Max: v1}
	box.Min = box.Min.Min(v2).Min(v3)
	box.Max = box.Max.Max(v2).Max(v3)
	return box
}

// IntersectTriangle implements accel.TriangleSource, following spec §4.1:
// transform the ray into the triangle's canonical frame, solve for t where
// the transformed z crosses zero, then accept barycentrics u,v,1-u-v >= 0.
func (m *Mesh) IntersectTriangle(tri int, ray core.Ray) (t, u, v float64, ok bool) {
	pre := m.pre[tri]
	o := pre.point(ray.Origin)
	d := pre.direction(ray.Direct)
	if d.Z > -epsilon && d.Z < epsilon {
		return 0, 0, 0, false
	}
	t = -o.Z / d.Z
	if t <= epsilon {
		return 0, 0, 0, false
	}
	u = o.X + t*d.X
	v = o.Y + t*d.Y
	if u < 0 || v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}
	return t, u, v, true
}

// HitT delegates to the triangle tree built at Init.
func (m *Mesh) HitT(ray core.Ray) (HitTemp, bool) {
	hit, ok := m.tree.Hit(ray, epsilon, posInf)
	if !ok {
		return HitTemp{}, false
	}
	return HitTemp{T: hit.T, Extra: MeshExtra{Triangle: hit.Triangle, U: hit.U, V: hit.V}}, true
}

// Hit interpolates the vertex normals and UVs at the barycentric hit point.
// The blended normal is intentionally left un-renormalized, matching the
// source renderer's behavior (a known micro-issue, not a correctness bug).
func (m *Mesh) Hit(ray core.Ray, temp HitTemp) HitResult {
	extra := temp.Extra.(MeshExtra)
	tri := m.T[extra.Triangle]
	u, v := extra.U, extra.V
	w := 1 - u - v

	norm := m.N[tri.I].Multiply(w).Add(m.N[tri.J].Multiply(u)).Add(m.N[tri.K].Multiply(v))

	var uvU, uvV float64
	if m.UV != nil {
		a, b, c := m.UV[tri.I], m.UV[tri.J], m.UV[tri.K]
		uvU = a[0]*w + b[0]*u + c[0]*v
		uvV = a[1]*w + b[1]*u + c[1]*v
	}

	return HitResult{Pos: ray.At(temp.T), Norm: norm, Texture: m.Texture.At(uvU, uvV)}
}
