package geometry

import (
	"math"

	"github.com/df07/cg-tracing/pkg/accel"
	"github.com/df07/cg-tracing/pkg/core"
	"github.com/df07/cg-tracing/pkg/texture"
)

// bezier2D is a 2D Bezier curve, converted at construction time from its
// control points to power-basis coefficients via the forward-difference
// triangle (Newton's divided differences), so evaluation is a cheap Horner
// loop rather than repeated binomial blending.
type bezier2D struct {
	n int
	a [][2]float64
}

func newBezier2D(points [][2]float64) *bezier2D {
	n := len(points) - 1
	x := make([]float64, len(points))
	y := make([]float64, len(points))
	for i, p := range points {
		x[i] = p[0]
		y[i] = p[1]
	}

	a := make([][2]float64, 0, n+1)
	t := 1.0
	for i := 0; i <= n; i++ {
		a = append(a, [2]float64{x[0] * t, y[0] * t})
		t = t * float64(n-i) / float64(i+1)
		for j := 0; j < n-i; j++ {
			x[j] = x[j+1] - x[j]
			y[j] = y[j+1] - y[j]
		}
	}
	return &bezier2D{n: n, a: a}
}

func (b *bezier2D) p(t float64) (x, y float64) {
	for i := b.n; i >= 0; i-- {
		x = b.a[i][0] + x*t
		y = b.a[i][1] + y*t
	}
	return x, y
}

func (b *bezier2D) dp(t float64) (dx, dy float64) {
	for i := b.n; i >= 1; i-- {
		dx = b.a[i][0]*float64(i) + dx*t
		dy = b.a[i][1]*float64(i) + dy*t
	}
	return dx, dy
}

// bezierExtra is the HitTemp payload for a BezierOfRevolution hit: the
// profile parameter and its local radius at the hit.
type bezierExtra struct {
	T, X float64
}

// BezierOfRevolution is a surface of revolution around the local Y axis:
// sweep a 2D bezier profile (given bottom-to-top) around the Y axis. Profile
// points are given in the local frame before Transform is applied.
type BezierOfRevolution struct {
	Points    [][2]float64
	Texture   texture.Texture
	Transform *core.Transform

	curve *bezier2D
	bbox  accel.AABB
}

// NewBezierOfRevolution builds the profile curve and its local bounding box.
func NewBezierOfRevolution(points [][2]float64, tex texture.Texture, transform *core.Transform) *BezierOfRevolution {
	maxX, maxY, minY := math.Abs(points[0][0]), points[0][1], points[0][1]
	for _, p := range points[1:] {
		maxX = math.Max(maxX, math.Abs(p[0]))
		maxY = math.Max(maxY, p[1])
		minY = math.Min(minY, p[1])
	}
	bbox := accel.AABB{
		Min: core.NewVec3(-maxX, minY, -maxX),
		Max: core.NewVec3(maxX, maxY, maxX),
	}
	return &BezierOfRevolution{
		Points: points, Texture: tex, Transform: transform,
		curve: newBezier2D(points), bbox: bbox,
	}
}

// Init is a no-op: the curve and bbox are ready after construction.
func (b *BezierOfRevolution) Init() error { return nil }

func (b *BezierOfRevolution) localRay(ray core.Ray) (o, d core.Vec3) {
	o = b.Transform.Inv.MulPoint(ray.Origin)
	d = b.Transform.Inv.MulDirection(ray.Direct).Normalize()
	return o, d
}

// HitT finds the nearest ray/surface-of-revolution intersection. The
// rotational symmetry reduces the problem to a 1D root find over the
// profile parameter t: at each candidate t, the implicit quadratic-in-y
// equation f(t) = a*y^2 + b*y + c + w*x^2 (coefficients from the ray in the
// plane containing the Y axis) must vanish. Candidates are bracketed by
// sampling the profile at 2n+1 evenly spaced points, then polished with
// damped Newton iteration; a ray perpendicular to the Y axis is handled as a
// circle intersection in the degenerate branch where d.y ~ 0.
func (b *BezierOfRevolution) HitT(ray core.Ray) (HitTemp, bool) {
	o, d := b.localRay(ray)
	invDirect := core.NewVec3(1/d.X, 1/d.Y, 1/d.Z)
	if _, _, ok := b.bbox.Hit(o, invDirect); !ok {
		return HitTemp{}, false
	}

	t1 := o.X*d.Y - d.X*o.Y
	t2 := o.Z*d.Y - d.Z*o.Y
	a := d.X*d.X + d.Z*d.Z
	a2 := 2 * a
	bCoef := 2 * (t1*d.X + t2*d.Z)
	c := t1*t1 + t2*t2
	w := -d.Y * d.Y
	w2 := 2 * w

	var a2i, a4, bb, bb2, cc float64
	degenerate := math.Abs(d.Y) < epsilon
	if degenerate {
		bb = 2 * (o.X*d.X + o.Z*d.Z)
		bb2 = bb * bb
		a2i = 1 / a2
		a4 = 4 * a
		cc = o.X*o.X + o.Z*o.Z
	}

	found := false
	var bestK, bestT, bestX float64

	samples := b.curve.n * 2
	step := 1.0 / float64(samples)
	for i := 0; i <= samples; i++ {
		t := float64(i) * step
		x, y := b.curve.p(t)
		xx := x * x
		f := (a*y+bCoef)*y + c + w*xx

		for iter := 0; iter < 15; iter++ {
			if math.Abs(f) < 1e-12 {
				var k float64
				if degenerate {
					ccc := cc - xx
					delta := math.Sqrt(bb2 - a4*ccc)
					k1 := (-bb - delta) * a2i
					k2 := (-bb + delta) * a2i
					if k1 < k2 && k1 > epsilon {
						k = k1
					} else {
						k = k2
					}
				} else {
					k = (y - o.Y) / d.Y
				}
				if k > epsilon && (!found || bestK > k) {
					px := o.X + k*d.X
					pz := o.Z + k*d.Z
					if math.Abs(px*px+pz*pz-xx) < epsilon {
						bestK, bestT, bestX = k, t, x
						found = true
					}
				}
				break
			}

			dx, dy := b.curve.dp(t)
			df := (a2*y+bCoef)*dy + w2*x*dx
			g := -f / df
			lambda := 1.0
			weight := 0.5
			if t < 0.1 || t > 0.9 {
				weight = 0.9
			}

			var t1n, f1 float64
			for lambda > 1e-5 {
				t1n = t + lambda*g
				if t1n < 0 || t1n > 1 {
					lambda *= weight
					continue
				}
				xn, yn := b.curve.p(t1n)
				x, y = xn, yn
				xx = x * x
				f1 = (a*y+bCoef)*y + c + w*xx
				if math.Abs(f1) < math.Abs(f) {
					break
				}
				lambda *= weight
			}
			if t1n < 0 || t1n > 1 || (math.Abs(f1) >= 1e-10 && math.Abs(f1-f) < 1e-12) {
				break
			}
			t = t1n
			f = f1
		}
	}

	if !found {
		return HitTemp{}, false
	}
	return HitTemp{T: bestK, Extra: bezierExtra{T: bestT, X: bestX}}, true
}

// Hit reconstructs the surface normal from the profile tangent and the
// revolution tangent (cross product), using the angular position recovered
// from the hit's local x/z coordinates.
func (b *BezierOfRevolution) Hit(ray core.Ray, temp HitTemp) HitResult {
	o, d := b.localRay(ray)
	extra := temp.Extra.(bezierExtra)
	k, t, x := temp.T, extra.T, extra.X

	cos, sin := 1.0, 0.0
	var localNorm core.Vec3
	if math.Abs(x) < epsilon {
		localNorm = core.NewVec3(0, -d.Y, 0)
	} else {
		cos = (o.X + k*d.X) / x
		sin = (o.Z + k*d.Z) / x
		dx, dy := b.curve.dp(t)
		dt := core.NewVec3(cos*dx, dy, sin*dx)
		dd := core.NewVec3(-sin*x, 0, cos*x)
		localNorm = dt.Cross(dd)
	}
	norm := b.Transform.Value.MulDirection(localNorm).Normalize()

	if cos < -1 {
		cos = -1
	} else if cos > 1 {
		cos = 1
	}
	angle := math.Acos(cos)
	if sin < 0 {
		angle = 2*math.Pi - angle
	}
	u := angle / (2 * math.Pi)

	return HitResult{Pos: ray.At(k), Norm: norm, Texture: b.Texture.At(u, t)}
}
