package scene

import (
	"github.com/df07/cg-tracing/pkg/core"
)

// Camera holds the pinhole + thin-lens parameters a scene file supplies.
// FocalDistance must be set to a positive distance (1 for a plain pinhole
// ray, since the screen-plane direction is already unit length): the final
// ray direction is normalize(direct*FocalDistance - lensOffset), which is
// degenerate at FocalDistance=0 with Aperture=0. Aperture=0 alone disables
// the lens offset (no depth-of-field blur) without this restriction.
type Camera struct {
	Origin         core.Vec3
	Direct         core.Vec3 // not required to be pre-normalized by callers
	ViewAngleScale float64
	PlaneDistance  float64
	FocalDistance  float64
	Aperture       float64
}

// Frame holds the precomputed screen basis used to generate camera rays for
// every pixel of a render; built once per pass since it only depends on
// image dimensions and the camera's own fields.
type Frame struct {
	cx, cy   core.Vec3
	direct   core.Vec3
	dofBasis func(rngA, rngB float64) core.Vec3
}

// NewFrame precomputes the screen-space basis vectors cx, cy (scaled by
// ViewAngleScale and the image aspect ratio) and the depth-of-field lens
// basis, selected by the dominant axis of the camera direction so the
// basis construction never divides by a near-zero component.
func (c Camera) NewFrame(width, height int) Frame {
	fw, fh := float64(width), float64(height)
	direct := c.Direct.Normalize()
	cx := core.NewVec3(fw*c.ViewAngleScale/fh, 0, 0)
	cy := cx.Cross(direct).Normalize().Multiply(c.ViewAngleScale)

	axis := direct.DominantAxis()
	dofBasis := func(a, b float64) core.Vec3 {
		var v core.Vec3
		switch axis {
		case 0:
			v = core.NewVec3(-(a*direct.Y+b*direct.Z)/direct.X, a, b)
		case 1:
			v = core.NewVec3(a, -(a*direct.X+b*direct.Z)/direct.Y, b)
		default:
			v = core.NewVec3(a, b, -(a*direct.X+b*direct.Y)/direct.Z)
		}
		if v.LengthSquared() == 0 {
			return v
		}
		return v.Normalize()
	}

	return Frame{cx: cx, cy: cy, direct: direct, dofBasis: dofBasis}
}

// GenerateRay builds a camera ray for a sub-pixel sample at strata (sx,sy)
// within pixel (x,y) of a (width,height) image. jitterX/jitterY are tent-
// filtered in [-1,1] (see core.RNG.TentFilter); rngA, rngB and lensR are
// independent uniforms in [0,1) used for the depth-of-field lens sample.
func (c Camera) GenerateRay(f Frame, x, y, width, height, sx, sy int, jitterX, jitterY, rngA, rngB, lensR float64) core.Ray {
	fw, fh := float64(width), float64(height)
	fx, fy := float64(x), float64(y)
	fsx, fsy := float64(sx), float64(sy)

	ccx := f.cx.Multiply(((fsx + 0.5 + jitterX) / 2.0 + fx) / fw - 0.5)
	ccy := f.cy.Multiply(((fsy + 0.5 + jitterY) / 2.0 + fy) / fh - 0.5)

	lensOffset := f.dofBasis(rngA-0.5, rngB-0.5).Multiply(c.Aperture * lensR)
	d := ccx.Add(ccy).Add(f.direct)

	origin := c.Origin.Add(lensOffset).Add(d.Multiply(c.PlaneDistance))
	direct := d.Normalize().Multiply(c.FocalDistance).Subtract(lensOffset).Normalize()
	return core.NewRay(origin, direct)
}
