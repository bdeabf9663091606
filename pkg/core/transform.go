package core

// TransformStep is one primitive transformation in a Transform's sequence.
// Kind selects which of the remaining fields are meaningful.
type TransformStep struct {
	Kind string // "shift", "scale", "rotate", "rotate_radian", "rotate_line", "rotate_line_radian"

	X, Y, Z float64 // shift/scale offsets; also the point for rotate_line kinds

	Axis string // "x", "y" or "z" for rotate/rotate_radian

	Degree float64 // for "rotate" / "rotate_line"
	Radian float64 // for "rotate_radian" / "rotate_line_radian"

	LineVec Vec3 // direction for rotate_line / rotate_line_radian
}

// Transform is an ordered sequence of primitive transformations together
// with the composed forward matrix and its inverse. The list [A,B,C] means
// first A, then B, then C: the composite is C*B*A and the inverse is
// A^-1*B^-1*C^-1. Rebuilding from the sequence (via Recompute) is the only
// way to mutate Value or Inv.
type Transform struct {
	Seq   []TransformStep
	Value Mat4
	Inv   Mat4
}

// NewTransform builds a Transform from a sequence of steps, computing Value
// and Inv immediately.
func NewTransform(seq []TransformStep) *Transform {
	t := &Transform{Seq: seq}
	t.Recompute()
	return t
}

// Identity3 returns a no-op transform.
func Identity3() *Transform {
	return NewTransform(nil)
}

func stepForward(s TransformStep) Mat4 {
	switch s.Kind {
	case "shift":
		return Shift(s.X, s.Y, s.Z)
	case "scale":
		return Scale(s.X, s.Y, s.Z)
	case "rotate":
		return RotateDegrees(s.Axis, s.Degree)
	case "rotate_radian":
		return Rotate(s.Axis, s.Radian)
	case "rotate_line":
		return RotateLineDegrees(Vec3{X: s.X, Y: s.Y, Z: s.Z}, s.LineVec, s.Degree)
	case "rotate_line_radian":
		return RotateLine(Vec3{X: s.X, Y: s.Y, Z: s.Z}, s.LineVec, s.Radian)
	default:
		panic("core: unknown transform step kind " + s.Kind)
	}
}

func stepInverse(s TransformStep) Mat4 {
	switch s.Kind {
	case "shift":
		return Shift(-s.X, -s.Y, -s.Z)
	case "scale":
		return Scale(1/s.X, 1/s.Y, 1/s.Z)
	case "rotate":
		return RotateDegrees(s.Axis, -s.Degree)
	case "rotate_radian":
		return Rotate(s.Axis, -s.Radian)
	case "rotate_line":
		return RotateLineDegrees(Vec3{X: s.X, Y: s.Y, Z: s.Z}, s.LineVec, -s.Degree)
	case "rotate_line_radian":
		return RotateLine(Vec3{X: s.X, Y: s.Y, Z: s.Z}, s.LineVec, -s.Radian)
	default:
		panic("core: unknown transform step kind " + s.Kind)
	}
}

// Recompute rebuilds Value and Inv from Seq. Invariant: Inv*Value == I to
// within floating tolerance.
func (t *Transform) Recompute() {
	value := Identity()
	for _, s := range t.Seq {
		value = stepForward(s).Mul(value)
	}
	t.Value = value

	inv := Identity()
	for _, s := range t.Seq {
		inv = inv.Mul(stepInverse(s))
	}
	t.Inv = inv
}

// Position returns the translation component of the forward matrix.
func (t *Transform) Position() Vec3 {
	return Vec3{t.Value.M03, t.Value.M13, t.Value.M23}
}

// AxisX returns the transformed local X basis vector.
func (t *Transform) AxisX() Vec3 {
	return Vec3{t.Value.M00, t.Value.M10, t.Value.M20}
}

// AxisY returns the transformed local Y basis vector.
func (t *Transform) AxisY() Vec3 {
	return Vec3{t.Value.M01, t.Value.M11, t.Value.M21}
}

// AxisZ returns the transformed local Z basis vector.
func (t *Transform) AxisZ() Vec3 {
	return Vec3{t.Value.M02, t.Value.M12, t.Value.M22}
}
