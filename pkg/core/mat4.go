package core

import "math"

// Mat4 is a 4x4 row-major affine matrix. Only the top three rows are stored
// explicitly since the bottom row of an affine transform is always
// (0, 0, 0, 1); this mirrors the teacher's flat-field Mat layout but keeps
// the implicit row out of the struct, storing 12 values instead of 16.
type Mat4 struct {
	M00, M01, M02, M03 float64
	M10, M11, M12, M13 float64
	M20, M21, M22, M23 float64
}

// Identity returns the 4x4 identity matrix.
func Identity() Mat4 {
	return Mat4{
		M00: 1, M11: 1, M22: 1,
	}
}

// Shift returns a pure translation matrix.
func Shift(x, y, z float64) Mat4 {
	m := Identity()
	m.M03, m.M13, m.M23 = x, y, z
	return m
}

// Scale returns a pure scale matrix.
func Scale(x, y, z float64) Mat4 {
	return Mat4{M00: x, M11: y, M22: z}
}

// Rotate returns a rotation about the given principal axis ("x", "y" or "z")
// by radian radians.
func Rotate(axis string, radian float64) Mat4 {
	sin, cos := math.Sin(radian), math.Cos(radian)
	switch axis {
	case "x":
		return Mat4{M00: 1, M11: cos, M12: -sin, M21: sin, M22: cos}
	case "y":
		return Mat4{M00: cos, M02: sin, M11: 1, M20: -sin, M22: cos}
	case "z":
		return Mat4{M00: cos, M01: -sin, M10: sin, M11: cos, M22: 1}
	default:
		panic("core: invalid rotation axis " + axis)
	}
}

// RotateDegrees is Rotate with the angle given in degrees.
func RotateDegrees(axis string, degrees float64) Mat4 {
	return Rotate(axis, degrees*math.Pi/180.0)
}

// RotateLine returns a rotation by radian radians about the line through
// point p with direction v. It is built by translating p to the origin,
// aligning v with the Z axis, rotating about Z, then undoing the alignment
// and translation.
func RotateLine(p, v Vec3, radian float64) Mat4 {
	vn := v.Normalize()
	a := math.Atan2(vn.Y, vn.Z)
	b := math.Atan2(-vn.X, math.Hypot(vn.Y, vn.Z))
	m := Shift(p.X, p.Y, p.Z)
	m = m.Mul(Rotate("x", -a))
	m = m.Mul(Rotate("y", -b))
	m = m.Mul(Rotate("z", radian))
	m = m.Mul(Rotate("y", b))
	m = m.Mul(Rotate("x", a))
	m = m.Mul(Shift(-p.X, -p.Y, -p.Z))
	return m
}

// RotateLineDegrees is RotateLine with the angle given in degrees.
func RotateLineDegrees(p, v Vec3, degrees float64) Mat4 {
	return RotateLine(p, v, degrees*math.Pi/180.0)
}

// Mul composes two affine transforms: (m.Mul(o)) applied to a point first
// applies o, then m.
func (m Mat4) Mul(o Mat4) Mat4 {
	return Mat4{
		M00: m.M00*o.M00 + m.M01*o.M10 + m.M02*o.M20,
		M01: m.M00*o.M01 + m.M01*o.M11 + m.M02*o.M21,
		M02: m.M00*o.M02 + m.M01*o.M12 + m.M02*o.M22,
		M03: m.M00*o.M03 + m.M01*o.M13 + m.M02*o.M23 + m.M03,

		M10: m.M10*o.M00 + m.M11*o.M10 + m.M12*o.M20,
		M11: m.M10*o.M01 + m.M11*o.M11 + m.M12*o.M21,
		M12: m.M10*o.M02 + m.M11*o.M12 + m.M12*o.M22,
		M13: m.M10*o.M03 + m.M11*o.M13 + m.M12*o.M23 + m.M13,

		M20: m.M20*o.M00 + m.M21*o.M10 + m.M22*o.M20,
		M21: m.M20*o.M01 + m.M21*o.M11 + m.M22*o.M21,
		M22: m.M20*o.M02 + m.M21*o.M12 + m.M22*o.M22,
		M23: m.M20*o.M03 + m.M21*o.M13 + m.M22*o.M23 + m.M23,
	}
}

// MulPoint applies the matrix to a point: (x, y, z, 1). Translation
// contributes to the result.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return Vec3{
		X: m.M00*v.X + m.M01*v.Y + m.M02*v.Z + m.M03,
		Y: m.M10*v.X + m.M11*v.Y + m.M12*v.Z + m.M13,
		Z: m.M20*v.X + m.M21*v.Y + m.M22*v.Z + m.M23,
	}
}

// MulDirection applies the matrix to a direction: (x, y, z, 0). Translation
// is deliberately excluded so direction vectors never pick up a shift.
func (m Mat4) MulDirection(v Vec3) Vec3 {
	return Vec3{
		X: m.M00*v.X + m.M01*v.Y + m.M02*v.Z,
		Y: m.M10*v.X + m.M11*v.Y + m.M12*v.Z,
		Z: m.M20*v.X + m.M21*v.Y + m.M22*v.Z,
	}
}
