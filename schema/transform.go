package schema

// Transform is a 2x3 affine matrix:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
//
// stored as {A, B, C, D, Tx, Ty}. Unlike a node-local TRS decomposition, the
// document and scene models carry this flat matrix directly; tools and
// mutation operations are responsible for composing translate/scale/rotate
// into it when a user-facing op needs that vocabulary.
type Transform struct {
	A, B, C, D, Tx, Ty float64
}

// Identity is the identity transform.
var Identity = Transform{A: 1, D: 1}

// Translate returns the identity transform translated by (x, y).
func Translate(x, y float64) Transform {
	return Transform{A: 1, D: 1, Tx: x, Ty: y}
}

// Scale returns the identity transform scaled by (sx, sy).
func Scale(sx, sy float64) Transform {
	return Transform{A: sx, D: sy}
}

// Multiply composes t (left/parent) with o (right/child) so that
// (t.Multiply(o)).Apply(p) == t.Apply(o.Apply(p)).
func (t Transform) Multiply(o Transform) Transform {
	return Transform{
		A:  t.A*o.A + t.C*o.B,
		B:  t.B*o.A + t.D*o.B,
		C:  t.A*o.C + t.C*o.D,
		D:  t.B*o.C + t.D*o.D,
		Tx: t.A*o.Tx + t.C*o.Ty + t.Tx,
		Ty: t.B*o.Tx + t.D*o.Ty + t.Ty,
	}
}

// Inverse returns the matrix inverse. A singular matrix (determinant within
// 1e-12 of zero) inverts to the identity rather than panicking or dividing
// by zero.
func (t Transform) Inverse() Transform {
	det := t.A*t.D - t.C*t.B
	if det > -1e-12 && det < 1e-12 {
		return Identity
	}
	invDet := 1.0 / det
	a := t.D * invDet
	b := -t.B * invDet
	c := -t.C * invDet
	d := t.A * invDet
	return Transform{
		A: a, B: b, C: c, D: d,
		Tx: -(a*t.Tx + c*t.Ty),
		Ty: -(b*t.Tx + d*t.Ty),
	}
}

// Apply transforms point p by t.
func (t Transform) Apply(p Point) Point {
	return Point{
		X: t.A*p.X + t.C*p.Y + t.Tx,
		Y: t.B*p.X + t.D*p.Y + t.Ty,
	}
}
