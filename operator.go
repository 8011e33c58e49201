package ecfp

import (
	"github.com/cockroachdb/errors"

	"ecfp.dev/digits"
)

const numTemps = 18

// Operator performs point arithmetic on one curve. It holds a private
// Montgomery context and scratch field elements, so each goroutine needs
// its own Operator.
//
// Unless stated otherwise operations take Jacobian or affine points in the
// Montgomery domain and none of them run in constant time.
type Operator struct {
	curve *Curve
	mont  *digits.Montgomery
	p     digits.Digits
	one   digits.Digits // one in Montgomery form
	r3    digits.Digits

	t [numTemps]digits.Digits

	scratch *PointFp
}

// NewOperator returns an operator for c.
func NewOperator(c *Curve) *Operator {
	op := &Operator{
		curve: c,
		mont:  c.mont.Clone(),
		p:     c.p,
	}
	op.one = op.mont.One()
	op.r3 = op.mont.RCubed()
	for i := range op.t {
		op.t[i] = make(digits.Digits, c.fieldDigits)
	}
	op.scratch = c.AllocatePointStorage()
	return op
}

// Curve returns the operator's curve.
func (op *Operator) Curve() *Curve { return op.curve }

func (op *Operator) mul(out, a, b digits.Digits) { op.mont.Multiply(out, a, b) }

func (op *Operator) sqr(out, a digits.Digits) { op.mont.Multiply(out, a, a) }

func (op *Operator) add(out, a, b digits.Digits) {
	if digits.Add(out, a, b) != 0 || digits.Compare(out, op.p) >= 0 {
		digits.Subtract(out, out, op.p)
	}
}

func (op *Operator) sub(out, a, b digits.Digits) {
	if digits.Subtract(out, a, b) != 0 {
		digits.Add(out, out, op.p)
	}
}

// invert sets out to the Montgomery form inverse of the Montgomery form
// value a. The plain inverse of aR is a^-1 R^-1, so one more product with
// R^3 lands back in the domain.
func (op *Operator) invert(out, a digits.Digits) {
	inv, err := digits.ModInv(a, op.p)
	if err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "ecfp: inverting zero field element"))
	}
	op.mul(out, inv, op.r3)
}

// Double sets out = 2*p for a Jacobian Montgomery point.
func (op *Operator) Double(p, out *PointFp) {
	op.curve.owns("double", p, out)
	p.require("double", Jacobian, Montgomery)
	if p.infinity {
		out.setInfinity(Jacobian, Montgomery)
		return
	}
	if op.curve.aEqualsZero {
		op.doubleAequals0(p, out)
	} else {
		op.doubleAequalsNeg3(p, out)
	}
}

// doubleAequalsNeg3 uses 3(X-Z^2)(X+Z^2) for the tangent slope numerator,
// which equals 3X^2 + aZ^4 when a = -3.
func (op *Operator) doubleAequalsNeg3(p, out *PointFp) {
	delta, gamma, beta, alpha := op.t[0], op.t[1], op.t[2], op.t[3]
	t0, t1 := op.t[4], op.t[5]
	x3, y3, z3 := op.t[6], op.t[7], op.t[8]

	op.sqr(delta, p.z)
	op.sqr(gamma, p.y)
	op.mul(beta, p.x, gamma)
	op.sub(t0, p.x, delta)
	op.add(t1, p.x, delta)
	op.mul(alpha, t0, t1)
	op.add(t0, alpha, alpha)
	op.add(alpha, t0, alpha)

	// Z3 = (Y+Z)^2 - gamma - delta
	op.add(t0, p.y, p.z)
	op.sqr(z3, t0)
	op.sub(z3, z3, gamma)
	op.sub(z3, z3, delta)

	// X3 = alpha^2 - 8 beta
	op.add(beta, beta, beta)
	op.add(beta, beta, beta)
	op.add(t1, beta, beta)
	op.sqr(x3, alpha)
	op.sub(x3, x3, t1)

	// Y3 = alpha (4 beta - X3) - 8 gamma^2
	op.sub(t0, beta, x3)
	op.mul(y3, alpha, t0)
	op.sqr(gamma, gamma)
	op.add(gamma, gamma, gamma)
	op.add(gamma, gamma, gamma)
	op.add(gamma, gamma, gamma)
	op.sub(y3, y3, gamma)

	out.setJacobian(x3, y3, z3)
}

func (op *Operator) doubleAequals0(p, out *PointFp) {
	a, b, c, d, e := op.t[0], op.t[1], op.t[2], op.t[3], op.t[4]
	t0 := op.t[5]
	x3, y3, z3 := op.t[6], op.t[7], op.t[8]

	op.sqr(a, p.x)
	op.sqr(b, p.y)
	op.sqr(c, b)

	// D = 2((X+B)^2 - A - C)
	op.add(t0, p.x, b)
	op.sqr(d, t0)
	op.sub(d, d, a)
	op.sub(d, d, c)
	op.add(d, d, d)

	// E = 3A
	op.add(e, a, a)
	op.add(e, e, a)

	// Z3 = 2 Y Z
	op.mul(z3, p.y, p.z)
	op.add(z3, z3, z3)

	// X3 = E^2 - 2D
	op.sqr(x3, e)
	op.sub(x3, x3, d)
	op.sub(x3, x3, d)

	// Y3 = E (D - X3) - 8C
	op.sub(t0, d, x3)
	op.mul(y3, e, t0)
	op.add(c, c, c)
	op.add(c, c, c)
	op.add(c, c, c)
	op.sub(y3, y3, c)

	out.setJacobian(x3, y3, z3)
}

// madd adds the affine point (x2, y2) to the Jacobian point (x1, y1, z1)
// and stores the sum in (x3, y3, z3). Outputs may alias inputs. When the x
// coordinates coincide the formula breaks down; hZero is then set, rZero
// tells doubling (both set) from cancellation, and the outputs are left
// alone.
func (op *Operator) madd(x3, y3, z3, x1, y1, z1, x2, y2 digits.Digits) (hZero, rZero bool) {
	z1z1, u2, s2, h, hh := op.t[0], op.t[1], op.t[2], op.t[3], op.t[4]
	i, j, r, v := op.t[5], op.t[6], op.t[7], op.t[8]
	rx, ry, rz := op.t[9], op.t[10], op.t[11]

	op.sqr(z1z1, z1)
	op.mul(u2, x2, z1z1)
	op.mul(s2, y2, z1)
	op.mul(s2, s2, z1z1)
	op.sub(h, u2, x1)
	op.sub(r, s2, y1)
	if digits.IsZero(h) {
		return true, digits.IsZero(r)
	}
	op.add(r, r, r)

	// I = 4 H^2, J = H I, V = X1 I
	op.sqr(hh, h)
	op.add(i, hh, hh)
	op.add(i, i, i)
	op.mul(j, h, i)
	op.mul(v, x1, i)

	// X3 = r^2 - J - 2V
	op.sqr(rx, r)
	op.sub(rx, rx, j)
	op.sub(rx, rx, v)
	op.sub(rx, rx, v)

	// Y3 = r (V - X3) - 2 Y1 J
	op.sub(v, v, rx)
	op.mul(ry, r, v)
	op.mul(j, y1, j)
	op.add(j, j, j)
	op.sub(ry, ry, j)

	// Z3 = (Z1 + H)^2 - Z1Z1 - HH
	op.add(rz, z1, h)
	op.sqr(rz, rz)
	op.sub(rz, rz, z1z1)
	op.sub(rz, rz, hh)

	copy(x3, rx)
	copy(y3, ry)
	copy(z3, rz)
	return false, false
}

// MixedAdd sets out = j + a for a Jacobian Montgomery point j and an
// affine Montgomery point a. The result is Jacobian Montgomery.
func (op *Operator) MixedAdd(j, a, out *PointFp) {
	op.curve.owns("mixed add", j, a, out)
	j.require("mixed add", Jacobian, Montgomery)
	a.require("mixed add", Affine, Montgomery)

	switch {
	case j.infinity:
		op.ConvertToJacobianForm(a, out)
		return
	case a.infinity:
		j.CopyTo(out)
		return
	}

	x3, y3, z3 := op.t[12], op.t[13], op.t[14]
	hZero, rZero := op.madd(x3, y3, z3, j.x, j.y, j.z, a.x, a.y)
	switch {
	case hZero && rZero:
		op.Double(j, out)
	case hZero:
		out.setInfinity(Jacobian, Montgomery)
	default:
		out.setJacobian(x3, y3, z3)
	}
}

// MixedDoubleAdd sets out = 2j + a for a Jacobian Montgomery point j and an
// affine Montgomery point a.
//
// The sum j + a is formed first with its z coordinate Z1*H, which also
// rescales j to that z for free. The second addition then runs on two
// points sharing a z coordinate, which saves the conversions a separate
// double and add would need.
func (op *Operator) MixedDoubleAdd(j, a, out *PointFp) {
	op.curve.owns("mixed double add", j, a, out)
	j.require("mixed double add", Jacobian, Montgomery)
	a.require("mixed double add", Affine, Montgomery)

	switch {
	case j.infinity:
		op.ConvertToJacobianForm(a, out)
		return
	case a.infinity:
		op.Double(j, out)
		return
	}

	z1z1, u2, s2, h, r := op.t[0], op.t[1], op.t[2], op.t[3], op.t[4]
	hh, hhh, v, y1h := op.t[5], op.t[6], op.t[7], op.t[8]
	sx, sy, sz := op.t[9], op.t[10], op.t[11]
	dx, dy, c, w1, w2 := op.t[12], op.t[13], op.t[14], op.t[15], op.t[16]
	t0 := op.t[17]

	op.sqr(z1z1, j.z)
	op.mul(u2, a.x, z1z1)
	op.mul(s2, a.y, j.z)
	op.mul(s2, s2, z1z1)
	op.sub(h, u2, j.x)
	op.sub(r, s2, j.y)
	if digits.IsZero(h) {
		if digits.IsZero(r) {
			// j = a, so the result is 3a
			op.Double(j, op.scratch)
			op.MixedAdd(op.scratch, a, out)
		} else {
			// j = -a, so the result is j
			j.CopyTo(out)
		}
		return
	}

	// S = j + a with Z_S = Z1 H; j rescaled to Z_S is (X1 H^2, Y1 H^3).
	op.sqr(hh, h)
	op.mul(hhh, h, hh)
	op.mul(v, j.x, hh)
	op.mul(y1h, j.y, hhh)
	op.sqr(sx, r)
	op.sub(sx, sx, hhh)
	op.sub(sx, sx, v)
	op.sub(sx, sx, v)
	op.sub(t0, v, sx)
	op.mul(sy, r, t0)
	op.sub(sy, sy, y1h)
	op.mul(sz, j.z, h)

	// out = S + j on the shared z coordinate
	op.sub(dx, sx, v)
	op.sub(dy, sy, y1h)
	if digits.IsZero(dx) {
		if digits.IsZero(dy) {
			// S = j only if a is infinity, which was handled above
			op.scratch.setJacobian(sx, sy, sz)
			op.Double(op.scratch, out)
		} else {
			out.setInfinity(Jacobian, Montgomery)
		}
		return
	}
	op.sqr(c, dx)
	op.mul(w1, sx, c)
	op.mul(w2, v, c)

	// X = dy^2 - W1 - W2
	op.sqr(t0, dy)
	op.sub(t0, t0, w1)
	op.sub(t0, t0, w2)

	// Y = dy (W1 - X) - Ys (W1 - W2)
	op.sub(c, w1, t0)
	op.mul(c, dy, c)
	op.sub(w2, w1, w2)
	op.mul(w2, sy, w2)
	op.sub(c, c, w2)

	// Z = Zs dx
	op.mul(sz, sz, dx)

	out.setJacobian(t0, c, sz)
}

// Negate sets out = -p by replacing y with p - y. It accepts points in any
// state and keeps that state.
func (op *Operator) Negate(p, out *PointFp) {
	op.curve.owns("negate", p, out)
	p.CopyTo(out)
	if p.infinity || digits.IsZero(out.y) {
		return
	}
	digits.Subtract(out.y, op.p, out.y)
}
