package ecfp

import (
	"github.com/cockroachdb/errors"

	"ecfp.dev/digits"
)

// GeneratePrecomputationTable returns the 2^(w-2) odd multiples
// p, 3p, 5p, ... of an affine Montgomery point, in affine Montgomery form.
//
// The multiples are built with mixed additions of 2p in Jacobian
// coordinates and brought back to affine form with a single field
// inversion shared across the whole table.
func (op *Operator) GeneratePrecomputationTable(w int, p *PointFp) []*PointFp {
	op.curve.owns("precompute", p)
	p.require("precompute", Affine, Montgomery)
	if w < digits.MinNAFWidth || w > digits.MaxNAFWidth {
		panic(errors.AssertionFailedf("ecfp: precompute: window width %d out of range", w))
	}
	if p.infinity {
		panic(errors.AssertionFailedf("ecfp: precompute: point at infinity"))
	}

	table := make([]*PointFp, 1<<uint(w-2))
	table[0] = p.Clone()
	if len(table) == 1 {
		return table
	}
	if op.curve.aEqualsZero {
		op.generatePrecomputationTableAequals0(table)
	} else {
		op.generatePrecomputationTableAequalsNeg3(table)
	}
	return table
}

// generatePrecomputationTableAequalsNeg3 doubles table[0] with z = 1, so
// delta = 1 and alpha = 3(x^2 - 1).
func (op *Operator) generatePrecomputationTableAequalsNeg3(table []*PointFp) {
	n := op.curve.fieldDigits
	x, y := table[0].x, table[0].y
	gamma, beta, alpha, t0 := op.t[0], op.t[1], op.t[2], op.t[3]
	xd, yd, lambda := make(digits.Digits, n), make(digits.Digits, n), make(digits.Digits, n)

	op.sqr(gamma, y)
	op.mul(beta, x, gamma)
	op.sqr(t0, x)
	op.sub(t0, t0, op.one)
	op.add(alpha, t0, t0)
	op.add(alpha, alpha, t0)

	op.add(beta, beta, beta)
	op.add(beta, beta, beta)
	op.add(t0, beta, beta)
	op.sqr(xd, alpha)
	op.sub(xd, xd, t0)

	op.sub(t0, beta, xd)
	op.mul(yd, alpha, t0)
	op.sqr(gamma, gamma)
	op.add(gamma, gamma, gamma)
	op.add(gamma, gamma, gamma)
	op.add(gamma, gamma, gamma)
	op.sub(yd, yd, gamma)

	op.add(lambda, y, y)
	op.recoverPrecomputationTable(table, xd, yd, lambda)
}

// generatePrecomputationTableAequals0 doubles table[0] with z = 1.
func (op *Operator) generatePrecomputationTableAequals0(table []*PointFp) {
	n := op.curve.fieldDigits
	x, y := table[0].x, table[0].y
	a, b, c, d, e := op.t[0], op.t[1], op.t[2], op.t[3], op.t[4]
	xd, yd, lambda := make(digits.Digits, n), make(digits.Digits, n), make(digits.Digits, n)

	op.sqr(a, x)
	op.sqr(b, y)
	op.sqr(c, b)
	op.add(d, x, b)
	op.sqr(d, d)
	op.sub(d, d, a)
	op.sub(d, d, c)
	op.add(d, d, d)
	op.add(e, a, a)
	op.add(e, e, a)

	op.sqr(xd, e)
	op.sub(xd, xd, d)
	op.sub(xd, xd, d)

	op.sub(d, d, xd)
	op.mul(yd, e, d)
	op.add(c, c, c)
	op.add(c, c, c)
	op.add(c, c, c)
	op.sub(yd, yd, c)

	op.add(lambda, y, y)
	op.recoverPrecomputationTable(table, xd, yd, lambda)
}

// recoverPrecomputationTable fills table[1:] given 2P = (xd, yd, lambda) in
// Jacobian form.
//
// Scaling by lambda (x -> lambda^2 x, y -> lambda^3 y) maps the curve onto
// an isomorphic one on which 2P is affine, so the odd multiples follow by
// repeated mixed addition without inversions. A point with Jacobian z in
// the scaled frame has true z = z*lambda. The true z values z_i are
// inverted together: d[i] = z_1...z_i, one inversion of d[m-1], then
// e[i] = z_i^-1 is peeled off from the top.
func (op *Operator) recoverPrecomputationTable(table []*PointFp, xd, yd, lambda digits.Digits) {
	if digits.IsZero(lambda) {
		// 2P is infinity, so every odd multiple is P
		for i := 1; i < len(table); i++ {
			table[i] = table[0].Clone()
		}
		return
	}

	n := op.curve.fieldDigits
	m := len(table) - 1
	xs, ys, zs := make([]digits.Digits, m), make([]digits.Digits, m), make([]digits.Digits, m)

	// running point, starting at P in the scaled frame
	rx, ry, rz := make(digits.Digits, n), make(digits.Digits, n), op.one.Clone()
	l2 := make(digits.Digits, n)
	op.sqr(l2, lambda)
	op.mul(rx, table[0].x, l2)
	op.mul(l2, l2, lambda)
	op.mul(ry, table[0].y, l2)

	for i := 0; i < m; i++ {
		if hZero, _ := op.madd(rx, ry, rz, rx, ry, rz, xd, yd); hZero {
			// (2i+1)P is 2P or -2P, so P has small order and some entries
			// are infinity or repeat
			op.fillPrecomputationTable(table)
			return
		}
		xs[i], ys[i] = rx.Clone(), ry.Clone()
		zs[i] = make(digits.Digits, n)
		op.mul(zs[i], rz, lambda)
	}

	d := make([]digits.Digits, m)
	d[0] = zs[0]
	for i := 1; i < m; i++ {
		d[i] = make(digits.Digits, n)
		op.mul(d[i], d[i-1], zs[i])
	}

	inv := make(digits.Digits, n)
	op.invert(inv, d[m-1])
	e := make([]digits.Digits, m)
	for i := m - 1; i > 0; i-- {
		e[i] = make(digits.Digits, n)
		op.mul(e[i], inv, d[i-1])
		op.mul(inv, inv, zs[i])
	}
	e[0] = inv

	e2, x, y := op.t[12], op.t[13], op.t[14]
	for i := 0; i < m; i++ {
		op.sqr(e2, e[i])
		op.mul(x, xs[i], e2)
		op.mul(e2, e2, e[i])
		op.mul(y, ys[i], e2)
		pt := op.curve.AllocatePointStorage()
		pt.setAffine(x, y, Montgomery)
		table[i+1] = pt
	}
}

// fillPrecomputationTable computes table[1:] one entry at a time with the
// general addition, which copes with entries at infinity. It serves points
// whose odd multiples collide with 2P.
func (op *Operator) fillPrecomputationTable(table []*PointFp) {
	c := op.curve
	twoP := c.AllocatePointStorage()
	op.ConvertToJacobianForm(table[0], twoP)
	op.Double(twoP, twoP)
	op.ConvertToAffineForm(twoP, twoP)

	acc := c.AllocatePointStorage()
	op.ConvertToJacobianForm(table[0], acc)
	for i := 1; i < len(table); i++ {
		op.MixedAdd(acc, twoP, acc)
		table[i] = c.AllocatePointStorage()
		op.ConvertToAffineForm(acc, table[i])
	}
}
