package ecfp

import (
	"github.com/cockroachdb/errors"

	"ecfp.dev/digits"
)

// ScalarMultiply sets out = k*p for an affine point p in either domain and
// 0 <= k <= order. The result is affine standard; k = 0, k = order or p at
// infinity gives the point at infinity. Larger scalars panic.
//
// k is recoded into width-w NAF and scanned from the top: a zero digit
// doubles the accumulator and a nonzero digit d applies MixedDoubleAdd with
// the table entry |d|P, negated in place for the duration of the step when
// d < 0. Running time depends on k.
func (op *Operator) ScalarMultiply(k digits.Digits, p, out *PointFp) {
	c := op.curve
	c.owns("scalar multiply", p, out)
	if p.coords != Affine {
		panicState("scalar multiply", p, Affine, p.domain)
	}
	cmp := digits.Compare(k, c.order)
	if cmp > 0 {
		panic(errors.AssertionFailedf("ecfp: scalar multiply: scalar exceeds the group order"))
	}
	if cmp == 0 || digits.IsZero(k) || p.infinity {
		out.setInfinity(Affine, Standard)
		return
	}

	base := p.Clone()
	if base.domain == Standard {
		op.ConvertToMontgomeryForm(base, base)
	}
	op.scalarMultiply(k, base, out)
}

// ScalarMultiplyBase sets out = k*G using the generator held in Montgomery
// form by the curve.
func (op *Operator) ScalarMultiplyBase(k digits.Digits, out *PointFp) {
	c := op.curve
	c.owns("scalar multiply base", out)
	cmp := digits.Compare(k, c.order)
	if cmp > 0 {
		panic(errors.AssertionFailedf("ecfp: scalar multiply: scalar exceeds the group order"))
	}
	if cmp == 0 || digits.IsZero(k) {
		out.setInfinity(Affine, Standard)
		return
	}
	op.scalarMultiply(k, c.generatorM.Clone(), out)
}

func (op *Operator) scalarMultiply(k digits.Digits, base, out *PointFp) {
	w := op.curve.NAFWidth()
	naf, err := digits.ComputeNAF(k, w)
	if err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "ecfp: scalar multiply"))
	}
	table := op.GeneratePrecomputationTable(w, base)

	acc := op.curve.AllocatePointStorage()
	acc.setInfinity(Jacobian, Montgomery)
	for i := len(naf) - 1; i >= 0; i-- {
		switch d := naf[i]; {
		case d == 0:
			op.Double(acc, acc)
		case d > 0:
			op.MixedDoubleAdd(acc, table[d/2], acc)
		default:
			entry := table[(-d)/2]
			op.Negate(entry, entry)
			op.MixedDoubleAdd(acc, entry, acc)
			op.Negate(entry, entry)
		}
	}

	op.ConvertToAffineForm(acc, acc)
	op.ConvertToStandardForm(acc, acc)
	acc.CopyTo(out)
}

// Add sets out = a + b for affine standard points, returning an affine
// standard result.
func (op *Operator) Add(a, b, out *PointFp) {
	op.curve.owns("add", a, b, out)
	a.require("add", Affine, Standard)
	b.require("add", Affine, Standard)

	j := a.Clone()
	op.ConvertToMontgomeryForm(j, j)
	op.ConvertToJacobianForm(j, j)
	bm := b.Clone()
	op.ConvertToMontgomeryForm(bm, bm)

	op.MixedAdd(j, bm, j)
	op.ConvertToAffineForm(j, j)
	op.ConvertToStandardForm(j, j)
	j.CopyTo(out)
}
