package ecfp

import (
	"github.com/cockroachdb/errors"

	"ecfp.dev/digits"
)

// ConvertToAffineForm sets out to the affine form of the Jacobian point p,
// keeping its domain. One inversion of z yields both z^-2 and z^-3.
func (op *Operator) ConvertToAffineForm(p, out *PointFp) {
	op.curve.owns("convert to affine", p, out)
	if p.coords != Jacobian {
		panicState("convert to affine", p, Jacobian, p.domain)
	}
	if p.infinity || digits.IsZero(p.z) {
		out.setInfinity(Affine, p.domain)
		return
	}

	zinv, zinv2, x, y := op.t[0], op.t[1], op.t[2], op.t[3]
	if p.domain == Montgomery {
		op.invert(zinv, p.z)
		op.sqr(zinv2, zinv)
		op.mul(x, p.x, zinv2)
		op.mul(zinv2, zinv2, zinv)
		op.mul(y, p.y, zinv2)
	} else {
		inv, err := digits.ModInv(p.z, op.p)
		if err != nil {
			panic(errors.NewAssertionErrorWithWrappedErrf(err, "ecfp: inverting z"))
		}
		z2 := digits.ModMul(inv, inv, op.p)
		copy(x, digits.ModMul(p.x, z2, op.p))
		copy(y, digits.ModMul(p.y, digits.ModMul(z2, inv, op.p), op.p))
	}
	out.setAffine(x, y, p.domain)
}

// ConvertToJacobianForm sets out to the affine point p with z = 1 in the
// point's domain.
func (op *Operator) ConvertToJacobianForm(p, out *PointFp) {
	op.curve.owns("convert to jacobian", p, out)
	if p.coords != Affine {
		panicState("convert to jacobian", p, Affine, p.domain)
	}
	domain := p.domain
	if p.infinity {
		out.setInfinity(Jacobian, domain)
		return
	}
	p.CopyTo(out)
	if domain == Montgomery {
		copy(out.z, op.one)
	} else {
		clear(out.z)
		out.z[0] = 1
	}
	out.coords = Jacobian
}

// ConvertToMontgomeryForm moves the coordinates of a standard point into
// the Montgomery domain.
func (op *Operator) ConvertToMontgomeryForm(p, out *PointFp) {
	op.curve.owns("convert to montgomery", p, out)
	if p.domain != Standard {
		panicState("convert to montgomery", p, p.coords, Standard)
	}
	p.CopyTo(out)
	out.domain = Montgomery
	if p.infinity {
		return
	}
	op.mont.ToMontgomery(out.x, out.x)
	op.mont.ToMontgomery(out.y, out.y)
	if out.coords == Jacobian {
		op.mont.ToMontgomery(out.z, out.z)
	}
}

// ConvertToStandardForm moves the coordinates of a Montgomery point back to
// the standard domain.
func (op *Operator) ConvertToStandardForm(p, out *PointFp) {
	op.curve.owns("convert to standard", p, out)
	if p.domain != Montgomery {
		panicState("convert to standard", p, p.coords, Montgomery)
	}
	p.CopyTo(out)
	out.domain = Standard
	if p.infinity {
		return
	}
	op.mont.ToStandard(out.x, out.x)
	op.mont.ToStandard(out.y, out.y)
	if out.coords == Jacobian {
		op.mont.ToStandard(out.z, out.z)
	}
}
