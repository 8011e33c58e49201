// Package ecfp implements elliptic curve arithmetic over prime fields for
// short Weierstrass curves y^2 = x^3 + ax + b with a = -3 or a = 0.
//
// Points carry their coordinate system (affine or Jacobian) and domain
// (standard or Montgomery) and each operation checks that its inputs are in
// the state it expects, panicking otherwise. Field arithmetic inside the
// Operator runs in the Montgomery domain; the boundary representation is
// affine standard form.
//
// Curves are immutable after construction and safe to share between
// goroutines. An Operator owns scratch space and must not be shared.
package ecfp

import (
	"io"

	"github.com/cockroachdb/errors"

	"ecfp.dev/digits"
)

// Curve describes a curve over the prime field F_p.
type Curve struct {
	name string

	p     digits.Digits
	a, b  digits.Digits
	order digits.Digits

	aEqualsZero bool

	fieldDigits int
	fieldBits   int
	fieldBytes  int
	orderBits   int
	orderBytes  int

	// mont is a template; callers work on clones.
	mont         *digits.Montgomery
	montA, montB digits.Digits

	generator  *PointFp // affine, standard
	generatorM *PointFp // affine, Montgomery
}

// CreateANeg3Curve builds a curve y^2 = x^3 - 3x + b from big-endian
// parameters.
func CreateANeg3Curve(name string, p, b, order, gx, gy []byte) (*Curve, error) {
	pd := digits.FromBytes(p)
	if digits.BitLen(pd) < 3 {
		return nil, errors.Wrap(ErrInvalidCurve, "prime too small")
	}
	return newCurve(name, pd, minusThree(pd),
		digits.FromBytes(b), digits.FromBytes(order),
		digits.FromBytes(gx), digits.FromBytes(gy))
}

func newCurve(name string, p, a, b, order, gx, gy digits.Digits) (*Curve, error) {
	n := digits.SignificantLen(p)
	if n == 0 || digits.IsEven(p) || digits.BitLen(p) < 3 {
		return nil, errors.Wrapf(ErrInvalidCurve, "%s: modulus must be an odd prime", name)
	}
	p = digits.Normalize(p, n)
	for _, v := range []digits.Digits{a, b, gx, gy} {
		if digits.Compare(v, p) >= 0 {
			return nil, errors.Wrapf(ErrInvalidCurve, "%s: parameter not reduced modulo p", name)
		}
	}
	if digits.IsZero(order) {
		return nil, errors.Wrapf(ErrInvalidCurve, "%s: zero order", name)
	}

	c := &Curve{
		name:        name,
		p:           p,
		a:           digits.Normalize(a, n),
		b:           digits.Normalize(b, n),
		order:       digits.Normalize(order, 0),
		aEqualsZero: digits.IsZero(a),
		fieldDigits: n,
		fieldBits:   digits.BitLen(p),
		orderBits:   digits.BitLen(order),
		mont:        digits.NewMontgomery(p),
	}
	c.fieldBytes = (c.fieldBits + 7) / 8
	c.orderBytes = (c.orderBits + 7) / 8
	if !c.aEqualsZero && !digits.Equal(c.a, minusThree(p)) {
		return nil, errors.Wrapf(ErrInvalidCurve, "%s: a must be 0 or -3", name)
	}

	c.montA = make(digits.Digits, n)
	c.mont.ToMontgomery(c.montA, c.a)
	c.montB = make(digits.Digits, n)
	c.mont.ToMontgomery(c.montB, c.b)

	c.generator = &PointFp{
		curve: c,
		x:     digits.Normalize(gx, n),
		y:     digits.Normalize(gy, n),
		z:     make(digits.Digits, n),
	}
	if !c.IsOnCurve(c.generator) {
		return nil, errors.Wrapf(ErrPointNotOnCurve, "%s: generator", name)
	}
	c.generatorM = c.generator.Clone()
	c.mont.ToMontgomery(c.generatorM.x, c.generator.x)
	c.mont.ToMontgomery(c.generatorM.y, c.generator.y)
	c.generatorM.domain = Montgomery
	return c, nil
}

// Name returns the curve name.
func (c *Curve) Name() string { return c.name }

// P returns the field prime.
func (c *Curve) P() digits.Digits { return c.p.Clone() }

// A returns the coefficient a, either 0 or p-3.
func (c *Curve) A() digits.Digits { return c.a.Clone() }

// B returns the coefficient b.
func (c *Curve) B() digits.Digits { return c.b.Clone() }

// Order returns the order of the generator.
func (c *Curve) Order() digits.Digits { return c.order.Clone() }

// AEqualsZero reports whether a = 0; otherwise a = -3.
func (c *Curve) AEqualsZero() bool { return c.aEqualsZero }

// FieldDigits returns the digit length of field elements.
func (c *Curve) FieldDigits() int { return c.fieldDigits }

// FieldBits returns the bit length of p.
func (c *Curve) FieldBits() int { return c.fieldBits }

// FieldBytes returns the byte length of an encoded coordinate.
func (c *Curve) FieldBytes() int { return c.fieldBytes }

// OrderBits returns the bit length of the group order.
func (c *Curve) OrderBits() int { return c.orderBits }

// OrderBytes returns the byte length of an encoded scalar.
func (c *Curve) OrderBytes() int { return c.orderBytes }

// NAFWidth returns the window width used for scalar multiplication.
func (c *Curve) NAFWidth() int {
	if c.fieldBits <= 192 {
		return 5
	}
	return 6
}

// Generator returns a copy of the generator in affine standard form.
func (c *Curve) Generator() *PointFp { return c.generator.Clone() }

// Equal reports whether c and o describe the same curve.
func (c *Curve) Equal(o *Curve) bool {
	if c == o {
		return true
	}
	return digits.Equal(c.p, o.p) && digits.Equal(c.a, o.a) && digits.Equal(c.b, o.b) &&
		digits.Equal(c.order, o.order) &&
		digits.Equal(c.generator.x, o.generator.x) && digits.Equal(c.generator.y, o.generator.y)
}

// IsOnCurve reports whether an affine point satisfies the curve equation
// with reduced coordinates. The point at infinity has no coordinates and is
// reported as not on the curve.
func (c *Curve) IsOnCurve(pt *PointFp) bool {
	if pt.coords != Affine {
		panicState("is on curve", pt, Affine, pt.domain)
	}
	if pt.infinity {
		return false
	}
	if digits.Compare(pt.x, c.p) >= 0 || digits.Compare(pt.y, c.p) >= 0 {
		return false
	}

	mt := c.mont.Clone()
	n := c.fieldDigits
	x, y := digits.Normalize(pt.x, n), digits.Normalize(pt.y, n)
	if pt.domain == Standard {
		mt.ToMontgomery(x, x)
		mt.ToMontgomery(y, y)
	}

	// y^2 == x^3 + ax + b
	lhs := make(digits.Digits, n)
	mt.Multiply(lhs, y, y)
	rhs := make(digits.Digits, n)
	t := make(digits.Digits, n)
	mt.Multiply(rhs, x, x)
	mt.Multiply(rhs, rhs, x)
	mt.Multiply(t, c.montA, x)
	rhs = digits.ModAdd(rhs, t, c.p)
	rhs = digits.ModAdd(rhs, c.montB, c.p)
	return digits.Equal(lhs, rhs)
}

// RandomScalar returns a uniformly random scalar in [1, order) read from
// rand, sized to the order's digit length.
func (c *Curve) RandomScalar(rand io.Reader) (digits.Digits, error) {
	buf := make([]byte, c.orderBytes)
	excess := uint(c.orderBytes*8 - c.orderBits)
	for {
		if _, err := io.ReadFull(rand, buf); err != nil {
			return nil, errors.Wrap(err, "ecfp: reading random scalar")
		}
		buf[0] &= 0xff >> excess
		k := digits.Normalize(digits.FromBytes(buf), len(c.order))
		if !digits.IsZero(k) && digits.Compare(k, c.order) < 0 {
			return k, nil
		}
	}
}

// AllocatePointStorage returns the affine standard point (0, 0) with
// coordinate buffers sized to the field.
func (c *Curve) AllocatePointStorage() *PointFp {
	n := c.fieldDigits
	return &PointFp{
		curve: c,
		x:     make(digits.Digits, n),
		y:     make(digits.Digits, n),
		z:     make(digits.Digits, n),
	}
}

// CreatePointAtInfinity returns the point at infinity in affine standard
// form.
func (c *Curve) CreatePointAtInfinity() *PointFp {
	pt := c.AllocatePointStorage()
	pt.infinity = true
	return pt
}

// NewPoint returns the affine standard point (x, y) after checking that it
// lies on the curve.
func (c *Curve) NewPoint(x, y digits.Digits) (*PointFp, error) {
	if digits.Compare(x, c.p) >= 0 || digits.Compare(y, c.p) >= 0 {
		return nil, errors.Wrap(ErrPointNotOnCurve, "coordinate not reduced")
	}
	pt := c.AllocatePointStorage()
	copy(pt.x, x[:digits.SignificantLen(x)])
	copy(pt.y, y[:digits.SignificantLen(y)])
	if !c.IsOnCurve(pt) {
		return nil, ErrPointNotOnCurve
	}
	return pt, nil
}

// NewPointFromBytes is NewPoint for big-endian coordinates.
func (c *Curve) NewPointFromBytes(x, y []byte) (*PointFp, error) {
	return c.NewPoint(digits.FromBytes(x), digits.FromBytes(y))
}

func (c *Curve) owns(op string, pts ...*PointFp) {
	for _, pt := range pts {
		if pt.curve != c && !pt.curve.Equal(c) {
			panicCurve(op)
		}
	}
}
