package ecfp

import (
	"fmt"

	"ecfp.dev/digits"
)

// Coordinates is the coordinate system of a point.
type Coordinates int

const (
	// Affine points are (x, y).
	Affine Coordinates = iota
	// Jacobian points are (X, Y, Z) representing (X/Z^2, Y/Z^3).
	Jacobian
)

func (c Coordinates) String() string {
	switch c {
	case Affine:
		return "affine"
	case Jacobian:
		return "jacobian"
	}
	return fmt.Sprintf("Coordinates(%d)", int(c))
}

// Domain is the representation of the coordinates of a point.
type Domain int

const (
	// Standard coordinates hold field elements as they are.
	Standard Domain = iota
	// Montgomery coordinates hold x*R mod p.
	Montgomery
)

func (d Domain) String() string {
	switch d {
	case Standard:
		return "standard"
	case Montgomery:
		return "montgomery"
	}
	return fmt.Sprintf("Domain(%d)", int(d))
}

// PointFp is a point on a Curve. The zero value is not usable; points come
// from a Curve or from DecodePoint. Points are mutable and every operation
// writes its result into a caller supplied output point, which may be one
// of the inputs.
type PointFp struct {
	curve    *Curve
	x, y, z  digits.Digits
	coords   Coordinates
	domain   Domain
	infinity bool
}

// Curve returns the curve p lies on.
func (p *PointFp) Curve() *Curve { return p.curve }

// X returns a copy of the x coordinate in the point's current form.
func (p *PointFp) X() digits.Digits { return p.x.Clone() }

// Y returns a copy of the y coordinate in the point's current form.
func (p *PointFp) Y() digits.Digits { return p.y.Clone() }

// Z returns a copy of the z coordinate. It is only meaningful for Jacobian
// points.
func (p *PointFp) Z() digits.Digits { return p.z.Clone() }

// Coordinates returns the coordinate system of p.
func (p *PointFp) Coordinates() Coordinates { return p.coords }

// Domain returns the domain of p.
func (p *PointFp) Domain() Domain { return p.domain }

// IsInfinity reports whether p is the point at infinity.
func (p *PointFp) IsInfinity() bool { return p.infinity }

// Clone returns an independent copy of p.
func (p *PointFp) Clone() *PointFp {
	c := *p
	c.x = p.x.Clone()
	c.y = p.y.Clone()
	c.z = p.z.Clone()
	return &c
}

// CopyTo copies p into dst, reusing dst's buffers.
func (p *PointFp) CopyTo(dst *PointFp) {
	if dst == p {
		return
	}
	p.curve.owns("copy", dst)
	copy(dst.x, p.x)
	copy(dst.y, p.y)
	copy(dst.z, p.z)
	dst.coords = p.coords
	dst.domain = p.domain
	dst.infinity = p.infinity
}

// Equal reports whether p and o have the same representation: the same
// state and, unless both are infinity, the same coordinates. Convert both
// to affine standard form to compare group elements.
func (p *PointFp) Equal(o *PointFp) bool {
	if !p.curve.Equal(o.curve) || p.coords != o.coords || p.domain != o.domain {
		return false
	}
	if p.infinity || o.infinity {
		return p.infinity == o.infinity
	}
	if !digits.Equal(p.x, o.x) || !digits.Equal(p.y, o.y) {
		return false
	}
	return p.coords == Affine || digits.Equal(p.z, o.z)
}

func (p *PointFp) String() string {
	if p.infinity {
		return fmt.Sprintf("infinity(%s/%s)", p.coords, p.domain)
	}
	n := p.curve.fieldBytes
	s := fmt.Sprintf("(%x, %x", digits.ToBytes(p.x, false, n), digits.ToBytes(p.y, false, n))
	if p.coords == Jacobian {
		s += fmt.Sprintf(", %x", digits.ToBytes(p.z, false, n))
	}
	return s + fmt.Sprintf(") %s/%s", p.coords, p.domain)
}

func (p *PointFp) require(op string, coords Coordinates, domain Domain) {
	if p.coords != coords || p.domain != domain {
		panicState(op, p, coords, domain)
	}
}

func (p *PointFp) setInfinity(coords Coordinates, domain Domain) {
	clear(p.x)
	clear(p.y)
	clear(p.z)
	p.coords = coords
	p.domain = domain
	p.infinity = true
}

// setJacobian stores a Jacobian Montgomery result. A zero z marks infinity.
func (p *PointFp) setJacobian(x, y, z digits.Digits) {
	copy(p.x, x)
	copy(p.y, y)
	copy(p.z, z)
	p.coords = Jacobian
	p.domain = Montgomery
	p.infinity = digits.IsZero(z)
}

func (p *PointFp) setAffine(x, y digits.Digits, domain Domain) {
	copy(p.x, x)
	copy(p.y, y)
	clear(p.z)
	p.coords = Affine
	p.domain = domain
	p.infinity = false
}
