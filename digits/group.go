package digits

import (
	"github.com/cockroachdb/errors"
)

// IntegerGroup is the ring of integers modulo a fixed modulus. Elements
// created by a group always hold a value in [0, modulus).
type IntegerGroup struct {
	m    Digits
	mont *Montgomery // nil for even moduli
}

// IntegerGroupElement is a value paired with the group it belongs to.
// Elements are mutable and may be reused as outputs.
type IntegerGroupElement struct {
	group  *IntegerGroup
	digits Digits
}

// NewIntegerGroup returns the group of integers modulo the big-endian
// modulus in b.
func NewIntegerGroup(b []byte) *IntegerGroup {
	return NewIntegerGroupFromDigits(FromBytes(b))
}

// NewIntegerGroupFromDigits returns the group of integers modulo m.
func NewIntegerGroupFromDigits(m Digits) *IntegerGroup {
	w := width(m)
	g := &IntegerGroup{m: Normalize(m, w)}
	if !IsEven(g.m) {
		g.mont = NewMontgomery(g.m)
	}
	return g
}

// Modulus returns a copy of the modulus.
func (g *IntegerGroup) Modulus() Digits { return g.m.Clone() }

// Len returns the digit length of the modulus.
func (g *IntegerGroup) Len() int { return len(g.m) }

func (g *IntegerGroup) element(d Digits) *IntegerGroupElement {
	return &IntegerGroupElement{group: g, digits: Reduce(d, g.m)}
}

// CreateElementFromBytes reduces the big-endian value b into the group.
func (g *IntegerGroup) CreateElementFromBytes(b []byte) *IntegerGroupElement {
	return g.element(FromBytes(b))
}

// CreateElementFromInteger reduces v into the group.
func (g *IntegerGroup) CreateElementFromInteger(v uint64) *IntegerGroupElement {
	return g.element(Digits{v})
}

// CreateElementFromDigits reduces d into the group.
func (g *IntegerGroup) CreateElementFromDigits(d Digits) *IntegerGroupElement {
	return g.element(d)
}

func (g *IntegerGroup) own(op string, es ...*IntegerGroupElement) {
	for _, e := range es {
		if e.group != g && !Equal(e.group.m, g.m) {
			panic(errors.AssertionFailedf("digits: %s: element belongs to another group", errors.Safe(op)))
		}
	}
}

// Add sets out = a + b.
func (g *IntegerGroup) Add(a, b, out *IntegerGroupElement) {
	g.own("add", a, b, out)
	out.digits = ModAdd(a.digits, b.digits, g.m)
}

// Subtract sets out = a - b.
func (g *IntegerGroup) Subtract(a, b, out *IntegerGroupElement) {
	g.own("subtract", a, b, out)
	out.digits = ModSub(a.digits, b.digits, g.m)
}

// Multiply sets out = a * b.
func (g *IntegerGroup) Multiply(a, b, out *IntegerGroupElement) {
	g.own("multiply", a, b, out)
	out.digits = ModMul(a.digits, b.digits, g.m)
}

// ModExp sets out = base^exp. Odd moduli use a private clone of the
// group's Montgomery context, so concurrent calls on one group are safe.
func (g *IntegerGroup) ModExp(base *IntegerGroupElement, exp Digits, out *IntegerGroupElement) {
	g.own("modexp", base, out)
	if g.mont == nil {
		out.digits = ModExp(base.digits, exp, g.m)
		return
	}
	r := make(Digits, len(g.m))
	g.mont.Clone().ModExp(r, base.digits, exp)
	out.digits = r
}

// Inverse sets out = a^-1, or returns ErrNotInvertible and leaves out
// untouched.
func (g *IntegerGroup) Inverse(a, out *IntegerGroupElement) error {
	g.own("inverse", a, out)
	inv, err := ModInv(a.digits, g.m)
	if err != nil {
		return err
	}
	out.digits = inv
	return nil
}

// Group returns the group e belongs to.
func (e *IntegerGroupElement) Group() *IntegerGroup { return e.group }

// Digits returns a copy of the element's value.
func (e *IntegerGroupElement) Digits() Digits { return e.digits.Clone() }

// Bytes returns the value big-endian, padded to the modulus byte length.
func (e *IntegerGroupElement) Bytes() []byte {
	return ToBytes(e.digits, false, (BitLen(e.group.m)+7)/8)
}

// Equals reports whether e and o hold the same value in the same group.
func (e *IntegerGroupElement) Equals(o *IntegerGroupElement) bool {
	if e.group != o.group && !Equal(e.group.m, o.group.m) {
		return false
	}
	return Equal(e.digits, o.digits)
}
