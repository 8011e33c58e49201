package digits

import (
	"math/bits"

	"github.com/cockroachdb/errors"
)

// Montgomery holds the per-modulus constants for Montgomery arithmetic with
// R = 2^(64*s), where s is the digit length of the modulus, plus a scratch
// buffer for the CIOS product.
//
// The constants are immutable and shared between clones; the scratch
// buffer is not. A single Montgomery value must not be used from more than
// one goroutine at a time; call Clone to get an independent one.
type Montgomery struct {
	m      Digits
	mPrime uint64 // -m^-1 mod 2^64
	s      int
	rModM  Digits // R mod m, one in Montgomery form
	r2     Digits // R^2 mod m
	r3     Digits // R^3 mod m
	unit   Digits // one in standard form, s digits

	t Digits
}

// NewMontgomery derives the Montgomery constants for the odd modulus m.
// An even or zero modulus panics.
func NewMontgomery(m Digits) *Montgomery {
	s := SignificantLen(m)
	if s == 0 || IsEven(m) {
		panic(errors.AssertionFailedf("digits: montgomery modulus must be odd"))
	}
	mc := Normalize(m, s)

	// Newton iteration for m0^-1 mod 2^64: m0 is its own inverse mod 8 and
	// every step doubles the number of correct low bits.
	m0 := mc[0]
	inv := m0
	for i := 0; i < 5; i++ {
		inv *= 2 - m0*inv
	}

	// R mod m by long division of 2^(64*s).
	rr := make(Digits, s+1)
	rr[s] = 1
	rModM := Reduce(rr, mc)
	r2 := ModMul(rModM, rModM, mc)
	r3 := ModMul(r2, rModM, mc)

	unit := make(Digits, s)
	if s > 1 || mc[0] != 1 {
		unit[0] = 1
	}

	return &Montgomery{
		m:      mc,
		mPrime: -inv,
		s:      s,
		rModM:  rModM,
		r2:     r2,
		r3:     r3,
		unit:   unit,
		t:      make(Digits, s+2),
	}
}

// Clone returns a context sharing the constants of mt with its own scratch
// space.
func (mt *Montgomery) Clone() *Montgomery {
	c := *mt
	c.t = make(Digits, mt.s+2)
	return &c
}

// Len returns the digit length of the modulus. Every operand and output of
// the Montgomery routines has exactly this many digits.
func (mt *Montgomery) Len() int { return mt.s }

// Modulus returns a copy of the modulus.
func (mt *Montgomery) Modulus() Digits { return mt.m.Clone() }

// One returns one in Montgomery form, R mod m.
func (mt *Montgomery) One() Digits { return mt.rModM.Clone() }

// RSquared returns R^2 mod m.
func (mt *Montgomery) RSquared() Digits { return mt.r2.Clone() }

// RCubed returns R^3 mod m. Multiplying the ordinary inverse of a
// Montgomery-form value by R^3 yields its inverse in Montgomery form.
func (mt *Montgomery) RCubed() Digits { return mt.r3.Clone() }

func (mt *Montgomery) check(op string, d Digits) {
	if len(d) != mt.s {
		panicLength(op, len(d), mt.s)
	}
}

// Multiply sets out = a*b*R^-1 mod m using coarsely integrated operand
// scanning. a and b must be reduced and out may alias either.
//
// The final conditional subtraction depends on the result, so the routine
// is not constant time.
func (mt *Montgomery) Multiply(out, a, b Digits) {
	mt.check("montgomery multiply", a)
	mt.check("montgomery multiply", b)
	mt.check("montgomery multiply", out)

	s, m, t := mt.s, mt.m, mt.t
	clear(t)
	for i := 0; i < s; i++ {
		// t += a * b[i]
		var c, cc uint64
		bi := b[i]
		for j := 0; j < s; j++ {
			c, t[j] = mulAdd(a[j], bi, t[j], c)
		}
		t[s], cc = bits.Add64(t[s], c, 0)
		t[s+1] = cc

		// t = (t + q*m) / 2^64 where q makes the low digit vanish
		q := t[0] * mt.mPrime
		c, _ = mulAdd(q, m[0], t[0], 0)
		for j := 1; j < s; j++ {
			c, t[j-1] = mulAdd(q, m[j], t[j], c)
		}
		t[s-1], cc = bits.Add64(t[s], c, 0)
		t[s] = t[s+1] + cc
	}

	if t[s] != 0 || Compare(t[:s], m) >= 0 {
		Subtract(t[:s], t[:s], m)
	}
	copy(out, t[:s])
}

// ToMontgomery sets out = x*R mod m.
func (mt *Montgomery) ToMontgomery(out, x Digits) {
	mt.Multiply(out, x, mt.r2)
}

// ToStandard sets out = x*R^-1 mod m.
func (mt *Montgomery) ToStandard(out, x Digits) {
	mt.Multiply(out, x, mt.unit)
}

// ModExp sets out = base^exp mod m for a reduced base in standard form,
// scanning the exponent in fixed two bit windows from the most significant
// one. Every window after the first costs two squarings and one
// multiplication by a table entry, including zero windows.
//
// The table index follows the exponent bits, so the routine is not
// constant time with respect to exp.
func (mt *Montgomery) ModExp(out, base, exp Digits) {
	mt.check("montgomery modexp", base)
	mt.check("montgomery modexp", out)

	nbits := BitLen(exp)
	if nbits == 0 {
		copy(out, mt.unit)
		if mt.s == 1 && mt.m[0] == 1 {
			out[0] = 0
		}
		return
	}

	var table [4]Digits
	table[0] = mt.rModM.Clone()
	table[1] = make(Digits, mt.s)
	mt.ToMontgomery(table[1], base)
	table[2] = make(Digits, mt.s)
	mt.Multiply(table[2], table[1], table[1])
	table[3] = make(Digits, mt.s)
	mt.Multiply(table[3], table[2], table[1])

	window := func(i int) uint {
		return Bit(exp, 2*i+1)<<1 | Bit(exp, 2*i)
	}

	top := (nbits+1)/2 - 1
	acc := table[window(top)].Clone()
	for i := top - 1; i >= 0; i-- {
		mt.Multiply(acc, acc, acc)
		mt.Multiply(acc, acc, acc)
		mt.Multiply(acc, acc, table[window(i)])
	}
	mt.ToStandard(out, acc)
}
