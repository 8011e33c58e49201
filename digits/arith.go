package digits

import (
	"math/bits"
)

// mulAdd returns the double-digit result hi:lo = x*y + a + c. It cannot
// overflow since (2^64-1)^2 + 2(2^64-1) = 2^128 - 1.
func mulAdd(x, y, a, c uint64) (hi, lo uint64) {
	hi, lo = bits.Mul64(x, y)
	var cc uint64
	lo, cc = bits.Add64(lo, a, 0)
	hi += cc
	lo, cc = bits.Add64(lo, c, 0)
	hi += cc
	return
}

// Add sets out = a + b and returns the carry out of the top digit.
//
// out must hold max(len(a), len(b)) digits. When it holds more, the carry is
// stored in the next digit and any remaining digits are cleared. out may
// alias either input.
func Add(out, a, b Digits) uint64 {
	if len(a) < len(b) {
		a, b = b, a
	}
	n := len(a)
	if len(out) < n {
		panicLength("add", len(out), n)
	}
	var c uint64
	for i := 0; i < len(b); i++ {
		out[i], c = bits.Add64(a[i], b[i], c)
	}
	for i := len(b); i < n; i++ {
		out[i], c = bits.Add64(a[i], 0, c)
	}
	if len(out) > n {
		out[n] = c
		clear(out[n+1:])
	}
	return c
}

// Subtract sets out = a - b and returns 0, or -1 when the result borrowed,
// in which case out holds a - b + 2^(64*len(a)).
//
// a must be at least as long as the significant part of b and out at least
// as long as a; digits of out beyond len(a) are cleared. out may alias
// either input.
func Subtract(out, a, b Digits) int {
	sb := SignificantLen(b)
	if len(a) < sb {
		panicLength("subtract", len(a), sb)
	}
	if len(out) < len(a) {
		panicLength("subtract", len(out), len(a))
	}
	var c uint64
	for i := 0; i < sb; i++ {
		out[i], c = bits.Sub64(a[i], b[i], c)
	}
	for i := sb; i < len(a); i++ {
		out[i], c = bits.Sub64(a[i], 0, c)
	}
	clear(out[len(a):])
	return -int(c)
}

// Multiply sets out = a * b using schoolbook multiplication. out must hold
// len(a)+len(b) digits and must not overlap either input.
func Multiply(out, a, b Digits) {
	need := len(a) + len(b)
	if len(out) < need {
		panicLength("multiply", len(out), need)
	}
	if alias(out, a) || alias(out, b) {
		panicAlias("multiply")
	}
	clear(out)
	for i, ai := range a {
		if ai == 0 {
			continue
		}
		out[i+len(b)] = mulAddWord(out[i:i+len(b)], b, ai)
	}
}

// mulAddWord sets z += x*y over len(x) digits and returns the carry.
func mulAddWord(z, x Digits, y uint64) uint64 {
	var c uint64
	for j, xj := range x {
		c, z[j] = mulAdd(xj, y, z[j], c)
	}
	return c
}

// mulWord sets z = x*y over len(x) digits and returns the carry.
func mulWord(z, x Digits, y uint64) uint64 {
	var c uint64
	for j, xj := range x {
		c, z[j] = mulAdd(xj, y, 0, c)
	}
	return c
}

// addWord adds a single digit to z in place and returns the carry.
func addWord(z Digits, y uint64) uint64 {
	c := y
	for i := 0; i < len(z) && c != 0; i++ {
		z[i], c = bits.Add64(z[i], c, 0)
	}
	return c
}

// subWord subtracts a single digit from z in place and returns the borrow.
func subWord(z Digits, y uint64) uint64 {
	c := y
	for i := 0; i < len(z) && c != 0; i++ {
		z[i], c = bits.Sub64(z[i], c, 0)
	}
	return c
}

// ShiftLeft sets out = a << s for 0 <= s < 64 over len(a) digits and
// returns the bits shifted out of the top digit. out may alias a.
func ShiftLeft(out, a Digits, s uint) uint64 {
	if s >= DigitBits {
		panicLength("shift left", int(s), DigitBits-1)
	}
	if len(out) < len(a) {
		panicLength("shift left", len(out), len(a))
	}
	if s == 0 {
		copy(out, a)
		return 0
	}
	var c uint64
	for i := 0; i < len(a); i++ {
		ai := a[i]
		out[i] = ai<<s | c
		c = ai >> (DigitBits - s)
	}
	return c
}

// ShiftRight sets out = a >> s for 0 <= s < 64 over len(a) digits and
// returns the bits shifted out of the bottom digit. out may alias a.
func ShiftRight(out, a Digits, s uint) uint64 {
	if s >= DigitBits {
		panicLength("shift right", int(s), DigitBits-1)
	}
	if len(out) < len(a) {
		panicLength("shift right", len(out), len(a))
	}
	if s == 0 {
		copy(out, a)
		return 0
	}
	var c uint64
	for i := len(a) - 1; i >= 0; i-- {
		ai := a[i]
		out[i] = ai>>s | c
		c = ai << (DigitBits - s)
	}
	return c >> (DigitBits - s)
}

// shiftRightBits shifts d right by n bits in place, across digit
// boundaries.
func shiftRightBits(d Digits, n int) {
	w := n / DigitBits
	if w > 0 {
		if w >= len(d) {
			clear(d)
			return
		}
		copy(d, d[w:])
		clear(d[len(d)-w:])
	}
	ShiftRight(d, d, uint(n%DigitBits))
}

// mul returns a*b trimmed to its significant length.
func mul(a, b Digits) Digits {
	out := make(Digits, len(a)+len(b))
	Multiply(out, a, b)
	return trim(out)
}

// add returns a+b trimmed to its significant length.
func add(a, b Digits) Digits {
	n := max(len(a), len(b)) + 1
	out := make(Digits, n)
	Add(out, a, b)
	return trim(out)
}
