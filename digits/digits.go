// Package digits implements unsigned arbitrary precision integers stored as
// little-endian arrays of 64-bit digits, together with the modular machinery
// built on them: extended Euclid, modular inverse, Montgomery multiplication
// and exponentiation, integer groups, square roots modulo p and width-w NAF
// recoding.
//
// Routines write into caller-owned output buffers. Passing a buffer that is
// too short, dividing by zero or handing a routine inputs it does not accept
// is a programming error and panics with an assertion failure; conditions a
// caller is expected to branch on (no inverse, no square root) are returned
// as errors.
package digits

import (
	"math/bits"
)

// DigitBits is the width of a single digit in bits.
const DigitBits = 64

// Digits is an unsigned integer, least significant digit first.
type Digits []uint64

// New returns a zero value with n digits (at least one).
func New(n int) Digits {
	if n < 1 {
		n = 1
	}
	return make(Digits, n)
}

// FromUint64 returns a single digit array holding v.
func FromUint64(v uint64) Digits {
	return Digits{v}
}

// Clone returns an independent copy of d.
func (d Digits) Clone() Digits {
	c := make(Digits, len(d))
	copy(c, d)
	return c
}

// SignificantLen returns the number of digits up to and including the most
// significant nonzero digit. It is zero for a zero value.
func SignificantLen(d Digits) int {
	n := len(d)
	for n > 0 && d[n-1] == 0 {
		n--
	}
	return n
}

// Normalize returns d trimmed or zero padded to exactly n digits. When n is
// not positive the result is trimmed to its significant length, keeping a
// single zero digit for a zero value. Trimming away nonzero digits panics.
func Normalize(d Digits, n int) Digits {
	if n <= 0 {
		n = SignificantLen(d)
		if n == 0 {
			n = 1
		}
	}
	if sl := SignificantLen(d); sl > n {
		panicLength("normalize", n, sl)
	}
	out := make(Digits, n)
	copy(out, d)
	return out
}

// trim returns d resliced to its significant length, keeping one digit.
func trim(d Digits) Digits {
	n := SignificantLen(d)
	if n == 0 {
		if len(d) == 0 {
			return Digits{0}
		}
		return d[:1]
	}
	return d[:n]
}

// IsZero reports whether every digit of d is zero.
func IsZero(d Digits) bool {
	for _, w := range d {
		if w != 0 {
			return false
		}
	}
	return true
}

// IsEven reports whether d is even. An empty array counts as zero.
func IsEven(d Digits) bool {
	return len(d) == 0 || d[0]&1 == 0
}

// IsOne reports whether d equals one.
func IsOne(d Digits) bool {
	return len(d) > 0 && d[0] == 1 && SignificantLen(d[1:]) == 0
}

// BitLen returns the position of the most significant set bit plus one.
func BitLen(d Digits) int {
	n := SignificantLen(d)
	if n == 0 {
		return 0
	}
	return (n-1)*DigitBits + bits.Len64(d[n-1])
}

// Bit returns bit i of d.
func Bit(d Digits, i int) uint {
	w := i / DigitBits
	if w >= len(d) {
		return 0
	}
	return uint(d[w]>>(uint(i)%DigitBits)) & 1
}

// Compare returns -1, 0 or +1 depending on whether a < b, a == b or a > b.
// Leading zero digits are ignored, so inputs may differ in length.
func Compare(a, b Digits) int {
	na, nb := SignificantLen(a), SignificantLen(b)
	if na != nb {
		if na < nb {
			return -1
		}
		return 1
	}
	for i := na - 1; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Equal reports whether a and b hold the same value.
func Equal(a, b Digits) bool {
	return Compare(a, b) == 0
}

// alias reports whether x and y share the same backing array.
func alias(x, y Digits) bool {
	return cap(x) > 0 && cap(y) > 0 && &x[0:cap(x)][cap(x)-1] == &y[0:cap(y)][cap(y)-1]
}
