package digits

import (
	"math/bits"
)

// DivRem sets q = u / v and r = u mod v.
//
// Either output may be nil when only the other is wanted. q must hold
// SignificantLen(u) - SignificantLen(v) + 1 digits and r must hold
// SignificantLen(v) digits; any extra digits are cleared. Outputs may alias
// u. Dividing by zero panics.
//
// Multi-digit divisors use Knuth's Algorithm D (TAOCP vol. 2, 4.3.1) with
// the usual normalisation shift; single-digit divisors and dividends smaller
// than the divisor take fast paths.
func DivRem(q, r, u, v Digits) {
	n := SignificantLen(v)
	if n == 0 {
		panicDivideByZero("divrem")
	}
	m := SignificantLen(u)
	if q != nil {
		if need := max(m-n+1, 1); len(q) < need {
			panicLength("divrem quotient", len(q), need)
		}
	}
	if r != nil && len(r) < n {
		panicLength("divrem remainder", len(r), n)
	}

	var quo, rem Digits
	switch {
	case m < n || Compare(u[:m], v[:n]) < 0:
		quo = Digits{0}
		rem = u[:m].Clone()
	case n == 1:
		quo = make(Digits, m)
		rem = Digits{divWord(quo, u[:m], v[0])}
	default:
		quo, rem = divLarge(u[:m], v[:n])
	}

	if q != nil {
		clear(q)
		copy(q, quo)
	}
	if r != nil {
		clear(r)
		copy(r, rem)
	}
}

// divWord sets q = u / d and returns u mod d.
func divWord(q, u Digits, d uint64) uint64 {
	var rem uint64
	for i := len(u) - 1; i >= 0; i-- {
		q[i], rem = bits.Div64(rem, u[i], d)
	}
	return rem
}

// divLarge divides u by v where len(v) >= 2, both are trimmed and u >= v.
func divLarge(u, v Digits) (quo, rem Digits) {
	n := len(v)
	m := len(u) - n

	// D1: normalise so the top digit of the divisor has its high bit set.
	s := uint(bits.LeadingZeros64(v[n-1]))
	vn := make(Digits, n)
	ShiftLeft(vn, v, s)
	un := make(Digits, len(u)+1)
	un[len(u)] = ShiftLeft(un[:len(u)], u, s)

	quo = make(Digits, m+1)
	qhatv := make(Digits, n+1)
	vn1, vn2 := vn[n-1], vn[n-2]

	for j := m; j >= 0; j-- {
		// D3: estimate qhat from the top two digits, then correct it with
		// the third so it is at most one too large.
		qhat := ^uint64(0)
		ujn := un[j+n]
		if ujn != vn1 {
			var rhat uint64
			qhat, rhat = bits.Div64(ujn, un[j+n-1], vn1)
			x1, x2 := bits.Mul64(qhat, vn2)
			ujn2 := un[j+n-2]
			for x1 > rhat || (x1 == rhat && x2 > ujn2) {
				qhat--
				prev := rhat
				rhat += vn1
				if rhat < prev {
					break
				}
				x1, x2 = bits.Mul64(qhat, vn2)
			}
		}

		// D4: multiply and subtract.
		qhatv[n] = mulWord(qhatv[:n], vn, qhat)
		var c uint64
		for i := 0; i <= n; i++ {
			un[j+i], c = bits.Sub64(un[j+i], qhatv[i], c)
		}

		// D6: add back when the estimate was one too large.
		if c != 0 {
			var cc uint64
			for i := 0; i < n; i++ {
				un[j+i], cc = bits.Add64(un[j+i], vn[i], cc)
			}
			un[j+n] += cc
			qhat--
		}
		quo[j] = qhat
	}

	// D8: unnormalise the remainder.
	rem = make(Digits, n)
	ShiftRight(rem, un[:n], s)
	return quo, rem
}

// divmod returns trimmed u / v and u mod v.
func divmod(u, v Digits) (quo, rem Digits) {
	m, n := SignificantLen(u), SignificantLen(v)
	quo = make(Digits, max(m-n+1, 1))
	rem = make(Digits, max(n, 1))
	DivRem(quo, rem, u, v)
	return trim(quo), trim(rem)
}
