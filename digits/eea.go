package digits

// ExtendedEuclid runs the extended Euclidean algorithm on a and n and returns
// g = gcd(a, n) together with an unsigned cofactor u and a step counter k.
//
// The cofactors are tracked as magnitudes only. Their signs alternate with
// every step, so the signed cofactor t satisfying a*t = g (mod n) is u when
// k is even and -u when k is odd.
func ExtendedEuclid(a, n Digits) (g, u Digits, k int) {
	if SignificantLen(n) == 0 {
		panicDivideByZero("extended euclid")
	}
	_, r1 := divmod(a, n)
	r0 := trim(n.Clone())
	u0, u1 := Digits{0}, Digits{1}

	steps := 0
	for !IsZero(r1) {
		q, r := divmod(r0, r1)
		r0, r1 = r1, r
		u0, u1 = u1, add(u0, mul(q, u1))
		steps++
	}
	return r0, u0, steps + 1
}

// GCD returns the greatest common divisor of a and b. Either may be zero
// but not both.
func GCD(a, b Digits) Digits {
	if IsZero(b) {
		if IsZero(a) {
			panicDivideByZero("gcd")
		}
		return trim(a.Clone())
	}
	g, _, _ := ExtendedEuclid(a, b)
	return g
}

// ModInv returns a^-1 mod n with SignificantLen(n) digits, or
// ErrNotInvertible when gcd(a, n) != 1. Works for any modulus, prime or not.
func ModInv(a, n Digits) (Digits, error) {
	g, u, k := ExtendedEuclid(a, n)
	if !IsOne(g) {
		return nil, ErrNotInvertible
	}
	width := max(SignificantLen(n), 1)
	out := Normalize(u, width)
	if k%2 == 1 && !IsZero(out) {
		Subtract(out, n[:width], out)
	}
	return out, nil
}
