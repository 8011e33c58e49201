package digits

// Modular helpers return values with exactly SignificantLen(m) digits so
// results can be fed straight back in as operands of the same width.

func width(m Digits) int {
	n := SignificantLen(m)
	if n == 0 {
		panicDivideByZero("modular")
	}
	return n
}

// Reduce returns a mod m.
func Reduce(a, m Digits) Digits {
	w := width(m)
	r := make(Digits, w)
	DivRem(nil, r, a, m)
	return r
}

// ModMul returns a*b mod m by multiplying then dividing.
func ModMul(a, b, m Digits) Digits {
	p := make(Digits, len(a)+len(b))
	Multiply(p, a, b)
	return Reduce(p, m)
}

// ModAdd returns a+b mod m for a, b < m.
func ModAdd(a, b, m Digits) Digits {
	w := width(m)
	s := make(Digits, w+1)
	Add(s, Normalize(a, w), Normalize(b, w))
	if Compare(s, m) >= 0 {
		Subtract(s, s, m)
	}
	return Normalize(s, w)
}

// ModSub returns a-b mod m for a, b < m.
func ModSub(a, b, m Digits) Digits {
	w := width(m)
	out := Normalize(a, w)
	if Subtract(out, out, b) != 0 {
		Add(out, out, m[:w])
	}
	return out
}

// ModExp returns base^exp mod m. Odd moduli go through a Montgomery
// context; even moduli fall back to square and multiply with division.
func ModExp(base, exp, m Digits) Digits {
	w := width(m)
	if !IsEven(m) {
		mont := NewMontgomery(m)
		out := make(Digits, w)
		mont.ModExp(out, Reduce(base, m), exp)
		return out
	}

	b := Reduce(base, m)
	acc := Reduce(Digits{1}, m)
	for i := BitLen(exp) - 1; i >= 0; i-- {
		acc = ModMul(acc, acc, m)
		if Bit(exp, i) == 1 {
			acc = ModMul(acc, b, m)
		}
	}
	return acc
}
