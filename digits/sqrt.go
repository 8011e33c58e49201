package digits

import (
	"math/bits"

	"github.com/cockroachdb/errors"
)

// SquareRootSolver computes square roots modulo an odd prime p. Only
// p = 3 (mod 4) is supported, where a root of a is a^((p+1)/4).
type SquareRootSolver struct {
	p   Digits
	exp Digits // (p+1)/4, nil for p = 1 (mod 4)
}

// NewSquareRootSolver prepares a solver for the odd prime p.
func NewSquareRootSolver(p Digits) *SquareRootSolver {
	w := width(p)
	if IsEven(p) {
		panic(errors.AssertionFailedf("digits: square root modulus must be odd"))
	}
	s := &SquareRootSolver{p: Normalize(p, w)}
	if s.p[0]&3 == 3 {
		e := make(Digits, w+1)
		Add(e, s.p, Digits{1})
		shiftRightBits(e, 2)
		s.exp = trim(e)
	}
	return s
}

// SquareRoot returns r with r^2 = a (mod p). It returns ErrNoSquareRoot
// when a is not a quadratic residue and ErrGeneralCaseUnsupported when
// p = 1 (mod 4).
func (s *SquareRootSolver) SquareRoot(a Digits) (Digits, error) {
	if s.exp == nil {
		return nil, ErrGeneralCaseUnsupported
	}
	x := Reduce(a, s.p)
	r := ModExp(x, s.exp, s.p)
	if !Equal(ModMul(r, r, s.p), x) {
		return nil, ErrNoSquareRoot
	}
	return r, nil
}

// Jacobi returns the Jacobi symbol (a/n) for odd n, which is the Legendre
// symbol when n is prime: 1 for a nonzero square, -1 for a non-square and
// 0 when a shares a factor with n.
func Jacobi(a, n Digits) int {
	if IsEven(n) || IsZero(n) {
		panic(errors.AssertionFailedf("digits: jacobi symbol needs an odd modulus"))
	}
	x := Reduce(a, n)
	y := trim(n.Clone())
	x = Normalize(x, len(y))
	t := 1
	for !IsZero(x) {
		tz := trailingZeros(x)
		shiftRightBits(x, tz)
		if tz%2 == 1 {
			if r := y[0] & 7; r == 3 || r == 5 {
				t = -t
			}
		}
		x, y = y, x
		if x[0]&3 == 3 && y[0]&3 == 3 {
			t = -t
		}
		x = Normalize(Reduce(x, y), len(y))
	}
	if IsOne(y) {
		return t
	}
	return 0
}

func trailingZeros(d Digits) int {
	for i, w := range d {
		if w != 0 {
			return i*DigitBits + bits.TrailingZeros64(w)
		}
	}
	return 0
}
