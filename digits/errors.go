package digits

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrNotInvertible is returned when gcd(a, n) != 1.
	ErrNotInvertible = errors.New("digits: value has no modular inverse")

	// ErrNoSquareRoot is returned when a value is not a quadratic residue.
	ErrNoSquareRoot = errors.New("digits: value has no square root")

	// ErrNAFWidth is returned for a NAF window width outside [2, 8].
	ErrNAFWidth = errors.New("digits: NAF window width out of range")

	// ErrGeneralCaseUnsupported is returned by the square root solver for
	// moduli p = 1 (mod 4).
	ErrGeneralCaseUnsupported = errors.UnimplementedErrorf(
		errors.IssueLink{Detail: "square roots modulo p = 1 (mod 4) need Tonelli-Shanks"},
		"digits: general case square root not supported")
)

func panicLength(op string, got, need int) {
	panic(errors.AssertionFailedf("digits: %s: length error: have %d digits, need %d", errors.Safe(op), got, need))
}

func panicDivideByZero(op string) {
	panic(errors.AssertionFailedf("digits: %s: division by zero", errors.Safe(op)))
}

func panicAlias(op string) {
	panic(errors.AssertionFailedf("digits: %s: output overlaps an input", errors.Safe(op)))
}
