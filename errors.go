package ecfp

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrPointNotOnCurve is returned for coordinates that do not satisfy the
	// curve equation.
	ErrPointNotOnCurve = errors.New("ecfp: point is not on the curve")

	// ErrInvalidEncoding is returned by DecodePoint for data that is not a
	// SEC1 point encoding of the expected length.
	ErrInvalidEncoding = errors.New("ecfp: invalid point encoding")

	// ErrInvalidCurve is returned when curve parameters are unusable.
	ErrInvalidCurve = errors.New("ecfp: invalid curve parameters")

	// ErrUnknownCurve is returned by CurveByName.
	ErrUnknownCurve = errors.New("ecfp: unknown curve")

	// ErrCompressedPointUnsupported is returned by DecodePoint for the
	// compressed and hybrid SEC1 forms.
	ErrCompressedPointUnsupported = errors.UnimplementedErrorf(
		errors.IssueLink{Detail: "compressed and hybrid SEC1 point forms are not decoded"},
		"ecfp: compressed point encoding not supported")
)

func panicState(op string, p *PointFp, coords Coordinates, domain Domain) {
	panic(errors.AssertionFailedf("ecfp: %s: point is %s/%s, need %s/%s",
		errors.Safe(op), p.coords, p.domain, coords, domain))
}

func panicCurve(op string) {
	panic(errors.AssertionFailedf("ecfp: %s: point belongs to a different curve", errors.Safe(op)))
}
