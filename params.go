package ecfp

import (
	"encoding/base64"
	"sync"

	"github.com/cockroachdb/errors"

	"ecfp.dev/digits"
)

// curveParams holds a named curve as base64 encoded big-endian integers.
// For a = -3 curves a is derived from p.
type curveParams struct {
	name   string
	p      string
	b      string
	n      string
	gx, gy string
	aZero  bool
}

var (
	paramsP256 = curveParams{
		name: "P-256",
		p:    "/////wAAAAEAAAAAAAAAAAAAAAD///////////////8=",
		b:    "WsY12Ko6k+ez671VdpiGvGUdBrDMU7D2O848PifSYEs=",
		n:    "/////wAAAAD//////////7zm+q2nF56E87nKwvxjJVE=",
		gx:   "axfR8uEsQkf4vOblY6RA8ncDfYEt6zOg9KE5RdiYwpY=",
		gy:   "T+NC4v4af5uO5+tKfA+eFivOM1drMV7Oy7ZAaDe/UfU=",
	}
	paramsP384 = curveParams{
		name: "P-384",
		p:    "//////////////////////////////////////////7/////AAAAAAAAAAD/////",
		b:    "szEvp+I+5+SYjgVr4/gtGRgdnG7+gUESAxQIj1ATh1rGVjmNii7RnSqFyO3T7Crv",
		n:    "////////////////////////////////x2NNgfQ3Ld9YGg2ySLCneuzsGWrMxSlz",
		gx:   "qofKIr6LBTeOscce8yCtdG4dO2KLp5uYWfdB4IJUKjhVAvJdv1UpbDpUXjhydgq3",
		gy:   "NhfeSpYmLG9dnpi/kpLcKfj0Hb0omhR86doxE7XwuMAKYLHOHX6BnXpDHXyQ6g5f",
	}
	paramsP521 = curveParams{
		name: "P-521",
		p:    "Af//////////////////////////////////////////////////////////////////////////////////////",
		b:    "AFGVPrlhjhyaH5KaIaC2hUDuotpyW5mzFfO4tImRjvEJ4VYZOVHsfpN7FlLAvTuxvwc1c9+IPSw08e9FH9RrUD8A",
		n:    "Af//////////////////////////////////////////+lGGh4O/L5Zrf8wBSPcJpdA7tcm4iZxHrrtvtx6ROGQJ",
		gx:   "AMaFjga3BATpzZ4+y2YjlbRCnGSBOQU/tSH4KK9ga009uqFLXnfv51ko/h3BJ6L/qN4zSLPBhWpCm/l+fjHC5b1m",
		gy:   "ARg5KWp4mjvABFyKX7QsfRvZmPVESVebRGgXr70XJz5mLJfucple9CZAxVC5AT+tB2E1PHCGonLCQIi+lHaf0WZQ",
	}
	// BN254 is the Barreto-Naehrig curve y^2 = x^3 + 2 with u = -(2^62 + 2^55 + 1).
	paramsBN254 = curveParams{
		name:  "BN-254",
		p:     "JSNkgkAAAAG6NE2AAAAACGEhAAAAAAATpwAAAAAAABM=",
		b:     "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAI=",
		n:     "JSNkgkAAAAG6NE2AAAAAB/+fgAAAAAAQoQAAAAAAAA0=",
		gx:    "JSNkgkAAAAG6NE2AAAAACGEhAAAAAAATpwAAAAAAABI=",
		gy:    "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAE=",
		aZero: true,
	}
	paramsSecp256k1 = curveParams{
		name:  "secp256k1",
		p:     "/////////////////////////////////////v///C8=",
		b:     "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAc=",
		n:     "/////////////////////rqu3OavSKA7v9JejNA2QUE=",
		gx:    "eb5mfvncu6xVoGKVzocLBwKb/NstzijZWfKBWxb4F5g=",
		gy:    "SDradyajxGVdpPv8DhEIqP0XtEimhVQZnEfQj/sQ1Lg=",
		aZero: true,
	}
)

func decodeParam(s string) []byte {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "ecfp: corrupt curve parameter"))
	}
	return b
}

func (cp *curveParams) build() (*Curve, error) {
	p := digits.FromBytes(decodeParam(cp.p))
	var a digits.Digits
	if cp.aZero {
		a = digits.Digits{0}
	} else {
		a = minusThree(p)
	}
	return newCurve(cp.name, p, a,
		digits.FromBytes(decodeParam(cp.b)),
		digits.FromBytes(decodeParam(cp.n)),
		digits.FromBytes(decodeParam(cp.gx)),
		digits.FromBytes(decodeParam(cp.gy)))
}

func minusThree(p digits.Digits) digits.Digits {
	a := p.Clone()
	digits.Subtract(a, a, digits.Digits{3})
	return a
}

// namedCurve builds its curve on first use. Curves are immutable once
// built, so one instance is shared by every caller.
type namedCurve struct {
	once   sync.Once
	params curveParams
	curve  *Curve
}

func (nc *namedCurve) get() *Curve {
	nc.once.Do(func() {
		c, err := nc.params.build()
		if err != nil {
			panic(errors.NewAssertionErrorWithWrappedErrf(err, "ecfp: building %s", errors.Safe(nc.params.name)))
		}
		nc.curve = c
	})
	return nc.curve
}

var (
	p256      = &namedCurve{params: paramsP256}
	p384      = &namedCurve{params: paramsP384}
	p521      = &namedCurve{params: paramsP521}
	bn254     = &namedCurve{params: paramsBN254}
	secp256k1 = &namedCurve{params: paramsSecp256k1}

	namedCurves = []*namedCurve{p256, p384, p521, bn254, secp256k1}
)

// CreateP256 returns NIST P-256.
func CreateP256() *Curve { return p256.get() }

// CreateP384 returns NIST P-384.
func CreateP384() *Curve { return p384.get() }

// CreateP521 returns NIST P-521.
func CreateP521() *Curve { return p521.get() }

// CreateBN254 returns the 254 bit Barreto-Naehrig curve y^2 = x^3 + 2.
func CreateBN254() *Curve { return bn254.get() }

// CreateSecp256k1 returns the SEC 2 curve y^2 = x^3 + 7.
func CreateSecp256k1() *Curve { return secp256k1.get() }

// CurveByName returns a named curve. Names are matched exactly.
func CurveByName(name string) (*Curve, error) {
	for _, nc := range namedCurves {
		if nc.params.name == name {
			return nc.get(), nil
		}
	}
	return nil, errors.Wrapf(ErrUnknownCurve, "%q", name)
}

// CurveNames lists the names accepted by CurveByName.
func CurveNames() []string {
	names := make([]string, len(namedCurves))
	for i, nc := range namedCurves {
		names[i] = nc.params.name
	}
	return names
}
