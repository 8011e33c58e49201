package ecdsa

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"

	ecfp "ecfp.dev"
)

// MarshalDER converts a raw r || s signature into
// SEQUENCE { r INTEGER, s INTEGER }.
func MarshalDER(sig []byte) ([]byte, error) {
	if len(sig) == 0 || len(sig)%2 != 0 {
		return nil, errors.Wrapf(ErrInvalidSignature, "raw signature of %d bytes", len(sig))
	}
	half := len(sig) / 2
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		addASN1IntBytes(b, sig[:half])
		addASN1IntBytes(b, sig[half:])
	})
	out, err := b.Bytes()
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "ecdsa: marshal DER"), ErrInvalidSignature)
	}
	return out, nil
}

// ParseDER converts an ASN.1 signature into raw r || s form for curve c.
// r and s must be positive and fit in the order byte length.
func ParseDER(c *ecfp.Curve, der []byte) ([]byte, error) {
	var inner cryptobyte.String
	var r, s []byte
	input := cryptobyte.String(der)
	if !input.ReadASN1(&inner, asn1.SEQUENCE) ||
		!input.Empty() ||
		!readASN1IntBytes(&inner, &r) ||
		!readASN1IntBytes(&inner, &s) ||
		!inner.Empty() {
		return nil, ErrInvalidSignature
	}

	size := c.OrderBytes()
	if len(r) > size || len(s) > size {
		return nil, errors.Wrap(ErrInvalidSignature, "integer longer than the group order")
	}
	out := make([]byte, 2*size)
	copy(out[size-len(r):size], r)
	copy(out[2*size-len(s):], s)
	return out, nil
}

// addASN1IntBytes encodes a big-endian unsigned integer as a minimal
// INTEGER.
func addASN1IntBytes(b *cryptobyte.Builder, bytes []byte) {
	for len(bytes) > 0 && bytes[0] == 0 {
		bytes = bytes[1:]
	}
	if len(bytes) == 0 {
		b.SetError(errors.New("zero integer"))
		return
	}
	b.AddASN1(asn1.INTEGER, func(c *cryptobyte.Builder) {
		if bytes[0]&0x80 != 0 {
			c.AddUint8(0)
		}
		c.AddBytes(bytes)
	})
}

// readASN1IntBytes reads a positive minimal INTEGER and returns its
// magnitude without the sign padding.
func readASN1IntBytes(s *cryptobyte.String, out *[]byte) bool {
	var bytes cryptobyte.String
	if !s.ReadASN1(&bytes, asn1.INTEGER) || len(bytes) == 0 {
		return false
	}
	// negative, or not minimally encoded
	if bytes[0]&0x80 != 0 {
		return false
	}
	if len(bytes) > 1 && bytes[0] == 0 && bytes[1]&0x80 == 0 {
		return false
	}
	for len(bytes) > 0 && bytes[0] == 0 {
		bytes = bytes[1:]
	}
	if len(bytes) == 0 {
		return false
	}
	*out = bytes
	return true
}
