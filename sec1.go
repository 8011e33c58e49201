package ecfp

import (
	"github.com/cockroachdb/errors"

	"ecfp.dev/digits"
)

// SEC1 point encoding tags.
const (
	tagInfinity     = 0x00
	tagCompressed   = 0x02
	tagCompressed1  = 0x03
	tagUncompressed = 0x04
	tagHybrid       = 0x06
	tagHybrid1      = 0x07
)

// EncodePoint returns the uncompressed SEC1 encoding 0x04 || X || Y of an
// affine standard point, each coordinate zero padded to the field byte
// length. The point at infinity encodes as the single byte 0x00.
func EncodePoint(p *PointFp) []byte {
	p.require("encode", Affine, Standard)
	if p.infinity {
		return []byte{tagInfinity}
	}
	n := p.curve.fieldBytes
	out := make([]byte, 1, 1+2*n)
	out[0] = tagUncompressed
	out = append(out, digits.ToBytes(p.x, false, n)...)
	out = append(out, digits.ToBytes(p.y, false, n)...)
	return out
}

// DecodePoint parses an uncompressed SEC1 encoding into an affine standard
// point on c. Compressed and hybrid encodings of the right length fail with
// ErrCompressedPointUnsupported; anything else malformed fails with
// ErrInvalidEncoding, and coordinates not below p or off the curve with
// ErrPointNotOnCurve.
func DecodePoint(c *Curve, data []byte) (*PointFp, error) {
	n := c.fieldBytes
	switch {
	case len(data) == 1 && data[0] == tagInfinity:
		return c.CreatePointAtInfinity(), nil
	case len(data) == 1+n && (data[0] == tagCompressed || data[0] == tagCompressed1):
		return nil, ErrCompressedPointUnsupported
	case len(data) == 1+2*n && (data[0] == tagHybrid || data[0] == tagHybrid1):
		return nil, ErrCompressedPointUnsupported
	case len(data) != 1+2*n:
		return nil, errors.Wrapf(ErrInvalidEncoding, "length %d, want %d", len(data), 1+2*n)
	case data[0] != tagUncompressed:
		return nil, errors.Wrapf(ErrInvalidEncoding, "tag 0x%02x", data[0])
	}

	return c.NewPoint(digits.FromBytes(data[1:1+n]), digits.FromBytes(data[1+n:]))
}
