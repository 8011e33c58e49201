package ecfp

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestEncodePoint(t *testing.T) {
	c := CreateP256()
	want, _ := hex.DecodeString("04" +
		"6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296" +
		"4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5")
	if got := EncodePoint(c.Generator()); !bytes.Equal(got, want) {
		t.Errorf("EncodePoint(G) = %x", got)
	}
	if got := EncodePoint(c.CreatePointAtInfinity()); !bytes.Equal(got, []byte{0}) {
		t.Errorf("EncodePoint(O) = %x", got)
	}

	// BN254's generator has x = p-1 and y = 1, so y needs padding
	bn := CreateBN254()
	enc := EncodePoint(bn.Generator())
	if len(enc) != 65 || enc[64] != 1 || enc[33] != 0 {
		t.Errorf("BN254 G = %x", enc)
	}

	expectAssertion(t, "encode montgomery point", func() {
		op := NewOperator(c)
		EncodePoint(affineMont(op, c.Generator()))
	})
}

func TestDecodePoint(t *testing.T) {
	for _, c := range allCurves(t) {
		t.Run(c.Name(), func(t *testing.T) {
			op := NewOperator(c)
			for _, k := range []uint64{1, 2, 3, 1 << 40} {
				p := multiple(op, k)
				enc := EncodePoint(p)
				if len(enc) != 1+2*c.FieldBytes() {
					t.Fatalf("encoding length %d", len(enc))
				}
				got, err := DecodePoint(c, enc)
				if err != nil {
					t.Fatal(err)
				}
				if !got.Equal(p) {
					t.Errorf("decode(encode(%dG)) = %s", k, got)
				}
			}

			got, err := DecodePoint(c, []byte{0})
			if err != nil || !got.IsInfinity() {
				t.Errorf("infinity: %v, %v", got, err)
			}
		})
	}
}

func TestDecodePointErrors(t *testing.T) {
	c := CreateP256()
	n := c.FieldBytes()
	enc := EncodePoint(c.Generator())

	testCases := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrInvalidEncoding},
		{"short", enc[:len(enc)-1], ErrInvalidEncoding},
		{"long", append(append([]byte{}, enc...), 0), ErrInvalidEncoding},
		{"bad tag", append([]byte{0x05}, enc[1:]...), ErrInvalidEncoding},
		{"infinity with payload", append([]byte{0x00}, enc[1:]...), ErrInvalidEncoding},
		{"compressed even", append([]byte{0x02}, enc[1:1+n]...), ErrCompressedPointUnsupported},
		{"compressed odd", append([]byte{0x03}, enc[1:1+n]...), ErrCompressedPointUnsupported},
		{"hybrid", append([]byte{0x07}, enc[1:]...), ErrCompressedPointUnsupported},
		{"x not reduced", append(append([]byte{0x04}, bytes.Repeat([]byte{0xff}, n)...), enc[1+n:]...), ErrPointNotOnCurve},
		{"y not reduced", append(append([]byte{0x04}, enc[1:1+n]...), bytes.Repeat([]byte{0xff}, n)...), ErrPointNotOnCurve},
		{"off curve", append(append([]byte{0x04}, enc[1:1+n]...), enc[1:1+n]...), ErrPointNotOnCurve},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := DecodePoint(c, tc.data)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, %v; want %v", p, err, tc.want)
			}
		})
	}

	_, err := DecodePoint(c, append([]byte{0x02}, enc[1:1+n]...))
	if !errors.HasUnimplementedError(err) {
		t.Errorf("compressed form should be marked unimplemented: %v", err)
	}
}
