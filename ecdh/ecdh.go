// Package ecdh derives Diffie-Hellman shared secrets over the ecfp curves.
package ecdh

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/golang/glog"
	sha256simd "github.com/minio/sha256-simd"
	"golang.org/x/crypto/hkdf"

	ecfp "ecfp.dev"
	"ecfp.dev/digits"
)

var (
	// ErrInvalidPrivateKey is returned for private scalars outside [1, n).
	ErrInvalidPrivateKey = errors.New("ecdh: invalid private key")

	// ErrInvalidPublicKey is returned for peer points at infinity or off
	// the curve.
	ErrInvalidPublicKey = errors.New("ecdh: invalid public key")

	// ErrCurveMismatch is returned when the two keys live on different
	// curves.
	ErrCurveMismatch = errors.New("ecdh: keys are on different curves")
)

// PublicKey is a peer's affine standard point.
type PublicKey struct {
	curve *ecfp.Curve
	point *ecfp.PointFp
}

// PrivateKey is a scalar d in [1, n) together with dG.
type PrivateKey struct {
	curve *ecfp.Curve
	d     digits.Digits
	pub   *PublicKey
}

// GenerateKey returns a fresh key pair on c.
func GenerateKey(c *ecfp.Curve, rand io.Reader) (*PrivateKey, error) {
	d, err := c.RandomScalar(rand)
	if err != nil {
		return nil, errors.Wrap(err, "ecdh: generate key")
	}
	return newPrivateKey(c, d), nil
}

// NewPrivateKey parses a big-endian private scalar.
func NewPrivateKey(c *ecfp.Curve, d []byte) (*PrivateKey, error) {
	k := digits.FromBytes(d)
	if digits.IsZero(k) || digits.Compare(k, c.Order()) >= 0 {
		return nil, ErrInvalidPrivateKey
	}
	return newPrivateKey(c, digits.Normalize(k, len(c.Order()))), nil
}

func newPrivateKey(c *ecfp.Curve, d digits.Digits) *PrivateKey {
	q := c.AllocatePointStorage()
	ecfp.NewOperator(c).ScalarMultiplyBase(d, q)
	return &PrivateKey{curve: c, d: d, pub: &PublicKey{curve: c, point: q}}
}

// NewPublicKey parses an uncompressed SEC1 point and rejects infinity.
func NewPublicKey(c *ecfp.Curve, data []byte) (*PublicKey, error) {
	q, err := ecfp.DecodePoint(c, data)
	if err != nil {
		glog.V(2).Infof("ecdh: %s: rejected public key: %v", c.Name(), err)
		return nil, errors.Mark(errors.Wrap(err, "ecdh: public key"), ErrInvalidPublicKey)
	}
	if q.IsInfinity() {
		glog.V(2).Infof("ecdh: %s: rejected public key at infinity", c.Name())
		return nil, ErrInvalidPublicKey
	}
	return &PublicKey{curve: c, point: q}, nil
}

// PublicKey returns dG.
func (k *PrivateKey) PublicKey() *PublicKey { return k.pub }

// Curve returns the key's curve.
func (k *PrivateKey) Curve() *ecfp.Curve { return k.curve }

// Bytes returns d zero padded to the order byte length.
func (k *PrivateKey) Bytes() []byte {
	return digits.ToBytes(k.d, false, k.curve.OrderBytes())
}

// Curve returns the key's curve.
func (k *PublicKey) Curve() *ecfp.Curve { return k.curve }

// Bytes returns the uncompressed SEC1 encoding.
func (k *PublicKey) Bytes() []byte { return ecfp.EncodePoint(k.point) }

// Point returns a copy of the public point.
func (k *PublicKey) Point() *ecfp.PointFp { return k.point.Clone() }

// sharedPoint returns d*Q in affine standard form.
func sharedPoint(priv *PrivateKey, pub *PublicKey) (*ecfp.PointFp, error) {
	c := priv.curve
	if !c.Equal(pub.curve) {
		return nil, ErrCurveMismatch
	}
	if pub.point.IsInfinity() || !c.IsOnCurve(pub.point) {
		glog.V(2).Infof("ecdh: %s: peer point not on the curve", c.Name())
		return nil, ErrInvalidPublicKey
	}
	s := c.AllocatePointStorage()
	ecfp.NewOperator(c).ScalarMultiply(priv.d, pub.point, s)
	if s.IsInfinity() {
		return nil, errors.Wrap(ErrInvalidPublicKey, "shared point at infinity")
	}
	return s, nil
}

// DeriveBits returns the x coordinate of d*Q as big-endian bytes zero padded
// to the field byte length.
func DeriveBits(priv *PrivateKey, pub *PublicKey) ([]byte, error) {
	s, err := sharedPoint(priv, pub)
	if err != nil {
		return nil, err
	}
	return digits.ToBytes(s.X(), false, priv.curve.FieldBytes()), nil
}

// DeriveHashed returns SHA-256(0x02 | (y & 1), x) of the shared point,
// the compressed-point hash libsecp256k1 uses by default.
func DeriveHashed(priv *PrivateKey, pub *PublicKey) ([]byte, error) {
	s, err := sharedPoint(priv, pub)
	if err != nil {
		return nil, err
	}
	x := digits.ToBytes(s.X(), false, priv.curve.FieldBytes())
	version := byte(s.Y()[0]&1) | 0x02

	h := sha256simd.New()
	h.Write([]byte{version})
	h.Write(x)
	clear(x)
	return h.Sum(nil), nil
}

// DeriveKey expands the shared x coordinate into length bytes with
// HKDF-SHA-256.
func DeriveKey(priv *PrivateKey, pub *PublicKey, salt, info []byte, length int) ([]byte, error) {
	secret, err := DeriveBits(priv, pub)
	if err != nil {
		return nil, err
	}
	defer clear(secret)

	out := make([]byte, length)
	if _, err := io.ReadFull(hkdf.New(sha256simd.New, secret, salt, info), out); err != nil {
		return nil, errors.Wrapf(err, "ecdh: expanding %d bytes", length)
	}
	return out, nil
}
