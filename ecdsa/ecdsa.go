// Package ecdsa signs and verifies with ECDSA over the ecfp curves.
//
// Signatures are the raw r || s concatenation with each half zero padded to
// the order byte length; MarshalDER and ParseDER convert to and from the
// ASN.1 form. Nonces are deterministic (RFC 6979) using the message digest
// as the HMAC hash.
package ecdsa

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/golang/glog"

	ecfp "ecfp.dev"
	"ecfp.dev/digits"
)

var (
	// ErrInvalidPrivateKey is returned for private scalars outside [1, n).
	ErrInvalidPrivateKey = errors.New("ecdsa: invalid private key")

	// ErrInvalidPublicKey is returned for public points at infinity or off
	// the curve.
	ErrInvalidPublicKey = errors.New("ecdsa: invalid public key")

	// ErrInvalidSignature is returned when a signature cannot be parsed.
	ErrInvalidSignature = errors.New("ecdsa: invalid signature encoding")

	// ErrUnknownHash is returned for digest names other than SHA-1,
	// SHA-256, SHA-384 and SHA-512.
	ErrUnknownHash = errors.New("ecdsa: unknown hash")

	// ErrRetryExhausted is returned when every nonce tried gave r = 0 or
	// s = 0.
	ErrRetryExhausted = errors.New("ecdsa: signing retries exhausted")
)

// maxSignAttempts bounds the nonces tried for one signature.
const maxSignAttempts = 32

// PublicKey is an affine standard point Q = dG.
type PublicKey struct {
	Curve *ecfp.Curve
	Point *ecfp.PointFp
}

// PrivateKey holds the scalar d and its public key.
type PrivateKey struct {
	PublicKey
	D digits.Digits
}

// GenerateKey returns a key pair with d drawn uniformly from [1, n).
func GenerateKey(c *ecfp.Curve, rand io.Reader) (*PrivateKey, error) {
	d, err := c.RandomScalar(rand)
	if err != nil {
		return nil, errors.Wrap(err, "ecdsa: generate key")
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
	return &PrivateKey{PublicKey: PublicKey{Curve: c, Point: q}, D: d}
}

// NewPublicKey parses an uncompressed SEC1 public key.
func NewPublicKey(c *ecfp.Curve, data []byte) (*PublicKey, error) {
	q, err := ecfp.DecodePoint(c, data)
	if err != nil {
		return nil, errors.Wrap(err, "ecdsa: public key")
	}
	if q.IsInfinity() {
		return nil, ErrInvalidPublicKey
	}
	return &PublicKey{Curve: c, Point: q}, nil
}

// Bytes returns the uncompressed SEC1 encoding of the public key.
func (pub *PublicKey) Bytes() []byte {
	return ecfp.EncodePoint(pub.Point)
}

// Bytes returns d as big-endian bytes of the order byte length.
func (priv *PrivateKey) Bytes() []byte {
	return digits.ToBytes(priv.D, false, priv.Curve.OrderBytes())
}

// Sign hashes msg with the named digest and signs it with priv.
func Sign(priv *PrivateKey, hashName string, msg []byte) ([]byte, error) {
	newHash, err := NewHash(hashName)
	if err != nil {
		return nil, err
	}
	h := newHash()
	h.Write(msg)
	return SignDigest(priv, hashName, h.Sum(nil))
}

// SignDigest signs a precomputed digest. hashName selects the HMAC hash
// for nonce generation and should name the digest's algorithm.
func SignDigest(priv *PrivateKey, hashName string, digest []byte) ([]byte, error) {
	newHash, err := NewHash(hashName)
	if err != nil {
		return nil, err
	}
	c := priv.Curve
	n := c.Order()
	size := c.OrderBytes()

	e := digits.Reduce(bits2int(digest, c.OrderBits()), n)
	nonces := newRFC6979(newHash, n, priv.D, digest)
	defer nonces.wipe()

	op := ecfp.NewOperator(c)
	kG := c.AllocatePointStorage()
	for attempt := 0; attempt < maxSignAttempts; attempt++ {
		k := nonces.next()

		// r = x(kG) mod n
		op.ScalarMultiplyBase(k, kG)
		r := digits.Reduce(kG.X(), n)
		if digits.IsZero(r) {
			glog.V(1).Infof("ecdsa: %s: r = 0, retrying with a fresh nonce", c.Name())
			continue
		}

		// s = k^-1 (e + r d) mod n
		kInv, err := digits.ModInv(k, n)
		if err != nil {
			return nil, errors.NewAssertionErrorWithWrappedErrf(err, "ecdsa: nonce not invertible")
		}
		s := digits.ModMul(kInv, digits.ModAdd(e, digits.ModMul(r, priv.D, n), n), n)
		clear(k)
		clear(kInv)
		if digits.IsZero(s) {
			glog.V(1).Infof("ecdsa: %s: s = 0, retrying with a fresh nonce", c.Name())
			continue
		}

		sig := make([]byte, 0, 2*size)
		sig = append(sig, digits.ToBytes(r, false, size)...)
		return append(sig, digits.ToBytes(s, false, size)...), nil
	}
	return nil, errors.Wrapf(ErrRetryExhausted, "after %d nonces", maxSignAttempts)
}

// Verify reports whether sig is a valid r || s signature of msg under pub.
// The error is non-nil only for an unknown digest name.
func Verify(pub *PublicKey, hashName string, msg, sig []byte) (bool, error) {
	digest, err := Digest(hashName, msg)
	if err != nil {
		return false, err
	}
	return VerifyDigest(pub, digest, sig), nil
}

// VerifyDigest checks sig against a precomputed digest.
func VerifyDigest(pub *PublicKey, digest, sig []byte) bool {
	c := pub.Curve
	n := c.Order()
	size := c.OrderBytes()
	if len(sig) != 2*size || pub.Point.IsInfinity() || !c.IsOnCurve(pub.Point) {
		return false
	}
	r := digits.Normalize(digits.FromBytes(sig[:size]), 0)
	s := digits.Normalize(digits.FromBytes(sig[size:]), 0)
	if !inRange(r, n) || !inRange(s, n) {
		return false
	}

	e := digits.Reduce(bits2int(digest, c.OrderBits()), n)
	w, err := digits.ModInv(s, n)
	if err != nil {
		return false
	}
	u1 := digits.ModMul(e, w, n)
	u2 := digits.ModMul(r, w, n)

	// u1 G + u2 Q
	op := ecfp.NewOperator(c)
	p1 := c.AllocatePointStorage()
	p2 := c.AllocatePointStorage()
	op.ScalarMultiplyBase(u1, p1)
	op.ScalarMultiply(u2, pub.Point, p2)
	op.Add(p1, p2, p1)
	if p1.IsInfinity() {
		return false
	}
	return digits.Equal(digits.Reduce(p1.X(), n), r)
}

func inRange(x, n digits.Digits) bool {
	return !digits.IsZero(x) && digits.Compare(x, n) < 0
}
