// Package rsa implements the raw RSA primitive (RSAEP, RSADP, RSASP1 and
// RSAVP1 of RFC 8017) on top of the digits modular arithmetic. Padding
// schemes are left to the caller.
package rsa

import (
	"github.com/cockroachdb/errors"
	"github.com/golang/glog"

	"ecfp.dev/digits"
)

var (
	// ErrMessageTooLarge is returned for inputs not below the modulus.
	ErrMessageTooLarge = errors.New("rsa: message representative out of range")

	// ErrInvalidKey is returned for unusable key material.
	ErrInvalidKey = errors.New("rsa: invalid key")
)

// PublicKey is the modulus n and public exponent e.
type PublicKey struct {
	n     *digits.IntegerGroup
	e     digits.Digits
	nSize int
}

// PrivateKey adds the private exponent and, when the primes are known,
// the CRT components.
type PrivateKey struct {
	PublicKey
	d digits.Digits

	crt *crtValues
}

type crtValues struct {
	p, q   *digits.IntegerGroup
	qd     digits.Digits
	dp, dq digits.Digits
	qInv   *digits.IntegerGroupElement // q^-1 mod p
}

// NewPublicKey builds a key from a big-endian odd modulus and exponent.
func NewPublicKey(n, e []byte) (*PublicKey, error) {
	nd := digits.Normalize(digits.FromBytes(n), 0)
	ed := digits.Normalize(digits.FromBytes(e), 0)
	switch {
	case digits.IsEven(nd) || digits.BitLen(nd) < 2:
		return nil, errors.Wrap(ErrInvalidKey, "modulus must be odd and greater than one")
	case digits.IsZero(ed) || digits.IsOne(ed):
		return nil, errors.Wrap(ErrInvalidKey, "public exponent must exceed one")
	}
	return &PublicKey{
		n:     digits.NewIntegerGroupFromDigits(nd),
		e:     ed,
		nSize: (digits.BitLen(nd) + 7) / 8,
	}, nil
}

// NewPrivateKey builds a key from n, e and d. p and q may be nil; when
// both are given the CRT exponents and coefficient are derived from them.
func NewPrivateKey(n, e, d, p, q []byte) (*PrivateKey, error) {
	pub, err := NewPublicKey(n, e)
	if err != nil {
		return nil, err
	}
	priv := &PrivateKey{
		PublicKey: *pub,
		d:         digits.Normalize(digits.FromBytes(d), 0),
	}
	if digits.IsZero(priv.d) || digits.Compare(priv.d, pub.n.Modulus()) >= 0 {
		return nil, errors.Wrap(ErrInvalidKey, "private exponent out of range")
	}
	switch {
	case p == nil && q == nil:
		return priv, nil
	case p == nil || q == nil:
		return nil, errors.Wrap(ErrInvalidKey, "p and q must be given together")
	}

	pd := digits.Normalize(digits.FromBytes(p), 0)
	qd := digits.Normalize(digits.FromBytes(q), 0)
	prod := make(digits.Digits, len(pd)+len(qd))
	digits.Multiply(prod, pd, qd)
	if !digits.Equal(prod, pub.n.Modulus()) || digits.IsEven(pd) || digits.IsEven(qd) {
		return nil, errors.Wrap(ErrInvalidKey, "p*q does not match the modulus")
	}
	crt := &crtValues{
		p:  digits.NewIntegerGroupFromDigits(pd),
		q:  digits.NewIntegerGroupFromDigits(qd),
		qd: qd,
		dp: digits.Reduce(priv.d, minusOne(pd)),
		dq: digits.Reduce(priv.d, minusOne(qd)),
	}
	crt.qInv = crt.p.CreateElementFromInteger(0)
	if err := crt.p.Inverse(crt.p.CreateElementFromDigits(qd), crt.qInv); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "rsa: q not invertible mod p"), ErrInvalidKey)
	}
	priv.crt = crt
	return priv, nil
}

func minusOne(x digits.Digits) digits.Digits {
	out := x.Clone()
	digits.Subtract(out, out, digits.Digits{1})
	return out
}

// Size returns the modulus length in bytes.
func (k *PublicKey) Size() int { return k.nSize }

// N returns the modulus.
func (k *PublicKey) N() digits.Digits { return k.n.Modulus() }

// E returns the public exponent.
func (k *PublicKey) E() digits.Digits { return k.e.Clone() }

func (k *PublicKey) representative(b []byte) (*digits.IntegerGroupElement, error) {
	v := digits.FromBytes(b)
	if digits.Compare(v, k.n.Modulus()) >= 0 {
		return nil, ErrMessageTooLarge
	}
	return k.n.CreateElementFromDigits(v), nil
}

// EncryptRaw returns m^e mod n padded to the modulus length.
func EncryptRaw(pub *PublicKey, m []byte) ([]byte, error) {
	x, err := pub.representative(m)
	if err != nil {
		return nil, err
	}
	pub.n.ModExp(x, pub.e, x)
	return x.Bytes(), nil
}

// DecryptRaw returns c^d mod n padded to the modulus length, through the
// CRT when the primes are known. A CRT result that does not re-encrypt to
// c is discarded and recomputed without the CRT.
func DecryptRaw(priv *PrivateKey, c []byte) ([]byte, error) {
	x, err := priv.representative(c)
	if err != nil {
		return nil, err
	}
	if priv.crt != nil {
		m := priv.decryptCRT(x)
		check := priv.n.CreateElementFromInteger(0)
		priv.n.ModExp(m, priv.e, check)
		if check.Equals(x) {
			return m.Bytes(), nil
		}
		glog.Warningf("rsa: CRT result failed the re-encryption check, falling back to c^d mod n")
	}
	m := priv.n.CreateElementFromInteger(0)
	priv.n.ModExp(x, priv.d, m)
	return m.Bytes(), nil
}

// decryptCRT computes m1 = c^dp mod p, m2 = c^dq mod q,
// h = qInv (m1 - m2) mod p and m = m2 + h q.
func (priv *PrivateKey) decryptCRT(c *digits.IntegerGroupElement) *digits.IntegerGroupElement {
	crt := priv.crt
	m1 := crt.p.CreateElementFromDigits(c.Digits())
	crt.p.ModExp(m1, crt.dp, m1)
	m2 := crt.q.CreateElementFromDigits(c.Digits())
	crt.q.ModExp(m2, crt.dq, m2)

	h := crt.p.CreateElementFromDigits(m2.Digits())
	crt.p.Subtract(m1, h, h)
	crt.p.Multiply(h, crt.qInv, h)

	n := priv.n
	m := n.CreateElementFromDigits(h.Digits())
	n.Multiply(m, n.CreateElementFromDigits(crt.qd), m)
	n.Add(m, n.CreateElementFromDigits(m2.Digits()), m)
	return m
}

// SignRaw is RSASP1: the private operation applied to a message
// representative.
func SignRaw(priv *PrivateKey, m []byte) ([]byte, error) {
	return DecryptRaw(priv, m)
}

// VerifyRaw is RSAVP1 followed by a comparison with the expected
// representative.
func VerifyRaw(pub *PublicKey, m, sig []byte) bool {
	got, err := EncryptRaw(pub, sig)
	if err != nil {
		return false
	}
	want, err := pub.representative(m)
	if err != nil {
		return false
	}
	return digits.Equal(digits.FromBytes(got), want.Digits())
}
