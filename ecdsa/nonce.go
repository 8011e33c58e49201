package ecdsa

import (
	"hash"

	"ecfp.dev/digits"
)

// hmacContext is HMAC over any digest: an inner and an outer hash keyed
// with the block-padded key XOR ipad and opad.
type hmacContext struct {
	inner, outer hash.Hash
}

func newHMAC(newHash func() hash.Hash, key []byte) *hmacContext {
	h := &hmacContext{inner: newHash(), outer: newHash()}

	// keys longer than a block are hashed first
	rkey := make([]byte, h.inner.BlockSize())
	if len(key) > len(rkey) {
		kh := newHash()
		kh.Write(key)
		copy(rkey, kh.Sum(nil))
	} else {
		copy(rkey, key)
	}

	for i := range rkey {
		rkey[i] ^= 0x5c
	}
	h.outer.Write(rkey)
	for i := range rkey {
		rkey[i] ^= 0x5c ^ 0x36
	}
	h.inner.Write(rkey)

	clear(rkey)
	return h
}

func (h *hmacContext) Write(data []byte) {
	h.inner.Write(data)
}

// Finalize writes the MAC to out, which must hold the digest size.
func (h *hmacContext) Finalize(out []byte) {
	temp := h.inner.Sum(nil)
	h.outer.Write(temp)
	copy(out, h.outer.Sum(nil))
	clear(temp)
}

// rfc6979 generates deterministic nonces in [1, q) following RFC 6979
// section 3.2, with the HMAC digest matching the message digest.
type rfc6979 struct {
	newHash func() hash.Hash
	v, k    []byte
	q       digits.Digits
	qlen    int
	retry   bool
}

// newRFC6979 seeds the generator with the private key x and the message
// digest h1 (steps b to g).
func newRFC6979(newHash func() hash.Hash, q digits.Digits, x digits.Digits, h1 []byte) *rfc6979 {
	qlen := digits.BitLen(q)
	rlen := (qlen + 7) / 8
	size := newHash().Size()
	g := &rfc6979{
		newHash: newHash,
		v:       make([]byte, size),
		k:       make([]byte, size),
		q:       q,
		qlen:    qlen,
	}

	// V = 0x01 0x01 ... 0x01, K = 0x00 0x00 ... 0x00
	for i := range g.v {
		g.v[i] = 0x01
	}

	xo := digits.ToBytes(digits.Reduce(x, q), false, rlen)
	ho := digits.ToBytes(digits.Reduce(bits2int(h1, qlen), q), false, rlen)

	g.mac(g.k, g.v, []byte{0x00}, xo, ho)
	g.mac(g.v, g.v)
	g.mac(g.k, g.v, []byte{0x01}, xo, ho)
	g.mac(g.v, g.v)

	clear(xo)
	return g
}

// mac sets out = HMAC_K(parts...).
func (g *rfc6979) mac(out []byte, parts ...[]byte) {
	h := newHMAC(g.newHash, g.k)
	for _, p := range parts {
		h.Write(p)
	}
	h.Finalize(out)
}

// next returns the next candidate nonce. Every call after the first, and
// every rejected candidate, first advances K and V (step h.3).
func (g *rfc6979) next() digits.Digits {
	rlen := (g.qlen + 7) / 8
	t := make([]byte, 0, rlen+len(g.v))
	for {
		if g.retry {
			g.mac(g.k, g.v, []byte{0x00})
			g.mac(g.v, g.v)
		}
		g.retry = true

		t = t[:0]
		for len(t) < rlen {
			g.mac(g.v, g.v)
			t = append(t, g.v...)
		}
		k := bits2int(t, g.qlen)
		if !digits.IsZero(k) && digits.Compare(k, g.q) < 0 {
			clear(t)
			return digits.Normalize(k, len(g.q))
		}
	}
}

// wipe clears the generator state.
func (g *rfc6979) wipe() {
	clear(g.v)
	clear(g.k)
}

// bits2int keeps the leftmost qlen bits of b as an integer.
func bits2int(b []byte, qlen int) digits.Digits {
	if n := (qlen + 7) / 8; len(b) > n {
		b = b[:n]
	}
	d := digits.FromBytes(b)
	if excess := len(b)*8 - qlen; excess > 0 {
		digits.ShiftRight(d, d, uint(excess))
	}
	return d
}
