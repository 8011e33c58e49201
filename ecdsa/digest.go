package ecdsa

import (
	"crypto/sha1"
	"crypto/sha512"
	"hash"

	"github.com/cockroachdb/errors"
	sha256simd "github.com/minio/sha256-simd"
)

// Digest names, spelled the way WebCrypto spells them.
const (
	SHA1   = "SHA-1"
	SHA256 = "SHA-256"
	SHA384 = "SHA-384"
	SHA512 = "SHA-512"
)

var digests = map[string]func() hash.Hash{
	SHA1:   sha1.New,
	SHA256: sha256simd.New,
	SHA384: sha512.New384,
	SHA512: sha512.New,
}

// NewHash returns the constructor for the named digest.
func NewHash(name string) (func() hash.Hash, error) {
	h, ok := digests[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownHash, "%q", name)
	}
	return h, nil
}

// Digest hashes msg with the named digest.
func Digest(name string, msg []byte) ([]byte, error) {
	newHash, err := NewHash(name)
	if err != nil {
		return nil, err
	}
	h := newHash()
	h.Write(msg)
	return h.Sum(nil), nil
}
