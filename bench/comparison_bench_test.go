package bench

import (
	"crypto/sha256"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"

	ecfp "ecfp.dev"
	"ecfp.dev/digits"
	"ecfp.dev/ecdh"
	"ecfp.dev/ecdsa"
)

// This file compares the generic curve code on secp256k1 against btcec,
// which is specialised for that curve.

var (
	benchSeckey  []byte
	benchMsghash []byte

	benchCurve    *ecfp.Curve
	benchPriv     *ecdsa.PrivateKey
	benchSig      []byte
	benchECDHPriv *ecdh.PrivateKey
	benchECDHPeer *ecdh.PublicKey

	benchBtcecPriv *btcec.PrivateKey
	benchBtcecPub  *btcec.PublicKey
	benchBtcecSig  *btcecdsa.Signature
)

func initComparisonBenchData() {
	if benchSeckey != nil {
		return
	}
	benchSeckey = []byte{
		0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
		0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
		0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
		0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	}
	h := sha256.Sum256([]byte("benchmark message"))
	benchMsghash = h[:]

	benchCurve = ecfp.CreateSecp256k1()
	var err error
	if benchPriv, err = ecdsa.NewPrivateKey(benchCurve, benchSeckey); err != nil {
		panic(err)
	}
	if benchSig, err = ecdsa.SignDigest(benchPriv, ecdsa.SHA256, benchMsghash); err != nil {
		panic(err)
	}
	if benchECDHPriv, err = ecdh.NewPrivateKey(benchCurve, benchSeckey); err != nil {
		panic(err)
	}
	peer := make([]byte, 32)
	peer[31] = 7
	peerKey, err := ecdh.NewPrivateKey(benchCurve, peer)
	if err != nil {
		panic(err)
	}
	benchECDHPeer = peerKey.PublicKey()

	benchBtcecPriv, benchBtcecPub = btcec.PrivKeyFromBytes(benchSeckey)
	benchBtcecSig = btcecdsa.Sign(benchBtcecPriv, benchMsghash)
}

func BenchmarkPubkeyDerivation_Ecfp(b *testing.B) {
	initComparisonBenchData()
	op := ecfp.NewOperator(benchCurve)
	out := benchCurve.AllocatePointStorage()
	k := digits.FromBytes(benchSeckey)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		op.ScalarMultiplyBase(k, out)
	}
}

func BenchmarkPubkeyDerivation_Btcec(b *testing.B) {
	initComparisonBenchData()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, pub := btcec.PrivKeyFromBytes(benchSeckey)
		_ = pub
	}
}

func BenchmarkSign_Ecfp(b *testing.B) {
	initComparisonBenchData()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ecdsa.SignDigest(benchPriv, ecdsa.SHA256, benchMsghash); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSign_Btcec(b *testing.B) {
	initComparisonBenchData()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		btcecdsa.Sign(benchBtcecPriv, benchMsghash)
	}
}

func BenchmarkVerify_Ecfp(b *testing.B) {
	initComparisonBenchData()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !ecdsa.VerifyDigest(&benchPriv.PublicKey, benchMsghash, benchSig) {
			b.Fatal("verification failed")
		}
	}
}

func BenchmarkVerify_Btcec(b *testing.B) {
	initComparisonBenchData()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !benchBtcecSig.Verify(benchMsghash, benchBtcecPub) {
			b.Fatal("verification failed")
		}
	}
}

func BenchmarkECDH_Ecfp(b *testing.B) {
	initComparisonBenchData()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ecdh.DeriveBits(benchECDHPriv, benchECDHPeer); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkECDH_Btcec(b *testing.B) {
	initComparisonBenchData()
	peer, err := btcec.ParsePubKey(benchECDHPeer.Bytes())
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		btcec.GenerateSharedSecret(benchBtcecPriv, peer)
	}
}

// BenchmarkScalarMultiply covers every named curve with a fixed scalar.
func BenchmarkScalarMultiply(b *testing.B) {
	for _, name := range ecfp.CurveNames() {
		c, err := ecfp.CurveByName(name)
		if err != nil {
			b.Fatal(err)
		}
		b.Run(name, func(b *testing.B) {
			op := ecfp.NewOperator(c)
			out := c.AllocatePointStorage()
			k := c.Order()
			digits.ShiftRight(k, k, 1)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				op.ScalarMultiply(k, c.Generator(), out)
			}
		})
	}
}
