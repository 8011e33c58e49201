package bench

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/stretchr/testify/require"

	ecfp "ecfp.dev"
	"ecfp.dev/digits"
	"ecfp.dev/ecdsa"
)

// TestDeterministicSignaturesMatchBtcec signs the same digests with both
// implementations. btcec normalises s to the lower half of the order, so
// s may come back negated.
func TestDeterministicSignaturesMatchBtcec(t *testing.T) {
	c := ecfp.CreateSecp256k1()
	n := c.Order()
	for i := 0; i < 10; i++ {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			priv, err := ecdsa.GenerateKey(c, rand.Reader)
			require.NoError(t, err)
			bpriv, bpub := btcec.PrivKeyFromBytes(priv.Bytes())
			require.Equal(t, bpub.SerializeUncompressed(), priv.PublicKey.Bytes())

			digest := sha256.Sum256([]byte(fmt.Sprintf("message %d", i)))
			ours, err := ecdsa.SignDigest(priv, ecdsa.SHA256, digest[:])
			require.NoError(t, err)
			theirs, err := ecdsa.ParseDER(c, btcecdsa.Sign(bpriv, digest[:]).Serialize())
			require.NoError(t, err)

			require.Equal(t, theirs[:32], ours[:32], "r differs")
			s := digits.FromBytes(ours[32:])
			if !digits.Equal(s, digits.FromBytes(theirs[32:])) {
				negS := digits.ModSub(digits.Digits{0}, s, n)
				require.Equal(t, theirs[32:], digits.ToBytes(negS, false, 32), "s differs")
			}

			der, err := ecdsa.MarshalDER(ours)
			require.NoError(t, err)
			sig, err := btcecdsa.ParseDERSignature(der)
			require.NoError(t, err)
			require.True(t, sig.Verify(digest[:], bpub))
			require.True(t, ecdsa.VerifyDigest(&priv.PublicKey, digest[:], theirs))
		})
	}
}
