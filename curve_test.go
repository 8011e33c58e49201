package ecfp

import (
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/cockroachdb/errors"

	"ecfp.dev/digits"
)

func hexDigits(s string) digits.Digits {
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return digits.FromBytes(b)
}

func expectAssertion(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.IsAssertionFailure(err) {
			t.Errorf("%s: expected assertion failure, got %v", name, r)
		}
	}()
	fn()
}

// p192 builds NIST P-192 through the generic a = -3 constructor. It is the
// one curve small enough to use 5 bit windows.
func p192(t *testing.T) *Curve {
	t.Helper()
	h := func(s string) []byte {
		b, _ := hex.DecodeString(s)
		return b
	}
	c, err := CreateANeg3Curve("P-192",
		h("fffffffffffffffffffffffffffffffeffffffffffffffff"),
		h("64210519e59c80e70fa7e9ab72243049feb8deecc146b9b1"),
		h("ffffffffffffffffffffffff99def836146bc9b1b4d22831"),
		h("188da80eb03090f67cbf20eb43a18800f4ff0afd82ff1012"),
		h("07192b95ffc8da78631011ed6b24cdd573f977a11e794811"))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNamedCurves(t *testing.T) {
	testCases := []struct {
		name      string
		curve     *Curve
		bits      int
		bytes     int
		nafWidth  int
		aEquals0  bool
		orderBits int
	}{
		{"P-256", CreateP256(), 256, 32, 6, false, 256},
		{"P-384", CreateP384(), 384, 48, 6, false, 384},
		{"P-521", CreateP521(), 521, 66, 6, false, 521},
		{"BN-254", CreateBN254(), 254, 32, 6, true, 254},
		{"secp256k1", CreateSecp256k1(), 256, 32, 6, true, 256},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := tc.curve
			if c.Name() != tc.name {
				t.Errorf("name %q", c.Name())
			}
			if c.FieldBits() != tc.bits || c.FieldBytes() != tc.bytes || c.OrderBits() != tc.orderBits {
				t.Errorf("sizes: %d bits, %d bytes, order %d bits", c.FieldBits(), c.FieldBytes(), c.OrderBits())
			}
			if c.NAFWidth() != tc.nafWidth {
				t.Errorf("NAF width %d", c.NAFWidth())
			}
			if c.AEqualsZero() != tc.aEquals0 {
				t.Errorf("AEqualsZero = %v", c.AEqualsZero())
			}
			if !c.IsOnCurve(c.Generator()) {
				t.Error("generator not on curve")
			}
			if c.P()[0]&3 != 3 {
				t.Error("all named curves have p = 3 mod 4")
			}
			byName, err := CurveByName(tc.name)
			if err != nil || byName != c {
				t.Errorf("CurveByName(%q) = %v, %v", tc.name, byName, err)
			}
		})
	}

	if _, err := CurveByName("P-224"); !errors.Is(err, ErrUnknownCurve) {
		t.Errorf("expected ErrUnknownCurve, got %v", err)
	}
	if len(CurveNames()) != 5 {
		t.Errorf("CurveNames = %v", CurveNames())
	}
}

func TestCreateANeg3Curve(t *testing.T) {
	c := p192(t)
	if c.NAFWidth() != 5 {
		t.Errorf("P-192 NAF width = %d, want 5", c.NAFWidth())
	}
	if c.AEqualsZero() {
		t.Error("P-192 has a = -3")
	}
	if !digits.Equal(c.A(), hexDigits("fffffffffffffffffffffffffffffffefffffffffffffffc")) {
		t.Errorf("a = %x", digits.ToBytes(c.A(), true, 0))
	}
	if c.Equal(CreateP256()) || !c.Equal(p192(t)) {
		t.Error("curve equality by parameters")
	}

	g := digits.ToBytes(c.Generator().X(), false, 24)
	_, err := CreateANeg3Curve("bad",
		digits.ToBytes(c.P(), false, 24), digits.ToBytes(c.B(), false, 24),
		digits.ToBytes(c.Order(), false, 24), g, g)
	if !errors.Is(err, ErrPointNotOnCurve) {
		t.Errorf("generator off the curve: got %v", err)
	}
	if _, err := CreateANeg3Curve("even", []byte{8}, []byte{1}, []byte{5}, []byte{1}, []byte{1}); !errors.Is(err, ErrInvalidCurve) {
		t.Errorf("even modulus: got %v", err)
	}
}

func TestPointConstruction(t *testing.T) {
	c := CreateP256()
	g := c.Generator()
	pt, err := c.NewPoint(g.X(), g.Y())
	if err != nil || !pt.Equal(g) {
		t.Fatalf("NewPoint(G) = %v, %v", pt, err)
	}
	if _, err := c.NewPoint(g.X(), g.X()); !errors.Is(err, ErrPointNotOnCurve) {
		t.Errorf("expected ErrPointNotOnCurve, got %v", err)
	}
	if _, err := c.NewPoint(c.P(), g.Y()); !errors.Is(err, ErrPointNotOnCurve) {
		t.Errorf("unreduced x: got %v", err)
	}

	inf := c.CreatePointAtInfinity()
	if !inf.IsInfinity() || c.IsOnCurve(inf) {
		t.Error("infinity is flagged and has no coordinates")
	}
	storage := c.AllocatePointStorage()
	if storage.IsInfinity() || storage.Coordinates() != Affine || storage.Domain() != Standard {
		t.Errorf("storage state %s", storage)
	}
	if len(storage.X()) != c.FieldDigits() {
		t.Errorf("storage sized %d digits", len(storage.X()))
	}

	clone := g.Clone()
	clone.x[0] ^= 1
	if g.Equal(clone) {
		t.Error("Clone shares coordinate buffers")
	}
	clone.CopyTo(storage)
	if !storage.Equal(clone) {
		t.Error("CopyTo")
	}
	expectAssertion(t, "cross curve copy", func() {
		g.CopyTo(CreateSecp256k1().AllocatePointStorage())
	})
}

func TestRandomScalar(t *testing.T) {
	for _, c := range []*Curve{CreateP256(), CreateP521(), CreateBN254()} {
		for i := 0; i < 20; i++ {
			k, err := c.RandomScalar(rand.Reader)
			if err != nil {
				t.Fatal(err)
			}
			if digits.IsZero(k) || digits.Compare(k, c.Order()) >= 0 {
				t.Fatalf("%s: scalar out of range", c.Name())
			}
			if len(k) != len(c.Order()) {
				t.Fatalf("%s: scalar has %d digits", c.Name(), len(k))
			}
		}
	}
}
