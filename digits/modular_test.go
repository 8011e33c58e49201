package digits

import (
	"math/big"
	mrand "math/rand"
	"testing"

	"github.com/cockroachdb/errors"
)

// p256 is the NIST P-256 field prime, which is 3 mod 4.
var p256 = fromBig(func() *big.Int {
	p, _ := new(big.Int).SetString("ffffffff00000001000000000000000000000000ffffffffffffffffffffffff", 16)
	return p
}())

func randomBelow(m Digits) Digits {
	return Reduce(randomDigits(len(m)+1), m)
}

func TestModInv(t *testing.T) {
	r := mrand.New(mrand.NewSource(2))
	for i := 0; i < 200; i++ {
		n := randomDigits(1 + r.Intn(5))
		if i%2 == 0 {
			n[0] |= 1
		}
		if SignificantLen(n) == 0 || IsOne(n) {
			continue
		}
		a := randomDigits(1 + r.Intn(5))
		want := new(big.Int).ModInverse(toBig(a), toBig(n))
		got, err := ModInv(a, n)
		if want == nil {
			if !errors.Is(err, ErrNotInvertible) {
				t.Fatalf("expected ErrNotInvertible for a=%s n=%s, got %v", toBig(a), toBig(n), err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ModInv(%s, %s): %v", toBig(a), toBig(n), err)
		}
		if toBig(got).Cmp(want) != 0 {
			t.Fatalf("ModInv(%s, %s) = %s, want %s", toBig(a), toBig(n), toBig(got), want)
		}
		if len(got) != SignificantLen(n) {
			t.Fatalf("inverse has %d digits, modulus %d", len(got), SignificantLen(n))
		}
	}

	if _, err := ModInv(Digits{6}, Digits{9}); !errors.Is(err, ErrNotInvertible) {
		t.Errorf("gcd(6, 9) = 3, expected ErrNotInvertible, got %v", err)
	}
	// composite but coprime modulus
	if inv, err := ModInv(Digits{7}, Digits{15}); err != nil || inv[0] != 13 {
		t.Errorf("7^-1 mod 15 = %v, %v", inv, err)
	}
}

func TestGCD(t *testing.T) {
	for i := 0; i < 100; i++ {
		a, b := randomDigits(1+i%4), randomDigits(1+i%3)
		g := GCD(a, b)
		want := new(big.Int).GCD(nil, nil, toBig(a), toBig(b))
		if toBig(g).Cmp(want) != 0 {
			t.Fatalf("GCD mismatch: got %s want %s", toBig(g), want)
		}
	}
	if g := GCD(Digits{12}, Digits{0}); g[0] != 12 {
		t.Errorf("gcd(12, 0) = %v", g)
	}
}

func TestModularArithmetic(t *testing.T) {
	moduli := []Digits{p256, {97}, {0, 0, 1}, randomDigits(4)}
	for _, m := range moduli {
		if SignificantLen(m) == 0 {
			continue
		}
		bm := toBig(m)
		for i := 0; i < 50; i++ {
			a, b := randomBelow(m), randomBelow(m)
			ba, bb := toBig(a), toBig(b)

			if got, want := toBig(ModAdd(a, b, m)), new(big.Int).Mod(new(big.Int).Add(ba, bb), bm); got.Cmp(want) != 0 {
				t.Fatalf("ModAdd = %s, want %s", got, want)
			}
			if got, want := toBig(ModSub(a, b, m)), new(big.Int).Mod(new(big.Int).Sub(ba, bb), bm); got.Cmp(want) != 0 {
				t.Fatalf("ModSub = %s, want %s", got, want)
			}
			if got, want := toBig(ModMul(a, b, m)), new(big.Int).Mod(new(big.Int).Mul(ba, bb), bm); got.Cmp(want) != 0 {
				t.Fatalf("ModMul = %s, want %s", got, want)
			}
			e := randomDigits(1 + i%3)
			if got, want := toBig(ModExp(a, e, m)), new(big.Int).Exp(ba, toBig(e), bm); got.Cmp(want) != 0 {
				t.Fatalf("ModExp mod %s = %s, want %s", bm, got, want)
			}
		}
	}
}

func TestMontgomery(t *testing.T) {
	t.Run("even modulus", func(t *testing.T) {
		expectAssertion(t, "even", func() { NewMontgomery(Digits{10}) })
	})

	for _, m := range []Digits{p256, {3}, {^uint64(0), ^uint64(0), 5}} {
		mt := NewMontgomery(m)
		bm := toBig(m)

		r := new(big.Int).Lsh(big.NewInt(1), uint(64*mt.Len()))
		if want := new(big.Int).Exp(r, big.NewInt(3), bm); toBig(mt.RCubed()).Cmp(want) != 0 {
			t.Fatalf("R^3 mod m = %s, want %s", toBig(mt.RCubed()), want)
		}

		for i := 0; i < 50; i++ {
			a, b := randomBelow(m), randomBelow(m)
			am, bmont := make(Digits, mt.Len()), make(Digits, mt.Len())
			mt.ToMontgomery(am, a)
			mt.ToMontgomery(bmont, b)

			back := make(Digits, mt.Len())
			mt.ToStandard(back, am)
			if !Equal(back, a) {
				t.Fatalf("Montgomery round trip lost %s", toBig(a))
			}

			prod := make(Digits, mt.Len())
			mt.Multiply(prod, am, bmont)
			mt.ToStandard(prod, prod)
			if want := new(big.Int).Mod(new(big.Int).Mul(toBig(a), toBig(b)), bm); toBig(prod).Cmp(want) != 0 {
				t.Fatalf("Montgomery product = %s, want %s", toBig(prod), want)
			}

			e := randomDigits(1 + i%4)
			out := make(Digits, mt.Len())
			mt.Clone().ModExp(out, a, e)
			if want := new(big.Int).Exp(toBig(a), toBig(e), bm); toBig(out).Cmp(want) != 0 {
				t.Fatalf("Montgomery ModExp = %s, want %s", toBig(out), want)
			}
		}

		out := make(Digits, mt.Len())
		a := randomBelow(m)
		mt.ModExp(out, a, Digits{0})
		if !IsOne(out) {
			t.Errorf("a^0 = %v", out)
		}
		mt.ModExp(out, a, Digits{1})
		if !Equal(out, a) {
			t.Errorf("a^1 = %v, want %v", out, a)
		}
	}

	t.Run("wrong length", func(t *testing.T) {
		mt := NewMontgomery(p256)
		expectAssertion(t, "short operand", func() {
			mt.Multiply(make(Digits, 4), Digits{1}, make(Digits, 4))
		})
	})
}

func TestSquareRoot(t *testing.T) {
	s := NewSquareRootSolver(p256)
	for i := 0; i < 20; i++ {
		x := randomBelow(p256)
		sq := ModMul(x, x, p256)
		root, err := s.SquareRoot(sq)
		if err != nil {
			t.Fatal(err)
		}
		if !Equal(ModMul(root, root, p256), sq) {
			t.Fatalf("root of %s does not square back", toBig(sq))
		}
		if Jacobi(sq, p256) != 1 && !IsZero(sq) {
			t.Fatalf("square has Jacobi symbol %d", Jacobi(sq, p256))
		}
	}

	if _, err := NewSquareRootSolver(Digits{7}).SquareRoot(Digits{3}); !errors.Is(err, ErrNoSquareRoot) {
		t.Errorf("3 is not a square mod 7, got %v", err)
	}
	_, err := NewSquareRootSolver(Digits{13}).SquareRoot(Digits{4})
	if !errors.Is(err, ErrGeneralCaseUnsupported) || !errors.HasUnimplementedError(err) {
		t.Errorf("p = 13 should be unsupported, got %v", err)
	}
}

func TestJacobi(t *testing.T) {
	r := mrand.New(mrand.NewSource(3))
	for i := 0; i < 200; i++ {
		n := randomDigits(1 + r.Intn(4))
		n[0] |= 1
		a := randomDigits(1 + r.Intn(4))
		if i%10 == 0 {
			a = mul(n, Digits{uint64(i + 3)})
		}
		want := big.Jacobi(toBig(a), toBig(n))
		if got := Jacobi(a, n); got != want {
			t.Fatalf("Jacobi(%s, %s) = %d, want %d", toBig(a), toBig(n), got, want)
		}
	}
	expectAssertion(t, "even modulus", func() { Jacobi(Digits{3}, Digits{8}) })
}

func TestIntegerGroup(t *testing.T) {
	for _, m := range []Digits{p256, {1000}} {
		g := NewIntegerGroupFromDigits(m)
		bm := toBig(m)

		a := g.CreateElementFromBytes(ToBytes(randomDigits(len(m)+1), false, 0))
		b := g.CreateElementFromDigits(randomDigits(len(m)))
		if toBig(a.Digits()).Cmp(bm) >= 0 {
			t.Fatal("element not reduced")
		}
		out := g.CreateElementFromInteger(0)

		g.Add(a, b, out)
		if want := new(big.Int).Mod(new(big.Int).Add(toBig(a.Digits()), toBig(b.Digits())), bm); toBig(out.Digits()).Cmp(want) != 0 {
			t.Errorf("group add = %s, want %s", toBig(out.Digits()), want)
		}
		g.Subtract(out, b, out)
		if !out.Equals(a) {
			t.Errorf("(a+b)-b != a")
		}
		g.Multiply(a, b, out)
		if want := new(big.Int).Mod(new(big.Int).Mul(toBig(a.Digits()), toBig(b.Digits())), bm); toBig(out.Digits()).Cmp(want) != 0 {
			t.Errorf("group multiply = %s, want %s", toBig(out.Digits()), want)
		}
		e := Digits{65537}
		g.ModExp(a, e, out)
		if want := new(big.Int).Exp(toBig(a.Digits()), big.NewInt(65537), bm); toBig(out.Digits()).Cmp(want) != 0 {
			t.Errorf("group modexp = %s, want %s", toBig(out.Digits()), want)
		}
		if len(out.Bytes()) != (bm.BitLen()+7)/8 {
			t.Errorf("element bytes have length %d", len(out.Bytes()))
		}
	}

	g := NewIntegerGroupFromDigits(Digits{1000})
	h := NewIntegerGroupFromDigits(Digits{999})
	if g.CreateElementFromInteger(5).Equals(h.CreateElementFromInteger(5)) {
		t.Error("elements of different groups compared equal")
	}
	if err := g.Inverse(g.CreateElementFromInteger(10), g.CreateElementFromInteger(0)); !errors.Is(err, ErrNotInvertible) {
		t.Errorf("10 has no inverse mod 1000, got %v", err)
	}
	inv := g.CreateElementFromInteger(0)
	if err := g.Inverse(g.CreateElementFromInteger(3), inv); err != nil || inv.Digits()[0] != 667 {
		t.Errorf("3^-1 mod 1000 = %v, %v", inv.Digits(), err)
	}
	expectAssertion(t, "mixed groups", func() {
		g.Add(g.CreateElementFromInteger(1), h.CreateElementFromInteger(1), g.CreateElementFromInteger(0))
	})
}
