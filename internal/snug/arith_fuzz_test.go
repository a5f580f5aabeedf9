package snug

import (
	"math"
	"math/big"
	"testing"
)

// checkAgainstBig verifies one int64 operation against exact big.Int
// arithmetic: either the result matches, or the failure kind names the
// side of the range the exact result left.
func checkAgainstBig(t *testing.T, name string, got Int[int64], err error, exact *big.Int, over, under Kind) {
	t.Helper()
	lo, hi := big.NewInt(math.MinInt64), big.NewInt(math.MaxInt64)
	switch {
	case exact.Cmp(hi) > 0:
		if k, _ := KindOf(err); k != over {
			t.Fatalf("%s: exact %s above max, got err %v", name, exact, err)
		}
	case exact.Cmp(lo) < 0:
		if k, _ := KindOf(err); k != under {
			t.Fatalf("%s: exact %s below min, got err %v", name, exact, err)
		}
	default:
		if err != nil {
			t.Fatalf("%s: unexpected error %v (exact %s)", name, err, exact)
		}
		if got.Value() != exact.Int64() {
			t.Fatalf("%s: got %d, want %s", name, got.Value(), exact)
		}
	}
}

func seedExtremes(f *testing.F) {
	f.Add(int64(0), int64(0))
	f.Add(int64(1), int64(2))
	f.Add(int64(-1), int64(1))
	f.Add(int64(math.MaxInt64), int64(1))
	f.Add(int64(math.MinInt64), int64(-1))
	f.Add(int64(math.MinInt64), int64(math.MaxInt64))
	f.Add(int64(3037000500), int64(3037000500))
	f.Add(int64(-3037000500), int64(3037000500))
}

// FuzzAdd checks the addition prediction against exact arithmetic.
func FuzzAdd(f *testing.F) {
	seedExtremes(f)
	f.Fuzz(func(t *testing.T, a, b int64) {
		got, err := Add(Of(a), Of(b))
		exact := new(big.Int).Add(big.NewInt(a), big.NewInt(b))
		checkAgainstBig(t, "add", got, err, exact, AdditionOverflow, AdditionUnderflow)
	})
}

// FuzzSub checks the subtraction prediction against exact arithmetic.
func FuzzSub(f *testing.F) {
	seedExtremes(f)
	f.Fuzz(func(t *testing.T, a, b int64) {
		got, err := Sub(Of(a), Of(b))
		exact := new(big.Int).Sub(big.NewInt(a), big.NewInt(b))
		checkAgainstBig(t, "sub", got, err, exact, SubtractionOverflow, SubtractionUnderflow)
	})
}

// FuzzMul checks the multiplication prediction against exact arithmetic.
func FuzzMul(f *testing.F) {
	seedExtremes(f)
	f.Fuzz(func(t *testing.T, a, b int64) {
		got, err := Mul(Of(a), Of(b))
		exact := new(big.Int).Mul(big.NewInt(a), big.NewInt(b))
		checkAgainstBig(t, "mul", got, err, exact, MultiplicationOverflow, MultiplicationUnderflow)
	})
}

// FuzzDiv checks the division guards.
func FuzzDiv(f *testing.F) {
	seedExtremes(f)
	f.Fuzz(func(t *testing.T, a, b int64) {
		got, err := Div(Of(a), Of(b))
		if b == 0 {
			if k, _ := KindOf(err); k != DivisionByZero {
				t.Fatalf("%d / 0: got %v", a, err)
			}
			return
		}
		exact := new(big.Int).Quo(big.NewInt(a), big.NewInt(b))
		checkAgainstBig(t, "div", got, err, exact, DivisionOverflow, "")
	})
}

// FuzzParse checks that text input never yields a value that fails to
// round-trip.
func FuzzParse(f *testing.F) {
	f.Add("0")
	f.Add("-128")
	f.Add("127")
	f.Add("128")
	f.Add("+5")
	f.Add("abc")
	f.Fuzz(func(t *testing.T, s string) {
		v, err := Parse[int8](s)
		if err != nil {
			return
		}
		again, err := Parse[int8](v.String())
		if err != nil || again != v {
			t.Fatalf("round trip of %q: got (%v, %v)", s, again, err)
		}
	})
}
