package schedule

import (
	"math/rand/v2"
	"testing"
)

func column(vals ...int8) Binary {
	b := NewBinary(len(vals), 1)
	for t, v := range vals {
		b[t][0] = v
	}
	return b
}

func TestToIntegerRunLengths(t *testing.T) {
	got := ToInteger(column(1, 1, 0, 0, 1), []int{3})
	want := []int{4, 5, -1, -2, 1}
	for i, w := range want {
		if got[i][0] != w {
			t.Fatalf("period %d: want %d got %d (%v)", i, w, got[i][0], got)
		}
	}
}

func TestToIntegerFromOffline(t *testing.T) {
	got := ToInteger(column(0, 1, 1, 0), []int{-2})
	want := []int{-3, 1, 2, -1}
	for i, w := range want {
		if got[i][0] != w {
			t.Fatalf("period %d: want %d got %d", i, w, got[i][0])
		}
	}
}

func TestToBinary(t *testing.T) {
	s := Integer{{4, -1}, {5, 1}, {-1, 2}}
	b := ToBinary(s)
	want := Binary{{1, 0}, {1, 1}, {0, 1}}
	if !b.Equal(want) {
		t.Fatalf("want %v got %v", want, b)
	}
}

func TestRoundTripPreservesSign(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	init := []int{3, -2, 1, -7}
	for i := 0; i < 20; i++ {
		b := Random(rng, 12, len(init))
		s := ToInteger(b, init)
		again := ToInteger(ToBinary(s), init)
		for t0 := range s {
			for n := range s[t0] {
				if (s[t0][n] > 0) != (again[t0][n] > 0) {
					t.Fatalf("sign mismatch at (%d,%d)", t0, n)
				}
				if (s[t0][n] > 0) != (b[t0][n] == 1) {
					t.Fatalf("sign does not follow binary at (%d,%d)", t0, n)
				}
				if s[t0][n] == 0 {
					t.Fatalf("zero run length at (%d,%d)", t0, n)
				}
			}
		}
	}
}

func TestCheckShape(t *testing.T) {
	b := NewBinary(3, 2)
	if err := CheckShape(b, 3, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckShape(b, 4, 2); err == nil {
		t.Fatalf("expected period mismatch")
	}
	if err := CheckShape(b, 3, 3); err == nil {
		t.Fatalf("expected unit mismatch")
	}
	b[1][1] = 2
	if err := CheckShape(b, 3, 2); err == nil {
		t.Fatalf("expected value error")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := NewBinary(2, 2)
	c := b.Clone()
	c[0][0] = 1
	if b[0][0] != 0 {
		t.Fatalf("clone aliases original")
	}
	if c.OnlineCount() != 1 {
		t.Fatalf("expected one online cell")
	}
	s := Integer{{1, -1}}
	sc := s.Clone()
	sc[0][0] = 9
	if s[0][0] != 1 {
		t.Fatalf("integer clone aliases original")
	}
}
