// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package primestate

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestNormalizeUnitNorm(t *testing.T) {
	t.Parallel()

	ps, err := New([]uint64{2, 3, 5, 7}, []complex128{
		complex(1, 1), complex(2, 0), complex(0, 3), complex(1, -1),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ps.Normalize()

	var sumSq float64
	for _, c := range ps.Coefficients() {
		m := cmplx.Abs(c)
		sumSq += m * m
	}
	if math.Abs(sumSq-1) >= 1e-9 {
		t.Errorf("post-normalize sum|c|^2 = %v, want within 1e-9 of 1\nstate: %s", sumSq, spew.Sdump(ps))
	}
}

func TestNormalizeAllZeroIsNoOp(t *testing.T) {
	t.Parallel()

	ps, err := New([]uint64{2, 3}, []complex128{0, 0})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ps.Normalize()
	for _, c := range ps.Coefficients() {
		if c != 0 {
			t.Errorf("expected all-zero state to remain zero, got %v", c)
		}
	}
}

func TestCoefficientOfMissingPrimeIsZero(t *testing.T) {
	t.Parallel()

	ps, err := New([]uint64{2, 3}, []complex128{1, 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c := ps.CoefficientOf(5); c != 0 {
		t.Errorf("CoefficientOf(5) = %v, want 0", c)
	}
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	ps, err := New([]uint64{2, 3}, []complex128{1, 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	clone := ps.Clone()
	clone.SetCoefficientAt(0, 99)
	if ps.CoefficientAt(0) == 99 {
		t.Error("mutating clone affected original")
	}
}

func TestEntropyNormalizedRange(t *testing.T) {
	t.Parallel()

	// A uniform distribution over 4 primes has max entropy (1.0).
	ps, err := New([]uint64{2, 3, 5, 7}, []complex128{0.5, 0.5, 0.5, 0.5})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h := ps.Entropy()
	if math.Abs(h-1.0) >= 1e-9 {
		t.Errorf("uniform-distribution entropy = %v, want ~1.0", h)
	}

	// A single dominant coefficient has low (near-zero) entropy.
	ps2, err := New([]uint64{2, 3, 5, 7}, []complex128{1, 0.001, 0.001, 0.001})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if h2 := ps2.Entropy(); h2 >= 0.3 {
		t.Errorf("dominant-coefficient entropy = %v, want < 0.3", h2)
	}
}

func TestLengthMismatchRejected(t *testing.T) {
	t.Parallel()

	if _, err := New([]uint64{2, 3}, []complex128{1}); err != ErrLengthMismatch {
		t.Errorf("New with mismatched lengths: got err=%v, want ErrLengthMismatch", err)
	}
}

func TestDuplicatePrimeRejected(t *testing.T) {
	t.Parallel()

	if _, err := New([]uint64{2, 2}, []complex128{1, 1}); err != ErrDuplicatePrime {
		t.Errorf("New with duplicate prime: got err=%v, want ErrDuplicatePrime", err)
	}
}

func TestUnionPrimesSortedDeduped(t *testing.T) {
	t.Parallel()

	got := UnionPrimes([]uint64{7, 2, 5}, []uint64{3, 2, 11})
	want := []uint64{2, 3, 5, 7, 11}
	if len(got) != len(want) {
		t.Fatalf("UnionPrimes length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("UnionPrimes[%d] = %d, want %d (full: %v)", i, got[i], want[i], got)
		}
	}
}
