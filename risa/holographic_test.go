// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package risa

import "testing"

func TestHolographicStoreRetrieveMissingPattern(t *testing.T) {
	t.Parallel()

	h := NewHolographicStore()
	if _, ok := h.Retrieve("nope", 0); ok {
		t.Error("Retrieve on a missing pattern reported ok=true")
	}
}

func TestHolographicStoreRetrieveThreshold(t *testing.T) {
	t.Parallel()

	h := NewHolographicStore()
	h.Store("p", pattern{2: 0.9, 3: 0.1, 5: 0.5})

	sum, ok := h.Retrieve("p", 0.2)
	if !ok {
		t.Fatal("Retrieve reported ok=false for a stored pattern")
	}
	if sum != 1.4 {
		t.Errorf("sum above threshold = %v, want 1.4 (0.9+0.5, excluding 0.1)", sum)
	}
}

func TestHolographicStoreFragmentRejectsZeroCount(t *testing.T) {
	t.Parallel()

	h := NewHolographicStore()
	h.Store("p", pattern{2: 0.5})
	if _, err := h.Fragment("p", 0, "out"); err == nil {
		t.Error("Fragment accepted n=0")
	}
}

func TestHolographicStoreReconstructMissingBase(t *testing.T) {
	t.Parallel()

	h := NewHolographicStore()
	if _, ok := h.Reconstruct("nope"); ok {
		t.Error("Reconstruct on a missing base reported ok=true")
	}
}

func TestPairKeyOrderIndependent(t *testing.T) {
	t.Parallel()

	k := defaultHoloKeys()
	if k.pairKey(2, 3) != k.pairKey(3, 2) {
		t.Error("pairKey is not order-independent")
	}
	if k.pairKey(2, 3) == k.pairKey(2, 5) {
		t.Error("distinct pairs collided")
	}
}
