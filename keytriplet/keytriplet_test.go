// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keytriplet

import (
	"math"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestGenerateDeterministicClassicalKey(t *testing.T) {
	t.Parallel()

	a := Generate("S", "alice")
	b := Generate("S", "alice")
	if a.ClassicalPublicKey != b.ClassicalPublicKey {
		t.Errorf("classical public key not deterministic for same (seed,id):\na: %s\nb: %s\ndump a: %s",
			a.ClassicalPublicKey, b.ClassicalPublicKey, spew.Sdump(a))
	}
}

func TestGenerateDistinctIdentitiesDiffer(t *testing.T) {
	t.Parallel()

	a := Generate("S", "alice")
	b := Generate("S", "bob")
	if a.ClassicalPublicKey == b.ClassicalPublicKey {
		t.Error("alice and bob produced the same classical public key")
	}
}

func TestPrivateKeyNormalized(t *testing.T) {
	t.Parallel()

	kt := Generate("seed", "user")
	norm := kt.Private.NormSquared()
	if math.Abs(norm-1) >= 1e-9 {
		t.Errorf("private key sum|c|^2 = %v, want within 1e-9 of 1", norm)
	}
}

func TestResonanceBasisSubsetOfPrivate(t *testing.T) {
	t.Parallel()

	kt := Generate("seed", "user")
	privateSet := make(map[uint64]bool)
	for _, p := range kt.Private.Primes() {
		privateSet[p] = true
	}
	for _, p := range kt.Resonance.Primes() {
		if !privateSet[p] {
			t.Errorf("resonance basis contains prime %d not present in private basis", p)
		}
	}
}

func TestEvolvePreservesNormalization(t *testing.T) {
	t.Parallel()

	kt := Generate("seed", "user")
	kt.Evolve(0.5)

	norm := kt.Private.NormSquared()
	if math.Abs(norm-1) >= 1e-3 {
		t.Errorf("after Evolve, private key sum|c|^2 = %v, want within 1e-3 of 1", norm)
	}
}

func TestEvolveChangesResonanceKey(t *testing.T) {
	t.Parallel()

	kt := Generate("seed", "user")
	before := kt.Resonance.Coefficients()
	kt.Evolve(1.0)
	after := kt.Resonance.Coefficients()

	identical := true
	if len(before) != len(after) {
		identical = false
	} else {
		for i := range before {
			if before[i] != after[i] {
				identical = false
				break
			}
		}
	}
	if identical {
		t.Error("Evolve left the resonance key bit-for-bit identical")
	}
}
