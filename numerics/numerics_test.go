// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package numerics

import (
	"encoding/hex"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestSHA256Vectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"empty", []byte{}, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"abc", []byte("abc"), "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{"quick-fox", []byte("The quick brown fox jumps over the lazy dog"), "d7a8fbb307d7809469ca9abcb0082e4f8d5651e46d3cdb762d02d0bf37c9e592"},
	}

	for _, test := range tests {
		got := SHA256(test.in)
		gotHex := hex.EncodeToString(got[:])
		if gotHex != test.want {
			t.Errorf("%s: SHA256 mismatch\ngot:  %s\nwant: %s\ndump: %s",
				test.name, gotHex, test.want, spew.Sdump(got))
		}
	}
}

func TestModExpVectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base, exp, mod, want uint64
	}{
		{2, 10, 1000, 24},
		{7, 560, 561, 1}, // 561 is a Carmichael number
	}

	for _, test := range tests {
		got := ModExp(test.base, test.exp, test.mod)
		if got != test.want {
			t.Errorf("ModExp(%d, %d, %d) = %d, want %d", test.base, test.exp, test.mod, got, test.want)
		}
		gotOpt := ModExpOpt(test.base, test.exp, test.mod)
		if gotOpt != test.want {
			t.Errorf("ModExpOpt(%d, %d, %d) = %d, want %d", test.base, test.exp, test.mod, gotOpt, test.want)
		}
	}
}

func TestIsPrimeSmallRange(t *testing.T) {
	t.Parallel()

	// is_prime(2..47) per §8.
	want := map[uint64]bool{
		2: true, 3: true, 4: false, 5: true, 6: false, 7: true, 8: false,
		9: false, 10: false, 11: true, 12: false, 13: true, 14: false,
		15: false, 16: false, 17: true, 18: false, 19: true, 20: false,
		21: false, 22: false, 23: true, 24: false, 25: false, 26: false,
		27: false, 28: false, 29: true, 30: false, 31: true, 32: false,
		33: false, 34: false, 35: false, 36: false, 37: true, 38: false,
		39: false, 40: false, 41: true, 42: false, 43: true, 44: false,
		45: false, 46: false, 47: true,
	}

	ctx := NewContext(DefaultSeed)
	for n := uint64(2); n <= 47; n++ {
		if got := ctx.IsPrime(n); got != want[n] {
			t.Errorf("IsPrime(%d) = %v, want %v", n, got, want[n])
		}
	}
}

func TestModInverseRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct{ a, m uint64 }{
		{3, 11}, {7, 13}, {17, 3120}, {1, 97},
	}
	for _, test := range tests {
		inv := ModInverse(test.a, test.m)
		if inv == 0 {
			t.Fatalf("ModInverse(%d, %d) unexpectedly reported no inverse", test.a, test.m)
		}
		if (test.a*inv)%test.m != 1 {
			t.Errorf("ModInverse(%d, %d) = %d, does not satisfy a*inv mod m = 1", test.a, test.m, inv)
		}
	}
}

func TestModInverseNoSolution(t *testing.T) {
	t.Parallel()

	// gcd(4, 8) = 4 != 1: no inverse exists.
	if got := ModInverse(4, 8); got != 0 {
		t.Errorf("ModInverse(4, 8) = %d, want 0 (sentinel for no inverse)", got)
	}
}

func TestMontgomeryMatchesModExp(t *testing.T) {
	t.Parallel()

	tests := []struct{ base, exp, mod uint64 }{
		{5, 117, 97}, {2, 1000, 1000003}, {123, 45, 9973},
	}
	for _, test := range tests {
		want := ModExp(test.base, test.exp, test.mod)
		got := ModExpOpt(test.base, test.exp, test.mod)
		if got != want {
			t.Errorf("ModExpOpt(%d,%d,%d) = %d, want %d (plain ModExp)",
				test.base, test.exp, test.mod, got, want)
		}
	}
}

func TestSieveMatchesTrialDivision(t *testing.T) {
	t.Parallel()

	primes := Sieve(100)
	ctx := NewContext(DefaultSeed)
	set := make(map[uint64]bool, len(primes))
	for _, p := range primes {
		set[p] = true
	}
	for n := uint64(2); n <= 100; n++ {
		if got, want := ctx.IsPrime(n), set[n]; got != want {
			t.Errorf("sieve/IsPrime disagree at %d: sieve=%v IsPrime=%v", n, want, got)
		}
	}
}

func TestDeterministicPRNGSequence(t *testing.T) {
	t.Parallel()

	a := NewContext(DefaultSeed)
	b := NewContext(DefaultSeed)
	for i := 0; i < 8; i++ {
		av, bv := a.Next(), b.Next()
		if av != bv {
			t.Fatalf("LCG sequences diverged at draw %d: %d != %d", i, av, bv)
		}
	}
}

func TestPBKDF2Length(t *testing.T) {
	t.Parallel()

	out := PBKDF2([]byte("password"), []byte("salt"), 10, 40)
	if len(out) != 40 {
		t.Errorf("PBKDF2 output length = %d, want 40", len(out))
	}
	if len(PBKDF2([]byte("p"), []byte("s"), 0, 10)) != 0 {
		t.Error("PBKDF2 with iterations=0 should return nil")
	}
}
