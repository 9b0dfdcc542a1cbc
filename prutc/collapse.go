// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package prutc

import (
	"fmt"
	"math/cmplx"
	"sort"

	"github.com/sschepis/prime-resonance-network/numerics"
	"github.com/sschepis/prime-resonance-network/primestate"
)

// Collapse-window bounds (§4.5/glossary).
const (
	collapseEntropyLow  = 0.2
	collapseEntropyHigh = 0.3
	collapseMagnitude   = 0.1
	postCollapseDamp    = 0.5
	postCollapseNoise   = 0.01
)

// DecodedPayload is the observable result of one collapse window. Per
// SPEC_FULL.md Open Question 1, Summary is a formatted description, not
// an attempted lossless inverse of MessagePerturbation's encoding — the
// spec explicitly documents the original's own decode step as a
// placeholder and asks implementations not to guess one.
type DecodedPayload struct {
	Primes     []uint64
	Magnitudes []float64
	Summary    string
}

// TryCollapse checks whether psi's symbolic entropy falls in the
// collapse window [0.2, 0.3]; if so it decodes a payload (primes whose
// magnitude exceeds 0.1, sorted by magnitude descending), attenuates and
// re-randomizes psi in place, and returns the payload. Returns nil, false
// outside the collapse window.
func TryCollapse(psi *primestate.PrimeState, rng *numerics.Context) (*DecodedPayload, bool) {
	s := SymbolicEntropy(psi)
	if s < collapseEntropyLow || s > collapseEntropyHigh {
		return nil, false
	}

	type primeMag struct {
		prime uint64
		mag   float64
	}
	var candidates []primeMag
	for i := 0; i < psi.Len(); i++ {
		mag := cmplx.Abs(psi.CoefficientAt(i))
		if mag > collapseMagnitude {
			candidates = append(candidates, primeMag{psi.PrimeAt(i), mag})
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].mag > candidates[j].mag })

	primes := make([]uint64, len(candidates))
	mags := make([]float64, len(candidates))
	for i, c := range candidates {
		primes[i] = c.prime
		mags[i] = c.mag
	}

	summary := "collapse: no primes above threshold"
	if len(candidates) > 0 {
		summary = fmt.Sprintf("collapse: %d primes, top=%d@%.4f", len(candidates), candidates[0].prime, candidates[0].mag)
	}

	postCollapseReset(psi, rng)

	return &DecodedPayload{Primes: primes, Magnitudes: mags, Summary: summary}, true
}

// postCollapseReset attenuates every coefficient to half its value, adds
// a small random complex perturbation of magnitude <= 0.01, and
// normalizes — the field's post-extraction reset (§4.5).
func postCollapseReset(psi *primestate.PrimeState, rng *numerics.Context) {
	for i := 0; i < psi.Len(); i++ {
		c := psi.CoefficientAt(i) * complex(postCollapseDamp, 0)
		noiseMag := rng.Random() * postCollapseNoise
		noisePhase := rng.Random() * 2 * 3.141592653589793
		noise := cmplx.Rect(noiseMag, noisePhase)
		psi.SetCoefficientAt(i, c+noise)
	}
	psi.Normalize()
}
