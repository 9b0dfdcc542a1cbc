// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package prutc

import (
	"math"
	"math/cmplx"

	"github.com/sschepis/prime-resonance-network/primestate"
)

// Resonance collapse constants (§4.5 step 2).
const (
	collapseLambda  = 0.1
	collapseRStable = 0.25
)

// EvolveField applies one evolution step to psi in place: Hamiltonian
// drift, resonance collapse damping, an optional message perturbation,
// then normalization (§4.5).
func EvolveField(psi *primestate.PrimeState, dt float64, perturbation *MessagePerturbation) {
	hamiltonianDrift(psi, dt)
	resonanceCollapseDamp(psi, dt)
	if perturbation != nil {
		applyPerturbation(psi, perturbation)
	}
	psi.Normalize()
}

// hamiltonianDrift multiplies each coefficient by exp(i*ln(p)*dt).
func hamiltonianDrift(psi *primestate.PrimeState, dt float64) {
	for i := 0; i < psi.Len(); i++ {
		p := psi.PrimeAt(i)
		angle := math.Log(float64(p)) * dt
		psi.SetCoefficientAt(i, psi.CoefficientAt(i)*complex(math.Cos(angle), math.Sin(angle)))
	}
}

// Resonance computes R(Psi): the mean magnitude of conjugate-inner
// products between every distinct pair of prime components.
func Resonance(psi *primestate.PrimeState) float64 {
	n := psi.Len()
	if n < 2 {
		return 0
	}
	var sum float64
	var pairs int
	for i := 0; i < n; i++ {
		ci := psi.CoefficientAt(i)
		for j := i + 1; j < n; j++ {
			cj := psi.CoefficientAt(j)
			sum += cmplx.Abs(cmplx.Conj(ci) * cj)
			pairs++
		}
	}
	if pairs == 0 {
		return 0
	}
	return sum / float64(pairs)
}

func resonanceCollapseDamp(psi *primestate.PrimeState, dt float64) {
	r := Resonance(psi)
	damp := math.Exp(-collapseLambda * (r - collapseRStable) * dt)
	for i := 0; i < psi.Len(); i++ {
		psi.SetCoefficientAt(i, psi.CoefficientAt(i)*complex(damp, 0))
	}
}

func applyPerturbation(psi *primestate.PrimeState, pert *MessagePerturbation) {
	for _, p := range pert.Targets {
		mod, ok := pert.Modulation[p]
		if !ok {
			continue
		}
		// Only primes already present in the field basis can be
		// perturbed; primes outside the shared basis are silently
		// skipped (they carry no amplitude to modulate).
		idx := indexOfPrime(psi, p)
		if idx < 0 {
			continue
		}
		psi.SetCoefficientAt(idx, psi.CoefficientAt(idx)*mod)
	}
}

func indexOfPrime(psi *primestate.PrimeState, p uint64) int {
	for i, q := range psi.Primes() {
		if q == p {
			return i
		}
	}
	return -1
}

// SymbolicEntropy is an alias kept for readability at call sites; it is
// exactly primestate.PrimeState.Entropy (§4.5's S(Psi)).
func SymbolicEntropy(psi *primestate.PrimeState) float64 {
	return psi.Entropy()
}
