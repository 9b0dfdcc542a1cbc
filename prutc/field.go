// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package prutc

import (
	"math"

	"github.com/sschepis/prime-resonance-network/primestate"
)

// fieldSigma is sigma in the Gaussian resonance kernel of §4.4.
const fieldSigma = 5.0

// InitializeField builds the shared session field Psi from two
// identities' resonance keys (§4.4): the basis is the sorted union of
// their primes, and each coefficient is a Gaussian-kernel-weighted sum
// over every prime pair (p, q) drawn from that union.
func InitializeField(resA, resB *primestate.PrimeState) *primestate.PrimeState {
	union := primestate.UnionPrimes(resA.Primes(), resB.Primes())

	coeffs := make([]complex128, len(union))
	for i, p := range union {
		var sum complex128
		for _, q := range union {
			weight := gaussianKernel(p, q)
			sum += resA.CoefficientOf(q) * resB.CoefficientOf(q) * complex(weight, 0)
		}
		coeffs[i] = sum
	}

	field, err := primestate.New(union, coeffs)
	if err != nil {
		panic("prutc: unreachable field construction failure: " + err.Error())
	}
	field.Normalize()
	return field
}

// gaussianKernel is exp(-(p-q)^2 / (2*sigma^2)).
func gaussianKernel(p, q uint64) float64 {
	diff := float64(p) - float64(q)
	return math.Exp(-(diff * diff) / (2 * fieldSigma * fieldSigma))
}
