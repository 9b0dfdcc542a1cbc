// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package primestate

import (
	"math/cmplx"
	"sort"
)

// UnionPrimes returns the sorted union (deduplicated) of two prime
// slices, used to build the basis of a shared resonance field from two
// keytriplets' resonance projections (§4.4).
func UnionPrimes(a, b []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(a)+len(b))
	for _, p := range a {
		seen[p] = struct{}{}
	}
	for _, p := range b {
		seen[p] = struct{}{}
	}
	out := make([]uint64, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Magnitudes returns |c_i| for every coefficient, in basis order — the
// exact input to the classical public key hash of §4.3/§6.
func (ps *PrimeState) Magnitudes() []float64 {
	out := make([]float64, len(ps.coeffs))
	for i, c := range ps.coeffs {
		out[i] = cmplx.Abs(c)
	}
	return out
}
