// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package primestate implements the PrimeState value type: an ordered
// sequence of distinct primes paired with complex amplitudes, and the
// handful of pure operations (Normalize, Entropy, Clone, CoefficientOf)
// defined over it in §4.2.
//
// The builder/immutable-value shape here is grounded on gcs.Filter
// (github.com/EXCCoin/exccd/gcs): a value type built once via a
// constructor that validates its inputs and returns sentinel errors for
// malformed construction, exactly as gcs.NewFilter returns
// (*Filter, error) guarded by ErrNoData/ErrNTooBig/ErrPTooBig.
package primestate

import (
	"errors"
	"math"
	"math/cmplx"
)

// Sentinel construction errors, in the same vein as gcs.ErrNoData /
// gcs.ErrNTooBig.
var (
	// ErrLengthMismatch signals that the primes and coefficients slices
	// passed to New have different lengths.
	ErrLengthMismatch = errors.New("primestate: primes and coefficients length mismatch")

	// ErrDuplicatePrime signals that the same prime appears more than once
	// in the basis.
	ErrDuplicatePrime = errors.New("primestate: duplicate prime in basis")
)

// PrimeState is an ordered sequence of distinct primes (the basis) paired
// with a parallel sequence of complex amplitudes.
type PrimeState struct {
	primes []uint64
	coeffs []complex128
	index  map[uint64]int
}

// New builds a PrimeState from parallel primes/coeffs slices. The slices
// are copied; the returned PrimeState owns its own storage.
func New(primes []uint64, coeffs []complex128) (*PrimeState, error) {
	if len(primes) != len(coeffs) {
		return nil, ErrLengthMismatch
	}

	index := make(map[uint64]int, len(primes))
	for i, p := range primes {
		if _, exists := index[p]; exists {
			return nil, ErrDuplicatePrime
		}
		index[p] = i
	}

	ps := &PrimeState{
		primes: append([]uint64(nil), primes...),
		coeffs: append([]complex128(nil), coeffs...),
		index:  index,
	}
	return ps, nil
}

// Len returns the number of primes in the basis.
func (ps *PrimeState) Len() int {
	return len(ps.primes)
}

// Primes returns a copy of the basis primes, in basis order.
func (ps *PrimeState) Primes() []uint64 {
	out := make([]uint64, len(ps.primes))
	copy(out, ps.primes)
	return out
}

// Coefficients returns a copy of the amplitudes, in basis order.
func (ps *PrimeState) Coefficients() []complex128 {
	out := make([]complex128, len(ps.coeffs))
	copy(out, ps.coeffs)
	return out
}

// PrimeAt returns the prime at basis index i.
func (ps *PrimeState) PrimeAt(i int) uint64 {
	return ps.primes[i]
}

// CoefficientAt returns the amplitude at basis index i.
func (ps *PrimeState) CoefficientAt(i int) complex128 {
	return ps.coeffs[i]
}

// SetCoefficientAt overwrites the amplitude at basis index i.
func (ps *PrimeState) SetCoefficientAt(i int, v complex128) {
	ps.coeffs[i] = v
}

// CoefficientOf returns the coefficient for prime p, or 0 if p is not in
// the basis.
func (ps *PrimeState) CoefficientOf(p uint64) complex128 {
	if i, ok := ps.index[p]; ok {
		return ps.coeffs[i]
	}
	return 0
}

// Clone returns a deep copy of ps.
func (ps *PrimeState) Clone() *PrimeState {
	index := make(map[uint64]int, len(ps.index))
	for k, v := range ps.index {
		index[k] = v
	}
	return &PrimeState{
		primes: append([]uint64(nil), ps.primes...),
		coeffs: append([]complex128(nil), ps.coeffs...),
		index:  index,
	}
}

// Normalize divides every coefficient by sqrt(sum |c_i|^2). It is a no-op
// when the norm is zero (all coefficients are zero).
func (ps *PrimeState) Normalize() {
	var sumSq float64
	for _, c := range ps.coeffs {
		m := cmplx.Abs(c)
		sumSq += m * m
	}
	if sumSq == 0 {
		return
	}
	norm := math.Sqrt(sumSq)
	for i, c := range ps.coeffs {
		ps.coeffs[i] = c / complex(norm, 0)
	}
}

// NormSquared returns sum |c_i|^2, the quantity Normalize drives to 1.
func (ps *PrimeState) NormSquared() float64 {
	var sumSq float64
	for _, c := range ps.coeffs {
		m := cmplx.Abs(c)
		sumSq += m * m
	}
	return sumSq
}

// Entropy returns the Shannon entropy (in bits) of the probability vector
// p_i = |c_i|^2, normalized to [0,1] by dividing by log2(n). Returns 0
// for a basis of size <= 1 (log2(1) = 0, which would divide by zero).
func (ps *PrimeState) Entropy() float64 {
	n := len(ps.coeffs)
	if n <= 1 {
		return 0
	}

	var probs []float64
	var sum float64
	for _, c := range ps.coeffs {
		m := cmplx.Abs(c)
		p := m * m
		probs = append(probs, p)
		sum += p
	}
	if sum == 0 {
		return 0
	}

	var h float64
	for _, p := range probs {
		pn := p / sum
		if pn <= 0 {
			continue
		}
		h -= pn * math.Log2(pn)
	}
	return h / math.Log2(float64(n))
}
