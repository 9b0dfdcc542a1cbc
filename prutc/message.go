// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package prutc

import (
	"math"

	"github.com/sschepis/prime-resonance-network/numerics"
)

// mappingPrimeCount is the size of the PrimeMapping basis (§4.5).
const mappingPrimeCount = 1024

// PrimeMapping assigns each byte value to three target primes, built
// once per session from the first 1024 primes.
type PrimeMapping struct {
	primes []uint64
}

// NewPrimeMapping builds a PrimeMapping over the first 1024 primes.
func NewPrimeMapping() *PrimeMapping {
	return &PrimeMapping{primes: numerics.GeneratePrimes(mappingPrimeCount)}
}

// PrimesFor returns the three primes byte value b maps to: the primes at
// indices (3b, 3b+1, 3b+2) mod 1024.
func (pm *PrimeMapping) PrimesFor(b byte) [3]uint64 {
	base := 3 * int(b)
	var out [3]uint64
	for m := 0; m < 3; m++ {
		out[m] = pm.primes[(base+m)%mappingPrimeCount]
	}
	return out
}

// MessagePerturbation is a set of target primes and their per-prime unit
// magnitude modulation, built from an outbound message string (§3).
type MessagePerturbation struct {
	Targets    []uint64
	Modulation map[uint64]complex128
	Source     string
}

// EncodeMessage builds a MessagePerturbation from a plaintext message:
// for each byte b[k] of length L, for each of its three mapped primes
// p_m (slot m = 0,1,2), the target set gains p_m with modulation phase
// theta = (b/255)*2*pi + (m/L)*pi and unit magnitude.
func (pm *PrimeMapping) EncodeMessage(message string) *MessagePerturbation {
	data := []byte(message)
	L := float64(len(data))
	if L == 0 {
		L = 1
	}

	modulation := make(map[uint64]complex128)
	var targets []uint64
	seen := make(map[uint64]bool)

	for _, b := range data {
		primes := pm.PrimesFor(b)
		for m, p := range primes {
			theta := (float64(b)/255.0)*2*math.Pi + (float64(m)/L)*math.Pi
			modulation[p] = complex(math.Cos(theta), math.Sin(theta))
			if !seen[p] {
				seen[p] = true
				targets = append(targets, p)
			}
		}
	}

	return &MessagePerturbation{Targets: targets, Modulation: modulation, Source: message}
}
