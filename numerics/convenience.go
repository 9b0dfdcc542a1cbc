// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package numerics

import "math/big"

// IsPrime reports whether n is prime using the package's Default context
// (and its shared cache). Call (*Context).IsPrime directly to avoid
// sharing cache state across callers.
func IsPrime(n uint64) bool {
	return Default().IsPrime(n)
}

// GeneratePrime samples a prime in the Default context using the shared
// PRNG state. Call (*Context).GeneratePrime directly for isolated,
// reproducible sampling.
func GeneratePrime(minBits, maxBits int) *big.Int {
	return Default().GeneratePrime(minBits, maxBits)
}
