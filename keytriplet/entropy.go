// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keytriplet

import (
	"github.com/sschepis/prime-resonance-network/numerics"
)

// first16Primes are the mixing primes used by the prime-entropy hash
// (§4.3 step 1).
var first16Primes = numerics.GeneratePrimes(16)

// primeEntropyHash produces the 32-byte seed material H used to derive a
// private key: start from SHA-256 of globalSeed || "||" || userID, then
// apply three mixing rounds. Each round, for every byte position i and
// every prime p in the first 16 primes, XORs H[(i*p) mod len] and
// multiplies that byte by p mod 256.
func primeEntropyHash(globalSeed, userID string) [32]byte {
	material := []byte(globalSeed + "||" + userID)
	h := numerics.SHA256(material)

	buf := h[:]
	n := len(buf)
	for round := 0; round < 3; round++ {
		for i := 0; i < n; i++ {
			for _, p := range first16Primes {
				j := (i * int(p)) % n
				buf[j] ^= buf[i]
				buf[j] = byte((uint32(buf[j]) * uint32(p)) % 256)
			}
		}
	}

	var out [32]byte
	copy(out[:], buf)
	return out
}
