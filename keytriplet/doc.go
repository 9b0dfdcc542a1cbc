// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package keytriplet implements identity key generation and evolution for
// the prime resonance network (§4.3): a private PrimeState derived from a
// seed and user ID, a classical hash-derived public key with no phase
// information, and a symbolically-projected, attenuated "resonance" key.
//
// Generation and evolution are grounded on the extended-key idiom of
// hdkeychain (deterministic derivation from a seed, a fixed-width public
// encoding, and an explicit "evolve" style mutation analogous to child
// key derivation), adapted from address/wallet semantics to prime-basis
// amplitude vectors.
package keytriplet
