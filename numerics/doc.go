// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package numerics implements the deterministic arithmetic primitives that
// every other layer of the prime resonance network is built on: a
// FIPS 180-4 SHA-256 / RFC 2104 HMAC-SHA256 / RFC 2898 PBKDF2 hash codec,
// modular exponentiation (binary and Montgomery), the extended Euclidean
// algorithm, deterministic Miller-Rabin primality testing, prime
// sieving/generation, and a 64-bit LCG pseudo-random generator.
//
// All functions are pure given an explicit *Context; the package-level
// Default context plus ResetAll exist only for convenience call sites and
// tests, per the documented "prefer explicit context objects" discipline.
package numerics
