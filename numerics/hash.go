// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package numerics

import (
	"crypto/hmac"
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

// SHA256 returns the 32-byte FIPS 180-4 digest of msg. This wraps the
// standard library's crypto/sha256 rather than reimplementing the
// compression function: every chainhash-style package in the decred/
// btcsuite lineage this module is grounded on does exactly the same —
// SHA-256 is consumed through crypto/sha256, never hand-rolled.
func SHA256(msg []byte) [32]byte {
	return sha256.Sum256(msg)
}

// HMACSHA256 returns the RFC 2104 HMAC-SHA256 of msg under key. Keys
// longer than the block size are hashed first and short keys are
// zero-padded internally by crypto/hmac, exactly per RFC 2104.
func HMACSHA256(key, msg []byte) [32]byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(msg)
	var out [32]byte
	copy(out[:], mac.Sum(nil))
	return out
}

// PBKDF2 derives dkLen bytes from password and salt using HMAC-SHA256 as
// the PRF, per RFC 2898. It fails only on malformed requests: dkLen <= 0
// or iterations <= 0 return an empty slice.
func PBKDF2(password, salt []byte, iterations, dkLen int) []byte {
	if dkLen <= 0 || iterations <= 0 {
		return nil
	}
	return pbkdf2.Key(password, salt, iterations, dkLen, sha256.New)
}
