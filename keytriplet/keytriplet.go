// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keytriplet

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"math/cmplx"
	"strconv"
	"strings"

	"github.com/sschepis/prime-resonance-network/numerics"
	"github.com/sschepis/prime-resonance-network/primestate"
)

// privateBasisSize is the number of primes backing a private key (§4.3
// step 2: "the first 256 primes").
const privateBasisSize = 256

// euler is kappa in the evolution formula of §4.3.
const euler = 2.718

// privateBasis is computed once and shared (read-only) across every
// Keytriplet, matching the teacher's package-level precomputed-constant
// idiom (e.g. blockchain's bigZero).
var privateBasis = numerics.GeneratePrimes(privateBasisSize)

// Keytriplet is the triple (private key, classical public key, resonance
// key) bound to one identity, per §3/§4.3.
type Keytriplet struct {
	Private            *primestate.PrimeState
	ClassicalPublicKey string
	Resonance          *primestate.PrimeState

	rng *numerics.Context
}

// Generate derives a Keytriplet deterministically from (globalSeed,
// userID): the private key and classical public key are fully
// deterministic; the resonance projection additionally consumes an
// identity-derived PRNG stream for its random phase shifts (§4.3 step 4),
// kept separate per Keytriplet so concurrent identities never race on
// shared PRNG state (§5).
func Generate(globalSeed, userID string) *Keytriplet {
	h := primeEntropyHash(globalSeed, userID)

	private := derivePrivateState(h)
	private.Normalize()

	classicalKey := classicalPublicKey(private)

	rngSeed := binary.BigEndian.Uint64(h[:8])
	rng := numerics.NewContext(rngSeed)

	resonance := project(private, rng)

	return &Keytriplet{
		Private:            private,
		ClassicalPublicKey: classicalKey,
		Resonance:          resonance,
		rng:                rng,
	}
}

// derivePrivateState builds the private PrimeState: for each of the
// first 256 primes at index i, two signed amplitudes in [-1,1] are
// derived from two consecutive big-endian byte pairs of h, wrapping
// around h's 32 bytes as i grows.
func derivePrivateState(h [32]byte) *primestate.PrimeState {
	coeffs := make([]complex128, privateBasisSize)
	for i := 0; i < privateBasisSize; i++ {
		off := (4 * i) % 32
		p1 := binary.BigEndian.Uint16([]byte{h[off], h[(off+1)%32]})
		p2 := binary.BigEndian.Uint16([]byte{h[(off+2)%32], h[(off+3)%32]})
		coeffs[i] = complex(signedFraction(p1), signedFraction(p2))
	}

	ps, err := primestate.New(privateBasis, coeffs)
	if err != nil {
		// privateBasis is fixed-size and prime-unique by construction;
		// coeffs always matches its length, so New cannot fail here.
		panic("keytriplet: unreachable primestate construction failure: " + err.Error())
	}
	return ps
}

// signedFraction maps a uint16 to a signed fraction in [-1, 1).
func signedFraction(u uint16) float64 {
	return float64(int16(u)) / 32768.0
}

// classicalPublicKey is hex(sha256(join(",", magnitudes))), magnitudes
// being |c_i| of the private key in basis order, formatted with Go's
// shortest-round-trip decimal form (see SPEC_FULL.md Open Question 2).
func classicalPublicKey(private *primestate.PrimeState) string {
	mags := private.Magnitudes()
	parts := make([]string, len(mags))
	for i, m := range mags {
		parts[i] = strconv.FormatFloat(m, 'g', -1, 64)
	}
	joined := strings.Join(parts, ",")
	digest := numerics.SHA256([]byte(joined))
	return hex.EncodeToString(digest[:])
}

// project implements the symbolic projection P of §4.3 step 4: select an
// allowed prime subset, attenuate and phase-shift each allowed
// coefficient, zero the rest, and normalize.
func project(private *primestate.PrimeState, rng *numerics.Context) *primestate.PrimeState {
	n := private.Len()
	allowed := selectAllowed(n, rng)

	coeffs := make([]complex128, n)
	for i := 0; i < n; i++ {
		if !allowed[i] {
			continue
		}
		c := private.CoefficientAt(i)
		mag := cmplx.Abs(c)
		phase := cmplx.Phase(c)

		p := private.PrimeAt(i)
		attenuation := 0.7 * math.Exp(-math.Log(float64(p))/10)
		thetaP := rng.Random() * 2 * math.Pi

		newMag := mag * attenuation
		newPhase := phase + thetaP
		coeffs[i] = cmplx.Rect(newMag, newPhase)
	}

	resonance, err := primestate.New(private.Primes(), coeffs)
	if err != nil {
		panic("keytriplet: unreachable projection construction failure: " + err.Error())
	}
	resonance.Normalize()
	return resonance
}

// selectAllowed picks the allowed-prime subset: index i is included with
// probability 0.6*exp(-i/(0.3*n)); if fewer than 30% end up selected,
// top up from the smallest indices until 30% is reached.
func selectAllowed(n int, rng *numerics.Context) []bool {
	allowed := make([]bool, n)
	count := 0
	for i := 0; i < n; i++ {
		prob := 0.6 * math.Exp(-float64(i)/(0.3*float64(n)))
		if rng.Random() < prob {
			allowed[i] = true
			count++
		}
	}

	minCount := int(math.Ceil(0.3 * float64(n)))
	for i := 0; count < minCount && i < n; i++ {
		if !allowed[i] {
			allowed[i] = true
			count++
		}
	}
	return allowed
}
