// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package numerics

import "math/big"

// witnesses32 is the deterministic Miller-Rabin witness set valid for all
// n < 2^32.
var witnesses32 = []uint64{2, 7, 61}

// witnesses64 is the deterministic Miller-Rabin witness set valid for all
// 64-bit n.
var witnesses64 = []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37}

// trialDivisionPrimes are the first ~50 primes, checked by trial division
// before falling back to Miller-Rabin.
var trialDivisionPrimes = firstNPrimes(50)

func firstNPrimes(n int) []uint64 {
	out := make([]uint64, 0, n)
	for candidate := uint64(2); len(out) < n; candidate++ {
		isP := true
		for _, p := range out {
			if p*p > candidate {
				break
			}
			if candidate%p == 0 {
				isP = false
				break
			}
		}
		if isP {
			out = append(out, candidate)
		}
	}
	return out
}

// MillerRabinDet32 runs deterministic Miller-Rabin with witnesses
// {2, 7, 61}, valid for all n < 2^32.
func MillerRabinDet32(n uint64) bool {
	return millerRabin(n, witnesses32)
}

// MillerRabinDet64 runs deterministic Miller-Rabin with the 12-witness set
// valid for all 64-bit n.
func MillerRabinDet64(n uint64) bool {
	return millerRabin(n, witnesses64)
}

// millerRabin implements the core test: write n-1 = 2^r * d with d odd;
// for each witness a < n compute x = a^d mod n; accept the witness if
// x == 1 or x == n-1, otherwise square up to r-1 times looking for n-1.
func millerRabin(n uint64, witnesses []uint64) bool {
	if n < 2 {
		return false
	}
	if n == 2 || n == 3 {
		return true
	}
	if n%2 == 0 {
		return false
	}

	d := n - 1
	r := 0
	for d%2 == 0 {
		d /= 2
		r++
	}

	nBig := new(big.Int).SetUint64(n)
	dBig := new(big.Int).SetUint64(d)
	nMinus1 := n - 1

	for _, a := range witnesses {
		if a%n == 0 {
			continue
		}
		x := new(big.Int).Exp(new(big.Int).SetUint64(a), dBig, nBig)
		if x.Uint64() == 1 || x.Uint64() == nMinus1 {
			continue
		}

		composite := true
		for i := 0; i < r-1; i++ {
			x.Mul(x, x)
			x.Mod(x, nBig)
			if x.Uint64() == nMinus1 {
				composite = false
				break
			}
		}
		if composite {
			return false
		}
	}
	return true
}

// IsPrime reports whether n is prime, consulting ctx's prime cache first,
// then trial division by the first ~50 primes, then deterministic
// Miller-Rabin (the 32-bit witness set for n < 2^32, the 64-bit set
// otherwise).
func (ctx *Context) IsPrime(n uint64) bool {
	if cached, ok := ctx.cacheLookup(n); ok {
		return cached
	}

	result := isPrimeUncached(n)
	ctx.cacheStore(n, result)
	return result
}

func isPrimeUncached(n uint64) bool {
	if n < 2 {
		return false
	}
	for _, p := range trialDivisionPrimes {
		if n == p {
			return true
		}
		if n%p == 0 {
			return false
		}
		if p*p > n {
			return true
		}
	}
	if n <= 1<<32-1 {
		return MillerRabinDet32(n)
	}
	return MillerRabinDet64(n)
}

// Sieve returns every prime <= n using the standard Sieve of Eratosthenes.
func Sieve(n uint64) []uint64 {
	if n < 2 {
		return nil
	}
	composite := make([]bool, n+1)
	var primes []uint64
	for i := uint64(2); i <= n; i++ {
		if composite[i] {
			continue
		}
		primes = append(primes, i)
		for j := i * i; j <= n && j >= i; j += i {
			composite[j] = true
		}
	}
	return primes
}

// GeneratePrimes returns the first count primes, computed via a growing
// sieve.
func GeneratePrimes(count int) []uint64 {
	if count <= 0 {
		return nil
	}
	// Prime number theorem based estimate of the n-th prime's upper bound,
	// with a small floor for tiny counts, then grow if the estimate falls
	// short.
	estimate := uint64(16)
	if count > 6 {
		f := float64(count)
		estimate = uint64(f*(mathLog(f)+mathLog(mathLog(f)))) + 10
	}
	for {
		primes := Sieve(estimate)
		if len(primes) >= count {
			return primes[:count]
		}
		estimate *= 2
	}
}

// GeneratePrime samples odd candidates in [2^(minBits-1), 2^maxBits - 1]
// using ctx's LCG PRNG and returns the first one that tests prime.
func (ctx *Context) GeneratePrime(minBits, maxBits int) *big.Int {
	if minBits < 2 {
		minBits = 2
	}
	if maxBits < minBits {
		maxBits = minBits
	}

	low := new(big.Int).Lsh(bigOne, uint(minBits-1))
	high := new(big.Int).Lsh(bigOne, uint(maxBits))
	high.Sub(high, bigOne)
	span := new(big.Int).Sub(high, low)
	span.Add(span, bigOne)

	for {
		candidate := ctx.randomBigInRange(span)
		candidate.Add(candidate, low)
		candidate.SetBit(candidate, 0, 1) // force odd
		if candidate.IsUint64() && isPrimeUncached(candidate.Uint64()) {
			return candidate
		}
		if !candidate.IsUint64() && candidate.ProbablyPrime(32) {
			return candidate
		}
	}
}
