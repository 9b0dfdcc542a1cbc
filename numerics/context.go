// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package numerics

import (
	"math"
	"math/big"
	"sync"
)

// DefaultSeed is the LCG seed used when a Context is constructed without
// an explicit seed, matching §6's documented interface contract.
const DefaultSeed uint64 = 0x123456789ABCDEF0

// LCG multiplier/increment constants, fixed by §4.1/§6. The PRNG is
// explicitly non-cryptographic and deterministic given its seed.
const (
	lcgMultiplier = 6364136223846793005
	lcgIncrement  = 1442695040888963407
)

// Context holds the process-wide-by-convention mutable numerics state:
// the prime cache, the LCG generator state, and simple performance
// counters. Per §9 ("prefer explicit Numerics context objects... if a
// singleton is unavoidable, document it and provide a reset_all"),
// callers are expected to carry their own *Context; Default and
// ResetAll below exist only for convenience call sites and tests.
//
// This mirrors the teacher's "function MUST be called with the chain
// state lock held" discipline (blockchain/difficulty.go) by guarding the
// cache with an explicit mutex rather than leaving it racy.
type Context struct {
	mu         sync.Mutex
	primeCache map[uint64]bool
	sortedKnow []uint64
	lcgState   uint64

	// Trace holds simple operation counters that callers may read for
	// metrics purposes; see §5's "performance counters are process-wide
	// mutable state." IsPrime increments PrimalityChecks and Next
	// increments RandomDraws; ModExpCalls is not incremented, since the
	// package-level ModExp functions take no Context.
	Trace struct {
		PrimalityChecks uint64
		ModExpCalls     uint64
		RandomDraws     uint64
	}
}

// NewContext returns a Context seeded deterministically.
func NewContext(seed uint64) *Context {
	return &Context{
		primeCache: make(map[uint64]bool),
		lcgState:   seed,
	}
}

var (
	defaultCtx     *Context
	defaultCtxOnce sync.Once
)

// Default returns the package-level convenience Context, seeded with
// DefaultSeed on first use.
func Default() *Context {
	defaultCtxOnce.Do(func() {
		defaultCtx = NewContext(DefaultSeed)
	})
	return defaultCtx
}

// ResetAll reinitializes the default Context's cache, PRNG state, and
// counters. Intended for test isolation only.
func ResetAll() {
	defaultCtxOnce.Do(func() {})
	defaultCtx = NewContext(DefaultSeed)
}

func (ctx *Context) cacheLookup(n uint64) (bool, bool) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.Trace.PrimalityChecks++
	v, ok := ctx.primeCache[n]
	return v, ok
}

func (ctx *Context) cacheStore(n uint64, isPrime bool) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.primeCache[n] = isPrime
	if isPrime {
		ctx.sortedKnow = insertSorted(ctx.sortedKnow, n)
	}
}

func insertSorted(s []uint64, v uint64) []uint64 {
	i := 0
	for i < len(s) && s[i] < v {
		i++
	}
	if i < len(s) && s[i] == v {
		return s
	}
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

// KnownPrimes returns a copy of the primes currently known (cached as
// prime) by ctx, in ascending order.
func (ctx *Context) KnownPrimes() []uint64 {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	out := make([]uint64, len(ctx.sortedKnow))
	copy(out, ctx.sortedKnow)
	return out
}

// ClearCache empties the prime cache. Primality results are content
// determined, so this only affects memory/latency, never correctness.
func (ctx *Context) ClearCache() {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.primeCache = make(map[uint64]bool)
	ctx.sortedKnow = nil
}

// Next advances the LCG and returns the new 64-bit state.
func (ctx *Context) Next() uint64 {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.lcgState = ctx.lcgState*lcgMultiplier + lcgIncrement
	ctx.Trace.RandomDraws++
	return ctx.lcgState
}

// Random returns the next pseudo-random float64 in [0, 1), derived from
// the LCG state as state/2^64. Non-cryptographic by design.
func (ctx *Context) Random() float64 {
	return float64(ctx.Next()) / (1 << 64)
}

// randomBigInRange returns a uniformly-ish distributed value in
// [0, span) by combining enough successive LCG draws to cover span's bit
// length, then reducing modulo span.
func (ctx *Context) randomBigInRange(span *big.Int) *big.Int {
	if span.Sign() <= 0 {
		return new(big.Int)
	}
	need := (span.BitLen() + 63) / 64
	if need == 0 {
		need = 1
	}
	buf := make([]byte, 0, need*8)
	for i := 0; i < need; i++ {
		v := ctx.Next()
		var b [8]byte
		for j := 0; j < 8; j++ {
			b[j] = byte(v >> (56 - 8*j))
		}
		buf = append(buf, b[:]...)
	}
	n := new(big.Int).SetBytes(buf)
	return n.Mod(n, span)
}

func mathLog(x float64) float64 {
	return math.Log(x)
}
