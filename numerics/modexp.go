// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package numerics

import "math/big"

// bigOne and bigTwo avoid the overhead of allocating small big.Ints
// repeatedly in hot paths, following the teacher's bigZero package-var
// idiom (blockchain/difficulty.go).
var (
	bigZero = big.NewInt(0)
	bigOne  = big.NewInt(1)
	bigTwo  = big.NewInt(2)
)

// smallOperandThreshold is the 2^20 small-operand bound of the binary
// exponentiation description. ModExp does not branch on it: every
// operand size goes through big.Int.Exp.
const smallOperandThreshold = 1 << 20

// ModExp computes base^exp mod m using binary exponentiation. It has a
// single path for every operand size: math/big already avoids the
// fixed-width overflow that a Russian-peasant fallback would guard
// against, so the computation delegates to big.Int.Exp, which
// internally uses the same square-and-multiply structure.
func ModExp(base, exp, m uint64) uint64 {
	if m == 0 {
		return 0
	}
	b := new(big.Int).SetUint64(base)
	e := new(big.Int).SetUint64(exp)
	mm := new(big.Int).SetUint64(m)
	r := new(big.Int).Exp(b, e, mm)
	return r.Uint64()
}

// ModExpBig is the arbitrary-precision form of ModExp, used once operands
// exceed 64 bits (e.g. prime generation at larger bit widths).
func ModExpBig(base, exp, m *big.Int) *big.Int {
	if m.Sign() == 0 {
		return new(big.Int)
	}
	return new(big.Int).Exp(base, exp, m)
}

// ModExpOpt dispatches to a Montgomery-multiplication path once exp >= 16,
// per spec.md's §4.1 description, and to plain ModExp otherwise. The
// Montgomery path requires an odd modulus; if m is even, ModExpOpt falls
// back to ModExp since MontgomeryContext.New cannot represent it.
func ModExpOpt(base, exp, m uint64) uint64 {
	if exp < 16 || m%2 == 0 {
		return ModExp(base, exp, m)
	}
	ctx, err := NewMontgomeryContext(new(big.Int).SetUint64(m))
	if err != nil {
		return ModExp(base, exp, m)
	}
	b := new(big.Int).SetUint64(base)
	e := new(big.Int).SetUint64(exp)
	return ctx.Exp(b, e).Uint64()
}

// ExtGCD runs the extended Euclidean algorithm and returns (g, x, y) such
// that a*x + b*y = g = gcd(a, b).
func ExtGCD(a, b int64) (g, x, y int64) {
	if b == 0 {
		return a, 1, 0
	}
	g1, x1, y1 := ExtGCD(b, a%b)
	return g1, y1, x1 - (a/b)*y1
}

// ModInverse returns the least non-negative representative of a's inverse
// modulo m, or 0 if gcd(a, m) != 1 — the documented "does not exist"
// sentinel per §4.1/§7.
func ModInverse(a, m uint64) uint64 {
	if m == 0 {
		return 0
	}
	am := new(big.Int).SetUint64(a)
	mm := new(big.Int).SetUint64(m)
	inv := new(big.Int).ModInverse(am, mm)
	if inv == nil {
		return 0
	}
	return inv.Uint64()
}
