// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package numerics

import "math"

// Gaussian returns a standard-normal sample derived from two successive
// draws of ctx's LCG via the Box-Muller transform. Per SPEC_FULL.md Open
// Question 3, every source of randomness in the system — including
// Gaussian noise for keytriplet evolution and resonance-field phase
// jitter — traces back to the one deterministic LCG stream.
func (ctx *Context) Gaussian() float64 {
	u1 := ctx.Random()
	u2 := ctx.Random()
	// Avoid log(0); the LCG's period makes an exact 0 draw astronomically
	// unlikely but not impossible in principle.
	if u1 <= 0 {
		u1 = 1e-300
	}
	r := math.Sqrt(-2 * math.Log(u1))
	return r * math.Cos(2*math.Pi*u2)
}
