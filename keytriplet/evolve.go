// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keytriplet

import "math"

// Evolve replaces each private coefficient c_i by
// c_i * exp(i*(2*pi*log_{p_i}(kappa)*dt + eps_i)), with eps_i a Gaussian
// sample clipped to [-3,3] and scaled by 0.01*dt (§4.3). The resonance
// key is then recomputed from the new private key via the same
// projection, drawing fresh random phases from kt's identity-bound PRNG
// stream.
func (kt *Keytriplet) Evolve(dt float64) {
	n := kt.Private.Len()
	for i := 0; i < n; i++ {
		p := kt.Private.PrimeAt(i)
		c := kt.Private.CoefficientAt(i)

		logBase := math.Log(euler) / math.Log(float64(p))
		eps := clampGaussian(kt.rng.Gaussian(), -3, 3) * 0.01 * dt
		angle := 2*math.Pi*logBase*dt + eps

		kt.Private.SetCoefficientAt(i, c*complexExpI(angle))
	}
	kt.Private.Normalize()

	kt.Resonance = project(kt.Private, kt.rng)
}

func clampGaussian(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// complexExpI returns e^(i*theta) as a complex128.
func complexExpI(theta float64) complex128 {
	return complex(math.Cos(theta), math.Sin(theta))
}
