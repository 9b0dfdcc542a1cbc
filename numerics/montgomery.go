// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package numerics

import (
	"errors"
	"math/big"
)

// ErrEvenModulus is returned by NewMontgomeryContext when m is even;
// Montgomery form requires an odd modulus.
var ErrEvenModulus = errors.New("numerics: montgomery modulus must be odd")

// MontgomeryContext holds the precomputed constants needed for Montgomery
// modular multiplication under one fixed odd modulus n: R = 2^k for the
// smallest k with 2^k > n, R^-1 mod n, and n' = (-n^-1) mod R.
type MontgomeryContext struct {
	n       *big.Int
	r       *big.Int
	rInv    *big.Int
	nPrime  *big.Int
	k       int
	mask    *big.Int
}

// NewMontgomeryContext precomputes a MontgomeryContext for modulus m. m
// must be odd; an even modulus has no valid R^-1 mod m via the standard
// construction and returns ErrEvenModulus.
func NewMontgomeryContext(m *big.Int) (*MontgomeryContext, error) {
	if m.Bit(0) == 0 {
		return nil, ErrEvenModulus
	}

	k := m.BitLen()
	r := new(big.Int).Lsh(bigOne, uint(k))
	mask := new(big.Int).Sub(r, bigOne)

	rInv := new(big.Int).ModInverse(r, m)
	if rInv == nil {
		return nil, ErrEvenModulus
	}

	// n' = (-n^-1) mod R, restricted to powers of two per §4.1: R is a
	// power of two, so this inverse is computed mod R directly.
	nInvModR := new(big.Int).ModInverse(m, r)
	if nInvModR == nil {
		return nil, ErrEvenModulus
	}
	nPrime := new(big.Int).Sub(r, nInvModR)
	nPrime.And(nPrime, mask)

	return &MontgomeryContext{
		n:      new(big.Int).Set(m),
		r:      r,
		rInv:   rInv,
		nPrime: nPrime,
		k:      k,
		mask:   mask,
	}, nil
}

// ToMontgomery converts a into Montgomery form: a*R mod n.
func (c *MontgomeryContext) ToMontgomery(a *big.Int) *big.Int {
	t := new(big.Int).Mul(a, c.r)
	return t.Mod(t, c.n)
}

// FromMontgomery converts aR (Montgomery form) back to standard form by
// a single Montgomery reduction against R itself.
func (c *MontgomeryContext) FromMontgomery(aR *big.Int) *big.Int {
	return c.redc(aR)
}

// redc implements Montgomery reduction: t -> t*R^-1 mod n via
// (t + ((t*n') mod R) * n) / R followed by one conditional subtraction.
func (c *MontgomeryContext) redc(t *big.Int) *big.Int {
	m := new(big.Int).Mul(t, c.nPrime)
	m.And(m, c.mask) // m mod R, R a power of two
	m.Mul(m, c.n)
	m.Add(m, t)
	m.Rsh(m, uint(c.k)) // divide by R
	if m.Cmp(c.n) >= 0 {
		m.Sub(m, c.n)
	}
	return m
}

// Mul performs Montgomery multiplication of two operands already in
// Montgomery form, returning the product in Montgomery form.
func (c *MontgomeryContext) Mul(aR, bR *big.Int) *big.Int {
	t := new(big.Int).Mul(aR, bR)
	return c.redc(t)
}

// Exp computes base^exp mod n using the Montgomery domain throughout:
// convert in, square-and-multiply in Montgomery form, convert out.
func (c *MontgomeryContext) Exp(base, exp *big.Int) *big.Int {
	baseR := c.ToMontgomery(new(big.Int).Mod(base, c.n))
	resultR := c.ToMontgomery(bigOne)

	e := new(big.Int).Set(exp)
	for e.Sign() > 0 {
		if e.Bit(0) == 1 {
			resultR = c.Mul(resultR, baseR)
		}
		baseR = c.Mul(baseR, baseR)
		e.Rsh(e, 1)
	}
	return c.FromMontgomery(resultR)
}
