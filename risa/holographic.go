// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package risa

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/dchest/siphash"
)

// holoKeys are the two siphash round keys used for every pattern name
// and entangled-pair lookup in a HolographicStore (§4.6's ENTANGLE and
// HOLO_* family), grounded on txscript/sigcache.go's siphash-keyed
// transaction-hash cache and gcs.Filter's siphash-keyed set membership.
type holoKeys struct {
	k0, k1 uint64
}

func defaultHoloKeys() holoKeys {
	return holoKeys{k0: 0x1234567890abcdef, k1: 0xfedcba0987654321}
}

// pairKey returns the siphash of two primes, order-independent, used
// by ENTANGLE to record an unordered pair cheaply.
func (k holoKeys) pairKey(p, q uint64) uint64 {
	if p > q {
		p, q = q, p
	}
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[0:8], p)
	binary.BigEndian.PutUint64(buf[8:16], q)
	return siphash.Hash(k.k0, k.k1, buf[:])
}

// nameKey returns the siphash of a pattern/fragment name string.
func (k holoKeys) nameKey(name string) uint64 {
	return siphash.Hash(k.k0, k.k1, []byte(name))
}

// pattern is a named snapshot of oscillator amplitudes, the unit of
// storage for HOLO_STORE/HOLO_FRAGMENT/HOLO_RECONSTRUCT (§4.6).
type pattern map[uint64]float64

// HolographicStore is the VM's holographic key/value store (§4.6): it
// holds named amplitude patterns, keyed by a siphash digest of the
// pattern name rather than the name itself, and tracks the fragments a
// pattern was split into so HOLO_RECONSTRUCT can sum them back.
type HolographicStore struct {
	keys      holoKeys
	patterns  map[uint64]pattern
	fragments map[string][]string // base name -> ordered fragment names
}

// NewHolographicStore constructs an empty HolographicStore.
func NewHolographicStore() *HolographicStore {
	return &HolographicStore{
		keys:      defaultHoloKeys(),
		patterns:  make(map[uint64]pattern),
		fragments: make(map[string][]string),
	}
}

// Store records snapshot under name, overwriting any prior pattern of
// the same name (HOLO_STORE).
func (h *HolographicStore) Store(name string, snapshot pattern) {
	cp := make(pattern, len(snapshot))
	for p, a := range snapshot {
		cp[p] = a
	}
	h.patterns[h.keys.nameKey(name)] = cp
}

// Retrieve sums the amplitudes of name's stored pattern that exceed
// threshold (HOLO_RETRIEVE).
func (h *HolographicStore) Retrieve(name string, threshold float64) (float64, bool) {
	pat, ok := h.patterns[h.keys.nameKey(name)]
	if !ok {
		return 0, false
	}
	var sum float64
	for _, a := range pat {
		if a > threshold {
			sum += a
		}
	}
	return sum, true
}

// Fragment splits name's stored pattern into n roughly equal pieces,
// storing each under "<outBase>_<i>" and recording the fragment list
// under outBase for later reconstruction (HOLO_FRAGMENT). Returns n;
// when the pattern holds fewer than n primes, the surplus fragment
// names are recorded but get no stored pattern.
func (h *HolographicStore) Fragment(name string, n int, outBase string) (int, error) {
	pat, ok := h.patterns[h.keys.nameKey(name)]
	if !ok {
		return 0, fmt.Errorf("risa: no pattern named %q", name)
	}
	if n <= 0 {
		return 0, fmt.Errorf("risa: fragment count must be positive, got %d", n)
	}

	primes := make([]uint64, 0, len(pat))
	for p := range pat {
		primes = append(primes, p)
	}
	sort.Slice(primes, func(i, j int) bool { return primes[i] < primes[j] })

	fragNames := make([]string, 0, n)
	for i := 0; i < n; i++ {
		fragNames = append(fragNames, fmt.Sprintf("%s_%d", outBase, i))
	}

	for i, p := range primes {
		frag := fragNames[i%n]
		key := h.keys.nameKey(frag)
		if h.patterns[key] == nil {
			h.patterns[key] = make(pattern)
		}
		h.patterns[key][p] = pat[p]
	}

	h.fragments[outBase] = fragNames
	return n, nil
}

// Reconstruct sums every fragment previously written under base by
// Fragment back into a single amplitude total (HOLO_RECONSTRUCT).
func (h *HolographicStore) Reconstruct(base string) (float64, bool) {
	names, ok := h.fragments[base]
	if !ok {
		return 0, false
	}
	var sum float64
	for _, name := range names {
		pat, ok := h.patterns[h.keys.nameKey(name)]
		if !ok {
			continue
		}
		for _, a := range pat {
			sum += a
		}
	}
	return sum, true
}
