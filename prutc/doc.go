// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package prutc implements the PR-UTC session protocol (§4.4, §4.5): a
// shared resonance field initialised from two identities' resonance
// keys, stepwise field evolution (Hamiltonian drift, resonance collapse,
// message perturbation), message encoding into prime-targeted
// perturbations, and entropy-triggered payload extraction.
//
// The Registry/Session split is grounded on the teacher's ownership
// discipline in blockchain (a BlockChain instance owning its index and
// state under an explicit lock) and peer (a connection manager owning
// its peer set) — here a Registry owns the identity map and a Session
// owns only its field and queues, never the identities' keys themselves
// (§3's "a CommunicationSession holds only identifiers of its endpoints,
// never ownership of their keys").
package prutc
