// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package risa implements the RISA virtual machine (§4.6): a
// register/stack interpreter whose state is a vector of per-prime
// oscillators (amplitude + phase) plus scalar registers and a
// holographic key/value store. Control flow (if/else, loop/while,
// call/return, goto/label, break/continue) is resolved through a
// jump table built once at load time.
package risa
