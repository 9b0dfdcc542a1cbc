// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package risa

import "github.com/decred/slog"

// log is the package-level logger, defaulting to Disabled per the
// teacher's UseLogger idiom.
var log = slog.Disabled

// UseLogger sets the package-wide logger used for engine lifecycle
// events (program load failures, fatal opcode errors).
func UseLogger(logger slog.Logger) {
	log = logger
}
