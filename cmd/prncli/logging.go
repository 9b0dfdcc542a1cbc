// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

// logWriteCloser wraps stdout plus an optional rotated log file so
// backend.Logger writers go to both, mirroring the teacher's pattern
// of a multi-writer log backend fed by a rotator.
type logWriteCloser struct {
	io.Writer
	rotator *rotator.Rotator
}

func (l *logWriteCloser) Close() error {
	if l.rotator != nil {
		l.rotator.Close()
	}
	return nil
}

// initLogging builds a decred/slog backend writing to stdout and,
// when logFile is non-empty, to a size-rotated log file via
// jrick/logrotate. Returns the backend and a cleanup func the caller
// must defer.
func initLogging(logFile string, debug bool) (*slog.Backend, func(), error) {
	writer := io.Writer(os.Stdout)
	lwc := &logWriteCloser{Writer: writer}

	if logFile != "" {
		logDir := filepath.Dir(logFile)
		if err := os.MkdirAll(logDir, 0o700); err != nil {
			return nil, nil, err
		}
		r, err := rotator.New(logFile, 10*1024, false, 3)
		if err != nil {
			return nil, nil, err
		}
		lwc.rotator = r
		lwc.Writer = io.MultiWriter(os.Stdout, r)
	}

	backend := slog.NewBackend(lwc)

	cleanup := func() { _ = lwc.Close() }
	return backend, cleanup, nil
}

// logLevel returns the level new loggers should be set to, given the
// --debug flag.
func logLevel(debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
