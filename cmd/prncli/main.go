// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command prncli is a thin driver that loads a RISA assembly program,
// runs it to completion or a step limit, and prints its exit status
// and OUTPUT trace.
package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/sschepis/prime-resonance-network/numerics"
	"github.com/sschepis/prime-resonance-network/prnerr"
	"github.com/sschepis/prime-resonance-network/risa"
)

// options are the CLI's parsed flags.
type options struct {
	Program  string `short:"p" long:"program" description:"path to a RISA assembly program" required:"true"`
	Seed     uint64 `long:"seed" description:"PRNG seed for COLLAPSE/MEASURE/RANDOM" default:"1311768467463790320"`
	MaxSteps int    `long:"max-steps" description:"instruction budget, 0 for unbounded" default:"100000"`
	LogFile  string `long:"log-file" description:"log file path; empty disables file logging"`
	Debug    bool   `long:"debug" description:"enable debug-level logging"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return nil
		}
		return err
	}

	backend, cleanup, err := initLogging(opts.LogFile, opts.Debug)
	if err != nil {
		return fmt.Errorf("prncli: %w", err)
	}
	defer cleanup()
	level := logLevel(opts.Debug)
	log := backend.Logger("CLI")
	log.SetLevel(level)
	risaLog := backend.Logger("RISA")
	risaLog.SetLevel(level)
	risa.UseLogger(risaLog)

	// Program files may live on a flaky network mount, so the read
	// itself goes through the backoff retry path rather than failing on
	// the first transient error.
	var src []byte
	retrier := prnerr.NewRetrier()
	if err := retrier.Do(func() error {
		var readErr error
		src, readErr = os.ReadFile(opts.Program)
		return readErr
	}); err != nil {
		return fmt.Errorf("prncli: read program: %w", err)
	}

	prog, err := risa.Assemble(string(src))
	if err != nil {
		return fmt.Errorf("prncli: assemble: %w", err)
	}

	engine := risa.NewEngine(numerics.NewContext(opts.Seed))
	if err := engine.LoadProgram(prog); err != nil {
		return fmt.Errorf("prncli: load program: %w", err)
	}

	log.Infof("running %s (max-steps=%d seed=%d)", opts.Program, opts.MaxSteps, opts.Seed)
	status := engine.Run(opts.MaxSteps)

	for _, line := range engine.Output() {
		fmt.Println(line)
	}

	fmt.Printf("success=%v instructions=%d time_ms=%.3f\n",
		status.Success, status.InstructionsExecuted, status.ExecutionTimeMS)
	if !status.Success {
		fmt.Printf("error: %s\n", status.Error)
		log.Errorf("program failed: %s", status.Error)
		os.Exit(1)
	}
	return nil
}
