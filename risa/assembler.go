// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package risa

import (
	"fmt"
	"strconv"
	"strings"
)

// Assemble parses a line-oriented text program into a Program: one
// mnemonic plus space-separated arguments per line, "#" line comments,
// blank lines ignored, mnemonics matched case-insensitively (§6). This
// format is not part of §4.6's wire contract — it exists only so a
// driver can author a Program as text instead of building
// []Instruction literals by hand.
func Assemble(src string) (*Program, error) {
	lines := strings.Split(src, "\n")
	instrs := make([]Instruction, 0, len(lines))

	for i, raw := range lines {
		lineNo := i + 1
		line := raw
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		mnemonic := strings.ToUpper(fields[0])
		args := make([]Argument, 0, len(fields)-1)
		for _, tok := range fields[1:] {
			args = append(args, parseArgument(tok))
		}

		instrs = append(instrs, Instruction{
			Mnemonic: mnemonic,
			Args:     args,
			Line:     lineNo,
			File:     "",
		})
	}

	if _, err := buildJumpTables(instrs); err != nil {
		return nil, fmt.Errorf("risa: assemble: %w", err)
	}
	return NewProgram(instrs), nil
}

// parseArgument classifies one whitespace-delimited token as i32, f64,
// or string, per §6's Argument union: an integer literal with no
// fractional part or exponent parses as i32, anything else that parses
// as a float becomes f64, and anything that fails both is a bare
// string (a register name or label).
func parseArgument(tok string) Argument {
	if i, err := strconv.ParseInt(tok, 10, 32); err == nil {
		return IntArg(int32(i))
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return FloatArg(f)
	}
	return StringArg(tok)
}
