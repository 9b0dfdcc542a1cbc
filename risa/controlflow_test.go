// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package risa

import "testing"

func TestBuildJumpTablesRejectsUnpairedElse(t *testing.T) {
	t.Parallel()

	_, err := buildJumpTables([]Instruction{
		{Mnemonic: "ELSE"},
	})
	if err == nil {
		t.Fatal("expected an error for an ELSE with no matching IF")
	}
}

func TestBuildJumpTablesRejectsUnpairedEndif(t *testing.T) {
	t.Parallel()

	_, err := buildJumpTables([]Instruction{
		{Mnemonic: "ENDIF"},
	})
	if err == nil {
		t.Fatal("expected an error for an ENDIF with no matching IF")
	}
}

func TestBuildJumpTablesPairsDeepNesting(t *testing.T) {
	t.Parallel()

	// IF(0) IF(1) IF(2) ENDIF(3) ENDIF(4) ENDIF(5)
	instrs := []Instruction{
		{Mnemonic: "IF", Args: []Argument{IntArg(1), StringArg("EQ"), IntArg(1)}},
		{Mnemonic: "IF", Args: []Argument{IntArg(1), StringArg("EQ"), IntArg(1)}},
		{Mnemonic: "IF", Args: []Argument{IntArg(1), StringArg("EQ"), IntArg(1)}},
		{Mnemonic: "ENDIF"},
		{Mnemonic: "ENDIF"},
		{Mnemonic: "ENDIF"},
	}
	jt, err := buildJumpTables(instrs)
	if err != nil {
		t.Fatalf("buildJumpTables: %v", err)
	}
	if jt.ifScopes[0].endIP != 5 {
		t.Errorf("outermost IF endIP = %d, want 5", jt.ifScopes[0].endIP)
	}
	if jt.ifScopes[1].endIP != 4 {
		t.Errorf("middle IF endIP = %d, want 4", jt.ifScopes[1].endIP)
	}
	if jt.ifScopes[2].endIP != 3 {
		t.Errorf("innermost IF endIP = %d, want 3", jt.ifScopes[2].endIP)
	}
}

func TestCallStackOverflow(t *testing.T) {
	t.Parallel()

	cs := newControlStacks()
	cs.maxCallDepth = 2
	if !cs.pushCall(callFrame{returnIP: 1}) {
		t.Fatal("first push should succeed")
	}
	if !cs.pushCall(callFrame{returnIP: 2}) {
		t.Fatal("second push should succeed")
	}
	if cs.pushCall(callFrame{returnIP: 3}) {
		t.Fatal("third push should fail the configured ceiling")
	}
}

func TestPushCallMasksThenRestoresLoopBreakability(t *testing.T) {
	t.Parallel()

	cs := newControlStacks()
	if !cs.pushLoop(loopFrame{limit: 3}) {
		t.Fatal("pushLoop failed")
	}
	if _, ok := cs.topBreakableLoop(); !ok {
		t.Fatal("loop should be breakable before any CALL")
	}

	if !cs.pushCall(callFrame{returnIP: 5}) {
		t.Fatal("pushCall failed")
	}
	if _, ok := cs.topBreakableLoop(); ok {
		t.Fatal("loop opened before the CALL should not be breakable from inside it")
	}

	if _, ok := cs.popCall(); !ok {
		t.Fatal("popCall failed")
	}
	if _, ok := cs.topBreakableLoop(); !ok {
		t.Fatal("loop should be breakable again after the matching RETURN")
	}
}

func TestLoopStackOverflow(t *testing.T) {
	t.Parallel()

	cs := newControlStacks()
	cs.maxLoopDepth = 1
	if !cs.pushLoop(loopFrame{limit: 1}) {
		t.Fatal("first push should succeed")
	}
	if cs.pushLoop(loopFrame{limit: 1}) {
		t.Fatal("second push should fail the configured ceiling")
	}
}
