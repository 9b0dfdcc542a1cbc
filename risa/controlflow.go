// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package risa

import (
	"fmt"
	"strings"

	"github.com/jrick/bitset"
)

// ifScope records one IF/IFCOH's matching ELSE/ENDIF instruction
// pointers, filled in by the load-time pairing pass (§4.6).
type ifScope struct {
	elseIP int // -1 if the IF has no ELSE
	endIP  int
}

// jumpTables is the result of the load-time control-flow analysis
// pass: IF/ELSE/ENDIF pairs, LOOP/WHILE <-> ENDLOOP/ENDWHILE pairs in
// both directions, and the label table for GOTO/CALL.
type jumpTables struct {
	ifScopes   map[int]*ifScope
	elseOwner  map[int]int // ELSE IP -> its IF/IFCOH's IP
	loopEnd    map[int]int // LOOP/WHILE IP -> ENDLOOP/ENDWHILE IP
	loopStart  map[int]int // ENDLOOP/ENDWHILE IP -> LOOP/WHILE IP
	labels     map[string]int
	hasElseSet bitset.Bytes // scope id (index into ifOrder) -> has an ELSE; the runtime source of truth enterIf consults
	ifOrder    []int        // IPs of IF/IFCOH in encounter order, for hasElseSet indexing
	ifIndex    map[int]int  // IF/IFCOH IP -> index into ifOrder/hasElseSet
}

// buildJumpTables performs §4.6's stack-based pairing pass over instrs:
// IF-family pushes an entry holding its own IP; ELSE records its IP
// into the open entry; ENDIF fills endIP and pops. LOOP/WHILE push onto
// a loop stack; ENDLOOP/ENDWHILE pair with the top. An unpaired IF or
// loop at end of program is an error.
func buildJumpTables(instrs []Instruction) (*jumpTables, error) {
	jt := &jumpTables{
		ifScopes:  make(map[int]*ifScope),
		elseOwner: make(map[int]int),
		loopEnd:   make(map[int]int),
		loopStart: make(map[int]int),
		labels:    make(map[string]int),
		ifIndex:   make(map[int]int),
	}

	var condStack []int
	var loopStack []int

	for ip, instr := range instrs {
		switch strings.ToUpper(instr.Mnemonic) {
		case "IF", "IFCOH":
			jt.ifScopes[ip] = &ifScope{elseIP: -1, endIP: -1}
			jt.ifIndex[ip] = len(jt.ifOrder)
			jt.ifOrder = append(jt.ifOrder, ip)
			condStack = append(condStack, ip)

		case "ELSE":
			if len(condStack) == 0 {
				return nil, fmt.Errorf("risa: ELSE at %d has no matching IF", ip)
			}
			top := condStack[len(condStack)-1]
			jt.ifScopes[top].elseIP = ip
			jt.elseOwner[ip] = top

		case "ENDIF":
			if len(condStack) == 0 {
				return nil, fmt.Errorf("risa: ENDIF at %d has no matching IF", ip)
			}
			top := condStack[len(condStack)-1]
			condStack = condStack[:len(condStack)-1]
			jt.ifScopes[top].endIP = ip

		case "LOOP", "WHILE":
			loopStack = append(loopStack, ip)

		case "ENDLOOP", "ENDWHILE":
			if len(loopStack) == 0 {
				return nil, fmt.Errorf("risa: %s at %d has no matching LOOP/WHILE", instr.Mnemonic, ip)
			}
			top := loopStack[len(loopStack)-1]
			loopStack = loopStack[:len(loopStack)-1]
			jt.loopEnd[top] = ip
			jt.loopStart[ip] = top

		case "LABEL":
			if len(instr.Args) == 0 {
				return nil, fmt.Errorf("risa: LABEL at %d missing a name", ip)
			}
			jt.labels[instr.Args[0].AsString()] = ip
		}
	}

	if len(condStack) != 0 {
		return nil, fmt.Errorf("risa: unpaired IF at %d", condStack[len(condStack)-1])
	}
	if len(loopStack) != 0 {
		return nil, fmt.Errorf("risa: unpaired LOOP/WHILE at %d", loopStack[len(loopStack)-1])
	}

	jt.hasElseSet = bitset.NewBytes(uint32(len(jt.ifOrder)))
	for i, ip := range jt.ifOrder {
		if jt.ifScopes[ip].elseIP >= 0 {
			jt.hasElseSet.Set(uint32(i))
		}
	}

	return jt, nil
}

// condFrame is a runtime entry on the engine's condition stack, pushed
// while executing inside an IF body.
type condFrame struct {
	ip int
}

// loopFrame is a runtime entry on the engine's loop stack, tracking
// the current iteration of one active LOOP/WHILE.
type loopFrame struct {
	startIP   int
	endIP     int
	iteration int
	limit     int // LOOP's fixed iteration count; unused for WHILE
	isWhile   bool
}

// callFrame is a runtime entry on the engine's call stack (§4.6:
// "CALL pushes a frame {return_address, scope, parameters}"). loopDepth
// is the loop-stack depth snapshotted at CALL time, so RETURN knows
// which loop-stack entries belonged to the caller rather than the
// callee.
type callFrame struct {
	returnIP  int
	loopDepth int
}

// controlStacks holds the engine's three runtime stacks plus a
// breakable-loop bitset flagging which loop-stack depths currently
// permit BREAK/CONTINUE. Every loop is breakable from its own body, but
// pushCall clears the bits of every loop that was already open when the
// call happened, so a BREAK/CONTINUE reached inside a called subroutine
// can't reach through the call boundary and terminate a loop in the
// caller's frame; popCall restores them once the subroutine returns.
type controlStacks struct {
	conditions []condFrame
	loops      []loopFrame
	calls      []callFrame

	maxConditionDepth int
	maxLoopDepth      int
	maxCallDepth      int

	breakable bitset.Bytes
}

// Default stack depth ceilings (§4.6).
const (
	DefaultMaxCallDepth      = 1000
	DefaultMaxLoopDepth      = 100
	DefaultMaxConditionDepth = 100
)

func newControlStacks() *controlStacks {
	return &controlStacks{
		maxConditionDepth: DefaultMaxConditionDepth,
		maxLoopDepth:      DefaultMaxLoopDepth,
		maxCallDepth:      DefaultMaxCallDepth,
		breakable:         bitset.NewBytes(DefaultMaxLoopDepth),
	}
}

// pushCondition pushes a condition frame, reporting false if the
// condition-depth ceiling would be exceeded.
func (cs *controlStacks) pushCondition(ip int) bool {
	if len(cs.conditions) >= cs.maxConditionDepth {
		return false
	}
	cs.conditions = append(cs.conditions, condFrame{ip: ip})
	return true
}

func (cs *controlStacks) popCondition() {
	if len(cs.conditions) > 0 {
		cs.conditions = cs.conditions[:len(cs.conditions)-1]
	}
}

// pushLoop pushes a loop frame, reporting false if the loop-depth
// ceiling would be exceeded.
func (cs *controlStacks) pushLoop(f loopFrame) bool {
	if len(cs.loops) >= cs.maxLoopDepth {
		return false
	}
	depth := len(cs.loops)
	cs.loops = append(cs.loops, f)
	cs.breakable.Set(uint32(depth))
	return true
}

func (cs *controlStacks) popLoop() {
	if len(cs.loops) == 0 {
		return
	}
	depth := len(cs.loops) - 1
	cs.breakable.Unset(uint32(depth))
	cs.loops = cs.loops[:depth]
}

func (cs *controlStacks) topLoop() (*loopFrame, bool) {
	if len(cs.loops) == 0 {
		return nil, false
	}
	return &cs.loops[len(cs.loops)-1], true
}

// topBreakableLoop is topLoop restricted to loops BREAK/CONTINUE are
// actually allowed to reach: the innermost loop, and only if it was not
// masked off by an intervening CALL (see pushCall).
func (cs *controlStacks) topBreakableLoop() (*loopFrame, bool) {
	if len(cs.loops) == 0 {
		return nil, false
	}
	depth := len(cs.loops) - 1
	if !cs.breakable.Get(uint32(depth)) {
		return nil, false
	}
	return &cs.loops[depth], true
}

// pushCall pushes a call frame, reporting false if the call-depth
// ceiling would be exceeded. Every loop open at call time is masked out
// of breakable until the matching popCall.
func (cs *controlStacks) pushCall(f callFrame) bool {
	if len(cs.calls) >= cs.maxCallDepth {
		return false
	}
	f.loopDepth = len(cs.loops)
	for i := 0; i < f.loopDepth; i++ {
		cs.breakable.Unset(uint32(i))
	}
	cs.calls = append(cs.calls, f)
	return true
}

func (cs *controlStacks) popCall() (callFrame, bool) {
	if len(cs.calls) == 0 {
		return callFrame{}, false
	}
	f := cs.calls[len(cs.calls)-1]
	cs.calls = cs.calls[:len(cs.calls)-1]
	for i := 0; i < f.loopDepth && i < len(cs.loops); i++ {
		cs.breakable.Set(uint32(i))
	}
	return f, true
}
