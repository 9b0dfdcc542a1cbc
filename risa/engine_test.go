// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package risa

import (
	"math"
	"testing"
	"time"

	"github.com/sschepis/prime-resonance-network/numerics"
)

type fixedClock struct {
	t    time.Time
	step time.Duration
}

func (c *fixedClock) Now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func newTestEngine(t *testing.T, src string) *Engine {
	t.Helper()
	prog, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	e := NewEngine(numerics.NewContext(1))
	e.UseClock(&fixedClock{step: time.Millisecond})
	if err := e.LoadProgram(prog); err != nil {
		t.Fatalf("LoadProgram: %v", err)
	}
	return e
}

func TestAddAndHalt(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, `
LOAD 2 0.5
ADD 2 0.25
HALT
`)
	status := e.Run(0)
	if !status.Success {
		t.Fatalf("Run failed: %s", status.Error)
	}
	if status.InstructionsExecuted != 3 {
		t.Errorf("instructions executed = %d, want 3", status.InstructionsExecuted)
	}
	if got := e.Oscillator(2).Amplitude; math.Abs(got-0.75) > 1e-9 {
		t.Errorf("amplitude(2) = %v, want 0.75", got)
	}
}

func TestGotoJumpsOverInstructions(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, `
GOTO skip
LOAD 2 0.9
LABEL skip
LOAD 3 0.4
HALT
`)
	status := e.Run(0)
	if !status.Success {
		t.Fatalf("Run failed: %s", status.Error)
	}
	if got := e.Oscillator(2).Amplitude; got != 0 {
		t.Errorf("amplitude(2) = %v, want 0 (instruction skipped)", got)
	}
	if got := e.Oscillator(3).Amplitude; math.Abs(got-0.4) > 1e-9 {
		t.Errorf("amplitude(3) = %v, want 0.4", got)
	}
}

func TestIfElseEndifNested(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, `
LOAD 2 1
IF 1 EQ 1
  IF 2 EQ 3
    LOAD 5 0.1
  ELSE
    LOAD 5 0.2
  ENDIF
ELSE
  LOAD 5 0.9
ENDIF
HALT
`)
	status := e.Run(0)
	if !status.Success {
		t.Fatalf("Run failed: %s", status.Error)
	}
	if got := e.Oscillator(5).Amplitude; math.Abs(got-0.2) > 1e-9 {
		t.Errorf("amplitude(5) = %v, want 0.2 (inner else branch)", got)
	}
}

func TestIfFalseSkipsToEndifWithoutElse(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, `
IF 1 EQ 2
LOAD 5 0.5
ENDIF
LOAD 6 0.7
HALT
`)
	status := e.Run(0)
	if !status.Success {
		t.Fatalf("Run failed: %s", status.Error)
	}
	if got := e.Oscillator(5).Amplitude; got != 0 {
		t.Errorf("amplitude(5) = %v, want 0 (false branch skipped)", got)
	}
	if got := e.Oscillator(6).Amplitude; math.Abs(got-0.7) > 1e-9 {
		t.Errorf("amplitude(6) = %v, want 0.7", got)
	}
}

func TestLoopRunsFixedIterations(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, `
LOOP 5
ADD 2 0.1
ENDLOOP
HALT
`)
	status := e.Run(0)
	if !status.Success {
		t.Fatalf("Run failed: %s", status.Error)
	}
	if got := e.Oscillator(2).Amplitude; math.Abs(got-0.5) > 1e-9 {
		t.Errorf("amplitude(2) = %v, want 0.5 after 5 iterations", got)
	}
}

func TestBreakExitsLoopEarly(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, `
LOOP 10
ADD 2 0.1
OBSERVE 2 osc2
IF osc2_amp GE 0.3
BREAK
ENDIF
ENDLOOP
HALT
`)
	status := e.Run(100)
	if !status.Success {
		t.Fatalf("Run failed: %s", status.Error)
	}
	if got := e.Oscillator(2).Amplitude; math.Abs(got-0.3) > 1e-9 {
		t.Errorf("amplitude(2) = %v, want 0.3 (loop broke after 3 iterations)", got)
	}
}

func TestWhileLoop(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, `
LOAD 2 0
OBSERVE 2 osc2
WHILE osc2_amp LT 0.5
ADD 2 0.1
OBSERVE 2 osc2
ENDWHILE
HALT
`)
	status := e.Run(100)
	if !status.Success {
		t.Fatalf("Run failed: %s", status.Error)
	}
	if got := e.Oscillator(2).Amplitude; math.Abs(got-0.5) > 1e-9 {
		t.Errorf("amplitude(2) = %v, want 0.5", got)
	}
}

func TestCallAndReturn(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, `
CALL bump
LOAD 3 0.9
HALT
LABEL bump
ADD 2 0.2
RETURN
`)
	status := e.Run(0)
	if !status.Success {
		t.Fatalf("Run failed: %s", status.Error)
	}
	if got := e.Oscillator(2).Amplitude; math.Abs(got-0.2) > 1e-9 {
		t.Errorf("amplitude(2) = %v, want 0.2", got)
	}
	if got := e.Oscillator(3).Amplitude; math.Abs(got-0.9) > 1e-9 {
		t.Errorf("amplitude(3) = %v, want 0.9 (resumed after RETURN)", got)
	}
}

func TestBreakInsideCallDoesNotCrossCallBoundary(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, `
LOOP 3
ADD 2 0.1
CALL bump
ENDLOOP
HALT
LABEL bump
BREAK
RETURN
`)
	status := e.Run(100)
	if status.Success {
		t.Fatal("Run succeeded, want a failure from BREAK crossing a call boundary")
	}
	if got := e.Oscillator(2).Amplitude; math.Abs(got-0.1) > 1e-9 {
		t.Errorf("amplitude(2) = %v, want 0.1 (only the first iteration ran before the fault)", got)
	}
}

func TestUnknownMnemonicFails(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, "NOPE 1 2\n")
	status := e.Run(0)
	if status.Success {
		t.Fatal("Run succeeded on an unknown mnemonic")
	}
	if status.Error == "" {
		t.Error("ExitStatus.Error is empty on failure")
	}
}

func TestFactorizeBoostsFactorAmplitudes(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, `
FACTORIZE 12 count
HALT
`)
	status := e.Run(0)
	if !status.Success {
		t.Fatalf("Run failed: %s", status.Error)
	}
	if got := e.Register("count"); got != 2 {
		t.Errorf("factor count = %v, want 2 (distinct factors 2, 3)", got)
	}
	if got := e.Oscillator(2).Amplitude; math.Abs(got-0.1) > 1e-9 {
		t.Errorf("amplitude(2) = %v, want 0.1", got)
	}
	if got := e.Oscillator(3).Amplitude; math.Abs(got-0.1) > 1e-9 {
		t.Errorf("amplitude(3) = %v, want 0.1", got)
	}
}

func TestHolographicStoreRoundtrip(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, `
LOAD 2 0.5
LOAD 3 0.25
HOLO_STORE snap snap
HOLO_FRAGMENT snap 2 frag
HOLO_RECONSTRUCT frag total
HALT
`)
	status := e.Run(0)
	if !status.Success {
		t.Fatalf("Run failed: %s", status.Error)
	}
	if got := e.Register("total"); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("reconstructed total = %v, want 0.75", got)
	}
	if got := e.Register("frag_COUNT"); got != 2 {
		t.Errorf("frag_COUNT = %v, want 2", got)
	}
}

func TestCollapseLeavesSingleUnitAmplitude(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, `
LOAD 2 0.8
LOAD 3 0.2
LOAD 5 0.5
COLLAPSE
HALT
`)
	status := e.Run(0)
	if !status.Success {
		t.Fatalf("Run failed: %s", status.Error)
	}

	var nonZero int
	for _, p := range []uint64{2, 3, 5} {
		a := e.Oscillator(p).Amplitude
		if a != 0 {
			nonZero++
			if a != 1 {
				t.Errorf("collapsed amplitude(%d) = %v, want 1", p, a)
			}
		}
	}
	if nonZero != 1 {
		t.Errorf("collapse left %d nonzero oscillators, want exactly 1", nonZero)
	}
}

func TestExecutionTimeMSAdvancesWithClock(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, "HALT\n")
	status := e.Run(0)
	if status.ExecutionTimeMS <= 0 {
		t.Errorf("ExecutionTimeMS = %v, want > 0 under the fixed clock", status.ExecutionTimeMS)
	}
}
