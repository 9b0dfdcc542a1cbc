// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package risa

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sschepis/prime-resonance-network/numerics"
)

// Clock abstracts wall-clock reads so ExitStatus.ExecutionTimeMS stays
// testable (§5: "wall-clock reads are used only for ... a cosmetic
// uptime field").
type Clock interface {
	Now() time.Time
}

// systemClock is the default Clock, backed by time.Now.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// ExitStatus is the result of running a program to completion or to a
// step limit (§6).
type ExitStatus struct {
	Success              bool
	ExecutionTimeMS      float64
	InstructionsExecuted int
	Error                string
}

// Engine is one exclusively-owned VM instance (§5: "an engine instance
// is exclusively owned by its driver"). It is not safe for concurrent
// use; run two engines in parallel instead of sharing one.
type Engine struct {
	program *Program
	jt      *jumpTables
	osc     *oscillatorState
	regs    registerFile
	holo    *HolographicStore
	cs      *controlStacks
	rng     *numerics.Context
	clock   Clock

	ip                   int
	running              bool
	halted               bool
	failed               bool
	errorMessage         string
	instructionsExecuted int
	elapsed              float64

	output []string
}

// NewEngine constructs an Engine with a fresh oscillator/register/
// holographic state, driven by rng for every random opcode (COLLAPSE,
// MEASURE, DECOHERE, RANDOM).
func NewEngine(rng *numerics.Context) *Engine {
	return &Engine{
		osc:   newOscillatorState(),
		regs:  newRegisterFile(),
		holo:  NewHolographicStore(),
		rng:   rng,
		clock: systemClock{},
	}
}

// UseClock overrides the engine's wall-clock source, for deterministic
// tests of ExitStatus.ExecutionTimeMS.
func (e *Engine) UseClock(c Clock) {
	e.clock = c
}

// LoadProgram performs the load-time control-flow analysis pass
// (§4.6) and resets the engine to IP 0 with empty runtime stacks.
func (e *Engine) LoadProgram(p *Program) error {
	jt, err := buildJumpTables(p.Instructions)
	if err != nil {
		log.Errorf("load program: %v", err)
		return err
	}
	e.program = p
	e.jt = jt
	e.ip = 0
	e.cs = newControlStacks()
	e.running = false
	e.halted = false
	e.failed = false
	e.errorMessage = ""
	e.instructionsExecuted = 0
	return nil
}

// Register returns the value of one named register (0 if unset), e.g.
// for reading a test's expected output register after Run.
func (e *Engine) Register(name string) float64 {
	return e.regs.get(name)
}

// SetRegister pre-seeds a register before Run, for tests that drive a
// program with external inputs.
func (e *Engine) SetRegister(name string, v float64) {
	e.regs.set(name, v)
}

// Oscillator exposes one prime's current amplitude/phase.
func (e *Engine) Oscillator(p uint64) Oscillator {
	return *e.osc.get(p)
}

// Output returns every value emitted by OUTPUT so far, in order.
func (e *Engine) Output() []string {
	out := make([]string, len(e.output))
	copy(out, e.output)
	return out
}

// Failed reports whether the engine halted due to an unrecognised
// mnemonic, unresolved label, or stack-limit overflow.
func (e *Engine) Failed() bool {
	return e.failed
}

func (e *Engine) fail(msg string) {
	e.failed = true
	e.running = false
	e.errorMessage = msg
	log.Warnf("engine fault at ip=%d: %s", e.ip, msg)
}

func (e *Engine) emit(v string) {
	e.output = append(e.output, v)
}

// Step executes exactly one instruction, returning false when the
// engine stops (halted, failed, or past the end of the program).
func (e *Engine) Step() bool {
	if e.failed || e.halted {
		return false
	}
	if e.ip < 0 || e.ip >= len(e.program.Instructions) {
		e.halted = true
		e.running = false
		return false
	}

	instr := e.program.Instructions[e.ip]
	mnemonic := strings.ToUpper(instr.Mnemonic)
	handler, ok := opcodeTable[mnemonic]
	if !ok {
		e.fail(fmt.Sprintf("unknown mnemonic %q at line %d", instr.Mnemonic, instr.Line))
		return false
	}

	advance := handler(e, instr.Args)
	e.instructionsExecuted++
	if advance {
		e.ip++
	}
	return true
}

// Run steps the engine until it halts, fails, or maxSteps instructions
// have executed (maxSteps <= 0 means unbounded). The driver is
// responsible for bounding total steps to prevent runaway loops (§5).
func (e *Engine) Run(maxSteps int) ExitStatus {
	start := e.clock.Now()
	e.running = true

	count := 0
	for e.running && !e.halted && !e.failed {
		if maxSteps > 0 && count >= maxSteps {
			break
		}
		if !e.Step() {
			break
		}
		count++
	}

	elapsed := e.clock.Now().Sub(start)
	return ExitStatus{
		Success:              !e.failed,
		ExecutionTimeMS:      float64(elapsed.Nanoseconds()) / 1e6,
		InstructionsExecuted: e.instructionsExecuted,
		Error:                e.errorMessage,
	}
}

// resolveValue reads a numeric operand: a string argument names a
// register (0 if unset), an i32/f64 argument is its own value.
func (e *Engine) resolveValue(a Argument) float64 {
	if a.Kind == ArgString {
		return e.regs.get(a.str)
	}
	return a.AsFloat()
}

// coherence is cos(phase_p - phase_q) * amp_p * amp_q (§4.6).
func (e *Engine) coherence(p, q uint64) float64 {
	op := e.osc.get(p)
	oq := e.osc.get(q)
	return math.Cos(op.Phase-oq.Phase) * op.Amplitude * oq.Amplitude
}

// meanCoherence is the mean pairwise coherence across every oscillator
// touched so far (§4.6's COHERENCEALL/WAITCOH).
func (e *Engine) meanCoherence() float64 {
	primes := e.osc.primes()
	n := len(primes)
	if n < 2 {
		return 0
	}
	var sum float64
	var pairs int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sum += e.coherence(primes[i], primes[j])
			pairs++
		}
	}
	if pairs == 0 {
		return 0
	}
	return sum / float64(pairs)
}

// computeEntropy is the Shannon entropy (bits, normalized to [0,1] by
// log2(n)) of the probability vector p_i = amp_i^2 over every
// oscillator touched so far.
func (e *Engine) computeEntropy() float64 {
	primes := e.osc.primes()
	n := len(primes)
	if n <= 1 {
		return 0
	}

	probs := make([]float64, n)
	var sum float64
	for i, p := range primes {
		a := e.osc.get(p).Amplitude
		probs[i] = a * a
		sum += probs[i]
	}
	if sum == 0 {
		return 0
	}

	var h float64
	for _, pr := range probs {
		pn := pr / sum
		if pn <= 0 {
			continue
		}
		h -= pn * math.Log2(pn)
	}
	return h / math.Log2(float64(n))
}

// snapshotAmplitudes captures every touched oscillator's amplitude as
// a pattern, for HOLO_STORE.
func (e *Engine) snapshotAmplitudes() pattern {
	pat := make(pattern)
	for _, p := range e.osc.primes() {
		pat[p] = e.osc.get(p).Amplitude
	}
	return pat
}

// primeFactors returns n's distinct prime factors in ascending order,
// via trial division (FACTORIZE does not need Miller-Rabin: the VM's
// n operands are small enough that trial division is the simpler,
// equally-correct choice, matching the trial-division precheck of
// numerics.IsPrime rather than its witness-based Miller-Rabin path).
func primeFactors(n uint64) []uint64 {
	var factors []uint64
	if n < 2 {
		return factors
	}
	for n%2 == 0 {
		if len(factors) == 0 || factors[len(factors)-1] != 2 {
			factors = append(factors, 2)
		}
		n /= 2
	}
	for d := uint64(3); d*d <= n; d += 2 {
		for n%d == 0 {
			if len(factors) == 0 || factors[len(factors)-1] != d {
				factors = append(factors, d)
			}
			n /= d
		}
	}
	if n > 1 {
		factors = append(factors, n)
	}
	return factors
}
