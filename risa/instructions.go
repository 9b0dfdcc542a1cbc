// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package risa

import (
	"fmt"
	"math"
)

// opcodeHandler executes one instruction's arguments against e and
// reports whether the engine should auto-advance IP (§4.6's
// "handlers return a boolean indicating advance IP").
type opcodeHandler func(e *Engine, args []Argument) bool

// opcodeTable is the mnemonic-uppercased jump table §4.6 describes
// being built once at load time; here it is static and built once at
// package init since handlers do not vary per program.
var opcodeTable map[string]opcodeHandler

func init() {
	opcodeTable = map[string]opcodeHandler{
		"LOAD":             opLoad,
		"ADD":              opAdd,
		"SCALE":            opScale,
		"MIX":              opMix,
		"SETPHASE":         opSetPhase,
		"ADVPHASE":         opAdvPhase,
		"DECOHERE":         opDecohere,
		"ENTANGLE":         opEntangle,
		"COLLAPSE":         opCollapse,
		"MEASURE":          opMeasure,
		"OBSERVE":          opObserve,
		"RECONSTRUCT":      opReconstruct,
		"IF":               opIf,
		"IFCOH":            opIfCoh,
		"ELSE":             opElse,
		"ENDIF":            opEndIf,
		"LOOP":             opLoop,
		"ENDLOOP":          opEndLoop,
		"WHILE":            opWhile,
		"ENDWHILE":         opEndWhile,
		"BREAK":            opBreak,
		"CONTINUE":         opContinue,
		"GOTO":             opGoto,
		"CALL":             opCall,
		"RETURN":           opReturn,
		"LABEL":            opLabel,
		"HALT":             opHalt,
		"COHERENCE":        opCoherence,
		"COHERENCEALL":     opCoherenceAll,
		"THRESHOLD":        opThreshold,
		"WAITCOH":          opWaitCoh,
		"EVOLVE":           opEvolve,
		"ENTROPY":          opEntropy,
		"FACTORIZE":        opFactorize,
		"RESONANCE":        opResonance,
		"HOLO_STORE":       opHoloStore,
		"HOLO_RETRIEVE":    opHoloRetrieve,
		"HOLO_FRAGMENT":    opHoloFragment,
		"HOLO_RECONSTRUCT": opHoloReconstruct,
		"TICK":             opTick,
		"RANDOM":           opRandom,
		"OUTPUT":           opOutput,
	}
}

// comparisonAliases maps §4.6's textual operator aliases onto the
// canonical mnemonic form.
var comparisonAliases = map[string]string{
	"==": "EQ", "!=": "NE",
	"<": "LT", "<=": "LE",
	">": "GT", ">=": "GE",
}

func compareOp(op string, a, b float64) bool {
	if canon, ok := comparisonAliases[op]; ok {
		op = canon
	}
	switch op {
	case "EQ":
		return a == b
	case "NE":
		return a != b
	case "LT":
		return a < b
	case "LE":
		return a <= b
	case "GT":
		return a > b
	case "GE":
		return a >= b
	default:
		return false
	}
}

// --- Symbolic amplitude ---

func opLoad(e *Engine, args []Argument) bool {
	p := args[0].AsUint64()
	e.osc.get(p).Amplitude = clamp01(args[1].AsFloat())
	return true
}

func opAdd(e *Engine, args []Argument) bool {
	p := args[0].AsUint64()
	osc := e.osc.get(p)
	osc.Amplitude = clamp01(osc.Amplitude + args[1].AsFloat())
	return true
}

func opScale(e *Engine, args []Argument) bool {
	p := args[0].AsUint64()
	osc := e.osc.get(p)
	osc.Amplitude = clamp01(osc.Amplitude * args[1].AsFloat())
	return true
}

func opMix(e *Engine, args []Argument) bool {
	p := args[0].AsUint64()
	q := args[1].AsUint64()
	r := args[2].AsFloat()
	pOsc := e.osc.get(p)
	qOsc := e.osc.get(q)
	pOsc.Amplitude = clamp01((1-r)*pOsc.Amplitude + r*qOsc.Amplitude)
	return true
}

// --- Phase ---

func opSetPhase(e *Engine, args []Argument) bool {
	p := args[0].AsUint64()
	e.osc.get(p).Phase = wrapPhase(args[1].AsFloat())
	return true
}

func opAdvPhase(e *Engine, args []Argument) bool {
	p := args[0].AsUint64()
	dt := args[1].AsFloat()
	if p == 0 {
		return true
	}
	osc := e.osc.get(p)
	osc.Phase = wrapPhase(osc.Phase + dt/float64(p))
	return true
}

func opDecohere(e *Engine, args []Argument) bool {
	p := args[0].AsUint64()
	e.osc.get(p).Phase = e.rng.Random() * 2 * math.Pi
	return true
}

func opEntangle(e *Engine, args []Argument) bool {
	p := args[0].AsUint64()
	q := args[1].AsUint64()
	e.osc.entangled[e.holo.keys.pairKey(p, q)] = true
	return true
}

// --- Quantum/measurement ---

func opCollapse(e *Engine, _ []Argument) bool {
	primes := e.osc.primes()
	if len(primes) == 0 {
		return true
	}

	weights := make([]float64, len(primes))
	var total float64
	for i, p := range primes {
		a := e.osc.get(p).Amplitude
		weights[i] = a * a
		total += weights[i]
	}

	chosen := primes[len(primes)-1]
	if total == 0 {
		chosen = primes[0]
	} else {
		r := e.rng.Random() * total
		var cum float64
		for i, w := range weights {
			cum += w
			if r <= cum {
				chosen = primes[i]
				break
			}
		}
	}

	for _, p := range primes {
		e.osc.get(p).Amplitude = 0
	}
	e.osc.get(chosen).Amplitude = 1
	return true
}

func opMeasure(e *Engine, args []Argument) bool {
	p := args[0].AsUint64()
	reg := args[1].AsString()
	osc := e.osc.get(p)
	prob := osc.Amplitude * osc.Amplitude

	var outcome float64
	if e.rng.Random() < prob {
		outcome = 1
		for _, q := range e.osc.primes() {
			if q != p {
				e.osc.get(q).Amplitude = 0
			}
		}
		osc.Amplitude = 1
	} else {
		osc.Amplitude = 0
	}
	e.regs.set(reg, outcome)
	return true
}

func opObserve(e *Engine, args []Argument) bool {
	p := args[0].AsUint64()
	base := fmt.Sprintf("%d", p)
	if len(args) > 1 {
		base = args[1].AsString()
	}
	osc := e.osc.get(p)
	e.regs.set(base+"_amp", osc.Amplitude)
	e.regs.set(base+"_phase", osc.Phase)
	return true
}

func opReconstruct(e *Engine, args []Argument) bool {
	name := args[0].AsString()
	reg := args[1].AsString()
	if sum, ok := e.holo.Reconstruct(name); ok {
		e.regs.set(reg, sum)
		return true
	}
	sum, _ := e.holo.Retrieve(name, -1)
	e.regs.set(reg, sum)
	return true
}

// --- Control flow ---

// enterIf pushes a condition frame and, for a false condition, jumps
// directly past the branch that should not execute (§4.6's pairing
// pass: ELSE/ENDIF already resolved at load time).
func (e *Engine) enterIf(cond bool) bool {
	scope := e.jt.ifScopes[e.ip]
	if scope == nil {
		e.fail("IF/IFCOH missing its load-time scope")
		return false
	}
	if !e.cs.pushCondition(e.ip) {
		e.fail("condition stack overflow")
		return false
	}
	if cond {
		return true
	}
	idx := e.jt.ifIndex[e.ip]
	if e.jt.hasElseSet.Get(uint32(idx)) {
		e.ip = scope.elseIP + 1
		return false
	}
	e.cs.popCondition()
	e.ip = scope.endIP + 1
	return false
}

func opIf(e *Engine, args []Argument) bool {
	a := e.resolveValue(args[0])
	op := args[1].AsString()
	b := e.resolveValue(args[2])
	return e.enterIf(compareOp(op, a, b))
}

func opIfCoh(e *Engine, args []Argument) bool {
	p1 := args[0].AsUint64()
	p2 := args[1].AsUint64()
	op := args[2].AsString()
	t := args[3].AsFloat()
	return e.enterIf(compareOp(op, e.coherence(p1, p2), t))
}

func opElse(e *Engine, _ []Argument) bool {
	ifIP, ok := e.jt.elseOwner[e.ip]
	if !ok {
		e.fail("ELSE missing its load-time owner")
		return false
	}
	scope := e.jt.ifScopes[ifIP]
	e.cs.popCondition()
	e.ip = scope.endIP + 1
	return false
}

func opEndIf(e *Engine, _ []Argument) bool {
	e.cs.popCondition()
	return true
}

func opLoop(e *Engine, args []Argument) bool {
	n := args[0].AsInt()
	endIP := e.jt.loopEnd[e.ip]
	if n <= 0 {
		e.ip = endIP + 1
		return false
	}
	if !e.cs.pushLoop(loopFrame{startIP: e.ip, endIP: endIP, limit: n}) {
		e.fail("loop stack overflow")
		return false
	}
	return true
}

func opEndLoop(e *Engine, _ []Argument) bool {
	frame, ok := e.cs.topLoop()
	if !ok {
		e.fail("ENDLOOP without a matching LOOP")
		return false
	}
	frame.iteration++
	if frame.iteration < frame.limit {
		e.ip = frame.startIP + 1
		return false
	}
	e.cs.popLoop()
	return true
}

func opWhile(e *Engine, args []Argument) bool {
	a := e.resolveValue(args[0])
	op := args[1].AsString()
	b := e.resolveValue(args[2])
	endIP := e.jt.loopEnd[e.ip]

	if !compareOp(op, a, b) {
		e.ip = endIP + 1
		return false
	}
	if !e.cs.pushLoop(loopFrame{startIP: e.ip, endIP: endIP, isWhile: true}) {
		e.fail("loop stack overflow")
		return false
	}
	return true
}

func opEndWhile(e *Engine, _ []Argument) bool {
	startIP, ok := e.jt.loopStart[e.ip]
	if !ok {
		e.fail("ENDWHILE without a matching WHILE")
		return false
	}
	e.cs.popLoop()
	e.ip = startIP
	return false
}

func opBreak(e *Engine, _ []Argument) bool {
	frame, ok := e.cs.topBreakableLoop()
	if !ok {
		e.fail("BREAK outside a loop reachable from the current call frame")
		return false
	}
	endIP := frame.endIP
	e.cs.popLoop()
	e.ip = endIP + 1
	return false
}

func opContinue(e *Engine, _ []Argument) bool {
	frame, ok := e.cs.topBreakableLoop()
	if !ok {
		e.fail("CONTINUE outside a loop reachable from the current call frame")
		return false
	}
	e.ip = frame.endIP
	return false
}

func opGoto(e *Engine, args []Argument) bool {
	label := args[0].AsString()
	ip, ok := e.jt.labels[label]
	if !ok {
		e.fail(fmt.Sprintf("unresolved label %q", label))
		return false
	}
	e.ip = ip
	return false
}

func opCall(e *Engine, args []Argument) bool {
	label := args[0].AsString()
	target, ok := e.jt.labels[label]
	if !ok {
		e.fail(fmt.Sprintf("unresolved label %q", label))
		return false
	}
	if !e.cs.pushCall(callFrame{returnIP: e.ip + 1}) {
		e.fail("call stack overflow")
		return false
	}
	e.ip = target
	return false
}

func opReturn(e *Engine, _ []Argument) bool {
	frame, ok := e.cs.popCall()
	if !ok {
		e.fail("RETURN without a matching CALL")
		return false
	}
	e.ip = frame.returnIP
	return false
}

func opLabel(_ *Engine, _ []Argument) bool {
	return true
}

func opHalt(e *Engine, _ []Argument) bool {
	e.halted = true
	e.running = false
	return false
}

// --- Coherence/entropy ---

func opCoherence(e *Engine, args []Argument) bool {
	p := args[0].AsUint64()
	q := args[1].AsUint64()
	reg := args[2].AsString()
	e.regs.set(reg, e.coherence(p, q))
	return true
}

func opCoherenceAll(e *Engine, args []Argument) bool {
	reg := args[0].AsString()
	e.regs.set(reg, e.meanCoherence())
	return true
}

func opThreshold(e *Engine, args []Argument) bool {
	reg := args[0].AsString()
	t := args[1].AsFloat()
	return e.regs.get(reg) >= t
}

func opWaitCoh(e *Engine, args []Argument) bool {
	t := args[0].AsFloat()
	return e.meanCoherence() >= t
}

// --- Resonance/evolution ---

func opEvolve(e *Engine, args []Argument) bool {
	dt := args[0].AsFloat()
	s := e.computeEntropy()
	damp := math.Exp(-s * dt)
	for _, p := range e.osc.primes() {
		osc := e.osc.get(p)
		osc.Amplitude = clamp01(osc.Amplitude * damp)
	}
	e.elapsed += dt
	return true
}

func opEntropy(e *Engine, args []Argument) bool {
	reg := args[0].AsString()
	e.regs.set(reg, e.computeEntropy())
	return true
}

func opFactorize(e *Engine, args []Argument) bool {
	n := args[0].AsUint64()
	reg := args[1].AsString()
	factors := primeFactors(n)
	for _, p := range factors {
		osc := e.osc.get(p)
		osc.Amplitude = clamp01(osc.Amplitude + 0.1)
	}
	e.regs.set(reg, float64(len(factors)))
	return true
}

func opResonance(e *Engine, args []Argument) bool {
	p := args[0].AsUint64()
	v := args[1].AsFloat()
	if p > 1 && v > 0 {
		delta := 2 * math.Pi * math.Log(v) / math.Log(float64(p))
		osc := e.osc.get(p)
		osc.Phase = wrapPhase(osc.Phase + delta)
	}
	return true
}

// --- Holographic ---

func opHoloStore(e *Engine, args []Argument) bool {
	pat := args[0].AsString()
	key := args[1].AsString()
	snapshot := e.snapshotAmplitudes()
	e.holo.Store(pat, snapshot)
	e.holo.Store(key, snapshot)
	return true
}

func opHoloRetrieve(e *Engine, args []Argument) bool {
	key := args[0].AsString()
	threshold := args[1].AsFloat()
	reg := args[2].AsString()
	sum, _ := e.holo.Retrieve(key, threshold)
	e.regs.set(reg, sum)
	return true
}

func opHoloFragment(e *Engine, args []Argument) bool {
	pat := args[0].AsString()
	n := args[1].AsInt()
	outBase := args[2].AsString()

	count, err := e.holo.Fragment(pat, n, outBase)
	if err != nil {
		e.fail(err.Error())
		return false
	}
	e.regs.set(outBase+"_COUNT", float64(count))
	for i := 0; i < count; i++ {
		fragName := fmt.Sprintf("%s_%d", outBase, i)
		sum, _ := e.holo.Retrieve(fragName, -1)
		e.regs.set(fragName, sum)
	}
	return true
}

func opHoloReconstruct(e *Engine, args []Argument) bool {
	base := args[0].AsString()
	reg := args[1].AsString()
	sum, _ := e.holo.Reconstruct(base)
	e.regs.set(reg, sum)
	return true
}

// --- System ---

func opTick(e *Engine, _ []Argument) bool {
	e.elapsed += 0.01
	return true
}

func opRandom(e *Engine, args []Argument) bool {
	p := args[0].AsUint64()
	osc := e.osc.get(p)
	osc.Amplitude = e.rng.Random()
	osc.Phase = e.rng.Random() * 2 * math.Pi
	return true
}

func opOutput(e *Engine, args []Argument) bool {
	e.emit(fmt.Sprintf("%g", e.resolveValue(args[0])))
	return true
}
