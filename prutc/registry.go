// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package prutc

import (
	"sync"
	"time"

	"github.com/decred/slog"
	"github.com/sschepis/prime-resonance-network/keytriplet"
	"github.com/sschepis/prime-resonance-network/prnerr"
)

// breakerFailureThreshold/breakerCooldown bound how many consecutive
// identity-resolution failures a Registry tolerates before refusing
// further session attempts for a cooldown period (§7's recovery-strategy
// contract).
const (
	breakerFailureThreshold = 3
	breakerCooldown         = 2 * time.Second
)

// log is the package-level logger, defaulting to Disabled per the
// teacher's UseLogger idiom (every decred package exposes this shape).
var log = slog.Disabled

// UseLogger sets the package-wide logger used for session lifecycle
// events.
func UseLogger(logger slog.Logger) {
	log = logger
}

// Registry is the PRUTCSystem of §5: it owns the identity map and hands
// out Sessions that hold only endpoint identifiers, never the
// identities' keys.
type Registry struct {
	mu         sync.Mutex
	identities map[string]*keytriplet.Keytriplet
	globalSeed string
	sessionSeq uint64

	breaker   *prnerr.CircuitBreaker
	telemetry *prnerr.Telemetry
}

// NewRegistry constructs a Registry bound to one global seed, used to
// derive every registered identity's keytriplet.
func NewRegistry(globalSeed string) *Registry {
	return &Registry{
		identities: make(map[string]*keytriplet.Keytriplet),
		globalSeed: globalSeed,
		breaker:    prnerr.NewCircuitBreaker(breakerFailureThreshold, breakerCooldown),
		telemetry:  prnerr.NewTelemetry(),
	}
}

// Telemetry returns the registry's error-count collector, polled by the
// driver rather than self-reporting (§7).
func (r *Registry) Telemetry() *prnerr.Telemetry {
	return r.telemetry
}

// recordFailure feeds err into both the circuit breaker and the
// telemetry collector.
func (r *Registry) recordFailure(err error) {
	r.breaker.RecordFailure()
	if pe, ok := err.(*prnerr.PRNError); ok {
		r.telemetry.Record(pe)
	}
}

// Register generates and stores a Keytriplet for userID, deterministic
// given the Registry's global seed.
func (r *Registry) Register(userID string) *keytriplet.Keytriplet {
	r.mu.Lock()
	defer r.mu.Unlock()

	kt := keytriplet.Generate(r.globalSeed, userID)
	r.identities[userID] = kt
	log.Infof("registered identity %q", userID)
	return kt
}

// Identity returns the Keytriplet registered for userID, or an error if
// no such identity exists.
func (r *Registry) Identity(userID string) (*keytriplet.Keytriplet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kt, ok := r.identities[userID]
	if !ok {
		return nil, prnerr.New(prnerr.NetworkErrNodeNotFound, "identity not registered").
			WithContext("user_id", userID)
	}
	return kt, nil
}

// EstablishSession creates a Session between userA and userB, deriving
// the shared field from their current resonance keys. Repeated identity
// resolution failures trip the registry's circuit breaker, after which
// EstablishSession refuses new attempts until the cooldown elapses.
func (r *Registry) EstablishSession(userA, userB string) (*Session, error) {
	if !r.breaker.Allow() {
		err := prnerr.New(prnerr.NetworkErrNodeNotFound,
			"circuit breaker open: too many recent session-establishment failures").
			WithContext("user_a", userA).WithContext("user_b", userB)
		r.telemetry.Record(err)
		log.Warnf("refusing to establish session %q/%q: circuit breaker open", userA, userB)
		return nil, err
	}

	ktA, err := r.Identity(userA)
	if err != nil {
		r.recordFailure(err)
		return nil, err
	}
	ktB, err := r.Identity(userB)
	if err != nil {
		r.recordFailure(err)
		return nil, err
	}

	r.mu.Lock()
	r.sessionSeq++
	seed := r.sessionSeq
	r.mu.Unlock()

	id := deriveSessionID(userA, userB, ktA.Resonance, ktB.Resonance)
	sess := newSession(id, userA, userB, ktA.Resonance, ktB.Resonance, seed)
	r.breaker.RecordSuccess()
	log.Infof("established session %s between %q and %q", id, userA, userB)
	return sess, nil
}

// EvolveKeys advances userID's keytriplet by dt, per §4.3's evolve.
func (r *Registry) EvolveKeys(userID string, dt float64) error {
	kt, err := r.Identity(userID)
	if err != nil {
		r.recordFailure(err)
		return err
	}
	kt.Evolve(dt)
	return nil
}

// Send is a convenience wrapper around Session.Inject matching spec.md
// scenario 6's "send(A, message)" phrasing.
func Send(sess *Session, sender, message string) error {
	return sess.Inject(sender, message)
}

// Receive is a convenience wrapper around Session.ExtractMessages
// matching spec.md scenario 6's "receive(B)" phrasing.
func Receive(sess *Session, recipient string) ([]*DecodedPayload, error) {
	return sess.ExtractMessages(recipient)
}
