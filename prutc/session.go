// Copyright (c) 2024 The Prime Resonance Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package prutc

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/EXCCoin/base58"
	"github.com/sschepis/prime-resonance-network/numerics"
	"github.com/sschepis/prime-resonance-network/prnerr"
	"github.com/sschepis/prime-resonance-network/primestate"
)

// extractDt is the fixed per-queued-perturbation evolution step used by
// ExtractMessages (§4.5's session state machine paragraph).
const extractDt = 0.01

// State is the CommunicationSession lifecycle state (§4.5).
type State int

// Session states.
const (
	StateUninitialised State = iota
	StateActive
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateUninitialised:
		return "Uninitialised"
	case StateActive:
		return "Active"
	case StateTerminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// queuedMessage pairs a pending perturbation with the user who injected
// it, so extraction can deliver the decoded payload to the other party.
type queuedMessage struct {
	sender       string
	perturbation *MessagePerturbation
}

// Session is a CommunicationSession (§3): it owns its shared field and
// message queues, and holds only its endpoints' user IDs — never
// ownership of their keys.
type Session struct {
	mu sync.Mutex

	ID           string
	UserA, UserB string
	Field        *primestate.PrimeState
	state        State

	mapping *PrimeMapping
	pending []queuedMessage
	inbox   map[string][]*DecodedPayload

	rng *numerics.Context
}

// newSession constructs a Session in the Uninitialised state, then
// immediately activates it by initializing the shared field — spec.md
// does not name a separate "initialize" operation distinct from
// establishment, so Uninitialised is transient within establishSession.
func newSession(id, userA, userB string, resA, resB *primestate.PrimeState, seed uint64) *Session {
	s := &Session{
		ID:      id,
		UserA:   userA,
		UserB:   userB,
		Field:   InitializeField(resA, resB),
		state:   StateUninitialised,
		mapping: NewPrimeMapping(),
		inbox:   make(map[string][]*DecodedPayload),
		rng:     numerics.NewContext(seed),
	}
	s.state = StateActive
	return s
}

// peerOf returns the other participant of user, or "" if user is not a
// participant.
func (s *Session) peerOf(user string) string {
	switch user {
	case s.UserA:
		return s.UserB
	case s.UserB:
		return s.UserA
	default:
		return ""
	}
}

// Inject encodes message and enqueues it as a pending perturbation from
// sender, per §4.5 ("Active transitions into itself on inject_message").
func (s *Session) Inject(sender, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateTerminated {
		return prnerr.New(prnerr.StateErrInvalidTransition, "session is terminated").
			WithContext("session_id", s.ID)
	}
	if s.peerOf(sender) == "" {
		return prnerr.New(prnerr.ValidationErrOutOfRange, "sender is not a session participant").
			WithContext("sender", sender)
	}

	pert := s.mapping.EncodeMessage(message)
	s.pending = append(s.pending, queuedMessage{sender: sender, perturbation: pert})
	s.state = StateActive
	return nil
}

// ExtractMessages drains the pending perturbation queue in injection
// order, evolving the field by extractDt per message and checking for a
// collapse window after each step; decoded payloads are delivered to the
// non-sender's inbox. It then returns and clears recipient's inbox.
func (s *Session) ExtractMessages(recipient string) ([]*DecodedPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateTerminated {
		return nil, prnerr.New(prnerr.StateErrInvalidTransition, "session is terminated").
			WithContext("session_id", s.ID)
	}
	if s.peerOf(recipient) == "" {
		return nil, prnerr.New(prnerr.ValidationErrOutOfRange, "recipient is not a session participant").
			WithContext("recipient", recipient)
	}

	for _, qm := range s.pending {
		EvolveField(s.Field, extractDt, qm.perturbation)
		if payload, ok := TryCollapse(s.Field, s.rng); ok {
			dest := s.peerOf(qm.sender)
			s.inbox[dest] = append(s.inbox[dest], payload)
		}
	}
	s.pending = nil
	s.state = StateActive

	out := s.inbox[recipient]
	delete(s.inbox, recipient)
	return out, nil
}

// Close synchronously tears the session down: pending queues are
// dropped and the field is discarded (§4.5/§5).
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
	s.inbox = nil
	s.Field = nil
	s.state = StateTerminated
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// deriveSessionID builds a content-derived, base58-encoded session ID
// from the two user IDs and the current resonance-key material, so a
// fresh session after key evolution gets a different ID (§8 scenario 6;
// see SPEC_FULL.md's Session IDs supplement).
func deriveSessionID(userA, userB string, resA, resB *primestate.PrimeState) string {
	material := []byte(userA + "|" + userB)
	for _, c := range resA.Coefficients() {
		material = appendComplexBytes(material, c)
	}
	for _, c := range resB.Coefficients() {
		material = appendComplexBytes(material, c)
	}
	digest := numerics.SHA256(material)
	return base58.Encode(digest[:16])
}

func appendComplexBytes(buf []byte, c complex128) []byte {
	var b [16]byte
	binary.BigEndian.PutUint64(b[0:8], math.Float64bits(real(c)))
	binary.BigEndian.PutUint64(b[8:16], math.Float64bits(imag(c)))
	return append(buf, b[:]...)
}
