package agent

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrTimeout is returned by pendingTable.wait when the deadline elapses
// before B.resolve is observed for the given id.
var ErrTimeout = errors.New("script timeout")

// slotState tracks the pending-script state machine from spec.md §4.B:
// unregistered -> registered(deadline) -> {resolved|timeout}. A timed-out
// slot is never deleted (spec.md §9's resolved Open Question): it is
// marked closed so a later, genuine B.resolve call for the same id is
// observed and silently dropped rather than panicking on a closed channel
// or resurrecting a call the HTTP handler has already abandoned.
type slotState int

const (
	slotRegistered slotState = iota
	slotResolved
	slotTimedOut
)

type slot struct {
	mu     sync.Mutex
	ch     chan json.RawMessage
	state  slotState
	closed bool
}

// pendingTable is the agent's one-shot result-slot registry, serialized by
// a single mutex per spec.md §5 ("Agent frame stack, window label, and
// pending-script table: mutated only inside the agent process, serialized
// by a lock").
type pendingTable struct {
	mu   sync.Mutex
	slot map[string]*slot
}

func newPendingTable() *pendingTable {
	return &pendingTable{slot: make(map[string]*slot)}
}

// register creates a fresh request id and its result slot.
func (p *pendingTable) register() (string, *slot) {
	id := uuid.NewString()
	s := &slot{ch: make(chan json.RawMessage, 1), state: slotRegistered}
	p.mu.Lock()
	p.slot[id] = s
	p.mu.Unlock()
	return id, s
}

// resolve is invoked by the bridge's B.resolve callback. A second call for
// the same id, or a call after the slot has already timed out, is a
// documented no-op.
func (p *pendingTable) resolve(id string, result json.RawMessage) {
	p.mu.Lock()
	s, ok := p.slot[id]
	p.mu.Unlock()
	if !ok {
		return
	}
	s.tryDeliver(result, slotResolved)
}

func (s *slot) tryDeliver(result json.RawMessage, newState slotState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.closed = true
	s.state = newState
	if newState == slotResolved {
		s.ch <- result
	}
	return true
}

// wait suspends until B.resolve fires or the deadline (ctx) elapses; a page
// that dies mid-eval surfaces as that timeout. On timeout the slot is
// marked timed-out and left registered, per the kept-not-dropped decision
// recorded in DESIGN.md.
func (p *pendingTable) wait(ctx context.Context, id string, s *slot) (json.RawMessage, error) {
	select {
	case result := <-s.ch:
		return result, nil
	case <-ctx.Done():
		s.tryDeliver(nil, slotTimedOut)
		return nil, ErrTimeout
	}
}
