package gateway

import (
	"os/exec"
	"sync"

	"github.com/google/uuid"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

// elementTriple is the gateway-side copy of spec.md §3's element table
// entry: a locator strategy, selector string, and index. W3C element ids
// map to these; the gateway never dereferences a live node itself, it only
// forwards the triple to the agent on every operation (spec.md §9's
// "elements as values" design note).
type elementTriple struct {
	Strategy wire.Strategy
	Selector string
	Index    int
}

// session is the gateway's single in-memory session, per spec.md §3 ("At
// most one exists in the gateway at a time"). All table mutation is
// serialized by mu; the span of an outbound HTTP call to the agent is
// never held under mu (spec.md §5).
type session struct {
	mu sync.Mutex

	id string

	cmd  *exec.Cmd
	port int

	timeouts wire.TimeoutConfig

	elements     map[string]elementTriple
	shadowRoots  map[string]elementTriple
}

func newSession(cmd *exec.Cmd, port int) *session {
	return &session{
		id:          uuid.NewString(),
		cmd:         cmd,
		port:        port,
		timeouts:    wire.DefaultTimeouts(),
		elements:    make(map[string]elementTriple),
		shadowRoots: make(map[string]elementTriple),
	}
}

// mintElement records a fresh W3C element id for triple. Per spec.md §4.C,
// a new id is minted on every find — even for a structurally identical
// triple already present in the table ("W3C demands no caller-visible
// dedup"), and spec.md §3's invariant that an id, once issued, is never
// reused.
func (s *session) mintElement(t elementTriple) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.elements[id] = t
	s.mu.Unlock()
	return id
}

// lookupElement resolves a W3C element id to its triple. The stale-element
// case (spec.md §8's identifier-stability property) is handled by the
// handler re-running the locator against the live DOM, not here — the
// table itself never expires an entry.
func (s *session) lookupElement(id string) (elementTriple, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.elements[id]
	return t, ok
}

func (s *session) mintShadow(t elementTriple) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.shadowRoots[id] = t
	s.mu.Unlock()
	return id
}

func (s *session) lookupShadow(id string) (elementTriple, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.shadowRoots[id]
	return t, ok
}

func (s *session) getTimeouts() wire.TimeoutConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeouts
}

func (s *session) setTimeouts(t wire.TimeoutConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.Script > 0 {
		s.timeouts.Script = t.Script
	}
	if t.Implicit >= 0 {
		s.timeouts.Implicit = t.Implicit
	}
	if t.PageLoad > 0 {
		s.timeouts.PageLoad = t.PageLoad
	}
}
