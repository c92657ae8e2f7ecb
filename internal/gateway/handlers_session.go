package gateway

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

// handleStatus is the W3C Status command: a readiness probe every real
// WebDriver client polls during connection setup (SPEC_FULL.md §4.C,
// ADDED — spec.md §4.C mentions "exposes a readiness probe" without
// naming it).
func (g *Gateway) handleStatus(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	busy := g.sess != nil
	g.mu.Unlock()
	writeValue(w, map[string]any{
		"ready":   !busy,
		"message": statusMessage(busy),
	})
}

func statusMessage(busy bool) string {
	if busy {
		return "a session is already active"
	}
	return "no active session"
}

// handleCreateSession implements spec.md §4.C's session-create sequence:
// parse the target binary from capabilities, spawn it with the automation
// marker set, read its standard output for the agent's signature line up
// to a bounded deadline, and record the session.
func (g *Gateway) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req newSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeW3CError(w, NewW3CError(ErrInvalidArgument, err.Error()))
		return
	}
	binary, err := req.binaryPath()
	if err != nil {
		writeW3CError(w, NewW3CError(ErrInvalidArgument, err.Error()))
		return
	}

	g.mu.Lock()
	if g.sess != nil {
		g.mu.Unlock()
		writeW3CError(w, NewW3CError(ErrSessionNotCreated, "a session is already active"))
		return
	}
	g.mu.Unlock()

	timeout := time.Duration(g.cfg.Session.SpawnTimeoutMS) * time.Millisecond
	cmd, port, err := spawnApp(r.Context(), binary, timeout)
	if err != nil {
		writeW3CError(w, NewW3CError(ErrSessionNotCreated, err.Error()))
		return
	}

	sess := newSession(cmd, port)
	client := newAgentClient(port)

	g.mu.Lock()
	g.sess = sess
	g.client = client
	g.mu.Unlock()

	g.logger.Infof("session %s created, agent on port %d (binary %s)", sess.id, port, binary)

	writeValue(w, map[string]any{
		"sessionId":    sess.id,
		"capabilities": negotiatedCapabilities(binary),
	})
}

// handleDeleteSession implements spec.md §4.C's session-delete sequence.
func (g *Gateway) handleDeleteSession(sess *session, w http.ResponseWriter, r *http.Request) {
	g.closeSession()
	g.logger.Infof("session %s deleted", sess.id)
	writeValue(w, nil)
}

func (g *Gateway) handleGetTimeouts(sess *session, w http.ResponseWriter, r *http.Request) {
	writeValue(w, sess.getTimeouts())
}

func (g *Gateway) handleSetTimeouts(sess *session, w http.ResponseWriter, r *http.Request) {
	var req wire.TimeoutConfig
	if err := decodeJSON(r, &req); err != nil {
		writeW3CError(w, NewW3CError(ErrInvalidArgument, err.Error()))
		return
	}
	sess.setTimeouts(req)
	if err := g.agentCall(r, "/timeouts/set", req, nil); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, nil)
}

// agentCall is a convenience wrapper that resolves the current agent
// client under the lock span only (never across the call itself, per
// spec.md §5) and forwards to it.
func (g *Gateway) agentCall(r *http.Request, path string, body any, out any) error {
	g.mu.Lock()
	client := g.client
	g.mu.Unlock()
	if client == nil {
		return NewW3CError(ErrInvalidSessionID, "no active session")
	}
	return client.call(r.Context(), path, body, out)
}

func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if err.Error() == "EOF" {
			return nil
		}
		return err
	}
	return nil
}
