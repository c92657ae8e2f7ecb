package agent

import (
	"net/http"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

// handleTimeoutsGet and handleTimeoutsSet back the gateway's
// /session/{id}/timeouts endpoint (SPEC_FULL.md, ADDED): the gateway owns
// the session object but the agent is what actually needs the numbers, so
// it keeps its own copy and the gateway pushes updates here.
func (a *Agent) handleTimeoutsGet(w http.ResponseWriter, r *http.Request) {
	a.mu.RLock()
	t := a.timeouts
	a.mu.RUnlock()
	writeJSON(w, t)
}

func (a *Agent) handleTimeoutsSet(w http.ResponseWriter, r *http.Request) {
	var req wire.TimeoutConfig
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid argument", err)
		return
	}
	a.mu.Lock()
	if req.Script > 0 {
		a.timeouts.Script = req.Script
	}
	if req.Implicit >= 0 {
		a.timeouts.Implicit = req.Implicit
	}
	if req.PageLoad > 0 {
		a.timeouts.PageLoad = req.PageLoad
	}
	t := a.timeouts
	a.mu.Unlock()
	writeJSON(w, t)
}
