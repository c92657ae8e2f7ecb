package agent

import (
	"context"
	"net/http"
	"time"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

func (a *Agent) pageLoadTimeout() time.Duration {
	a.mu.RLock()
	ms := a.timeouts.PageLoad
	a.mu.RUnlock()
	if ms <= 0 {
		ms = wire.DefaultTimeouts().PageLoad
	}
	return time.Duration(ms) * time.Millisecond
}

func (a *Agent) handleNavigateURL(w http.ResponseWriter, r *http.Request) {
	var req wire.NavigateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid argument", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), a.pageLoadTimeout())
	defer cancel()
	if err := a.view.Navigate(ctx, req.URL); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			writeError(w, "timeout", err)
			return
		}
		writeError(w, "unknown error", err)
		return
	}
	a.onNavigated()
	writeNull(w)
}

func (a *Agent) handleNavigateCurrent(w http.ResponseWriter, r *http.Request) {
	url, err := a.view.CurrentURL()
	if err != nil {
		writeError(w, "unknown error", err)
		return
	}
	writeJSON(w, url)
}

func (a *Agent) handleNavigateTitle(w http.ResponseWriter, r *http.Request) {
	title, err := a.view.Title()
	if err != nil {
		writeError(w, "unknown error", err)
		return
	}
	writeJSON(w, title)
}

func (a *Agent) handleNavigateBack(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), a.pageLoadTimeout())
	defer cancel()
	if err := a.view.Back(ctx); err != nil {
		writeError(w, "unknown error", err)
		return
	}
	a.onNavigated()
	writeNull(w)
}

func (a *Agent) handleNavigateForward(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), a.pageLoadTimeout())
	defer cancel()
	if err := a.view.Forward(ctx); err != nil {
		writeError(w, "unknown error", err)
		return
	}
	a.onNavigated()
	writeNull(w)
}

func (a *Agent) handleNavigateRefresh(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), a.pageLoadTimeout())
	defer cancel()
	if err := a.view.Refresh(ctx); err != nil {
		writeError(w, "unknown error", err)
		return
	}
	a.onNavigated()
	writeNull(w)
}

func (a *Agent) handleSource(w http.ResponseWriter, r *http.Request) {
	docExpr := a.frames.documentExpr()
	script := "return " + docExpr + ".documentElement.outerHTML;"
	a.runAndWriteJSON(w, r, script)
}
