package agent

import (
	"net/http"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

func (a *Agent) handleWindowHandle(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, a.windows.Handle())
}

func (a *Agent) handleWindowHandles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, a.windows.Handles())
}

func (a *Agent) handleWindowRect(w http.ResponseWriter, r *http.Request) {
	rect, err := a.windows.Rect()
	if err != nil {
		writeError(w, "unknown error", err)
		return
	}
	writeJSON(w, rect)
}

func (a *Agent) handleWindowSetRect(w http.ResponseWriter, r *http.Request) {
	var req wire.SetRectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid argument", err)
		return
	}
	current, err := a.windows.Rect()
	if err != nil {
		writeError(w, "unknown error", err)
		return
	}
	if req.X != nil {
		current.X = *req.X
	}
	if req.Y != nil {
		current.Y = *req.Y
	}
	if req.Width != nil {
		current.Width = *req.Width
	}
	if req.Height != nil {
		current.Height = *req.Height
	}
	if err := a.windows.SetRect(current); err != nil {
		writeError(w, "unknown error", err)
		return
	}
	writeJSON(w, current)
}

func (a *Agent) handleWindowSetCurrent(w http.ResponseWriter, r *http.Request) {
	var req wire.SetCurrentWindowRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid argument", err)
		return
	}
	if err := a.windows.SetCurrent(req.Handle); err != nil {
		writeError(w, "no such window", err)
		return
	}
	writeNull(w)
}

func (a *Agent) handleWindowClose(w http.ResponseWriter, r *http.Request) {
	if err := a.windows.Close(a.windows.Handle()); err != nil {
		writeError(w, "unknown error", err)
		return
	}
	writeJSON(w, a.windows.Handles())
}

func (a *Agent) handleWindowNew(w http.ResponseWriter, r *http.Request) {
	handle, err := a.windows.New()
	if err != nil {
		writeError(w, "unknown error", err)
		return
	}
	writeJSON(w, map[string]string{"handle": handle, "type": "window"})
}

func (a *Agent) handleWindowFullscreen(w http.ResponseWriter, r *http.Request) {
	if err := a.windows.Fullscreen(); err != nil {
		writeError(w, "unknown error", err)
		return
	}
	rect, err := a.windows.Rect()
	if err != nil {
		writeError(w, "unknown error", err)
		return
	}
	writeJSON(w, rect)
}

func (a *Agent) handleWindowMinimize(w http.ResponseWriter, r *http.Request) {
	if err := a.windows.Minimize(); err != nil {
		writeError(w, "unknown error", err)
		return
	}
	rect, err := a.windows.Rect()
	if err != nil {
		writeError(w, "unknown error", err)
		return
	}
	writeJSON(w, rect)
}

func (a *Agent) handleWindowMaximize(w http.ResponseWriter, r *http.Request) {
	if err := a.windows.Maximize(); err != nil {
		writeError(w, "unknown error", err)
		return
	}
	rect, err := a.windows.Rect()
	if err != nil {
		writeError(w, "unknown error", err)
		return
	}
	writeJSON(w, rect)
}

func (a *Agent) handleWindowInsets(w http.ResponseWriter, r *http.Request) {
	insets, err := a.windows.Insets()
	if err != nil {
		writeError(w, "unknown error", err)
		return
	}
	writeJSON(w, insets)
}
