package gateway

import (
	"net/http"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

func (g *Gateway) handleWindowHandle(sess *session, w http.ResponseWriter, r *http.Request) {
	var handle string
	if err := g.agentCall(r, "/window/handle", nil, &handle); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, handle)
}

func (g *Gateway) handleWindowHandles(sess *session, w http.ResponseWriter, r *http.Request) {
	var handles []string
	if err := g.agentCall(r, "/window/handles", nil, &handles); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, handles)
}

func (g *Gateway) handleWindowRect(sess *session, w http.ResponseWriter, r *http.Request) {
	var rect wire.Rect
	if err := g.agentCall(r, "/window/rect", nil, &rect); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, rect)
}

func (g *Gateway) handleWindowSetRect(sess *session, w http.ResponseWriter, r *http.Request) {
	var req wire.SetRectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeW3CError(w, NewW3CError(ErrInvalidArgument, err.Error()))
		return
	}
	var rect wire.Rect
	if err := g.agentCall(r, "/window/set-rect", req, &rect); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, rect)
}

// handleWindowSwitch implements the W3C "Switch To Window" command: the
// request body carries the target window handle directly (not wrapped
// under a W3C element/shadow key).
func (g *Gateway) handleWindowSwitch(sess *session, w http.ResponseWriter, r *http.Request) {
	var req wire.SetCurrentWindowRequest
	if err := decodeJSON(r, &req); err != nil {
		writeW3CError(w, NewW3CError(ErrInvalidArgument, err.Error()))
		return
	}
	if err := g.agentCall(r, "/window/set-current", req, nil); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, nil)
}

func (g *Gateway) handleWindowClose(sess *session, w http.ResponseWriter, r *http.Request) {
	var handles []string
	if err := g.agentCall(r, "/window/close", nil, &handles); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, handles)
}

func (g *Gateway) handleWindowNew(sess *session, w http.ResponseWriter, r *http.Request) {
	var out map[string]string
	if err := g.agentCall(r, "/window/new", nil, &out); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, out)
}

func (g *Gateway) handleWindowFullscreen(sess *session, w http.ResponseWriter, r *http.Request) {
	var rect wire.Rect
	if err := g.agentCall(r, "/window/fullscreen", nil, &rect); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, rect)
}

func (g *Gateway) handleWindowMinimize(sess *session, w http.ResponseWriter, r *http.Request) {
	var rect wire.Rect
	if err := g.agentCall(r, "/window/minimize", nil, &rect); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, rect)
}

func (g *Gateway) handleWindowMaximize(sess *session, w http.ResponseWriter, r *http.Request) {
	var rect wire.Rect
	if err := g.agentCall(r, "/window/maximize", nil, &rect); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, rect)
}
