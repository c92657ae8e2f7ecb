package gateway

import (
	"net/http"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

func (g *Gateway) handleNavigateTo(sess *session, w http.ResponseWriter, r *http.Request) {
	var req wire.NavigateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeW3CError(w, NewW3CError(ErrInvalidArgument, err.Error()))
		return
	}
	if err := g.agentCall(r, "/navigate/url", req, nil); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, nil)
}

func (g *Gateway) handleCurrentURL(sess *session, w http.ResponseWriter, r *http.Request) {
	var url string
	if err := g.agentCall(r, "/navigate/current", nil, &url); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, url)
}

func (g *Gateway) handleTitle(sess *session, w http.ResponseWriter, r *http.Request) {
	var title string
	if err := g.agentCall(r, "/navigate/title", nil, &title); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, title)
}

func (g *Gateway) handleBack(sess *session, w http.ResponseWriter, r *http.Request) {
	if err := g.agentCall(r, "/navigate/back", nil, nil); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, nil)
}

func (g *Gateway) handleForward(sess *session, w http.ResponseWriter, r *http.Request) {
	if err := g.agentCall(r, "/navigate/forward", nil, nil); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, nil)
}

func (g *Gateway) handleRefresh(sess *session, w http.ResponseWriter, r *http.Request) {
	if err := g.agentCall(r, "/navigate/refresh", nil, nil); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, nil)
}

func (g *Gateway) handleSource(sess *session, w http.ResponseWriter, r *http.Request) {
	var html string
	if err := g.agentCall(r, "/source", nil, &html); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, html)
}
