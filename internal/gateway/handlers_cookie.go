package gateway

import (
	"net/http"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

func (g *Gateway) handleCookieGetAll(sess *session, w http.ResponseWriter, r *http.Request) {
	var cookies []wire.Cookie
	if err := g.agentCall(r, "/cookie/get-all", nil, &cookies); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	if cookies == nil {
		cookies = []wire.Cookie{}
	}
	writeValue(w, cookies)
}

func (g *Gateway) handleCookieGet(sess *session, w http.ResponseWriter, r *http.Request) {
	var c wire.Cookie
	req := wire.GetCookieRequest{Name: r.PathValue("name")}
	if err := g.agentCall(r, "/cookie/get", req, &c); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, c)
}

func (g *Gateway) handleCookieAdd(sess *session, w http.ResponseWriter, r *http.Request) {
	var body struct {
		Cookie wire.Cookie `json:"cookie"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeW3CError(w, NewW3CError(ErrInvalidArgument, err.Error()))
		return
	}
	if err := g.agentCall(r, "/cookie/add", body.Cookie, nil); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, nil)
}

func (g *Gateway) handleCookieDelete(sess *session, w http.ResponseWriter, r *http.Request) {
	req := wire.GetCookieRequest{Name: r.PathValue("name")}
	if err := g.agentCall(r, "/cookie/delete", req, nil); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, nil)
}

func (g *Gateway) handleCookieDeleteAll(sess *session, w http.ResponseWriter, r *http.Request) {
	if err := g.agentCall(r, "/cookie/delete-all", nil, nil); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, nil)
}
