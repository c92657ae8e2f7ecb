package agent

import (
	"encoding/json"
	"net/http"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

// Cookies live in window.B.cookies, an in-page object installed by the
// bridge, rather than the engine's native cookie jar: spec.md §3 calls this
// out explicitly ("the host URL scheme does not support the engine's
// native cookie interface"). Every handler in this file reads/writes that
// object through an eval rather than touching document.cookie.

const cookieListScript = `
var __out = [];
for (var __k in window.B.cookies) {
  if (Object.prototype.hasOwnProperty.call(window.B.cookies, __k)) { __out.push(window.B.cookies[__k]); }
}
return __out;
`

func (a *Agent) handleCookieGetAll(w http.ResponseWriter, r *http.Request) {
	a.runAndWriteJSON(w, r, cookieListScript)
}

func (a *Agent) handleCookieGet(w http.ResponseWriter, r *http.Request) {
	var req wire.GetCookieRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid argument", err)
		return
	}
	script := `
var __c = window.B.cookies[` + jsString(req.Name) + `];
if (!__c) { var __e = new Error('no such cookie'); __e.name = 'NoSuchCookie'; throw __e; }
return __c;
`
	result, err := a.Eval(r.Context(), script, nil, a.scriptTimeout())
	if err != nil {
		writeScriptError(w, err)
		return
	}
	var c wire.Cookie
	if err := json.Unmarshal(result, &c); err != nil {
		writeError(w, "unknown error", err)
		return
	}
	writeJSON(w, c)
}

func (a *Agent) handleCookieAdd(w http.ResponseWriter, r *http.Request) {
	var req wire.Cookie
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid argument", err)
		return
	}
	recordJSON, err := json.Marshal(req)
	if err != nil {
		writeError(w, "invalid argument", err)
		return
	}
	script := "window.B.cookies[" + jsString(req.Name) + "] = " + string(recordJSON) + "; return null;"
	a.runAndWriteNull(w, r, script)
}

func (a *Agent) handleCookieDelete(w http.ResponseWriter, r *http.Request) {
	var req wire.GetCookieRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid argument", err)
		return
	}
	script := "delete window.B.cookies[" + jsString(req.Name) + "]; return null;"
	a.runAndWriteNull(w, r, script)
}

func (a *Agent) handleCookieDeleteAll(w http.ResponseWriter, r *http.Request) {
	script := `
for (var __k in window.B.cookies) {
  if (Object.prototype.hasOwnProperty.call(window.B.cookies, __k)) { delete window.B.cookies[__k]; }
}
return null;
`
	a.runAndWriteNull(w, r, script)
}
