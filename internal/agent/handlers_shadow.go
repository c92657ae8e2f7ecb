package agent

import (
	"encoding/json"
	"net/http"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

func (a *Agent) handleElementShadow(w http.ResponseWriter, r *http.Request) {
	var req wire.ShadowRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid argument", err)
		return
	}
	docExpr := a.frames.documentExpr()
	elem := elementExpr(docExpr, wire.StrategyCSS, req.Selector, req.Index)
	script := requireElementScript(elem) + `
if (!__el.shadowRoot) { return { hasShadow: false }; }
var __id = window.B.registerShadow(__el.shadowRoot);
return { hasShadow: true, id: __id };
`
	result, err := a.Eval(r.Context(), script, nil, a.scriptTimeout())
	if err != nil {
		writeScriptError(w, err)
		return
	}
	var out wire.ShadowResult
	if err := json.Unmarshal(result, &out); err != nil {
		writeError(w, "unknown error", err)
		return
	}
	writeJSON(w, out)
}

func (a *Agent) handleShadowFind(w http.ResponseWriter, r *http.Request) {
	var req wire.ShadowFindRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid argument", err)
		return
	}
	// HostSelector carries the shadow-table id minted by /element/shadow
	// (the gateway calls /element/shadow again right before every shadow
	// find and passes the fresh id back here).
	sel := jsString(req.Value)
	var script string
	if req.Using == wire.StrategyXPath {
		script = `
var __root = window.B.findElementInShadow(` + jsString(req.HostSelector) + `);
if (!__root) { var __e = new Error('shadow root not found'); __e.name = 'NoSuchElement'; throw __e; }
var __snap = document.evaluate(` + sel + `, __root, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
var __out = [];
for (var __i = 0; __i < __snap.snapshotLength; __i++) { __out.push({ selector: ` + sel + `, index: __i }); }
return __out;
`
	} else {
		script = `
var __root = window.B.findElementInShadow(` + jsString(req.HostSelector) + `);
if (!__root) { var __e = new Error('shadow root not found'); __e.name = 'NoSuchElement'; throw __e; }
var __n = __root.querySelectorAll(` + sel + `).length;
var __out = [];
for (var __i = 0; __i < __n; __i++) { __out.push({ selector: ` + sel + `, index: __i }); }
return __out;
`
	}
	result, err := a.Eval(r.Context(), script, nil, a.scriptTimeout())
	if err != nil {
		writeScriptError(w, err)
		return
	}
	var out []wire.FindResult
	if err := json.Unmarshal(result, &out); err != nil {
		writeError(w, "unknown error", err)
		return
	}
	writeJSON(w, out)
}
