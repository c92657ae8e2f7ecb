package agent

import (
	"encoding/json"
	"net/http"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

// --- Find group ---

func (a *Agent) handleElementFind(w http.ResponseWriter, r *http.Request) {
	var req wire.FindRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid argument", err)
		return
	}
	docExpr := a.frames.documentExpr()
	result, err := a.Eval(r.Context(), findAllScript(docExpr, req.Using, req.Value), nil, a.scriptTimeout())
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

func (a *Agent) handleElementFindFrom(w http.ResponseWriter, r *http.Request) {
	var req wire.FindFromRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid argument", err)
		return
	}
	docExpr := a.frames.documentExpr()
	parentExpr := elementExpr(docExpr, wire.StrategyCSS, req.ParentSelector, req.ParentIndex)
	result, err := a.Eval(r.Context(), findAllFromScript(docExpr, parentExpr, req.Using, req.Value), nil, a.scriptTimeout())
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

// --- Read group ---

func (a *Agent) elementPropertyScript(req wire.ElementRequest, expr string) string {
	docExpr := a.frames.documentExpr()
	elem := elementExpr(docExpr, wire.StrategyCSS, req.Selector, req.Index)
	return requireElementScript(elem) + "\nreturn " + expr + ";"
}

func (a *Agent) handleElementText(w http.ResponseWriter, r *http.Request) {
	var req wire.ElementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid argument", err)
		return
	}
	a.evalElementString(w, r, req, "(__el.innerText != null ? __el.innerText : __el.textContent) || ''")
}

func (a *Agent) handleElementTag(w http.ResponseWriter, r *http.Request) {
	var req wire.ElementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid argument", err)
		return
	}
	a.evalElementString(w, r, req, "__el.tagName.toLowerCase()")
}

func (a *Agent) handleElementAttribute(w http.ResponseWriter, r *http.Request) {
	var req wire.AttributeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid argument", err)
		return
	}
	docExpr := a.frames.documentExpr()
	elem := elementExpr(docExpr, wire.StrategyCSS, req.Selector, req.Index)
	script := requireElementScript(elem) + "\nreturn __el.getAttribute(" + jsString(req.Name) + ");"
	a.runAndWriteJSON(w, r, script)
}

func (a *Agent) handleElementProperty(w http.ResponseWriter, r *http.Request) {
	var req wire.AttributeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid argument", err)
		return
	}
	docExpr := a.frames.documentExpr()
	elem := elementExpr(docExpr, wire.StrategyCSS, req.Selector, req.Index)
	script := requireElementScript(elem) + "\nreturn __el[" + jsString(req.Name) + "];"
	a.runAndWriteJSON(w, r, script)
}

func (a *Agent) handleElementRect(w http.ResponseWriter, r *http.Request) {
	var req wire.ElementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid argument", err)
		return
	}
	docExpr := a.frames.documentExpr()
	elem := elementExpr(docExpr, wire.StrategyCSS, req.Selector, req.Index)
	script := requireElementScript(elem) + `
var __r = __el.getBoundingClientRect();
return { x: __r.x, y: __r.y, width: __r.width, height: __r.height };
`
	result, err := a.Eval(r.Context(), script, nil, a.scriptTimeout())
	if err != nil {
		writeScriptError(w, err)
		return
	}
	var rect wire.Rect
	if err := json.Unmarshal(result, &rect); err != nil {
		writeError(w, "unknown error", err)
		return
	}
	writeJSON(w, rect)
}

func (a *Agent) handleElementDisplayed(w http.ResponseWriter, r *http.Request) {
	var req wire.ElementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid argument", err)
		return
	}
	a.evalElementBool(w, r, req, `
var __style = window.getComputedStyle(__el);
var __r = __el.getBoundingClientRect();
__style.display !== 'none' && __style.visibility !== 'hidden' && __style.opacity !== '0' && (__r.width > 0 && __r.height > 0)`)
}

func (a *Agent) handleElementEnabled(w http.ResponseWriter, r *http.Request) {
	var req wire.ElementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid argument", err)
		return
	}
	a.evalElementBool(w, r, req, "!__el.disabled")
}

func (a *Agent) handleElementSelected(w http.ResponseWriter, r *http.Request) {
	var req wire.ElementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid argument", err)
		return
	}
	a.evalElementBool(w, r, req, "!!(__el.selected || __el.checked)")
}

func (a *Agent) handleElementComputedRole(w http.ResponseWriter, r *http.Request) {
	var req wire.ElementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid argument", err)
		return
	}
	a.evalElementString(w, r, req, "(__el.getAttribute('role') || __el.tagName.toLowerCase())")
}

func (a *Agent) handleElementComputedLabel(w http.ResponseWriter, r *http.Request) {
	var req wire.ElementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid argument", err)
		return
	}
	a.evalElementString(w, r, req, "(__el.getAttribute('aria-label') || __el.innerText || __el.textContent || '')")
}

func (a *Agent) handleElementActive(w http.ResponseWriter, r *http.Request) {
	docExpr := a.frames.documentExpr()
	script := "return window.B.getActiveElement(" + docExpr + ");"
	result, err := a.Eval(r.Context(), script, nil, a.scriptTimeout())
	if err != nil {
		writeScriptError(w, err)
		return
	}
	if string(result) == "null" {
		writeError(w, "no such element", errNoActiveElement)
		return
	}
	var ref wire.FindResult
	if err := json.Unmarshal(result, &ref); err != nil {
		writeError(w, "unknown error", err)
		return
	}
	writeJSON(w, ref)
}

// --- Write group ---

func (a *Agent) handleElementClick(w http.ResponseWriter, r *http.Request) {
	var req wire.ElementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid argument", err)
		return
	}
	docExpr := a.frames.documentExpr()
	elem := elementExpr(docExpr, wire.StrategyCSS, req.Selector, req.Index)
	script := requireElementScript(elem) + "\n__el.click();"
	a.runAndWriteNull(w, r, script)
}

func (a *Agent) handleElementClear(w http.ResponseWriter, r *http.Request) {
	var req wire.ElementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid argument", err)
		return
	}
	docExpr := a.frames.documentExpr()
	elem := elementExpr(docExpr, wire.StrategyCSS, req.Selector, req.Index)
	script := requireElementScript(elem) + `
if ('value' in __el) { __el.value = ''; } else { __el.textContent = ''; }
__el.dispatchEvent(new Event('input', { bubbles: true }));
__el.dispatchEvent(new Event('change', { bubbles: true }));
`
	a.runAndWriteNull(w, r, script)
}

func (a *Agent) handleElementSendKeys(w http.ResponseWriter, r *http.Request) {
	var req wire.SendKeysRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid argument", err)
		return
	}
	docExpr := a.frames.documentExpr()
	elem := elementExpr(docExpr, wire.StrategyCSS, req.Selector, req.Index)
	script := requireElementScript(elem) + `
__el.focus();
var __text = ` + jsString(req.Text) + `;
if ('value' in __el) {
  __el.value = (__el.value || '') + __text;
} else {
  __el.textContent = (__el.textContent || '') + __text;
}
__el.dispatchEvent(new Event('input', { bubbles: true }));
__el.dispatchEvent(new Event('change', { bubbles: true }));
`
	a.runAndWriteNull(w, r, script)
}

func (a *Agent) handleElementSetFiles(w http.ResponseWriter, r *http.Request) {
	var req wire.SetFilesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid argument", err)
		return
	}
	// File input assignment requires host-side file-dialog automation that
	// cannot be expressed from page JS alone; the host view implementation
	// is expected to intercept this via its own file-picker hook. The agent
	// still validates the element exists so callers get a correct error for
	// a missing target.
	docExpr := a.frames.documentExpr()
	elem := elementExpr(docExpr, wire.StrategyCSS, req.Selector, req.Index)
	script := requireElementScript(elem) + "\nreturn null;"
	_, err := a.Eval(r.Context(), script, nil, a.scriptTimeout())
	if err != nil {
		writeScriptError(w, err)
		return
	}
	if err := a.view.SetFiles(req.Selector, req.Index, req.Paths); err != nil {
		writeError(w, "unknown error", err)
		return
	}
	writeNull(w)
}

// --- shared eval plumbing ---

func (a *Agent) evalElementString(w http.ResponseWriter, r *http.Request, req wire.ElementRequest, expr string) {
	script := a.elementPropertyScript(req, expr)
	a.runAndWriteJSON(w, r, script)
}

func (a *Agent) evalElementBool(w http.ResponseWriter, r *http.Request, req wire.ElementRequest, expr string) {
	script := a.elementPropertyScript(req, "!!("+expr+")")
	a.runAndWriteJSON(w, r, script)
}

func (a *Agent) runAndWriteJSON(w http.ResponseWriter, r *http.Request, script string) {
	result, err := a.Eval(r.Context(), script, nil, a.scriptTimeout())
	if err != nil {
		writeScriptError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(result)
}

func (a *Agent) runAndWriteNull(w http.ResponseWriter, r *http.Request, script string) {
	_, err := a.Eval(r.Context(), script, nil, a.scriptTimeout())
	if err != nil {
		writeScriptError(w, err)
		return
	}
	writeNull(w)
}

// writeScriptError maps a pending-table timeout or a thrown-in-page error to
// the agent's error envelope. The thrown error's name (set by
// requireElementScript or by the user script itself) becomes the error
// code, and an unrecognized name falls back to "javascript error", spec.md
// §7's catch-all for an uncaught page-side exception. Errors that did not
// come from the page (e.g. a failed dispatch) become "unknown error".
func writeScriptError(w http.ResponseWriter, err error) {
	if err == ErrTimeout {
		writeError(w, "script timeout", err)
		return
	}
	if se, ok := err.(*ScriptError); ok {
		writeError(w, scriptErrorCode(se.Code), se)
		return
	}
	writeError(w, "unknown error", err)
}

// scriptErrorCode maps the in-page Error name set by requireElementScript
// (or left as the JS engine's default, e.g. "TypeError") onto the agent's
// error vocabulary. Anything unrecognized becomes "javascript error", per
// spec.md §7's catch-all for an uncaught page-side exception.
func scriptErrorCode(name string) string {
	switch name {
	case "NoSuchElement":
		return "no such element"
	case "StaleElementReference":
		return "stale element reference"
	case "NoSuchAlert":
		return "no such alert"
	case "NoSuchCookie":
		return "no such cookie"
	case "UnsupportedOperation":
		return "unsupported operation"
	default:
		return "javascript error"
	}
}
