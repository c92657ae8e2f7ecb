package agent

import (
	"encoding/json"
	"net/http"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

// rasterizeScript is the callback-eval body spec.md §4.B prescribes for
// both /screenshot and /screenshot/element: serialize __target into an
// inline SVG <foreignObject>, draw it onto a canvas through an Image
// element's load callback, and resolve with the canvas's base64 PNG
// export. This is the only capture mechanism available to page JS without
// a native host-level screenshot hook, matching spec.md §1's stated
// non-goal of pixel-accurate chrome capture: it rasterizes DOM content
// only, never the surrounding window chrome.
const rasterizeScript = `
var __rect = __target.getBoundingClientRect();
var __width = Math.max(1, Math.ceil(__rect.width));
var __height = Math.max(1, Math.ceil(__rect.height));
var __html = new XMLSerializer().serializeToString(__target);
var __svg = '<svg xmlns="http://www.w3.org/2000/svg" width="' + __width + '" height="' + __height + '">' +
  '<foreignObject width="100%" height="100%">' +
  '<div xmlns="http://www.w3.org/1999/xhtml">' + __html + '</div>' +
  '</foreignObject></svg>';
var __url = 'data:image/svg+xml;charset=utf-8,' + encodeURIComponent(__svg);
var __img = new Image();
__img.onload = function () {
  var __canvas = document.createElement('canvas');
  __canvas.width = __width;
  __canvas.height = __height;
  var __ctx = __canvas.getContext('2d');
  __ctx.drawImage(__img, 0, 0);
  var __dataURL = __canvas.toDataURL('image/png');
  done(__dataURL.slice(__dataURL.indexOf(',') + 1));
};
__img.onerror = function () {
  var __e = new Error('failed to rasterize element to image');
  __e.name = 'JavaScriptError';
  done(__e);
};
__img.src = __url;
`

// capture runs targetSetup (which must define __target, the node to
// rasterize) followed by rasterizeScript as a callback eval, and writes
// the resulting base64 PNG string.
func (a *Agent) capture(w http.ResponseWriter, r *http.Request, targetSetup string) {
	result, err := a.EvalCallback(r.Context(), targetSetup+"\n"+rasterizeScript, nil, a.scriptTimeout())
	if err != nil {
		writeScriptError(w, err)
		return
	}
	var b64 string
	if err := json.Unmarshal(result, &b64); err != nil {
		writeError(w, "unknown error", err)
		return
	}
	writeJSON(w, b64)
}

// handleScreenshot captures the full top-level view, independent of any
// active frame scoping — "full view" per spec.md §4.B means the whole
// window, not whatever document a frame/switch call last scoped evals to.
func (a *Agent) handleScreenshot(w http.ResponseWriter, r *http.Request) {
	a.capture(w, r, "var __target = window.document.documentElement;")
}

// handleScreenshotElement rasterizes a single element, resolved against
// the current frame-scoped document like every other element operation.
func (a *Agent) handleScreenshotElement(w http.ResponseWriter, r *http.Request) {
	var req wire.ElementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid argument", err)
		return
	}
	docExpr := a.frames.documentExpr()
	elem := elementExpr(docExpr, wire.StrategyCSS, req.Selector, req.Index)
	a.capture(w, r, requireElementScript(elem)+"\nvar __target = __el;")
}
