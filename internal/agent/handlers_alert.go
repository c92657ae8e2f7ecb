package agent

import (
	"net/http"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

// The bridge's window.alert/confirm/prompt overrides (bridge.go) queue the
// call instead of blocking, so these handlers operate on that queue rather
// than a real native modal. Page script is never suspended: confirm()
// returns true and prompt() returns its default at once, accept and dismiss
// both just remove the newest queued dialog, and send-text only updates the
// queued record.

const requireDialogScript = `
var __dialogs = window.B.__dialogs;
if (!__dialogs.length) { var __e = new Error('no such alert'); __e.name = 'NoSuchAlert'; throw __e; }
var __d = __dialogs[__dialogs.length - 1];
`

func (a *Agent) handleAlertText(w http.ResponseWriter, r *http.Request) {
	script := requireDialogScript + "return __d.text;"
	a.runAndWriteAlertAware(w, r, script)
}

func (a *Agent) handleAlertAccept(w http.ResponseWriter, r *http.Request) {
	script := requireDialogScript + "window.B.__dialogs.pop(); return null;"
	a.runAndWriteAlertAwareNull(w, r, script)
}

func (a *Agent) handleAlertDismiss(w http.ResponseWriter, r *http.Request) {
	script := requireDialogScript + "window.B.__dialogs.pop(); return null;"
	a.runAndWriteAlertAwareNull(w, r, script)
}

func (a *Agent) handleAlertSendText(w http.ResponseWriter, r *http.Request) {
	var req wire.AlertSendTextRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid argument", err)
		return
	}
	script := requireDialogScript + `
if (__d.type !== 'prompt') { var __e2 = new Error('alert has no text field'); __e2.name = 'UnsupportedOperation'; throw __e2; }
__d.default = ` + jsString(req.Text) + `;
return null;
`
	a.runAndWriteAlertAwareNull(w, r, script)
}

func (a *Agent) runAndWriteAlertAware(w http.ResponseWriter, r *http.Request, script string) {
	result, err := a.Eval(r.Context(), script, nil, a.scriptTimeout())
	if err != nil {
		writeAlertScriptError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(result)
}

func (a *Agent) runAndWriteAlertAwareNull(w http.ResponseWriter, r *http.Request, script string) {
	_, err := a.Eval(r.Context(), script, nil, a.scriptTimeout())
	if err != nil {
		writeAlertScriptError(w, err)
		return
	}
	writeNull(w)
}

func writeAlertScriptError(w http.ResponseWriter, err error) {
	if se, ok := err.(*ScriptError); ok && se.Code == "NoSuchAlert" {
		writeError(w, "no such alert", errNoSuchAlert)
		return
	}
	writeScriptError(w, err)
}
