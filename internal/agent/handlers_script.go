package agent

import (
	"net/http"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

func (a *Agent) handleScriptExecute(w http.ResponseWriter, r *http.Request) {
	var req wire.ExecuteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid argument", err)
		return
	}
	result, err := a.Eval(r.Context(), req.Script, req.Args, a.scriptTimeout())
	if err != nil {
		writeScriptError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(result)
}

func (a *Agent) handleScriptExecuteAsync(w http.ResponseWriter, r *http.Request) {
	var req wire.ExecuteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid argument", err)
		return
	}
	result, err := a.EvalCallback(r.Context(), req.Script, req.Args, a.scriptTimeout())
	if err != nil {
		writeScriptError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(result)
}
