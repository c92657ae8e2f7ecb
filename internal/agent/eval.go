package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// jsErrorBody is what a wrapped eval sends to B.resolve when the user
// script throws; the bridge's wrapError() produces this exact shape.
type jsErrorBody struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	Stacktrace string `json:"stacktrace"`
}

// ScriptError is returned by Eval/EvalCallback when the bridge reports a
// thrown value rather than a normal result, per spec.md §4.C's "the bridge
// tags thrown values" marker. Code carries the thrown Error's name (e.g.
// "StaleElementReference", set by requireElementScript) so handlers can map it onto
// a W3C error code without parsing the message text.
type ScriptError struct {
	Code       string
	Message    string
	Stacktrace string
}

func (e *ScriptError) Error() string { return e.Message }

// Eval runs script synchronously: its return value becomes the result.
// The wrapper is an IIFE; Eval does not expect the caller's script to call
// done itself. Suspends on the pending-script slot up to timeout.
func (a *Agent) Eval(ctx context.Context, script string, args []any, timeout time.Duration) (json.RawMessage, error) {
	return a.eval(ctx, script, args, timeout, false)
}

// EvalCallback runs script expecting it to invoke its final argument
// (named `done` inside the wrapper) itself — used for execute-async and
// screenshot capture, per spec.md §4.B's callback eval variant.
func (a *Agent) EvalCallback(ctx context.Context, script string, args []any, timeout time.Duration) (json.RawMessage, error) {
	return a.eval(ctx, script, args, timeout, true)
}

func (a *Agent) eval(ctx context.Context, script string, args []any, timeout time.Duration, callback bool) (json.RawMessage, error) {
	if args == nil {
		args = []any{}
	}
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("marshal eval args: %w", err)
	}

	id, s := a.pending.register()
	docExpr := a.frames.documentExpr()

	var wrapped string
	if callback {
		wrapped = buildCallbackWrapper(id, script, string(argsJSON), docExpr)
	} else {
		wrapped = buildSyncWrapper(id, script, string(argsJSON), docExpr)
	}

	if err := a.view.Exec(ctx, wrapped); err != nil {
		return nil, fmt.Errorf("dispatch eval: %w", err)
	}

	deadlineCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := a.pending.wait(deadlineCtx, id, s)
	if err != nil {
		return nil, err
	}

	var asError jsErrorBody
	if json.Unmarshal(result, &asError) == nil && asError.Error != "" && asError.Message != "" {
		return nil, &ScriptError{Code: asError.Error, Message: asError.Message, Stacktrace: asError.Stacktrace}
	}
	return result, nil
}

// onBridgeResolve is the entry point the HostView implementation calls
// when the page invokes B.resolve (via whatever IPC primitive the host
// exposes — an exposed binding for hostview_rod.go). payload is the raw
// JSON `{"id": "...", "result": ...}` sent by resolve() in bridge.go.
func (a *Agent) onBridgeResolve(payload []byte) {
	var msg struct {
		ID     string          `json:"id"`
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(payload, &msg); err != nil {
		return
	}
	a.pending.resolve(msg.ID, msg.Result)
}

// onNavigated clears the frame stack on a completed top-level navigation,
// per spec.md §3's invariant ("switching to top clears it") and §9's
// design note about observing navigations automatically.
func (a *Agent) onNavigated() {
	a.frames.clear()
}
