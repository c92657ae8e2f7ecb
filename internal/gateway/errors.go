package gateway

import (
	"errors"
	"fmt"
)

// W3C error codes used throughout the gateway (spec.md §7). Each has an
// associated HTTP status per the W3C WebDriver spec's error-code table.
const (
	ErrSessionNotCreated   = "session not created"
	ErrInvalidArgument     = "invalid argument"
	ErrInvalidSessionID    = "invalid session id"
	ErrNoSuchElement       = "no such element"
	ErrStaleElement        = "stale element reference"
	ErrNoSuchShadowRoot    = "no such shadow root"
	ErrNoSuchFrame         = "no such frame"
	ErrNoSuchWindow        = "no such window"
	ErrNoSuchCookie        = "no such cookie"
	ErrNoSuchAlert         = "no such alert"
	ErrJavaScriptError     = "javascript error"
	ErrTimeout             = "timeout"
	ErrScriptTimeout       = "script timeout"
	ErrUnknownError        = "unknown error"
	ErrUnsupportedOperation = "unsupported operation"
)

// w3cStatus maps a W3C error code to its HTTP status, per the W3C
// WebDriver specification's error-code table.
var w3cStatus = map[string]int{
	ErrSessionNotCreated:    500,
	ErrInvalidArgument:      400,
	ErrInvalidSessionID:     404,
	ErrNoSuchElement:        404,
	ErrStaleElement:         404,
	ErrNoSuchShadowRoot:     404,
	ErrNoSuchFrame:          404,
	ErrNoSuchWindow:         404,
	ErrNoSuchCookie:         404,
	ErrNoSuchAlert:          404,
	ErrJavaScriptError:      500,
	ErrTimeout:              408,
	ErrScriptTimeout:        408,
	ErrUnknownError:         500,
	ErrUnsupportedOperation: 405,
}

// statusFor returns the HTTP status for a W3C error code, defaulting to
// 500 for anything unrecognized.
func statusFor(code string) int {
	if s, ok := w3cStatus[code]; ok {
		return s
	}
	return 500
}

// W3CError is an error carrying a W3C WebDriver error code, message, and
// optional stacktrace — the gateway's uniform error currency from the
// point an agent call fails to the point the HTTP handler renders the W3C
// envelope (spec.md §6's {"value": {"error", "message", "stacktrace"}}).
type W3CError struct {
	Code       string
	Message    string
	Stacktrace string
}

func (e *W3CError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewW3CError constructs a W3CError with no stacktrace.
func NewW3CError(code, message string) *W3CError {
	return &W3CError{Code: code, Message: message}
}

// asW3CError extracts a *W3CError from err, or wraps it as "unknown error"
// per spec.md §7's propagation policy ("Network failures between gateway
// and agent yield unknown error unless the session has been ended").
func asW3CError(err error) *W3CError {
	var w *W3CError
	if errors.As(err, &w) {
		return w
	}
	return &W3CError{Code: ErrUnknownError, Message: err.Error()}
}

// invalidSessionIDErr is the fixed error returned for any command
// addressing an unknown or already-deleted session, per spec.md §6
// ("unknown sessions return invalid session id").
func invalidSessionIDErr(id string) *W3CError {
	return NewW3CError(ErrInvalidSessionID, fmt.Sprintf("no active session %q", id))
}
