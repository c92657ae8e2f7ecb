package agent

import (
	"context"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

// HostView is the agent's hook into the host application framework's web
// view, per spec.md §1's external-collaborator boundary: "The host
// application framework (window APIs, IPC primitive, web view eval hook)."
// The agent depends only on this interface; a real host (e.g. a WKWebView
// behind a Tauri-style IPC bridge) and the reference implementation in
// hostview_rod.go both satisfy it.
type HostView interface {
	// Exec evaluates a script in the web view, fire-and-forget: it returns
	// once the script has been handed to the engine, not once it has
	// finished running. An error here means the engine rejected the
	// script outright (e.g. a synchronous syntax error), not that the
	// eventual B.resolve carried an error value.
	Exec(ctx context.Context, script string) error

	// Inject installs the bridge script so it runs before any page script,
	// and re-runs on every subsequent navigation.
	Inject(script string) error

	Navigate(ctx context.Context, url string) error
	CurrentURL() (string, error)
	Title() (string, error)
	Back(ctx context.Context) error
	Forward(ctx context.Context) error
	Refresh(ctx context.Context) error

	// SetFiles assigns local file paths to a file-input element, which
	// page JS cannot do directly for security reasons; hosts implement
	// this via their native file-picker hook.
	SetFiles(selector string, index int, paths []string) error
}

// WindowHost is the agent's hook into the host framework's window API
// (spec.md §4.B's Window endpoint group). A HostView implementation
// typically also implements WindowHost for its own window.
type WindowHost interface {
	Handle() string
	Handles() []string
	Rect() (wire.Rect, error)
	SetRect(wire.Rect) error
	SetCurrent(handle string) error
	Close(handle string) error
	New() (string, error)
	Fullscreen() error
	Minimize() error
	Maximize() error
	Insets() (wire.Rect, error)
}
