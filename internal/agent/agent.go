// Package agent implements the in-process automation agent (spec.md §4.B):
// a private JSON-over-HTTP API bound to loopback, a bridge script injected
// into the web view, and the single-threaded, callback-mediated script
// execution protocol that bridges the asynchronous web view into this
// synchronous HTTP API. Locking discipline (a single mutex guarding only
// table mutation, never the awaited span) follows the teacher's
// internal/browser/session_manager.go.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

// SignatureLineFormat is the exact line the agent prints to standard
// output once its private listener is bound, per spec.md §4.B/§6. The
// gateway's line reader (internal/gateway/spawn.go) matches this format
// verbatim.
const SignatureLineFormat = "[webdriver] listening on port %d\n"

// Agent owns the private HTTP surface and all agent-side mutable state:
// the frame stack, pending-script table, and timeout configuration.
type Agent struct {
	view    HostView
	windows WindowHost

	frames  *frameStack
	pending *pendingTable

	mu       sync.RWMutex
	timeouts wire.TimeoutConfig

	listener net.Listener
	server   *http.Server
	port     int

	logger *log.Logger
}

// New constructs an Agent bound to the given host view/window host. It does
// not yet bind a listener or inject the bridge; call Start for that.
func New(view HostView, windows WindowHost, logger *log.Logger) *Agent {
	if logger == nil {
		logger = log.Default()
	}
	return &Agent{
		view:     view,
		windows:  windows,
		frames:   &frameStack{},
		pending:  newPendingTable(),
		timeouts: wire.DefaultTimeouts(),
		logger:   logger,
	}
}

// Start binds the private HTTP listener on loopback with an OS-assigned
// port, injects the bridge script, and prints the signature line to the
// given writer (standard output in production). Per spec.md §3's
// invariant, the agent binds only the loopback interface.
func (a *Agent) Start(stdout interface{ Write([]byte) (int, error) }) error {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("bind private listener: %w", err)
	}
	a.listener = ln
	a.port = ln.Addr().(*net.TCPAddr).Port

	if err := a.view.Inject(bridgeScript); err != nil {
		_ = ln.Close()
		return fmt.Errorf("inject bridge: %w", err)
	}

	a.server = &http.Server{Handler: a.routes()}

	go func() {
		if err := a.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			a.logger.Printf("agent http server error: %v", err)
		}
	}()

	if _, err := fmt.Fprintf(stdout, SignatureLineFormat, a.port); err != nil {
		return fmt.Errorf("write signature line: %w", err)
	}
	return nil
}

// Port returns the bound private-listener port (0 before Start).
func (a *Agent) Port() int { return a.port }

// Shutdown gracefully stops the private HTTP server.
func (a *Agent) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

func (a *Agent) scriptTimeout() time.Duration {
	a.mu.RLock()
	defer a.mu.RUnlock()
	ms := a.timeouts.Script
	if ms <= 0 {
		ms = wire.DefaultTimeouts().Script
	}
	return time.Duration(ms) * time.Millisecond
}

// routes wires every private endpoint in spec.md §4.B's table onto a
// ServeMux, grouped the same way the table groups them.
func (a *Agent) routes() http.Handler {
	mux := http.NewServeMux()

	// Window group.
	mux.HandleFunc("/window/handle", a.handleWindowHandle)
	mux.HandleFunc("/window/handles", a.handleWindowHandles)
	mux.HandleFunc("/window/rect", a.handleWindowRect)
	mux.HandleFunc("/window/set-rect", a.handleWindowSetRect)
	mux.HandleFunc("/window/set-current", a.handleWindowSetCurrent)
	mux.HandleFunc("/window/close", a.handleWindowClose)
	mux.HandleFunc("/window/new", a.handleWindowNew)
	mux.HandleFunc("/window/fullscreen", a.handleWindowFullscreen)
	mux.HandleFunc("/window/minimize", a.handleWindowMinimize)
	mux.HandleFunc("/window/maximize", a.handleWindowMaximize)
	mux.HandleFunc("/window/insets", a.handleWindowInsets)

	// Find group.
	mux.HandleFunc("/element/find", a.handleElementFind)
	mux.HandleFunc("/element/find-from", a.handleElementFindFrom)

	// Read group.
	mux.HandleFunc("/element/text", a.handleElementText)
	mux.HandleFunc("/element/tag", a.handleElementTag)
	mux.HandleFunc("/element/attribute", a.handleElementAttribute)
	mux.HandleFunc("/element/property", a.handleElementProperty)
	mux.HandleFunc("/element/rect", a.handleElementRect)
	mux.HandleFunc("/element/displayed", a.handleElementDisplayed)
	mux.HandleFunc("/element/enabled", a.handleElementEnabled)
	mux.HandleFunc("/element/selected", a.handleElementSelected)
	mux.HandleFunc("/element/computed-role", a.handleElementComputedRole)
	mux.HandleFunc("/element/computed-label", a.handleElementComputedLabel)
	mux.HandleFunc("/element/active", a.handleElementActive)

	// Write group.
	mux.HandleFunc("/element/click", a.handleElementClick)
	mux.HandleFunc("/element/clear", a.handleElementClear)
	mux.HandleFunc("/element/send-keys", a.handleElementSendKeys)
	mux.HandleFunc("/element/set-files", a.handleElementSetFiles)

	// Shadow group.
	mux.HandleFunc("/element/shadow", a.handleElementShadow)
	mux.HandleFunc("/shadow/find", a.handleShadowFind)

	// Frame group.
	mux.HandleFunc("/frame/switch", a.handleFrameSwitch)
	mux.HandleFunc("/frame/parent", a.handleFrameParent)

	// Script group.
	mux.HandleFunc("/script/execute", a.handleScriptExecute)
	mux.HandleFunc("/script/execute-async", a.handleScriptExecuteAsync)

	// Nav group.
	mux.HandleFunc("/navigate/url", a.handleNavigateURL)
	mux.HandleFunc("/navigate/current", a.handleNavigateCurrent)
	mux.HandleFunc("/navigate/title", a.handleNavigateTitle)
	mux.HandleFunc("/navigate/back", a.handleNavigateBack)
	mux.HandleFunc("/navigate/forward", a.handleNavigateForward)
	mux.HandleFunc("/navigate/refresh", a.handleNavigateRefresh)
	mux.HandleFunc("/source", a.handleSource)

	// Screenshot group.
	mux.HandleFunc("/screenshot", a.handleScreenshot)
	mux.HandleFunc("/screenshot/element", a.handleScreenshotElement)

	// Cookies group.
	mux.HandleFunc("/cookie/get-all", a.handleCookieGetAll)
	mux.HandleFunc("/cookie/get", a.handleCookieGet)
	mux.HandleFunc("/cookie/add", a.handleCookieAdd)
	mux.HandleFunc("/cookie/delete", a.handleCookieDelete)
	mux.HandleFunc("/cookie/delete-all", a.handleCookieDeleteAll)

	// Alert group.
	mux.HandleFunc("/alert/text", a.handleAlertText)
	mux.HandleFunc("/alert/accept", a.handleAlertAccept)
	mux.HandleFunc("/alert/dismiss", a.handleAlertDismiss)
	mux.HandleFunc("/alert/send-text", a.handleAlertSendText)

	// Timeouts group (ADDED — forwarded from the gateway's
	// /session/{id}/timeouts endpoint; see SPEC_FULL.md).
	mux.HandleFunc("/timeouts/get", a.handleTimeoutsGet)
	mux.HandleFunc("/timeouts/set", a.handleTimeoutsSet)

	return mux
}

// --- shared handler plumbing ---

func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeNull(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte("null"))
}

// writeError reports an agent-side failure as HTTP 500 with
// {error, message}, per spec.md §7's propagation policy. code should match
// one of the W3C error identifiers the gateway knows how to map
// (internal/gateway/errors.go); callers that don't have a specific code
// pass "unknown error". The gateway uses code as the W3C error code as is;
// it does not remap it by operation.
func writeError(w http.ResponseWriter, code string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(wire.ErrorBody{Error: code, Message: err.Error()})
}
