package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

// elementKey and shadowKey are the bit-exact W3C identifiers every element
// and shadow-root reference crosses the wire under (spec.md §6).
const (
	elementKey = "element-6066-11e4-a52e-4f735466cecf"
	shadowKey  = "shadow-6066-11e4-a52e-4f735466cecf"
)

// Gateway is the standalone, single-session W3C WebDriver HTTP server
// (spec.md §4.C). It holds at most one session at a time; session state
// (tables, handle, timeouts) is guarded by mu for the duration of lookups
// and inserts only, never across an awaited call to the agent (spec.md
// §5).
type Gateway struct {
	cfg    Config
	logger *Logger
	trace  *traceLedger

	mu     sync.Mutex
	sess   *session
	client *agentClient

	server *http.Server
}

// New constructs a Gateway from cfg. Call Start to bind the public
// listener.
func New(cfg Config) (*Gateway, error) {
	tl, err := newTraceLedger(cfg.Trace.Dir)
	if err != nil {
		return nil, fmt.Errorf("open trace ledger: %w", err)
	}
	return &Gateway{
		cfg:    cfg,
		logger: NewLogger(cfg.Server.LogLevel),
		trace:  tl,
	}, nil
}

// Start binds the public W3C listener on cfg.Server.Host:Port and serves
// until ctx is cancelled.
func (g *Gateway) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", g.cfg.Server.Host, g.cfg.Server.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("bind public listener: %w", err)
	}

	g.server = &http.Server{Handler: g.routes()}
	g.logger.Infof("webdriver gateway listening on %s", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := g.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = g.server.Shutdown(shutdownCtx)
		g.closeSession()
		_ = g.trace.Close()
		return nil
	case err := <-errCh:
		return err
	}
}

func (g *Gateway) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /status", g.handleStatus)
	mux.HandleFunc("POST /session", g.traced(g.handleCreateSession))
	mux.HandleFunc("DELETE /session/{id}", g.traced(g.withSession(g.handleDeleteSession)))

	mux.HandleFunc("GET /session/{id}/timeouts", g.traced(g.withSession(g.handleGetTimeouts)))
	mux.HandleFunc("POST /session/{id}/timeouts", g.traced(g.withSession(g.handleSetTimeouts)))

	mux.HandleFunc("POST /session/{id}/url", g.traced(g.withSession(g.handleNavigateTo)))
	mux.HandleFunc("GET /session/{id}/url", g.traced(g.withSession(g.handleCurrentURL)))
	mux.HandleFunc("POST /session/{id}/back", g.traced(g.withSession(g.handleBack)))
	mux.HandleFunc("POST /session/{id}/forward", g.traced(g.withSession(g.handleForward)))
	mux.HandleFunc("POST /session/{id}/refresh", g.traced(g.withSession(g.handleRefresh)))
	mux.HandleFunc("GET /session/{id}/title", g.traced(g.withSession(g.handleTitle)))
	mux.HandleFunc("GET /session/{id}/source", g.traced(g.withSession(g.handleSource)))

	mux.HandleFunc("GET /session/{id}/window", g.traced(g.withSession(g.handleWindowHandle)))
	mux.HandleFunc("DELETE /session/{id}/window", g.traced(g.withSession(g.handleWindowClose)))
	mux.HandleFunc("POST /session/{id}/window", g.traced(g.withSession(g.handleWindowSwitch)))
	mux.HandleFunc("GET /session/{id}/window/handles", g.traced(g.withSession(g.handleWindowHandles)))
	mux.HandleFunc("POST /session/{id}/window/new", g.traced(g.withSession(g.handleWindowNew)))
	mux.HandleFunc("GET /session/{id}/window/rect", g.traced(g.withSession(g.handleWindowRect)))
	mux.HandleFunc("POST /session/{id}/window/rect", g.traced(g.withSession(g.handleWindowSetRect)))
	mux.HandleFunc("POST /session/{id}/window/maximize", g.traced(g.withSession(g.handleWindowMaximize)))
	mux.HandleFunc("POST /session/{id}/window/minimize", g.traced(g.withSession(g.handleWindowMinimize)))
	mux.HandleFunc("POST /session/{id}/window/fullscreen", g.traced(g.withSession(g.handleWindowFullscreen)))

	mux.HandleFunc("POST /session/{id}/frame", g.traced(g.withSession(g.handleFrameSwitch)))
	mux.HandleFunc("POST /session/{id}/frame/parent", g.traced(g.withSession(g.handleFrameParent)))

	mux.HandleFunc("POST /session/{id}/element", g.traced(g.withSession(g.handleFindElement)))
	mux.HandleFunc("POST /session/{id}/elements", g.traced(g.withSession(g.handleFindElements)))
	mux.HandleFunc("GET /session/{id}/element/active", g.traced(g.withSession(g.handleActiveElement)))
	mux.HandleFunc("POST /session/{id}/element/{elementId}/element", g.traced(g.withSession(g.handleFindElementFrom)))
	mux.HandleFunc("POST /session/{id}/element/{elementId}/elements", g.traced(g.withSession(g.handleFindElementsFrom)))
	mux.HandleFunc("GET /session/{id}/element/{elementId}/text", g.traced(g.withSession(g.handleElementText)))
	mux.HandleFunc("GET /session/{id}/element/{elementId}/name", g.traced(g.withSession(g.handleElementTagName)))
	mux.HandleFunc("GET /session/{id}/element/{elementId}/attribute/{name}", g.traced(g.withSession(g.handleElementAttribute)))
	mux.HandleFunc("GET /session/{id}/element/{elementId}/property/{name}", g.traced(g.withSession(g.handleElementProperty)))
	mux.HandleFunc("GET /session/{id}/element/{elementId}/rect", g.traced(g.withSession(g.handleElementRect)))
	mux.HandleFunc("GET /session/{id}/element/{elementId}/displayed", g.traced(g.withSession(g.handleElementDisplayed)))
	mux.HandleFunc("GET /session/{id}/element/{elementId}/enabled", g.traced(g.withSession(g.handleElementEnabled)))
	mux.HandleFunc("GET /session/{id}/element/{elementId}/selected", g.traced(g.withSession(g.handleElementSelected)))
	mux.HandleFunc("GET /session/{id}/element/{elementId}/computedrole", g.traced(g.withSession(g.handleElementComputedRole)))
	mux.HandleFunc("GET /session/{id}/element/{elementId}/computedlabel", g.traced(g.withSession(g.handleElementComputedLabel)))
	mux.HandleFunc("POST /session/{id}/element/{elementId}/click", g.traced(g.withSession(g.handleElementClick)))
	mux.HandleFunc("POST /session/{id}/element/{elementId}/clear", g.traced(g.withSession(g.handleElementClear)))
	mux.HandleFunc("POST /session/{id}/element/{elementId}/value", g.traced(g.withSession(g.handleElementSendKeys)))
	mux.HandleFunc("GET /session/{id}/element/{elementId}/shadow", g.traced(g.withSession(g.handleElementShadow)))
	mux.HandleFunc("GET /session/{id}/element/{elementId}/screenshot", g.traced(g.withSession(g.handleElementScreenshot)))

	mux.HandleFunc("POST /session/{id}/shadow/{shadowId}/element", g.traced(g.withSession(g.handleShadowFindElement)))
	mux.HandleFunc("POST /session/{id}/shadow/{shadowId}/elements", g.traced(g.withSession(g.handleShadowFindElements)))

	mux.HandleFunc("POST /session/{id}/execute/sync", g.traced(g.withSession(g.handleExecuteSync)))
	mux.HandleFunc("POST /session/{id}/execute/async", g.traced(g.withSession(g.handleExecuteAsync)))

	mux.HandleFunc("GET /session/{id}/screenshot", g.traced(g.withSession(g.handleScreenshot)))

	mux.HandleFunc("GET /session/{id}/cookie", g.traced(g.withSession(g.handleCookieGetAll)))
	mux.HandleFunc("GET /session/{id}/cookie/{name}", g.traced(g.withSession(g.handleCookieGet)))
	mux.HandleFunc("POST /session/{id}/cookie", g.traced(g.withSession(g.handleCookieAdd)))
	mux.HandleFunc("DELETE /session/{id}/cookie/{name}", g.traced(g.withSession(g.handleCookieDelete)))
	mux.HandleFunc("DELETE /session/{id}/cookie", g.traced(g.withSession(g.handleCookieDeleteAll)))

	mux.HandleFunc("GET /session/{id}/alert/text", g.traced(g.withSession(g.handleAlertText)))
	mux.HandleFunc("POST /session/{id}/alert/text", g.traced(g.withSession(g.handleAlertSendText)))
	mux.HandleFunc("POST /session/{id}/alert/accept", g.traced(g.withSession(g.handleAlertAccept)))
	mux.HandleFunc("POST /session/{id}/alert/dismiss", g.traced(g.withSession(g.handleAlertDismiss)))

	mux.HandleFunc("POST /session/{id}/actions", g.traced(g.withSession(g.handleActions)))
	mux.HandleFunc("DELETE /session/{id}/actions", g.traced(g.withSession(g.handleActionsRelease)))

	return mux
}

// traced wraps an endpoint handler to append one traceEvent per request to
// the command trace ledger (SPEC_FULL.md §3, ADDED); purely observational.
func (g *Gateway) traced(next func(w http.ResponseWriter, r *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: 200}
		next(rec, r)
		g.trace.Log(traceEvent{
			SessionID: r.PathValue("id"),
			Method:    r.Method,
			Path:      r.URL.Path,
			ElapsedMS: time.Since(start).Milliseconds(),
			Status:    rec.status,
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withSession resolves the path's session id against the gateway's single
// active session, returning "invalid session id" if it doesn't match
// (spec.md §6: "unknown sessions return invalid session id").
func (g *Gateway) withSession(next func(s *session, w http.ResponseWriter, r *http.Request)) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		g.mu.Lock()
		sess := g.sess
		g.mu.Unlock()
		if sess == nil || sess.id != id {
			writeW3CError(w, invalidSessionIDErr(id))
			return
		}
		next(sess, w, r)
	}
}

// writeValue renders the successful W3C response envelope {"value": v}.
func writeValue(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]any{"value": v})
}

// writeW3CError renders the W3C error envelope
// {"value": {"error", "message", "stacktrace"}} with the status matching
// the error's code.
func writeW3CError(w http.ResponseWriter, err *W3CError) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusFor(err.Code))
	_ = json.NewEncoder(w).Encode(map[string]any{
		"value": map[string]any{
			"error":      err.Code,
			"message":    err.Message,
			"stacktrace": err.Stacktrace,
		},
	})
}

// wrapElementID renders an element id under the bit-exact W3C element key.
func wrapElementID(id string) map[string]string {
	return map[string]string{elementKey: id}
}

func wrapShadowID(id string) map[string]string {
	return map[string]string{shadowKey: id}
}

// closeSession terminates the active session's application process, if
// any, and drops session state. Safe to call with no active session.
func (g *Gateway) closeSession() {
	g.mu.Lock()
	sess := g.sess
	g.sess = nil
	g.client = nil
	g.mu.Unlock()
	if sess == nil {
		return
	}
	_ = terminateApp(sess.cmd, time.Duration(g.cfg.Session.TerminateGraceMS)*time.Millisecond)
}
