package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

// RodHostView is the reference HostView/WindowHost implementation used by
// cmd/demoapp: it drives a real headless-Chromium web view through go-rod
// instead of a platform WKWebView, so the repository is runnable end to end
// without a macOS host application. Grounded on the teacher's
// internal/browser/session_manager.go: launcher.New().Bin(...).Launch() to
// start Chromium, rod.New().ControlURL(...).Connect() to attach, and
// page.Context(ctx).Evaluate(&rod.EvalOptions{...}) for script execution.
//
// A real host satisfying these two interfaces over WKWebView would instead
// route Exec/Inject through WKWebView's evaluateJavaScript: and
// addUserScript:, and the resolve binding through a WKScriptMessageHandler
// — the agent is indifferent to which.
type RodHostView struct {
	browser *rod.Browser

	agentMu sync.Mutex
	agent   *Agent

	mu      sync.Mutex
	current *rod.Page
	handles []string
	pages   map[string]*rod.Page
}

// LaunchRodHostView starts a local Chromium (or chromium-compatible) binary
// headless and opens its first page. An empty binary lets rod's launcher
// locate or download one, matching the teacher's launcher fallback in
// SessionManager.Start.
func LaunchRodHostView(binary string, headless bool) (*RodHostView, error) {
	l := launcher.New().Headless(headless)
	if binary != "" {
		l = l.Bin(binary)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("open initial page: %w", err)
	}

	h := &RodHostView{
		browser: browser,
		current: page,
		handles: []string{string(page.TargetID)},
		pages:   map[string]*rod.Page{string(page.TargetID): page},
	}
	h.watchNavigation(page)
	return h, nil
}

// Attach wires the agent this host view calls back into on every bridge
// resolve and top-level navigation. Must be called once, before Agent.Start.
func (h *RodHostView) Attach(a *Agent) {
	h.agentMu.Lock()
	h.agent = a
	h.agentMu.Unlock()
}

func (h *RodHostView) agentRef() *Agent {
	h.agentMu.Lock()
	defer h.agentMu.Unlock()
	return h.agent
}

func (h *RodHostView) page() *rod.Page {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Close tears down the browser process. Not part of HostView; called by
// cmd/demoapp on shutdown.
func (h *RodHostView) Close() error {
	return h.browser.Close()
}

// --- HostView ---

// Exec hands script to the current page's JS engine without awaiting a
// promise: the wrapper in bridge.go resolves asynchronously via
// window.B.resolve, delivered back to the agent through the
// __wdResolveBinding exposed in Inject, not through Exec's return value.
func (h *RodHostView) Exec(ctx context.Context, script string) error {
	_, err := h.page().Context(ctx).Eval(script)
	return err
}

// Inject installs script so it runs before any page script on every
// subsequent navigation (EvalOnNewDocument), runs it immediately against the
// page already open, and exposes the resolve binding the bridge script calls
// into.
func (h *RodHostView) Inject(script string) error {
	page := h.page()
	if _, err := page.EvalOnNewDocument(script); err != nil {
		return fmt.Errorf("install on-new-document script: %w", err)
	}
	if err := h.bindResolve(page); err != nil {
		return fmt.Errorf("expose resolve binding: %w", err)
	}
	if _, err := page.Eval(script); err != nil {
		return fmt.Errorf("run bridge script: %w", err)
	}
	return nil
}

// bindResolve exposes window.__wdResolveBinding on page, forwarding every
// call's raw JSON argument straight to the agent's onBridgeResolve.
func (h *RodHostView) bindResolve(page *rod.Page) error {
	_, err := page.Expose("__wdResolveBinding", func(args gson.JSON) (interface{}, error) {
		if a := h.agentRef(); a != nil {
			a.onBridgeResolve([]byte(args.Raw()))
		}
		return nil, nil
	})
	return err
}

// watchNavigation clears the agent's frame stack on every top-level
// navigation of page, mirroring spec.md §3's "switching to top clears it"
// invariant and the teacher's own navigation-driven cache invalidation in
// session_manager.go's startEventStream (there it clears the element
// registry; here it clears the frame stack).
func (h *RodHostView) watchNavigation(page *rod.Page) {
	go page.EachEvent(func(ev *proto.PageFrameNavigated) {
		if ev.Frame.ParentID != "" {
			return
		}
		if a := h.agentRef(); a != nil {
			a.onNavigated()
		}
	})()
}

func (h *RodHostView) Navigate(ctx context.Context, url string) error {
	return h.page().Context(ctx).Navigate(url)
}

func (h *RodHostView) CurrentURL() (string, error) {
	info, err := h.page().Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

func (h *RodHostView) Title() (string, error) {
	info, err := h.page().Info()
	if err != nil {
		return "", err
	}
	return info.Title, nil
}

func (h *RodHostView) Back(ctx context.Context) error {
	return h.page().Context(ctx).NavigateBack()
}

func (h *RodHostView) Forward(ctx context.Context) error {
	return h.page().Context(ctx).NavigateForward()
}

func (h *RodHostView) Refresh(ctx context.Context) error {
	return h.page().Context(ctx).Reload()
}

// SetFiles resolves selector (always a CSS selector — see
// handlers_element.go's handleElementSetFiles) against the current page and
// assigns paths to the index'th match.
func (h *RodHostView) SetFiles(selector string, index int, paths []string) error {
	els, err := h.page().Elements(selector)
	if err != nil {
		return fmt.Errorf("locate file input: %w", err)
	}
	if index < 0 || index >= len(els) {
		return fmt.Errorf("element index %d out of range (%d matches for %q)", index, len(els), selector)
	}
	return els[index].SetFiles(paths)
}

// --- WindowHost ---

func (h *RodHostView) Handle() string {
	return string(h.page().TargetID)
}

func (h *RodHostView) Handles() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.handles))
	copy(out, h.handles)
	return out
}

func (h *RodHostView) windowID() (proto.BrowserWindowID, *proto.BrowserBounds, error) {
	res, err := proto.BrowserGetWindowForTarget{TargetID: h.page().TargetID}.Call(h.browser)
	if err != nil {
		return 0, nil, err
	}
	return res.WindowID, res.Bounds, nil
}

func (h *RodHostView) Rect() (wire.Rect, error) {
	_, bounds, err := h.windowID()
	if err != nil {
		return wire.Rect{}, err
	}
	return rectFromBounds(bounds), nil
}

func (h *RodHostView) SetRect(r wire.Rect) error {
	id, _, err := h.windowID()
	if err != nil {
		return err
	}
	left, top, width, height := int(r.X), int(r.Y), int(r.Width), int(r.Height)
	return proto.BrowserSetWindowBounds{
		WindowID: id,
		Bounds: proto.BrowserBounds{
			Left:   &left,
			Top:    &top,
			Width:  &width,
			Height: &height,
		},
	}.Call(h.browser)
}

func (h *RodHostView) SetCurrent(handle string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	page, ok := h.pages[handle]
	if !ok {
		return fmt.Errorf("unknown window handle %q", handle)
	}
	h.current = page
	h.watchNavigation(page)
	return nil
}

func (h *RodHostView) Close(handle string) error {
	h.mu.Lock()
	page, ok := h.pages[handle]
	if !ok {
		h.mu.Unlock()
		return fmt.Errorf("unknown window handle %q", handle)
	}
	delete(h.pages, handle)
	for i, hdl := range h.handles {
		if hdl == handle {
			h.handles = append(h.handles[:i], h.handles[i+1:]...)
			break
		}
	}
	if h.current == page && len(h.handles) > 0 {
		h.current = h.pages[h.handles[0]]
	}
	h.mu.Unlock()
	return page.Close()
}

func (h *RodHostView) New() (string, error) {
	page, err := h.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return "", fmt.Errorf("open new window: %w", err)
	}
	handle := string(page.TargetID)
	h.mu.Lock()
	h.pages[handle] = page
	h.handles = append(h.handles, handle)
	h.mu.Unlock()
	h.watchNavigation(page)
	return handle, nil
}

func (h *RodHostView) setWindowState(state proto.BrowserWindowState) error {
	id, bounds, err := h.windowID()
	if err != nil {
		return err
	}
	next := proto.BrowserBounds{WindowState: state}
	if state == proto.BrowserWindowStateNormal && bounds != nil {
		next.Left, next.Top, next.Width, next.Height = bounds.Left, bounds.Top, bounds.Width, bounds.Height
	}
	return proto.BrowserSetWindowBounds{WindowID: id, Bounds: next}.Call(h.browser)
}

func (h *RodHostView) Fullscreen() error { return h.setWindowState(proto.BrowserWindowStateFullscreen) }
func (h *RodHostView) Minimize() error   { return h.setWindowState(proto.BrowserWindowStateMinimized) }
func (h *RodHostView) Maximize() error   { return h.setWindowState(proto.BrowserWindowStateMaximized) }

// Insets reports the chrome-less content area offset. CDP's Browser domain
// does not expose window-chrome insets directly, so this reference
// implementation reports zero — a real desktop host with access to its own
// window frame would report its actual title-bar/toolbar insets here.
func (h *RodHostView) Insets() (wire.Rect, error) {
	return wire.Rect{}, nil
}

func rectFromBounds(b *proto.BrowserBounds) wire.Rect {
	var r wire.Rect
	if b == nil {
		return r
	}
	if b.Left != nil {
		r.X = float64(*b.Left)
	}
	if b.Top != nil {
		r.Y = float64(*b.Top)
	}
	if b.Width != nil {
		r.Width = float64(*b.Width)
	}
	if b.Height != nil {
		r.Height = float64(*b.Height)
	}
	return r
}
