package agent

import (
	"fmt"
	"sync"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

// frameRef is one entry of the agent's frame stack: either a by-index
// reference (the k-th iframe of the current context) or a resolved
// element triple (e.g. a custom element hosting a shadow root).
type frameRef struct {
	isIndex bool
	index   int
	elem    wire.ElementRef
}

// frameStack is the agent-owned, lock-serialized stack of frame references
// that scopes subsequent evals, per spec.md §3/§4.B. It is empty at the
// top-level document and is cleared whenever a top-level navigation
// completes (see Agent.onNavigated).
type frameStack struct {
	mu    sync.Mutex
	stack []frameRef
}

func (f *frameStack) pushIndex(i int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stack = append(f.stack, frameRef{isIndex: true, index: i})
}

func (f *frameStack) pushElement(ref wire.ElementRef) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stack = append(f.stack, frameRef{isIndex: false, elem: ref})
}

// clear resets the stack to top, per switch{id:null} and top-level
// navigation completion.
func (f *frameStack) clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stack = nil
}

// parent pops one level; popping past top is a no-op, matching the state
// machine in spec.md §4.B ("parent -> depth-(k-1) or top").
func (f *frameStack) parent() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.stack) > 0 {
		f.stack = f.stack[:len(f.stack)-1]
	}
}

func (f *frameStack) depth() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.stack)
}

// documentExpr returns the JS expression that, starting from the top-level
// `document`, descends through contentDocument or a shadow root at each
// frame-stack entry in order, per spec.md §4.B's eval contract. An empty
// stack yields the literal "document".
func (f *frameStack) documentExpr() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	expr := "document"
	for _, ref := range f.stack {
		if ref.isIndex {
			expr = fmt.Sprintf("(%s.querySelectorAll('iframe,frame')[%d].contentDocument)", expr, ref.index)
			continue
		}
		sel := jsString(ref.elem.Selector)
		expr = fmt.Sprintf(
			"(function(){ var __h = %s.querySelectorAll(%s)[%d]; return __h.shadowRoot || __h.contentDocument || __h; })()",
			expr, sel, ref.elem.Index,
		)
	}
	return expr
}

// jsString renders a Go string as a double-quoted JS string literal.
func jsString(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"', '\\':
			out = append(out, '\\', c)
		case '\n':
			out = append(out, '\\', 'n')
		case '\r':
			out = append(out, '\\', 'r')
		default:
			out = append(out, c)
		}
	}
	out = append(out, '"')
	return string(out)
}
