package agent

import (
	"testing"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

func TestFrameStackDocumentExprAtTop(t *testing.T) {
	f := &frameStack{}
	if got := f.documentExpr(); got != "document" {
		t.Errorf("documentExpr() at top = %q, want %q", got, "document")
	}
	if f.depth() != 0 {
		t.Errorf("depth() = %d, want 0", f.depth())
	}
}

func TestFrameStackPushIndexDescends(t *testing.T) {
	f := &frameStack{}
	f.pushIndex(0)
	if f.depth() != 1 {
		t.Fatalf("depth() = %d, want 1", f.depth())
	}
	want := "(document.querySelectorAll('iframe,frame')[0].contentDocument)"
	if got := f.documentExpr(); got != want {
		t.Errorf("documentExpr() = %q, want %q", got, want)
	}
}

func TestFrameStackParentPopsOneLevel(t *testing.T) {
	f := &frameStack{}
	f.pushIndex(0)
	f.pushIndex(1)
	if f.depth() != 2 {
		t.Fatalf("depth() = %d, want 2", f.depth())
	}
	f.parent()
	if f.depth() != 1 {
		t.Errorf("depth() after one parent() = %d, want 1", f.depth())
	}
}

func TestFrameStackParentPastTopIsNoOp(t *testing.T) {
	f := &frameStack{}
	f.parent()
	if f.depth() != 0 {
		t.Errorf("depth() after parent() at top = %d, want 0", f.depth())
	}
}

func TestFrameStackClearResetsToTop(t *testing.T) {
	f := &frameStack{}
	f.pushIndex(0)
	f.pushElement(wire.ElementRef{Selector: "#host", Index: 0})
	f.clear()
	if f.depth() != 0 {
		t.Errorf("depth() after clear() = %d, want 0", f.depth())
	}
	if got := f.documentExpr(); got != "document" {
		t.Errorf("documentExpr() after clear() = %q, want %q", got, "document")
	}
}

func TestFrameStackClearIdempotent(t *testing.T) {
	f := &frameStack{}
	f.pushIndex(0)
	f.clear()
	f.clear()
	if f.depth() != 0 {
		t.Errorf("depth() after double clear() = %d, want 0", f.depth())
	}
}

func TestJSStringEscapesSpecialCharacters(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`plain`, `"plain"`},
		{`say "hi"`, `"say \"hi\""`},
		{"back\\slash", `"back\\slash"`},
		{"line\nbreak", `"line\nbreak"`},
	}
	for _, c := range cases {
		if got := jsString(c.in); got != c.want {
			t.Errorf("jsString(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
