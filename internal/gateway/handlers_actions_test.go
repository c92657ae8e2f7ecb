package gateway

import (
	"encoding/json"
	"testing"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

func TestJSQuoteEscapesSpecialCharacters(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"a", `"a"`},
		{`say "hi"`, `"say \"hi\""`},
		{"line\nbreak", `"line\nbreak"`},
	}
	for _, c := range cases {
		if got := jsQuote(c.in); got != c.want {
			t.Errorf("jsQuote(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestActionOriginExprViewport(t *testing.T) {
	g := &Gateway{}
	sess := newSession(nil, 0)

	expr, err := g.actionOriginExpr(sess, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expr != "document" {
		t.Errorf("origin expr = %q, want %q", expr, "document")
	}

	viewport, _ := json.Marshal("viewport")
	expr, err = g.actionOriginExpr(sess, viewport)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expr != "document" {
		t.Errorf("origin expr for string origin = %q, want %q", expr, "document")
	}
}

func TestActionOriginExprElementReference(t *testing.T) {
	g := &Gateway{}
	sess := newSession(nil, 0)
	id := sess.mintElement(elementTriple{Strategy: wire.StrategyCSS, Selector: "#target", Index: 0})

	origin, _ := json.Marshal(map[string]string{elementKey: id})
	expr, err := g.actionOriginExpr(sess, origin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `window.B.findElement(document, "#target", 0)`
	if expr != want {
		t.Errorf("origin expr = %q, want %q", expr, want)
	}
}

func TestActionOriginExprUnknownElementIsNoSuchElement(t *testing.T) {
	g := &Gateway{}
	sess := newSession(nil, 0)

	origin, _ := json.Marshal(map[string]string{elementKey: "bogus"})
	_, err := g.actionOriginExpr(sess, origin)
	if err == nil || err.Code != ErrNoSuchElement {
		t.Fatalf("err = %v, want code %q", err, ErrNoSuchElement)
	}
}
