package gateway

import (
	"testing"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

func TestNormalizeLocator(t *testing.T) {
	cases := []struct {
		name     string
		using    string
		value    string
		strategy wire.Strategy
		selector string
	}{
		{"css passthrough", "css selector", "#counter", wire.StrategyCSS, "#counter"},
		{"xpath passthrough", "xpath", "//div", wire.StrategyXPath, "//div"},
		{"tag name becomes css", "tag name", "a", wire.StrategyCSS, "a"},
		{"link text becomes xpath", "link text", "Next", wire.StrategyXPath, `//a[normalize-space(text())="Next"]`},
		{"partial link text becomes xpath", "partial link text", "Nex", wire.StrategyXPath, `//a[contains(text(),"Nex")]`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			strategy, selector, err := normalizeLocator(c.using, c.value)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strategy != c.strategy {
				t.Errorf("strategy = %q, want %q", strategy, c.strategy)
			}
			if selector != c.selector {
				t.Errorf("selector = %q, want %q", selector, c.selector)
			}
		})
	}
}

func TestNormalizeLocatorUnknown(t *testing.T) {
	_, _, err := normalizeLocator("id", "foo")
	if err == nil {
		t.Fatal("expected an error for an unknown strategy")
	}
	w3cErr := asW3CError(err)
	if w3cErr.Code != ErrInvalidArgument {
		t.Errorf("code = %q, want %q", w3cErr.Code, ErrInvalidArgument)
	}
}

func TestXPathLiteral(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		out   string
	}{
		{"plain", "hello", `"hello"`},
		{"single quote only", "it's", `"it's"`},
		{"double quote only", `say "hi"`, `'say "hi"'`},
		{"both quotes", `it's "quoted"`, `concat("it's ", '"', "quoted", '"', "")`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := xpathLiteral(c.in)
			if got != c.out {
				t.Errorf("xpathLiteral(%q) = %q, want %q", c.in, got, c.out)
			}
		})
	}
}
