package agent

import (
	"strings"
	"testing"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

func TestElementExprCSS(t *testing.T) {
	got := elementExpr("document", wire.StrategyCSS, "#counter", 2)
	want := `window.B.findElement(document, "#counter", 2)`
	if got != want {
		t.Errorf("elementExpr = %q, want %q", got, want)
	}
}

func TestElementExprXPath(t *testing.T) {
	got := elementExpr("document", wire.StrategyXPath, "//a", 0)
	want := `window.B.findElementByXPath(document, "//a", 0)`
	if got != want {
		t.Errorf("elementExpr = %q, want %q", got, want)
	}
}

func TestShadowElementExprResolvesThroughShadowCache(t *testing.T) {
	got := shadowElementExpr("sh-0", wire.StrategyCSS, ".shadow-text", 0)
	if !strings.Contains(got, `window.B.findElementInShadow("sh-0")`) {
		t.Errorf("expected shadow cache lookup, got %q", got)
	}
	if !strings.Contains(got, `window.B.findElement(`) {
		t.Errorf("expected a findElement call scoped to the shadow root, got %q", got)
	}
}

func TestRequireElementScriptThrowsNamedError(t *testing.T) {
	got := requireElementScript(`window.B.findElement(document, "#missing", 0)`)
	if !strings.Contains(got, "StaleElementReference") {
		t.Errorf("expected the guard to throw a StaleElementReference-named error, got %q", got)
	}
	if !strings.Contains(got, "if (!__el)") {
		t.Errorf("expected a null-check guard, got %q", got)
	}
}

func TestFindAllScriptCSS(t *testing.T) {
	got := findAllScript("document", wire.StrategyCSS, "li")
	if !strings.Contains(got, `(document).querySelectorAll("li").length`) {
		t.Errorf("expected a querySelectorAll-based count, got %q", got)
	}
}

func TestFindAllScriptXPath(t *testing.T) {
	got := findAllScript("document", wire.StrategyXPath, "//li")
	if !strings.Contains(got, "XPathResult.ORDERED_NODE_SNAPSHOT_TYPE") {
		t.Errorf("expected ordered-snapshot XPath evaluation, got %q", got)
	}
}
