package agent

import (
	"fmt"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

// elementExpr renders the JS expression that resolves an element-by-value
// reference (wire.ElementRef plus strategy) against the given scoping
// document expression, per spec.md §2's "element identity is a value, not
// a live reference" invariant: every lookup re-runs the locator rather than
// dereferencing a stored handle.
func elementExpr(docExpr string, using wire.Strategy, selector string, index int) string {
	sel := jsString(selector)
	switch using {
	case wire.StrategyXPath:
		return fmt.Sprintf("window.B.findElementByXPath(%s, %s, %d)", docExpr, sel, index)
	default:
		return fmt.Sprintf("window.B.findElement(%s, %s, %d)", docExpr, sel, index)
	}
}

// shadowElementExpr resolves selector/index inside the ShadowRoot cached
// under shadowID (spec.md §4.B's "shadow find" scopes into a cached
// ShadowRoot rather than a document).
func shadowElementExpr(shadowID string, using wire.Strategy, selector string, index int) string {
	root := fmt.Sprintf("window.B.findElementInShadow(%s)", jsString(shadowID))
	sel := jsString(selector)
	if using == wire.StrategyXPath {
		return fmt.Sprintf("window.B.findElementByXPath(%s, %s, %d)", root, sel, index)
	}
	return fmt.Sprintf("window.B.findElement(%s, %s, %d)", root, sel, index)
}

// findAllScript returns a script that enumerates every match of the given
// locator under docExpr and resolves with a wire.FindResult array. index
// position stands in for the live result, matching the stateless-triple
// identity model: the gateway replays (using, value, index) on every later
// operation rather than holding a handle.
func findAllScript(docExpr string, using wire.Strategy, value string) string {
	sel := jsString(value)
	if using == wire.StrategyXPath {
		return fmt.Sprintf(`
var __root = %s;
var __snap = (__root.ownerDocument || __root).evaluate(%s, __root, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
var __out = [];
for (var __i = 0; __i < __snap.snapshotLength; __i++) { __out.push({ selector: %s, index: __i }); }
return __out;
`, docExpr, sel, sel)
	}
	return fmt.Sprintf(`
var __n = (%s).querySelectorAll(%s).length;
var __out = [];
for (var __i = 0; __i < __n; __i++) { __out.push({ selector: %s, index: __i }); }
return __out;
`, docExpr, sel, sel)
}

// findAllFromScript is findAllScript scoped under a parent element: matches
// are still identified by (selector, document-wide index) so the resulting
// refs stay resolvable without holding the parent, per spec.md §2's
// value-identity invariant.
func findAllFromScript(docExpr string, parentExpr string, using wire.Strategy, value string) string {
	sel := jsString(value)
	if using == wire.StrategyXPath {
		return fmt.Sprintf(`
%s
var __doc = %s;
var __root = __doc.ownerDocument || __doc;
var __snap = __root.evaluate(%s, __doc, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
var __out = [];
for (var __i = 0; __i < __snap.snapshotLength; __i++) {
  if (__el.contains(__snap.snapshotItem(__i))) { __out.push({ selector: %s, index: __i }); }
}
return __out;
`, requireElementScript(parentExpr), docExpr, sel, sel)
	}
	return fmt.Sprintf(`
%s
var __all = (%s).querySelectorAll(%s);
var __out = [];
for (var __i = 0; __i < __all.length; __i++) {
  if (__el.contains(__all[__i])) { __out.push({ selector: %s, index: __i }); }
}
return __out;
`, requireElementScript(parentExpr), docExpr, sel, sel)
}

// requireElementScript wraps an element expression with a throw-if-missing
// guard. The expression always re-resolves a triple an earlier find already
// matched, so a miss means the node has gone from the DOM: the guard throws
// an Error named StaleElementReference, which the agent reports as the W3C
// "stale element reference" error code.
func requireElementScript(elemExpr string) string {
	return fmt.Sprintf(`
var __el = %s;
if (!__el) { var __e = new Error('stale element reference'); __e.name = 'StaleElementReference'; throw __e; }
`, elemExpr)
}
