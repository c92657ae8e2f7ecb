package gateway

import (
	"fmt"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

// normalizeLocator converts one of the five W3C locator strategies to the
// two the agent understands (css/xpath), per spec.md §4.C:
//
//	css selector         -> css
//	xpath                -> xpath
//	tag name "T"          -> css "T"
//	link text "S"          -> xpath //a[normalize-space(text())="S"]
//	partial link text "S"  -> xpath //a[contains(text(),"S")]
//
// Unknown strategies yield "invalid argument".
func normalizeLocator(using, value string) (wire.Strategy, string, error) {
	switch using {
	case "css selector":
		return wire.StrategyCSS, value, nil
	case "xpath":
		return wire.StrategyXPath, value, nil
	case "tag name":
		return wire.StrategyCSS, value, nil
	case "link text":
		return wire.StrategyXPath, fmt.Sprintf(`//a[normalize-space(text())=%s]`, xpathLiteral(value)), nil
	case "partial link text":
		return wire.StrategyXPath, fmt.Sprintf(`//a[contains(text(),%s)]`, xpathLiteral(value)), nil
	default:
		return "", "", NewW3CError(ErrInvalidArgument, fmt.Sprintf("unknown locator strategy %q", using))
	}
}

// xpathLiteral renders s as an XPath string literal, switching to a
// concat() expression if s itself contains both quote characters (XPath
// 1.0 has no escape sequence for this case).
func xpathLiteral(s string) string {
	hasSingle := false
	hasDouble := false
	for _, c := range s {
		if c == '\'' {
			hasSingle = true
		}
		if c == '"' {
			hasDouble = true
		}
	}
	if !hasDouble {
		return `"` + s + `"`
	}
	if !hasSingle {
		return `'` + s + `'`
	}
	// Contains both quote types: build concat("a", '"', "b", ...).
	out := "concat("
	first := true
	cur := ""
	flush := func() {
		if !first {
			out += ", "
		}
		out += `"` + cur + `"`
		cur = ""
		first = false
	}
	for _, c := range s {
		if c == '"' {
			flush()
			if !first {
				out += ", "
			}
			out += `'"'`
			first = false
			continue
		}
		cur += string(c)
	}
	flush()
	out += ")"
	return out
}
