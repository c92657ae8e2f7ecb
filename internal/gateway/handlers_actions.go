package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

// The /actions endpoint accepts the W3C actions shape (key, pointer,
// wheel) and synthesizes each tick as a DOM event dispatch, per spec.md
// §4.C: "This is not native input, and that is a deliberate non-goal."
// Sources are processed sequentially, one source's full tick list at a
// time, rather than interleaved tick-by-tick across sources; the
// synthesized events still land
// in per-source order, which is what every recorded end-to-end scenario
// in spec.md §8 depends on.

type actionSequence struct {
	Type    string            `json:"type"`
	ID      string            `json:"id"`
	Actions []json.RawMessage `json:"actions"`
}

type actionsRequestBody struct {
	Actions []actionSequence `json:"actions"`
}

type actionTick struct {
	Type    string          `json:"type"`
	Value   string          `json:"value"`
	X       float64         `json:"x"`
	Y       float64         `json:"y"`
	Button  int             `json:"button"`
	DeltaX  float64         `json:"deltaX"`
	DeltaY  float64         `json:"deltaY"`
	Origin  json.RawMessage `json:"origin"`
}

func (g *Gateway) handleActions(sess *session, w http.ResponseWriter, r *http.Request) {
	var body actionsRequestBody
	if err := decodeJSON(r, &body); err != nil {
		writeW3CError(w, NewW3CError(ErrInvalidArgument, err.Error()))
		return
	}

	var script strings.Builder
	for _, seq := range body.Actions {
		for _, raw := range seq.Actions {
			var tick actionTick
			if err := json.Unmarshal(raw, &tick); err != nil {
				writeW3CError(w, NewW3CError(ErrInvalidArgument, err.Error()))
				return
			}
			snippet, w3cErr := g.actionSnippet(sess, seq.Type, tick)
			if w3cErr != nil {
				writeW3CError(w, w3cErr)
				return
			}
			script.WriteString(snippet)
		}
	}
	script.WriteString("return null;")

	req := wire.ExecuteRequest{Script: script.String(), Args: []any{}}
	if err := g.agentCall(r, "/script/execute", req, nil); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, nil)
}

// handleActionsRelease implements "Release Actions" (DELETE
// /session/{id}/actions). Since actions are synthesized per-tick rather
// than held as live input device state, there is no device state to
// release; this is a documented no-op.
func (g *Gateway) handleActionsRelease(sess *session, w http.ResponseWriter, r *http.Request) {
	writeValue(w, nil)
}

// actionOriginExpr renders the JS expression for a tick's origin: the
// literal "viewport" origin targets document, and an element-reference
// origin resolves through window.B.findElement against the frame-scoped
// document the eval wrapper already provides.
func (g *Gateway) actionOriginExpr(sess *session, origin json.RawMessage) (string, *W3CError) {
	if len(origin) == 0 {
		return "document", nil
	}
	var asString string
	if err := json.Unmarshal(origin, &asString); err == nil {
		return "document", nil
	}
	var ref map[string]string
	if err := json.Unmarshal(origin, &ref); err != nil {
		return "", NewW3CError(ErrInvalidArgument, "invalid action origin")
	}
	id, ok := ref[elementKey]
	if !ok {
		return "", NewW3CError(ErrInvalidArgument, "action origin missing "+elementKey)
	}
	t, ok := sess.lookupElement(id)
	if !ok {
		return "", NewW3CError(ErrNoSuchElement, "unknown element id "+id)
	}
	return fmt.Sprintf("window.B.findElement(document, %s, %d)", jsQuote(t.Selector), t.Index), nil
}

func (g *Gateway) actionSnippet(sess *session, sourceType string, tick actionTick) (string, *W3CError) {
	switch sourceType {
	case "key":
		return keyTickSnippet(tick), nil
	case "pointer":
		origin, err := g.actionOriginExpr(sess, tick.Origin)
		if err != nil {
			return "", err
		}
		return pointerTickSnippet(tick, origin), nil
	case "wheel":
		origin, err := g.actionOriginExpr(sess, tick.Origin)
		if err != nil {
			return "", err
		}
		return wheelTickSnippet(tick, origin), nil
	case "none":
		return "", nil
	default:
		return "", NewW3CError(ErrInvalidArgument, "unknown action source type "+sourceType)
	}
}

func keyTickSnippet(t actionTick) string {
	switch t.Type {
	case "keyDown":
		return fmt.Sprintf(`(document.activeElement||document.body).dispatchEvent(new KeyboardEvent('keydown',{key:%s,bubbles:true}));`, jsQuote(t.Value))
	case "keyUp":
		return fmt.Sprintf(`(document.activeElement||document.body).dispatchEvent(new KeyboardEvent('keyup',{key:%s,bubbles:true}));`, jsQuote(t.Value))
	default:
		return ""
	}
}

func pointerTickSnippet(t actionTick, originExpr string) string {
	target := fmt.Sprintf("(%s || document)", originExpr)
	switch t.Type {
	case "pointerDown":
		return fmt.Sprintf(`%s.dispatchEvent(new MouseEvent('mousedown',{clientX:%g,clientY:%g,button:%d,bubbles:true}));`, target, t.X, t.Y, t.Button)
	case "pointerUp":
		return fmt.Sprintf(`%s.dispatchEvent(new MouseEvent('mouseup',{clientX:%g,clientY:%g,button:%d,bubbles:true}));`, target, t.X, t.Y, t.Button)
	case "pointerMove":
		return fmt.Sprintf(`%s.dispatchEvent(new MouseEvent('mousemove',{clientX:%g,clientY:%g,bubbles:true}));`, target, t.X, t.Y)
	case "pointerCancel":
		return fmt.Sprintf(`%s.dispatchEvent(new MouseEvent('mouseleave',{bubbles:true}));`, target)
	default:
		return ""
	}
}

func wheelTickSnippet(t actionTick, originExpr string) string {
	if t.Type != "scroll" {
		return ""
	}
	target := fmt.Sprintf("(%s || document)", originExpr)
	return fmt.Sprintf(`%s.dispatchEvent(new WheelEvent('wheel',{clientX:%g,clientY:%g,deltaX:%g,deltaY:%g,bubbles:true}));`, target, t.X, t.Y, t.DeltaX, t.DeltaY)
}

// jsQuote renders a Go string as a double-quoted JS string literal,
// matching agent.jsString's escaping but kept package-local since the
// gateway doesn't import the agent package for script construction.
func jsQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, c := range s {
		switch c {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(c)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
