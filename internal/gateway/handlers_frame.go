package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

// frameSwitchBody is the W3C Switch To Frame request body: id is either an
// integer index, a W3C element reference object, or null, per spec.md
// §4.C's frame-switch translation rule.
type frameSwitchBody struct {
	ID json.RawMessage `json:"id"`
}

func (g *Gateway) handleFrameSwitch(sess *session, w http.ResponseWriter, r *http.Request) {
	var body frameSwitchBody
	if err := decodeJSON(r, &body); err != nil {
		writeW3CError(w, NewW3CError(ErrInvalidArgument, err.Error()))
		return
	}

	req := wire.FrameSwitchRequest{}
	switch {
	case len(body.ID) == 0 || string(body.ID) == "null":
		req.Kind = "clear"
	default:
		var idx int
		if err := json.Unmarshal(body.ID, &idx); err == nil {
			req.Kind = "index"
			req.Index = idx
			break
		}
		var elemRef map[string]string
		if err := json.Unmarshal(body.ID, &elemRef); err != nil {
			writeW3CError(w, NewW3CError(ErrInvalidArgument, "frame id must be an integer, element reference, or null"))
			return
		}
		id, ok := elemRef[elementKey]
		if !ok {
			writeW3CError(w, NewW3CError(ErrInvalidArgument, "frame element reference missing "+elementKey))
			return
		}
		triple, ok := sess.lookupElement(id)
		if !ok {
			writeW3CError(w, NewW3CError(ErrNoSuchElement, "unknown element id "+id))
			return
		}
		req.Kind = "element"
		req.Element = &wire.ElementRef{Selector: triple.Selector, Index: triple.Index}
	}

	if err := g.agentCall(r, "/frame/switch", req, nil); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, nil)
}

func (g *Gateway) handleFrameParent(sess *session, w http.ResponseWriter, r *http.Request) {
	if err := g.agentCall(r, "/frame/parent", nil, nil); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, nil)
}
