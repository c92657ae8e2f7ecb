package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

type executeRequestBody struct {
	Script string `json:"script"`
	Args   []any  `json:"args"`
}

func (g *Gateway) handleExecuteSync(sess *session, w http.ResponseWriter, r *http.Request) {
	g.execute(sess, w, r, "/script/execute")
}

func (g *Gateway) handleExecuteAsync(sess *session, w http.ResponseWriter, r *http.Request) {
	g.execute(sess, w, r, "/script/execute-async")
}

func (g *Gateway) execute(sess *session, w http.ResponseWriter, r *http.Request, path string) {
	var body executeRequestBody
	if err := decodeJSON(r, &body); err != nil {
		writeW3CError(w, NewW3CError(ErrInvalidArgument, err.Error()))
		return
	}
	args, w3cErr := g.substituteElementArgs(sess, body.Args)
	if w3cErr != nil {
		writeW3CError(w, w3cErr)
		return
	}
	req := wire.ExecuteRequest{Script: body.Script, Args: args}
	var result json.RawMessage
	if err := g.agentCall(r, path, req, &result); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	if len(result) == 0 {
		writeValue(w, nil)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write([]byte(`{"value":`))
	_, _ = w.Write(result)
	_, _ = w.Write([]byte("}"))
}

// substituteElementArgs recursively walks the caller's argument tree,
// replacing every W3C element reference object ({element-6066-...: id})
// with the {selector, index} handle the agent's eval wrapper can resolve,
// per spec.md §4.C: "W3C element references in args are substituted with
// {selector, index} handles accessible to the user's script via the
// standard arguments mechanism."
func (g *Gateway) substituteElementArgs(sess *session, args []any) ([]any, *W3CError) {
	out := make([]any, len(args))
	for i, a := range args {
		v, err := g.substituteValue(sess, a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (g *Gateway) substituteValue(sess *session, v any) (any, *W3CError) {
	switch val := v.(type) {
	case map[string]any:
		if idRaw, ok := val[elementKey]; ok {
			id, _ := idRaw.(string)
			t, ok := sess.lookupElement(id)
			if !ok {
				return nil, NewW3CError(ErrNoSuchElement, "unknown element id "+id)
			}
			return wire.ElementRef{Selector: t.Selector, Index: t.Index}, nil
		}
		out := make(map[string]any, len(val))
		for k, inner := range val {
			sub, err := g.substituteValue(sess, inner)
			if err != nil {
				return nil, err
			}
			out[k] = sub
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			sub, err := g.substituteValue(sess, inner)
			if err != nil {
				return nil, err
			}
			out[i] = sub
		}
		return out, nil
	default:
		return v, nil
	}
}
