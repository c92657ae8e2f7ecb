package gateway

import (
	"net/http"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

// handleElementShadow implements the W3C "Get Element Shadow Root"
// command. Per spec.md §3's shadow-root table, the gateway stores the
// *host element's* triple under a freshly minted shadow id — not the
// agent's ephemeral shadow-cache key, which is re-derived on demand every
// time the shadow root is actually used (handleShadowFindElement(s)).
func (g *Gateway) handleElementShadow(sess *session, w http.ResponseWriter, r *http.Request) {
	host, w3cErr := g.resolveElement(sess, r.PathValue("elementId"))
	if w3cErr != nil {
		writeW3CError(w, w3cErr)
		return
	}
	var out wire.ShadowResult
	if err := g.agentCall(r, "/element/shadow", wire.ShadowRequest{Selector: host.Selector, Index: host.Index}, &out); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	if !out.HasShadow {
		writeW3CError(w, NewW3CError(ErrNoSuchShadowRoot, "element has no shadow root"))
		return
	}
	id := sess.mintShadow(host)
	writeValue(w, wrapShadowID(id))
}

func (g *Gateway) handleShadowFindElement(sess *session, w http.ResponseWriter, r *http.Request) {
	refs, w3cErr := g.findInShadow(sess, r)
	if w3cErr != nil {
		writeW3CError(w, w3cErr)
		return
	}
	if len(refs) == 0 {
		writeW3CError(w, NewW3CError(ErrNoSuchElement, "no element matched the given locator"))
		return
	}
	writeValue(w, wrapElementID(refs[0]))
}

func (g *Gateway) handleShadowFindElements(sess *session, w http.ResponseWriter, r *http.Request) {
	refs, w3cErr := g.findInShadow(sess, r)
	if w3cErr != nil {
		writeW3CError(w, w3cErr)
		return
	}
	out := make([]map[string]string, len(refs))
	for i, id := range refs {
		out[i] = wrapElementID(id)
	}
	writeValue(w, out)
}

func (g *Gateway) findInShadow(sess *session, r *http.Request) ([]string, *W3CError) {
	host, ok := sess.lookupShadow(r.PathValue("shadowId"))
	if !ok {
		return nil, NewW3CError(ErrNoSuchShadowRoot, "unknown shadow id "+r.PathValue("shadowId"))
	}

	// Re-derive the agent's ephemeral shadow-cache key: every
	// /element/shadow call mints a fresh one (bridge.go's registerShadow),
	// matching the no-caller-visible-dedup rule applied to elements.
	var shadowInfo wire.ShadowResult
	if err := g.agentCall(r, "/element/shadow", wire.ShadowRequest{Selector: host.Selector, Index: host.Index}, &shadowInfo); err != nil {
		return nil, asW3CError(err)
	}
	if !shadowInfo.HasShadow {
		return nil, NewW3CError(ErrNoSuchShadowRoot, "host element no longer has a shadow root")
	}

	var body findRequestBody
	if err := decodeJSON(r, &body); err != nil {
		return nil, NewW3CError(ErrInvalidArgument, err.Error())
	}
	using, value, err := normalizeLocator(body.Using, body.Value)
	if err != nil {
		return nil, asW3CError(err)
	}

	req := wire.ShadowFindRequest{HostSelector: shadowInfo.ID, Using: using, Value: value}
	var results []wire.FindResult
	if err := g.agentCall(r, "/shadow/find", req, &results); err != nil {
		return nil, asW3CError(err)
	}

	ids := make([]string, len(results))
	for i, res := range results {
		ids[i] = sess.mintElement(elementTriple{Strategy: wire.StrategyShadow, Selector: res.Selector, Index: res.Index})
	}
	return ids, nil
}
