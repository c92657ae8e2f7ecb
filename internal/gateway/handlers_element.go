package gateway

import (
	"net/http"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

// findRequestBody is the W3C Find Element(s) request body.
type findRequestBody struct {
	Using string `json:"using"`
	Value string `json:"value"`
}

func (g *Gateway) handleFindElement(sess *session, w http.ResponseWriter, r *http.Request) {
	refs, w3cErr := g.findAll(sess, r, nil)
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

func (g *Gateway) handleFindElements(sess *session, w http.ResponseWriter, r *http.Request) {
	refs, w3cErr := g.findAll(sess, r, nil)
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

func (g *Gateway) handleFindElementFrom(sess *session, w http.ResponseWriter, r *http.Request) {
	parent, w3cErr := g.resolveElement(sess, r.PathValue("elementId"))
	if w3cErr != nil {
		writeW3CError(w, w3cErr)
		return
	}
	refs, w3cErr := g.findAll(sess, r, &parent)
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

func (g *Gateway) handleFindElementsFrom(sess *session, w http.ResponseWriter, r *http.Request) {
	parent, w3cErr := g.resolveElement(sess, r.PathValue("elementId"))
	if w3cErr != nil {
		writeW3CError(w, w3cErr)
		return
	}
	refs, w3cErr := g.findAll(sess, r, &parent)
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

// findAll decodes the find request body, normalizes its locator strategy,
// forwards to the agent's /element/find or /element/find-from, and mints
// a fresh W3C element id for every match — per spec.md §4.C's "a fresh id
// is issued" rule, even for a structurally identical triple already
// present in the table.
func (g *Gateway) findAll(sess *session, r *http.Request, parent *elementTriple) ([]string, *W3CError) {
	var body findRequestBody
	if err := decodeJSON(r, &body); err != nil {
		return nil, NewW3CError(ErrInvalidArgument, err.Error())
	}
	using, value, err := normalizeLocator(body.Using, body.Value)
	if err != nil {
		return nil, asW3CError(err)
	}

	var results []wire.FindResult
	if parent == nil {
		req := wire.FindRequest{Using: using, Value: value}
		if err := g.agentCall(r, "/element/find", req, &results); err != nil {
			return nil, asW3CError(err)
		}
	} else {
		req := wire.FindFromRequest{
			ParentSelector: parent.Selector,
			ParentIndex:    parent.Index,
			Using:          using,
			Value:          value,
		}
		if err := g.agentCall(r, "/element/find-from", req, &results); err != nil {
			return nil, asW3CError(err)
		}
	}

	ids := make([]string, len(results))
	for i, res := range results {
		ids[i] = sess.mintElement(elementTriple{Strategy: using, Selector: res.Selector, Index: res.Index})
	}
	return ids, nil
}

// resolveElement looks up a W3C element id against the session's element
// table, returning "no such element" if it was never minted — distinct
// from "stale element reference", which arises only once the agent's
// re-resolution of a known-good triple fails against the live DOM.
func (g *Gateway) resolveElement(sess *session, id string) (elementTriple, *W3CError) {
	t, ok := sess.lookupElement(id)
	if !ok {
		return elementTriple{}, NewW3CError(ErrNoSuchElement, "unknown element id "+id)
	}
	return t, nil
}

func (g *Gateway) handleActiveElement(sess *session, w http.ResponseWriter, r *http.Request) {
	var ref wire.FindResult
	if err := g.agentCall(r, "/element/active", nil, &ref); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	id := sess.mintElement(elementTriple{Strategy: wire.StrategyCSS, Selector: ref.Selector, Index: ref.Index})
	writeValue(w, wrapElementID(id))
}

// --- Read group ---

func (g *Gateway) elementRequest(t elementTriple) wire.ElementRequest {
	return wire.ElementRequest{Selector: t.Selector, Index: t.Index}
}

func (g *Gateway) handleElementText(sess *session, w http.ResponseWriter, r *http.Request) {
	g.readElementString(sess, w, r, "/element/text")
}

func (g *Gateway) handleElementTagName(sess *session, w http.ResponseWriter, r *http.Request) {
	g.readElementString(sess, w, r, "/element/tag")
}

func (g *Gateway) handleElementComputedRole(sess *session, w http.ResponseWriter, r *http.Request) {
	g.readElementString(sess, w, r, "/element/computed-role")
}

func (g *Gateway) handleElementComputedLabel(sess *session, w http.ResponseWriter, r *http.Request) {
	g.readElementString(sess, w, r, "/element/computed-label")
}

func (g *Gateway) readElementString(sess *session, w http.ResponseWriter, r *http.Request, path string) {
	t, w3cErr := g.resolveElement(sess, r.PathValue("elementId"))
	if w3cErr != nil {
		writeW3CError(w, w3cErr)
		return
	}
	var out string
	if err := g.agentCall(r, path, g.elementRequest(t), &out); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, out)
}

func (g *Gateway) handleElementAttribute(sess *session, w http.ResponseWriter, r *http.Request) {
	t, w3cErr := g.resolveElement(sess, r.PathValue("elementId"))
	if w3cErr != nil {
		writeW3CError(w, w3cErr)
		return
	}
	req := wire.AttributeRequest{Selector: t.Selector, Index: t.Index, Name: r.PathValue("name")}
	var out *string
	if err := g.agentCall(r, "/element/attribute", req, &out); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, out)
}

func (g *Gateway) handleElementProperty(sess *session, w http.ResponseWriter, r *http.Request) {
	t, w3cErr := g.resolveElement(sess, r.PathValue("elementId"))
	if w3cErr != nil {
		writeW3CError(w, w3cErr)
		return
	}
	req := wire.AttributeRequest{Selector: t.Selector, Index: t.Index, Name: r.PathValue("name")}
	var out any
	if err := g.agentCall(r, "/element/property", req, &out); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, out)
}

func (g *Gateway) handleElementRect(sess *session, w http.ResponseWriter, r *http.Request) {
	t, w3cErr := g.resolveElement(sess, r.PathValue("elementId"))
	if w3cErr != nil {
		writeW3CError(w, w3cErr)
		return
	}
	var rect wire.Rect
	if err := g.agentCall(r, "/element/rect", g.elementRequest(t), &rect); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, rect)
}

func (g *Gateway) handleElementDisplayed(sess *session, w http.ResponseWriter, r *http.Request) {
	g.readElementBool(sess, w, r, "/element/displayed")
}

func (g *Gateway) handleElementEnabled(sess *session, w http.ResponseWriter, r *http.Request) {
	g.readElementBool(sess, w, r, "/element/enabled")
}

func (g *Gateway) handleElementSelected(sess *session, w http.ResponseWriter, r *http.Request) {
	g.readElementBool(sess, w, r, "/element/selected")
}

func (g *Gateway) readElementBool(sess *session, w http.ResponseWriter, r *http.Request, path string) {
	t, w3cErr := g.resolveElement(sess, r.PathValue("elementId"))
	if w3cErr != nil {
		writeW3CError(w, w3cErr)
		return
	}
	var out bool
	if err := g.agentCall(r, path, g.elementRequest(t), &out); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, out)
}

// --- Write group ---

func (g *Gateway) handleElementClick(sess *session, w http.ResponseWriter, r *http.Request) {
	g.writeElementNull(sess, w, r, "/element/click")
}

func (g *Gateway) handleElementClear(sess *session, w http.ResponseWriter, r *http.Request) {
	g.writeElementNull(sess, w, r, "/element/clear")
}

func (g *Gateway) writeElementNull(sess *session, w http.ResponseWriter, r *http.Request, path string) {
	t, w3cErr := g.resolveElement(sess, r.PathValue("elementId"))
	if w3cErr != nil {
		writeW3CError(w, w3cErr)
		return
	}
	if err := g.agentCall(r, path, g.elementRequest(t), nil); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, nil)
}

// elementValueBody is the W3C Element Send Keys request body: `text`
// carries the keys to type. The text is always forwarded to the agent's
// /element/send-keys; file inputs are not detected, and nothing here calls
// /element/set-files.
type elementValueBody struct {
	Text string `json:"text"`
}

func (g *Gateway) handleElementSendKeys(sess *session, w http.ResponseWriter, r *http.Request) {
	t, w3cErr := g.resolveElement(sess, r.PathValue("elementId"))
	if w3cErr != nil {
		writeW3CError(w, w3cErr)
		return
	}
	var body elementValueBody
	if err := decodeJSON(r, &body); err != nil {
		writeW3CError(w, NewW3CError(ErrInvalidArgument, err.Error()))
		return
	}
	req := wire.SendKeysRequest{Selector: t.Selector, Index: t.Index, Text: body.Text}
	if err := g.agentCall(r, "/element/send-keys", req, nil); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, nil)
}
