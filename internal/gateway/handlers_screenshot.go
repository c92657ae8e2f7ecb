package gateway

import "net/http"

func (g *Gateway) handleScreenshot(sess *session, w http.ResponseWriter, r *http.Request) {
	var b64 string
	if err := g.agentCall(r, "/screenshot", nil, &b64); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, b64)
}

func (g *Gateway) handleElementScreenshot(sess *session, w http.ResponseWriter, r *http.Request) {
	t, w3cErr := g.resolveElement(sess, r.PathValue("elementId"))
	if w3cErr != nil {
		writeW3CError(w, w3cErr)
		return
	}
	var b64 string
	if err := g.agentCall(r, "/screenshot/element", g.elementRequest(t), &b64); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, b64)
}
