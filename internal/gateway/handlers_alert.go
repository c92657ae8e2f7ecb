package gateway

import (
	"net/http"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

func (g *Gateway) handleAlertText(sess *session, w http.ResponseWriter, r *http.Request) {
	var text string
	if err := g.agentCall(r, "/alert/text", nil, &text); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, text)
}

func (g *Gateway) handleAlertSendText(sess *session, w http.ResponseWriter, r *http.Request) {
	var req wire.AlertSendTextRequest
	if err := decodeJSON(r, &req); err != nil {
		writeW3CError(w, NewW3CError(ErrInvalidArgument, err.Error()))
		return
	}
	if err := g.agentCall(r, "/alert/send-text", req, nil); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, nil)
}

func (g *Gateway) handleAlertAccept(sess *session, w http.ResponseWriter, r *http.Request) {
	if err := g.agentCall(r, "/alert/accept", nil, nil); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, nil)
}

func (g *Gateway) handleAlertDismiss(sess *session, w http.ResponseWriter, r *http.Request) {
	if err := g.agentCall(r, "/alert/dismiss", nil, nil); err != nil {
		writeW3CError(w, asW3CError(err))
		return
	}
	writeValue(w, nil)
}
