package agent

import (
	"net/http"

	"github.com/anthropics/webkit-webdriver/internal/wire"
)

func (a *Agent) handleFrameSwitch(w http.ResponseWriter, r *http.Request) {
	var req wire.FrameSwitchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid argument", err)
		return
	}
	switch req.Kind {
	case "clear":
		a.frames.clear()
	case "index":
		a.frames.pushIndex(req.Index)
	case "element":
		if req.Element == nil {
			writeError(w, "invalid argument", errMissingFrameElement)
			return
		}
		a.frames.pushElement(*req.Element)
	default:
		writeError(w, "invalid argument", errUnknownFrameKind)
		return
	}
	writeNull(w)
}

func (a *Agent) handleFrameParent(w http.ResponseWriter, r *http.Request) {
	a.frames.parent()
	writeNull(w)
}
