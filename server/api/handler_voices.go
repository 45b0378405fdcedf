package api

import (
	"net/http"

	"github.com/prossm/basic-web-tts/pkg/blob"
	"github.com/prossm/basic-web-tts/pkg/voice"
)

func (h *Handler) handleVoices(w http.ResponseWriter, r *http.Request) {
	if h.Catalog == nil {
		writeError(w, http.StatusInternalServerError, blob.ErrUnavailable)
		return
	}

	voices, err := h.Catalog.List(r.Context())

	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	if voices == nil {
		voices = []voice.Voice{}
	}

	writeJson(w, voices)
}
