package api

import (
	"net/http"

	"github.com/prossm/basic-web-tts/pkg/blob"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) handleAudio(w http.ResponseWriter, r *http.Request) {
	if h.Storage == nil {
		writeError(w, http.StatusInternalServerError, blob.ErrUnavailable)
		return
	}

	name := chi.URLParam(r, "name")

	data, err := h.Storage.Get(r.Context(), "audio/"+name)

	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Write(data)
}
