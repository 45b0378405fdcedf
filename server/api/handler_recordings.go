package api

import (
	"errors"
	"net/http"

	"github.com/prossm/basic-web-tts/pkg/auth"
	"github.com/prossm/basic-web-tts/pkg/recording"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) handleRecordings(w http.ResponseWriter, r *http.Request) {
	owner := auth.Subject(r.Context())

	if owner == "" {
		writeError(w, http.StatusUnauthorized, errors.New("authentication required"))
		return
	}

	if h.Recordings == nil {
		writeError(w, http.StatusInternalServerError, recording.ErrUnavailable)
		return
	}

	recordings, err := h.Recordings.List(r.Context(), owner)

	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	if recordings == nil {
		recordings = []recording.Recording{}
	}

	writeJson(w, map[string]any{
		"recordings": recordings,
	})
}

func (h *Handler) handleRecordingDelete(w http.ResponseWriter, r *http.Request) {
	owner := auth.Subject(r.Context())

	if owner == "" {
		writeError(w, http.StatusUnauthorized, errors.New("authentication required"))
		return
	}

	if h.Recordings == nil {
		writeError(w, http.StatusInternalServerError, recording.ErrUnavailable)
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.Recordings.SoftDelete(r.Context(), owner, id); err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJson(w, map[string]string{"status": "deleted"})
}
