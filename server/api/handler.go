package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prossm/basic-web-tts/config"
	"github.com/prossm/basic-web-tts/pkg/blob"
	"github.com/prossm/basic-web-tts/pkg/catalog"
	"github.com/prossm/basic-web-tts/pkg/recording"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	*config.Config
}

func New(cfg *config.Config) (*Handler, error) {
	h := &Handler{
		Config: cfg,
	}

	return h, nil
}

func (h *Handler) Attach(r chi.Router) {
	r.Get("/health", h.handleHealth)

	r.Get("/voices", h.handleVoices)
	r.Post("/synthesize", h.handleSynthesize)
	r.Get("/audio/{name}", h.handleAudio)

	r.Get("/recordings", h.handleRecordings)
	r.Delete("/recordings/{id}", h.handleRecordingDelete)

	r.Get("/dashboard/recordings", h.handleDashboardRecordings)
	r.Get("/dashboard/voices", h.handleDashboardVoices)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJson(w, map[string]string{"status": "ok"})
}

func writeJson(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.WriteHeader(code)

	text := http.StatusText(code)

	if err != nil {
		text = err.Error()
	}

	w.Write([]byte(text))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrVoiceNotFound):
		return http.StatusNotFound

	case errors.Is(err, recording.ErrNotFound), errors.Is(err, blob.ErrNotFound):
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}
