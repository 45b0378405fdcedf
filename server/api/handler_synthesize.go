package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/prossm/basic-web-tts/pkg/auth"
	"github.com/prossm/basic-web-tts/pkg/blob"
	"github.com/prossm/basic-web-tts/pkg/recording"
	"github.com/prossm/basic-web-tts/pkg/synthesizer"
	"github.com/prossm/basic-web-tts/pkg/voice"
)

type SynthesizeRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

type SynthesizeResponse struct {
	ID string `json:"id"`

	URL      string   `json:"url"`
	Duration *float64 `json:"duration"`
}

func (h *Handler) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	var req SynthesizeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, errors.New("text is required"))
		return
	}

	if req.Voice == "" {
		writeError(w, http.StatusBadRequest, errors.New("voice is required"))
		return
	}

	if h.Models == nil {
		writeError(w, http.StatusInternalServerError, blob.ErrUnavailable)
		return
	}

	pair, err := h.Models.Stage(r.Context(), req.Voice)

	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	engine, err := h.Synthesizer("")

	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	synthesis, err := engine.Synthesize(r.Context(), req.Text, &synthesizer.Options{
		Voice: req.Voice,
		Model: pair,
	})

	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	stored := false

	if h.Storage != nil {
		if err := h.Storage.Put(r.Context(), voice.AudioObject(synthesis.ID), synthesis.Content); err != nil {
			slog.Error("storing audio failed", "id", synthesis.ID, "error", err)
		} else {
			stored = true
		}
	}

	audioURL := "/audio/" + synthesis.ID + ".wav"

	// history is best-effort: the synthesis result is returned even when
	// the record cannot be written
	h.record(r, req, audioURL, synthesis)

	if !stored || wantsAudio(r) {
		w.Header().Set("Content-Type", synthesis.ContentType)
		w.Write(synthesis.Content)

		return
	}

	writeJson(w, SynthesizeResponse{
		ID: synthesis.ID,

		URL:      audioURL,
		Duration: synthesis.Duration,
	})
}

func (h *Handler) record(r *http.Request, req SynthesizeRequest, audioURL string, synthesis *synthesizer.Synthesis) {
	if h.Recordings == nil {
		return
	}

	ctx := r.Context()
	owner := auth.Subject(ctx)

	if owner != "" {
		if err := h.Recordings.EnsureProfile(ctx, owner, auth.Email(ctx)); err != nil {
			slog.Error("ensuring profile failed", "owner", owner, "error", err)
		}
	}

	rec := recording.New(owner, req.Voice, req.Text, audioURL, synthesis.Duration)

	if err := h.Recordings.Put(ctx, rec); err != nil {
		slog.Error("recording history failed", "id", rec.ID, "error", err)
	}
}

func wantsAudio(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "audio/")
}
