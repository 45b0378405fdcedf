package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/prossm/basic-web-tts/pkg/auth"
	"github.com/prossm/basic-web-tts/pkg/dashboard"
	"github.com/prossm/basic-web-tts/pkg/recording"
)

// requireSuperuser resolves the caller's profile and enforces the
// administrative flag. Missing identity and missing privilege are distinct
// failures.
func (h *Handler) requireSuperuser(w http.ResponseWriter, r *http.Request) bool {
	subject := auth.Subject(r.Context())

	if subject == "" {
		writeError(w, http.StatusUnauthorized, errors.New("authentication required"))
		return false
	}

	if h.Recordings == nil || h.Dashboard == nil {
		writeError(w, http.StatusInternalServerError, recording.ErrUnavailable)
		return false
	}

	profile, err := h.Recordings.Profile(r.Context(), subject)

	if err != nil {
		if errors.Is(err, recording.ErrNotFound) {
			writeError(w, http.StatusForbidden, errors.New("superuser access required"))
			return false
		}

		writeError(w, statusFor(err), err)

		return false
	}

	if !profile.Superuser {
		writeError(w, http.StatusForbidden, errors.New("superuser access required"))
		return false
	}

	return true
}

func (h *Handler) handleDashboardRecordings(w http.ResponseWriter, r *http.Request) {
	if !h.requireSuperuser(w, r) {
		return
	}

	filter := dashboard.Filter{
		Search: r.URL.Query().Get("search"),
		Voice:  r.URL.Query().Get("voice"),
		Email:  r.URL.Query().Get("user_email"),

		Duration: r.URL.Query().Get("duration"),
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, pagination, err := h.Dashboard.Query(r.Context(), filter, page, limit)

	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJson(w, map[string]any{
		"recordings": entries,
		"pagination": pagination,
	})
}

func (h *Handler) handleDashboardVoices(w http.ResponseWriter, r *http.Request) {
	if !h.requireSuperuser(w, r) {
		return
	}

	voices, err := h.Dashboard.Voices(r.Context())

	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	if voices == nil {
		voices = []string{}
	}

	writeJson(w, map[string]any{
		"voices": voices,
	})
}
