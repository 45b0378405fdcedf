package dashboard

import (
	"context"
	"sort"
	"strings"

	"github.com/prossm/basic-web-tts/pkg/recording"
)

// Engine answers the administrative dashboard queries by scanning both
// recording partitions in memory. Correct and simple at moderate volume;
// large deployments would push these filters into the store.
type Engine struct {
	store recording.Store
}

func New(store recording.Store) *Engine {
	return &Engine{
		store: store,
	}
}

type Filter struct {
	// Search matches as a case-insensitive substring of the stored text.
	Search string

	// Voice matches the voice name exactly, case-insensitive.
	Voice string

	// Email narrows to owners whose email contains the value. When set, the
	// anonymous partition is excluded entirely.
	Email string

	// Duration selects one of the fixed buckets, e.g. "5-10". Records with
	// unknown duration pass any bucket.
	Duration string
}

type Entry struct {
	recording.Recording

	UserEmail string `json:"user_email,omitempty"`
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`

	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`

	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

const DefaultLimit = 50

func (e *Engine) Query(ctx context.Context, filter Filter, page, limit int) ([]Entry, Pagination, error) {
	if page < 1 {
		page = 1
	}

	if limit < 1 {
		limit = DefaultLimit
	}

	profiles, err := e.store.Profiles(ctx)

	if err != nil {
		return nil, Pagination{}, err
	}

	var entries []Entry

	for _, profile := range profiles {
		if filter.Email != "" && !strings.Contains(strings.ToLower(profile.Email), strings.ToLower(filter.Email)) {
			continue
		}

		recordings, err := e.store.List(ctx, profile.Subject)

		if err != nil {
			return nil, Pagination{}, err
		}

		for _, rec := range recordings {
			if !match(rec, filter) {
				continue
			}

			entries = append(entries, Entry{
				Recording: rec,
				UserEmail: profile.Email,
			})
		}
	}

	if filter.Email == "" {
		recordings, err := e.store.ListAnonymous(ctx)

		if err != nil {
			return nil, Pagination{}, err
		}

		for _, rec := range recordings {
			if !match(rec, filter) {
				continue
			}

			entries = append(entries, Entry{
				Recording: rec,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Created > entries[j].Created
	})

	total := len(entries)
	totalPages := (total + limit - 1) / limit

	pagination := Pagination{
		Page:  page,
		Limit: limit,

		Total:      total,
		TotalPages: totalPages,

		HasNext: page < totalPages,
		HasPrev: page > 1 && total > 0,
	}

	start := (page - 1) * limit

	if start >= total {
		return []Entry{}, pagination, nil
	}

	end := min(start+limit, total)

	return entries[start:end], pagination, nil
}

// Voices scans both partitions and returns every voice ever used, sorted.
func (e *Engine) Voices(ctx context.Context) ([]string, error) {
	profiles, err := e.store.Profiles(ctx)

	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}

	collect := func(recordings []recording.Recording) {
		for _, rec := range recordings {
			if rec.Voice != "" {
				seen[rec.Voice] = true
			}
		}
	}

	for _, profile := range profiles {
		recordings, err := e.store.List(ctx, profile.Subject)

		if err != nil {
			return nil, err
		}

		collect(recordings)
	}

	recordings, err := e.store.ListAnonymous(ctx)

	if err != nil {
		return nil, err
	}

	collect(recordings)

	voices := make([]string, 0, len(seen))

	for name := range seen {
		voices = append(voices, name)
	}

	sort.Strings(voices)

	return voices, nil
}

func match(rec recording.Recording, filter Filter) bool {
	if filter.Voice != "" && !strings.EqualFold(rec.Voice, filter.Voice) {
		return false
	}

	if filter.Search != "" && !strings.Contains(strings.ToLower(rec.Text), strings.ToLower(filter.Search)) {
		return false
	}

	if filter.Duration != "" && !matchBucket(filter.Duration, rec.Duration) {
		return false
	}

	return true
}
