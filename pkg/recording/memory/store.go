package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/prossm/basic-web-tts/pkg/recording"
)

var _ recording.Store = (*Store)(nil)

// Store keeps recordings and profiles in process memory, mirroring the
// two-partition layout of the document database.
type Store struct {
	mu sync.RWMutex

	owned     map[string]map[string]recording.Recording
	anonymous []recording.Recording
	profiles  map[string]recording.Profile
}

func New() *Store {
	return &Store{
		owned:    make(map[string]map[string]recording.Recording),
		profiles: make(map[string]recording.Profile),
	}
}

func (s *Store) Put(ctx context.Context, rec recording.Recording) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.Owner == "" {
		s.anonymous = append(s.anonymous, rec)
		return nil
	}

	if s.owned[rec.Owner] == nil {
		s.owned[rec.Owner] = make(map[string]recording.Recording)
	}

	s.owned[rec.Owner][rec.ID] = rec

	return nil
}

func (s *Store) List(ctx context.Context, owner string) ([]recording.Recording, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var recordings []recording.Recording

	for _, rec := range s.owned[owner] {
		if rec.Deleted {
			continue
		}

		recordings = append(recordings, rec)
	}

	sort.Slice(recordings, func(i, j int) bool {
		return recordings[i].Created > recordings[j].Created
	})

	return recordings, nil
}

func (s *Store) SoftDelete(ctx context.Context, owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.owned[owner][id]

	if !ok {
		return recording.ErrNotFound
	}

	rec.Deleted = true
	s.owned[owner][id] = rec

	return nil
}

func (s *Store) ListAnonymous(ctx context.Context) ([]recording.Recording, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var recordings []recording.Recording

	for _, rec := range s.anonymous {
		if rec.Deleted {
			continue
		}

		recordings = append(recordings, rec)
	}

	sort.Slice(recordings, func(i, j int) bool {
		return recordings[i].Created > recordings[j].Created
	})

	return recordings, nil
}

func (s *Store) Profiles(ctx context.Context) ([]recording.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var profiles []recording.Profile

	for _, profile := range s.profiles {
		profiles = append(profiles, profile)
	}

	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Subject < profiles[j].Subject
	})

	return profiles, nil
}

func (s *Store) Profile(ctx context.Context, subject string) (*recording.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[subject]

	if !ok {
		return nil, recording.ErrNotFound
	}

	return &profile, nil
}

func (s *Store) EnsureProfile(ctx context.Context, subject, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[subject]

	if !ok {
		profile = recording.Profile{Subject: subject}
	}

	profile.Email = email
	s.profiles[subject] = profile

	return nil
}

// SetSuperuser flags a profile for the dashboard surface (test helper; the
// production flag is set directly in the database).
func (s *Store) SetSuperuser(subject string, superuser bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[subject]

	if !ok {
		profile = recording.Profile{Subject: subject}
	}

	profile.Superuser = superuser
	s.profiles[subject] = profile
}
