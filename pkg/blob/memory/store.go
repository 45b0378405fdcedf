package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prossm/basic-web-tts/pkg/blob"
)

var _ blob.Store = (*Store)(nil)

// Store is an in-process blob store used for tests and single-node setups.
type Store struct {
	mu      sync.RWMutex
	objects map[string]object
}

type object struct {
	data    []byte
	created time.Time
}

func New() *Store {
	return &Store{
		objects: make(map[string]object),
	}
}

func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.objects[name]

	if !ok {
		return nil, blob.ErrNotFound
	}

	data := make([]byte, len(o.data))
	copy(data, o.data)

	return data, nil
}

func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]byte, len(data))
	copy(copied, data)

	s.objects[name] = object{
		data:    copied,
		created: time.Now(),
	}

	return nil
}

func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.objects[name]

	return ok, nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]blob.Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var objects []blob.Object

	for name, o := range s.objects {
		if !strings.HasPrefix(name, prefix) {
			continue
		}

		objects = append(objects, blob.Object{
			Name: name,

			Size:    uint64(len(o.data)),
			Created: o.created,
		})
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].Name < objects[j].Name
	})

	return objects, nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[name]; !ok {
		return blob.ErrNotFound
	}

	delete(s.objects, name)

	return nil
}
