package nats

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/prossm/basic-web-tts/pkg/blob"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

var _ blob.Store = (*Store)(nil)

type Store struct {
	bucket string
	store  nats.ObjectStore
}

// New binds to the named object store bucket, creating it when absent.
func New(js nats.JetStreamContext, bucket string) (*Store, error) {
	store, err := js.CreateObjectStore(&nats.ObjectStoreConfig{
		Bucket:  bucket,
		Storage: nats.FileStorage,
	})

	if err != nil {
		if !errors.Is(err, jetstream.ErrBucketExists) {
			return nil, fmt.Errorf("create object store bucket %q: %w", bucket, err)
		}

		store, err = js.ObjectStore(bucket)

		if err != nil {
			return nil, fmt.Errorf("bind object store bucket %q: %w", bucket, err)
		}
	}

	return &Store{
		bucket: bucket,
		store:  store,
	}, nil
}

func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	obj, err := s.store.Get(name, nats.Context(ctx))

	if err != nil {
		if errors.Is(err, nats.ErrObjectNotFound) {
			return nil, blob.ErrNotFound
		}

		return nil, fmt.Errorf("get object %q from bucket %q: %w", name, s.bucket, err)
	}

	defer obj.Close()

	data, err := io.ReadAll(obj)

	if err != nil {
		return nil, fmt.Errorf("read object %q: %w", name, err)
	}

	return data, nil
}

func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	_, err := s.store.Put(&nats.ObjectMeta{Name: name}, bytes.NewReader(data), nats.Context(ctx))

	if err != nil {
		return fmt.Errorf("put object %q to bucket %q: %w", name, s.bucket, err)
	}

	return nil
}

func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.store.GetInfo(name, nats.Context(ctx))

	if err != nil {
		if errors.Is(err, nats.ErrObjectNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("stat object %q in bucket %q: %w", name, s.bucket, err)
	}

	return true, nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]blob.Object, error) {
	infos, err := s.store.List(nats.Context(ctx))

	if err != nil {
		if errors.Is(err, nats.ErrNoObjectsFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("list bucket %q: %w", s.bucket, err)
	}

	var objects []blob.Object

	for _, info := range infos {
		if !strings.HasPrefix(info.Name, prefix) {
			continue
		}

		objects = append(objects, blob.Object{
			Name: info.Name,

			Size:    info.Size,
			Created: info.ModTime,
		})
	}

	return objects, nil
}

// Delete removes the object. The object store API offers no context hook for
// deletes, so ctx only gates the call site.
func (s *Store) Delete(ctx context.Context, name string) error {
	err := s.store.Delete(name)

	if err != nil {
		if errors.Is(err, nats.ErrObjectNotFound) {
			return blob.ErrNotFound
		}

		return fmt.Errorf("delete object %q from bucket %q: %w", name, s.bucket, err)
	}

	return nil
}
