package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/prossm/basic-web-tts/pkg/blob"
	"github.com/prossm/basic-web-tts/pkg/voice"

	"golang.org/x/sync/singleflight"
)

// ModelPair is a voice's staged model files on local disk. ConfigPath may be
// empty when the voice was published without a sidecar.
type ModelPair struct {
	Voice string

	ModelPath  string
	ConfigPath string
}

// Cache stages model files from the artifact store into a local directory.
// Concurrent requests for the same voice share a single download, and files
// become visible only via rename, so a reader never sees a partial write.
// Sidecar absence is remembered per voice so sidecar-less voices still hit
// the local cache instead of re-fetching the model on every request.
type Cache struct {
	store blob.Store
	dir   string

	group singleflight.Group

	mu        sync.Mutex
	noSidecar map[string]bool
}

func NewCache(store blob.Store, dir string) *Cache {
	return &Cache{
		store: store,
		dir:   dir,

		noSidecar: make(map[string]bool),
	}
}

func (c *Cache) Stage(ctx context.Context, name string) (*ModelPair, error) {
	if c.store == nil {
		return nil, blob.ErrUnavailable
	}

	result, err, _ := c.group.Do(name, func() (any, error) {
		return c.stage(ctx, name)
	})

	if err != nil {
		return nil, err
	}

	return result.(*ModelPair), nil
}

func (c *Cache) stage(ctx context.Context, name string) (*ModelPair, error) {
	modelPath := filepath.Join(c.dir, name+".onnx")
	configPath := filepath.Join(c.dir, name+".onnx.json")

	if present(modelPath) {
		if present(configPath) {
			return &ModelPair{
				Voice: name,

				ModelPath:  modelPath,
				ConfigPath: configPath,
			}, nil
		}

		if c.sidecarAbsent(name) {
			return &ModelPair{
				Voice: name,

				ModelPath: modelPath,
			}, nil
		}
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create model cache dir: %w", err)
	}

	model, err := c.store.Get(ctx, voice.ModelObject(name))

	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrVoiceNotFound, name)
		}

		return nil, fmt.Errorf("fetch model %q: %w", name, err)
	}

	if err := writeAtomic(modelPath, model); err != nil {
		return nil, err
	}

	pair := &ModelPair{
		Voice: name,

		ModelPath: modelPath,
	}

	sidecar, err := c.store.Get(ctx, voice.ConfigObject(name))

	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			c.markSidecarAbsent(name)
			return pair, nil
		}

		return nil, fmt.Errorf("fetch sidecar %q: %w", name, err)
	}

	if err := writeAtomic(configPath, sidecar); err != nil {
		return nil, err
	}

	pair.ConfigPath = configPath

	return pair, nil
}

func (c *Cache) sidecarAbsent(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.noSidecar[name]
}

func (c *Cache) markSidecarAbsent(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.noSidecar[name] = true
}

func present(path string) bool {
	info, err := os.Stat(path)

	if err != nil {
		return false
	}

	return info.Mode().IsRegular() && info.Size() > 0
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")

	if err != nil {
		return fmt.Errorf("stage %q: %w", path, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return fmt.Errorf("stage %q: %w", path, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())

		return fmt.Errorf("stage %q: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())

		return fmt.Errorf("stage %q: %w", path, err)
	}

	return nil
}
