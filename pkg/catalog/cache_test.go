package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/prossm/basic-web-tts/pkg/blob/memory"
	"github.com/prossm/basic-web-tts/pkg/catalog"

	"github.com/stretchr/testify/require"
)

func TestStage(t *testing.T) {
	ctx := context.Background()

	store := memory.New()
	require.NoError(t, store.Put(ctx, "models/en_US-amy-medium.onnx", []byte("binary weights")))
	require.NoError(t, store.Put(ctx, "models/en_US-amy-medium.onnx.json", []byte(`{"description":"Amy"}`)))

	cache := catalog.NewCache(store, t.TempDir())

	pair, err := cache.Stage(ctx, "en_US-amy-medium")
	require.NoError(t, err)
	require.Equal(t, "en_US-amy-medium", pair.Voice)

	model, err := os.ReadFile(pair.ModelPath)
	require.NoError(t, err)
	require.Equal(t, []byte("binary weights"), model)

	sidecar, err := os.ReadFile(pair.ConfigPath)
	require.NoError(t, err)
	require.JSONEq(t, `{"description":"Amy"}`, string(sidecar))
}

func TestStageIdempotent(t *testing.T) {
	ctx := context.Background()

	store := memory.New()
	require.NoError(t, store.Put(ctx, "models/en_US-amy-medium.onnx", []byte("binary weights")))
	require.NoError(t, store.Put(ctx, "models/en_US-amy-medium.onnx.json", []byte(`{}`)))

	cache := catalog.NewCache(store, t.TempDir())

	first, err := cache.Stage(ctx, "en_US-amy-medium")
	require.NoError(t, err)

	// staged files survive removal of the remote objects
	require.NoError(t, store.Delete(ctx, "models/en_US-amy-medium.onnx"))

	second, err := cache.Stage(ctx, "en_US-amy-medium")
	require.NoError(t, err)

	require.Equal(t, first, second)

	a, err := os.ReadFile(first.ModelPath)
	require.NoError(t, err)

	b, err := os.ReadFile(second.ModelPath)
	require.NoError(t, err)

	require.Equal(t, a, b)
}

func TestStageConcurrent(t *testing.T) {
	ctx := context.Background()

	store := memory.New()
	require.NoError(t, store.Put(ctx, "models/en_US-amy-medium.onnx", []byte("binary weights")))
	require.NoError(t, store.Put(ctx, "models/en_US-amy-medium.onnx.json", []byte(`{}`)))

	cache := catalog.NewCache(store, t.TempDir())

	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			pair, err := cache.Stage(ctx, "en_US-amy-medium")
			require.NoError(t, err)

			data, err := os.ReadFile(pair.ModelPath)
			require.NoError(t, err)
			require.Equal(t, []byte("binary weights"), data)
		}()
	}

	wg.Wait()
}

func TestStageUnknownVoice(t *testing.T) {
	cache := catalog.NewCache(memory.New(), t.TempDir())

	_, err := cache.Stage(context.Background(), "en_US-amy-medium")
	require.ErrorIs(t, err, catalog.ErrVoiceNotFound)
}

func TestStageToleratesMissingSidecar(t *testing.T) {
	ctx := context.Background()

	store := memory.New()
	require.NoError(t, store.Put(ctx, "models/en_us-marcus.onnx", []byte("binary weights")))

	dir := t.TempDir()

	pair, err := catalog.NewCache(store, dir).Stage(ctx, "en_us-marcus")
	require.NoError(t, err)

	require.NotEmpty(t, pair.ModelPath)
	require.Empty(t, pair.ConfigPath)

	// no temp leftovers become visible as staged files
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	for _, entry := range entries {
		require.Equal(t, "en_us-marcus.onnx", filepath.Base(entry.Name()))
	}
}

func TestStageRemembersMissingSidecar(t *testing.T) {
	ctx := context.Background()

	store := memory.New()
	require.NoError(t, store.Put(ctx, "models/en_us-marcus.onnx", []byte("binary weights")))

	cache := catalog.NewCache(store, t.TempDir())

	first, err := cache.Stage(ctx, "en_us-marcus")
	require.NoError(t, err)
	require.Empty(t, first.ConfigPath)

	// a later stage is a local hit: removing the remote model must not matter
	require.NoError(t, store.Delete(ctx, "models/en_us-marcus.onnx"))

	second, err := cache.Stage(ctx, "en_us-marcus")
	require.NoError(t, err)
	require.Equal(t, first, second)
}
