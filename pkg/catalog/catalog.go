package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/prossm/basic-web-tts/pkg/blob"
	"github.com/prossm/basic-web-tts/pkg/voice"
)

var ErrVoiceNotFound = errors.New("voice not found")

// Catalog enumerates the voices published to the artifact store. A voice is
// a model binary under models/ paired with its JSON sidecar; binaries
// without a sidecar are skipped.
type Catalog struct {
	store blob.Store
}

func New(store blob.Store) *Catalog {
	return &Catalog{
		store: store,
	}
}

func (c *Catalog) List(ctx context.Context) ([]voice.Voice, error) {
	if c.store == nil {
		return nil, blob.ErrUnavailable
	}

	objects, err := c.store.List(ctx, "models/")

	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}

	var voices []voice.Voice

	for _, object := range objects {
		name, ok := strings.CutSuffix(path.Base(object.Name), ".onnx")

		if !ok {
			continue
		}

		sidecar, err := c.store.Get(ctx, voice.ConfigObject(name))

		if err != nil {
			slog.Warn("skipping voice without sidecar", "voice", name, "error", err)
			continue
		}

		var info struct {
			Description string `json:"description"`
		}

		if err := json.Unmarshal(sidecar, &info); err != nil {
			slog.Warn("skipping voice with invalid sidecar", "voice", name, "error", err)
			continue
		}

		voices = append(voices, voice.New(name, info.Description))
	}

	sort.Slice(voices, func(i, j int) bool {
		return voices[i].Name < voices[j].Name
	})

	return voices, nil
}
