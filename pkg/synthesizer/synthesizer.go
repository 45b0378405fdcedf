package synthesizer

import (
	"context"

	"github.com/prossm/basic-web-tts/pkg/catalog"
)

type Synthesizer interface {
	Synthesize(ctx context.Context, text string, options *Options) (*Synthesis, error)
}

type Options struct {
	Voice string

	// Model is the staged model pair for engines running a local model.
	Model *catalog.ModelPair
}

type Synthesis struct {
	// ID is the deterministic output identity for the (voice, text) pair.
	ID string

	Content     []byte
	ContentType string

	// Duration in seconds, nil when it could not be derived from the audio.
	Duration *float64
}
