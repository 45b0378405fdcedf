package openai

import (
	"context"
	"io"

	"github.com/prossm/basic-web-tts/pkg/audio"
	"github.com/prossm/basic-web-tts/pkg/synthesizer"
	"github.com/prossm/basic-web-tts/pkg/voice"

	"github.com/openai/openai-go/v3"
)

var _ synthesizer.Synthesizer = (*Synthesizer)(nil)

// Synthesizer generates speech via the hosted OpenAI API. It serves
// deployments without a local piper install; output identity follows the
// same (voice, text) law as the local engine.
type Synthesizer struct {
	*Config
	speech openai.AudioSpeechService
}

func New(url, model string, options ...Option) (*Synthesizer, error) {
	cfg := &Config{
		url:   url,
		model: model,
	}

	for _, option := range options {
		option(cfg)
	}

	if cfg.voice == "" {
		cfg.voice = "alloy"
	}

	return &Synthesizer{
		Config: cfg,
		speech: openai.NewAudioSpeechService(cfg.Options()...),
	}, nil
}

func (s *Synthesizer) Synthesize(ctx context.Context, text string, options *synthesizer.Options) (*synthesizer.Synthesis, error) {
	if options == nil {
		options = new(synthesizer.Options)
	}

	result, err := s.speech.New(ctx, openai.AudioSpeechNewParams{
		Model: openai.SpeechModel(s.model),
		Input: text,

		Voice: openai.AudioSpeechNewParamsVoice(s.voice),

		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatWAV,
	})

	if err != nil {
		return nil, err
	}

	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)

	if err != nil {
		return nil, err
	}

	return &synthesizer.Synthesis{
		ID: voice.OutputIdentity(options.Voice, text),

		Content:     data,
		ContentType: "audio/wav",

		Duration: audio.Duration(data),
	}, nil
}
