package config

import (
	"errors"
	"strings"

	"github.com/prossm/basic-web-tts/pkg/limiter"
	"github.com/prossm/basic-web-tts/pkg/otel"
	"github.com/prossm/basic-web-tts/pkg/synthesizer"
	"github.com/prossm/basic-web-tts/pkg/synthesizer/openai"
	"github.com/prossm/basic-web-tts/pkg/synthesizer/piper"
)

type synthesizerConfig struct {
	ID   string `yaml:"id"`
	Type string `yaml:"type"`

	// piper
	Path       string `yaml:"path"`
	OutputDir  string `yaml:"output_dir"`
	EspeakData string `yaml:"espeak_data"`

	// hosted
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
	Model string `yaml:"model"`
	Voice string `yaml:"voice"`

	Limit *int `yaml:"limit"`
}

func (c *Config) RegisterSynthesizer(id string, p synthesizer.Synthesizer) {
	if c.synthesizer == nil {
		c.synthesizer = make(map[string]synthesizer.Synthesizer)
	}

	if _, ok := c.synthesizer[""]; !ok {
		c.synthesizer[""] = p
	}

	c.synthesizer[id] = p
}

func (c *Config) Synthesizer(id string) (synthesizer.Synthesizer, error) {
	if c.synthesizer != nil {
		if s, ok := c.synthesizer[id]; ok {
			return s, nil
		}
	}

	return nil, errors.New("synthesizer not found: " + id)
}

func (c *Config) registerSynthesizers(f *configFile) error {
	configs := f.Synthesizers

	if len(configs) == 0 {
		configs = []synthesizerConfig{{ID: "piper", Type: "piper"}}
	}

	for _, cfg := range configs {
		p, err := createSynthesizer(cfg)

		if err != nil {
			return err
		}

		if cfg.Limit != nil {
			p = limiter.NewSynthesizer(createLimiter(cfg.Limit), p)
		}

		p = otel.NewSynthesizer(cfg.Type, p)

		id := cfg.ID

		if id == "" {
			id = cfg.Type
		}

		c.RegisterSynthesizer(id, p)
	}

	return nil
}

func createSynthesizer(cfg synthesizerConfig) (synthesizer.Synthesizer, error) {
	switch strings.ToLower(cfg.Type) {
	case "piper":
		return piperSynthesizer(cfg)

	case "openai":
		return openaiSynthesizer(cfg)

	default:
		return nil, errors.New("invalid synthesizer type: " + cfg.Type)
	}
}

func piperSynthesizer(cfg synthesizerConfig) (synthesizer.Synthesizer, error) {
	var options []piper.Option

	if cfg.Path != "" {
		options = append(options, piper.WithPath(cfg.Path))
	}

	if cfg.EspeakData != "" {
		options = append(options, piper.WithEspeakData(cfg.EspeakData))
	}

	return piper.New(cfg.OutputDir, options...)
}

func openaiSynthesizer(cfg synthesizerConfig) (synthesizer.Synthesizer, error) {
	var options []openai.Option

	if cfg.Token != "" {
		options = append(options, openai.WithToken(cfg.Token))
	}

	if cfg.Voice != "" {
		options = append(options, openai.WithVoice(cfg.Voice))
	}

	model := cfg.Model

	if model == "" {
		model = "gpt-4o-mini-tts"
	}

	return openai.New(cfg.URL, model, options...)
}
