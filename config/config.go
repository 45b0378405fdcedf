package config

import (
	"bytes"
	"os"

	"github.com/prossm/basic-web-tts/pkg/auth"
	"github.com/prossm/basic-web-tts/pkg/blob"
	"github.com/prossm/basic-web-tts/pkg/catalog"
	"github.com/prossm/basic-web-tts/pkg/dashboard"
	"github.com/prossm/basic-web-tts/pkg/recording"
	"github.com/prossm/basic-web-tts/pkg/synthesizer"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Address string

	Authorizers []auth.Provider

	Storage    blob.Store
	Recordings recording.Store

	Catalog *catalog.Catalog
	Models  *catalog.Cache

	Dashboard *dashboard.Engine

	synthesizer map[string]synthesizer.Synthesizer
}

func New() *Config {
	return &Config{
		Address: ":8080",
	}
}

func Parse(path string) (*Config, error) {
	file, err := parseFile(path)

	if err != nil {
		return nil, err
	}

	c := New()

	if file.Address != "" {
		c.Address = file.Address
	}

	if err := c.registerAuthorizer(file); err != nil {
		return nil, err
	}

	if err := c.registerStorage(file); err != nil {
		return nil, err
	}

	if err := c.registerDatabase(file); err != nil {
		return nil, err
	}

	if err := c.registerSynthesizers(file); err != nil {
		return nil, err
	}

	return c, nil
}

type configFile struct {
	Address string `yaml:"address"`

	Authorizers []authorizerConfig `yaml:"authorizers"`

	Storage  storageConfig  `yaml:"storage"`
	Database databaseConfig `yaml:"database"`

	Synthesizers []synthesizerConfig `yaml:"synthesizers"`
}

func parseFile(path string) (*configFile, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	data = []byte(os.ExpandEnv(string(data)))

	var config configFile

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func createLimiter(limit *int) *rate.Limiter {
	if limit == nil {
		return nil
	}

	return rate.NewLimiter(rate.Limit(*limit), *limit)
}
