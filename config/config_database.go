package config

import (
	"errors"
	"strings"

	"github.com/prossm/basic-web-tts/pkg/dashboard"
	"github.com/prossm/basic-web-tts/pkg/recording"
	"github.com/prossm/basic-web-tts/pkg/recording/memory"
	mongostore "github.com/prossm/basic-web-tts/pkg/recording/mongo"
)

type databaseConfig struct {
	Type string `yaml:"type"`

	URI  string `yaml:"uri"`
	Name string `yaml:"name"`
}

func (c *Config) registerDatabase(f *configFile) error {
	store, err := createDatabase(f.Database)

	if err != nil {
		return err
	}

	if store == nil {
		return nil
	}

	c.Recordings = store
	c.Dashboard = dashboard.New(store)

	return nil
}

func createDatabase(cfg databaseConfig) (recording.Store, error) {
	switch strings.ToLower(cfg.Type) {
	case "":
		return nil, nil

	case "memory":
		return memory.New(), nil

	case "mongodb", "mongo":
		name := cfg.Name

		if name == "" {
			name = "basic-web-tts"
		}

		return mongostore.New(cfg.URI, name)

	default:
		return nil, errors.New("invalid database type: " + cfg.Type)
	}
}
