package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/prossm/basic-web-tts/pkg/blob"
	"github.com/prossm/basic-web-tts/pkg/blob/memory"
	natsstore "github.com/prossm/basic-web-tts/pkg/blob/nats"
	"github.com/prossm/basic-web-tts/pkg/catalog"

	"github.com/nats-io/nats.go"
)

type storageConfig struct {
	Type string `yaml:"type"`

	URL    string `yaml:"url"`
	Bucket string `yaml:"bucket"`

	CacheDir string `yaml:"cache_dir"`
}

// registerStorage wires the artifact store and the components reading from
// it. Without a storage section the service runs degraded: voice listing and
// synthesis report the backend as unavailable instead of failing at startup.
func (c *Config) registerStorage(f *configFile) error {
	store, err := createStorage(f.Storage)

	if err != nil {
		return err
	}

	if store == nil {
		return nil
	}

	dir := f.Storage.CacheDir

	if dir == "" {
		dir = filepath.Join(os.TempDir(), "basic-web-tts", "models")
	}

	c.Storage = store
	c.Catalog = catalog.New(store)
	c.Models = catalog.NewCache(store, dir)

	return nil
}

func createStorage(cfg storageConfig) (blob.Store, error) {
	switch strings.ToLower(cfg.Type) {
	case "":
		return nil, nil

	case "memory":
		return memory.New(), nil

	case "nats":
		return natsStorage(cfg)

	default:
		return nil, errors.New("invalid storage type: " + cfg.Type)
	}
}

func natsStorage(cfg storageConfig) (blob.Store, error) {
	url := cfg.URL

	if url == "" {
		url = nats.DefaultURL
	}

	bucket := cfg.Bucket

	if bucket == "" {
		bucket = "basic-web-tts"
	}

	conn, err := nats.Connect(url)

	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	js, err := conn.JetStream()

	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	return natsstore.New(js, bucket)
}
