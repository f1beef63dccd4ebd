// Package config loads the optional YAML configuration file and applies
// defaults for anything left unset.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/osaleh/docvec/internal/embedding"
)

// EmbedderConfig configures the OpenAI-compatible embeddings endpoint.
type EmbedderConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
	Dimension int    `yaml:"dimension"`
	BatchSize int    `yaml:"batch_size"`
}

// QdrantConfig contains connection details for the vector store.
type QdrantConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Collection string `yaml:"collection"`
}

// MetadataConfig holds the defaults injected into every ingested record.
type MetadataConfig struct {
	UploadDate string `yaml:"upload_date"`
	Category   string `yaml:"category"`
}

// Config is the root configuration structure.
type Config struct {
	Embedder EmbedderConfig `yaml:"embedder"`
	Qdrant   QdrantConfig   `yaml:"qdrant"`
	Metadata MetadataConfig `yaml:"metadata"`
}

// Load reads a config from path. A missing file is not an error: defaults
// are returned so the tool works with environment variables alone.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Embedder.APIKeyEnv == "" {
		cfg.Embedder.APIKeyEnv = embedding.DefaultAPIKeyEnv
	}
	if cfg.Embedder.Model == "" {
		cfg.Embedder.Model = embedding.DefaultModel
	}
	if cfg.Embedder.Dimension == 0 {
		cfg.Embedder.Dimension = embedding.DefaultDimension
	}
	if cfg.Embedder.BatchSize == 0 {
		cfg.Embedder.BatchSize = embedding.DefaultBatchSize
	}
	if cfg.Qdrant.Host == "" {
		cfg.Qdrant.Host = "localhost"
	}
	if cfg.Qdrant.Port == 0 {
		cfg.Qdrant.Port = 6334
	}
	if cfg.Qdrant.Collection == "" {
		cfg.Qdrant.Collection = "documents"
	}
	if cfg.Metadata.UploadDate == "" {
		cfg.Metadata.UploadDate = "2024-01-01"
	}
	if cfg.Metadata.Category == "" {
		cfg.Metadata.Category = "example_category"
	}
}
