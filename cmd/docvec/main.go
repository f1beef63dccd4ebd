// Package main provides the docvec CLI for document ingestion and semantic
// search against a Qdrant-backed vector collection.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/osaleh/docvec/internal/config"
	"github.com/osaleh/docvec/internal/embedding"
	"github.com/osaleh/docvec/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "docvec",
	Short: "Document embedding and similarity search tool",
	Long: `docvec ingests PDF and DOCX documents from a directory, embeds their
text through an OpenAI-compatible embeddings endpoint, stores the vectors in
a Qdrant collection, and answers similarity queries against it.

Environment variables:
  QDRANT_HOST          Qdrant hostname (default: localhost)
  QDRANT_PORT          Qdrant gRPC port (default: 6334)
  EMBEDDINGS_BASE_URL  OpenAI-compatible embeddings endpoint (default: api.openai.com)
  EMBEDDINGS_API_KEY   Bearer token for the embeddings endpoint
  DOCVEC_CONFIG        Path to the YAML config file (default: docvec.yaml)`,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	// Load .env file if present (local development), ignore if missing.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the YAML config and applies environment overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(getEnv("DOCVEC_CONFIG", "docvec.yaml"))
	if err != nil {
		return nil, err
	}

	cfg.Qdrant.Host = getEnv("QDRANT_HOST", cfg.Qdrant.Host)
	cfg.Qdrant.Port = getEnvInt("QDRANT_PORT", cfg.Qdrant.Port)
	cfg.Embedder.BaseURL = getEnv("EMBEDDINGS_BASE_URL", cfg.Embedder.BaseURL)
	cfg.Embedder.Model = getEnv("EMBEDDINGS_MODEL", cfg.Embedder.Model)

	return cfg, nil
}

// connectStore opens the store connection and validates it with a heartbeat.
func connectStore(cfg *config.Config) (*store.Store, error) {
	fmt.Printf("Connecting to Qdrant at %s:%d...\n", cfg.Qdrant.Host, cfg.Qdrant.Port)
	st, err := store.New(cfg.Qdrant.Host, cfg.Qdrant.Port, cfg.Embedder.Dimension)
	if err != nil {
		return nil, fmt.Errorf("connect to Qdrant: %w", err)
	}
	return st, nil
}

// newEmbedder builds the embedder from the embeddings endpoint config.
func newEmbedder(cfg *config.Config) (*embedding.Embedder, error) {
	client, err := embedding.NewClient(embedding.Options{
		BaseURL:   cfg.Embedder.BaseURL,
		APIKeyEnv: cfg.Embedder.APIKeyEnv,
		Model:     cfg.Embedder.Model,
		Dimension: cfg.Embedder.Dimension,
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings client: %w", err)
	}
	return embedding.NewEmbedder(client, cfg.Embedder.BatchSize), nil
}

// collectionName resolves the target collection: flag wins over config.
func collectionName(flag string, cfg *config.Config) string {
	if flag != "" {
		return flag
	}
	return cfg.Qdrant.Collection
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}
