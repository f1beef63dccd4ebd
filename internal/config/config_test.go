package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osaleh/docvec/internal/embedding"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Qdrant.Host)
	assert.Equal(t, 6334, cfg.Qdrant.Port)
	assert.Equal(t, "documents", cfg.Qdrant.Collection)
	assert.Equal(t, embedding.DefaultModel, cfg.Embedder.Model)
	assert.Equal(t, embedding.DefaultDimension, cfg.Embedder.Dimension)
	assert.Equal(t, "2024-01-01", cfg.Metadata.UploadDate)
	assert.Equal(t, "example_category", cfg.Metadata.Category)
}

func TestLoad_AppliesDefaultsToUnsetFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docvec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
qdrant:
  host: vectors.internal
  collection: legal-docs
embedder:
  base_url: http://embeddings.internal:8080
  dimension: 1024
metadata:
  category: contracts
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "vectors.internal", cfg.Qdrant.Host)
	assert.Equal(t, 6334, cfg.Qdrant.Port, "unset port falls back to default")
	assert.Equal(t, "legal-docs", cfg.Qdrant.Collection)
	assert.Equal(t, "http://embeddings.internal:8080", cfg.Embedder.BaseURL)
	assert.Equal(t, 1024, cfg.Embedder.Dimension)
	assert.Equal(t, embedding.DefaultModel, cfg.Embedder.Model, "unset model falls back to default")
	assert.Equal(t, "contracts", cfg.Metadata.Category)
	assert.Equal(t, "2024-01-01", cfg.Metadata.UploadDate)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("qdrant: [not a mapping"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
