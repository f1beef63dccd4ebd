// Package search answers similarity queries by embedding query text and
// delegating to the collection store.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/osaleh/docvec/internal/store"
)

// Embedder converts a batch of texts into vectors, preserving order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Querier is the read side of the collection store.
type Querier interface {
	Query(ctx context.Context, collection string, vector []float32, k int, include store.Include) ([]store.SearchResult, error)
}

// Service embeds query text and retrieves the most similar stored records.
type Service struct {
	embedder Embedder
	store    Querier
	logger   *slog.Logger
}

// NewService creates a query service with the given components.
func NewService(embedder Embedder, querier Querier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		embedder: embedder,
		store:    querier,
		logger:   logger,
	}
}

// Search returns the top k records most similar to queryText, best match
// first. An empty collection yields an empty result and a warning, not an
// error.
func (s *Service) Search(ctx context.Context, collection, queryText string, k int, include store.Include) ([]store.SearchResult, error) {
	start := time.Now()

	vectors, err := s.embedder.Embed(ctx, []string{queryText})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := s.store.Query(ctx, collection, vectors[0], k, include)
	if err != nil {
		return nil, fmt.Errorf("query collection %q: %w", collection, err)
	}

	if len(results) == 0 {
		s.logger.Warn("No matching records", "collection", collection)
		return []store.SearchResult{}, nil
	}

	s.logger.Info("Query complete",
		"collection", collection,
		"results", len(results),
		"duration", time.Since(start),
	)
	return results, nil
}
