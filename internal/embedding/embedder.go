// Package embedding converts batches of text into fixed-length vectors via an
// OpenAI-compatible embeddings endpoint.
//
// The model server owns tokenization: over-long inputs are truncated
// deterministically at the model's maximum token length (no chunking), batch
// padding is attention-masked so it cannot leak into results, and per-token
// states are mean-pooled into one vector per input. Inference is
// deterministic, so identical text always yields identical vectors.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/openai/openai-go"
)

// DefaultBatchSize bounds how many texts go into one embeddings request.
// Whole documents can be large, so this stays well below API batch limits.
const DefaultBatchSize = 64

// Embedder generates embeddings in batches with retry on rate limiting.
// Output order matches input order: vector i corresponds to text i.
type Embedder struct {
	client    *Client
	batchSize int
}

// NewEmbedder creates an Embedder with the given client and optional batch
// size. If batchSize is 0, DefaultBatchSize is used.
func NewEmbedder(client *Client, batchSize int) *Embedder {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Embedder{
		client:    client,
		batchSize: batchSize,
	}
}

// Dimension returns the vector length every embedding will have.
func (e *Embedder) Dimension() int { return e.client.Dimension() }

// Embed generates one vector per input text, preserving order and length.
// Inputs are processed in batches; a failed batch fails the whole call with
// the affected range in the error.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))

	for i := 0; i < len(texts); i += e.batchSize {
		end := min(i+e.batchSize, len(texts))

		batch, err := e.embedBatchWithRetry(ctx, texts[i:end])
		if err != nil {
			return nil, fmt.Errorf("embed batch %d-%d (%d documents): %w", i, end, end-i, err)
		}
		vectors = append(vectors, batch...)
	}

	return vectors, nil
}

// embedBatchWithRetry generates embeddings for a single batch.
// Rate limit errors (HTTP 429) are retried with exponential backoff; all
// other errors are permanent and fail immediately.
func (e *Embedder) embedBatchWithRetry(ctx context.Context, texts []string) ([][]float32, error) {
	var vectors [][]float32

	operation := func() error {
		resp, err := e.client.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
			Input: openai.EmbeddingNewParamsInputUnion{
				OfArrayOfStrings: texts,
			},
			Model:          openai.EmbeddingModel(e.client.model),
			EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
		})
		if err != nil {
			if isRateLimitError(err) {
				return err
			}
			return backoff.Permanent(err)
		}

		if len(resp.Data) != len(texts) {
			return backoff.Permanent(fmt.Errorf("server returned %d embeddings for %d inputs", len(resp.Data), len(texts)))
		}

		// Place each vector by its response index so reordering on the
		// server side cannot misalign texts and vectors.
		vectors = make([][]float32, len(texts))
		for _, data := range resp.Data {
			idx := int(data.Index)
			if idx < 0 || idx >= len(texts) {
				return backoff.Permanent(fmt.Errorf("embedding index %d out of range for %d inputs", idx, len(texts)))
			}
			if len(data.Embedding) != e.client.dim {
				return backoff.Permanent(fmt.Errorf("embedding %d has dimension %d, expected %d", idx, len(data.Embedding), e.client.dim))
			}
			vectors[idx] = toFloat32(data.Embedding)
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	err := backoff.Retry(operation, backoff.WithContext(b, ctx))
	return vectors, err
}

// isRateLimitError checks if the error is a rate limit error (HTTP 429).
func isRateLimitError(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}

// toFloat32 converts []float64 to []float32.
// The API returns float64, but the store uses float32 vectors.
func toFloat32(f64 []float64) []float32 {
	f32 := make([]float32, len(f64))
	for i, v := range f64 {
		f32[i] = float32(v)
	}
	return f32
}
