// Package store persists embedding records in Qdrant collections and answers
// nearest-neighbor queries against them.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/qdrant/go-client/qdrant"
)

// upsertBatchSize bounds points per upsert call. A cancelled run loses at
// most one in-flight batch, never a half-written record.
const upsertBatchSize = 100

// Store wraps the Qdrant client with connection management and health checks.
// All collections it manages use cosine distance and a single fixed vector
// dimension, so indexing and query stay consistent.
type Store struct {
	client *qdrant.Client
	host   string
	port   int
	dim    uint64
}

// New creates a Qdrant client and validates connectivity. The heartbeat is
// retried with exponential backoff on startup; if the store stays
// unreachable the constructor fails fast with ErrStoreUnreachable.
func New(host string, port, dimension int) (*Store, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("create qdrant client: %w", err)
	}

	s := &Store{
		client: client,
		host:   host,
		port:   port,
		dim:    uint64(dimension),
	}

	if err := s.heartbeatWithRetry(context.Background()); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", ErrStoreUnreachable, err)
	}

	return s, nil
}

// heartbeatWithRetry performs the startup heartbeat with exponential backoff.
// Initial interval 500ms, max interval 10s, max elapsed 30s.
func (s *Store) heartbeatWithRetry(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		return s.Heartbeat(ctx)
	}, backoff.WithContext(b, ctx))
}

// Heartbeat performs a single liveness check against the store.
func (s *Store) Heartbeat(ctx context.Context) error {
	result, err := s.client.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnreachable, err)
	}
	if result == nil || result.Title == "" {
		return fmt.Errorf("%w: heartbeat returned invalid response", ErrStoreUnreachable)
	}
	return nil
}

// Dimension returns the vector length this store enforces.
func (s *Store) Dimension() int { return int(s.dim) }

// Close closes the Qdrant client connection.
func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// GetOrCreateCollection returns whether the named collection was created.
// It is idempotent: an existing collection is never an error. If the
// collection exists with a different vector dimension (for example from a
// prior run with another model), it returns ErrCollectionConflict rather
// than silently coercing.
func (s *Store) GetOrCreateCollection(ctx context.Context, name string) (created bool, err error) {
	collections, err := s.client.ListCollections(ctx)
	if err != nil {
		return false, fmt.Errorf("list collections: %w", err)
	}

	for _, existing := range collections {
		if existing == name {
			if err := s.checkCollectionDimension(ctx, name); err != nil {
				return false, err
			}
			return false, nil
		}
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     s.dim,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return false, fmt.Errorf("create collection %q: %w", name, err)
	}

	return true, nil
}

// checkCollectionDimension verifies an existing collection matches the
// configured vector dimension.
func (s *Store) checkCollectionDimension(ctx context.Context, name string) error {
	info, err := s.client.GetCollectionInfo(ctx, name)
	if err != nil {
		return fmt.Errorf("get collection %q: %w", name, err)
	}

	params := info.GetConfig().GetParams().GetVectorsConfig().GetParams()
	if params == nil {
		// Collection was created with a named-vector layout this store
		// does not use.
		return fmt.Errorf("%w: collection %q has an incompatible vector configuration", ErrCollectionConflict, name)
	}
	if params.GetSize() != s.dim {
		return fmt.Errorf("%w: collection %q has dimension %d, expected %d",
			ErrCollectionConflict, name, params.GetSize(), s.dim)
	}
	return nil
}

// DeleteCollection removes a collection and all its records.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	if err := s.client.DeleteCollection(ctx, name); err != nil {
		return fmt.Errorf("delete collection %q: %w", name, err)
	}
	return nil
}

// Count returns the exact number of records in a collection.
func (s *Store) Count(ctx context.Context, collection string) (uint64, error) {
	count, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: collection,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("count collection %q: %w", collection, err)
	}
	return count, nil
}

// UpsertRecords durably stores records in the collection. Ids must be unique
// within the call; re-using an id of an existing record overwrites it. The
// batch is validated up front and rejected whole on dimension mismatch or
// duplicate ids, leaving existing records unchanged.
func (s *Store) UpsertRecords(ctx context.Context, collection string, records []*Record) error {
	if len(records) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(records))
	for i, rec := range records {
		if rec.ID == "" {
			return fmt.Errorf("record %d has no id", i)
		}
		if _, dup := seen[rec.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, rec.ID)
		}
		seen[rec.ID] = struct{}{}
		if uint64(len(rec.Vector)) != s.dim {
			return fmt.Errorf("%w: record %d (%s) has %d dimensions, expected %d",
				ErrDimensionMismatch, i, rec.ID, len(rec.Vector), s.dim)
		}
	}

	for i := 0; i < len(records); i += upsertBatchSize {
		end := min(i+upsertBatchSize, len(records))
		batch := records[i:end]

		points := make([]*qdrant.PointStruct, len(batch))
		for j, rec := range batch {
			points[j] = &qdrant.PointStruct{
				Id:      qdrant.NewIDUUID(rec.ID),
				Vectors: qdrant.NewVectors(rec.Vector...),
				Payload: qdrant.NewValueMap(recordPayload(rec)),
			}
		}

		if err := s.upsertWithRetry(ctx, collection, points); err != nil {
			return fmt.Errorf("upsert batch %d-%d (%d records): %w", i, end, len(batch), err)
		}
	}

	return nil
}

// upsertWithRetry performs one upsert call with exponential backoff retry.
func (s *Store) upsertWithRetry(ctx context.Context, collection string, points []*qdrant.PointStruct) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: collection,
			Points:         points,
		})
		return err
	}, backoff.WithContext(b, ctx))
}

// recordPayload flattens a record into a Qdrant payload map. Extra metadata
// keys colliding with reserved field names are dropped.
func recordPayload(rec *Record) map[string]any {
	payload := map[string]any{
		payloadDocument:   rec.Document,
		payloadSource:     rec.Metadata.Source,
		payloadUploadDate: rec.Metadata.UploadDate,
		payloadCategory:   rec.Metadata.Category,
	}
	for k, v := range rec.Metadata.Extra {
		if _, reserved := payload[k]; reserved {
			continue
		}
		payload[k] = v
	}
	return payload
}

// Query returns up to k records most similar to the query vector, best match
// first under the collection's cosine metric. Each result carries the fields
// selected by include. Querying an empty collection returns an empty slice.
func (s *Store) Query(ctx context.Context, collection string, vector []float32, k int, include Include) ([]SearchResult, error) {
	if uint64(len(vector)) != s.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, expected %d",
			ErrDimensionMismatch, len(vector), s.dim)
	}

	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(include.Document || include.Metadata),
		WithVectors:    qdrant.NewWithVectors(include.Vector),
	})
	if err != nil {
		return nil, fmt.Errorf("query collection %q: %w", collection, err)
	}

	results := make([]SearchResult, 0, len(points))
	for _, point := range points {
		result := SearchResult{
			ID:    point.Id.GetUuid(),
			Score: point.Score,
		}
		if include.Document {
			result.Document = point.Payload[payloadDocument].GetStringValue()
		}
		if include.Metadata {
			result.Metadata = payloadMetadata(point.Payload)
		}
		if include.Vector {
			result.Vector = point.Vectors.GetVector().GetData()
		}
		results = append(results, result)
	}

	return results, nil
}

// payloadMetadata rebuilds record metadata from a payload map, collecting
// unreserved keys into Extra.
func payloadMetadata(payload map[string]*qdrant.Value) Metadata {
	meta := Metadata{
		Source:     payload[payloadSource].GetStringValue(),
		UploadDate: payload[payloadUploadDate].GetStringValue(),
		Category:   payload[payloadCategory].GetStringValue(),
	}
	for k, v := range payload {
		switch k {
		case payloadDocument, payloadSource, payloadUploadDate, payloadCategory:
			continue
		}
		if meta.Extra == nil {
			meta.Extra = make(map[string]string)
		}
		meta.Extra[k] = v.GetStringValue()
	}
	return meta
}
