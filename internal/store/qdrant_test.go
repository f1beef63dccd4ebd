//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDimension = 8

// setupTestStore connects to a local Qdrant instance.
// Skips the test if Qdrant is not running.
func setupTestStore(t *testing.T) *Store {
	s, err := New("localhost", 6334, testDimension)
	if err != nil {
		t.Skipf("Qdrant not available: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testCollection creates a uniquely named collection and registers cleanup.
func testCollection(t *testing.T, s *Store) string {
	name := "test-" + uuid.New().String()
	created, err := s.GetOrCreateCollection(context.Background(), name)
	require.NoError(t, err)
	require.True(t, created)
	t.Cleanup(func() {
		_ = s.DeleteCollection(context.Background(), name)
	})
	return name
}

func testVector(seed float32) []float32 {
	vec := make([]float32, testDimension)
	for i := range vec {
		vec[i] = seed + float32(i)*0.01
	}
	return vec
}

func TestHeartbeat(t *testing.T) {
	s := setupTestStore(t)
	assert.NoError(t, s.Heartbeat(context.Background()))
}

func TestGetOrCreateCollection_Idempotent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	name := testCollection(t, s)

	// Second call must not create a duplicate or error.
	created, err := s.GetOrCreateCollection(ctx, name)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestGetOrCreateCollection_DimensionConflict(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	name := testCollection(t, s)

	other, err := New("localhost", 6334, testDimension*2)
	require.NoError(t, err)
	defer other.Close()

	_, err = other.GetOrCreateCollection(ctx, name)
	assert.ErrorIs(t, err, ErrCollectionConflict)
}

func TestUpsertQueryRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	name := testCollection(t, s)

	rec := &Record{
		ID:       uuid.New().String(),
		Vector:   testVector(0.1),
		Document: "The quick brown fox jumps over the lazy dog.",
		Metadata: Metadata{
			Source:     "fox.pdf",
			UploadDate: "2024-01-01",
			Category:   "example_category",
			Extra:      map[string]string{"language": "en"},
		},
	}
	require.NoError(t, s.UpsertRecords(ctx, name, []*Record{rec}))

	// Querying with the record's own vector must return it as the top hit.
	results, err := s.Query(ctx, name, rec.Vector, 10, Include{Document: true, Metadata: true, Vector: true})
	require.NoError(t, err)
	require.NotEmpty(t, results)

	top := results[0]
	assert.Equal(t, rec.ID, top.ID)
	assert.InDelta(t, 1.0, float64(top.Score), 0.001, "self-similarity under cosine is 1")
	assert.Equal(t, rec.Document, top.Document)
	assert.Equal(t, rec.Metadata.Source, top.Metadata.Source)
	assert.Equal(t, rec.Metadata.UploadDate, top.Metadata.UploadDate)
	assert.Equal(t, rec.Metadata.Category, top.Metadata.Category)
	assert.Equal(t, "en", top.Metadata.Extra["language"])
	assert.Len(t, top.Vector, testDimension)
}

func TestQuery_ResultsOrderedBySimilarity(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	name := testCollection(t, s)

	near := &Record{ID: uuid.New().String(), Vector: testVector(0.1), Document: "near"}
	far := &Record{ID: uuid.New().String(), Vector: testVector(5.0), Document: "far"}
	require.NoError(t, s.UpsertRecords(ctx, name, []*Record{far, near}))

	results, err := s.Query(ctx, name, testVector(0.1), 10, Include{Document: true})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, near.ID, results[0].ID, "most similar record comes first")
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestQuery_EmptyCollection(t *testing.T) {
	s := setupTestStore(t)
	name := testCollection(t, s)

	results, err := s.Query(context.Background(), name, testVector(0.1), 10, Include{})
	require.NoError(t, err, "querying an empty collection is not an error")
	assert.Empty(t, results)
}

func TestQuery_IncludeFieldsRespected(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	name := testCollection(t, s)

	rec := &Record{
		ID:       uuid.New().String(),
		Vector:   testVector(0.2),
		Document: "only ids and scores please",
		Metadata: Metadata{Source: "hidden.docx"},
	}
	require.NoError(t, s.UpsertRecords(ctx, name, []*Record{rec}))

	results, err := s.Query(ctx, name, rec.Vector, 1, Include{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, rec.ID, results[0].ID)
	assert.Empty(t, results[0].Document)
	assert.Empty(t, results[0].Metadata.Source)
	assert.Empty(t, results[0].Vector)
}

func TestUpsert_DimensionValidation(t *testing.T) {
	s := setupTestStore(t)
	name := testCollection(t, s)

	wrong := &Record{
		ID:     uuid.New().String(),
		Vector: make([]float32, testDimension/2),
	}
	err := s.UpsertRecords(context.Background(), name, []*Record{wrong})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = s.Query(context.Background(), name, make([]float32, testDimension/2), 10, Include{})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestUpsert_DuplicateIDsRejected(t *testing.T) {
	s := setupTestStore(t)
	name := testCollection(t, s)

	id := uuid.New().String()
	records := []*Record{
		{ID: id, Vector: testVector(0.1)},
		{ID: id, Vector: testVector(0.2)},
	}
	err := s.UpsertRecords(context.Background(), name, records)
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestUpsert_SameIDOverwrites(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	name := testCollection(t, s)

	id := uuid.New().String()
	first := &Record{ID: id, Vector: testVector(0.1), Document: "original"}
	require.NoError(t, s.UpsertRecords(ctx, name, []*Record{first}))

	second := &Record{ID: id, Vector: testVector(0.1), Document: "replacement"}
	require.NoError(t, s.UpsertRecords(ctx, name, []*Record{second}))

	count, err := s.Count(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count, "re-using an id overwrites, never duplicates")

	results, err := s.Query(ctx, name, testVector(0.1), 1, Include{Document: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "replacement", results[0].Document)
}

func TestUpsert_BatchesLargeSets(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	name := testCollection(t, s)

	// More than one internal batch of 100.
	records := make([]*Record, 250)
	for i := range records {
		records[i] = &Record{
			ID:       uuid.New().String(),
			Vector:   testVector(0.3),
			Document: "bulk",
		}
	}
	require.NoError(t, s.UpsertRecords(ctx, name, records))

	count, err := s.Count(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, uint64(250), count)
}
