package store

// Payload keys reserved for record fields. Extra metadata keys that collide
// with these are dropped on write.
const (
	payloadDocument   = "document"
	payloadSource     = "source"
	payloadUploadDate = "upload_date"
	payloadCategory   = "category"
)

// Metadata describes a stored document. Source is the originating file name;
// UploadDate and Category are injected by the pipeline from configured
// defaults. Extra carries any additional string keys.
type Metadata struct {
	Source     string
	UploadDate string
	Category   string
	Extra      map[string]string
}

// Record is one entry in a collection: a unique id, the embedding vector, the
// extracted document text, and its metadata. Records are immutable after
// write; upserting the same id again overwrites the prior record.
type Record struct {
	ID       string // UUID, generated at ingestion time
	Vector   []float32
	Document string
	Metadata Metadata
}

// Include selects which fields Query populates on each result. ID and Score
// are always returned.
type Include struct {
	Document bool
	Metadata bool
	Vector   bool
}

// SearchResult is a single query match. Score is cosine similarity in [0, 1];
// results are ordered most similar first.
type SearchResult struct {
	ID       string
	Score    float32
	Document string
	Metadata Metadata
	Vector   []float32
}
