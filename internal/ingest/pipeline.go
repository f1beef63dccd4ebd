// Package ingest orchestrates the document ingestion pipeline: directory
// scan, text extraction, metadata enrichment, embedding, and upsert.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/osaleh/docvec/internal/extract"
	"github.com/osaleh/docvec/internal/store"
)

// Scanner loads extracted documents from a directory, one pass per format.
type Scanner interface {
	LoadPDFs(dir string) ([]extract.Document, []extract.Failure, error)
	LoadDOCX(dir string) ([]extract.Document, []extract.Failure, error)
}

// Embedder converts a batch of texts into vectors, preserving order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// RecordStore is the collection store the pipeline writes into.
type RecordStore interface {
	Heartbeat(ctx context.Context) error
	GetOrCreateCollection(ctx context.Context, name string) (created bool, err error)
	UpsertRecords(ctx context.Context, collection string, records []*store.Record) error
}

// Defaults are the metadata values injected uniformly into every record.
type Defaults struct {
	UploadDate string
	Category   string
}

// Result contains statistics about one pipeline run.
type Result struct {
	Scanned           int               // Supported files found in the directory
	Ingested          int               // Records durably stored
	Skipped           []extract.Failure // Per-file extraction failures
	CollectionCreated bool              // Whether the target collection was created
	Duration          time.Duration
}

// Pipeline ingests a directory of documents into a collection.
type Pipeline struct {
	scanner  Scanner
	embedder Embedder
	store    RecordStore
	defaults Defaults
	logger   *slog.Logger
}

// NewPipeline creates an ingestion pipeline with the given components.
func NewPipeline(scanner Scanner, embedder Embedder, recordStore RecordStore, defaults Defaults, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		scanner:  scanner,
		embedder: embedder,
		store:    recordStore,
		defaults: defaults,
		logger:   logger,
	}
}

// Run ingests every supported document under dir into the named collection.
//
// The store heartbeat runs first so an unreachable store fails the run before
// any extraction or embedding work. Per-file extraction failures and empty
// documents are skipped, not fatal; embedding or upsert failures abort the
// run with the affected document count. A directory with zero supported
// files completes successfully with nothing ingested.
func (p *Pipeline) Run(ctx context.Context, dir, collection string) (*Result, error) {
	start := time.Now()

	if err := p.store.Heartbeat(ctx); err != nil {
		return nil, fmt.Errorf("store heartbeat: %w", err)
	}

	created, err := p.store.GetOrCreateCollection(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("collection %q: %w", collection, err)
	}
	if created {
		p.logger.Info("Created collection", "name", collection)
	} else {
		p.logger.Info("Using existing collection", "name", collection)
	}

	// Two independent extraction passes, merged once.
	pdfDocs, pdfFailures, err := p.scanner.LoadPDFs(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s for PDF files: %w", dir, err)
	}
	docxDocs, docxFailures, err := p.scanner.LoadDOCX(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s for DOCX files: %w", dir, err)
	}
	docs := append(pdfDocs, docxDocs...)

	result := &Result{
		Scanned:           len(docs) + len(pdfFailures) + len(docxFailures),
		Skipped:           append(pdfFailures, docxFailures...),
		CollectionCreated: created,
	}
	for _, failure := range result.Skipped {
		p.logger.Warn("Skipping document", "file", failure.Name, "error", failure.Err)
	}

	if len(docs) == 0 {
		p.logger.Info("No documents to ingest", "dir", dir)
		result.Duration = time.Since(start)
		return result, nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text
	}

	vectors, err := p.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed %d documents: %w", len(docs), err)
	}
	if len(vectors) != len(docs) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d documents", len(vectors), len(docs))
	}

	// Each run assigns fresh UUIDs; re-ingesting a directory creates a new
	// set of records rather than deduplicating.
	records := make([]*store.Record, len(docs))
	for i, doc := range docs {
		records[i] = &store.Record{
			ID:       uuid.New().String(),
			Vector:   vectors[i],
			Document: doc.Text,
			Metadata: store.Metadata{
				Source:     doc.Name,
				UploadDate: p.defaults.UploadDate,
				Category:   p.defaults.Category,
			},
		}
	}

	if err := p.store.UpsertRecords(ctx, collection, records); err != nil {
		return nil, fmt.Errorf("upsert %d records: %w", len(records), err)
	}

	result.Ingested = len(records)
	result.Duration = time.Since(start)
	p.logger.Info("Ingestion complete",
		"ingested", result.Ingested,
		"skipped", len(result.Skipped),
		"duration", result.Duration,
	)

	return result, nil
}
