// Package extract converts PDF and DOCX files into plain text documents.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileType identifies a supported document format.
type FileType string

const (
	TypePDF  FileType = "pdf"
	TypeDOCX FileType = "docx"
)

// ErrUnsupportedType is returned when a file's extension matches no known format.
var ErrUnsupportedType = errors.New("unsupported file type")

// Document is a successfully extracted file. Text is the full plain-text
// content; documents with empty text are never produced by the loaders.
type Document struct {
	Path string   // Absolute or caller-relative path to the source file
	Name string   // Base file name, stored as the record's source metadata
	Type FileType // Format the text was extracted from
	Text string   // Extracted plain text
}

// Failure records a single file that could not be extracted. Failures are
// isolated per file so a corrupt document never aborts a directory scan.
type Failure struct {
	Name string
	Err  error
}

// Extract dispatches on the file extension and returns the plain text content.
func Extract(path string) (string, error) {
	switch {
	case hasExt(path, ".pdf"):
		return ExtractPDF(path)
	case hasExt(path, ".docx"):
		return ExtractDOCX(path)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Ext(path))
	}
}

// Extractor scans directories for supported documents.
type Extractor struct{}

// NewExtractor creates a filesystem document extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// LoadPDFs extracts text from every .pdf file directly inside dir.
// Files yielding empty text are excluded; unreadable files become Failures.
func (e *Extractor) LoadPDFs(dir string) ([]Document, []Failure, error) {
	return e.load(dir, ".pdf", TypePDF, ExtractPDF)
}

// LoadDOCX extracts text from every .docx file directly inside dir.
// Files yielding empty text are excluded; unreadable files become Failures.
func (e *Extractor) LoadDOCX(dir string) ([]Document, []Failure, error) {
	return e.load(dir, ".docx", TypeDOCX, ExtractDOCX)
}

// ScanDir runs both extraction passes and merges their results, PDFs first.
// A directory with no supported files yields empty slices, not an error.
func (e *Extractor) ScanDir(dir string) ([]Document, []Failure, error) {
	docs, failures, err := e.LoadPDFs(dir)
	if err != nil {
		return nil, nil, err
	}
	docxDocs, docxFailures, err := e.LoadDOCX(dir)
	if err != nil {
		return nil, nil, err
	}
	return append(docs, docxDocs...), append(failures, docxFailures...), nil
}

func (e *Extractor) load(dir, ext string, typ FileType, extractFn func(string) (string, error)) ([]Document, []Failure, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var docs []Document
	var failures []Failure
	for _, entry := range entries {
		if entry.IsDir() || !hasExt(entry.Name(), ext) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		text, err := extractFn(path)
		if err != nil {
			failures = append(failures, Failure{Name: entry.Name(), Err: err})
			continue
		}
		if text == "" {
			// No extractable content, nothing to ingest.
			continue
		}

		docs = append(docs, Document{
			Path: path,
			Name: entry.Name(),
			Type: typ,
			Text: text,
		})
	}

	return docs, failures, nil
}

func hasExt(name, ext string) bool {
	return strings.EqualFold(filepath.Ext(name), ext)
}
