package extract

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeDOCXRaw writes a minimal DOCX archive whose word/document.xml body
// contains the given WordprocessingML fragment.
func writeDOCXRaw(t *testing.T, path, body string) {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)

	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:body>` + body + `</w:body></w:document>`
	_, err = w.Write([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

// writeDOCX writes a DOCX with one run per paragraph.
func writeDOCX(t *testing.T, path string, paragraphs []string) {
	t.Helper()

	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString("<w:p><w:r><w:t>")
		body.WriteString(p)
		body.WriteString("</w:t></w:r></w:p>")
	}
	writeDOCXRaw(t, path, body.String())
}

func TestExtractDOCX_ParagraphsJoinedWithNewlines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.docx")
	writeDOCX(t, path, []string{"First paragraph.", "Second paragraph.", "Third."})

	text, err := ExtractDOCX(path)
	require.NoError(t, err)
	assert.Equal(t, "First paragraph.\nSecond paragraph.\nThird.", text)
}

func TestExtractDOCX_EmptyDocumentYieldsEmptyString(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.docx")
	writeDOCX(t, path, []string{""})

	text, err := ExtractDOCX(path)
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestExtractDOCX_SkipsEmptyParagraphs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gaps.docx")
	writeDOCX(t, path, []string{"Before", "", "After"})

	text, err := ExtractDOCX(path)
	require.NoError(t, err)
	assert.Equal(t, "Before\nAfter", text)
}

func TestExtractDOCX_SplitRunsAndTabs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.docx")
	writeDOCXRaw(t, path,
		`<w:p><w:r><w:t>left</w:t></w:r><w:r><w:tab/></w:r><w:r><w:t>right</w:t></w:r></w:p>`)

	text, err := ExtractDOCX(path)
	require.NoError(t, err)
	assert.Equal(t, "left\tright", text)
}

func TestExtractDOCX_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.docx")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a zip"), 0o644))

	_, err := ExtractDOCX(path)
	assert.Error(t, err)
}

func TestExtractDOCX_MissingDocumentXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hollow.docx")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<styles/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	_, err = ExtractDOCX(path)
	assert.ErrorContains(t, err, "word/document.xml")
}

func TestLoadDOCX_ExcludesEmptyDocuments(t *testing.T) {
	dir := t.TempDir()
	writeDOCX(t, filepath.Join(dir, "content.docx"), []string{"Hello world"})
	writeDOCX(t, filepath.Join(dir, "empty.docx"), []string{""})

	docs, failures, err := NewExtractor().LoadDOCX(dir)
	require.NoError(t, err)
	assert.Empty(t, failures, "an empty document is excluded, not a failure")
	require.Len(t, docs, 1)
	assert.Equal(t, "content.docx", docs[0].Name)
	assert.Equal(t, "Hello world", docs[0].Text)
}
