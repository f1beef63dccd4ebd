package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// ExtractDOCX extracts text from a DOCX file paragraph by paragraph.
// Paragraphs are concatenated with newline separators; empty paragraphs are
// skipped, so a document with no text yields an empty string.
func ExtractDOCX(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer archive.Close()

	var docXML *zip.File
	for _, f := range archive.File {
		if strings.EqualFold(f.Name, "word/document.xml") {
			docXML = f
			break
		}
	}
	if docXML == nil {
		return "", fmt.Errorf("open docx: missing word/document.xml")
	}

	rc, err := docXML.Open()
	if err != nil {
		return "", fmt.Errorf("open docx document.xml: %w", err)
	}
	defer rc.Close()

	paragraphs, err := decodeParagraphs(rc)
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}

	return strings.Join(paragraphs, "\n"), nil
}

// decodeParagraphs walks the WordprocessingML token stream collecting the
// text runs of each paragraph. Tabs and explicit breaks inside a run are
// preserved as whitespace.
func decodeParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var paragraphs []string
	var current strings.Builder
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				var text string
				if err := dec.DecodeElement(&text, &t); err != nil {
					return nil, err
				}
				current.WriteString(text)
			case "tab":
				current.WriteByte('\t')
			case "br", "cr":
				current.WriteByte('\n')
			}
		case xml.EndElement:
			if t.Name.Local == "p" {
				if text := strings.TrimSpace(current.String()); text != "" {
					paragraphs = append(paragraphs, text)
				}
				current.Reset()
			}
		}
	}

	return paragraphs, nil
}
