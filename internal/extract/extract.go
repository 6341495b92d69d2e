// Package extract turns uploaded source documents into plain text for the
// question generator.
package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

var (
	// ErrEmpty is returned when the document holds no extractable text.
	ErrEmpty = errors.New("no text could be extracted from the document")

	// ErrUnsupported is returned for file types that cannot be read.
	ErrUnsupported = errors.New("unsupported document type")
)

// Text extracts plain text from data. The type is sniffed from the content
// first and the file name extension is only used as a fallback.
// Supported: PDF, DOCX, plain text and Markdown.
func Text(name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%s: %w", name, ErrEmpty)
	}
	ext := strings.ToLower(filepath.Ext(name))

	var (
		text string
		err  error
	)
	switch {
	case isPDF(data):
		text, err = extractPDF(data)
	case isZip(data):
		text, err = extractDOCX(data)
	case ext == ".pdf":
		return "", fmt.Errorf("%s claims to be a PDF but has no %%PDF header: %w", name, ErrUnsupported)
	case isProbablyText(data) || ext == ".txt" || ext == ".md":
		text = string(data)
	default:
		return "", fmt.Errorf("%s: %w", name, ErrUnsupported)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}

	text = collapseWhitespace(text)
	if text == "" {
		return "", fmt.Errorf("%s: %w", name, ErrEmpty)
	}
	return text, nil
}

func isPDF(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

func isZip(b []byte) bool {
	return len(b) >= 4 && b[0] == 'P' && b[1] == 'K' && b[2] == 3 && b[3] == 4
}

// isProbablyText accepts samples with no NUL bytes that are mostly
// printable.
func isProbablyText(b []byte) bool {
	sample := b[:min(len(b), 4096)]
	good := 0
	for _, c := range sample {
		if c == 0x00 {
			return false
		}
		if c == '\n' || c == '\r' || c == '\t' || (c >= 0x20 && c <= 0x7E) || c >= 0x80 {
			good++
		}
	}
	return float64(good)/float64(len(sample)) > 0.9
}

func extractPDF(data []byte) (text string, err error) {
	// The reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf plaintext: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("pdf read: %w", err)
	}
	return string(b), nil
}

// extractDOCX gathers the <w:t> runs of word/document.xml.
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open zip: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open %s: %w", f.Name, err)
		}
		defer rc.Close()
		return textRuns(rc), nil
	}
	return "", fmt.Errorf("zip is not a word document: %w", ErrUnsupported)
}

func textRuns(r io.Reader) string {
	dec := xml.NewDecoder(r)
	var out strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local != "t" {
				continue
			}
			var v string
			if err := dec.DecodeElement(&v, &se); err == nil {
				out.WriteString(v)
			}
		case xml.EndElement:
			// Paragraph boundaries become spaces.
			if se.Name.Local == "p" {
				out.WriteString(" ")
			}
		}
	}
	return out.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
