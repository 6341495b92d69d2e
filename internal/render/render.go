// Package render lays a question set out as a printable paper.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/papergen/internal/questiongen"
)

// Renderer writes a finished paper for a question set.
type Renderer interface {
	// Render writes the document to w. The set is only read.
	Render(w io.Writer, qs *questiongen.QuestionSet) error

	// ContentType is the MIME type of the rendered document.
	ContentType() string

	// Filename is the suggested download name.
	Filename() string
}

const (
	nameUnderscoresPDF  = 40
	nameUnderscoresDOCX = 50
)

// heading returns the second title line, "<Subject> - Question Paper".
func heading(b questiongen.Branding) string {
	return b.Subject + " - Question Paper"
}

func placeholder(label string, width int) string {
	return label + ": " + strings.Repeat("_", width)
}

// numbered returns "Q<i>. <line>" for every question, 1-based.
func numbered(qs *questiongen.QuestionSet) []string {
	out := make([]string, len(qs.Questions))
	for i, q := range qs.Questions {
		out[i] = fmt.Sprintf("Q%d. %s", i+1, q.Line)
	}
	return out
}

// ForFormat returns the renderer for "pdf" or "docx".
func ForFormat(format string, opts Options) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "pdf":
		return NewPDFRenderer(opts), nil
	case "docx":
		return NewDOCXRenderer(opts), nil
	default:
		return nil, fmt.Errorf("unknown document format %q (want pdf or docx)", format)
	}
}
