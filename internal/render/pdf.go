package render

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/abhisek/papergen/internal/questiongen"
)

const (
	pdfFontFamily  = "Liberation"
	pdfFontRegular = "LiberationSans-Regular.ttf"
	pdfFontBold    = "LiberationSans-Bold.ttf"

	pdfLogoWidth = 33.0 // mm
	pdfLogoTop   = 8.0  // mm
)

// PDFRenderer renders A4 question papers with fpdf.
type PDFRenderer struct {
	opts Options
}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer(opts Options) *PDFRenderer {
	return &PDFRenderer{opts: opts}
}

func (r *PDFRenderer) ContentType() string { return "application/pdf" }

func (r *PDFRenderer) Filename() string { return "question_paper.pdf" }

func (r *PDFRenderer) Render(w io.Writer, qs *questiongen.QuestionSet) error {
	branding := qs.Branding.WithDefaults()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(cases.Title(language.English).String(heading(branding)), true)
	pdf.SetCreator("papergen", false)

	family, tr := r.setupFonts(pdf)
	pdf.AddPage()

	if len(branding.Logo) > 0 {
		r.drawLogo(pdf, branding.Logo)
	}

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()

	pdf.SetFont(family, "B", 20)
	pdf.CellFormat(0, 10, tr(branding.Institution), "", 1, "C", false, 0, "")
	pdf.SetFont(family, "B", 16)
	pdf.CellFormat(0, 10, tr(heading(branding)), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont(family, "", 12)
	pdf.CellFormat(0, 10, placeholder("Name", nameUnderscoresPDF), "", 0, "L", false, 0, "")
	pdf.SetX(pageW / 2)
	pdf.CellFormat(0, 10, placeholder("USN", nameUnderscoresPDF), "", 1, "L", false, 0, "")
	pdf.Ln(10)

	y := pdf.GetY()
	pdf.Line(left, y, pageW-right, y)
	pdf.Ln(5)

	pdf.SetFont(family, "", 12)
	for _, line := range numbered(qs) {
		pdf.SetX(left)
		pdf.MultiCell(0, 8, tr(line), "", "J", false)
		pdf.Ln(2)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// setupFonts registers the Liberation TTF pair when FontDir provides it and
// returns the family to use plus a text translator. Core Helvetica only
// covers cp1252, so its text is translated.
func (r *PDFRenderer) setupFonts(pdf *fpdf.Fpdf) (string, func(string) string) {
	if r.opts.FontDir != "" {
		regular, errR := os.ReadFile(filepath.Join(r.opts.FontDir, pdfFontRegular))
		bold, errB := os.ReadFile(filepath.Join(r.opts.FontDir, pdfFontBold))
		if errR == nil && errB == nil {
			pdf.AddUTF8FontFromBytes(pdfFontFamily, "", regular)
			pdf.AddUTF8FontFromBytes(pdfFontFamily, "B", bold)
			return pdfFontFamily, func(s string) string { return s }
		}
		r.opts.logger().Warn("font files unavailable, using Helvetica",
			"font_dir", r.opts.FontDir,
		)
	}
	return "Helvetica", pdf.UnicodeTranslatorFromDescriptor("")
}

func (r *PDFRenderer) drawLogo(pdf *fpdf.Fpdf, data []byte) {
	logo, err := PrepareLogo(data)
	if err != nil {
		r.opts.logger().Warn("skipping logo", "error", err)
		return
	}

	opts := fpdf.ImageOptions{ImageType: logo.pdfType()}
	pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(logo.Data))
	if pdf.Err() {
		r.opts.logger().Warn("skipping logo", "error", pdf.Error())
		pdf.ClearError()
		return
	}

	pageW, _ := pdf.GetPageSize()
	pdf.ImageOptions("logo", (pageW-pdfLogoWidth)/2, pdfLogoTop, pdfLogoWidth, 0, false, opts, 0, "")
	pdf.Ln(30)
}
