package report

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/go-pdf/fpdf"
	"github.com/rheumaview/rheumaview/internal/model"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// pdfFontFamily is the family name under which the Go fonts are registered.
const pdfFontFamily = "Go"

// PDF layout in millimetres.
const (
	pdfMargin     = 20.0
	pdfLineFactor = 0.5 // line height per point of font size
	pdfTabWidth   = 4
)

// parsedRegular and parsedBold are parsed once and shared read-only.
var (
	parsedRegular = sync.OnceValues(func() (*sfnt.Font, error) { return sfnt.Parse(goregular.TTF) })
	parsedBold    = sync.OnceValues(func() (*sfnt.Font, error) { return sfnt.Parse(gobold.TTF) })
)

// PDFWriter outputs the report as a PDF document.
// Each section is one visual block: a bold title followed by its body,
// word-wrapped to the page width. The embedded Go fonts cover Latin,
// Greek, Cyrillic and common punctuation; any rune without a glyph is
// rejected up front with an EncodingError instead of being dropped.
type PDFWriter struct {
	baseWriter
}

// NewPDFWriter creates a PDFWriter that outputs to the given writer.
func NewPDFWriter(output io.Writer, opts ...Option) *PDFWriter {
	return &PDFWriter{baseWriter: newBaseWriter(output, opts)}
}

// Format returns model.FormatPDF.
func (w *PDFWriter) Format() model.ExportFormat {
	return model.FormatPDF
}

// Write outputs the report in PDF format.
func (w *PDFWriter) Write(report *model.ComposedReport) (int, error) {
	if err := checkGlyphs(report); err != nil {
		return 0, err
	}

	pdf := fpdf.New("P", "mm", w.settings.pageSize, "")
	date := documentDate(report)
	pdf.SetCreationDate(date)
	pdf.SetModificationDate(date)
	pdf.SetCatalogSort(true)
	pdf.SetCompression(w.settings.compressPDF)
	pdf.SetTitle(report.Title, true)
	pdf.SetCreator("rheumaview", true)

	pdf.AddUTF8FontFromBytes(pdfFontFamily, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(pdfFontFamily, "B", gobold.TTF)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfMargin / 2)
		pdf.SetFont(pdfFontFamily, "", 8)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	size := w.settings.fontSize
	lineHeight := size * pdfLineFactor

	for _, section := range report.Sections {
		if section.Title != "" {
			titleSize := size + 2
			if section.Kind == model.SectionIdentity {
				titleSize = size + 6
			}
			pdf.SetFont(pdfFontFamily, "B", titleSize)
			pdf.MultiCell(0, titleSize*pdfLineFactor, section.Title, "", "L", false)
			pdf.Ln(lineHeight / 2)
		}

		pdf.SetFont(pdfFontFamily, "", size)
		for _, line := range section.Lines {
			if line == "" {
				pdf.Ln(lineHeight)
				continue
			}
			pdf.MultiCell(0, lineHeight, expandTabs(line), "", "L", false)
		}
		pdf.Ln(lineHeight)
	}

	if err := pdf.Error(); err != nil {
		return 0, &model.EncodingError{Format: model.FormatPDF, Field: "document", Reason: "pdf layout failed", Err: err}
	}

	cw := &countingWriter{w: w.output}
	if err := pdf.Output(cw); err != nil {
		return cw.n, &model.EncodingError{Format: model.FormatPDF, Field: "document", Reason: "pdf output failed", Err: err}
	}
	return cw.n, nil
}

// checkGlyphs verifies that the embedded fonts can draw every rune:
// bold for titles, regular for body lines.
func checkGlyphs(report *model.ComposedReport) error {
	regular, err := parsedRegular()
	if err != nil {
		return &model.EncodingError{Format: model.FormatPDF, Field: "font", Reason: "cannot parse embedded font", Err: err}
	}
	bold, err := parsedBold()
	if err != nil {
		return &model.EncodingError{Format: model.FormatPDF, Field: "font", Reason: "cannot parse embedded font", Err: err}
	}

	regularCheck := glyphChecker(regular)
	boldCheck := glyphChecker(bold)

	if reason := checkString(report.Title, boldCheck); reason != "" {
		return &model.EncodingError{Format: model.FormatPDF, Field: "title", Reason: reason}
	}
	for _, s := range report.Sections {
		if reason := checkString(s.Title, boldCheck); reason != "" {
			return &model.EncodingError{Format: model.FormatPDF, Field: SectionField(s), Reason: reason}
		}
		for _, line := range s.Lines {
			if reason := checkString(line, regularCheck); reason != "" {
				return &model.EncodingError{Format: model.FormatPDF, Field: SectionField(s), Reason: reason}
			}
		}
	}
	return nil
}

// glyphChecker returns a rune check backed by f.
// sfnt.Buffer is not safe for concurrent use, so each checker owns one.
func glyphChecker(f *sfnt.Font) func(r rune) string {
	var buf sfnt.Buffer
	return func(r rune) string {
		if r == '\t' {
			return ""
		}
		if r < 0x20 || r == 0x7f {
			return fmt.Sprintf("control character U+%04X", r)
		}
		idx, err := f.GlyphIndex(&buf, r)
		if err != nil || idx == 0 {
			return fmt.Sprintf("font has no glyph for %q (U+%04X)", r, r)
		}
		return ""
	}
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", pdfTabWidth))
}
