package report

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"slices"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/rheumaview/rheumaview/internal/model"
	"golang.org/x/image/font/sfnt"
)

// createTestReport creates a composed report with sample data for testing.
func createTestReport() *model.ComposedReport {
	return &model.ComposedReport{
		Title:     model.DefaultTitle,
		StudyDate: "2025-03-14",
		Sex:       model.SexFemale,
		Age:       model.Age{Years: 52, Known: true, Source: model.AgeEntered},
		Sections: []model.Section{
			{Kind: model.SectionHeader, Lines: []string{"Department of Radiology"}},
			{Kind: model.SectionIdentity, Title: model.DefaultTitle, Lines: []string{
				"Study date: 2025-03-14",
				"Sex: Female",
				"Age: 52",
			}},
			{Kind: model.SectionFinding, Title: "Hand", Lines: []string{
				"Periarticular osteopenia at the MCP joints.",
				"Joint space narrowing 2nd–3rd MCP.",
			}},
			{Kind: model.SectionIntervalComparison, Title: "Interval Comparison", Lines: []string{
				"Compared to Prior_1 (2024-01-01): 2 image(s) uploaded.",
			}},
			{Kind: model.SectionFooter, Lines: []string{"Reported with RheumaView™"}},
		},
	}
}

// docxDocument unzips the artifact and returns word/document.xml.
func docxDocument(t *testing.T, data []byte) string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a zip archive: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("cannot open document.xml: %v", err)
		}
		defer rc.Close()
		body, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("cannot read document.xml: %v", err)
		}
		return string(body)
	}
	t.Fatal("word/document.xml not found")
	return ""
}

// TestTextWriter tests the plain text writer.
func TestTextWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes sections in order", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewTextWriter(&buf)

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		order := []string{"Department of Radiology", model.DefaultTitle, "Hand", "Interval Comparison", "RheumaView™"}
		last := -1
		for _, s := range order {
			idx := strings.Index(output, s)
			if idx < 0 {
				t.Fatalf("expected output to contain %q", s)
			}
			if idx < last {
				t.Errorf("expected %q after previous section", s)
			}
			last = idx
		}
	})

	t.Run("preserves non-ASCII characters", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewTextWriter(&buf)

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "2nd–3rd MCP") {
			t.Error("expected en dash to be preserved")
		}
		if !strings.Contains(output, "RheumaView™") {
			t.Error("expected trademark sign to be preserved")
		}
	})

	t.Run("separates finding sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewTextWriter(&buf, WithSeparatorWidth(10))

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "----------\nHand\n") {
			t.Errorf("expected separator before finding, got:\n%s", buf.String())
		}
	})

	t.Run("rejects invalid UTF-8", func(t *testing.T) {
		t.Parallel()

		report := createTestReport()
		report.Sections[2].Lines = append(report.Sections[2].Lines, "bad \xff byte")

		var buf bytes.Buffer
		_, err := NewTextWriter(&buf).Write(report)
		if !errors.Is(err, model.ErrEncoding) {
			t.Fatalf("expected encoding error, got %v", err)
		}
		if !strings.Contains(err.Error(), "finding:Hand") {
			t.Errorf("expected error to name the section, got %v", err)
		}
		if buf.Len() != 0 {
			t.Error("expected nothing to be written")
		}
	})
}

// TestPDFWriter tests the PDF writer.
func TestPDFWriter(t *testing.T) {
	t.Parallel()

	t.Run("outputs a PDF document", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewPDFWriter(&buf)

		n, err := w.Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("expected %d bytes reported, got %d", buf.Len(), n)
		}
		if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
			t.Error("expected output to start with %PDF-")
		}
	})

	t.Run("supports letter page size", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewPDFWriter(&buf, WithPageSize(PageLetter), WithFontSize(10))

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.Len() == 0 {
			t.Error("expected non-empty output")
		}
	})

	t.Run("draws non-ASCII punctuation", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewPDFWriter(&buf, withoutPDFCompression()).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// Text in Identity-H fonts is shown as UTF-16BE code units.
		for _, text := range []string{"2nd–3rd", "RheumaView™"} {
			if !bytes.Contains(buf.Bytes(), utf16BE(text)) {
				t.Errorf("expected %q in the page content", text)
			}
		}
	})

	t.Run("rejects characters without a glyph", func(t *testing.T) {
		t.Parallel()

		report := createTestReport()
		report.Sections[2].Lines = []string{"漢"}

		var buf bytes.Buffer
		_, err := NewPDFWriter(&buf).Write(report)
		if !errors.Is(err, model.ErrEncoding) {
			t.Fatalf("expected encoding error, got %v", err)
		}

		var encErr *model.EncodingError
		if !errors.As(err, &encErr) {
			t.Fatalf("expected *model.EncodingError, got %T", err)
		}
		if encErr.Field != "finding:Hand" {
			t.Errorf("expected field %q, got %q", "finding:Hand", encErr.Field)
		}
		if buf.Len() != 0 {
			t.Error("expected nothing to be written")
		}
	})
}

func TestGlyphChecker(t *testing.T) {
	t.Parallel()

	regular, err := parsedRegular()
	if err != nil {
		t.Fatal(err)
	}
	bold, err := parsedBold()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		r       rune
		covered bool
	}{
		{"en dash", '–', true},
		{"trade mark", '™', true},
		{"umlaut", 'ü', true},
		{"tab", '\t', true},
		{"han", '漢', false},
		{"control", '\x01', false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			for face, f := range map[string]*sfnt.Font{"regular": regular, "bold": bold} {
				reason := glyphChecker(f)(tt.r)
				if tt.covered && reason != "" {
					t.Errorf("%s: expected %q to be drawable, got %q", face, tt.r, reason)
				}
				if !tt.covered && reason == "" {
					t.Errorf("%s: expected %q to be rejected", face, tt.r)
				}
			}
		})
	}
}

// withoutPDFCompression leaves PDF content streams readable.
func withoutPDFCompression() Option {
	return func(s *settings) {
		s.compressPDF = false
	}
}

// utf16BE encodes s as big-endian UTF-16 without a byte order mark.
func utf16BE(s string) []byte {
	var out []byte
	for _, u := range utf16.Encode([]rune(s)) {
		out = append(out, byte(u>>8), byte(u))
	}
	return out
}

// TestDOCXWriter tests the DOCX writer.
func TestDOCXWriter(t *testing.T) {
	t.Parallel()

	t.Run("outputs a word document", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewDOCXWriter(&buf)

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		doc := docxDocument(t, buf.Bytes())
		if !strings.Contains(doc, `<w:pStyle w:val="Title"/>`) {
			t.Error("expected identity title paragraph")
		}
		if !strings.Contains(doc, "Periarticular osteopenia at the MCP joints.") {
			t.Error("expected finding text in document")
		}
	})

	t.Run("preserves non-ASCII characters", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewDOCXWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		doc := docxDocument(t, buf.Bytes())
		if !strings.Contains(doc, "2nd–3rd MCP") {
			t.Error("expected en dash to be preserved")
		}
		if !strings.Contains(doc, "RheumaView™") {
			t.Error("expected trademark sign to be preserved")
		}
	})

	t.Run("escapes markup characters", func(t *testing.T) {
		t.Parallel()

		report := createTestReport()
		report.Sections[2].Lines = []string{"erosions <2 mm & cysts"}

		var buf bytes.Buffer
		if _, err := NewDOCXWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		doc := docxDocument(t, buf.Bytes())
		if !strings.Contains(doc, "erosions &lt;2 mm &amp; cysts") {
			t.Error("expected escaped text in document")
		}
	})

	t.Run("rejects characters illegal in XML", func(t *testing.T) {
		t.Parallel()

		report := createTestReport()
		report.Sections[2].Lines = []string{"bell \x07"}

		var buf bytes.Buffer
		_, err := NewDOCXWriter(&buf).Write(report)
		if !errors.Is(err, model.ErrEncoding) {
			t.Fatalf("expected encoding error, got %v", err)
		}
	})
}

// TestMarkdownWriter tests the Markdown writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf)

	if _, err := w.Write(createTestReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "# "+model.DefaultTitle) {
		t.Error("expected H1 title")
	}
	if !strings.Contains(output, "- Sex: Female") {
		t.Error("expected identity bullet list")
	}
	if !strings.Contains(output, "## Hand") {
		t.Error("expected H2 for finding section")
	}
	if !strings.Contains(output, "2nd–3rd MCP") {
		t.Error("expected en dash to be preserved")
	}

	t.Run("finding text stays plain", func(t *testing.T) {
		t.Parallel()

		report := createTestReport()
		report.Sections[2].Lines = []string{
			"# of erosions: 2",
			"* marginal erosion",
			"- cyst",
			"1. first MCP",
			"    indented note",
			"*bold* claim with `code`",
		}

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.Split(buf.String(), "\n")
		for _, want := range []string{
			`\# of erosions: 2`,
			`\* marginal erosion`,
			`\- cyst`,
			`1\. first MCP`,
			"\u00a0\u00a0\u00a0\u00a0indented note",
			"\\*bold\\* claim with \\`code\\`",
		} {
			if !slices.Contains(lines, want) {
				t.Errorf("expected line %q in:\n%s", want, buf.String())
			}
		}
	})
}

func TestEscapeMarkdownLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Joint space narrowing.", "Joint space narrowing."},
		{"> 2 mm", `\> 2 mm`},
		{"+ effusion", `\+ effusion`},
		{"=====", `\=====`},
		{"| a | b |", `\| a | b |`},
		{"~~~", `\~~~`},
		{"12) item", `12\) item`},
		{"2025-06-14 study", "2025-06-14 study"},
		{"see [prior]", `see \[prior\]`},
		{"<b>", `\<b>`},
		{"\tindented", "\u00a0\u00a0\u00a0\u00a0indented"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if got := escapeMarkdownLine(tt.in); got != tt.want {
				t.Errorf("escapeMarkdownLine(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestJSONWriter tests the JSON writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("outputs valid JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var parsed struct {
			Title    string `json:"title"`
			Sections []struct {
				Kind  string   `json:"kind"`
				Title string   `json:"title"`
				Lines []string `json:"lines"`
			} `json:"sections"`
		}
		if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if parsed.Title != model.DefaultTitle {
			t.Errorf("expected title %q, got %q", model.DefaultTitle, parsed.Title)
		}
		if len(parsed.Sections) != 5 {
			t.Fatalf("expected 5 sections, got %d", len(parsed.Sections))
		}
		if parsed.Sections[2].Kind != "finding" {
			t.Errorf("expected kind %q, got %q", "finding", parsed.Sections[2].Kind)
		}
	})

	t.Run("compact output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithCompactJSON()).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 1 {
			t.Errorf("expected compact output (1 line), got %d lines", len(lines))
		}
	})
}

// TestRender tests the in-memory encoding entry point.
func TestRender(t *testing.T) {
	t.Parallel()

	t.Run("same input gives same bytes", func(t *testing.T) {
		t.Parallel()

		for _, format := range []model.ExportFormat{model.FormatText, model.FormatDOCX, model.FormatMarkdown, model.FormatJSON} {
			first, err := Render(format, createTestReport())
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", format, err)
			}
			second, err := Render(format, createTestReport())
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", format, err)
			}
			if !bytes.Equal(first, second) {
				t.Errorf("%s: expected identical output for identical input", format)
			}
		}
	})

	t.Run("returns nothing on error", func(t *testing.T) {
		t.Parallel()

		report := createTestReport()
		report.Title = "漢字"

		data, err := Render(model.FormatPDF, report)
		if err == nil {
			t.Fatal("expected error")
		}
		if data != nil {
			t.Error("expected nil data on error")
		}
	})

	t.Run("unsupported format", func(t *testing.T) {
		t.Parallel()

		if _, err := Render(model.ExportFormat("rtf"), createTestReport()); err == nil {
			t.Error("expected error for unsupported format")
		}
	})
}

// TestNew tests the writer factory.
func TestNew(t *testing.T) {
	t.Parallel()

	for _, format := range model.ExportFormats {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()

			w, err := New(format, io.Discard)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if w.Format() != format {
				t.Errorf("expected format %q, got %q", format, w.Format())
			}
		})
	}
}
