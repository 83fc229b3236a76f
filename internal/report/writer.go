package report

import (
	"bytes"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/rheumaview/rheumaview/internal/model"
)

// Writer defines the interface for report output.
// Implementations encode a composed report into one export format.
type Writer interface {
	// Write encodes the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.ComposedReport) (int, error)

	// Format returns the export format produced by the writer.
	Format() model.ExportFormat
}

// Page sizes accepted by WithPageSize.
const (
	PageA4     = "A4"
	PageLetter = "Letter"
)

// Defaults shared by the writers.
const (
	// DefaultFontSize is the body font size in points.
	DefaultFontSize = 11.0

	// DefaultSeparatorWidth is the length of the separator line placed
	// before every finding section in text output.
	DefaultSeparatorWidth = 60
)

// settings collects the options understood by the writers.
// Each writer reads only the fields it needs.
type settings struct {
	pageSize       string
	fontSize       float64
	separatorWidth int
	indentJSON     bool
	compressPDF    bool
}

func defaultSettings() settings {
	return settings{
		pageSize:       PageA4,
		fontSize:       DefaultFontSize,
		separatorWidth: DefaultSeparatorWidth,
		indentJSON:     true,
		compressPDF:    true,
	}
}

// Option configures a writer.
type Option func(*settings)

// WithPageSize selects the PDF and DOCX page size (PageA4 or PageLetter).
func WithPageSize(size string) Option {
	return func(s *settings) {
		if size == PageA4 || size == PageLetter {
			s.pageSize = size
		}
	}
}

// WithFontSize sets the PDF body font size in points.
func WithFontSize(size float64) Option {
	return func(s *settings) {
		if size > 0 {
			s.fontSize = size
		}
	}
}

// WithSeparatorWidth sets the length of the text separator line.
func WithSeparatorWidth(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.separatorWidth = n
		}
	}
}

// WithCompactJSON disables JSON indentation.
func WithCompactJSON() Option {
	return func(s *settings) {
		s.indentJSON = false
	}
}

// New returns the writer for format, writing to output.
func New(format model.ExportFormat, output io.Writer, opts ...Option) (Writer, error) {
	switch format {
	case model.FormatText:
		return NewTextWriter(output, opts...), nil
	case model.FormatPDF:
		return NewPDFWriter(output, opts...), nil
	case model.FormatDOCX:
		return NewDOCXWriter(output, opts...), nil
	case model.FormatMarkdown:
		return NewMarkdownWriter(output, opts...), nil
	case model.FormatJSON:
		return NewJSONWriter(output, opts...), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// Render encodes the report in memory and returns the bytes.
// Nothing is returned on error, so a caller never sees a truncated document.
func Render(format model.ExportFormat, report *model.ComposedReport, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	w, err := New(format, &buf, opts...)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output   io.Writer
	settings settings
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer, opts []Option) baseWriter {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return baseWriter{output: output, settings: s}
}

// SectionField names a section in error messages, e.g. "finding:Hand".
func SectionField(s model.Section) string {
	if s.Kind == model.SectionFinding && s.Title != "" {
		return s.Kind.String() + ":" + s.Title
	}
	return s.Kind.String()
}

// checkText walks every title and line and calls check for each rune.
// The first failing rune becomes an EncodingError naming its section.
func checkText(format model.ExportFormat, report *model.ComposedReport, check func(r rune) string) error {
	if report.Title != "" {
		if reason := checkString(report.Title, check); reason != "" {
			return &model.EncodingError{Format: format, Field: "title", Reason: reason}
		}
	}
	for _, s := range report.Sections {
		if reason := checkString(s.Title, check); reason != "" {
			return &model.EncodingError{Format: format, Field: SectionField(s), Reason: reason}
		}
		for _, line := range s.Lines {
			if reason := checkString(line, check); reason != "" {
				return &model.EncodingError{Format: format, Field: SectionField(s), Reason: reason}
			}
		}
	}
	return nil
}

func checkString(s string, check func(r rune) string) string {
	if !utf8.ValidString(s) {
		return "invalid UTF-8"
	}
	if check == nil {
		return ""
	}
	for _, r := range s {
		if reason := check(r); reason != "" {
			return reason
		}
	}
	return ""
}

// documentDate pins embedded timestamps to the study date so that the same
// input always produces the same bytes.
func documentDate(report *model.ComposedReport) time.Time {
	if t, err := time.Parse(time.DateOnly, report.StudyDate); err == nil {
		return t
	}
	return time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)
}
