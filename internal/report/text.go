package report

import (
	"io"
	"strings"

	"github.com/rheumaview/rheumaview/internal/model"
)

// TextWriter outputs the report as plain UTF-8 text.
// Titles and body lines are newline-joined, sections are separated by a
// blank line, and every finding section is preceded by a separator line.
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...Option) *TextWriter {
	return &TextWriter{baseWriter: newBaseWriter(output, opts)}
}

// Format returns model.FormatText.
func (w *TextWriter) Format() model.ExportFormat {
	return model.FormatText
}

// Write outputs the report in text format.
func (w *TextWriter) Write(report *model.ComposedReport) (int, error) {
	if err := checkText(model.FormatText, report, nil); err != nil {
		return 0, err
	}

	var sb strings.Builder
	separator := strings.Repeat("-", w.settings.separatorWidth)

	for i, section := range report.Sections {
		if i > 0 {
			sb.WriteString("\n")
		}
		if section.Kind == model.SectionFinding {
			sb.WriteString(separator)
			sb.WriteString("\n")
		}
		if section.Title != "" {
			sb.WriteString(section.Title)
			sb.WriteString("\n")
		}
		for _, line := range section.Lines {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}

	return io.WriteString(w.output, sb.String())
}
