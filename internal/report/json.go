package report

import (
	"encoding/json"
	"io"

	"github.com/rheumaview/rheumaview/internal/model"
)

// JSONWriter outputs the composed sections as JSON.
// This format is meant for EMR integrations that want the structure
// rather than a rendered document.
type JSONWriter struct {
	baseWriter
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
// Output is indented unless WithCompactJSON is given.
func NewJSONWriter(output io.Writer, opts ...Option) *JSONWriter {
	return &JSONWriter{baseWriter: newBaseWriter(output, opts)}
}

// Format returns model.FormatJSON.
func (w *JSONWriter) Format() model.ExportFormat {
	return model.FormatJSON
}

// Write outputs the report in JSON format.
func (w *JSONWriter) Write(report *model.ComposedReport) (int, error) {
	// encoding/json would silently replace invalid UTF-8 with U+FFFD.
	if err := checkText(model.FormatJSON, report, nil); err != nil {
		return 0, err
	}

	var (
		data []byte
		err  error
	)
	if w.settings.indentJSON {
		data, err = json.MarshalIndent(report, "", "  ")
	} else {
		data, err = json.Marshal(report)
	}
	if err != nil {
		return 0, &model.EncodingError{Format: model.FormatJSON, Field: "report", Reason: "marshal failed", Err: err}
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
