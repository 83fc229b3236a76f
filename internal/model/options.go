package model

import (
	"fmt"
	"strings"
)

// ExportFormat selects the encoding of the generated document.
type ExportFormat string

const (
	// FormatText is plain UTF-8 text.
	FormatText ExportFormat = "text"
	// FormatPDF is a PDF document.
	FormatPDF ExportFormat = "pdf"
	// FormatDOCX is an Office Open XML word-processing document.
	FormatDOCX ExportFormat = "docx"
	// FormatMarkdown is GitHub-flavoured Markdown.
	FormatMarkdown ExportFormat = "markdown"
	// FormatJSON is the section list as JSON.
	FormatJSON ExportFormat = "json"
)

// ExportFormats lists every supported format.
var ExportFormats = []ExportFormat{FormatText, FormatPDF, FormatDOCX, FormatMarkdown, FormatJSON}

// MIME types of the generated artifacts.
const (
	MIMEText     = "text/plain; charset=utf-8"
	MIMEPDF      = "application/pdf"
	MIMEDOCX     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEMarkdown = "text/markdown; charset=utf-8"
	MIMEJSON     = "application/json"
)

// ParseExportFormat resolves a user-supplied format name.
// "txt", "md" and "word" are accepted as aliases.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt", "":
		return FormatText, nil
	case "pdf":
		return FormatPDF, nil
	case "docx", "word":
		return FormatDOCX, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// Extension returns the filename extension for the format, without the dot.
func (f ExportFormat) Extension() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatDOCX:
		return "docx"
	case FormatMarkdown:
		return "md"
	case FormatJSON:
		return "json"
	default:
		return "txt"
	}
}

// MIMEType returns the media type of the format.
func (f ExportFormat) MIMEType() string {
	switch f {
	case FormatPDF:
		return MIMEPDF
	case FormatDOCX:
		return MIMEDOCX
	case FormatMarkdown:
		return MIMEMarkdown
	case FormatJSON:
		return MIMEJSON
	default:
		return MIMEText
	}
}

// DefaultTitle is used when ReportOptions.Title is empty.
const DefaultTitle = "RheumaView Structured Report"

// ReportOptions controls the optional parts of the document and its encoding.
type ReportOptions struct {
	// Title heads the identity block. Empty means DefaultTitle.
	Title string `yaml:"title,omitempty" json:"title,omitempty"`

	// Header is printed before everything else when non-empty.
	Header string `yaml:"header,omitempty" json:"header,omitempty"`

	// Footer is printed after everything else when non-empty.
	Footer string `yaml:"footer,omitempty" json:"footer,omitempty"`

	// EMRSummary is a short block meant for copy-paste into an EMR.
	EMRSummary string `yaml:"emr_summary,omitempty" json:"emr_summary,omitempty"`

	// Format is the export encoding.
	Format ExportFormat `yaml:"format,omitempty" json:"format,omitempty"`

	// IncludeClinicalContext adds StudyInfo.ClinicalContext to the document.
	// It has no implicit default: callers decide.
	IncludeClinicalContext bool `yaml:"include_clinical_context,omitempty" json:"include_clinical_context,omitempty"`
}

// Request bundles everything one report generation needs. It is built
// fresh for every request and never shared.
type Request struct {
	Patient  PatientInfo   `yaml:"patient" json:"patient"`
	Study    StudyInfo     `yaml:"study" json:"study"`
	Findings []Finding     `yaml:"findings" json:"findings"`
	Priors   []PriorStudy  `yaml:"priors,omitempty" json:"priors,omitempty"`
	Options  ReportOptions `yaml:"options,omitempty" json:"options,omitempty"`
}
