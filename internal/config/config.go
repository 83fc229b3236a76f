package config

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/rheumaview/rheumaview/internal/compose"
	"github.com/rheumaview/rheumaview/internal/model"
	"github.com/rheumaview/rheumaview/internal/pipeline"
	"github.com/rheumaview/rheumaview/internal/report"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "rheumaview"

	// DefaultFormat is the export format when neither the request nor the
	// command line names one. DOCX is what reading rooms paste into the EMR.
	DefaultFormat = model.FormatDOCX

	// DefaultOutputDir is the directory artifacts are written to.
	DefaultOutputDir = "."

	// DefaultBatchSize is the number of requests composed concurrently.
	DefaultBatchSize = pipeline.DefaultConcurrency

	// DefaultPageSize is the PDF and DOCX page size.
	DefaultPageSize = report.PageA4

	// MinFontSize and MaxFontSize bound the PDF body font size in points.
	MinFontSize = 6.0
	MaxFontSize = 24.0
)

// Config holds all configuration options of one rheumaview invocation.
// It is populated from CLI flags and passed down explicitly.
type Config struct {
	// Sources are the request files to compose.
	Sources []string

	// Interactive collects the request through the terminal form instead
	// of a request file.
	Interactive bool

	// OutputDir receives the artifacts. Created if missing.
	OutputDir string

	// Stdout writes the artifact to standard output instead of OutputDir.
	Stdout bool

	// Format is the export format. Empty means "as the request says",
	// falling back to DefaultFormat.
	Format string

	// FormatOverride is set when Format was given explicitly and must win
	// over the request's own format.
	FormatOverride bool

	// Title, Header and Footer fill the request options left empty.
	Title  string
	Header string
	Footer string

	// PageSize is report.PageA4 or report.PageLetter.
	PageSize string

	// FontSize is the PDF body font size in points.
	FontSize float64

	// FilenamePrefix starts every artifact filename.
	FilenamePrefix string

	// IncludeClinicalContext adds the clinical context to every report.
	IncludeClinicalContext bool

	// Manifest writes a JSON manifest next to every artifact.
	Manifest bool

	// DetectRegions proposes regions from DICOM metadata when a request
	// selects none.
	DetectRegions bool

	// InferDate reads a missing study date from DICOM or EXIF metadata.
	InferDate bool

	// BatchSize is the number of requests composed concurrently.
	BatchSize int

	// Verbose enables debug logging.
	Verbose bool

	// Profile names the configuration file profile to apply.
	Profile string

	// ConfigFilePath is the configuration file. Empty means search the
	// usual locations (see FindConfigFile).
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		OutputDir:      DefaultOutputDir,
		PageSize:       DefaultPageSize,
		FontSize:       report.DefaultFontSize,
		FilenamePrefix: compose.DefaultFilenamePrefix,
		BatchSize:      DefaultBatchSize,
	}
}

// XDGConfigDir returns the XDG config directory for rheumaview.
// On Linux: ~/.config/rheumaview
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ExportFormat returns the parsed export format, DefaultFormat when none
// is set.
func (c *Config) ExportFormat() (model.ExportFormat, error) {
	if strings.TrimSpace(c.Format) == "" {
		return DefaultFormat, nil
	}
	f, err := model.ParseExportFormat(c.Format)
	if err != nil {
		return "", ErrUnknownFormat
	}
	return f, nil
}

// ReportDefaults returns the report options used for requests that leave
// them empty.
func (c *Config) ReportDefaults() model.ReportOptions {
	format, err := c.ExportFormat()
	if err != nil {
		format = DefaultFormat
	}
	return model.ReportOptions{
		Title:  c.Title,
		Header: c.Header,
		Footer: c.Footer,
		Format: format,
	}
}

// WriterOptions returns the encoder options derived from the layout
// settings.
func (c *Config) WriterOptions() []report.Option {
	return []report.Option{
		report.WithPageSize(canonicalPageSize(c.PageSize)),
		report.WithFontSize(c.FontSize),
	}
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 && !c.Interactive {
		return ErrNoRequest
	}

	if _, err := c.ExportFormat(); err != nil {
		return err
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if canonicalPageSize(c.PageSize) == "" {
		return ErrInvalidPageSize
	}

	if c.FontSize < MinFontSize || c.FontSize > MaxFontSize {
		return ErrInvalidFontSize
	}

	if c.Stdout && len(c.Sources) > 1 {
		return ErrStdoutMultiple
	}

	return nil
}

// canonicalPageSize matches page size names case-insensitively and returns
// "" for unknown names.
func canonicalPageSize(s string) string {
	switch {
	case strings.EqualFold(s, report.PageA4):
		return report.PageA4
	case strings.EqualFold(s, report.PageLetter):
		return report.PageLetter
	default:
		return ""
	}
}
