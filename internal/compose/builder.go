package compose

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/rheumaview/rheumaview/internal/model"
	"github.com/rheumaview/rheumaview/internal/report"
)

// DefaultMaxPriors is the number of prior studies accepted per report.
const DefaultMaxPriors = 5

// Builder composes report requests into encoded documents.
// It holds configuration only and is safe for concurrent use.
type Builder struct {
	// clock returns "today" for age derivation.
	clock func() time.Time

	// logger receives warnings and a debug line per composed report.
	logger *slog.Logger

	// filenamePrefix starts every artifact name.
	filenamePrefix string

	// maxPriors caps the number of prior studies.
	maxPriors int

	// writerOptions are passed to every report writer.
	writerOptions []report.Option
}

// Option is a function that configures a Builder.
type Option func(*Builder)

// WithClock sets the function used to read the current date.
// Tests pin it to get reproducible ages.
func WithClock(clock func() time.Time) Option {
	return func(b *Builder) {
		if clock != nil {
			b.clock = clock
		}
	}
}

// WithLogger sets the logger for composition warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithFilenamePrefix sets the artifact filename prefix.
func WithFilenamePrefix(prefix string) Option {
	return func(b *Builder) {
		if prefix != "" {
			b.filenamePrefix = prefix
		}
	}
}

// WithMaxPriors sets the maximum number of prior studies.
func WithMaxPriors(n int) Option {
	return func(b *Builder) {
		if n >= 0 {
			b.maxPriors = n
		}
	}
}

// WithWriterOptions sets options for the report writers, such as the
// PDF page size.
func WithWriterOptions(opts ...report.Option) Option {
	return func(b *Builder) {
		b.writerOptions = append(b.writerOptions, opts...)
	}
}

// New creates a Builder with the given options.
func New(opts ...Option) *Builder {
	b := &Builder{
		clock:          time.Now,
		filenamePrefix: DefaultFilenamePrefix,
		maxPriors:      DefaultMaxPriors,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// Compose validates the inputs, assembles the sections and encodes them in
// opts.Format. On success the returned report carries its Artifact.
//
// Errors are *model.ValidationError or *model.EncodingError; no report is
// returned alongside an error.
func (b *Builder) Compose(patient model.PatientInfo, study model.StudyInfo, findings []model.Finding, priors []model.PriorStudy, opts model.ReportOptions) (*model.ComposedReport, error) {
	if err := b.validate(patient, study, findings, priors, opts); err != nil {
		return nil, err
	}
	format, _ := supportedFormat(opts.Format)

	age, warning := DeriveAge(patient.DOB, patient.Age, b.clock())
	var warnings []string
	if warning != "" {
		warnings = append(warnings, warning)
		b.logger.Warn("age fallback", "reason", warning, "age_source", age.Source)
	}

	title := nfc(strings.TrimSpace(opts.Title))
	if title == "" {
		title = model.DefaultTitle
	}

	composed := &model.ComposedReport{
		Title:     title,
		StudyDate: study.Date,
		Sex:       patient.Sex,
		Age:       age,
		Sections:  assemble(patient, study, findings, priors, opts, title, age),
		Warnings:  warnings,
	}

	data, err := report.Render(format, composed, b.writerOptions...)
	if err != nil {
		return nil, translateEncodeError(format, err)
	}

	composed.Artifact = &model.Artifact{
		Data:     data,
		Filename: Filename(b.filenamePrefix, composed, format),
		MIMEType: format.MIMEType(),
		Format:   format,
	}

	b.logger.Debug("report composed",
		"format", format,
		"sections", len(composed.Sections),
		"bytes", len(data),
		"filename", composed.Artifact.Filename,
	)
	return composed, nil
}

// ComposeRequest is Compose over a request bundle.
func (b *Builder) ComposeRequest(req *model.Request) (*model.ComposedReport, error) {
	if req == nil {
		return nil, model.NewValidationError("request", "request is empty")
	}
	return b.Compose(req.Patient, req.Study, req.Findings, req.Priors, req.Options)
}

// translateEncodeError makes sure every writer failure leaves the builder
// as a *model.EncodingError.
func translateEncodeError(format model.ExportFormat, err error) error {
	if errors.Is(err, model.ErrEncoding) {
		return err
	}
	return &model.EncodingError{Format: format, Field: "document", Reason: "encoder failed", Err: err}
}
