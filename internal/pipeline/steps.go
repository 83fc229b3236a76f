package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rheumaview/rheumaview/internal/compose"
	"github.com/rheumaview/rheumaview/internal/intake"
	"github.com/rheumaview/rheumaview/internal/model"
)

// Step names, as recorded in model.Job.PerformedSteps.
const (
	StepIntake   = "intake"
	StepCompose  = "compose"
	StepWrite    = "write"
	StepManifest = "manifest"
)

// ErrNoArtifact is returned by steps that need a composed artifact when the
// compose step did not produce one.
var ErrNoArtifact = errors.New("no composed artifact")

// IntakeStep loads the request file named by the job's source when the job
// carries no request yet, then resolves it. Relative image paths in a
// loaded file are anchored at the file's directory.
type IntakeStep struct {
	// resolverOpts are applied to every resolver this step creates.
	resolverOpts []intake.Option
}

// NewIntakeStep creates a new intake step.
func NewIntakeStep(opts ...intake.Option) *IntakeStep {
	return &IntakeStep{resolverOpts: opts}
}

// Name returns the step name.
func (s *IntakeStep) Name() string {
	return StepIntake
}

// Do executes the intake step.
func (s *IntakeStep) Do(ctx context.Context, job *model.Job) error {
	opts := s.resolverOpts
	if job.Request == nil {
		req, err := intake.Load(job.Source)
		if err != nil {
			return err
		}
		job.Request = req
		opts = append(opts[:len(opts):len(opts)], intake.WithBaseDir(filepath.Dir(job.Source)))
	}
	return intake.NewResolver(opts...).Resolve(ctx, job.Request)
}

// ComposeStep runs the report builder over the job's request.
type ComposeStep struct {
	builder *compose.Builder

	// format, when set, replaces the request's export format.
	format model.ExportFormat

	// defaults fill the request options left empty.
	defaults model.ReportOptions

	// clinicalContext forces the clinical context section on.
	clinicalContext bool
}

// ComposeStepOption configures a ComposeStep.
type ComposeStepOption func(*ComposeStep)

// WithFormatOverride makes every job use the given format.
func WithFormatOverride(format model.ExportFormat) ComposeStepOption {
	return func(s *ComposeStep) {
		s.format = format
	}
}

// WithDefaults fills the title, header, footer and format of requests
// that leave them empty.
func WithDefaults(opts model.ReportOptions) ComposeStepOption {
	return func(s *ComposeStep) {
		s.defaults = opts
	}
}

// WithClinicalContext includes the clinical context in every report.
func WithClinicalContext(include bool) ComposeStepOption {
	return func(s *ComposeStep) {
		s.clinicalContext = include
	}
}

// NewComposeStep creates a new compose step. A nil builder means
// compose.New().
func NewComposeStep(builder *compose.Builder, opts ...ComposeStepOption) *ComposeStep {
	if builder == nil {
		builder = compose.New()
	}
	s := &ComposeStep{builder: builder}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *ComposeStep) Name() string {
	return StepCompose
}

// Do executes the compose step.
func (s *ComposeStep) Do(_ context.Context, job *model.Job) error {
	if job.Request == nil {
		return model.NewValidationError("request", "request is empty")
	}

	req := job.Request
	fillEmpty(&req.Options.Title, s.defaults.Title)
	fillEmpty(&req.Options.Header, s.defaults.Header)
	fillEmpty(&req.Options.Footer, s.defaults.Footer)
	if req.Options.Format == "" {
		req.Options.Format = s.defaults.Format
	}
	if s.format != "" {
		req.Options.Format = s.format
	}
	if s.clinicalContext {
		req.Options.IncludeClinicalContext = true
	}

	composed, err := s.builder.ComposeRequest(req)
	if err != nil {
		return err
	}
	job.Report = composed
	return nil
}

func fillEmpty(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}

// WriteStep stores the composed artifact. It writes either to a directory,
// under the artifact's filename, or to a stream such as stdout.
type WriteStep struct {
	// outputDir receives the artifact file. Created if missing.
	outputDir string

	// stream, when set, receives the artifact bytes instead of a file.
	stream io.Writer

	logger *slog.Logger
}

// WriteStepOption configures a WriteStep.
type WriteStepOption func(*WriteStep)

// WithStream writes the artifact to w instead of the output directory.
func WithStream(w io.Writer) WriteStepOption {
	return func(s *WriteStep) {
		s.stream = w
	}
}

// WithWriteLogger sets a custom logger for the write step.
func WithWriteLogger(logger *slog.Logger) WriteStepOption {
	return func(s *WriteStep) {
		s.logger = logger
	}
}

// NewWriteStep creates a write step for the given output directory.
func NewWriteStep(outputDir string, opts ...WriteStepOption) *WriteStep {
	s := &WriteStep{
		outputDir: outputDir,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *WriteStep) Name() string {
	return StepWrite
}

// StreamPath is the OutputPath recorded for artifacts written to a stream.
const StreamPath = "-"

// Do executes the write step. Failures are *model.IOError and leave no
// partial file behind.
func (s *WriteStep) Do(_ context.Context, job *model.Job) error {
	if job.Report == nil || job.Report.Artifact == nil {
		return ErrNoArtifact
	}
	artifact := job.Report.Artifact

	if s.stream != nil {
		if _, err := s.stream.Write(artifact.Data); err != nil {
			return &model.IOError{Path: StreamPath, Err: err}
		}
		job.OutputPath = StreamPath
		return nil
	}

	want := filepath.Join(s.outputDir, artifact.Filename)
	path, err := writeFileUnique(want, artifact.Data)
	if err != nil {
		return err
	}
	if path != want {
		artifact.Filename = filepath.Base(path)
		job.Report.Warnings = append(job.Report.Warnings,
			fmt.Sprintf("%s already exists; report written as %s", filepath.Base(want), artifact.Filename))
		s.logger.Warn("report name taken", "wanted", want, "path", path)
	}
	job.OutputPath = path

	s.logger.Info("report written",
		"path", path,
		"format", artifact.Format,
		"bytes", artifact.Size(),
	)
	return nil
}

// MaxNameAttempts bounds the numbered names tried for one artifact.
const MaxNameAttempts = 100

// ErrNameTaken is returned when every numbered name for an artifact is
// already in use.
var ErrNameTaken = errors.New("no free artifact name")

// writeFileAtomic writes data to a temporary file in the target directory
// and renames it into place, so readers never see a partial file. An
// existing file at path is replaced.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := writeTemp(path, data)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp) //nolint:errcheck // best effort cleanup
		return &model.IOError{Path: path, Err: fmt.Errorf("failed to move artifact into place: %w", err)}
	}
	return nil
}

// writeFileUnique is writeFileAtomic without replacing anything. When path
// exists, "_2", "_3" and so on are inserted before the extension until a
// free name is found. The temporary file is hard-linked into place, which
// fails atomically on an existing name, so concurrent writers never share a
// path. It returns the path written.
func writeFileUnique(path string, data []byte) (string, error) {
	tmp, err := writeTemp(path, data)
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp) //nolint:errcheck // the linked name keeps the data

	for n := 1; n <= MaxNameAttempts; n++ {
		candidate := numberedName(path, n)
		err := os.Link(tmp, candidate)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", &model.IOError{Path: candidate, Err: fmt.Errorf("failed to move artifact into place: %w", err)}
		}
	}
	return "", &model.IOError{Path: path, Err: ErrNameTaken}
}

// numberedName returns path for n == 1 and path with "_n" before the
// extension otherwise.
func numberedName(path string, n int) string {
	if n <= 1 {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(path, ext), n, ext)
}

// writeTemp writes data to a new temporary file next to path and returns
// its name. On failure nothing is left behind.
func writeTemp(path string, data []byte) (name string, err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", &model.IOError{Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".rheumaview-*")
	if err != nil {
		return "", &model.IOError{Path: path, Err: err}
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()           //nolint:errcheck // already failing
			_ = os.Remove(tmp.Name()) //nolint:errcheck // best effort cleanup
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return "", &model.IOError{Path: path, Err: err}
	}
	if err = tmp.Close(); err != nil {
		return "", &model.IOError{Path: path, Err: err}
	}
	return tmp.Name(), nil
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// IntakeOptions configure request resolution.
	IntakeOptions []intake.Option

	// Builder composes the reports. Nil means compose.New().
	Builder *compose.Builder

	// ComposeOptions configure the compose step.
	ComposeOptions []ComposeStepOption

	// OutputDir receives artifacts and manifests.
	OutputDir string

	// Stream, when set, receives the artifact instead of OutputDir.
	Stream io.Writer

	// Manifest adds the manifest step.
	Manifest bool

	// Generator names the producing program in manifests.
	Generator string
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineIntake sets the resolver options of the intake step.
func WithPipelineIntake(opts ...intake.Option) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.IntakeOptions = opts
	}
}

// WithPipelineBuilder sets the report builder.
func WithPipelineBuilder(b *compose.Builder) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Builder = b
	}
}

// WithPipelineCompose sets the compose step options.
func WithPipelineCompose(opts ...ComposeStepOption) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.ComposeOptions = opts
	}
}

// WithPipelineOutputDir sets the output directory.
func WithPipelineOutputDir(dir string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.OutputDir = dir
	}
}

// WithPipelineStream writes artifacts to w. Manifests are not written for
// streamed artifacts.
func WithPipelineStream(w io.Writer) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Stream = w
	}
}

// WithPipelineManifest enables the manifest sidecar.
func WithPipelineManifest(enabled bool, generator string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Manifest = enabled
		c.Generator = generator
	}
}

// DefaultPipeline creates the standard pipeline: intake, compose, write and,
// when enabled, manifest.
func DefaultPipeline(pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{
		OutputDir: ".",
	}
	for _, opt := range configOpts {
		opt(cfg)
	}

	writeOpts := []WriteStepOption{WithWriteLogger(p.logger)}
	if cfg.Stream != nil {
		writeOpts = append(writeOpts, WithStream(cfg.Stream))
	}

	p.AddSteps(
		NewIntakeStep(cfg.IntakeOptions...),
		NewComposeStep(cfg.Builder, cfg.ComposeOptions...),
		NewWriteStep(cfg.OutputDir, writeOpts...),
	)
	if cfg.Manifest && cfg.Stream == nil {
		p.AddStep(NewManifestStep(WithGenerator(cfg.Generator)))
	}

	return p
}
