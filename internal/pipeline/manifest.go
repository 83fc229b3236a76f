package pipeline

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rheumaview/rheumaview/internal/model"
	"golang.org/x/crypto/sha3"
)

// reportNamespace is the UUIDv5 namespace of report identifiers.
var reportNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:rheumaview:report"))

// ManifestSuffix replaces the artifact extension in the manifest filename.
const ManifestSuffix = ".manifest.json"

// Manifest describes a written artifact without repeating patient data.
// Identical artifacts produce identical manifests.
type Manifest struct {
	// ReportID is a UUIDv5 derived from the artifact digest.
	ReportID string `json:"report_id"`

	// Generator names the producing program and version.
	Generator string `json:"generator,omitempty"`

	Filename string             `json:"filename"`
	Format   model.ExportFormat `json:"format"`
	MIMEType string             `json:"mime_type"`
	Size     int                `json:"size"`

	// SHA3256 is the hex SHA3-256 digest of the artifact bytes.
	SHA3256 string `json:"sha3_256"`

	// Sections lists the section titles in document order.
	Sections []string `json:"sections"`

	// AgeSource tells whether the age in the filename was derived.
	AgeSource model.AgeSource `json:"age_source"`

	Warnings []string `json:"warnings,omitempty"`
}

// NewManifest describes the artifact of a composed report.
func NewManifest(report *model.ComposedReport, generator string) (*Manifest, error) {
	if report == nil || report.Artifact == nil {
		return nil, ErrNoArtifact
	}
	artifact := report.Artifact

	sum := sha3.Sum256(artifact.Data)
	return &Manifest{
		ReportID:  uuid.NewSHA1(reportNamespace, sum[:]).String(),
		Generator: generator,
		Filename:  artifact.Filename,
		Format:    artifact.Format,
		MIMEType:  artifact.MIMEType,
		Size:      artifact.Size(),
		SHA3256:   hex.EncodeToString(sum[:]),
		Sections:  report.SectionTitles(),
		AgeSource: report.Age.Source,
		Warnings:  report.Warnings,
	}, nil
}

// ManifestPath returns the sidecar path for an artifact path.
func ManifestPath(artifactPath string) string {
	return strings.TrimSuffix(artifactPath, filepath.Ext(artifactPath)) + ManifestSuffix
}

// ManifestStep writes a JSON manifest next to the written artifact.
type ManifestStep struct {
	generator string
}

// ManifestStepOption configures a ManifestStep.
type ManifestStepOption func(*ManifestStep)

// WithGenerator sets the generator recorded in manifests.
func WithGenerator(generator string) ManifestStepOption {
	return func(s *ManifestStep) {
		s.generator = generator
	}
}

// NewManifestStep creates a new manifest step.
func NewManifestStep(opts ...ManifestStepOption) *ManifestStep {
	s := &ManifestStep{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *ManifestStep) Name() string {
	return StepManifest
}

// Do executes the manifest step. Artifacts written to a stream get no
// manifest.
func (s *ManifestStep) Do(_ context.Context, job *model.Job) error {
	if job.OutputPath == "" {
		return fmt.Errorf("manifest: %w", ErrNoArtifact)
	}
	if job.OutputPath == StreamPath {
		return nil
	}

	m, err := NewManifest(job.Report, s.generator)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	path := ManifestPath(job.OutputPath)
	if err := writeFileAtomic(path, append(data, '\n')); err != nil {
		return err
	}
	job.ManifestPath = path
	return nil
}
