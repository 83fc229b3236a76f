package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rheumaview/rheumaview/internal/imaging"
	"github.com/rheumaview/rheumaview/internal/model"
	"github.com/rheumaview/rheumaview/internal/phrasing"
)

// Resolver prepares a decoded request for composition.
type Resolver struct {
	// phrases expands phrase references. Nil means phrasing.Default().
	phrases *phrasing.Library

	// detector proposes regions when none were selected. Nil disables
	// detection.
	detector imaging.RegionDetector

	// inferDate fills an empty study date from image metadata.
	inferDate bool

	// baseDir anchors relative image paths, usually the directory of the
	// request file.
	baseDir string

	logger *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPhrasing sets the phrasing library.
func WithPhrasing(lib *phrasing.Library) Option {
	return func(r *Resolver) {
		r.phrases = lib
	}
}

// WithDetector enables region detection for requests without regions.
func WithDetector(d imaging.RegionDetector) Option {
	return func(r *Resolver) {
		r.detector = d
	}
}

// WithDateInference enables reading the study date from image metadata.
func WithDateInference(enabled bool) Option {
	return func(r *Resolver) {
		r.inferDate = enabled
	}
}

// WithBaseDir sets the directory relative image paths are resolved against.
func WithBaseDir(dir string) Option {
	return func(r *Resolver) {
		r.baseDir = dir
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a Resolver with the given options.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Resolve rewrites req in place. Errors are *model.ValidationError naming
// the request field, or the context error.
func (r *Resolver) Resolve(ctx context.Context, req *model.Request) error {
	if req == nil {
		return model.NewValidationError("request", "request is empty")
	}

	if sex, err := model.ParseSex(string(req.Patient.Sex)); err == nil {
		req.Patient.Sex = sex
	}
	if req.Options.Format != "" {
		format, err := model.ParseExportFormat(string(req.Options.Format))
		if err != nil {
			return model.NewValidationError("options.format", err.Error())
		}
		req.Options.Format = format
	}

	if err := r.resolveImages("study.images", req.Study.Images); err != nil {
		return err
	}
	for i := range req.Priors {
		if err := r.resolveImages(fmt.Sprintf("priors[%d].images", i), req.Priors[i].Images); err != nil {
			return err
		}
	}

	if err := r.expandFindings(req.Findings); err != nil {
		return err
	}

	if !req.Study.FreeForm && len(req.Study.Regions) == 0 && r.detector != nil {
		regions, err := r.detector.Detect(ctx, req.Study.Images)
		if err != nil {
			return err
		}
		if len(regions) > 0 {
			r.logger.Info("regions proposed from images", "regions", strings.Join(regions, ", "))
			req.Study.Regions = regions
		}
	}

	if strings.TrimSpace(req.Study.Date) == "" && r.inferDate {
		if err := ctx.Err(); err != nil {
			return err
		}
		req.Study.Date = r.studyDate(req.Study.Images)
	}
	return nil
}

// resolveImages anchors relative paths, fills missing filenames and checks
// that referenced files exist.
func (r *Resolver) resolveImages(field string, images []model.ImageRef) error {
	for i := range images {
		img := &images[i]
		if img.Path == "" {
			continue
		}
		if !filepath.IsAbs(img.Path) && r.baseDir != "" {
			img.Path = filepath.Join(r.baseDir, img.Path)
		}
		if img.Filename == "" {
			img.Filename = filepath.Base(img.Path)
		}
		info, err := os.Stat(img.Path)
		if err != nil {
			reason := "cannot read image"
			if errors.Is(err, os.ErrNotExist) {
				reason = "image file not found"
			}
			return model.NewValidationError(fmt.Sprintf("%s[%d]", field, i), fmt.Sprintf("%s: %s", reason, img.Filename))
		}
		if info.IsDir() {
			return model.NewValidationError(fmt.Sprintf("%s[%d]", field, i), "image path is a directory: "+img.Filename)
		}
	}
	return nil
}

// expandFindings turns phrase references and peripheral blocks into text.
// Typed text wins over a phrase reference; the peripheral block is
// appended after it.
func (r *Resolver) expandFindings(findings []model.Finding) error {
	needsLibrary := false
	for _, f := range findings {
		if f.Phrase != "" || f.Peripheral != nil {
			needsLibrary = true
			break
		}
	}
	if !needsLibrary {
		return nil
	}

	lib := r.phrases
	if lib == nil {
		var err error
		if lib, err = phrasing.Default(); err != nil {
			return err
		}
	}

	for i := range findings {
		f := &findings[i]
		field := fmt.Sprintf("findings[%d]", i)
		parts := make([]string, 0, 2)

		if text := strings.TrimSpace(f.Text); text != "" {
			parts = append(parts, text)
		} else if f.Phrase != "" {
			suggestion, err := lib.Suggest(f.Phrase, f.Level)
			if err != nil {
				return model.NewValidationError(field, err.Error())
			}
			parts = append(parts, suggestion)
		}

		if f.Peripheral != nil {
			if err := lib.Peripheral.Validate(*f.Peripheral); err != nil {
				return model.NewValidationError(field+".peripheral", err.Error())
			}
			parts = append(parts, lib.Peripheral.Render(*f.Peripheral))
		}

		f.Text = strings.Join(parts, "\n")
		f.Phrase, f.Level, f.Peripheral = "", "", nil
	}
	return nil
}

// studyDate returns the first date found in image metadata, or "".
func (r *Resolver) studyDate(images []model.ImageRef) string {
	for _, img := range images {
		date, err := imaging.StudyDateHint(img)
		if err != nil {
			r.logger.Debug("no study date in image", "image", img.Name(), "error", err)
			continue
		}
		r.logger.Info("study date read from image metadata", "image", img.Name(), "study_date", date)
		return date
	}
	return ""
}
