package compose

import (
	"fmt"
	"strings"
	"time"

	"github.com/rheumaview/rheumaview/internal/model"
)

// validate checks a request and returns the first problem found as a
// *model.ValidationError. The order is fixed so that the same bad input
// always names the same field.
func (b *Builder) validate(patient model.PatientInfo, study model.StudyInfo, findings []model.Finding, priors []model.PriorStudy, opts model.ReportOptions) error {
	if strings.TrimSpace(study.Date) == "" {
		return model.NewValidationError("study.date", "study date is required")
	}
	if _, err := time.Parse(time.DateOnly, study.Date); err != nil {
		return model.NewValidationError("study.date", "study date must be YYYY-MM-DD")
	}

	if !patient.Sex.Valid() {
		return model.NewValidationError("patient.sex", fmt.Sprintf("sex %q is not one of Female, Male, Other", patient.Sex))
	}
	if patient.Age != nil && (*patient.Age < 0 || *patient.Age > model.MaxAge) {
		return model.NewValidationError("patient.age", fmt.Sprintf("age must be between 0 and %d", model.MaxAge))
	}

	if !study.FreeForm {
		if len(study.Regions) == 0 {
			return model.NewValidationError("", model.ReasonNoRegions)
		}
		for _, region := range study.Regions {
			if !model.IsRegion(region) {
				return model.NewValidationError("study.regions", fmt.Sprintf("unknown region %q", region))
			}
		}
	}

	if len(findings) == 0 {
		return model.NewValidationError("", model.ReasonNoFindings)
	}

	if len(study.Images) == 0 {
		return model.NewValidationError("", model.ReasonNoImages)
	}
	if err := validateImages("study.images", study.Images); err != nil {
		return err
	}

	if err := validateFindings(study, findings); err != nil {
		return err
	}

	if len(priors) > b.maxPriors {
		return model.NewValidationError("priors", fmt.Sprintf("at most %d prior studies are allowed", b.maxPriors))
	}
	for i, prior := range priors {
		field := fmt.Sprintf("priors[%d]", i)
		if len(prior.Images) == 0 {
			return model.NewValidationError(field, "prior study has no images")
		}
		if err := validateImages(field+".images", prior.Images); err != nil {
			return err
		}
	}

	if _, ok := supportedFormat(opts.Format); !ok {
		return model.NewValidationError("options.format", fmt.Sprintf("unsupported export format %q", opts.Format))
	}
	return nil
}

// validateFindings checks every finding body and, in region mode, that
// each finding belongs to exactly one selected region.
func validateFindings(study model.StudyInfo, findings []model.Finding) error {
	selected := make(map[string]bool, len(study.Regions))
	for _, r := range study.Regions {
		selected[r] = true
	}
	seen := make(map[string]bool, len(findings))

	for i, f := range findings {
		field := fmt.Sprintf("findings[%d]", i)
		if strings.TrimSpace(f.Text) == "" {
			return model.NewValidationError(field, "finding text is empty")
		}
		if study.FreeForm {
			continue
		}
		if !selected[f.Region] {
			return model.NewValidationError(field, fmt.Sprintf("region %q is not selected", f.Region))
		}
		if seen[f.Region] {
			return model.NewValidationError(field, fmt.Sprintf("region %q has more than one finding", f.Region))
		}
		seen[f.Region] = true
	}
	return nil
}

func validateImages(field string, images []model.ImageRef) error {
	for i, img := range images {
		name := img.Name()
		if name == "" {
			return model.NewValidationError(fmt.Sprintf("%s[%d]", field, i), "image has no filename")
		}
		if !model.IsImageExtension(name) {
			return model.NewValidationError(fmt.Sprintf("%s[%d]", field, i),
				fmt.Sprintf("%q is not one of %s", name, strings.Join(model.ImageExtensions, ", ")))
		}
	}
	return nil
}

// supportedFormat resolves the requested format; empty means text.
func supportedFormat(f model.ExportFormat) (model.ExportFormat, bool) {
	if f == "" {
		return model.FormatText, true
	}
	for _, v := range model.ExportFormats {
		if f == v {
			return f, true
		}
	}
	return "", false
}
