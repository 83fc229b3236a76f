package compose

import (
	"fmt"
	"strings"

	"github.com/rheumaview/rheumaview/internal/model"
	"golang.org/x/text/unicode/norm"
)

// Section titles.
const (
	TitleClinicalContext    = "Clinical Context"
	TitleIntervalComparison = "Interval Comparison"
	TitleEMRSummary         = "EMR Summary"
)

// IntervalComparisonLine formats one prior study line. An empty label
// becomes "Prior_{n}" (1-based) and an empty date "Unknown".
func IntervalComparisonLine(n int, prior model.PriorStudy) string {
	label := strings.TrimSpace(prior.Label)
	if label == "" {
		label = fmt.Sprintf("Prior_%d", n)
	}
	date := strings.TrimSpace(prior.Date)
	if date == "" {
		date = "Unknown"
	}
	return fmt.Sprintf("%s (%s): Compared for progression/regression relative to current study.", label, date)
}

// assemble builds the sections in document order. Inputs must already be
// validated.
func assemble(patient model.PatientInfo, study model.StudyInfo, findings []model.Finding, priors []model.PriorStudy, opts model.ReportOptions, title string, age model.Age) []model.Section {
	sections := make([]model.Section, 0, len(findings)+6)

	if lines := splitLines(opts.Header); len(lines) > 0 {
		sections = append(sections, model.Section{Kind: model.SectionHeader, Lines: lines})
	}

	sections = append(sections, model.Section{
		Kind:  model.SectionIdentity,
		Title: title,
		Lines: identityLines(patient, study, age),
	})

	if opts.IncludeClinicalContext {
		if lines := splitLines(study.ClinicalContext); len(lines) > 0 {
			sections = append(sections, model.Section{
				Kind:  model.SectionClinicalContext,
				Title: TitleClinicalContext,
				Lines: lines,
			})
		}
	}

	for _, f := range findings {
		region := nfc(strings.TrimSpace(f.Region))
		if region == "" {
			region = model.FreeFormRegion
		}
		sections = append(sections, model.Section{
			Kind:  model.SectionFinding,
			Title: region,
			Lines: splitLines(f.Text),
		})
	}

	if len(priors) > 0 {
		lines := make([]string, 0, len(priors))
		for i, p := range priors {
			lines = append(lines, nfc(IntervalComparisonLine(i+1, p)))
		}
		sections = append(sections, model.Section{
			Kind:  model.SectionIntervalComparison,
			Title: TitleIntervalComparison,
			Lines: lines,
		})
	}

	if lines := splitLines(opts.EMRSummary); len(lines) > 0 {
		sections = append(sections, model.Section{Kind: model.SectionEMRSummary, Title: TitleEMRSummary, Lines: lines})
	}

	if lines := splitLines(opts.Footer); len(lines) > 0 {
		sections = append(sections, model.Section{Kind: model.SectionFooter, Lines: lines})
	}
	return sections
}

func identityLines(patient model.PatientInfo, study model.StudyInfo, age model.Age) []string {
	lines := []string{"Date of Current Study: " + study.Date}
	if s := nfc(strings.TrimSpace(patient.Name)); s != "" {
		lines = append(lines, "Patient: "+s)
	}
	if s := nfc(strings.TrimSpace(patient.MRN)); s != "" {
		lines = append(lines, "MRN: "+s)
	}
	if s := nfc(strings.TrimSpace(patient.DOB)); s != "" {
		lines = append(lines, "DOB: "+s)
	}
	lines = append(lines, "Age: "+age.String(), "Sex: "+patient.Sex.String())

	if study.FreeForm {
		lines = append(lines, "Regions: free-form")
	} else {
		lines = append(lines, "Regions: "+strings.Join(study.Regions, ", "))
	}

	names := make([]string, 0, len(study.Images))
	for _, img := range study.Images {
		names = append(names, nfc(img.Name()))
	}
	lines = append(lines, "Uploaded files: "+strings.Join(names, ", "))
	return lines
}

// splitLines normalizes s to NFC and splits it into body lines.
// CRLF is treated as LF and trailing blank lines are dropped.
func splitLines(s string) []string {
	s = strings.ReplaceAll(nfc(s), "\r\n", "\n")
	s = strings.TrimRight(s, "\n\r\t ")
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func nfc(s string) string {
	return norm.NFC.String(s)
}
