package form

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rheumaview/rheumaview/internal/model"
)

// Bind converts collected values into a request. The static fields and the
// prior-study fields are checked with Field.Check; phrase references and the
// peripheral template are left for intake to expand and validate.
//
// Errors are *model.ValidationError naming the form key.
func Bind(v *Values) (*model.Request, error) {
	if v == nil {
		return nil, model.NewValidationError("form", "no values")
	}
	if key, err := v.Check(Schema()); err != nil {
		return nil, model.NewValidationError(key, err.Error())
	}

	req := &model.Request{}

	req.Patient = model.PatientInfo{
		Name: v.str(KeyPatientName),
		MRN:  v.str(KeyPatientMRN),
		DOB:  v.str(KeyPatientDOB),
	}
	if s := v.str(KeyPatientAge); s != "" {
		age, _ := strconv.Atoi(s)
		req.Patient.Age = &age
	}
	sex, err := model.ParseSex(v.str(KeyPatientSex))
	if err != nil {
		return nil, model.NewValidationError(KeyPatientSex, err.Error())
	}
	req.Patient.Sex = sex

	req.Study = model.StudyInfo{
		Date:            v.str(KeyStudyDate),
		Images:          imageRefs(v.Strings[KeyStudyImages]),
		FreeForm:        v.Bools[KeyStudyFreeForm],
		ClinicalContext: strings.TrimSpace(v.Strings[KeyClinicalContext]),
	}
	if !req.Study.FreeForm {
		req.Study.Regions = append([]string(nil), v.Lists[KeyStudyRegions]...)
	}

	req.Findings = bindFindings(v, req.Study)

	count := 0
	if s := v.str(KeyPriorCount); s != "" {
		count, _ = strconv.Atoi(s)
	}
	if key, err := v.Check(PriorFields(count)); err != nil {
		return nil, model.NewValidationError(key, err.Error())
	}
	for i := 0; i < count; i++ {
		req.Priors = append(req.Priors, model.PriorStudy{
			Label:  v.str(PriorKey(i, "label")),
			Date:   v.str(PriorKey(i, "date")),
			Images: imageRefs(v.Strings[PriorKey(i, "images")]),
		})
	}

	format, err := model.ParseExportFormat(v.str(KeyFormat))
	if err != nil {
		return nil, model.NewValidationError(KeyFormat, err.Error())
	}
	req.Options = model.ReportOptions{
		Title:                  v.str(KeyTitle),
		Header:                 strings.TrimSpace(v.Strings[KeyHeader]),
		Footer:                 strings.TrimSpace(v.Strings[KeyFooter]),
		EMRSummary:             strings.TrimSpace(v.Strings[KeyEMRSummary]),
		Format:                 format,
		IncludeClinicalContext: v.Bools[KeyIncludeContext],
	}
	return req, nil
}

// bindFindings collects one finding per region that has text, a phrase or
// the structured template. Regions left blank are skipped.
func bindFindings(v *Values, study model.StudyInfo) []model.Finding {
	if study.FreeForm || len(study.Regions) == 0 {
		text := strings.TrimSpace(v.Strings[FindingKey(0, "text")])
		if text == "" {
			return nil
		}
		return []model.Finding{{Text: text}}
	}

	var findings []model.Finding
	for i, region := range study.Regions {
		f := model.Finding{
			Region: region,
			Text:   strings.TrimSpace(v.Strings[FindingKey(i, "text")]),
		}
		if phrase := v.str(FindingKey(i, "phrase")); phrase != "" && phrase != NoPhrase {
			key, level, _ := strings.Cut(phrase, "/")
			f.Phrase, f.Level = key, level
		}
		if v.Bools[FindingKey(i, "structured")] {
			f.Peripheral = &model.PeripheralFindings{
				JointSpace:  v.str(FindingKey(i, PartJointSpace)),
				Erosions:    v.str(FindingKey(i, PartErosions)),
				BoneDensity: v.str(FindingKey(i, PartBoneDensity)),
				Periosteal:  v.str(FindingKey(i, PartPeriosteal)),
				SoftTissue:  v.str(FindingKey(i, PartSoftTissue)),
				Osteophytes: v.str(FindingKey(i, PartOsteophytes)),
				Other:       v.str(FindingKey(i, PartOther)),
				Impression:  strings.TrimSpace(v.Strings[FindingKey(i, PartImpression)]),
			}
		}
		if f.Text == "" && f.Phrase == "" && f.Peripheral == nil {
			continue
		}
		findings = append(findings, f)
	}
	return findings
}

// imageRefs turns a comma-separated path list into image references.
func imageRefs(list string) []model.ImageRef {
	var refs []model.ImageRef
	for _, p := range splitList(list) {
		refs = append(refs, model.ImageRef{Filename: filepath.Base(p), Path: p})
	}
	return refs
}
