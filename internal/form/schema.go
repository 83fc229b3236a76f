package form

import (
	"fmt"
	"strconv"

	"github.com/rheumaview/rheumaview/internal/compose"
	"github.com/rheumaview/rheumaview/internal/model"
	"github.com/rheumaview/rheumaview/internal/phrasing"
)

// Keys of the static request form.
const (
	KeyPatientName     = "patient.name"
	KeyPatientMRN      = "patient.mrn"
	KeyPatientDOB      = "patient.dob"
	KeyPatientAge      = "patient.age"
	KeyPatientSex      = "patient.sex"
	KeyStudyDate       = "study.date"
	KeyStudyImages     = "study.images"
	KeyStudyFreeForm   = "study.free_form"
	KeyStudyRegions    = "study.regions"
	KeyClinicalContext = "study.clinical_context"
	KeyPriorCount      = "priors.count"
	KeyTitle           = "options.title"
	KeyHeader          = "options.header"
	KeyFooter          = "options.footer"
	KeyEMRSummary      = "options.emr_summary"
	KeyIncludeContext  = "options.include_clinical_context"
	KeyFormat          = "options.format"
	KeyReady           = "ready"
)

// NoPhrase is the phrase option meaning "type the findings yourself".
const NoPhrase = "none"

// Schema returns the static first stage of the request form.
func Schema() []Field {
	sexes := make([]string, 0, len(model.Sexes))
	for _, s := range model.Sexes {
		sexes = append(sexes, s.String())
	}
	formats := make([]string, 0, len(model.ExportFormats))
	for _, f := range model.ExportFormats {
		formats = append(formats, string(f))
	}

	return []Field{
		{Key: KeyPatientName, Label: "Patient Name / ID", Kind: KindInput},
		{Key: KeyPatientMRN, Label: "MRN", Kind: KindInput},
		{Key: KeyPatientDOB, Label: "Date of Birth", Help: "YYYY-MM-DD; anything else falls back to the age below", Kind: KindInput},
		{Key: KeyPatientAge, Label: "Age", Help: "Used when no date of birth is given", Kind: KindInteger, Max: model.MaxAge},
		{Key: KeyPatientSex, Label: "Sex", Kind: KindSelect, Required: true, Options: sexes, Default: model.SexFemale.String()},
		{Key: KeyStudyDate, Label: "Date of Current Study", Help: "YYYY-MM-DD", Kind: KindDate, Required: true},
		{Key: KeyStudyImages, Label: "Current Study Images", Help: "Comma-separated file paths", Kind: KindInput, Required: true},
		{Key: KeyStudyFreeForm, Label: "Enter findings without region selection?", Kind: KindConfirm, Default: "false"},
		{Key: KeyStudyRegions, Label: "Anatomical Regions", Help: "Ignored in free-form mode", Kind: KindMultiSelect, Options: model.Regions},
		{Key: KeyClinicalContext, Label: "Clinical Context", Kind: KindText},
		{Key: KeyIncludeContext, Label: "Include clinical context in the report?", Kind: KindConfirm, Default: "false"},
		{Key: KeyPriorCount, Label: "Number of Prior Studies", Kind: KindInteger, Max: compose.DefaultMaxPriors, Default: "0"},
		{Key: KeyTitle, Label: "Report Title", Kind: KindInput, Default: model.DefaultTitle},
		{Key: KeyHeader, Label: "Custom Header", Kind: KindText},
		{Key: KeyFooter, Label: "Custom Footer", Kind: KindText},
		{Key: KeyEMRSummary, Label: "EMR Summary", Kind: KindText},
		{Key: KeyFormat, Label: "Export Format", Kind: KindSelect, Required: true, Options: formats, Default: string(model.FormatDOCX)},
	}
}

// FindingKey returns the key of part of the i-th finding.
func FindingKey(i int, part string) string {
	return "findings." + strconv.Itoa(i) + "." + part
}

// PriorKey returns the key of part of the i-th prior study.
func PriorKey(i int, part string) string {
	return "priors." + strconv.Itoa(i) + "." + part
}

// FindingFields returns the findings stage for the selected regions. With
// no regions it returns the single free-form findings area.
//
// Regions with graded phrasing get a phrase selector; regions covered by the
// peripheral template get a toggle for the structured template.
func FindingFields(regions []string, lib *phrasing.Library) []Field {
	if len(regions) == 0 {
		return []Field{{Key: FindingKey(0, "text"), Label: model.FreeFormRegion, Kind: KindText, Required: true}}
	}

	var fields []Field
	for i, region := range regions {
		var phrases []phrasing.Phrase
		structured := false
		if lib != nil {
			phrases = lib.ForRegion(region)
			structured = lib.Peripheral.AppliesTo(region)
		}

		if len(phrases) > 0 {
			options := []string{NoPhrase}
			for _, p := range phrases {
				for _, level := range p.LevelNames() {
					options = append(options, p.Key+"/"+level)
				}
			}
			fields = append(fields, Field{
				Key:     FindingKey(i, "phrase"),
				Label:   region + ": Suggested Phrasing",
				Help:    "Used when the findings below are left empty",
				Kind:    KindSelect,
				Options: options,
				Default: NoPhrase,
			})
		}
		if structured {
			fields = append(fields, Field{
				Key:     FindingKey(i, "structured"),
				Label:   region + ": Use the structured peripheral joint template?",
				Kind:    KindConfirm,
				Default: "false",
			})
		}
		fields = append(fields, Field{
			Key:   FindingKey(i, "text"),
			Label: region,
			Help:  "Findings for this region; leave empty to skip it",
			Kind:  KindText,
		})
	}
	return fields
}

// Peripheral template parts, used as the last component of finding keys.
const (
	PartJointSpace  = "joint_space"
	PartErosions    = "erosions"
	PartBoneDensity = "bone_density"
	PartPeriosteal  = "periosteal_reaction"
	PartSoftTissue  = "soft_tissue"
	PartOsteophytes = "osteophytes"
	PartOther       = "other"
	PartImpression  = "impression"
)

// PeripheralFields returns the structured template for the i-th finding.
func PeripheralFields(i int, region string, tmpl phrasing.PeripheralTemplate) []Field {
	defaults := tmpl.Defaults()
	return []Field{
		{Key: FindingKey(i, PartJointSpace), Label: region + ": Joint space narrowing", Help: "Symmetry and location", Kind: KindInput},
		{Key: FindingKey(i, PartErosions), Label: region + ": Erosions", Help: "Present/absent, location, character", Kind: KindInput},
		{Key: FindingKey(i, PartBoneDensity), Label: region + ": Bone density", Kind: KindSelect, Options: tmpl.BoneDensity, Default: defaults.BoneDensity},
		{Key: FindingKey(i, PartPeriosteal), Label: region + ": Periosteal reaction", Kind: KindSelect, Options: tmpl.Periosteal, Default: defaults.Periosteal},
		{Key: FindingKey(i, PartSoftTissue), Label: region + ": Soft tissue", Help: "Swelling, masses, calcifications", Kind: KindInput},
		{Key: FindingKey(i, PartOsteophytes), Label: region + ": Osteophytes", Kind: KindSelect, Options: tmpl.Osteophytes, Default: defaults.Osteophytes},
		{Key: FindingKey(i, PartOther), Label: region + ": Other findings", Help: "Ankylosis, subluxation, etc.", Kind: KindInput},
		{Key: FindingKey(i, PartImpression), Label: region + ": Impression", Kind: KindText, Default: defaults.Impression},
	}
}

// PriorFields returns the fields of n prior studies.
func PriorFields(n int) []Field {
	fields := make([]Field, 0, 3*n)
	for i := 0; i < n; i++ {
		label := fmt.Sprintf("Prior %d", i+1)
		fields = append(fields,
			Field{Key: PriorKey(i, "label"), Label: label + ": Label", Help: fmt.Sprintf("Defaults to Prior_%d", i+1), Kind: KindInput},
			Field{Key: PriorKey(i, "date"), Label: label + ": Date", Help: "Free text, a year is enough", Kind: KindInput},
			Field{Key: PriorKey(i, "images"), Label: label + ": Images", Help: "Comma-separated file paths", Kind: KindInput, Required: true},
		)
	}
	return fields
}

// ConfirmFields returns the final readiness confirmation.
func ConfirmFields() []Field {
	return []Field{{
		Key:      KeyReady,
		Label:    "Confirm all data is ready for report generation",
		Kind:     KindConfirm,
		Required: true,
		Default:  "false",
	}}
}
