package model

import (
	"path/filepath"
	"strings"
)

// Region names of the controlled anatomical vocabulary.
const (
	RegionMultiple      = "Multiple Regions"
	RegionCervicalSpine = "Cervical Spine"
	RegionThoracicSpine = "Thoracic Spine"
	RegionLumbarSpine   = "Lumbar Spine"
	RegionPelvisSI      = "Pelvis / SI joints"
	RegionHip           = "Hip"
	RegionKnee          = "Knee"
	RegionAnkle         = "Ankle"
	RegionFoot          = "Foot"
	RegionHand          = "Hand"
	RegionWrist         = "Wrist"
	RegionElbow         = "Elbow"
	RegionShoulder      = "Shoulder"
	RegionOther         = "Other Regions"
)

// Regions is the controlled vocabulary offered by the region selector,
// in display order.
var Regions = []string{
	RegionMultiple,
	RegionCervicalSpine,
	RegionThoracicSpine,
	RegionLumbarSpine,
	RegionPelvisSI,
	RegionHip,
	RegionKnee,
	RegionAnkle,
	RegionFoot,
	RegionHand,
	RegionWrist,
	RegionElbow,
	RegionShoulder,
	RegionOther,
}

// FreeFormRegion is the section title used for findings entered in
// free-form mode, where region selection is bypassed.
const FreeFormRegion = "Findings"

// IsRegion reports whether name belongs to the region vocabulary.
func IsRegion(name string) bool {
	for _, r := range Regions {
		if r == name {
			return true
		}
	}
	return false
}

// ImageExtensions is the set of accepted upload extensions (lower case,
// without the dot).
var ImageExtensions = []string{"jpg", "jpeg", "png", "webp", "bmp", "tif", "tiff", "heic", "dcm"}

// IsImageExtension reports whether filename carries an accepted extension.
func IsImageExtension(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	for _, e := range ImageExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// ImageRef is an opaque handle to one uploaded image.
// The builder only ever reads Filename; Path is used by the optional
// imaging helpers outside the builder.
type ImageRef struct {
	Filename string `yaml:"filename,omitempty" json:"filename"`
	Path     string `yaml:"path,omitempty" json:"-"`
}

// Name returns Filename, falling back to the base name of Path.
func (r ImageRef) Name() string {
	if r.Filename != "" {
		return r.Filename
	}
	if r.Path != "" {
		return filepath.Base(r.Path)
	}
	return ""
}

// IsDICOM reports whether the reference points at a .dcm file.
func (r ImageRef) IsDICOM() bool {
	return strings.EqualFold(filepath.Ext(r.Name()), ".dcm")
}

// StudyInfo describes the current imaging study.
type StudyInfo struct {
	// Date is the study date as YYYY-MM-DD.
	Date string `yaml:"date" json:"date"`

	// Images are the uploaded current images.
	Images []ImageRef `yaml:"images" json:"images"`

	// Regions are the selected anatomical regions in selection order.
	Regions []string `yaml:"regions,omitempty" json:"regions,omitempty"`

	// FreeForm bypasses region selection; findings are then not tied
	// to the vocabulary.
	FreeForm bool `yaml:"free_form,omitempty" json:"free_form,omitempty"`

	// ClinicalContext is free text shown in the report only when
	// ReportOptions.IncludeClinicalContext is set.
	ClinicalContext string `yaml:"clinical_context,omitempty" json:"clinical_context,omitempty"`
}

// PriorStudy is one earlier study used for interval comparison.
type PriorStudy struct {
	// Label identifies the prior study; empty labels become "Prior_<n>".
	Label string `yaml:"label,omitempty" json:"label,omitempty"`

	// Images are the prior study's image references.
	Images []ImageRef `yaml:"images" json:"images"`

	// Date is free text (a full date or a year only) and is not validated.
	Date string `yaml:"date,omitempty" json:"date,omitempty"`
}

// Finding is the free-text findings body attributed to one region.
//
// A request may name a suggested phrase (Phrase and Level) or fill the
// structured Peripheral block instead of typing Text; intake expands both
// into Text before composition. The builder reads Region and Text only.
type Finding struct {
	Region string `yaml:"region" json:"region"`
	Text   string `yaml:"text,omitempty" json:"text,omitempty"`

	Phrase     string              `yaml:"phrase,omitempty" json:"phrase,omitempty"`
	Level      string              `yaml:"level,omitempty" json:"level,omitempty"`
	Peripheral *PeripheralFindings `yaml:"peripheral,omitempty" json:"peripheral,omitempty"`
}

// PeripheralFindings is the structured plain-radiograph template for
// peripheral joints.
type PeripheralFindings struct {
	JointSpace  string `yaml:"joint_space,omitempty" json:"joint_space,omitempty"`
	Erosions    string `yaml:"erosions,omitempty" json:"erosions,omitempty"`
	BoneDensity string `yaml:"bone_density,omitempty" json:"bone_density,omitempty"`
	Periosteal  string `yaml:"periosteal_reaction,omitempty" json:"periosteal_reaction,omitempty"`
	SoftTissue  string `yaml:"soft_tissue,omitempty" json:"soft_tissue,omitempty"`
	Osteophytes string `yaml:"osteophytes,omitempty" json:"osteophytes,omitempty"`
	Other       string `yaml:"other,omitempty" json:"other,omitempty"`
	Impression  string `yaml:"impression,omitempty" json:"impression,omitempty"`
}
