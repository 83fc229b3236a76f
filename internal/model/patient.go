package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Sex is the patient's sex at birth as recorded on the request form.
type Sex string

const (
	// SexFemale is the "Female" option.
	SexFemale Sex = "Female"
	// SexMale is the "Male" option.
	SexMale Sex = "Male"
	// SexOther covers "Other / Intersex".
	SexOther Sex = "Other"
)

// Sexes lists the selectable values in display order.
var Sexes = []Sex{SexFemale, SexMale, SexOther}

// sexAliases maps lower-cased form inputs onto the canonical values.
var sexAliases = map[string]Sex{
	"female":           SexFemale,
	"f":                SexFemale,
	"male":             SexMale,
	"m":                SexMale,
	"other":            SexOther,
	"o":                SexOther,
	"other / intersex": SexOther,
	"intersex":         SexOther,
}

// ParseSex resolves a form value (case-insensitive, including the short
// DICOM-style codes) into a Sex.
func ParseSex(s string) (Sex, error) {
	if sex, ok := sexAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return sex, nil
	}
	return "", fmt.Errorf("unknown sex %q: expected one of Female, Male, Other", s)
}

// Valid reports whether s is one of the canonical values.
func (s Sex) Valid() bool {
	for _, v := range Sexes {
		if s == v {
			return true
		}
	}
	return false
}

// String returns the display form.
func (s Sex) String() string {
	return string(s)
}

// MaxAge is the largest age the form accepts.
const MaxAge = 120

// PatientInfo holds the demographics block of the request form.
// Every field except Sex is optional.
type PatientInfo struct {
	// Name is the patient name or an arbitrary identifier.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// MRN is the medical record number.
	MRN string `yaml:"mrn,omitempty" json:"mrn,omitempty"`

	// DOB is the date of birth as typed, expected as YYYY-MM-DD.
	// It is deliberately a string: a malformed value must degrade to an
	// unknown age rather than fail decoding.
	DOB string `yaml:"dob,omitempty" json:"dob,omitempty"`

	// Age is the manually entered age in whole years. It is used only when
	// DOB is absent or unparsable.
	Age *int `yaml:"age,omitempty" json:"age,omitempty"`

	// Sex is the sex at birth.
	Sex Sex `yaml:"sex" json:"sex"`
}

// AgeSource tells where a derived Age came from.
type AgeSource string

const (
	// AgeFromDOB means the age was computed from the date of birth.
	AgeFromDOB AgeSource = "dob"
	// AgeEntered means the manually entered age was used.
	AgeEntered AgeSource = "entered"
	// AgeUnknown means no usable age was available.
	AgeUnknown AgeSource = "unknown"
)

// Age is the patient age resolved for one report.
type Age struct {
	Years  int       `json:"years"`
	Known  bool      `json:"known"`
	Source AgeSource `json:"source"`
}

// UnknownAge is the zero-information age.
var UnknownAge = Age{Source: AgeUnknown}

// String renders the age as printed in reports and filenames.
func (a Age) String() string {
	if !a.Known {
		return "unknown"
	}
	return strconv.Itoa(a.Years)
}
