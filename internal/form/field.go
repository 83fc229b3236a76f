package form

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Kind is the widget type of a field.
type Kind int

const (
	// KindInput is a single-line text input.
	KindInput Kind = iota
	// KindText is a multi-line text area.
	KindText
	// KindDate is a single-line YYYY-MM-DD input.
	KindDate
	// KindInteger is a single-line whole-number input bounded by Min and Max.
	KindInteger
	// KindSelect picks one of Options.
	KindSelect
	// KindMultiSelect picks any number of Options, in selection order.
	KindMultiSelect
	// KindConfirm is a yes/no toggle.
	KindConfirm
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindText:
		return "text"
	case KindDate:
		return "date"
	case KindInteger:
		return "integer"
	case KindSelect:
		return "select"
	case KindMultiSelect:
		return "multiselect"
	case KindConfirm:
		return "confirm"
	default:
		return "unknown"
	}
}

// Field describes one form input.
type Field struct {
	// Key identifies the value in Values, e.g. "patient.dob".
	Key string

	// Label is the prompt shown to the practitioner.
	Label string

	// Help is shown under the label.
	Help string

	Kind Kind

	// Required rejects empty values. A required Confirm must be answered yes.
	Required bool

	// Options lists the choices of Select and MultiSelect fields.
	Options []string

	// Min and Max bound Integer fields.
	Min, Max int

	// Pattern, when set, must match non-empty Input values.
	Pattern string

	// Default pre-fills the field. MultiSelect defaults are comma-separated
	// and Confirm defaults are "true" or "false".
	Default string
}

// ErrRequired is the reason given for a missing required value.
var ErrRequired = errors.New("this field is required")

// Check validates one value of the field. It is the single validation
// routine shared by the renderer and Bind.
func (f Field) Check(value string) error {
	value = strings.TrimSpace(value)

	if f.Kind == KindConfirm {
		if f.Required && value != "true" {
			return errors.New("must be confirmed")
		}
		return nil
	}

	if value == "" {
		if f.Required {
			return ErrRequired
		}
		return nil
	}

	switch f.Kind {
	case KindDate:
		if _, err := time.Parse(time.DateOnly, value); err != nil {
			return errors.New("must be a date in YYYY-MM-DD format")
		}
	case KindInteger:
		n, err := strconv.Atoi(value)
		if err != nil {
			return errors.New("must be a whole number")
		}
		if n < f.Min || n > f.Max {
			return fmt.Errorf("must be between %d and %d", f.Min, f.Max)
		}
	case KindSelect:
		if !slices.Contains(f.Options, value) {
			return fmt.Errorf("must be one of %s", strings.Join(f.Options, ", "))
		}
	}

	if f.Pattern != "" && (f.Kind == KindInput || f.Kind == KindText) {
		re, err := regexp.Compile(f.Pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern for %s: %w", f.Key, err)
		}
		if !re.MatchString(value) {
			return fmt.Errorf("does not match %s", f.Pattern)
		}
	}
	return nil
}

// CheckList validates the selection of a MultiSelect field.
func (f Field) CheckList(values []string) error {
	if len(values) == 0 {
		if f.Required {
			return ErrRequired
		}
		return nil
	}
	for _, v := range values {
		if !slices.Contains(f.Options, v) {
			return fmt.Errorf("%q is not one of %s", v, strings.Join(f.Options, ", "))
		}
	}
	return nil
}
