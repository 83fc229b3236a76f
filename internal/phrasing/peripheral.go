package phrasing

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rheumaview/rheumaview/internal/model"
)

// PeripheralTemplate describes the structured plain-radiograph template
// for peripheral joints.
type PeripheralTemplate struct {
	// Regions are the regions the template is offered for.
	Regions []string `yaml:"regions"`

	// Option lists for the select fields.
	BoneDensity []string `yaml:"bone_density"`
	Periosteal  []string `yaml:"periosteal_reaction"`
	Osteophytes []string `yaml:"osteophytes"`

	// Impression is the default impression text.
	Impression string `yaml:"impression"`
}

// AppliesTo reports whether the template is offered for region.
func (t PeripheralTemplate) AppliesTo(region string) bool {
	return slices.Contains(t.Regions, region)
}

// Defaults returns a block with the first option of every select field and
// the default impression.
func (t PeripheralTemplate) Defaults() model.PeripheralFindings {
	return model.PeripheralFindings{
		BoneDensity: first(t.BoneDensity),
		Periosteal:  first(t.Periosteal),
		Osteophytes: first(t.Osteophytes),
		Impression:  t.Impression,
	}
}

// Validate checks the select fields against their option lists.
// Empty values are allowed and render as blank.
func (t PeripheralTemplate) Validate(p model.PeripheralFindings) error {
	checks := []struct {
		label   string
		value   string
		options []string
	}{
		{"bone density", p.BoneDensity, t.BoneDensity},
		{"periosteal reaction", p.Periosteal, t.Periosteal},
		{"osteophytes", p.Osteophytes, t.Osteophytes},
	}
	for _, c := range checks {
		if c.value == "" || slices.Contains(c.options, c.value) {
			continue
		}
		return fmt.Errorf("%w: %s %q (expected one of %s)",
			ErrInvalidOption, c.label, c.value, strings.Join(c.options, ", "))
	}
	return nil
}

// Render formats the block as labelled lines in template order. An empty
// impression is replaced by the template's default.
func (t PeripheralTemplate) Render(p model.PeripheralFindings) string {
	impression := strings.TrimSpace(p.Impression)
	if impression == "" {
		impression = t.Impression
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Joint space narrowing: %s\n", strings.TrimSpace(p.JointSpace))
	fmt.Fprintf(&b, "Erosions: %s\n", strings.TrimSpace(p.Erosions))
	fmt.Fprintf(&b, "Bone density: %s\n", p.BoneDensity)
	fmt.Fprintf(&b, "Periosteal reaction: %s\n", p.Periosteal)
	fmt.Fprintf(&b, "Soft tissue: %s\n", strings.TrimSpace(p.SoftTissue))
	fmt.Fprintf(&b, "Osteophytes: %s\n", p.Osteophytes)
	fmt.Fprintf(&b, "Other: %s\n", strings.TrimSpace(p.Other))
	fmt.Fprintf(&b, "Impression: %s", impression)
	return b.String()
}

func first(options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[0]
}
