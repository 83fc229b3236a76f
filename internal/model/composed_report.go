package model

// SectionKind identifies the role of a section in the fixed document order.
type SectionKind int

const (
	// SectionHeader is the optional custom header.
	SectionHeader SectionKind = iota
	// SectionIdentity is the title and patient/study identity block.
	SectionIdentity
	// SectionClinicalContext is the optional clinical context block.
	SectionClinicalContext
	// SectionFinding is one region's findings.
	SectionFinding
	// SectionIntervalComparison lists the prior studies.
	SectionIntervalComparison
	// SectionEMRSummary is the optional EMR-ready summary.
	SectionEMRSummary
	// SectionFooter is the optional custom footer.
	SectionFooter
)

// String returns a stable name for logs and JSON output.
func (k SectionKind) String() string {
	switch k {
	case SectionHeader:
		return "header"
	case SectionIdentity:
		return "identity"
	case SectionClinicalContext:
		return "clinical_context"
	case SectionFinding:
		return "finding"
	case SectionIntervalComparison:
		return "interval_comparison"
	case SectionEMRSummary:
		return "emr_summary"
	case SectionFooter:
		return "footer"
	default:
		return "unknown"
	}
}

// MarshalText lets SectionKind appear by name in JSON.
func (k SectionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Section is one titled block of the document.
// Title may be empty for the header and footer blocks.
type Section struct {
	Kind  SectionKind `json:"kind"`
	Title string      `json:"title,omitempty"`
	Lines []string    `json:"lines"`
}

// Artifact is the serialized document handed back to the caller.
type Artifact struct {
	Data     []byte       `json:"-"`
	Filename string       `json:"filename"`
	MIMEType string       `json:"mime_type"`
	Format   ExportFormat `json:"format"`
}

// Size returns the artifact length in bytes.
func (a *Artifact) Size() int {
	if a == nil {
		return 0
	}
	return len(a.Data)
}

// ComposedReport is the builder's result: the ordered sections, the
// resolved demographic values and the encoded artifact.
type ComposedReport struct {
	// Title is the document title shown in the identity block.
	Title string `json:"title"`

	// StudyDate is the validated study date (YYYY-MM-DD).
	StudyDate string `json:"study_date"`

	// Sex and Age are the resolved demographics used for the filename.
	Sex Sex `json:"sex"`
	Age Age `json:"age"`

	// Sections are in document order.
	Sections []Section `json:"sections"`

	// Warnings are recoverable conditions met while composing, such as
	// an unparsable date of birth.
	Warnings []string `json:"warnings,omitempty"`

	// Artifact is nil until the report has been encoded.
	Artifact *Artifact `json:"-"`
}

// SectionTitles returns the non-empty section titles in order.
func (r *ComposedReport) SectionTitles() []string {
	titles := make([]string, 0, len(r.Sections))
	for _, s := range r.Sections {
		if s.Title != "" {
			titles = append(titles, s.Title)
		}
	}
	return titles
}

// SectionsOf returns the sections of the given kind, in order.
func (r *ComposedReport) SectionsOf(kind SectionKind) []Section {
	var out []Section
	for _, s := range r.Sections {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}
