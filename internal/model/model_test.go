package model

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestParseExportFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    ExportFormat
		wantErr bool
	}{
		{"text", FormatText, false},
		{"txt", FormatText, false},
		{"", FormatText, false},
		{" PDF ", FormatPDF, false},
		{"docx", FormatDOCX, false},
		{"Word", FormatDOCX, false},
		{"md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"json", FormatJSON, false},
		{"rtf", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseExportFormat(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseExportFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExportFormatExtensionAndMIME(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format ExportFormat
		ext    string
		mime   string
	}{
		{FormatText, "txt", MIMEText},
		{FormatPDF, "pdf", MIMEPDF},
		{FormatDOCX, "docx", MIMEDOCX},
		{FormatMarkdown, "md", MIMEMarkdown},
		{FormatJSON, "json", MIMEJSON},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()
			if got := tt.format.Extension(); got != tt.ext {
				t.Errorf("Extension() = %q, want %q", got, tt.ext)
			}
			if got := tt.format.MIMEType(); got != tt.mime {
				t.Errorf("MIMEType() = %q, want %q", got, tt.mime)
			}
		})
	}
}

func TestParseSex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Sex
		wantErr bool
	}{
		{"Female", SexFemale, false},
		{"f", SexFemale, false},
		{"MALE", SexMale, false},
		{"Other / Intersex", SexOther, false},
		{"o", SexOther, false},
		{"unknown", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseSex(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSex(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseSex(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if !tt.wantErr && !got.Valid() {
				t.Errorf("%q should be valid", got)
			}
		})
	}

	if Sex("F").Valid() {
		t.Error("short codes are not canonical values")
	}
}

func TestAgeString(t *testing.T) {
	t.Parallel()

	if got := UnknownAge.String(); got != "unknown" {
		t.Errorf("UnknownAge.String() = %q", got)
	}
	if got := (Age{Years: 34, Known: true, Source: AgeFromDOB}).String(); got != "34" {
		t.Errorf("Age.String() = %q, want 34", got)
	}
	if got := (Age{Known: true, Source: AgeEntered}).String(); got != "0" {
		t.Errorf("a known age of zero must print 0, got %q", got)
	}
}

func TestErrors(t *testing.T) {
	t.Parallel()

	t.Run("validation error", func(t *testing.T) {
		t.Parallel()

		err := error(NewValidationError("study.date", "study date is required"))
		if !errors.Is(err, ErrValidation) {
			t.Error("expected errors.Is(err, ErrValidation)")
		}
		if errors.Is(err, ErrEncoding) || errors.Is(err, ErrIO) {
			t.Error("validation error must match only ErrValidation")
		}
		if err.Error() != "study.date: study date is required" {
			t.Errorf("unexpected message %q", err.Error())
		}
		if got := NewValidationError("", ReasonNoRegions).Error(); got != ReasonNoRegions {
			t.Errorf("field-less message = %q, want %q", got, ReasonNoRegions)
		}

		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Field != "study.date" {
			t.Errorf("expected errors.As to expose the field, got %+v", ve)
		}
	})

	t.Run("encoding error", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("glyph missing")
		err := error(&EncodingError{Format: FormatPDF, Field: "Hand", Reason: "unsupported character", Err: cause})
		if !errors.Is(err, ErrEncoding) {
			t.Error("expected errors.Is(err, ErrEncoding)")
		}
		if !errors.Is(err, cause) {
			t.Error("expected the cause to be unwrapped")
		}
		if !strings.Contains(err.Error(), "cannot encode Hand as pdf") {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("io error", func(t *testing.T) {
		t.Parallel()

		err := error(&IOError{Path: "out/report.pdf", Err: os.ErrPermission})
		if !errors.Is(err, ErrIO) {
			t.Error("expected errors.Is(err, ErrIO)")
		}
		if !errors.Is(err, os.ErrPermission) {
			t.Error("expected the filesystem error to be unwrapped")
		}
		if !strings.Contains(err.Error(), "out/report.pdf") {
			t.Errorf("expected the path in %q", err.Error())
		}
	})
}

func TestVocabulary(t *testing.T) {
	t.Parallel()

	if !IsRegion(RegionPelvisSI) {
		t.Errorf("%q should be a region", RegionPelvisSI)
	}
	if IsRegion("pelvis / si joints") {
		t.Error("region matching is exact")
	}
	if len(Regions) != 14 {
		t.Errorf("expected 14 regions, got %d", len(Regions))
	}

	for _, name := range []string{"hand.JPG", "scan.dcm", "x.tiff", "photo.heic"} {
		if !IsImageExtension(name) {
			t.Errorf("%q should be accepted", name)
		}
	}
	for _, name := range []string{"notes.pdf", "archive.zip", "noext"} {
		if IsImageExtension(name) {
			t.Errorf("%q should be rejected", name)
		}
	}
}

func TestImageRef(t *testing.T) {
	t.Parallel()

	if got := (ImageRef{Path: "/studies/2025/pelvis.DCM"}).Name(); got != "pelvis.DCM" {
		t.Errorf("Name() = %q, want base of path", got)
	}
	if got := (ImageRef{Filename: "hand.jpg", Path: "/x/other.jpg"}).Name(); got != "hand.jpg" {
		t.Errorf("Name() = %q, want the filename", got)
	}
	if (ImageRef{}).Name() != "" {
		t.Error("empty ref has no name")
	}
	if !(ImageRef{Path: "/studies/2025/pelvis.DCM"}).IsDICOM() {
		t.Error("expected .DCM to be DICOM")
	}
	if (ImageRef{Filename: "hand.jpg"}).IsDICOM() {
		t.Error("a JPEG is not DICOM")
	}
}

func TestComposedReport(t *testing.T) {
	t.Parallel()

	r := &ComposedReport{
		Sections: []Section{
			{Kind: SectionHeader, Lines: []string{"University Hospital"}},
			{Kind: SectionIdentity, Title: "RheumaView Structured Report"},
			{Kind: SectionFinding, Title: "Hand", Lines: []string{"Erosion."}},
			{Kind: SectionFinding, Title: "Knee", Lines: []string{"Effusion."}},
			{Kind: SectionFooter, Lines: []string{"Signed."}},
		},
	}

	titles := r.SectionTitles()
	want := []string{"RheumaView Structured Report", "Hand", "Knee"}
	if strings.Join(titles, "|") != strings.Join(want, "|") {
		t.Errorf("SectionTitles() = %v, want %v", titles, want)
	}

	findings := r.SectionsOf(SectionFinding)
	if len(findings) != 2 || findings[0].Title != "Hand" || findings[1].Title != "Knee" {
		t.Errorf("SectionsOf(SectionFinding) = %+v", findings)
	}
	if got := r.SectionsOf(SectionEMRSummary); got != nil {
		t.Errorf("expected no EMR summary, got %+v", got)
	}

	var nilArtifact *Artifact
	if nilArtifact.Size() != 0 {
		t.Error("nil artifact has size 0")
	}

	data, err := json.Marshal(r.Sections[2])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"kind":"finding"`) {
		t.Errorf("expected section kind by name, got %s", data)
	}
}

func TestJob(t *testing.T) {
	t.Parallel()

	job := NewJob("requests/hand.yaml", nil)
	if job.Failed() {
		t.Error("new job must not be failed")
	}
	if job.PerformedSteps == nil || len(job.PerformedSteps) != 0 {
		t.Errorf("expected empty performed steps, got %v", job.PerformedSteps)
	}
	if job.StartedAt.IsZero() {
		t.Error("expected StartedAt to be set")
	}

	job.Error = NewValidationError("", ReasonNoImages)
	if !job.Failed() {
		t.Error("job with an error must be failed")
	}
}
