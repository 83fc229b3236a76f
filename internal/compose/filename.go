package compose

import (
	"strings"
	"unicode"

	"github.com/rheumaview/rheumaview/internal/model"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultFilenamePrefix starts every generated artifact name.
const DefaultFilenamePrefix = "rheumaview_structured_report"

// Filename builds "{prefix}_{studydate}_{sex}_{age}.{ext}".
// Every component is folded to ASCII and characters other than letters,
// digits, '-' and '.' are replaced with '_'.
func Filename(prefix string, report *model.ComposedReport, format model.ExportFormat) string {
	if prefix == "" {
		prefix = DefaultFilenamePrefix
	}
	parts := []string{
		SanitizeFilename(prefix),
		SanitizeFilename(report.StudyDate),
		SanitizeFilename(report.Sex.String()),
		SanitizeFilename(report.Age.String()),
	}
	return strings.Join(parts, "_") + "." + format.Extension()
}

// SanitizeFilename makes s safe for use as one filename component.
// Diacritics are removed ("Müller" becomes "Muller"); path separators,
// whitespace and any other character outside [A-Za-z0-9._-] become '_'.
// Leading dots are replaced so the result never names a hidden file.
func SanitizeFilename(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	for i, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == '.' && i > 0:
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "unknown"
	}
	return b.String()
}
