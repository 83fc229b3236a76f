package imaging

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	exif "github.com/dsoprea/go-exif/v3"
	"github.com/rheumaview/rheumaview/internal/model"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// ErrNoHint is returned when an image carries no usable date.
var ErrNoHint = errors.New("no date found in image metadata")

// Date layouts found in image metadata.
const (
	dicomDateLayout = "20060102"
	exifDateLayout  = "2006:01:02 15:04:05"
)

// exifDateTags are tried in order.
var exifDateTags = []string{"DateTimeOriginal", "DateTimeDigitized", "DateTime"}

// StudyDateHint returns the acquisition date of ref as YYYY-MM-DD, read from
// the DICOM Study Date or the EXIF DateTimeOriginal tag.
func StudyDateHint(ref model.ImageRef) (string, error) {
	if ref.Path == "" {
		return "", fmt.Errorf("%w: %s has no path", ErrNoHint, ref.Name())
	}
	if ref.IsDICOM() {
		return dicomStudyDate(ref.Path)
	}
	return exifDate(ref.Path)
}

func dicomStudyDate(path string) (string, error) {
	value, err := readString(path, tag.StudyDate)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoHint, err)
	}
	t, err := time.Parse(dicomDateLayout, value)
	if err != nil {
		return "", fmt.Errorf("%w: study date %q: %v", ErrNoHint, value, err)
	}
	return t.Format(time.DateOnly), nil
}

func exifDate(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoHint, err)
	}
	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoHint, err)
	}

	values := make(map[string]string, len(entries))
	for _, entry := range entries {
		if _, ok := values[entry.TagName]; !ok {
			values[entry.TagName] = entry.Formatted
		}
	}
	for _, name := range exifDateTags {
		if date, ok := ParseEXIFDate(values[name]); ok {
			return date, nil
		}
	}
	return "", ErrNoHint
}

// ParseEXIFDate converts an EXIF timestamp ("2006:01:02 15:04:05") into
// YYYY-MM-DD.
func ParseEXIFDate(value string) (string, bool) {
	value = strings.TrimRight(strings.TrimSpace(value), "\x00")
	if value == "" {
		return "", false
	}
	t, err := time.Parse(exifDateLayout, value)
	if err != nil {
		return "", false
	}
	return t.Format(time.DateOnly), true
}
