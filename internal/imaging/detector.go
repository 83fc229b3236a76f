package imaging

import (
	"context"
	"log/slog"
	"strings"

	"github.com/rheumaview/rheumaview/internal/model"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// RegionDetector proposes anatomical regions for a set of images.
// Implementations return region names from model.Regions, without
// duplicates, in the order of the images that suggested them.
type RegionDetector interface {
	Detect(ctx context.Context, images []model.ImageRef) ([]string, error)
}

// NoopDetector never proposes a region.
type NoopDetector struct{}

// Detect returns no regions.
func (NoopDetector) Detect(context.Context, []model.ImageRef) ([]string, error) {
	return nil, nil
}

// bodyParts maps DICOM Body Part Examined defined terms, upper-cased with
// spaces and underscores removed, onto the region vocabulary.
var bodyParts = map[string]string{
	"CSPINE":        model.RegionCervicalSpine,
	"CERVICALSPINE": model.RegionCervicalSpine,
	"NECK":          model.RegionCervicalSpine,
	"TSPINE":        model.RegionThoracicSpine,
	"THORACICSPINE": model.RegionThoracicSpine,
	"LSPINE":        model.RegionLumbarSpine,
	"LUMBARSPINE":   model.RegionLumbarSpine,
	"PELVIS":        model.RegionPelvisSI,
	"SACRUM":        model.RegionPelvisSI,
	"SSPINE":        model.RegionPelvisSI,
	"SIJ":           model.RegionPelvisSI,
	"SIJOINT":       model.RegionPelvisSI,
	"HIP":           model.RegionHip,
	"KNEE":          model.RegionKnee,
	"ANKLE":         model.RegionAnkle,
	"FOOT":          model.RegionFoot,
	"HAND":          model.RegionHand,
	"FINGER":        model.RegionHand,
	"WRIST":         model.RegionWrist,
	"ELBOW":         model.RegionElbow,
	"SHOULDER":      model.RegionShoulder,
}

// RegionForBodyPart maps a Body Part Examined value onto the region
// vocabulary. The second result is false for unmapped values.
func RegionForBodyPart(value string) (string, bool) {
	key := strings.ToUpper(strings.TrimSpace(value))
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	region, ok := bodyParts[key]
	return region, ok
}

// DICOMDetector proposes regions from the Body Part Examined attribute of
// .dcm images. Other images and unreadable files are skipped.
type DICOMDetector struct {
	logger *slog.Logger
}

// NewDICOMDetector creates a DICOMDetector. A nil logger means
// slog.Default().
func NewDICOMDetector(logger *slog.Logger) *DICOMDetector {
	if logger == nil {
		logger = slog.Default()
	}
	return &DICOMDetector{logger: logger}
}

// Detect reads every DICOM image with a path and collects the mapped
// regions. It returns an error only when ctx is cancelled.
func (d *DICOMDetector) Detect(ctx context.Context, images []model.ImageRef) ([]string, error) {
	var regions []string
	seen := make(map[string]bool)

	for _, img := range images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if img.Path == "" || !img.IsDICOM() {
			continue
		}

		value, err := readString(img.Path, tag.BodyPartExamined)
		if err != nil {
			d.logger.Debug("skipping image for region detection", "image", img.Name(), "error", err)
			continue
		}
		region, ok := RegionForBodyPart(value)
		if !ok {
			d.logger.Debug("unmapped body part", "image", img.Name(), "body_part", value)
			continue
		}
		if !seen[region] {
			seen[region] = true
			regions = append(regions, region)
		}
	}
	return regions, nil
}

// readString parses the file without pixel data and returns the first
// string value of t.
func readString(path string, t tag.Tag) (string, error) {
	ds, err := dicom.ParseFile(path, nil, dicom.SkipPixelData())
	if err != nil {
		return "", err
	}
	elem, err := ds.FindElementByTag(t)
	if err != nil {
		return "", err
	}
	if values, ok := elem.Value.GetValue().([]string); ok && len(values) > 0 {
		return strings.TrimSpace(values[0]), nil
	}
	return strings.Trim(elem.Value.String(), " []"), nil
}
