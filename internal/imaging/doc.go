// Package imaging holds the optional capabilities that look at uploaded
// image files. None of them is required to compose a report.
//
// RegionDetector proposes anatomical regions for a set of images.
// NoopDetector proposes nothing; DICOMDetector reads the Body Part Examined
// attribute of DICOM files and maps it onto the region vocabulary.
// StudyDateHint reads the acquisition date from DICOM or EXIF metadata so
// that intake can fill an omitted study date.
//
// Nothing here interprets pixel data.
package imaging
