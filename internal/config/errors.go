package config

import "errors"

// Configuration validation errors returned by Config.Validate.
// Callers can use errors.Is to tell them apart.
var (
	// ErrNoRequest is returned when no request file is given and the
	// interactive form was not requested.
	ErrNoRequest = errors.New("no request specified: provide a request file or use --interactive")

	// ErrUnknownFormat is returned when the export format is not one of
	// text, pdf, docx, markdown or json (or an accepted alias).
	ErrUnknownFormat = errors.New("unknown export format: use text, pdf, docx, markdown or json")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidPageSize is returned for page sizes other than A4 and Letter.
	ErrInvalidPageSize = errors.New("invalid page size: use A4 or Letter")

	// ErrInvalidFontSize is returned when the font size is outside
	// MinFontSize..MaxFontSize.
	ErrInvalidFontSize = errors.New("invalid font size: must be between 6 and 24 points")

	// ErrStdoutMultiple is returned when --stdout is combined with more than
	// one request, which would concatenate documents.
	ErrStdoutMultiple = errors.New("--stdout accepts a single request only")

	// ErrUnknownProfile is returned when the selected profile is not defined
	// in the configuration file.
	ErrUnknownProfile = errors.New("profile not found in configuration file")
)
