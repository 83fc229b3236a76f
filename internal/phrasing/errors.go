package phrasing

import "errors"

var (
	// ErrUnknownPhrase is returned when a phrase key is not in the library.
	ErrUnknownPhrase = errors.New("unknown phrase")

	// ErrUnknownLevel is returned when a phrase has no text for the level.
	ErrUnknownLevel = errors.New("unknown confidence level")

	// ErrInvalidOption is returned when a peripheral template field holds a
	// value outside its option list.
	ErrInvalidOption = errors.New("invalid option")
)
