package competency

import "errors"

var (
	// ErrUnknownCategory is returned when a category name does not parse.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrBadPattern is returned for an invalid exclusion glob.
	ErrBadPattern = errors.New("invalid exclude pattern")
)
