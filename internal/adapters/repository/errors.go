package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrClosed       = errors.New("dataset store closed")
	ErrNilEngine    = errors.New("loader returned no engine")
	ErrJobNotFound  = errors.New("report job not found")
	ErrJobStoreFull = errors.New("too many unfinished report jobs")
)
