package surveygen

import "errors"

// ErrInvalidConfig is returned for a Config that cannot produce a survey.
var ErrInvalidConfig = errors.New("invalid survey config")
