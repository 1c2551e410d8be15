package scoring

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the typed errors below.
var (
	ErrInvalidWeights  = errors.New("invalid weights")
	ErrNoData          = errors.New("no data")
	ErrUnknownTier     = errors.New("unknown aptitude tier")
	ErrUnknownQuadrant = errors.New("unknown quadrant")
)

// WeightError reports a weight configuration that cannot be normalized.
// Callers must ask for new weights; retrying does not help.
type WeightError struct {
	Sum    float64
	Reason string
}

func (e *WeightError) Error() string {
	return fmt.Sprintf("invalid weights: %s (sum %.4g)", e.Reason, e.Sum)
}

// Is lets errors.Is(err, ErrInvalidWeights) match.
func (e *WeightError) Is(target error) bool { return target == ErrInvalidWeights }

// NoDataError reports a subject without scorable responses.
type NoDataError struct {
	Subject string
	Reason  string
}

func (e *NoDataError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("no data for %q: %s", e.Subject, e.Reason)
	}
	return fmt.Sprintf("no data for %q", e.Subject)
}

// Is lets errors.Is(err, ErrNoData) match.
func (e *NoDataError) Is(target error) bool { return target == ErrNoData }
