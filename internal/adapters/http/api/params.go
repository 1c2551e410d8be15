package api

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/scoring"
)

// weightsFrom reads self, manager, peers and subordinates from q. Missing
// parameters keep the value from defaults.
func weightsFrom(q url.Values, defaults scoring.Weights) (scoring.Weights, error) {
	w := defaults
	for _, p := range []struct {
		name string
		dst  *float64
	}{
		{"self", &w.Self},
		{"manager", &w.Manager},
		{"peers", &w.Peers},
		{"subordinates", &w.Subordinates},
	} {
		raw := strings.TrimSpace(q.Get(p.name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return scoring.Weights{}, fmt.Errorf("%w: %s=%q is not a number", ErrBadRequest, p.name, raw)
		}
		*p.dst = v
	}
	return w, nil
}

// limitFrom reads the limit parameter; absent means max.
func limitFrom(q url.Values, maxLimit int) (int, error) {
	raw := strings.TrimSpace(q.Get("limit"))
	if raw == "" {
		return maxLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: limit must be a positive integer", ErrBadRequest)
	}
	if n > maxLimit {
		return 0, fmt.Errorf("%w: limit exceeds %d", ErrBadRequest, maxLimit)
	}
	return n, nil
}
