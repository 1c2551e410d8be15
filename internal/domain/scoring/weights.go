package scoring

import (
	"math"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/rater"
)

// Weights are the relative importance of each weighted rater group. Other
// is never weighted.
type Weights struct {
	Self         float64 `json:"self"`
	Manager      float64 `json:"manager"`
	Peers        float64 `json:"peers"`
	Subordinates float64 `json:"subordinates"`
}

// DefaultWeights are the stock 5/18/30/47 split.
func DefaultWeights() Weights {
	return Weights{Self: 5, Manager: 18, Peers: 30, Subordinates: 47}
}

// For returns the weight of g, 0 for Other.
func (w Weights) For(g rater.Group) float64 {
	switch g {
	case rater.Self:
		return w.Self
	case rater.Manager:
		return w.Manager
	case rater.Peers:
		return w.Peers
	case rater.Subordinates:
		return w.Subordinates
	default:
		return 0
	}
}

// Sum adds the four weights.
func (w Weights) Sum() float64 {
	return w.Self + w.Manager + w.Peers + w.Subordinates
}

// Validate rejects negative or non-finite weights and a sum that is not positive.
func (w Weights) Validate() error {
	sum := w.Sum()
	for _, g := range rater.Weighted {
		v := w.For(g)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &WeightError{Sum: sum, Reason: g.String() + " weight is not a finite number"}
		}
		if v < 0 {
			return &WeightError{Sum: sum, Reason: g.String() + " weight is negative"}
		}
	}
	if sum <= 0 {
		return &WeightError{Sum: sum, Reason: "weights must add up to more than zero"}
	}
	return nil
}

// Normalize scales the weights to fractions summing to 1.
func (w Weights) Normalize() (Weights, error) {
	if err := w.Validate(); err != nil {
		return Weights{}, err
	}
	sum := w.Sum()
	return Weights{
		Self:         w.Self / sum,
		Manager:      w.Manager / sum,
		Peers:        w.Peers / sum,
		Subordinates: w.Subordinates / sum,
	}, nil
}
