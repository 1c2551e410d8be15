package scoring

import "math"

const (
	maxScore        = 5.0
	minimumStandard = 3.5
)

// KPIs are the four headline indicators.
type KPIs struct {
	// Compliance is how far the overall score sits within its band, in percent.
	Compliance float64 `json:"compliance"`
	// Consistency is 5 minus twice the spread of category aggregates, clamped to 0..5.
	Consistency float64 `json:"consistency"`
	// Percentile of the subject among all subjects, and TopPercent = 100 - Percentile.
	Percentile float64 `json:"percentile"`
	TopPercent float64 `json:"top_percent"`
	// Gap is the distance to a perfect 5.0, also as a percentage of 5.0.
	Gap        float64 `json:"gap"`
	GapPercent float64 `json:"gap_percent"`
}

// ComputeKPIs derives the indicators from the overall score, the category
// aggregates and the percentile.
func ComputeKPIs(overall float64, categories []CategoryScore, percentile float64) KPIs {
	gap := maxScore - overall
	return KPIs{
		Compliance:  Compliance(overall),
		Consistency: Consistency(categories),
		Percentile:  percentile,
		TopPercent:  100 - percentile,
		Gap:         gap,
		GapPercent:  gap / maxScore * 100,
	}
}

// Compliance maps scores at or above 3.5 onto 0..100 across the 3.5..5.0
// band and scores below 3.5 onto their share of 3.5.
func Compliance(overall float64) float64 {
	if overall >= minimumStandard {
		return math.Min(100, (overall-minimumStandard)/(maxScore-minimumStandard)*100)
	}
	return overall / minimumStandard * 100
}

// Consistency uses the sample standard deviation of category aggregates.
// Fewer than two categories give a perfect 5.
func Consistency(categories []CategoryScore) float64 {
	if len(categories) < 2 {
		return maxScore
	}
	var sum float64
	for _, c := range categories {
		sum += c.Score
	}
	mean := sum / float64(len(categories))
	var sq float64
	for _, c := range categories {
		d := c.Score - mean
		sq += d * d
	}
	std := math.Sqrt(sq / float64(len(categories)-1))
	return math.Max(0, math.Min(maxScore, maxScore-2*std))
}
