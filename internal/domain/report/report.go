// Package report assembles the format-independent content of an individual
// 360 report from a scoring result. Renderers only lay it out.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/chart"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/competency"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/rater"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/scoring"
)

// highlights is how many strengths and weaknesses a report lists.
const highlights = 3

// RaterCount is the number of responses from one rater group.
type RaterCount struct {
	Group rater.Group `json:"group"`
	Color string      `json:"color"`
	Count int         `json:"count"`
}

// GroupRow is one rater group's unweighted mean per category. A nil score
// means the group answered nothing in that category.
type GroupRow struct {
	Group     rater.Group `json:"group"`
	Color     string      `json:"color"`
	Responses int         `json:"responses"`
	Scores    []*float64  `json:"scores"`
}

// Achievement is a category's score as a share of the maximum.
type Achievement struct {
	Category competency.Category `json:"category"`
	Color    string              `json:"color"`
	Score    float64             `json:"score"`
	Percent  float64             `json:"percent"`
}

// Report is everything a renderer needs for one subject.
type Report struct {
	Subject      string                    `json:"subject"`
	GeneratedAt  time.Time                 `json:"generated_at"`
	Weights      scoring.Weights           `json:"weights"`
	Responses    int                       `json:"responses"`
	Raters       []RaterCount              `json:"raters"`
	Overall      float64                   `json:"overall"`
	Potential    float64                   `json:"potential"`
	KPIs         scoring.KPIs              `json:"kpis"`
	Aptitude     scoring.Aptitude          `json:"aptitude"`
	Quadrant     scoring.Quadrant          `json:"quadrant"`
	Benchmark    scoring.Comparison        `json:"benchmark"`
	Strengths    []scoring.CategoryScore   `json:"strengths"`
	Weaknesses   []scoring.CategoryScore   `json:"weaknesses"`
	Categories   []competency.Category     `json:"categories"`
	Groups       []GroupRow                `json:"groups"`
	Achievement  []Achievement             `json:"achievement"`
	Competencies []scoring.CompetencyScore `json:"competencies"`
	Charts       []chart.Intent            `json:"charts"`
}

// Option configures Build.
type Option func(*Report)

// WithGeneratedAt stamps the report, time.Now by default.
func WithGeneratedAt(t time.Time) Option {
	return func(r *Report) { r.GeneratedAt = t }
}

// Build derives the report of res. population feeds the talent matrix and
// may be nil.
func Build(res *scoring.Result, population []scoring.Point, opts ...Option) *Report {
	r := &Report{
		Subject:      res.Subject,
		Weights:      res.Weights,
		Responses:    res.Responses,
		Raters:       raterCounts(res.Raters),
		Overall:      res.Overall,
		Potential:    res.Potential,
		KPIs:         res.KPIs,
		Aptitude:     res.Aptitude,
		Quadrant:     res.Quadrant,
		Benchmark:    res.Benchmark,
		Strengths:    Strengths(res.Categories, highlights),
		Weaknesses:   Weaknesses(res.Categories, highlights),
		Competencies: res.Competencies,
		Charts:       chart.All(res, population),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = time.Now()
	}

	r.Categories = make([]competency.Category, len(res.Categories))
	r.Achievement = make([]Achievement, len(res.Categories))
	for i, c := range res.Categories {
		r.Categories[i] = c.Category
		r.Achievement[i] = Achievement{Category: c.Category, Color: c.Category.Color(), Score: c.Score, Percent: c.Achieved}
	}
	for _, g := range res.Groups {
		row := GroupRow{Group: g.Group, Color: g.Group.Color(), Responses: g.Responses, Scores: make([]*float64, len(res.Categories))}
		for i, c := range res.Categories {
			row.Scores[i] = g.Categories[c.Category]
		}
		r.Groups = append(r.Groups, row)
	}
	return r
}

// Generate scores subject under w on e, places it in the population and
// builds its report.
func Generate(ctx context.Context, e *scoring.Engine, subject string, w scoring.Weights, opts ...Option) (*Report, error) {
	res, err := e.Score(ctx, subject, w)
	if err != nil {
		return nil, err
	}
	pop, err := e.Population(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("population for %s: %w", subject, err)
	}
	return Build(res, pop, opts...), nil
}

// Strengths returns up to n categories with the highest aggregates, best
// first. Ties keep category order.
func Strengths(cs []scoring.CategoryScore, n int) []scoring.CategoryScore {
	out := append([]scoring.CategoryScore(nil), cs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return head(out, n)
}

// Weaknesses returns up to n categories with the lowest aggregates, worst
// first. Ties keep category order.
func Weaknesses(cs []scoring.CategoryScore, n int) []scoring.CategoryScore {
	out := append([]scoring.CategoryScore(nil), cs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	return head(out, n)
}

func head(cs []scoring.CategoryScore, n int) []scoring.CategoryScore {
	if len(cs) > n {
		return cs[:n]
	}
	return cs
}

func raterCounts(m map[rater.Group]int) []RaterCount {
	out := make([]RaterCount, 0, len(m))
	for _, g := range rater.All {
		if n := m[g]; n > 0 {
			out = append(out, RaterCount{Group: g, Color: g.Color(), Count: n})
		}
	}
	return out
}
