// Package scoring computes weighted 360 scores for one evaluated subject and
// derives their classifications and comparison statistics.
package scoring

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/benchmark"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/competency"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/dataset"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/rater"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/schema"
)

const defaultMaxPopulation = 500

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithMaxPopulation caps the subjects returned by Population and Ranking.
func WithMaxPopulation(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxPopulation = n
		}
	}
}

// Engine scores subjects of one read-only dataset. It holds no mutable state
// besides a lazily computed baseline, so it is safe for concurrent use.
type Engine struct {
	ds            *dataset.Dataset
	maxPopulation int

	baselineOnce sync.Once
	baseline     benchmark.Baseline
}

// NewEngine creates an engine over ds.
func NewEngine(ds *dataset.Dataset, opts ...Option) *Engine {
	e := &Engine{ds: ds, maxPopulation: defaultMaxPopulation}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dataset returns the dataset the engine reads.
func (e *Engine) Dataset() *dataset.Dataset { return e.ds }

// Subjects lists the evaluated subjects alphabetically.
func (e *Engine) Subjects() ([]string, error) { return e.ds.Subjects() }

// Competencies lists the competency columns in source order.
func (e *Engine) Competencies() []string { return e.ds.Competencies() }

// Categories lists the competencies of each category.
func (e *Engine) Categories() []competency.Group { return e.ds.Categories() }

// Baseline returns the population statistics. They do not depend on
// weights, so they are computed once per dataset.
func (e *Engine) Baseline() benchmark.Baseline {
	e.baselineOnce.Do(func() { e.baseline = benchmark.Compute(e.ds) })
	return e.baseline
}

// CompetencyScore is the weighted composite of one competency.
type CompetencyScore struct {
	Name     string              `json:"name"`
	Category competency.Category `json:"category"`
	Score    float64             `json:"score"`
}

// CategoryScore is the mean composite of a category's competencies.
type CategoryScore struct {
	Category     competency.Category `json:"category"`
	Score        float64             `json:"score"`
	Achieved     float64             `json:"achieved_percent"`
	Competencies []string            `json:"competencies"`
}

// GroupProfile is how one rater group scored each category, unweighted.
// A nil entry means the group left every competency of that category blank.
type GroupProfile struct {
	Group      rater.Group                      `json:"group"`
	Responses  int                              `json:"responses"`
	Categories map[competency.Category]*float64 `json:"categories"`
}

// Comparison places the subject within the whole population.
type Comparison struct {
	CompanyMean   float64                         `json:"company_mean"`
	CategoryMeans map[competency.Category]float64 `json:"category_means"`
	Percentile    float64                         `json:"percentile"`
	Population    int                             `json:"population"`
}

// Result is the outcome of one scoring query. It is derived on demand and
// never persisted.
type Result struct {
	Subject      string              `json:"subject"`
	Weights      Weights             `json:"weights"`
	Normalized   Weights             `json:"normalized_weights"`
	Responses    int                 `json:"responses"`
	Raters       map[rater.Group]int `json:"raters"`
	Competencies []CompetencyScore   `json:"competencies"`
	Categories   []CategoryScore     `json:"categories"`
	Overall      float64             `json:"overall"`
	Potential    float64             `json:"potential"`
	Aptitude     Aptitude            `json:"aptitude"`
	Quadrant     Quadrant            `json:"quadrant"`
	KPIs         KPIs                `json:"kpis"`
	Benchmark    Comparison          `json:"benchmark"`
	Groups       []GroupProfile      `json:"groups"`
}

// Category returns the aggregate of c, if the dataset has that category.
func (r *Result) Category(c competency.Category) (CategoryScore, bool) {
	for _, cs := range r.Categories {
		if cs.Category == c {
			return cs, true
		}
	}
	return CategoryScore{}, false
}

// core is the weight-dependent part of a result.
type core struct {
	normalized   Weights
	rows         []int
	raters       map[rater.Group]int
	groupMeans   map[rater.Group][]float64 // NaN marks no answers
	groupRows    map[rater.Group]int
	competencies []CompetencyScore
	categories   []CategoryScore
	overall      float64
	potential    float64
}

// Score computes the full result for subject under weights. It fails with
// *WeightError, *NoDataError or *schema.SchemaError and never panics on data.
func (e *Engine) Score(ctx context.Context, subject string, w Weights) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("score %q: %w", subject, err)
	}
	c, err := e.score(subject, w)
	if err != nil {
		return nil, err
	}

	base := e.Baseline()
	percentile := base.Percentile(c.overall)
	groups := e.groupProfiles(c)

	cats := make(map[competency.Category]float64, len(base.CategoryMeans))
	for k, v := range base.CategoryMeans {
		cats[k] = v
	}

	return &Result{
		Subject:      subject,
		Weights:      w,
		Normalized:   c.normalized,
		Responses:    len(c.rows),
		Raters:       c.raters,
		Competencies: c.competencies,
		Categories:   c.categories,
		Overall:      c.overall,
		Potential:    c.potential,
		Aptitude:     ClassifyAptitude(c.overall, c.categories),
		Quadrant:     ClassifyQuadrant(c.overall, c.potential),
		KPIs:         ComputeKPIs(c.overall, c.categories, percentile),
		Benchmark: Comparison{
			CompanyMean:   base.CompanyMean,
			CategoryMeans: cats,
			Percentile:    percentile,
			Population:    base.Subjects,
		},
		Groups: groups,
	}, nil
}

func (e *Engine) score(subject string, w Weights) (*core, error) {
	nw, err := w.Normalize()
	if err != nil {
		return nil, err
	}
	if err := e.ds.Schema().Require(schema.RoleSubject, schema.RoleRelationship); err != nil {
		return nil, err
	}
	rows := e.ds.Rows(subject)
	if len(rows) == 0 {
		return nil, &NoDataError{Subject: subject}
	}
	comps := e.ds.Competencies()
	if len(comps) == 0 {
		return nil, &NoDataError{Subject: subject, Reason: "no competency columns"}
	}

	// Group the subject's responses by rater group.
	byGroup := map[rater.Group][]int{}
	raters := map[rater.Group]int{}
	for _, r := range rows {
		g := rater.Classify(e.ds.Relationship(r))
		byGroup[g] = append(byGroup[g], r)
		raters[g]++
	}

	// Per group, per competency mean; NaN when the group left it blank.
	groupMeans := make(map[rater.Group][]float64, len(byGroup))
	groupRows := make(map[rater.Group]int, len(byGroup))
	for g, gr := range byGroup {
		means := make([]float64, len(comps))
		for ci := range comps {
			means[ci] = e.meanOf(gr, ci)
		}
		groupMeans[g] = means
		groupRows[g] = len(gr)
	}

	// Weighted composite. An absent group, or a blank group-competency,
	// contributes 0 rather than being skipped.
	composite := make([]float64, len(comps))
	for _, g := range rater.Weighted {
		means, ok := groupMeans[g]
		if !ok {
			continue
		}
		weight := nw.For(g)
		for ci, m := range means {
			if !math.IsNaN(m) {
				composite[ci] += m * weight
			}
		}
	}

	compIndex := make(map[string]int, len(comps))
	scores := make([]CompetencyScore, len(comps))
	for i, name := range comps {
		compIndex[name] = i
		cat, _ := e.ds.CategoryOf(name)
		scores[i] = CompetencyScore{Name: name, Category: cat, Score: composite[i]}
	}

	// Category aggregates first, then the overall mean over categories.
	groups := e.ds.Categories()
	categories := make([]CategoryScore, 0, len(groups))
	var total float64
	for _, grp := range groups {
		var sum float64
		for _, name := range grp.Competencies {
			sum += composite[compIndex[name]]
		}
		avg := sum / float64(len(grp.Competencies))
		categories = append(categories, CategoryScore{
			Category:     grp.Category,
			Score:        avg,
			Achieved:     avg / maxScore * 100,
			Competencies: grp.Competencies,
		})
		total += avg
	}
	overall := total / float64(len(categories))

	return &core{
		normalized:   nw,
		rows:         rows,
		raters:       raters,
		groupMeans:   groupMeans,
		groupRows:    groupRows,
		competencies: scores,
		categories:   categories,
		overall:      overall,
		potential:    PotentialOf(categories),
	}, nil
}

func (e *Engine) meanOf(rows []int, comp int) float64 {
	var sum float64
	n := 0
	for _, r := range rows {
		if v := e.ds.Value(r, comp); v.IsNumber() {
			sum += v.Num
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// groupProfiles averages each group's competency means per category,
// skipping blanks, in rater.All order.
func (e *Engine) groupProfiles(c *core) []GroupProfile {
	comps := e.ds.Competencies()
	compIndex := make(map[string]int, len(comps))
	for i, name := range comps {
		compIndex[name] = i
	}
	out := make([]GroupProfile, 0, len(c.groupMeans))
	for _, g := range rater.All {
		means, ok := c.groupMeans[g]
		if !ok {
			continue
		}
		p := GroupProfile{Group: g, Responses: c.groupRows[g], Categories: map[competency.Category]*float64{}}
		for _, cs := range c.categories {
			var sum float64
			n := 0
			for _, name := range cs.Competencies {
				if m := means[compIndex[name]]; !math.IsNaN(m) {
					sum += m
					n++
				}
			}
			if n > 0 {
				v := sum / float64(n)
				p.Categories[cs.Category] = &v
			} else {
				p.Categories[cs.Category] = nil
			}
		}
		out = append(out, p)
	}
	return out
}
