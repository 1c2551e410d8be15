// Package chart describes the report visuals as format-independent intents.
// Renderers turn an Intent into SVG, terminal output or JSON; nothing here
// knows about a drawing backend.
package chart

import (
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/competency"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/scoring"
)

// Kind is the shape of a chart.
type Kind string

const (
	KindRadar   Kind = "radar"
	KindScatter Kind = "scatter"
	KindBars    Kind = "bars"
	KindDonut   Kind = "donut"
)

// Scale bounds shared by every score chart.
const (
	ScaleMin = 0.0
	ScaleMax = 5.0
)

const (
	subjectColor  = "#667eea"
	companyColor  = "#6c757d"
	standardColor = "#ff6b6b"
	remainColor   = "#f0f0f0"
	dividerColor  = "#adb5bd"
)

// Style is how a series is stroked.
type Style string

const (
	StyleSolid  Style = "solid"
	StyleDashed Style = "dashed"
	StyleDotted Style = "dotted"
)

// Series is one line, area or bar group. A nil value is a gap.
type Series struct {
	Name   string     `json:"name"`
	Color  string     `json:"color"`
	Style  Style      `json:"style"`
	Fill   bool       `json:"fill"`
	Values []*float64 `json:"values"`
}

// Reference is a constant guide: a radar ring or a scatter divider.
type Reference struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
	// Axis is "x" or "y" for scatter dividers and empty for radar rings.
	Axis string `json:"axis,omitempty"`
}

// Point is one marker of a scatter chart.
type Point struct {
	Label     string  `json:"label"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Color     string  `json:"color"`
	Highlight bool    `json:"highlight,omitempty"`
}

// Slice is one share of a donut, in percent.
type Slice struct {
	Label   string  `json:"label"`
	Percent float64 `json:"percent"`
	Color   string  `json:"color"`
}

// Intent is a chart to draw.
type Intent struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Kind       Kind        `json:"kind"`
	Labels     []string    `json:"labels,omitempty"`
	Series     []Series    `json:"series,omitempty"`
	References []Reference `json:"references,omitempty"`
	Points     []Point     `json:"points,omitempty"`
	Slices     []Slice     `json:"slices,omitempty"`
	XLabel     string      `json:"x_label,omitempty"`
	YLabel     string      `json:"y_label,omitempty"`
	Min        float64     `json:"min"`
	Max        float64     `json:"max"`
}

func ptr(v float64) *float64 { return &v }

func values(vs []float64) []*float64 {
	out := make([]*float64, len(vs))
	for i, v := range vs {
		out[i] = ptr(v)
	}
	return out
}

func constant(v float64, n int) []*float64 {
	out := make([]*float64, n)
	for i := range out {
		out[i] = ptr(v)
	}
	return out
}

// Overview is the category radar: the subject's aggregates against the
// company category means and the 4.5 and 3.5 rings.
func Overview(r *scoring.Result) Intent {
	labels := make([]string, len(r.Categories))
	subject := make([]float64, len(r.Categories))
	company := make([]*float64, len(r.Categories))
	for i, c := range r.Categories {
		labels[i] = c.Category.String()
		subject[i] = c.Score
		if m, ok := r.Benchmark.CategoryMeans[c.Category]; ok {
			company[i] = ptr(m)
		}
	}
	return Intent{
		ID:     "overview",
		Title:  "Category overview",
		Kind:   KindRadar,
		Labels: labels,
		Series: []Series{
			{Name: r.Subject, Color: subjectColor, Style: StyleSolid, Fill: true, Values: values(subject)},
			{Name: "Company mean", Color: companyColor, Style: StyleDashed, Values: company},
		},
		References: []Reference{
			{Label: "Outstanding (4.5+)", Value: 4.5, Color: scoring.Outstanding.Color()},
			{Label: "Acceptable (3.5+)", Value: 3.5, Color: scoring.Developing.Color()},
		},
		Min: ScaleMin,
		Max: ScaleMax,
	}
}

// Profile is the competency radar against the 3.5 minimum standard.
func Profile(r *scoring.Result) Intent {
	labels := make([]string, len(r.Competencies))
	scores := make([]float64, len(r.Competencies))
	for i, c := range r.Competencies {
		labels[i] = c.Name
		scores[i] = c.Score
	}
	return Intent{
		ID:     "profile",
		Title:  "Competency profile",
		Kind:   KindRadar,
		Labels: labels,
		Series: []Series{
			{Name: r.Subject, Color: subjectColor, Style: StyleSolid, Fill: true, Values: values(scores)},
			{Name: "Minimum standard (3.5)", Color: standardColor, Style: StyleDashed, Values: constant(3.5, len(labels))},
		},
		Min: ScaleMin,
		Max: ScaleMax,
	}
}

// TalentMatrix plots potential (x) against performance (y) with dividers at
// 4.0. The subject is highlighted; other points come from the population.
func TalentMatrix(r *scoring.Result, population []scoring.Point) Intent {
	pts := make([]Point, 0, len(population)+1)
	for _, p := range population {
		if p.Subject == r.Subject {
			continue
		}
		pts = append(pts, Point{Label: p.Subject, X: p.Potential, Y: p.Performance, Color: companyColor})
	}
	pts = append(pts, Point{
		Label:     r.Subject,
		X:         r.Potential,
		Y:         r.Overall,
		Color:     r.Quadrant.Color,
		Highlight: true,
	})
	return Intent{
		ID:     "talent-matrix",
		Title:  "Talent matrix",
		Kind:   KindScatter,
		Points: pts,
		References: []Reference{
			{Label: "Potential 4.0", Value: 4.0, Color: dividerColor, Axis: "x"},
			{Label: "Performance 4.0", Value: 4.0, Color: dividerColor, Axis: "y"},
		},
		XLabel: "Potential",
		YLabel: "Performance",
		Min:    ScaleMin,
		Max:    ScaleMax,
	}
}

// GroupBars compares each rater group's unweighted category means.
func GroupBars(r *scoring.Result) Intent {
	labels := make([]string, len(r.Categories))
	for i, c := range r.Categories {
		labels[i] = c.Category.String()
	}
	series := make([]Series, 0, len(r.Groups))
	for _, g := range r.Groups {
		vals := make([]*float64, len(r.Categories))
		for i, c := range r.Categories {
			if v := g.Categories[c.Category]; v != nil {
				vals[i] = ptr(*v)
			}
		}
		series = append(series, Series{Name: g.Group.String(), Color: g.Group.Color(), Style: StyleSolid, Fill: true, Values: vals})
	}
	return Intent{
		ID:     "groups",
		Title:  "Comparison by rater group",
		Kind:   KindBars,
		Labels: labels,
		Series: series,
		XLabel: "Category",
		YLabel: "Score",
		Min:    ScaleMin,
		Max:    ScaleMax,
	}
}

// Donut shows the achieved share of 5.0 for one category.
func Donut(c scoring.CategoryScore) Intent {
	achieved := clamp(c.Achieved, 0, 100)
	return Intent{
		ID:    "donut-" + slug(c.Category),
		Title: c.Category.String(),
		Kind:  KindDonut,
		Slices: []Slice{
			{Label: "Achieved", Percent: achieved, Color: c.Category.Color()},
			{Label: "To improve", Percent: 100 - achieved, Color: remainColor},
		},
		Min: 0,
		Max: 100,
	}
}

// Donuts returns one donut per category, in category order.
func Donuts(r *scoring.Result) []Intent {
	out := make([]Intent, len(r.Categories))
	for i, c := range r.Categories {
		out[i] = Donut(c)
	}
	return out
}

// All returns every chart of a report in display order.
func All(r *scoring.Result, population []scoring.Point) []Intent {
	out := []Intent{Overview(r), Profile(r), TalentMatrix(r, population), GroupBars(r)}
	return append(out, Donuts(r)...)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func slug(c competency.Category) string {
	b := make([]byte, 0, len(c.String()))
	for _, r := range c.String() {
		switch {
		case r >= 'A' && r <= 'Z':
			b = append(b, byte(r-'A'+'a'))
		case r >= 'a' && r <= 'z':
			b = append(b, byte(r))
		case len(b) > 0 && b[len(b)-1] != '-':
			b = append(b, '-')
		}
	}
	if n := len(b); n > 0 && b[n-1] == '-' {
		b = b[:n-1]
	}
	return string(b)
}
