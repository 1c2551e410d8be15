// Package benchmark computes company-wide reference statistics. Rater groups
// and weights play no part here: every response counts once.
package benchmark

import (
	"math"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/competency"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/dataset"
)

// Baseline holds the population statistics of one dataset.
type Baseline struct {
	// SubjectMeans is, per subject, the mean of that subject's per-competency
	// means. Subjects without any numeric answer are absent.
	SubjectMeans map[string]float64
	// Subjects counts every subject, including those absent from SubjectMeans.
	Subjects int
	// CompanyMean averages SubjectMeans.
	CompanyMean float64
	// CategoryMeans averages, across subjects, each subject's mean over the
	// competencies of the category.
	CategoryMeans map[competency.Category]float64
}

// Compute derives the baseline from the full dataset.
func Compute(d *dataset.Dataset) Baseline {
	b := Baseline{
		SubjectMeans:  map[string]float64{},
		CategoryMeans: map[competency.Category]float64{},
	}
	subjects, err := d.Subjects()
	if err != nil {
		return b
	}
	b.Subjects = len(subjects)

	comps := d.Competencies()
	groups := d.Categories()
	compIndex := make(map[string]int, len(comps))
	for i, c := range comps {
		compIndex[c] = i
	}

	catSums := map[competency.Category]*mean{}
	var company mean
	for _, s := range subjects {
		compMeans := subjectCompetencyMeans(d, d.Rows(s), len(comps))

		var flat mean
		for _, m := range compMeans {
			flat.addMaybe(m)
		}
		if v, ok := flat.value(); ok {
			b.SubjectMeans[s] = v
			company.add(v)
		}

		for _, g := range groups {
			var cat mean
			for _, name := range g.Competencies {
				cat.addMaybe(compMeans[compIndex[name]])
			}
			if v, ok := cat.value(); ok {
				if catSums[g.Category] == nil {
					catSums[g.Category] = &mean{}
				}
				catSums[g.Category].add(v)
			}
		}
	}

	if v, ok := company.value(); ok {
		b.CompanyMean = v
	}
	for c, m := range catSums {
		if v, ok := m.value(); ok {
			b.CategoryMeans[c] = v
		}
	}
	return b
}

// subjectCompetencyMeans returns the unweighted mean per competency across
// rows; NaN marks a competency without numeric answers.
func subjectCompetencyMeans(d *dataset.Dataset, rows []int, n int) []float64 {
	out := make([]float64, n)
	for c := 0; c < n; c++ {
		var m mean
		for _, r := range rows {
			if v := d.Value(r, c); v.IsNumber() {
				m.add(v.Num)
			}
		}
		if v, ok := m.value(); ok {
			out[c] = v
		} else {
			out[c] = math.NaN()
		}
	}
	return out
}

// Percentile is the share of subjects whose company mean is strictly below
// overall, in percent of all subjects. It is 0 for an empty population.
func (b Baseline) Percentile(overall float64) float64 {
	if b.Subjects == 0 {
		return 0
	}
	below := 0
	for _, m := range b.SubjectMeans {
		if m < overall {
			below++
		}
	}
	return float64(below) / float64(b.Subjects) * 100
}

type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.n++
}

func (m *mean) addMaybe(v float64) {
	if !math.IsNaN(v) {
		m.add(v)
	}
}

func (m *mean) value() (float64, bool) {
	if m.n == 0 {
		return 0, false
	}
	return m.sum / float64(m.n), true
}
