package scoring

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Point is a subject placed on the talent matrix.
type Point struct {
	Subject     string       `json:"subject"`
	Performance float64      `json:"performance"`
	Potential   float64      `json:"potential"`
	Quadrant    QuadrantKind `json:"quadrant"`
}

// Population scores every subject under w, in subject order, skipping those
// without scorable data. At most the configured maximum is returned.
func (e *Engine) Population(ctx context.Context, w Weights) ([]Point, error) {
	if _, err := w.Normalize(); err != nil {
		return nil, err
	}
	subjects, err := e.ds.Subjects()
	if err != nil {
		return nil, err
	}
	out := make([]Point, 0, min(len(subjects), e.maxPopulation))
	for _, s := range subjects {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("population: %w", err)
		}
		c, err := e.score(s, w)
		if errors.Is(err, ErrNoData) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, Point{
			Subject:     s,
			Performance: c.overall,
			Potential:   c.potential,
			Quadrant:    ClassifyQuadrant(c.overall, c.potential).Kind,
		})
		if len(out) == e.maxPopulation {
			break
		}
	}
	return out, nil
}

// RankEntry is one line of the ranking.
type RankEntry struct {
	Rank      int          `json:"rank"`
	Subject   string       `json:"subject"`
	Overall   float64      `json:"overall"`
	Potential float64      `json:"potential"`
	Tier      Tier         `json:"tier"`
	Quadrant  QuadrantKind `json:"quadrant"`
}

// Ranking orders subjects by overall score, highest first, ties by subject
// name. limit <= 0 returns every scored subject.
func (e *Engine) Ranking(ctx context.Context, w Weights, limit int) ([]RankEntry, error) {
	subjects, err := e.ds.Subjects()
	if err != nil {
		return nil, err
	}
	if _, err := w.Normalize(); err != nil {
		return nil, err
	}
	entries := make([]RankEntry, 0, len(subjects))
	for _, s := range subjects {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("ranking: %w", err)
		}
		c, err := e.score(s, w)
		if errors.Is(err, ErrNoData) {
			continue
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, RankEntry{
			Subject:   s,
			Overall:   c.overall,
			Potential: c.potential,
			Tier:      ClassifyAptitude(c.overall, c.categories).Tier,
			Quadrant:  ClassifyQuadrant(c.overall, c.potential).Kind,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Overall != entries[j].Overall {
			return entries[i].Overall > entries[j].Overall
		}
		return entries[i].Subject < entries[j].Subject
	})
	if limit <= 0 || limit > e.maxPopulation {
		limit = e.maxPopulation
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
