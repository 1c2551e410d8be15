package competency

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/textnorm"
)

// FreeTextQuestions are the open questions of the standard form. They are
// never scored even when an answer happens to parse as a number.
var FreeTextQuestions = []string{ //nolint:gochecknoglobals // fixed form questions
	"Nombre Completo:",
	"¿Cuáles son las 2 o 3 principales fortalezas que observas en este colaborador?",
	"¿Cuáles son las 2 o 3 principales áreas de oportunidad (a mejorar) que sugieres para este colaborador?",
	"Comentarios adicionales (opcional)",
}

// Candidate is a column offered for selection.
type Candidate struct {
	Index   int
	Name    string
	Numeric bool
}

// Excluder decides which headers are never competencies.
type Excluder struct {
	names    map[string]struct{}
	patterns []string
}

// NewExcluder builds an Excluder from the free-text questions plus the
// given glob patterns. Patterns match normalized headers, so "*comentario*"
// also catches "Comentarios Adicionales".
func NewExcluder(patterns ...string) (*Excluder, error) {
	e := &Excluder{names: make(map[string]struct{}, len(FreeTextQuestions))}
	for _, q := range FreeTextQuestions {
		e.names[textnorm.Normalize(q)] = struct{}{}
	}
	for _, p := range patterns {
		p = textnorm.Normalize(p)
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: %q", ErrBadPattern, p)
		}
		e.patterns = append(e.patterns, p)
	}
	return e, nil
}

// Excluded reports whether header is a free-text question or matches a pattern.
func (e *Excluder) Excluded(header string) bool {
	if e == nil {
		return false
	}
	n := textnorm.Normalize(header)
	if _, ok := e.names[n]; ok {
		return true
	}
	// Headers are not paths; keep "/" from acting as a separator.
	subject := strings.ReplaceAll(n, "/", " ")
	for _, p := range e.patterns {
		if ok, _ := doublestar.Match(p, subject); ok {
			return true
		}
	}
	return false
}

// Select keeps, in source order, the numeric candidates that are neither
// skipped by index nor excluded by name.
func Select(columns []Candidate, skip map[int]bool, ex *Excluder) []Candidate {
	out := make([]Candidate, 0, len(columns))
	for _, c := range columns {
		if skip[c.Index] || !c.Numeric || ex.Excluded(c.Name) {
			continue
		}
		out = append(out, c)
	}
	return out
}
