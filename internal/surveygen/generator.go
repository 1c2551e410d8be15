// Package surveygen produces synthetic 360 survey exports for demos,
// fixtures and load tests. Output is deterministic for a given seed.
package surveygen

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/dataset"
	"github.com/Waldoz-X/PrjEvaluacion360/pkg/logger"
)

// Fixed columns of the generated form.
const (
	HeaderTimestamp    = "Marca temporal"
	HeaderResponse     = "Folio"
	HeaderRater        = "Nombre Completo:"
	HeaderSubject      = "Nombre del colaborador evaluado"
	HeaderRelationship = "¿Cuál es tu relación con el evaluado?"
	HeaderComments     = "Comentarios adicionales (opcional)"
)

// Relationship answers as they appear in the form.
const (
	RelationSelf        = "Autoevaluación"
	RelationManager     = "Jefe directo"
	RelationPeer        = "Compañero de trabajo (par)"
	RelationSubordinate = "Subordinado"
)

const timestampLayout = "02/01/2006 15:04:05"

// Likert phrases for the text tab, index = score - 1.
var phrases = [...]string{ //nolint:gochecknoglobals // fixed answer scale
	"Muy en desacuerdo",
	"En desacuerdo",
	"Neutral",
	"De acuerdo",
	"Totalmente de acuerdo",
}

// profile is the mean range of one performer type.
type profile struct {
	name     string
	min, max float64
	weight   int
}

// Average performers are the most common, extremes rare.
var profiles = []profile{ //nolint:gochecknoglobals // fixed distribution
	{"elite", 4.5, 5.0, 1},
	{"high", 4.0, 4.5, 3},
	{"average", 3.3, 4.0, 5},
	{"developing", 2.6, 3.3, 2},
	{"low", 1.6, 2.6, 1},
}

// Self-evaluations run high, managers slightly strict.
var groupBias = map[string]float64{ //nolint:gochecknoglobals // fixed bias table
	RelationSelf:        0.4,
	RelationManager:     -0.1,
	RelationPeer:        0,
	RelationSubordinate: 0.1,
}

//nolint:gochecknoglobals // name pools
var (
	firstNames = []string{"Ana", "Luis", "María", "José", "Lucía", "Carlos", "Sofía", "Miguel", "Elena", "Jorge", "Paula", "Andrés"}
	lastNames  = []string{"García", "Hernández", "López", "Martínez", "Pérez", "Sánchez", "Ramírez", "Torres", "Flores", "Rivera"}
)

// Survey is a generated export split into the text and numeric tabs.
type Survey struct {
	Text    dataset.Table
	Numeric dataset.Table
	// Profiles maps each subject to its performer type.
	Profiles map[string]string
}

// Generate builds a survey from cfg.
func Generate(ctx context.Context, cfg Config, textTab, numericTab string) (Survey, error) {
	if err := validate(cfg); err != nil {
		return Survey{}, err
	}

	var seed [32]byte
	binary.LittleEndian.PutUint64(seed[:], cfg.Seed)
	src := rand.NewChaCha8(seed)
	rng := rand.New(src)

	header := make([]string, 0, len(cfg.Competencies)+6)
	header = append(header, HeaderTimestamp, HeaderResponse, HeaderRater, HeaderSubject, HeaderRelationship)
	header = append(header, cfg.Competencies...)
	header = append(header, HeaderComments)

	g := &generator{cfg: cfg, rng: rng, ids: src, at: cfg.Start}
	var textRows, numRows [][]string
	survey := Survey{Profiles: make(map[string]string, cfg.Subjects)}

	for i := 0; i < cfg.Subjects; i++ {
		if err := ctx.Err(); err != nil {
			return Survey{}, fmt.Errorf("generate survey: %w", err)
		}
		subject := subjectName(i)
		p := g.pickProfile()
		survey.Profiles[subject] = p.name
		mean := p.min + rng.Float64()*(p.max-p.min)

		for _, rel := range g.relationships() {
			rater := subject
			if rel != RelationSelf {
				rater = subjectName(rng.IntN(max(cfg.Subjects, len(firstNames)*len(lastNames))))
			}
			scores := g.answers(mean + groupBias[rel])
			if rng.Float64() < cfg.TextShare {
				textRows = append(textRows, g.row(rater, subject, rel, scores, true))
			} else {
				numRows = append(numRows, g.row(rater, subject, rel, scores, false))
			}
		}
	}

	survey.Text = dataset.NewTable(textTab, header, textRows)
	survey.Numeric = dataset.NewTable(numericTab, header, numRows)

	logger.Get().Named("surveygen").Debug(ctx, "survey generated",
		logger.Int("subjects", cfg.Subjects),
		logger.Int("textResponses", len(textRows)),
		logger.Int("numericResponses", len(numRows)),
	)
	return survey, nil
}

func validate(cfg Config) error {
	switch {
	case cfg.Subjects < 1:
		return fmt.Errorf("%w: subjects must be positive", ErrInvalidConfig)
	case cfg.MinRaters < 0 || cfg.MaxRaters < cfg.MinRaters:
		return fmt.Errorf("%w: need 0 <= min_raters <= max_raters", ErrInvalidConfig)
	case len(cfg.Competencies) == 0:
		return fmt.Errorf("%w: no competencies", ErrInvalidConfig)
	case cfg.TextShare < 0 || cfg.TextShare > 1, cfg.MissingRate < 0 || cfg.MissingRate >= 1:
		return fmt.Errorf("%w: shares must be within [0, 1)", ErrInvalidConfig)
	}
	return nil
}

type generator struct {
	cfg Config
	rng *rand.Rand
	ids *rand.ChaCha8
	at  time.Time
}

func (g *generator) pickProfile() profile {
	total := 0
	for _, p := range profiles {
		total += p.weight
	}
	n := g.rng.IntN(total)
	for _, p := range profiles {
		if n < p.weight {
			return p
		}
		n -= p.weight
	}
	return profiles[len(profiles)-1]
}

// relationships returns the self-evaluation followed by the other raters.
func (g *generator) relationships() []string {
	n := g.cfg.MinRaters
	if g.cfg.MaxRaters > g.cfg.MinRaters {
		n += g.rng.IntN(g.cfg.MaxRaters - g.cfg.MinRaters + 1)
	}
	out := make([]string, 0, n+1)
	out = append(out, RelationSelf)
	if n > 0 {
		out = append(out, RelationManager)
	}
	others := []string{RelationPeer, RelationPeer, RelationSubordinate}
	for len(out) < n+1 {
		out = append(out, others[g.rng.IntN(len(others))])
	}
	return out
}

// answers draws one score per competency around mean; 0 means blank.
func (g *generator) answers(mean float64) []int {
	out := make([]int, len(g.cfg.Competencies))
	for i := range out {
		if g.rng.Float64() < g.cfg.MissingRate {
			continue
		}
		v := math.Round(mean + g.rng.NormFloat64()*0.6)
		out[i] = int(math.Max(1, math.Min(5, v)))
	}
	return out
}

func (g *generator) row(rater, subject, rel string, scores []int, text bool) []string {
	g.at = g.at.Add(time.Duration(5+g.rng.IntN(55)) * time.Minute)
	id, err := uuid.NewRandomFromReader(g.ids)
	if err != nil {
		id = uuid.New()
	}

	row := make([]string, 0, len(scores)+6)
	row = append(row, g.at.Format(timestampLayout), id.String(), rater, subject, rel)
	for _, s := range scores {
		switch {
		case s == 0:
			row = append(row, "")
		case text:
			row = append(row, phrases[s-1])
		default:
			row = append(row, strconv.Itoa(s))
		}
	}
	return append(row, "")
}

func subjectName(i int) string {
	first := firstNames[i%len(firstNames)]
	last := lastNames[(i/len(firstNames))%len(lastNames)]
	name := first + " " + last
	if n := i / (len(firstNames) * len(lastNames)); n > 0 {
		name += " " + strconv.Itoa(n+1)
	}
	return name
}
