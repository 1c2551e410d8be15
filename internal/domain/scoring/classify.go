package scoring

import (
	"fmt"
	"strings"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/competency"
)

// Tier is the aptitude classification of an overall score.
type Tier uint8

const (
	Outstanding Tier = iota
	HighPerformance
	MeetsExpectations
	Developing
	NeedsSupport
)

// Thresholds on the 0..5 scale.
const (
	outstandingMin    = 4.5
	highMin           = 4.0
	meetsMin          = 3.5
	developingMin     = 2.5
	lowCategory       = 3.0
	criticalCategory  = 2.5
	quadrantThreshold = 4.0
	maxFlagged        = 2
)

type tierInfo struct {
	name           string
	color          string
	message        string
	recommendation string
}

var tiers = [...]tierInfo{ //nolint:gochecknoglobals // fixed tier table
	Outstanding: {"Outstanding", "#198754", "Exceeds the standard in every area",
		"Consider for promotion, succession plans or mentoring roles"},
	HighPerformance: {"High-Performance", "#28a745", "Meets every standard of the role",
		"Consider for leadership projects and broader responsibilities"},
	MeetsExpectations: {"Meets-Expectations", "#17a2b8", "Meets the expected standard for the role",
		"Keep a development plan focused on the weakest categories"},
	Developing: {"Developing", "#ffc107", "Needs improvement in: ",
		"Implement a development plan with quarterly follow-up"},
	NeedsSupport: {"Needs-Support", "#dc3545", "Critical gaps in: ",
		"Requires an immediate improvement plan or reassignment"},
}

func (t Tier) String() string {
	if int(t) < len(tiers) {
		return tiers[t].name
	}
	return "Unknown"
}

// MarshalText renders the tier name.
func (t Tier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText parses a tier name, ignoring case.
func (t *Tier) UnmarshalText(b []byte) error {
	i, ok := lookupName(tiers[:], string(b))
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTier, b)
	}
	*t = Tier(i)
	return nil
}

func lookupName(table []tierInfo, name string) (int, bool) {
	name = strings.TrimSpace(name)
	for i, info := range table {
		if strings.EqualFold(info.name, name) {
			return i, true
		}
	}
	return 0, false
}

// Color is the display color of the tier.
func (t Tier) Color() string {
	if int(t) < len(tiers) {
		return tiers[t].color
	}
	return "#6c757d"
}

// Aptitude is a tier with its explanation.
type Aptitude struct {
	Tier           Tier                  `json:"tier"`
	Color          string                `json:"color"`
	Message        string                `json:"message"`
	Recommendation string                `json:"recommendation"`
	Flagged        []competency.Category `json:"flagged,omitempty"`
}

// ClassifyAptitude applies the tier rules top to bottom; the first that
// holds wins. Developing flags up to two categories below 3.0 and
// Needs-Support up to two below 2.5, in the order given.
func ClassifyAptitude(overall float64, categories []CategoryScore) Aptitude {
	below := func(limit float64) []competency.Category {
		var out []competency.Category
		for _, c := range categories {
			if c.Score < limit {
				out = append(out, c.Category)
			}
		}
		return out
	}
	low := below(lowCategory)
	critical := below(criticalCategory)

	var (
		tier    Tier
		flagged []competency.Category
	)
	switch {
	case overall >= outstandingMin:
		tier = Outstanding
	case overall >= highMin && len(low) == 0:
		tier = HighPerformance
	case overall >= meetsMin && len(critical) == 0:
		tier = MeetsExpectations
	case overall >= developingMin:
		tier, flagged = Developing, firstN(low, maxFlagged)
	default:
		tier, flagged = NeedsSupport, firstN(critical, maxFlagged)
	}

	info := tiers[tier]
	msg := info.message
	if tier == Developing || tier == NeedsSupport {
		msg += joinCategories(flagged, "several areas")
	}
	return Aptitude{
		Tier:           tier,
		Color:          info.color,
		Message:        msg,
		Recommendation: info.recommendation,
		Flagged:        flagged,
	}
}

func firstN(cs []competency.Category, n int) []competency.Category {
	if len(cs) > n {
		return cs[:n]
	}
	return cs
}

func joinCategories(cs []competency.Category, fallback string) string {
	if len(cs) == 0 {
		return fallback
	}
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = c.String()
	}
	return strings.Join(names, ", ")
}

// QuadrantKind is a cell of the performance x potential matrix.
type QuadrantKind uint8

const (
	Star QuadrantKind = iota
	SolidContributor
	EmergingTalent
	DevelopingTalent
)

var quadrants = [...]tierInfo{ //nolint:gochecknoglobals // fixed quadrant table
	Star: {"Star", "#28a745", "High performance and high potential: key talent",
		"Retain and develop for senior leadership positions"},
	SolidContributor: {"Solid Contributor", "#17a2b8", "High performance, moderate potential: technical expert",
		"Recognize expertise and consider specialist roles"},
	EmergingTalent: {"Emerging Talent", "#ffc107", "High potential, performance still developing",
		"Intensive mentoring and challenging assignments"},
	DevelopingTalent: {"Developing", "#dc3545", "Needs support in both performance and development",
		"90-day improvement plan with weekly follow-up"},
}

func (q QuadrantKind) String() string {
	if int(q) < len(quadrants) {
		return quadrants[q].name
	}
	return "Unknown"
}

// MarshalText renders the quadrant name.
func (q QuadrantKind) MarshalText() ([]byte, error) { return []byte(q.String()), nil }

// UnmarshalText parses a quadrant name, ignoring case.
func (q *QuadrantKind) UnmarshalText(b []byte) error {
	i, ok := lookupName(quadrants[:], string(b))
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownQuadrant, b)
	}
	*q = QuadrantKind(i)
	return nil
}

// Quadrant is a matrix placement with its explanation.
type Quadrant struct {
	Kind        QuadrantKind `json:"kind"`
	Color       string       `json:"color"`
	Performance float64      `json:"performance"`
	Potential   float64      `json:"potential"`
	Description string       `json:"description"`
	Action      string       `json:"action"`
}

// ClassifyQuadrant places a subject on the 2x2 talent matrix.
func ClassifyQuadrant(performance, potential float64) Quadrant {
	var k QuadrantKind
	switch {
	case performance >= quadrantThreshold && potential >= quadrantThreshold:
		k = Star
	case performance >= quadrantThreshold:
		k = SolidContributor
	case potential >= quadrantThreshold:
		k = EmergingTalent
	default:
		k = DevelopingTalent
	}
	info := quadrants[k]
	return Quadrant{
		Kind:        k,
		Color:       info.color,
		Performance: performance,
		Potential:   potential,
		Description: info.message,
		Action:      info.recommendation,
	}
}

// PotentialOf averages the Leadership, Innovation & Creativity and
// Decision-Making aggregates that exist; 0 when none does.
func PotentialOf(categories []CategoryScore) float64 {
	var sum float64
	n := 0
	for _, c := range categories {
		for _, p := range competency.Potential {
			if c.Category == p {
				sum += c.Score
				n++
			}
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
