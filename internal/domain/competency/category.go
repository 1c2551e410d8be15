// Package competency selects the scored survey items and buckets them into
// skill categories.
package competency

import "strings"

// Category is one of the ten fixed skill groupings.
type Category uint8

const (
	Teamwork Category = iota
	Communication
	Leadership
	DecisionMaking
	Planning
	ResourceManagement
	Negotiation
	Innovation
	TimeManagement
	QualityResults
)

// Categories lists every category in matching order.
var Categories = []Category{ //nolint:gochecknoglobals // fixed category order
	Teamwork, Communication, Leadership, DecisionMaking, Planning,
	ResourceManagement, Negotiation, Innovation, TimeManagement, QualityResults,
}

// Potential lists the categories averaged into the potential axis.
var Potential = []Category{Leadership, Innovation, DecisionMaking} //nolint:gochecknoglobals // fixed set

// CatchAll receives competencies no keyword matched.
const CatchAll = QualityResults

type categoryInfo struct {
	name     string
	color    string
	keywords []string
}

// Keywords are matched against the lowercased competency name, accents
// included, in Categories order.
var infos = [...]categoryInfo{ //nolint:gochecknoglobals // fixed category table
	Teamwork:           {"Teamwork", "#667eea", []string{"equipo", "colabora", "trabajo en equipo"}},
	Communication:      {"Communication", "#36d1dc", []string{"comunica", "escucha", "claridad", "respeto"}},
	Leadership:         {"Leadership", "#f093fb", []string{"liderazgo", "manejo de", "gestiona", "subordin"}},
	DecisionMaking:     {"Decision-Making", "#fa709a", []string{"decisiones", "toma de"}},
	Planning:           {"Planning", "#a8edea", []string{"planeación", "planea", "junta", "seguimiento"}},
	ResourceManagement: {"Resource Management", "#ffd166", []string{"recursos", "manejo de", "material"}},
	Negotiation:        {"Negotiation", "#9795f0", []string{"negociación", "negocia", "flexibilidad", "retroalimentación"}},
	Innovation:         {"Innovation & Creativity", "#fbc2eb", []string{"innovadora", "creatividad", "idea", "investiga", "tendencia"}},
	TimeManagement:     {"Time Management", "#38ef7d", []string{"tiempo", "cumple", "programa", "forma"}},
	QualityResults:     {"Quality & Results", "#4facfe", []string{"calidad", "valor", "resultado", "estándar", "mejora"}},
}

func (c Category) String() string {
	if int(c) < len(infos) {
		return infos[c].name
	}
	return "Unknown"
}

// MarshalText renders the category name.
func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText parses a category name.
func (c *Category) UnmarshalText(b []byte) error {
	p, ok := ParseCategory(string(b))
	if !ok {
		return ErrUnknownCategory
	}
	*c = p
	return nil
}

// Color is the display color of the category.
func (c Category) Color() string {
	if int(c) < len(infos) {
		return infos[c].color
	}
	return "#6c757d"
}

// Keywords returns the keywords that select c.
func (c Category) Keywords() []string {
	if int(c) < len(infos) {
		return append([]string(nil), infos[c].keywords...)
	}
	return nil
}

// ParseCategory finds a category by name, case-insensitively.
func ParseCategory(name string) (Category, bool) {
	for _, c := range Categories {
		if strings.EqualFold(c.String(), strings.TrimSpace(name)) {
			return c, true
		}
	}
	return 0, false
}

// CategoryOf assigns a competency name to the first category with a matching
// keyword, or to CatchAll.
func CategoryOf(competency string) Category {
	lower := strings.ToLower(competency)
	for _, c := range Categories {
		for _, kw := range infos[c].keywords {
			if strings.Contains(lower, kw) {
				return c
			}
		}
	}
	return CatchAll
}

// Group is a category with its competencies in source order.
type Group struct {
	Category     Category `json:"category"`
	Competencies []string `json:"competencies"`
}

// Categorize buckets competencies by CategoryOf. Groups come back in
// Categories order; empty categories are omitted.
func Categorize(competencies []string) []Group {
	buckets := make(map[Category][]string, len(Categories))
	for _, name := range competencies {
		c := CategoryOf(name)
		buckets[c] = append(buckets[c], name)
	}
	out := make([]Group, 0, len(buckets))
	for _, c := range Categories {
		if names := buckets[c]; len(names) > 0 {
			out = append(out, Group{Category: c, Competencies: names})
		}
	}
	return out
}
