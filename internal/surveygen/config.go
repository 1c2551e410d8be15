package surveygen

import "time"

// Config controls the shape of a generated survey.
type Config struct {
	Subjects     int       // number of evaluated people
	MinRaters    int       // raters per subject besides the self-evaluation
	MaxRaters    int       // upper bound for MinRaters
	Competencies []string  // Likert questions, in column order
	TextShare    float64   // fraction of responses written to the text tab
	MissingRate  float64   // fraction of answers left blank
	Seed         uint64    // same seed, same survey
	Start        time.Time // timestamp of the first response
}

// DefaultConfig returns a small survey covering every category.
func DefaultConfig() Config {
	return Config{
		Subjects:     12,
		MinRaters:    3,
		MaxRaters:    7,
		Competencies: DefaultCompetencies(),
		TextShare:    0.3,
		MissingRate:  0.02,
		Seed:         360,
		Start:        time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC),
	}
}

// DefaultCompetencies returns one question per category of the standard form.
func DefaultCompetencies() []string {
	return []string{
		"Trabajo en equipo y colaboración",
		"Comunicación clara y respetuosa",
		"Liderazgo y manejo de personal",
		"Toma de decisiones",
		"Planeación y seguimiento de proyectos",
		"Uso eficiente de recursos y material",
		"Negociación y flexibilidad",
		"Propone ideas innovadoras",
		"Cumple con los tiempos de entrega",
		"Calidad de los resultados",
	}
}
