// Package likert coerces survey answers onto the 1..5 agreement scale.
package likert

import (
	"math"
	"strconv"
	"strings"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/textnorm"
)

// Kind tells how a cell was interpreted.
type Kind uint8

const (
	// Missing cells are blank or were dropped by column-wide coercion.
	Missing Kind = iota
	// Number cells carry a usable value in Num.
	Number
	// Text cells could not be coerced and keep their original text.
	Text
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Text:
		return "text"
	default:
		return "missing"
	}
}

// Value is one coerced survey answer. Raw always keeps the source text.
type Value struct {
	Raw  string
	Kind Kind
	Num  float64
}

// IsNumber reports whether v may take part in aggregates.
func (v Value) IsNumber() bool { return v.Kind == Number }

// scale maps normalized agreement phrases to their score.
var scale = map[string]float64{ //nolint:gochecknoglobals // fixed answer table
	"muy en desacuerdo":     1,
	"en desacuerdo":         2,
	"neutral":               3,
	"de acuerdo":            4,
	"totalmente de acuerdo": 5,
}

// Lookup returns the scale value of an agreement phrase.
func Lookup(answer string) (float64, bool) {
	v, ok := scale[textnorm.Normalize(answer)]
	return v, ok
}

// ParseNumber parses a trimmed decimal. Non-finite values are rejected so
// they never reach an average.
func ParseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Cell coerces one raw answer: blank stays missing, an agreement phrase maps
// to its score, a number passes through, anything else is kept as text.
func Cell(raw string) Value {
	if strings.TrimSpace(raw) == "" {
		return Value{Raw: raw, Kind: Missing}
	}
	if n, ok := Lookup(raw); ok {
		return Value{Raw: raw, Kind: Number, Num: n}
	}
	if n, ok := ParseNumber(raw); ok {
		return Value{Raw: raw, Kind: Number, Num: n}
	}
	return Value{Raw: raw, Kind: Text}
}

// Column coerces every cell of a column. When at least one cell is numeric
// the column is numeric and its remaining text cells become missing;
// otherwise the text is left untouched.
func Column(raws []string) ([]Value, bool) {
	out := make([]Value, len(raws))
	numeric := false
	for i, raw := range raws {
		out[i] = Cell(raw)
		if out[i].Kind == Number {
			numeric = true
		}
	}
	if numeric {
		for i := range out {
			if out[i].Kind == Text {
				out[i].Kind = Missing
			}
		}
	}
	return out, numeric
}
