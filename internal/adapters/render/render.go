// Package render lays out a report as HTML, JSON or terminal text.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/report"
)

// Format names an output format.
type Format string

const (
	FormatHTML Format = "html"
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ErrUnknownFormat is returned for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown report format")

// Renderer writes a report in one format.
type Renderer interface {
	Render(w io.Writer, r *report.Report) error
	ContentType() string
	Extension() string
}

// ParseFormat validates a format name; empty means HTML.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatHTML, nil
	case FormatHTML, FormatJSON, FormatText:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// For returns the renderer of f.
func For(f Format) (Renderer, error) {
	switch f {
	case FormatHTML:
		return HTML{}, nil
	case FormatJSON:
		return JSON{Indent: true}, nil
	case FormatText:
		return Console{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// JSON writes the report model as JSON.
type JSON struct {
	Indent bool
}

// Render implements Renderer.
func (j JSON) Render(w io.Writer, r *report.Report) error {
	enc := json.NewEncoder(w)
	if j.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// ContentType implements Renderer.
func (JSON) ContentType() string { return "application/json" }

// Extension implements Renderer.
func (JSON) Extension() string { return ".json" }
