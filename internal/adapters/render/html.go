package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/chart"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/report"
)

//go:embed templates/report.html.tmpl
var templates embed.FS

var reportTemplate = template.Must(template.New("report.html.tmpl").Funcs(template.FuncMap{ //nolint:gochecknoglobals // parsed once
	"f0": func(v float64) string { return fmt.Sprintf("%.0f", v) },
	"f1": func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"f2": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"opt": func(v *float64) string {
		if v == nil {
			return "-"
		}
		return fmt.Sprintf("%.2f", *v)
	},
	// Colors come from fixed tables, never from survey data.
	"css": func(s string) template.CSS { return template.CSS(s) }, //nolint:gosec // constant palette
	// SVG escapes every label itself.
	"svg": func(in chart.Intent) template.HTML { return template.HTML(SVG(in)) }, //nolint:gosec // escaped in SVG
}).ParseFS(templates, "templates/report.html.tmpl"))

// HTML renders a self-contained page with inline SVG charts.
type HTML struct{}

// Render implements Renderer.
func (HTML) Render(w io.Writer, r *report.Report) error {
	if err := reportTemplate.Execute(w, r); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// ContentType implements Renderer.
func (HTML) ContentType() string { return "text/html; charset=utf-8" }

// Extension implements Renderer.
func (HTML) Extension() string { return ".html" }
