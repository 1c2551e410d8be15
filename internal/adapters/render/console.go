package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/report"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/scoring"
)

const barWidth = 20

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#667eea")) //nolint:gochecknoglobals // shared styles
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)  //nolint:gochecknoglobals // shared styles
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c757d"))           //nolint:gochecknoglobals // shared styles
)

func badge(text, color string) string {
	return lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color("#ffffff")).
		Background(lipgloss.Color(color)).
		Padding(0, 1).
		Render(text)
}

// Bar draws score on the 0..5 scale as a fixed-width bar.
func Bar(score float64, color string) string {
	filled := int(score/5*barWidth + 0.5)
	filled = max(0, min(barWidth, filled))
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(strings.Repeat("█", filled)) +
		dimStyle.Render(strings.Repeat("░", barWidth-filled))
}

// Console renders a report for a terminal.
type Console struct{}

// Render implements Renderer.
func (Console) Render(w io.Writer, r *report.Report) error {
	var sections []string

	sections = append(sections,
		titleStyle.Render("360 evaluation: "+r.Subject),
		fmt.Sprintf("Overall %.2f / 5.00   %d responses", r.Overall, r.Responses),
	)

	kpis := boxStyle.Render(fmt.Sprintf(
		"Compliance %.1f%%   Consistency %.2f   Percentile %.0f (top %.0f%%)   Gap %.2f (%.1f%%)",
		r.KPIs.Compliance, r.KPIs.Consistency, r.KPIs.Percentile, r.KPIs.TopPercent, r.KPIs.Gap, r.KPIs.GapPercent))
	sections = append(sections, kpis)

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		boxStyle.Render(badge(r.Aptitude.Tier.String(), r.Aptitude.Color)+"\n"+r.Aptitude.Message+"\n"+dimStyle.Render(r.Aptitude.Recommendation)),
		boxStyle.Render(badge(r.Quadrant.Kind.String(), r.Quadrant.Color)+"\n"+r.Quadrant.Description+"\n"+dimStyle.Render(r.Quadrant.Action)),
	)
	sections = append(sections, cards)

	var cats strings.Builder
	for _, a := range r.Achievement {
		fmt.Fprintf(&cats, "%-24s %s %.2f  %5.1f%%\n", a.Category, Bar(a.Score, a.Color), a.Score, a.Percent)
	}
	sections = append(sections, titleStyle.Render("Categories"), strings.TrimRight(cats.String(), "\n"))

	sections = append(sections,
		titleStyle.Render("Strengths")+"  "+joinScores(r.Strengths),
		titleStyle.Render("To improve")+" "+joinScores(r.Weaknesses),
	)

	var raters []string
	for _, rc := range r.Raters {
		raters = append(raters, badge(fmt.Sprintf("%s %d", rc.Group, rc.Count), rc.Color))
	}
	if len(raters) > 0 {
		sections = append(sections, titleStyle.Render("Raters")+" "+strings.Join(raters, " "))
	}

	if len(r.Groups) > 0 {
		var g strings.Builder
		fmt.Fprintf(&g, "%-14s", "")
		for _, c := range r.Categories {
			fmt.Fprintf(&g, " %8.8s", c)
		}
		for _, row := range r.Groups {
			fmt.Fprintf(&g, "\n%-14s", row.Group)
			for _, v := range row.Scores {
				if v == nil {
					fmt.Fprintf(&g, " %8s", "-")
				} else {
					fmt.Fprintf(&g, " %8.2f", *v)
				}
			}
		}
		sections = append(sections, titleStyle.Render("By rater group"), g.String())
	}

	if _, err := io.WriteString(w, lipgloss.JoinVertical(lipgloss.Left, sections...)+"\n"); err != nil {
		return fmt.Errorf("render text: %w", err)
	}
	return nil
}

func joinScores(cs []scoring.CategoryScore) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = fmt.Sprintf("%s %.2f", c.Category, c.Score)
	}
	return strings.Join(parts, ", ")
}

// ContentType implements Renderer.
func (Console) ContentType() string { return "text/plain; charset=utf-8" }

// Extension implements Renderer.
func (Console) Extension() string { return ".txt" }
