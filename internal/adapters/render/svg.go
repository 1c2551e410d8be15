package render

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/chart"
)

// SVG draws a chart intent as a standalone inline SVG element.
func SVG(in chart.Intent) string {
	switch in.Kind {
	case chart.KindRadar:
		return radarSVG(in)
	case chart.KindScatter:
		return scatterSVG(in)
	case chart.KindBars:
		return barsSVG(in)
	case chart.KindDonut:
		return donutSVG(in)
	default:
		return ""
	}
}

func esc(s string) string { return html.EscapeString(s) }

func scale(v, lo, hi, length float64) float64 {
	if hi <= lo {
		return 0
	}
	v = math.Max(lo, math.Min(hi, v))
	return (v - lo) / (hi - lo) * length
}

func dash(s chart.Style) string {
	switch s {
	case chart.StyleDashed:
		return ` stroke-dasharray="6 4"`
	case chart.StyleDotted:
		return ` stroke-dasharray="2 3"`
	default:
		return ""
	}
}

func open(b *strings.Builder, w, h int, in chart.Intent) {
	fmt.Fprintf(b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" class="chart chart-%s" role="img" aria-label="%s">`,
		w, h, in.Kind, esc(in.Title))
	fmt.Fprintf(b, `<title>%s</title>`, esc(in.Title))
}

const (
	radarSize   = 460
	radarRadius = 150.0
)

func radarSVG(in chart.Intent) string {
	var b strings.Builder
	open(&b, radarSize, radarSize, in)
	cx, cy := radarSize/2.0, radarSize/2.0
	n := len(in.Labels)
	if n == 0 {
		b.WriteString(`</svg>`)
		return b.String()
	}
	at := func(i int, v float64) (float64, float64) {
		a := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
		r := scale(v, in.Min, in.Max, radarRadius)
		return cx + r*math.Cos(a), cy + r*math.Sin(a)
	}
	poly := func(vals func(i int) float64) string {
		pts := make([]string, n)
		for i := 0; i < n; i++ {
			x, y := at(i, vals(i))
			pts[i] = fmt.Sprintf("%.1f,%.1f", x, y)
		}
		return strings.Join(pts, " ")
	}

	for i := 0; i < n; i++ {
		x, y := at(i, in.Max)
		fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#e9ecef"/>`, cx, cy, x, y)
	}
	fmt.Fprintf(&b, `<polygon points="%s" fill="white" stroke="#e9ecef"/>`, poly(func(int) float64 { return in.Max }))
	for _, ref := range in.References {
		fmt.Fprintf(&b, `<polygon points="%s" fill="%s" fill-opacity="0.08" stroke="%s" stroke-dasharray="2 3"><title>%s</title></polygon>`,
			poly(func(int) float64 { return ref.Value }), ref.Color, ref.Color, esc(ref.Label))
	}
	for _, s := range in.Series {
		fill := "none"
		if s.Fill {
			fill = s.Color
		}
		fmt.Fprintf(&b, `<polygon points="%s" fill="%s" fill-opacity="0.3" stroke="%s" stroke-width="2"%s><title>%s</title></polygon>`,
			poly(func(i int) float64 { return valueAt(s.Values, i, in.Min) }), fill, s.Color, dash(s.Style), esc(s.Name))
	}
	for i, l := range in.Labels {
		x, y := at(i, in.Max+(in.Max-in.Min)*0.12)
		anchor := "middle"
		if x < cx-5 {
			anchor = "end"
		} else if x > cx+5 {
			anchor = "start"
		}
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-size="11" text-anchor="%s">%s</text>`, x, y, anchor, esc(l))
	}
	legend(&b, in.Series, 10, radarSize-14*len(in.Series)-4)
	b.WriteString(`</svg>`)
	return b.String()
}

func valueAt(vs []*float64, i int, fallback float64) float64 {
	if i < len(vs) && vs[i] != nil {
		return *vs[i]
	}
	return fallback
}

func legend(b *strings.Builder, series []chart.Series, x, y int) {
	for i, s := range series {
		yy := y + i*14
		fmt.Fprintf(b, `<rect x="%d" y="%d" width="10" height="10" fill="%s"/><text x="%d" y="%d" font-size="11">%s</text>`,
			x, yy, s.Color, x+14, yy+9, esc(s.Name))
	}
}

const (
	plotSize   = 420
	plotMargin = 45.0
)

func scatterSVG(in chart.Intent) string {
	var b strings.Builder
	open(&b, plotSize, plotSize, in)
	inner := plotSize - 2*plotMargin
	px := func(v float64) float64 { return plotMargin + scale(v, in.Min, in.Max, inner) }
	py := func(v float64) float64 { return plotSize - plotMargin - scale(v, in.Min, in.Max, inner) }

	fmt.Fprintf(&b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="white" stroke="#dee2e6"/>`, plotMargin, plotMargin, inner, inner)
	for _, ref := range in.References {
		switch ref.Axis {
		case "x":
			fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-dasharray="6 4"/>`,
				px(ref.Value), plotMargin, px(ref.Value), plotSize-plotMargin, ref.Color)
		case "y":
			fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-dasharray="6 4"/>`,
				plotMargin, py(ref.Value), plotSize-plotMargin, py(ref.Value), ref.Color)
		}
	}
	for _, p := range in.Points {
		r, opacity := 5, 0.5
		if p.Highlight {
			r, opacity = 10, 1
		}
		fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="%d" fill="%s" fill-opacity="%.1f" stroke="white"><title>%s (%.2f, %.2f)</title></circle>`,
			px(p.X), py(p.Y), r, p.Color, opacity, esc(p.Label), p.X, p.Y)
		if p.Highlight {
			fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-size="12" font-weight="bold" text-anchor="middle">%s</text>`,
				px(p.X), py(p.Y)-14, esc(p.Label))
		}
	}
	fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="12" text-anchor="middle">%s</text>`, plotSize/2, plotSize-10, esc(in.XLabel))
	fmt.Fprintf(&b, `<text x="14" y="%d" font-size="12" text-anchor="middle" transform="rotate(-90 14 %d)">%s</text>`,
		plotSize/2, plotSize/2, esc(in.YLabel))
	b.WriteString(`</svg>`)
	return b.String()
}

const (
	barsWidth  = 640
	barsHeight = 340
)

func barsSVG(in chart.Intent) string {
	var b strings.Builder
	open(&b, barsWidth, barsHeight, in)
	left, bottom := plotMargin, float64(barsHeight)-70
	width := float64(barsWidth) - left - 10
	height := bottom - 30
	py := func(v float64) float64 { return bottom - scale(v, in.Min, in.Max, height) }

	for v := in.Min; v <= in.Max; v++ {
		fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#f0f0f0"/><text x="%.1f" y="%.1f" font-size="10" text-anchor="end">%.0f</text>`,
			left, py(v), left+width, py(v), left-4, py(v)+3, v)
	}
	n := len(in.Labels)
	if n > 0 && len(in.Series) > 0 {
		group := width / float64(n)
		bar := group * 0.8 / float64(len(in.Series))
		for i, l := range in.Labels {
			x0 := left + float64(i)*group + group*0.1
			for j, s := range in.Series {
				if i >= len(s.Values) || s.Values[i] == nil {
					continue
				}
				v := *s.Values[i]
				fmt.Fprintf(&b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"><title>%s: %.2f</title></rect>`,
					x0+float64(j)*bar, py(v), bar, bottom-py(v), s.Color, esc(s.Name), v)
			}
			tx := left + float64(i)*group + group/2
			fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-size="10" text-anchor="end" transform="rotate(-35 %.1f %.1f)">%s</text>`,
				tx, bottom+14, tx, bottom+14, esc(l))
		}
	}
	legend(&b, in.Series, int(left), 6)
	b.WriteString(`</svg>`)
	return b.String()
}

const donutRadius = 50.0

func donutSVG(in chart.Intent) string {
	var b strings.Builder
	open(&b, 140, 140, in)
	circ := 2 * math.Pi * donutRadius
	offset := 0.0
	var achieved float64
	for i, s := range in.Slices {
		if i == 0 {
			achieved = s.Percent
		}
		l := s.Percent / 100 * circ
		fmt.Fprintf(&b, `<circle cx="70" cy="70" r="%.0f" fill="none" stroke="%s" stroke-width="16" stroke-dasharray="%.2f %.2f" stroke-dashoffset="%.2f" transform="rotate(-90 70 70)"><title>%s: %.1f%%</title></circle>`,
			donutRadius, s.Color, l, circ-l, -offset, esc(s.Label), s.Percent)
		offset += l
	}
	fmt.Fprintf(&b, `<text x="70" y="76" font-size="18" font-weight="bold" text-anchor="middle">%.0f%%</text>`, achieved)
	b.WriteString(`</svg>`)
	return b.String()
}
