package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/brightpath/ldscreen/internal/history"
	"github.com/brightpath/ldscreen/internal/ui/theme"
)

// eighths are the partial block glyphs, from empty to full.
var eighths = []string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

// Series is one bar within a session group.
type Series struct {
	Name  string
	Color color.Color
	Value func(history.Entry) float64
}

// RiskSeries are the three per-condition scores, in legend order.
var RiskSeries = []Series{
	{"Dyslexia", theme.Dyslexia, func(e history.Entry) float64 { return e.DyslexiaScore }},
	{"Dyscalculia", theme.Dyscalculia, func(e history.Entry) float64 { return e.DyscalculiaScore }},
	{"Attention", theme.Attention, func(e history.Entry) float64 { return e.AttentionScore }},
}

const axisWidth = 5 // "100% "

// HistoryChart renders grouped vertical bars, one group per session, with
// a dotted column between calendar days and each day's label underneath.
type HistoryChart struct {
	Points []history.Point
	Height int
}

// groupWidth is the bars of one session plus a gap.
func groupWidth() int { return len(RiskSeries) + 1 }

func pointWidth(p history.Point) int {
	if p.Spacer {
		return 2
	}
	return groupWidth()
}

// visible returns the most recent points that fit in width columns, never
// starting with a spacer.
func (c HistoryChart) visible(width int) []history.Point {
	used := 0
	start := len(c.Points)
	for i := len(c.Points) - 1; i >= 0; i-- {
		w := pointWidth(c.Points[i])
		if used+w > width {
			break
		}
		used += w
		start = i
	}
	for start < len(c.Points) && c.Points[start].Spacer {
		start++
	}
	return c.Points[start:]
}

// View renders the chart into width columns. An empty chart renders a
// friendly placeholder.
func (c HistoryChart) View(width int) string {
	if len(history.Sessions(c.Points)) == 0 {
		return theme.Hint.Render("No past sessions yet. Finish an assessment to start tracking progress.")
	}
	height := max(c.Height, 4)
	points := c.visible(max(width-axisWidth, groupWidth()))

	dim := lipgloss.NewStyle().Foreground(theme.Border)
	var rows []string
	for row := height - 1; row >= 0; row-- {
		var b strings.Builder
		switch row {
		case height - 1:
			b.WriteString(dim.Render("100% "))
		case 0:
			b.WriteString(dim.Render("  0% "))
		default:
			b.WriteString(strings.Repeat(" ", axisWidth))
		}
		for _, p := range points {
			if p.Spacer {
				b.WriteString(dim.Render("┊ "))
				continue
			}
			for _, s := range RiskSeries {
				b.WriteString(lipgloss.NewStyle().Foreground(s.Color).Render(bar(s.Value(p.Entry), row, height)))
			}
			b.WriteString(" ")
		}
		rows = append(rows, b.String())
	}
	rows = append(rows, strings.Repeat(" ", axisWidth)+labelRow(points))
	rows = append(rows, "", legend())
	return strings.Join(rows, "\n")
}

// bar returns the glyph of a bar with value v in [0,1] at row, counted from
// the bottom of a chart height rows tall.
func bar(v float64, row, height int) string {
	v = min(max(v, 0), 1)
	total := int(v*float64(height*8) + 0.5)
	fill := min(max(total-row*8, 0), 8)
	return eighths[fill]
}

// labelRow places each day label under its first session. A label that
// would overlap the previous one is dropped.
func labelRow(points []history.Point) string {
	var b strings.Builder
	col, end := 0, 0
	for _, p := range points {
		if p.Label != "" && col >= end {
			if pad := col - runewidth.StringWidth(b.String()); pad > 0 {
				b.WriteString(strings.Repeat(" ", pad))
			}
			b.WriteString(p.Label)
			end = col + runewidth.StringWidth(p.Label) + 1
		}
		col += pointWidth(p)
	}
	return lipgloss.NewStyle().Foreground(theme.TextDim).Render(b.String())
}

func legend() string {
	parts := make([]string, 0, len(RiskSeries))
	for _, s := range RiskSeries {
		parts = append(parts, lipgloss.NewStyle().Foreground(s.Color).Render("█ "+s.Name))
	}
	return strings.Join(parts, "   ")
}

// Percent formats a score in [0,1] as a whole percentage.
func Percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

// FitCell pads or truncates s to exactly width terminal columns.
func FitCell(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}
