package dashboard

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/brightpath/ldscreen/internal/scoring"
	"github.com/brightpath/ldscreen/internal/ui/components"
	"github.com/brightpath/ldscreen/internal/ui/layout"
	"github.com/brightpath/ldscreen/internal/ui/theme"
)

var patternTitles = map[string]string{
	scoring.PatternReading: "Reading",
	scoring.PatternMath:    "Math",
	scoring.PatternFocus:   "Focus",
}

func (s *Screen) View(width, height int) string {
	centered := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if !s.loaded {
		return centered.Foreground(theme.TextDim).Render("\n\nPreparing results...")
	}
	if s.errMsg != "" {
		return centered.Foreground(theme.Error).Render("\n\nCould not load results: " + s.errMsg + "\n\n" +
			theme.Hint.Render("Press R to retry"))
	}

	d := s.dashboard
	inner := min(width-4, 100)

	var b strings.Builder
	b.WriteString(s.renderOverview(d, inner))
	b.WriteString("\n\n")
	b.WriteString(s.renderPatterns(d, inner))
	b.WriteString("\n\n")
	b.WriteString(theme.Subtitle.Render("Progress over time"))
	b.WriteString("\n")
	b.WriteString(components.HistoryChart{Points: s.points, Height: 6}.View(inner))
	if part := s.renderSummary(inner); part != "" {
		b.WriteString("\n\n")
		b.WriteString(part)
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (s *Screen) renderOverview(d scoring.Dashboard, width int) string {
	risk := lipgloss.NewStyle().Bold(true).Foreground(theme.RiskColor(d.RiskLevel)).Render(d.FinalRisk)
	meta := theme.Hint.Render(fmt.Sprintf("Age group %s  ·  %s  ·  Confidence: %s", d.AgeGroup, d.AssessmentDate, d.Confidence))

	gauge := components.ProgressBar{
		Label:   "Risk level",
		Percent: float64(d.RiskLevel) / 100,
		Width:   min(width, 60),
		Caption: fmt.Sprintf("%d%%", d.RiskLevel),
	}

	var b strings.Builder
	b.WriteString(risk + "\n" + meta + "\n\n" + gauge.View())
	if d.Summary != "" {
		b.WriteString("\n\n" + theme.Body.Width(width).Render(d.Summary))
	}
	for _, in := range d.KeyInsights {
		b.WriteString("\n" + theme.Body.Render("• "+in))
	}
	return b.String()
}

func (s *Screen) renderPatterns(d scoring.Dashboard, width int) string {
	cardWidth := max((width-4)/len(scoring.PatternDomains), 20)
	if layout.IsCompactWidth(width) {
		cardWidth = width
	}

	var cards []string
	for _, domain := range scoring.PatternDomains {
		p, ok := d.Patterns[domain]
		if !ok {
			continue
		}
		body := theme.Subtitle.Render(patternTitles[domain]) + "\n" +
			theme.Body.Render(fmt.Sprintf("Accuracy %.0f%%", p.Accuracy)) + "\n" +
			theme.Hint.Render(fmt.Sprintf("Avg time %.1fs", p.AvgTime/1000))
		if p.CommonMistake != "" {
			body += "\n" + theme.Hint.Render("Often: "+p.CommonMistake)
		}
		if p.Recommendation != "" {
			body += "\n\n" + theme.Body.Render(p.Recommendation)
		}
		cards = append(cards, theme.Card.Width(cardWidth).Render(body))
	}
	if len(cards) == 0 {
		return theme.Hint.Render("No domain patterns for this session.")
	}
	if layout.IsCompactWidth(width) {
		return lipgloss.JoinVertical(lipgloss.Left, cards...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (s *Screen) renderSummary(width int) string {
	switch {
	case s.explaining:
		return theme.Hint.Render("Writing a summary for parents...")
	case s.explainErr != "":
		return theme.ErrorText.Render("Summary unavailable: " + s.explainErr)
	case s.summary == nil:
		return ""
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(s.summary.Headline))
	for _, p := range s.summary.Paragraphs {
		b.WriteString("\n\n" + theme.Body.Width(width-4).Render(p))
	}
	if len(s.summary.Activities) > 0 {
		b.WriteString("\n\n" + theme.Subtitle.Render("Try at home"))
		for _, a := range s.summary.Activities {
			b.WriteString("\n" + theme.Body.Render("• "+a))
		}
	}
	return theme.Card.Width(width).Render(b.String())
}
