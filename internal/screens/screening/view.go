package screening

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/brightpath/ldscreen/internal/assessment"
	"github.com/brightpath/ldscreen/internal/report"
	"github.com/brightpath/ldscreen/internal/ui/components"
	"github.com/brightpath/ldscreen/internal/ui/layout"
	"github.com/brightpath/ldscreen/internal/ui/theme"
)

const cardWidth = 64

func (s *Screen) View(width, height int) string {
	var body string
	switch s.engine.Phase() {
	case assessment.PhaseWelcome:
		body = s.renderWelcome()
	case assessment.PhaseLoading:
		body = theme.Hint.Render("Loading...")
	case assessment.PhaseQuestion:
		body = s.renderQuestion()
	case assessment.PhaseComplete:
		body = s.renderComplete()
	case assessment.PhaseError:
		body = s.renderError()
	}
	if s.notice != "" {
		body += "\n\n" + theme.ErrorText.Render(s.notice)
	}
	return layout.Centered(body, width, height)
}

func (s *Screen) renderWelcome() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Let's play a thinking game!"))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render("You will see about 15 short questions about reading,\nwriting, numbers and paying attention. Take your time."))
	b.WriteString("\n\n")
	b.WriteString(theme.Subtitle.Render("How old is the player?"))
	b.WriteString("\n\n")
	b.WriteString(s.ages.View())
	return b.String()
}

func (s *Screen) renderQuestion() string {
	q, _ := s.engine.Question()
	n := s.engine.QuestionNumber()

	progress := components.ProgressBar{
		Label:   fmt.Sprintf("Question %d", n),
		Percent: min(float64(s.engine.Answered())/expectedQuestions, 1),
		Width:   cardWidth,
		Caption: fmt.Sprintf("%d answered", s.engine.Answered()),
	}

	domain := lipgloss.NewStyle().Foreground(theme.Accent).Render(strings.ToUpper(string(q.Domain)))
	card := theme.Card.Width(cardWidth).Render(
		domain + "\n\n" + theme.Body.Bold(true).Render(q.Text) + "\n\n" + s.options.View(),
	)

	submit := components.Button{Label: "Submit", Enabled: s.engine.CanSubmit()}
	return progress.View() + "\n\n" + card + "\n\n" + submit.View()
}

func (s *Screen) renderComplete() string {
	res := s.engine.Result()
	if res == nil {
		return theme.Title.Render("All done!") + "\n\n" +
			theme.Body.Render("The service had no questions for this session.")
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("Assessment complete!"))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Bold(true).Render(report.RiskLabel(res.Risk)))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("Confidence: %s  ·  %d questions answered", res.ConfidenceLevel, s.engine.Answered())))
	if len(res.KeyInsights) > 0 {
		b.WriteString("\n\n")
		for _, in := range res.KeyInsights {
			b.WriteString(theme.Body.Render("• " + in))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("This is a screening aid, not a diagnosis."))
	return theme.Card.Width(cardWidth).Render(b.String())
}

func (s *Screen) renderError() string {
	return theme.ErrorText.Render("Something went wrong") + "\n\n" +
		theme.Body.Render(s.engine.ErrMessage()) + "\n\n" +
		theme.Hint.Render("Press Enter to try again")
}
