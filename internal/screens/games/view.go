package games

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/brightpath/ldscreen/internal/tasks"
	"github.com/brightpath/ldscreen/internal/timing"
	"github.com/brightpath/ldscreen/internal/ui/components"
	"github.com/brightpath/ldscreen/internal/ui/layout"
	"github.com/brightpath/ldscreen/internal/ui/theme"
)

const stageWidth = 56

func (s *PlayScreen) View(width, height int) string {
	var body string
	switch s.phase {
	case phaseFailed:
		body = theme.ErrorText.Render("Could not start the game: " + s.errMsg)
	case phaseDone:
		body = s.renderSummary()
	default:
		body = s.renderItem()
	}
	return layout.Centered(body, width, height)
}

func (s *PlayScreen) renderItem() string {
	progress := components.ProgressBar{
		Label:   s.info.Title,
		Percent: float64(s.index) / float64(max(s.round.Len(), 1)),
		Width:   stageWidth,
		Caption: fmt.Sprintf("%d/%d", s.index+1, s.round.Len()),
	}

	var stage string
	if s.isReadAloud() {
		stage = s.renderReading()
	} else {
		stage = s.renderStimulus(s.round.Stimuli[s.index])
	}

	out := progress.View() + "\n\n" + theme.Card.Width(stageWidth).Render(stage)
	if s.phase == phaseFeedback {
		style := theme.Incorrect
		if s.correct {
			style = theme.Correct
		}
		out += "\n\n" + style.Render(s.outcome)
	}
	return out
}

func (s *PlayScreen) renderStimulus(st tasks.Stimulus) string {
	big := lipgloss.NewStyle().Bold(true).Padding(1, 0)

	switch st := st.(type) {
	case tasks.Cue:
		if st.Go {
			return big.Foreground(theme.Success).Render("● GO") + "\n" + theme.Hint.Render("Press space now!")
		}
		return big.Foreground(theme.Error).Render("● STOP") + "\n" + theme.Hint.Render("Hold still...")

	case tasks.PatternItem:
		seq := strings.Join(st.Context, " ")
		return theme.Body.Render(seq+"  "+seq+"  ") + big.Foreground(theme.Accent).Render(st.Item) + "\n" +
			theme.Hint.Render(fmt.Sprintf("Press space if the last shape breaks the pattern (%ds)", int(timing.TaskTimeout.Seconds())))

	case tasks.LetterChoice:
		return theme.Body.Render("Find the letter") + big.Foreground(theme.Accent).Render("  "+st.Target) + "\n" + s.options.View()

	case tasks.MagnitudePair:
		return theme.Body.Render("Which number is bigger?") + "\n\n" + s.options.View()

	case tasks.EquationMatch:
		return theme.Body.Render("What is") + big.Foreground(theme.Accent).Render("  "+st.Equation+" ?") + "\n" + s.options.View()
	}
	return ""
}

func (s *PlayScreen) renderReading() string {
	target := theme.Body.Bold(true).Render(s.round.Sentences[s.index])
	return theme.Hint.Render("Read this sentence out loud, then type it:") + "\n\n" +
		target + "\n\n" + s.input.View()
}

func (s *PlayScreen) renderSummary() string {
	sum := s.tally.Summary()

	var b strings.Builder
	b.WriteString(theme.Title.Render("Round complete!"))
	b.WriteString("\n\n")
	b.WriteString(components.ProgressBar{
		Label:   "Accuracy",
		Percent: sum.Accuracy,
		Width:   stageWidth,
		Caption: components.Percent(sum.Accuracy),
	}.View())
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("%d of %d responses correct", sum.Correct, sum.Trials)))
	if s.withheld > 0 {
		b.WriteString("\n" + theme.Body.Render(fmt.Sprintf("Held still %d times", s.withheld)))
	}
	if sum.Trials > 0 {
		b.WriteString("\n" + theme.Hint.Render(fmt.Sprintf("Average response %.1fs", sum.MeanResponseMs/1000)))
	}
	if sum.TimedOut > 0 {
		b.WriteString("\n" + theme.Hint.Render(fmt.Sprintf("%d timed out", sum.TimedOut)))
	}
	if sum.CharMistakes > 0 {
		b.WriteString("\n" + theme.Hint.Render(fmt.Sprintf("%d letters differed", sum.CharMistakes)))
	}
	for _, m := range sum.Mistakes {
		b.WriteString("\n" + theme.Hint.Render(fmt.Sprintf("• %s × %d", humanize(m.Tag), m.Count)))
	}

	switch {
	case s.coaching:
		b.WriteString("\n\n" + theme.Hint.Render("Listening back..."))
	case s.feedbackErr != "":
		b.WriteString("\n\n" + theme.ErrorText.Render("Feedback unavailable: "+s.feedbackErr))
	case s.feedback != nil:
		b.WriteString("\n\n" + s.renderFeedback())
	}
	return theme.Card.Width(stageWidth + 4).Render(b.String())
}

func (s *PlayScreen) renderFeedback() string {
	fb := s.feedback
	var b strings.Builder
	b.WriteString(theme.Subtitle.Render("Reading feedback"))
	b.WriteString("\n" + theme.Body.Width(stageWidth).Render(fb.Summary))
	b.WriteString("\n" + theme.Hint.Render(fmt.Sprintf("%d words/min  ·  accuracy %d/100  ·  %s", fb.SpeedWPM, fb.AccuracyScore, fb.EmotionalState)))
	if len(fb.StruggleWords) > 0 {
		b.WriteString("\n" + theme.Hint.Render("Tricky words: "+strings.Join(fb.StruggleWords, ", ")))
	}
	if fb.Recommendation != "" {
		b.WriteString("\n" + theme.Body.Width(stageWidth).Render(fb.Recommendation))
	}
	return b.String()
}
