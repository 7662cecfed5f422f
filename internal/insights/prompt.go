package insights

import (
	"fmt"
	"slices"
	"strings"

	"github.com/brightpath/ldscreen/internal/scoring"
)

const summarySystemPrompt = `You are a warm, careful educational psychologist writing for parents. You explain screening results from a short game-based assessment. The assessment is a screening aid, never a diagnosis, and you say so plainly.`

const feedbackSystemPrompt = `Act as a clinical reading specialist. You judge a child's read-aloud attempt against expected standards for their age group.`

func buildSummaryMessage(d scoring.Dashboard) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Age group: %s\n", d.AgeGroup)
	fmt.Fprintf(&b, "Result: %s (confidence: %s)\n", d.FinalRisk, d.Confidence)
	fmt.Fprintf(&b, "Summary: %s\n", d.Summary)

	b.WriteString("\nKey observations:\n")
	if len(d.KeyInsights) == 0 {
		b.WriteString("None\n")
	}
	for _, in := range d.KeyInsights {
		fmt.Fprintf(&b, "- %s\n", in)
	}

	b.WriteString("\nBy area:\n")
	for _, name := range patternOrder(d.Patterns) {
		p := d.Patterns[name]
		fmt.Fprintf(&b, "- %s: %.1f%% accuracy, %.0f ms average, most common mistake: %s\n",
			name, p.Accuracy, p.AvgTime, p.CommonMistake)
	}

	b.WriteString(`
Instructions:
1. Write a one-sentence headline a parent can read at a glance.
2. Explain the results in 2-3 short paragraphs. Avoid clinical jargon. Mention that only a qualified professional can make a diagnosis.
3. Suggest 2-4 playful activities to try at home that target the weakest area.
4. Use plain text. No markdown.`)
	return b.String()
}

// patternOrder lists dashboard domains in display order, then any extras
// alphabetically.
func patternOrder(patterns map[string]scoring.DomainPattern) []string {
	var order, extra []string
	for _, name := range scoring.PatternDomains {
		if _, ok := patterns[name]; ok {
			order = append(order, name)
		}
	}
	for name := range patterns {
		if !slices.Contains(scoring.PatternDomains, name) {
			extra = append(extra, name)
		}
	}
	slices.Sort(extra)
	return append(order, extra...)
}

func buildFeedbackMessage(in Reading) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Age group: %s\n", in.AgeGroup)
	fmt.Fprintf(&b, "Passage: %q\n", in.Target)
	fmt.Fprintf(&b, "What the student produced: %q\n", in.Transcript)
	fmt.Fprintf(&b, "Time taken: %.1f seconds (%d words per minute)\n", in.Elapsed.Seconds(), in.WPM())

	fmt.Fprintf(&b, `
Instructions:
1. Judge pace relative to what is typical for a %s year old.
2. List the passage words that were missed or garbled.
3. Infer the emotional state from the attempt: Confident, Anxious, Frustrated or Neutral.
4. Set risk_flag only if performance is significantly below age expectations.
5. Recommend 2-3 specific, age-appropriate exercises based on the errors.`, in.AgeGroup)
	return b.String()
}
