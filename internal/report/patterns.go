package report

import (
	"math"

	"github.com/brightpath/ldscreen/internal/diagnosis"
	"github.com/brightpath/ldscreen/internal/scoring"
)

// PatternDomain maps a question domain onto the dashboard domain it is
// reported under. Writing folds into reading and attention into focus.
func PatternDomain(d diagnosis.Domain) string {
	switch d {
	case diagnosis.DomainReading, diagnosis.DomainWriting:
		return scoring.PatternReading
	case diagnosis.DomainMath:
		return scoring.PatternMath
	case diagnosis.DomainAttention:
		return scoring.PatternFocus
	}
	return string(d)
}

// Patterns summarizes rs per dashboard domain. Every domain in
// scoring.PatternDomains is present in the result.
func Patterns(rs []Response) map[string]scoring.DomainPattern {
	byDomain := make(map[string][]Response)
	for _, r := range rs {
		d := PatternDomain(r.Domain)
		byDomain[d] = append(byDomain[d], r)
	}

	out := make(map[string]scoring.DomainPattern, len(scoring.PatternDomains))
	for _, d := range scoring.PatternDomains {
		out[d] = pattern(d, byDomain[d])
	}
	return out
}

func pattern(domain string, rs []Response) scoring.DomainPattern {
	if len(rs) == 0 {
		return scoring.DomainPattern{
			CommonMistake:  "No data",
			Recommendation: "Complete more questions in this domain for analysis.",
		}
	}

	var correct int
	var total float64
	var mistakes []diagnosis.Tag
	for _, r := range rs {
		total += float64(r.ResponseTimeMs)
		if r.Correct {
			correct++
		} else if r.MistakeType != "" {
			mistakes = append(mistakes, r.MistakeType)
		}
	}
	acc := float64(correct) / float64(len(rs)) * 100
	avg := total / float64(len(rs))

	return scoring.DomainPattern{
		Accuracy:       round1(acc),
		AvgTime:        round1(avg),
		CommonMistake:  CommonMistake(mistakes),
		Recommendation: Recommendation(domain, acc, avg),
	}
}

// CommonMistake returns the readable name of the most frequent tag, or
// "None". Ties go to the tag seen first.
func CommonMistake(tags []diagnosis.Tag) string {
	if len(tags) == 0 {
		return "None"
	}
	counts := make(map[diagnosis.Tag]int, len(tags))
	for _, t := range tags {
		counts[t]++
	}
	best := tags[0]
	for _, t := range tags {
		if counts[t] > counts[best] {
			best = t
		}
	}
	return diagnosis.Label(best)
}

// Recommendation returns guidance for a dashboard domain given its accuracy
// percentage and average response time.
func Recommendation(domain string, accuracy, avgTimeMs float64) string {
	switch domain {
	case scoring.PatternReading:
		switch {
		case accuracy < 60:
			return "Use highlighted letters, phonics-based games, and short reading chunks. Consider multisensory learning approaches."
		case accuracy < 75:
			return "Continue with phonics practice. Gradually increase reading complexity with guided support."
		}
		return "Reading skills are developing well. Encourage independent reading with age-appropriate materials."
	case scoring.PatternMath:
		switch {
		case accuracy < 60:
			return "Use visual aids, manipulatives, and step-by-step problem solving. Break down complex problems into smaller steps."
		case accuracy < 75:
			return "Practice with concrete examples and visual representations. Reinforce foundational concepts."
		}
		return "Math skills are age-appropriate. Introduce more challenging problems to maintain engagement."
	case scoring.PatternFocus:
		switch {
		case accuracy < 60 || avgTimeMs < 800:
			return "Short tasks with clear visual cues and structured breaks are helpful. Minimize distractions during work time."
		case accuracy < 75:
			return "Use timers and checklists to improve task completion. Provide positive reinforcement for sustained attention."
		}
		return "Attention span is within normal range. Continue with current strategies and gradually increase task duration."
	}
	return "Continue current learning approach and monitor progress."
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
