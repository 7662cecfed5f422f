package report

import (
	"fmt"
	"math"

	"github.com/brightpath/ldscreen/internal/scoring"
)

// Scores are per-condition risk estimates in [0,1].
type Scores struct {
	Dyslexia    float64
	Dyscalculia float64
	Attention   float64
}

// Prediction is the outcome of Predict.
type Prediction struct {
	Risk            string
	ConfidenceLevel string
	KeyInsights     []string
	Scores          Scores
}

// Result converts p to the wire shape returned by EndSession.
func (p Prediction) Result() scoring.AssessmentResult {
	return scoring.AssessmentResult{
		Risk:            p.Risk,
		ConfidenceLevel: p.ConfidenceLevel,
		KeyInsights:     p.KeyInsights,
	}
}

const (
	lowRiskBelow       = 0.3
	highConfidence     = 0.7
	moderateConfidence = 0.4

	maxInsights = 5
)

// Predict applies the rule-based risk estimate to rs. It is a stand-in for
// a trained classifier and makes no clinical claim.
func Predict(rs []Response) Prediction {
	f := Extract(rs)
	s := Scores{
		Dyslexia: math.Min(1,
			(1-f.Accuracy)*0.4+(1-f.ReadingAccuracy)*0.3+float64(f.LetterReversals)/5*0.3),
		Dyscalculia: math.Min(1,
			(1-f.Accuracy)*0.3+(1-f.MathAccuracy)*0.4+f.AvgResponseTime/5000*0.3),
		Attention: math.Min(1,
			f.AvgResponseTime/5000*0.5+(1-f.Accuracy)*0.3+f.ErrorRate*0.2),
	}

	// Ties resolve in this order.
	label, top := scoring.RiskDyslexia, s.Dyslexia
	if s.Dyscalculia > top {
		label, top = scoring.RiskDyscalculia, s.Dyscalculia
	}
	if s.Attention > top {
		label, top = scoring.RiskAttention, s.Attention
	}

	conf := "low"
	switch {
	case top > highConfidence:
		conf = "high"
	case top > moderateConfidence:
		conf = "moderate"
	}
	if top < lowRiskBelow {
		label = scoring.RiskLow
	}

	return Prediction{
		Risk:            label,
		ConfidenceLevel: conf,
		KeyInsights:     Insights(f),
		Scores:          s,
	}
}

// Insights lists up to five observations derived from f.
func Insights(f Features) []string {
	var out []string
	if f.LetterReversals >= 2 {
		out = append(out, fmt.Sprintf("Frequent letter reversals observed (%d instances)", f.LetterReversals))
	}
	if f.AvgResponseTime > 3000 {
		out = append(out, "Reading speed slower than age norm")
	}
	if f.Accuracy < 0.6 {
		out = append(out, fmt.Sprintf("Overall accuracy below expected level (%.0f%%)", f.Accuracy*100))
	}
	if f.ReadingAccuracy < 0.5 && f.ReadingAccuracy < f.MathAccuracy {
		out = append(out, "Difficulty with reading-based tasks compared to math")
	}
	if f.MathAccuracy < 0.5 && f.MathAccuracy < f.ReadingAccuracy {
		out = append(out, "Difficulty with math-based tasks compared to reading")
	}
	if f.Consistency > 1500 {
		out = append(out, "High variability in response times may indicate attention difficulties")
	}

	if len(out) == 0 {
		if f.Accuracy > 0.7 {
			return []string{"Performance within normal range"}
		}
		return []string{"Some areas may benefit from additional assessment"}
	}
	if len(out) > maxInsights {
		out = out[:maxInsights]
	}
	return out
}
