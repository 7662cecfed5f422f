package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/brightpath/ldscreen/internal/scoring"
)

// DateLayout formats Dashboard.AssessmentDate.
const DateLayout = "January 02, 2006"

var riskLabels = map[string]string{
	scoring.RiskLow:         "Low Risk - No Significant Concerns",
	scoring.RiskDyslexia:    "Possible Dyslexia-related Risk",
	scoring.RiskDyscalculia: "Possible Dyscalculia-related Risk",
	scoring.RiskAttention:   "Possible Attention-related Risk",
}

var riskLevels = map[string]int{
	"low":      30,
	"moderate": 60,
	"high":     85,
}

const defaultRiskLevel = 50

// RiskLabel returns the display name of a risk label.
func RiskLabel(risk string) string {
	if l, ok := riskLabels[risk]; ok {
		return l
	}
	return risk
}

// Input is everything needed to assemble a dashboard. Result is nil while
// the session is still in progress.
type Input struct {
	UserID    int64
	AgeGroup  string
	StartedAt time.Time
	Responses []Response
	Result    *scoring.AssessmentResult
}

// Dashboard assembles the dashboard view for one session.
func Dashboard(in Input) scoring.Dashboard {
	d := scoring.Dashboard{
		StudentID:      fmt.Sprintf("STU-%d", in.UserID),
		AgeGroup:       in.AgeGroup,
		FinalRisk:      "Assessment In Progress",
		Confidence:     "N/A",
		AssessmentDate: in.StartedAt.Format(DateLayout),
		KeyInsights:    []string{},
		Patterns:       Patterns(in.Responses),
	}
	if r := in.Result; r != nil {
		d.FinalRisk = RiskLabel(r.Risk)
		d.Confidence = capitalize(r.ConfidenceLevel)
		d.RiskLevel = defaultRiskLevel
		if lvl, ok := riskLevels[r.ConfidenceLevel]; ok {
			d.RiskLevel = lvl
		}
		if r.KeyInsights != nil {
			d.KeyInsights = r.KeyInsights
		}
	}

	d.Summary = "Assessment completed. Review the domain analysis below for detailed insights."
	if len(d.KeyInsights) > 0 {
		d.Summary = strings.Join(d.KeyInsights, " ")
	}
	return d
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
