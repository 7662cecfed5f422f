package scoring

import (
	"github.com/brightpath/ldscreen/internal/diagnosis"
)

// Age groups accepted by the scoring service.
const (
	AgeGroupYoung  = "6-8"
	AgeGroupMiddle = "9-11"
	AgeGroupOlder  = "12-14"

	DefaultAgeGroup = AgeGroupMiddle
)

// AgeGroups lists the accepted age groups in display order.
var AgeGroups = []string{AgeGroupYoung, AgeGroupMiddle, AgeGroupOlder}

// Confidence levels attached to submitted answers.
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"

	// DefaultConfidence is sent with every answer until a real signal for
	// self-reported confidence exists.
	DefaultConfidence = ConfidenceMedium
)

// Risk labels returned by EndSession.
const (
	RiskLow         = "low-risk"
	RiskDyslexia    = "dyslexia-risk"
	RiskDyscalculia = "dyscalculia-risk"
	RiskAttention   = "attention-risk"
)

// Session identifies one assessment run.
type Session struct {
	UserID    int64  `json:"user_id"`
	SessionID string `json:"session_id"`
	AgeGroup  string `json:"-"`
}

// Question is one unit of assessment content. Options[0] is the correct
// answer.
type Question struct {
	QuestionID string           `json:"question_id"`
	Domain     diagnosis.Domain `json:"domain"`
	Difficulty string           `json:"difficulty"`
	Text       string           `json:"question_text"`
	Options    []string         `json:"options"`
	EndSession bool             `json:"end_session,omitempty"`
	Message    string           `json:"message,omitempty"`
}

// NextQuestionRequest asks for the next question, optionally reporting the
// outcome of the previous one.
type NextQuestionRequest struct {
	UserID         int64  `json:"user_id"`
	SessionID      string `json:"session_id"`
	LastQuestionID string `json:"last_question_id,omitempty"`
	Correct        *bool  `json:"correct,omitempty"`
	ResponseTimeMs *int64 `json:"response_time_ms,omitempty"`
}

// Answer is one submitted response.
type Answer struct {
	UserID         int64            `json:"user_id"`
	SessionID      string           `json:"session_id"`
	QuestionID     string           `json:"question_id"`
	Domain         diagnosis.Domain `json:"domain"`
	Difficulty     string           `json:"difficulty"`
	Correct        bool             `json:"correct"`
	ResponseTimeMs int64            `json:"response_time_ms"`
	Confidence     string           `json:"confidence"`
	MistakeType    diagnosis.Tag    `json:"mistake_type,omitempty"`
}

// Receipt acknowledges a submitted answer.
type Receipt struct {
	Status     string `json:"status"`
	ResponseID int64  `json:"response_id"`
}

// AssessmentResult is the final classification of a session.
type AssessmentResult struct {
	Risk            string   `json:"risk"`
	ConfidenceLevel string   `json:"confidence_level"`
	KeyInsights     []string `json:"key_insights"`
}

// DomainPattern summarizes performance in one dashboard domain.
type DomainPattern struct {
	Accuracy       float64 `json:"accuracy"`
	AvgTime        float64 `json:"avg_time"`
	CommonMistake  string  `json:"common_mistake"`
	Recommendation string  `json:"recommendation"`
}

// Dashboard domains. Writing folds into reading and attention is shown as
// focus.
const (
	PatternReading = "reading"
	PatternMath    = "math"
	PatternFocus   = "focus"
)

// PatternDomains lists dashboard domains in display order.
var PatternDomains = []string{PatternReading, PatternMath, PatternFocus}

// Dashboard is the aggregate view of one session.
type Dashboard struct {
	StudentID      string                   `json:"student_id"`
	AgeGroup       string                   `json:"age_group"`
	FinalRisk      string                   `json:"final_risk"`
	Confidence     string                   `json:"confidence"`
	RiskLevel      int                      `json:"risk_level"`
	AssessmentDate string                   `json:"assessment_date"`
	Summary        string                   `json:"summary"`
	KeyInsights    []string                 `json:"key_insights"`
	Patterns       map[string]DomainPattern `json:"patterns"`
}
