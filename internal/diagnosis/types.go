package diagnosis

// Tag classifies why a response was incorrect.
type Tag string

// Tags produced by the mini-games.
const (
	TagImpulsiveClick         Tag = "impulsive_click"
	TagMissedTarget           Tag = "missed_target"
	TagLetterConfusion        Tag = "letter_confusion"
	TagMagnitudeError         Tag = "magnitude_error"
	TagFalseAlarm             Tag = "false_alarm"
	TagMissedPatternBreak     Tag = "missed_pattern_break"
	TagVisualQuantityMismatch Tag = "visual_quantity_mismatch"
)

// Tags attached to adaptive assessment answers, keyed by question domain.
const (
	TagLetterReversal   Tag = "letter_reversal"
	TagNumberReversal   Tag = "number_reversal"
	TagSpellingError    Tag = "spelling_error"
	TagCalculationError Tag = "calculation_error"
	TagSequenceError    Tag = "sequence_error"
	TagOmission         Tag = "omission"
	TagSubstitution     Tag = "substitution"
)

// Domain is the skill area a question or task targets.
type Domain string

const (
	DomainReading   Domain = "reading"
	DomainWriting   Domain = "writing"
	DomainMath      Domain = "math"
	DomainAttention Domain = "attention"
)

// Task identifies an interactive task kind.
type Task string

const (
	TaskGoNoGo       Task = "go_no_go"
	TaskLetterFlip   Task = "letter_flip"
	TaskNumberSense  Task = "number_sense"
	TaskPatternWatch Task = "pattern_watch"
	TaskVisualMath   Task = "visual_math"
	TaskReadAloud    Task = "read_aloud"
)

// Outcome describes how an incorrect response came about.
type Outcome int

const (
	// OutcomeWrongAction is an action that did not satisfy the task rule.
	OutcomeWrongAction Outcome = iota
	// OutcomeTimeout is the absence of an action within the task window.
	OutcomeTimeout
)

// ClassifyInput holds the context for classifying one incorrect response.
// Task is empty for adaptive assessment questions, Domain is empty for
// mini-game responses.
type ClassifyInput struct {
	Task    Task
	Domain  Domain
	Outcome Outcome
}
