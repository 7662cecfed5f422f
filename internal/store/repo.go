package store

import (
	"context"
	"time"
)

// Session lifecycle actions recorded in the journal.
const (
	ActionStart = "start"
	ActionEnd   = "end"
)

// Response sources.
const (
	SourceAssessment = "assessment"
	SourceGame       = "game"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int    // max results (0 = unlimited)
	After     int64  // sequence > After
	SessionID string // exact match when set
	Source    string // response events only
}

// SessionEventData captures one session lifecycle step.
type SessionEventData struct {
	SessionID       string
	UserID          int64
	AgeGroup        string
	Action          string
	Risk            string
	ConfidenceLevel string
	KeyInsights     []string
	Answered        int
}

// SessionEvent is a journaled SessionEventData.
type SessionEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	SessionEventData
}

// ResponseEventData captures one recorded response, either an assessment
// answer or a mini-game outcome.
type ResponseEventData struct {
	SessionID      string
	Source         string
	Task           string
	QuestionID     string
	Domain         string
	Difficulty     string
	Correct        bool
	ResponseTimeMs int64
	MistakeType    string
	Confidence     string

	// Accuracy and Mistakes are set for read-aloud responses only.
	Accuracy float64
	Mistakes int
}

// ResponseEvent is a journaled ResponseEventData.
type ResponseEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	ResponseEventData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a journaled LLMRequestEventData.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM token usage for one purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM token usage for one model.
type ModelUsage struct {
	Provider     string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to journal events.
type EventRepo interface {
	AppendSessionEvent(ctx context.Context, data SessionEventData) error
	AppendResponseEvent(ctx context.Context, data ResponseEventData) error
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// Query methods return newest first.
	QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEvent, error)
	QueryResponseEvents(ctx context.Context, opts QueryOpts) ([]ResponseEvent, error)
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns nil when no event has the given ID.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}

// HistoryCache keeps the last history feed fetched for each user so the
// trend view can render offline.
type HistoryCache interface {
	Save(ctx context.Context, userID int64, payload []byte) error

	// Load returns a nil payload when nothing is cached for userID.
	Load(ctx context.Context, userID int64) ([]byte, time.Time, error)
}
