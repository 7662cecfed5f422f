package scoring

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath/ldscreen/internal/diagnosis"
	"github.com/brightpath/ldscreen/internal/history"
	"github.com/brightpath/ldscreen/internal/store"
)

// stubService returns canned values and a configurable history error.
type stubService struct {
	historyErr error
	entries    []history.Entry
}

func (s *stubService) StartSession(_ context.Context, ageGroup string) (Session, error) {
	return Session{UserID: 3, SessionID: "S_3_01", AgeGroup: ageGroup}, nil
}

func (s *stubService) NextQuestion(context.Context, NextQuestionRequest) (Question, error) {
	return Question{QuestionID: "Q1"}, nil
}

func (s *stubService) SubmitAnswer(context.Context, Answer) (Receipt, error) {
	return Receipt{Status: "success", ResponseID: 1}, nil
}

func (s *stubService) EndSession(context.Context, Session) (AssessmentResult, error) {
	return AssessmentResult{Risk: RiskLow, ConfidenceLevel: "low", KeyInsights: []string{"Performance within normal range"}}, nil
}

func (s *stubService) Dashboard(context.Context, Session) (Dashboard, error) {
	return Dashboard{StudentID: "STU-3"}, nil
}

func (s *stubService) History(context.Context, int64) ([]history.Entry, error) {
	return s.entries, s.historyErr
}

func openJournal(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "j.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestJournalRecordsSession(t *testing.T) {
	st := openJournal(t)
	svc := WithJournal(&stubService{}, st.EventRepo(), st.HistoryCache(), nil)
	ctx := context.Background()

	s, err := svc.StartSession(ctx, "12-14")
	require.NoError(t, err)
	for _, correct := range []bool{true, false} {
		a := Answer{UserID: s.UserID, SessionID: s.SessionID, QuestionID: "Q", Domain: diagnosis.DomainMath,
			Correct: correct, ResponseTimeMs: 1200, Confidence: DefaultConfidence}
		if !correct {
			a.MistakeType = diagnosis.TagCalculationError
		}
		_, err := svc.SubmitAnswer(ctx, a)
		require.NoError(t, err)
	}
	_, err = svc.EndSession(ctx, s)
	require.NoError(t, err)

	sessions, err := st.EventRepo().QuerySessionEvents(ctx, store.QueryOpts{SessionID: "S_3_01"})
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	end, start := sessions[0], sessions[1]
	assert.Equal(t, store.ActionStart, start.Action)
	assert.Equal(t, "12-14", start.AgeGroup)
	assert.Equal(t, store.ActionEnd, end.Action)
	assert.Equal(t, 2, end.Answered)
	assert.Equal(t, "12-14", end.AgeGroup)
	assert.Equal(t, RiskLow, end.Risk)

	responses, err := st.EventRepo().QueryResponseEvents(ctx, store.QueryOpts{SessionID: "S_3_01"})
	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.Equal(t, "calculation_error", responses[0].MistakeType)
	assert.Equal(t, store.SourceAssessment, responses[0].Source)
}

func TestJournalHistoryFallsBackToCache(t *testing.T) {
	st := openJournal(t)
	stub := &stubService{entries: []history.Entry{{SessionID: "S_3_01", Date: "2026-02-01"}}}
	svc := WithJournal(stub, st.EventRepo(), st.HistoryCache(), nil)
	ctx := context.Background()

	got, err := svc.History(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 1)

	stub.entries = nil
	stub.historyErr = &TransportError{Endpoint: PathHistory, Err: errors.New("connection refused")}
	got, err = svc.History(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "S_3_01", got[0].SessionID)

	_, err = svc.History(ctx, 99)
	require.Error(t, err, "no cache for this user")
}

func TestJournalHistoryAPIErrorNotMasked(t *testing.T) {
	st := openJournal(t)
	stub := &stubService{entries: []history.Entry{{Date: "2026-02-01"}}}
	svc := WithJournal(stub, st.EventRepo(), st.HistoryCache(), nil)
	ctx := context.Background()

	_, err := svc.History(ctx, 3)
	require.NoError(t, err)

	stub.historyErr = &APIError{StatusCode: 404, Message: "User not found"}
	_, err = svc.History(ctx, 3)
	assert.EqualError(t, err, "User not found")
}
