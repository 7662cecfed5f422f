package devserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath/ldscreen/internal/clock"
	"github.com/brightpath/ldscreen/internal/diagnosis"
	"github.com/brightpath/ldscreen/internal/scoring"
)

func newServer(opts ...Option) (*Server, *clock.Fake) {
	clk := clock.NewFake(time.Date(2026, 1, 16, 14, 30, 0, 0, time.UTC))
	opts = append([]Option{WithClock(clk), WithLogger(slog.New(slog.DiscardHandler))}, opts...)
	return New(opts...), clk
}

func answer(s scoring.Session, q scoring.Question, correct bool, ms int64) scoring.Answer {
	a := scoring.Answer{
		UserID:         s.UserID,
		SessionID:      s.SessionID,
		QuestionID:     q.QuestionID,
		Domain:         q.Domain,
		Difficulty:     q.Difficulty,
		Correct:        correct,
		ResponseTimeMs: ms,
		Confidence:     scoring.DefaultConfidence,
	}
	if !correct {
		a.MistakeType = diagnosis.ForDomain(q.Domain)
	}
	return a
}

func requireAPIError(t *testing.T, err error, status int, msg string) {
	t.Helper()
	var apiErr *scoring.APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, status, apiErr.StatusCode)
	assert.Equal(t, msg, apiErr.Message)
}

func TestAdaptiveSequence(t *testing.T) {
	srv, _ := newServer()
	ctx := context.Background()

	s, err := srv.StartSession(ctx, scoring.AgeGroupMiddle)
	require.NoError(t, err)
	assert.Equal(t, int64(101), s.UserID)
	assert.Equal(t, "S_101_01", s.SessionID)

	q1, err := srv.NextQuestion(ctx, scoring.NextQuestionRequest{UserID: s.UserID, SessionID: s.SessionID})
	require.NoError(t, err)
	assert.Equal(t, "Q_S_101_01_1", q1.QuestionID)
	assert.Equal(t, diagnosis.DomainReading, q1.Domain)
	assert.Equal(t, "easy", q1.Difficulty)

	next := func(last scoring.Question, correct bool, ms int64) scoring.Question {
		t.Helper()
		_, err := srv.SubmitAnswer(ctx, answer(s, last, correct, ms))
		require.NoError(t, err)
		q, err := srv.NextQuestion(ctx, scoring.NextQuestionRequest{
			UserID: s.UserID, SessionID: s.SessionID,
			LastQuestionID: last.QuestionID, Correct: &correct, ResponseTimeMs: &ms,
		})
		require.NoError(t, err)
		return q
	}

	q2 := next(q1, true, 1000)
	assert.Equal(t, diagnosis.DomainWriting, q2.Domain)
	assert.Equal(t, "medium", q2.Difficulty)

	q3 := next(q2, false, 1000)
	assert.Equal(t, diagnosis.DomainMath, q3.Domain)
	assert.Equal(t, "easy", q3.Difficulty)

	q4 := next(q3, true, 1800)
	assert.Equal(t, diagnosis.DomainAttention, q4.Domain)
	assert.Equal(t, "easy", q4.Difficulty)
	assert.Equal(t, "Q_S_101_01_4", q4.QuestionID)
}

func TestSessionEndsAfterLength(t *testing.T) {
	srv, clk := newServer(WithSessionLength(4))
	ctx := context.Background()
	s, err := srv.StartSession(ctx, scoring.AgeGroupYoung)
	require.NoError(t, err)

	seen := map[string]bool{}
	var answered int
	for {
		q, err := srv.NextQuestion(ctx, scoring.NextQuestionRequest{UserID: s.UserID, SessionID: s.SessionID})
		require.NoError(t, err)
		if q.EndSession {
			assert.Equal(t, MsgComplete, q.Message)
			break
		}
		assert.False(t, seen[q.Text], "question %q repeated", q.Text)
		seen[q.Text] = true
		_, err = srv.SubmitAnswer(ctx, answer(s, q, false, 2500))
		require.NoError(t, err)
		answered++
	}
	assert.Equal(t, 4, answered)

	d, err := srv.Dashboard(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "Assessment In Progress", d.FinalRisk)

	clk.Advance(10 * time.Minute)
	res, err := srv.EndSession(ctx, s)
	require.NoError(t, err)
	assert.NotEqual(t, scoring.RiskLow, res.Risk)
	assert.NotEmpty(t, res.KeyInsights)

	d, err = srv.Dashboard(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "STU-101", d.StudentID)
	assert.Equal(t, scoring.AgeGroupYoung, d.AgeGroup)
	assert.Equal(t, "January 16, 2026", d.AssessmentDate)
	assert.NotEqual(t, "Assessment In Progress", d.FinalRisk)
	assert.Zero(t, d.Patterns[scoring.PatternReading].Accuracy)
	assert.Equal(t, "Letter Reversal (b/d, p/q)", d.Patterns[scoring.PatternReading].CommonMistake)

	entries, err := srv.History(ctx, s.UserID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "S_101_01", entries[0].SessionID)
	assert.Equal(t, "2026-01-16", entries[0].Date)
	assert.Equal(t, "2026-01-16T14:40:00Z", entries[0].DateTime)
	assert.Equal(t, res.Risk, entries[0].RiskLabel)
}

func TestBankExhausted(t *testing.T) {
	bank := &Bank{Items: []Item{{Domain: diagnosis.DomainMath, Difficulty: "easy", Text: "1+1", Options: []string{"2", "3"}}}}
	srv, _ := newServer(WithBank(bank))
	ctx := context.Background()
	s, err := srv.StartSession(ctx, scoring.AgeGroupOlder)
	require.NoError(t, err)

	q, err := srv.NextQuestion(ctx, scoring.NextQuestionRequest{UserID: s.UserID, SessionID: s.SessionID})
	require.NoError(t, err)
	assert.False(t, q.EndSession)

	q, err = srv.NextQuestion(ctx, scoring.NextQuestionRequest{UserID: s.UserID, SessionID: s.SessionID})
	require.NoError(t, err)
	assert.True(t, q.EndSession)
	assert.Equal(t, MsgNoQuestions, q.Message)
}

func TestServerErrors(t *testing.T) {
	srv, _ := newServer()
	ctx := context.Background()

	_, err := srv.StartSession(ctx, "3-5")
	requireAPIError(t, err, http.StatusBadRequest, `invalid age group "3-5"`)

	_, err = srv.NextQuestion(ctx, scoring.NextQuestionRequest{SessionID: "S_1_01"})
	requireAPIError(t, err, http.StatusNotFound, "Session not found")

	s, err := srv.StartSession(ctx, scoring.AgeGroupMiddle)
	require.NoError(t, err)

	_, err = srv.SubmitAnswer(ctx, scoring.Answer{UserID: 999, SessionID: s.SessionID})
	requireAPIError(t, err, http.StatusNotFound, "User not found")

	_, err = srv.SubmitAnswer(ctx, scoring.Answer{UserID: s.UserID, SessionID: s.SessionID, ResponseTimeMs: -1})
	requireAPIError(t, err, http.StatusBadRequest, "response_time_ms must not be negative")

	other, err := srv.StartSession(ctx, scoring.AgeGroupMiddle)
	require.NoError(t, err)
	_, err = srv.EndSession(ctx, scoring.Session{UserID: other.UserID, SessionID: s.SessionID})
	requireAPIError(t, err, http.StatusNotFound, "Session not found")

	_, err = srv.Dashboard(ctx, s)
	requireAPIError(t, err, http.StatusNotFound, "No responses found for this session")

	_, err = srv.History(ctx, 5)
	requireAPIError(t, err, http.StatusNotFound, "User not found")

	entries, err := srv.History(ctx, s.UserID)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
