package devserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath/ldscreen/internal/assessment"
	"github.com/brightpath/ldscreen/internal/clock"
	"github.com/brightpath/ldscreen/internal/scoring"
)

func startHTTP(t *testing.T) (*scoring.Client, *httptest.Server) {
	t.Helper()
	srv, _ := newServer()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return scoring.NewClient(ts.URL, 5*time.Second), ts
}

func TestEngineAgainstServer(t *testing.T) {
	client, _ := startHTTP(t)
	clk := clock.NewFake(time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC))
	e := assessment.New(client, clk)
	ctx := context.Background()

	op, err := e.Start(scoring.AgeGroupMiddle)
	require.NoError(t, err)
	require.True(t, e.Do(ctx, op))

	for e.Phase() == assessment.PhaseQuestion {
		q, _ := e.Question()
		clk.Advance(time.Second)
		require.NoError(t, e.Select(q.Options[0]))
		op, err := e.Submit()
		require.NoError(t, err)
		require.True(t, e.Do(ctx, op))
	}

	require.Equal(t, assessment.PhaseComplete, e.Phase(), e.ErrMessage())
	assert.Equal(t, DefaultSessionLength, e.Answered())
	assert.Equal(t, DefaultSessionLength, e.QuestionNumber())
	require.NotNil(t, e.Result())
	assert.Equal(t, scoring.RiskLow, e.Result().Risk)
	assert.Equal(t, []string{"Performance within normal range"}, e.Result().KeyInsights)

	s, ok := e.Session()
	require.True(t, ok)
	d, err := client.Dashboard(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "Low Risk - No Significant Concerns", d.FinalRisk)
	assert.Equal(t, "Low", d.Confidence)
	assert.Equal(t, 30, d.RiskLevel)
	for _, name := range scoring.PatternDomains {
		assert.Equal(t, 100.0, d.Patterns[name].Accuracy, name)
		assert.Equal(t, 1000.0, d.Patterns[name].AvgTime, name)
	}

	entries, err := client.History(ctx, s.UserID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, s.SessionID, entries[0].SessionID)
}

func TestHTTPErrors(t *testing.T) {
	client, ts := startHTTP(t)

	_, err := client.NextQuestion(context.Background(), scoring.NextQuestionRequest{UserID: 1, SessionID: "S_1_01"})
	var apiErr *scoring.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Session not found", err.Error())

	resp, err := http.Post(ts.URL+scoring.PathStartSession, "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Content-Type"))
}

func TestHeartbeat(t *testing.T) {
	_, ts := startHTTP(t)
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
