package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath/ldscreen/internal/assessment"
	"github.com/brightpath/ldscreen/internal/clock"
	"github.com/brightpath/ldscreen/internal/devserver"
	"github.com/brightpath/ldscreen/internal/history"
	"github.com/brightpath/ldscreen/internal/insights"
	"github.com/brightpath/ldscreen/internal/router"
	"github.com/brightpath/ldscreen/internal/scoring"
	"github.com/brightpath/ldscreen/internal/screen"
	"github.com/brightpath/ldscreen/internal/screens/notice"
)

// finishedSession answers every question correctly against svc.
func finishedSession(t *testing.T, svc scoring.Service) scoring.Session {
	t.Helper()
	clk := clock.NewFake(time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC))
	e := assessment.New(svc, clk)
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
	sess, ok := e.Session()
	require.True(t, ok)
	return sess
}

func run(s *Screen, cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	s.Update(msg)
	return msg
}

type fakeExplainer struct {
	got scoring.Dashboard
	err error
}

func (f *fakeExplainer) Explain(_ context.Context, d scoring.Dashboard) (*insights.Summary, error) {
	f.got = d
	if f.err != nil {
		return nil, f.err
	}
	return &insights.Summary{
		Headline:   "A strong start",
		Paragraphs: []string{"Your child answered every question."},
		Activities: []string{"Read together at bedtime"},
	}, nil
}

func TestDashboardLoadsResultsAndHistory(t *testing.T) {
	svc := devserver.New()
	sess := finishedSession(t, svc)
	ex := &fakeExplainer{}

	s := New(Config{
		Service:   svc,
		Session:   sess,
		Location:  time.UTC,
		Explainer: ex,
		History:   func() screen.Screen { return notice.New("History", "") },
	})
	run(s, s.Init())

	d, ok := s.Dashboard()
	require.True(t, ok)
	assert.Equal(t, "Low Risk - No Significant Concerns", d.FinalRisk)
	assert.Len(t, history.Sessions(s.points), 1)

	view := s.View(120, 50)
	assert.Contains(t, view, "Low Risk - No Significant Concerns")
	assert.Contains(t, view, "Accuracy 100%")
	assert.Contains(t, view, "Avg time 1.0s")

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'e', Text: "e"})
	require.NotNil(t, cmd)
	assert.Contains(t, s.View(120, 50), "Writing a summary")
	run(s, cmd)
	assert.Equal(t, d.FinalRisk, ex.got.FinalRisk)
	assert.Contains(t, s.View(120, 60), "A strong start")

	_, cmd = s.Update(tea.KeyPressMsg{Code: 'h', Text: "h"})
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "History", push.Screen.Title())
}

type brokenHistory struct {
	scoring.Service
}

func (brokenHistory) History(context.Context, int64) ([]history.Entry, error) {
	return nil, errors.New("history offline")
}

func TestDashboardToleratesMissingHistory(t *testing.T) {
	inner := devserver.New()
	sess := finishedSession(t, inner)

	s := New(Config{Service: brokenHistory{inner}, Session: sess})
	run(s, s.Init())

	_, ok := s.Dashboard()
	require.True(t, ok)
	assert.Empty(t, s.points)
	assert.Contains(t, s.View(120, 50), "No past sessions yet")
}

type brokenDashboard struct {
	scoring.Service
}

func (brokenDashboard) Dashboard(context.Context, scoring.Session) (scoring.Dashboard, error) {
	return scoring.Dashboard{}, errors.New("session not found")
}

func (brokenDashboard) History(context.Context, int64) ([]history.Entry, error) { return nil, nil }

func TestDashboardFailure(t *testing.T) {
	s := New(Config{Service: brokenDashboard{}, Session: scoring.Session{SessionID: "x"}, Explainer: &fakeExplainer{}})
	run(s, s.Init())

	_, ok := s.Dashboard()
	assert.False(t, ok)
	assert.Contains(t, s.View(120, 50), "session not found")

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'e', Text: "e"})
	assert.Nil(t, cmd)
}

func TestExplainFailureIsShown(t *testing.T) {
	svc := devserver.New()
	sess := finishedSession(t, svc)
	s := New(Config{Service: svc, Session: sess, Explainer: &fakeExplainer{err: errors.New("no API key")}})
	run(s, s.Init())

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'e', Text: "e"})
	run(s, cmd)
	assert.Contains(t, s.View(120, 60), "Summary unavailable: no API key")
}
