package history

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath/ldscreen/internal/history"
	"github.com/brightpath/ldscreen/internal/scoring"
)

type stubService struct {
	scoring.Service
	entries []history.Entry
	err     error
	calls   int
}

func (s *stubService) History(_ context.Context, _ int64) ([]history.Entry, error) {
	s.calls++
	return s.entries, s.err
}

func load(t *testing.T, s *HistoryScreen) {
	t.Helper()
	cmd := s.Init()
	require.NotNil(t, cmd)
	s.Update(cmd())
}

func TestHistoryOrdersSessionsAndSelectsLatest(t *testing.T) {
	svc := &stubService{entries: []history.Entry{
		{SessionID: "b", DateTime: "2026-03-02T09:00:00", DyslexiaScore: 0.7, RiskLabel: scoring.RiskDyslexia},
		{SessionID: "a", DateTime: "2026-03-01T09:00:00", DyslexiaScore: 0.2, RiskLabel: scoring.RiskLow},
		{SessionID: "bad", DateTime: "yesterday"},
	}}
	s := New(svc, 7, time.UTC, nil)
	load(t, s)

	sessions := s.Sessions()
	require.Len(t, sessions, 2)
	assert.Equal(t, "a", sessions[0].Entry.SessionID)
	assert.Equal(t, "b", sessions[1].Entry.SessionID)
	assert.Equal(t, 1, s.selected)

	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, 0, s.selected)
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, 0, s.selected)

	view := s.View(100, 30)
	assert.Contains(t, view, "Possible Dyslexia-related Risk")
	assert.Contains(t, view, "Mar 1")
}

func TestHistoryEmptyState(t *testing.T) {
	s := New(&stubService{}, 7, time.UTC, nil)
	load(t, s)
	assert.Contains(t, s.View(100, 30), "No past sessions yet")
}

func TestHistoryErrorAndReload(t *testing.T) {
	svc := &stubService{err: errors.New("connection refused")}
	s := New(svc, 7, time.UTC, nil)
	load(t, s)
	assert.Contains(t, s.View(100, 30), "connection refused")

	svc.err = nil
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	require.NotNil(t, cmd)
	assert.Contains(t, s.View(100, 30), "Loading")
	s.Update(cmd())
	assert.Equal(t, 2, svc.calls)
	assert.NotContains(t, s.View(100, 30), "connection refused")
}
