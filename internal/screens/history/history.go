// Package history shows the trend of past screening sessions.
package history

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/brightpath/ldscreen/internal/history"
	"github.com/brightpath/ldscreen/internal/report"
	"github.com/brightpath/ldscreen/internal/scoring"
	"github.com/brightpath/ldscreen/internal/screen"
	"github.com/brightpath/ldscreen/internal/ui/components"
	"github.com/brightpath/ldscreen/internal/ui/layout"
	"github.com/brightpath/ldscreen/internal/ui/theme"
)

const chartHeight = 8

type historyLoadedMsg struct {
	entries []history.Entry
	err     error
}

// HistoryScreen displays a bar chart of past risk scores and a list of the
// sessions behind it.
type HistoryScreen struct {
	svc    scoring.Service
	userID int64
	loc    *time.Location
	log    *slog.Logger

	points   []history.Point
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a history screen for userID. Timestamps without a zone are
// read in loc; nil means local time.
func New(svc scoring.Service, userID int64, loc *time.Location, log *slog.Logger) *HistoryScreen {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &HistoryScreen{svc: svc, userID: userID, loc: loc, log: log}
}

func (s *HistoryScreen) Init() tea.Cmd {
	svc, id := s.svc, s.userID
	return func() tea.Msg {
		entries, err := svc.History(context.Background(), id)
		return historyLoadedMsg{entries: entries, err: err}
	}
}

func (s *HistoryScreen) Title() string { return "History" }

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "R", Description: "Reload"},
		{Key: "Esc", Description: "Back"},
	}
}

// Sessions returns the loaded sessions in chronological order.
func (s *HistoryScreen) Sessions() []history.Point { return history.Sessions(s.points) }

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		s.loaded = true
		if msg.err != nil {
			s.log.Warn("history unavailable", "user_id", s.userID, "err", msg.err)
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.points = history.Group(msg.entries, s.loc)
		s.selected = max(len(s.Sessions())-1, 0)
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.Sessions())-1 {
				s.selected++
			}
		case "r":
			s.loaded = false
			return s, s.Init()
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	centered := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if !s.loaded {
		return centered.Foreground(theme.TextDim).Render("\n\nLoading history...")
	}
	if s.errMsg != "" {
		return centered.Foreground(theme.Error).Render("\n\nError: " + s.errMsg)
	}

	chartWidth := min(width-4, 96)
	chart := components.HistoryChart{Points: s.points, Height: chartHeight}

	var b strings.Builder
	b.WriteString(theme.Subtitle.Render("Progress over time"))
	b.WriteString("\n\n")
	b.WriteString(chart.View(chartWidth))

	sessions := s.Sessions()
	if len(sessions) > 0 {
		b.WriteString("\n\n")
		b.WriteString(s.renderList(sessions, height-chartHeight-8))
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// renderList shows at most rows sessions, keeping the selection visible.
func (s *HistoryScreen) renderList(sessions []history.Point, rows int) string {
	rows = max(rows, 3)
	start := 0
	if s.selected >= rows {
		start = s.selected - rows + 1
	}
	end := min(start+rows, len(sessions))

	var lines []string
	for i := start; i < end; i++ {
		p := sessions[i]
		line := fmt.Sprintf("%s  %s  D %s  M %s  A %s",
			components.FitCell(p.At.In(s.loc).Format("Jan 02 15:04"), 12),
			components.FitCell(report.RiskLabel(p.Entry.RiskLabel), 36),
			components.Percent(p.Entry.DyslexiaScore),
			components.Percent(p.Entry.DyscalculiaScore),
			components.Percent(p.Entry.AttentionScore),
		)
		if i == s.selected {
			lines = append(lines, theme.Selected.Render("▸ "+line))
		} else {
			lines = append(lines, theme.Unselected.Render("  "+line))
		}
	}
	return strings.Join(lines, "\n")
}
