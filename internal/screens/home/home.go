// Package home is the main menu.
package home

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/brightpath/ldscreen/internal/clock"
	"github.com/brightpath/ldscreen/internal/report"
	"github.com/brightpath/ldscreen/internal/router"
	"github.com/brightpath/ldscreen/internal/scoring"
	"github.com/brightpath/ldscreen/internal/screen"
	"github.com/brightpath/ldscreen/internal/screens/dashboard"
	gamescreen "github.com/brightpath/ldscreen/internal/screens/games"
	"github.com/brightpath/ldscreen/internal/screens/history"
	"github.com/brightpath/ldscreen/internal/screens/notice"
	"github.com/brightpath/ldscreen/internal/screens/screening"
	"github.com/brightpath/ldscreen/internal/store"
	"github.com/brightpath/ldscreen/internal/ui/components"
	"github.com/brightpath/ldscreen/internal/ui/layout"
	"github.com/brightpath/ldscreen/internal/ui/theme"
)

// Deps are the collaborators shared by every screen reachable from home.
// Events, Explainer and Coach are optional.
type Deps struct {
	Service   scoring.Service
	Events    store.EventRepo
	Clock     clock.Clock
	Explainer dashboard.Explainer
	Coach     gamescreen.ReadingCoach
	AgeGroup  string
	Location  *time.Location
	Rand      *rand.Rand
	Log       *slog.Logger
}

// lastSession is the most recent finished screening in the journal.
type lastSession struct {
	session scoring.Session
	risk    string
	at      time.Time
}

type journalLoadedMsg struct {
	last      *lastSession
	completed int
	err       error
}

// HomeScreen is the main menu.
type HomeScreen struct {
	deps      Deps
	menu      components.Menu
	last      *lastSession
	completed int
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates the home screen.
func New(deps Deps) *HomeScreen {
	if deps.Log == nil {
		deps.Log = slog.New(slog.DiscardHandler)
	}
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	h := &HomeScreen{deps: deps}
	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "Start screening", Hint: "About 15 questions", Action: h.startScreening},
		{Label: "Mini-games", Hint: "Practice rounds", Action: h.openGames},
		{Label: "Past results", Hint: "Latest screening", Action: h.openLast},
		{Label: "History", Hint: "Progress over time", Action: h.openHistory},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	})
	return h
}

func (h *HomeScreen) Init() tea.Cmd { return h.loadJournal() }

// Resume reloads the journal, which may have a newly finished screening.
func (h *HomeScreen) Resume() tea.Cmd { return h.loadJournal() }

func (h *HomeScreen) Title() string { return "Home" }

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// loadJournal finds the latest finished screening.
func (h *HomeScreen) loadJournal() tea.Cmd {
	repo := h.deps.Events
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		events, err := repo.QuerySessionEvents(context.Background(), store.QueryOpts{})
		if err != nil {
			return journalLoadedMsg{err: err}
		}
		var msg journalLoadedMsg
		for _, e := range events {
			if e.Action != store.ActionEnd {
				continue
			}
			msg.completed++
			if msg.last == nil {
				msg.last = &lastSession{
					session: scoring.Session{UserID: e.UserID, SessionID: e.SessionID, AgeGroup: e.AgeGroup},
					risk:    e.Risk,
					at:      e.Timestamp,
				}
			}
		}
		return msg
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(journalLoadedMsg); ok {
		if msg.err != nil {
			h.deps.Log.Warn("read journal", "err", msg.err)
			return h, nil
		}
		h.last, h.completed = msg.last, msg.completed
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) startScreening() tea.Cmd {
	return router.PushCmd(screening.New(screening.Config{
		Service:  h.deps.Service,
		Clock:    h.deps.Clock,
		AgeGroup: h.deps.AgeGroup,
		Log:      h.deps.Log,
		Results:  h.dashboard,
	}))
}

func (h *HomeScreen) openGames() tea.Cmd {
	return router.PushCmd(gamescreen.NewMenu(gamescreen.Config{
		Clock:    h.deps.Clock,
		Events:   h.deps.Events,
		Coach:    h.deps.Coach,
		AgeGroup: h.deps.AgeGroup,
		Rand:     h.deps.Rand,
		Log:      h.deps.Log,
	}))
}

func (h *HomeScreen) openLast() tea.Cmd {
	if h.last == nil {
		return router.PushCmd(notice.New("Past results", "No finished screenings yet.\nStart one from the home menu."))
	}
	return router.PushCmd(h.dashboard(h.last.session))
}

func (h *HomeScreen) openHistory() tea.Cmd {
	if h.last == nil {
		return router.PushCmd(notice.New("History", "No past sessions yet.\nFinish a screening to start tracking progress."))
	}
	return router.PushCmd(h.history(h.last.session.UserID))
}

func (h *HomeScreen) dashboard(sess scoring.Session) screen.Screen {
	return dashboard.New(dashboard.Config{
		Service:   h.deps.Service,
		Session:   sess,
		Location:  h.deps.Location,
		Log:       h.deps.Log,
		Explainer: h.deps.Explainer,
		History:   func() screen.Screen { return h.history(sess.UserID) },
	})
}

func (h *HomeScreen) history(userID int64) screen.Screen {
	return history.New(h.deps.Service, userID, h.deps.Location, h.deps.Log)
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Learning Difference Screening"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Short games and questions for ages 6 to 14"))
	b.WriteString("\n\n")
	b.WriteString(h.menu.View())
	b.WriteString("\n")
	b.WriteString(h.renderStatus())

	return layout.Centered(lipgloss.NewStyle().Padding(1, 4).Render(b.String()), width, height)
}

func (h *HomeScreen) renderStatus() string {
	if h.last == nil {
		return theme.Hint.Render("No screenings yet.")
	}
	when := h.last.at.In(h.location()).Format("Jan 02, 15:04")
	return theme.Hint.Render(fmt.Sprintf("%d screenings completed. Latest %s: %s",
		h.completed, when, report.RiskLabel(h.last.risk)))
}

func (h *HomeScreen) location() *time.Location {
	if h.deps.Location != nil {
		return h.deps.Location
	}
	return time.Local
}
