// Package dashboard presents the results of one finished session: the
// overall risk, per-domain patterns, and the trend across past sessions.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/sync/errgroup"

	"github.com/brightpath/ldscreen/internal/history"
	"github.com/brightpath/ldscreen/internal/insights"
	"github.com/brightpath/ldscreen/internal/router"
	"github.com/brightpath/ldscreen/internal/scoring"
	"github.com/brightpath/ldscreen/internal/screen"
	"github.com/brightpath/ldscreen/internal/ui/layout"
)

// Explainer turns a dashboard into a plain-language summary.
type Explainer interface {
	Explain(ctx context.Context, d scoring.Dashboard) (*insights.Summary, error)
}

// Config wires the screen to its collaborators.
type Config struct {
	Service  scoring.Service
	Session  scoring.Session
	Location *time.Location
	Log      *slog.Logger

	// Explainer is optional; without it the summary action is hidden.
	Explainer Explainer

	// History builds the full history screen. Nil hides the action.
	History func() screen.Screen
}

type loadedMsg struct {
	dashboard scoring.Dashboard
	points    []history.Point
	err       error
}

type explainedMsg struct {
	summary *insights.Summary
	err     error
}

// Screen shows one session's dashboard.
type Screen struct {
	cfg    Config
	ctx    context.Context
	cancel context.CancelFunc

	loaded     bool
	errMsg     string
	dashboard  scoring.Dashboard
	points     []history.Point
	explaining bool
	summary    *insights.Summary
	explainErr string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.Closer = (*Screen)(nil)

// New creates a dashboard screen for cfg.Session.
func New(cfg Config) *Screen {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Log == nil {
		cfg.Log = slog.New(slog.DiscardHandler)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Screen{cfg: cfg, ctx: ctx, cancel: cancel}
}

func (s *Screen) Init() tea.Cmd { return s.load() }

func (s *Screen) Title() string { return "Results" }

func (s *Screen) Close() { s.cancel() }

// Dashboard returns the loaded dashboard.
func (s *Screen) Dashboard() (scoring.Dashboard, bool) {
	return s.dashboard, s.loaded && s.errMsg == ""
}

func (s *Screen) KeyHints() []layout.KeyHint {
	var hints []layout.KeyHint
	if s.cfg.Explainer != nil && s.loaded && s.errMsg == "" {
		hints = append(hints, layout.KeyHint{Key: "E", Description: "Parent summary"})
	}
	if s.cfg.History != nil {
		hints = append(hints, layout.KeyHint{Key: "H", Description: "History"})
	}
	return append(hints,
		layout.KeyHint{Key: "R", Description: "Reload"},
		layout.KeyHint{Key: "Esc", Description: "Back"},
	)
}

// load fetches the dashboard and the user's history concurrently. A missing
// history only empties the chart.
func (s *Screen) load() tea.Cmd {
	ctx, svc, sess, log, loc := s.ctx, s.cfg.Service, s.cfg.Session, s.cfg.Log, s.cfg.Location
	return func() tea.Msg {
		var (
			d       scoring.Dashboard
			entries []history.Entry
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			d, err = svc.Dashboard(gctx, sess)
			return err
		})
		g.Go(func() error {
			var err error
			entries, err = svc.History(gctx, sess.UserID)
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Warn("history unavailable", "user_id", sess.UserID, "err", err)
			}
			return nil
		})
		if err := g.Wait(); err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{dashboard: d, points: history.Group(entries, loc)}
	}
}

func (s *Screen) explain() tea.Cmd {
	ctx, ex, d := s.ctx, s.cfg.Explainer, s.dashboard
	return func() tea.Msg {
		sum, err := ex.Explain(ctx, d)
		return explainedMsg{summary: sum, err: err}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.dashboard = msg.dashboard
		s.points = msg.points
		return s, nil

	case explainedMsg:
		s.explaining = false
		if msg.err != nil {
			s.cfg.Log.Warn("parent summary failed", "session_id", s.cfg.Session.SessionID, "err", msg.err)
			s.explainErr = msg.err.Error()
			return s, nil
		}
		s.explainErr = ""
		s.summary = msg.summary
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "e":
			if s.cfg.Explainer != nil && s.loaded && s.errMsg == "" && !s.explaining {
				s.explaining = true
				return s, s.explain()
			}
		case "h":
			if s.cfg.History != nil {
				return s, router.PushCmd(s.cfg.History())
			}
		case "r":
			s.loaded = false
			s.summary = nil
			return s, s.load()
		}
	}
	return s, nil
}
