// Package screening is the assessment screen: age selection, one question
// at a time, results, and recovery from service errors.
package screening

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"slices"

	tea "charm.land/bubbletea/v2"

	"github.com/brightpath/ldscreen/internal/assessment"
	"github.com/brightpath/ldscreen/internal/clock"
	"github.com/brightpath/ldscreen/internal/router"
	"github.com/brightpath/ldscreen/internal/scoring"
	"github.com/brightpath/ldscreen/internal/screen"
	"github.com/brightpath/ldscreen/internal/ui/components"
	"github.com/brightpath/ldscreen/internal/ui/layout"
)

// expectedQuestions sizes the progress bar. The service decides when the
// session actually ends.
const expectedQuestions = 15

// outcomeMsg carries the result of an engine call back to the UI loop.
type outcomeMsg struct {
	outcome assessment.Outcome
}

// Config wires the screen to its collaborators.
type Config struct {
	Service  scoring.Service
	Clock    clock.Clock
	AgeGroup string
	Log      *slog.Logger

	// Shuffle orders the options of each question for display. Nil shuffles
	// randomly.
	Shuffle func([]string) []string

	// Results builds the dashboard for a finished session. Nil hides the
	// dashboard action.
	Results func(scoring.Session) screen.Screen
}

// Screen drives an assessment.Engine from key presses.
type Screen struct {
	engine  *assessment.Engine
	ctx     context.Context
	cancel  context.CancelFunc
	shuffle func([]string) []string
	results func(scoring.Session) screen.Screen

	ages     components.OptionList
	options  components.OptionList
	question string
	notice   string
	leaving  bool
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.Closer = (*Screen)(nil)
var _ screen.BackInterceptor = (*Screen)(nil)

// New creates the screen in the welcome phase.
func New(cfg Config) *Screen {
	var opts []assessment.Option
	if cfg.Log != nil {
		opts = append(opts, assessment.WithLogger(cfg.Log))
	}
	if cfg.Shuffle == nil {
		cfg.Shuffle = func(xs []string) []string {
			out := slices.Clone(xs)
			rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
			return out
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Screen{
		engine:  assessment.New(cfg.Service, cfg.Clock, opts...),
		ctx:     ctx,
		cancel:  cancel,
		shuffle: cfg.Shuffle,
		results: cfg.Results,
		ages:    components.NewOptionList(scoring.AgeGroups),
	}
	if i := slices.Index(scoring.AgeGroups, cfg.AgeGroup); i >= 0 {
		s.ages.Cursor = i
	}
	return s
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Title() string { return "Screening" }

// Close abandons any call in flight.
func (s *Screen) Close() {
	s.engine.Restart()
	s.cancel()
}

// InterceptBack asks for a second Esc before abandoning a screening that is
// under way.
func (s *Screen) InterceptBack() bool {
	switch s.engine.Phase() {
	case assessment.PhaseQuestion, assessment.PhaseLoading:
	default:
		return false
	}
	if s.leaving {
		return false
	}
	s.leaving = true
	s.notice = "Press Esc again to leave. Answers so far will not be scored."
	return true
}

// Engine exposes the state machine for inspection.
func (s *Screen) Engine() *assessment.Engine { return s.engine }

func (s *Screen) KeyHints() []layout.KeyHint {
	switch s.engine.Phase() {
	case assessment.PhaseWelcome:
		return []layout.KeyHint{{Key: "↑↓", Description: "Age group"}, {Key: "Enter", Description: "Begin"}, {Key: "Esc", Description: "Back"}}
	case assessment.PhaseQuestion:
		return []layout.KeyHint{{Key: "1-9", Description: "Choose"}, {Key: "Enter", Description: "Submit"}, {Key: "Esc", Description: "Leave"}}
	case assessment.PhaseComplete:
		hints := []layout.KeyHint{{Key: "N", Description: "New screening"}, {Key: "Esc", Description: "Back"}}
		if s.canShowResults() {
			hints = append([]layout.KeyHint{{Key: "D", Description: "Dashboard"}}, hints...)
		}
		return hints
	case assessment.PhaseError:
		return []layout.KeyHint{{Key: "Enter", Description: "Try again"}, {Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Leave"}}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case outcomeMsg:
		if s.engine.Apply(msg.outcome) {
			s.syncQuestion()
		}
		return s, nil
	case tea.KeyMsg:
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyMsg) tea.Cmd {
	s.notice = ""
	s.leaving = false
	key := msg.String()

	switch s.engine.Phase() {
	case assessment.PhaseWelcome:
		var chose bool
		s.ages, chose = s.ages.Update(msg)
		if !chose {
			return nil
		}
		age, _ := s.ages.Chosen()
		op, err := s.engine.Start(age)
		if err != nil {
			s.notice = err.Error()
			return nil
		}
		return s.run(op)

	case assessment.PhaseQuestion:
		if key == "enter" && s.engine.CanSubmit() {
			op, err := s.engine.Submit()
			if err != nil {
				s.notice = err.Error()
				return nil
			}
			return s.run(op)
		}
		var chose bool
		s.options, chose = s.options.Update(msg)
		if chose {
			opt, _ := s.options.Chosen()
			if err := s.engine.Select(opt); err != nil {
				s.notice = err.Error()
			}
		}

	case assessment.PhaseComplete:
		switch key {
		case "d":
			if s.canShowResults() {
				sess, _ := s.engine.Session()
				return router.PushCmd(s.results(sess))
			}
		case "n":
			s.restart()
		}

	case assessment.PhaseError:
		if key == "enter" || key == "r" {
			s.restart()
		}
	}
	return nil
}

func (s *Screen) canShowResults() bool {
	_, ok := s.engine.Session()
	return ok && s.results != nil && s.engine.Result() != nil
}

func (s *Screen) restart() {
	s.engine.Restart()
	s.question = ""
	s.options = components.OptionList{}
	s.ages = components.NewOptionList(scoring.AgeGroups)
}

// syncQuestion rebuilds the option list when a new question arrives.
func (s *Screen) syncQuestion() {
	q, ok := s.engine.Question()
	if !ok || q.QuestionID == s.question {
		return
	}
	s.question = q.QuestionID
	s.options = components.NewOptionList(s.shuffle(q.Options))
}

// run executes op off the UI loop; its outcome returns as a message.
func (s *Screen) run(op assessment.Op) tea.Cmd {
	ctx := s.ctx
	return func() tea.Msg {
		return outcomeMsg{outcome: op.Run(ctx)}
	}
}
