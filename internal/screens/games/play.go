package games

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/brightpath/ldscreen/internal/clock"
	"github.com/brightpath/ldscreen/internal/diagnosis"
	"github.com/brightpath/ldscreen/internal/games"
	"github.com/brightpath/ldscreen/internal/insights"
	"github.com/brightpath/ldscreen/internal/router"
	"github.com/brightpath/ldscreen/internal/screen"
	"github.com/brightpath/ldscreen/internal/store"
	"github.com/brightpath/ldscreen/internal/tasks"
	"github.com/brightpath/ldscreen/internal/timing"
	"github.com/brightpath/ldscreen/internal/ui/components"
	"github.com/brightpath/ldscreen/internal/ui/layout"
)

// FeedbackDelay is how long the outcome of one item stays on screen before
// the next item is shown.
const FeedbackDelay = 800 * time.Millisecond

// ReadingCoach comments on a read-aloud attempt.
type ReadingCoach interface {
	ReadingFeedback(ctx context.Context, in insights.Reading) (*insights.Feedback, error)
}

// Config wires the game screens to their collaborators. Events and Coach
// are optional.
type Config struct {
	Clock     clock.Clock
	Events    store.EventRepo
	Coach     ReadingCoach
	AgeGroup  string
	Rand      *rand.Rand
	RoundSize int
	Log       *slog.Logger
}

func (c *Config) defaults() {
	if c.Clock == nil {
		c.Clock = clock.New()
	}
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if c.RoundSize <= 0 {
		c.RoundSize = games.DefaultRoundSize
	}
	if c.Log == nil {
		c.Log = slog.New(slog.DiscardHandler)
	}
}

type phase int

const (
	phasePlaying phase = iota
	phaseFeedback
	phaseDone
	phaseFailed
)

type eventKind int

const (
	evResult   eventKind = iota // a choice, tap or missed-target outcome
	evEcho                      // a read-aloud transcription was scored
	evWithheld                  // the window of a withhold item elapsed
	evNext                      // the feedback delay elapsed
)

// event is produced by trial callbacks and timers, possibly off the UI
// goroutine, and consumed in Update. index is the item it belongs to.
type event struct {
	index  int
	kind   eventKind
	result tasks.Result
	echo   tasks.EchoResult
}

type eventMsg event

type coachMsg struct {
	feedback *insights.Feedback
	err      error
}

// attempt is one read-aloud transcription kept for coaching.
type attempt struct {
	reading  insights.Reading
	accuracy float64
}

// PlayScreen plays one round of a game. Every item yields exactly one
// outcome: a result from the trial, or a held response when a withhold item
// is left alone for the task window.
type PlayScreen struct {
	cfg      Config
	info     games.Info
	generate func() (games.Round, error)

	ctx     context.Context
	cancel  context.CancelFunc
	events  chan event
	current atomic.Int64

	trial *tasks.Trial
	echo  *tasks.EchoTrial
	timer clock.Timer

	round    games.Round
	index    int
	phase    phase
	choices  []string
	options  components.OptionList
	input    components.TextInput
	typed    string
	tally    games.Tally
	withheld int
	outcome  string
	correct  bool
	errMsg   string

	attempts    []attempt
	coaching    bool
	feedback    *insights.Feedback
	feedbackErr string
}

var _ screen.Screen = (*PlayScreen)(nil)
var _ screen.KeyHintProvider = (*PlayScreen)(nil)
var _ screen.Closer = (*PlayScreen)(nil)

// NewPlay creates a screen for one round of kind.
func NewPlay(cfg Config, kind tasks.Kind) *PlayScreen {
	cfg.defaults()
	info, ok := games.Lookup(kind)
	if !ok {
		info = games.Info{Kind: kind, Title: string(kind)}
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &PlayScreen{
		cfg:    cfg,
		info:   info,
		ctx:    ctx,
		cancel: cancel,
		events: make(chan event, 16),
		input:  components.NewTextInput("type what you read", 120),
	}
	s.generate = func() (games.Round, error) {
		return games.NewRound(kind, s.cfg.Rand, s.cfg.RoundSize)
	}
	s.trial = tasks.NewTrial(cfg.Clock, func(r tasks.Result) {
		s.send(event{index: int(s.current.Load()), kind: evResult, result: r})
	})
	s.echo = tasks.NewEchoTrial(cfg.Clock, func(r tasks.EchoResult) {
		s.send(event{index: int(s.current.Load()), kind: evEcho, echo: r})
	})
	return s
}

func (s *PlayScreen) Init() tea.Cmd {
	s.start()
	if s.isReadAloud() {
		return tea.Batch(s.listen(), s.input.Init())
	}
	return s.listen()
}

func (s *PlayScreen) Title() string { return s.info.Title }

// Close stops pending timers and drops later outcomes.
func (s *PlayScreen) Close() {
	s.stopTimer()
	s.trial.Close()
	s.cancel()
}

// Summary reports the round so far.
func (s *PlayScreen) Summary() games.Summary { return s.tally.Summary() }

// Withheld returns how many withhold items were correctly left alone.
func (s *PlayScreen) Withheld() int { return s.withheld }

func (s *PlayScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseDone:
		hints := []layout.KeyHint{{Key: "R", Description: "Play again"}}
		if s.canCoach() {
			hints = append(hints, layout.KeyHint{Key: "F", Description: "Reading feedback"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	case phaseFailed:
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	switch {
	case s.isReadAloud():
		return []layout.KeyHint{{Key: "Enter", Description: "Done typing"}, {Key: "Esc", Description: "Quit round"}}
	case len(s.choices) > 0:
		return []layout.KeyHint{{Key: "1-9", Description: "Choose"}, {Key: "Esc", Description: "Quit round"}}
	}
	return []layout.KeyHint{{Key: "Space", Description: "Tap"}, {Key: "Esc", Description: "Quit round"}}
}

func (s *PlayScreen) isReadAloud() bool { return s.info.Kind == diagnosis.TaskReadAloud }

func (s *PlayScreen) canCoach() bool {
	return s.cfg.Coach != nil && s.isReadAloud() && len(s.attempts) > 0 && !s.coaching
}

// start generates a fresh round and shows its first item.
func (s *PlayScreen) start() {
	round, err := s.generate()
	if err != nil {
		s.phase = phaseFailed
		s.errMsg = err.Error()
		return
	}
	s.round = round
	s.tally = games.Tally{}
	s.withheld = 0
	s.attempts = nil
	s.feedback, s.feedbackErr = nil, ""
	s.cfg.Log.Info("game round started", "round_id", round.ID, "game", round.Kind, "items", round.Len())
	s.present(0)
}

func (s *PlayScreen) present(i int) {
	s.stopTimer()
	s.index = i
	s.phase = phasePlaying
	s.outcome = ""
	s.current.Store(int64(i))

	if s.isReadAloud() {
		s.input.Reset()
		s.echo.Present(s.round.Sentences[i])
		return
	}

	st := s.round.Stimuli[i]
	s.choices, s.options = nil, components.OptionList{}
	chooser, isChoice := st.(tasks.Chooser)
	if isChoice {
		s.choices = chooser.Choices()
		s.options = components.NewOptionList(optionLabels(st, s.choices))
	}
	s.trial.Present(st)

	// A withhold item that is correctly left alone produces no trial
	// result, so the screen times the window itself.
	if !isChoice && !st.ArmsTimeout() {
		s.arm(timing.TaskTimeout, evWithheld)
	}
}

func (s *PlayScreen) arm(d time.Duration, kind eventKind) {
	s.stopTimer()
	idx := s.index
	s.timer = s.cfg.Clock.AfterFunc(d, func() {
		s.send(event{index: idx, kind: kind})
	})
}

func (s *PlayScreen) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *PlayScreen) send(ev event) {
	select {
	case s.events <- ev:
	case <-s.ctx.Done():
	}
}

// listen waits for the next event. Exactly one listen is outstanding while
// the screen is open.
func (s *PlayScreen) listen() tea.Cmd {
	ctx, ch := s.ctx, s.events
	return func() tea.Msg {
		select {
		case ev := <-ch:
			return eventMsg(ev)
		case <-ctx.Done():
			return nil
		}
	}
}

func (s *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := s.handle(event(msg))
		return s, tea.Batch(s.listen(), cmd)

	case coachMsg:
		s.coaching = false
		if msg.err != nil {
			s.cfg.Log.Warn("reading feedback failed", "err", msg.err)
			s.feedbackErr = msg.err.Error()
			return s, nil
		}
		s.feedback = msg.feedback
		return s, nil

	case tea.KeyMsg:
		return s, s.handleKey(msg)
	}

	if s.isReadAloud() && s.phase == phasePlaying {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PlayScreen) handle(ev event) tea.Cmd {
	if ev.index != s.index {
		return nil
	}

	switch ev.kind {
	case evResult:
		if s.phase != phasePlaying {
			return nil
		}
		r := ev.result
		s.tally.Add(r)
		s.correct = r.Correct
		s.outcome = describe(r)
		s.arm(FeedbackDelay, evNext)
		s.phase = phaseFeedback
		return s.journal(s.round.Event(r))

	case evEcho:
		if s.phase != phasePlaying {
			return nil
		}
		r := ev.echo
		s.tally.AddEcho(r)
		s.correct = r.Mistakes == 0
		s.outcome = fmt.Sprintf("%s match", components.Percent(r.Accuracy))
		s.attempts = append(s.attempts, attempt{
			reading: insights.Reading{
				AgeGroup:   s.cfg.AgeGroup,
				Target:     s.round.Sentences[s.index],
				Transcript: s.typed,
				Elapsed:    time.Duration(r.ResponseTimeMs) * time.Millisecond,
			},
			accuracy: r.Accuracy,
		})
		s.arm(FeedbackDelay, evNext)
		s.phase = phaseFeedback
		return s.journal(s.round.EchoEvent(r))

	case evWithheld:
		if s.phase != phasePlaying {
			return nil
		}
		s.withheld++
		s.correct = true
		s.outcome = "Nice, you held still"
		s.arm(FeedbackDelay, evNext)
		s.phase = phaseFeedback

	case evNext:
		if s.phase != phaseFeedback {
			return nil
		}
		if s.index+1 < s.round.Len() {
			s.present(s.index + 1)
			return nil
		}
		s.stopTimer()
		s.phase = phaseDone
		sum := s.tally.Summary()
		s.cfg.Log.Info("game round finished", "round_id", s.round.ID, "game", s.round.Kind,
			"trials", sum.Trials, "withheld", s.withheld, "accuracy", sum.Accuracy)
	}
	return nil
}

func (s *PlayScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	switch s.phase {
	case phaseDone:
		switch key {
		case "r":
			s.start()
		case "f":
			if s.canCoach() {
				s.coaching = true
				s.feedbackErr = ""
				return s.coach()
			}
		case "enter":
			return router.Back
		}
		return nil
	case phasePlaying:
	default:
		return nil
	}

	if s.isReadAloud() {
		if key == "enter" {
			s.typed = s.input.Value()
			s.echo.Submit(s.typed)
			return nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return cmd
	}

	if len(s.choices) > 0 {
		var chose bool
		s.options, chose = s.options.Update(msg)
		if chose {
			s.trial.Act(tasks.Choose(s.choices[s.options.Cursor]))
		}
		return nil
	}

	if key == "space" {
		// A tap during a withhold window is an impulsive response and ends
		// the window.
		if s.trial.Act(tasks.Tap) {
			s.stopTimer()
		}
	}
	return nil
}

// journal appends one response event. Failures are logged, never shown.
func (s *PlayScreen) journal(data store.ResponseEventData) tea.Cmd {
	repo, log := s.cfg.Events, s.cfg.Log
	if repo == nil {
		return nil
	}
	ctx := s.ctx
	return func() tea.Msg {
		if err := repo.AppendResponseEvent(ctx, data); err != nil {
			log.Warn("journal game response", "round_id", data.SessionID, "err", err)
		}
		return nil
	}
}

// coach asks for feedback on the weakest attempt of the round.
func (s *PlayScreen) coach() tea.Cmd {
	worst := s.attempts[0]
	for _, a := range s.attempts[1:] {
		if a.accuracy < worst.accuracy {
			worst = a
		}
	}
	ctx, c := s.ctx, s.cfg.Coach
	return func() tea.Msg {
		fb, err := c.ReadingFeedback(ctx, worst.reading)
		return coachMsg{feedback: fb, err: err}
	}
}

func describe(r tasks.Result) string {
	switch {
	case r.Correct:
		return "Correct!"
	case r.TimedOut:
		return "Too slow: " + humanize(r.MistakeType)
	case r.MistakeType != "":
		return "Not quite: " + humanize(r.MistakeType)
	}
	return "Not quite"
}

func humanize(t diagnosis.Tag) string {
	return strings.ReplaceAll(string(t), "_", " ")
}

// optionLabels decorates choices for display. Equation options are shown
// with a dot for each unit.
func optionLabels(st tasks.Stimulus, choices []string) []string {
	if _, ok := st.(tasks.EquationMatch); !ok {
		return choices
	}
	labels := make([]string, len(choices))
	for i, c := range choices {
		n, _ := strconv.Atoi(c)
		labels[i] = fmt.Sprintf("%-3s %s", c, strings.Repeat("●", n))
	}
	return labels
}
