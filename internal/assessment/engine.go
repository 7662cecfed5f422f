// Package assessment drives one adaptive screening session: it starts the
// session, presents questions one at a time, submits answers and collects
// the final classification.
//
// The Engine never blocks. Every call to the scoring service is returned to
// the caller as an Op, which the caller runs (typically off the UI thread)
// and feeds back through Apply. Each Op carries the generation it was
// issued in; Restart bumps the generation so that late outcomes from an
// abandoned session are dropped instead of mutating the new one.
package assessment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/brightpath/ldscreen/internal/clock"
	"github.com/brightpath/ldscreen/internal/diagnosis"
	"github.com/brightpath/ldscreen/internal/scoring"
	"github.com/brightpath/ldscreen/internal/timing"
)

// Phase is the engine state.
type Phase int

const (
	PhaseWelcome Phase = iota
	PhaseLoading
	PhaseQuestion
	PhaseComplete
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseWelcome:
		return "welcome"
	case PhaseLoading:
		return "loading"
	case PhaseQuestion:
		return "question"
	case PhaseComplete:
		return "complete"
	case PhaseError:
		return "error"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

var (
	// ErrNoSelection is returned by Submit when no option is selected.
	ErrNoSelection = errors.New("no option selected")

	// ErrInvalidPhase is returned when an action is not allowed in the
	// current phase.
	ErrInvalidPhase = errors.New("action not allowed in current phase")

	// ErrUnknownOption is returned by Select for an option the current
	// question does not offer.
	ErrUnknownOption = errors.New("option not offered by current question")

	// ErrEmptyQuestion is recorded when the service sends a question with
	// no options.
	ErrEmptyQuestion = errors.New("question has no options")
)

// Response is the outcome of one answered question.
type Response struct {
	QuestionID     string
	Correct        bool
	ResponseTimeMs int64
	MistakeType    diagnosis.Tag
	Confidence     string
}

// Engine is the session state machine. It is not safe for concurrent use;
// only Op.Run may be called from another goroutine.
type Engine struct {
	svc   scoring.Service
	watch *timing.Stopwatch
	log   *slog.Logger

	gen      uint64
	phase    Phase
	ageGroup string
	session  *scoring.Session
	question *scoring.Question
	selected string
	hasSel   bool
	qNumber  int
	answered int
	last     *Response
	result   *scoring.AssessmentResult
	err      error
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for state transitions.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New returns an engine in the Welcome phase.
func New(svc scoring.Service, c clock.Clock, opts ...Option) *Engine {
	e := &Engine{
		svc:   svc,
		watch: timing.NewStopwatch(c),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Phase() Phase                       { return e.phase }
func (e *Engine) AgeGroup() string                   { return e.ageGroup }
func (e *Engine) QuestionNumber() int                { return e.qNumber }
func (e *Engine) Answered() int                      { return e.answered }
func (e *Engine) Result() *scoring.AssessmentResult  { return e.result }
func (e *Engine) Err() error                         { return e.err }
func (e *Engine) LastResponse() *Response            { return e.last }
func (e *Engine) Selected() (option string, ok bool) { return e.selected, e.hasSel }
func (e *Engine) CanSubmit() bool                    { return e.phase == PhaseQuestion && e.hasSel }
func (e *Engine) Generation() uint64                 { return e.gen }
func (e *Engine) Session() (scoring.Session, bool) {
	if e.session == nil {
		return scoring.Session{}, false
	}
	return *e.session, true
}

// Question returns the question on display.
func (e *Engine) Question() (scoring.Question, bool) {
	if e.question == nil {
		return scoring.Question{}, false
	}
	return *e.question, true
}

// ErrMessage returns the message of the recorded failure, verbatim.
func (e *Engine) ErrMessage() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

// Start begins a session for ageGroup. The returned Op creates the session
// and fetches the first question.
func (e *Engine) Start(ageGroup string) (Op, error) {
	if e.phase != PhaseWelcome {
		return Op{}, ErrInvalidPhase
	}
	e.ageGroup = ageGroup
	e.enter(PhaseLoading)

	svc := e.svc
	return e.op("start", func(ctx context.Context) Outcome {
		s, err := svc.StartSession(ctx, ageGroup)
		if err != nil {
			return Outcome{Err: err}
		}
		s.AgeGroup = ageGroup
		q, err := svc.NextQuestion(ctx, scoring.NextQuestionRequest{
			UserID:    s.UserID,
			SessionID: s.SessionID,
		})
		if err != nil {
			return Outcome{Session: &s, Err: err}
		}
		if q.EndSession {
			return Outcome{Session: &s, Ended: true}
		}
		return Outcome{Session: &s, Question: &q}
	}), nil
}

// Select marks option as the subject's choice for the current question.
func (e *Engine) Select(option string) error {
	if e.phase != PhaseQuestion {
		return ErrInvalidPhase
	}
	if !slices.Contains(e.question.Options, option) {
		return ErrUnknownOption
	}
	e.selected = option
	e.hasSel = true
	return nil
}

// Submit answers the current question with the selected option. The
// returned Op submits the answer, requests the next question and, when the
// service signals the end, fetches the final result.
func (e *Engine) Submit() (Op, error) {
	if e.phase != PhaseQuestion {
		return Op{}, ErrInvalidPhase
	}
	if !e.hasSel {
		return Op{}, ErrNoSelection
	}

	q := *e.question
	s := *e.session
	resp := Response{
		QuestionID:     q.QuestionID,
		Correct:        e.selected == q.Options[0],
		ResponseTimeMs: e.watch.ElapsedMs(),
		Confidence:     scoring.DefaultConfidence,
	}
	if !resp.Correct {
		resp.MistakeType = diagnosis.ForDomain(q.Domain)
	}
	e.enter(PhaseLoading)

	svc := e.svc
	return e.op("submit", func(ctx context.Context) Outcome {
		_, err := svc.SubmitAnswer(ctx, scoring.Answer{
			UserID:         s.UserID,
			SessionID:      s.SessionID,
			QuestionID:     q.QuestionID,
			Domain:         q.Domain,
			Difficulty:     q.Difficulty,
			Correct:        resp.Correct,
			ResponseTimeMs: resp.ResponseTimeMs,
			Confidence:     resp.Confidence,
			MistakeType:    resp.MistakeType,
		})
		if err != nil {
			return Outcome{Err: err}
		}

		out := Outcome{Submitted: &resp}
		next, err := svc.NextQuestion(ctx, scoring.NextQuestionRequest{
			UserID:         s.UserID,
			SessionID:      s.SessionID,
			LastQuestionID: q.QuestionID,
			Correct:        &resp.Correct,
			ResponseTimeMs: &resp.ResponseTimeMs,
		})
		if err != nil {
			out.Err = err
			return out
		}
		if !next.EndSession {
			out.Question = &next
			return out
		}

		res, err := svc.EndSession(ctx, s)
		if err != nil {
			out.Err = err
			return out
		}
		out.Ended = true
		out.Result = &res
		return out
	}), nil
}

// Apply feeds the outcome of an Op back into the engine. Outcomes from an
// earlier generation, or arriving when no call is pending, are ignored and
// Apply reports false.
func (e *Engine) Apply(o Outcome) bool {
	if o.gen != e.gen || e.phase != PhaseLoading {
		e.log.Debug("dropping stale outcome", "op", o.op, "gen", o.gen, "current", e.gen)
		return false
	}

	if o.Session != nil && e.session == nil {
		e.session = o.Session
	}
	if o.Submitted != nil {
		e.answered++
		e.last = o.Submitted
	}

	switch {
	case o.Err != nil:
		e.err = o.Err
		e.enter(PhaseError)
	case o.Ended:
		e.result = o.Result
		e.question = nil
		e.enter(PhaseComplete)
	case o.Question != nil:
		if len(o.Question.Options) == 0 {
			e.err = ErrEmptyQuestion
			e.enter(PhaseError)
			break
		}
		e.receive(*o.Question)
	}
	return true
}

// Do runs op synchronously and applies its outcome.
func (e *Engine) Do(ctx context.Context, op Op) bool {
	return e.Apply(op.Run(ctx))
}

// Restart discards all session state and returns to Welcome. Outcomes of
// calls still in flight will be ignored.
func (e *Engine) Restart() {
	e.gen++
	e.ageGroup = ""
	e.session = nil
	e.question = nil
	e.selected, e.hasSel = "", false
	e.qNumber = 0
	e.answered = 0
	e.last = nil
	e.result = nil
	e.err = nil
	e.enter(PhaseWelcome)
}

func (e *Engine) receive(q scoring.Question) {
	e.question = &q
	e.selected, e.hasSel = "", false
	e.qNumber++
	e.watch.Reset()
	e.enter(PhaseQuestion)
}

func (e *Engine) enter(p Phase) {
	if e.phase != p {
		e.log.Debug("assessment phase", "from", e.phase, "to", p, "gen", e.gen)
	}
	e.phase = p
}

func (e *Engine) op(name string, run func(context.Context) Outcome) Op {
	return Op{name: name, gen: e.gen, run: run}
}
