// Package devserver is an in-memory practice scorer that speaks the same
// protocol as the remote assessment service. It backs offline demos and the
// end-to-end tests of the scoring client.
package devserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/brightpath/ldscreen/internal/clock"
	"github.com/brightpath/ldscreen/internal/diagnosis"
	"github.com/brightpath/ldscreen/internal/history"
	"github.com/brightpath/ldscreen/internal/report"
	"github.com/brightpath/ldscreen/internal/scoring"
)

// DefaultSessionLength is the number of answers after which a session ends.
const DefaultSessionLength = 15

// Messages sent with end-of-session signals.
const (
	MsgComplete    = "Assessment complete! Generating your results..."
	MsgNoQuestions = "No more questions available"
)

type user struct {
	id       int64
	ageGroup string
	sessions []*session
}

type session struct {
	id        string
	user      *user
	startedAt time.Time

	issued    map[string]issuedQuestion
	used      map[int]bool
	responses []report.Response
	perDomain map[diagnosis.Domain]int

	completed  bool
	prediction *report.Prediction
	endedAt    time.Time
}

type issuedQuestion struct {
	bankIndex  int
	difficulty string
}

// Server is an in-memory scoring.Service.
type Server struct {
	bank          *Bank
	clock         clock.Clock
	log           *slog.Logger
	sessionLength int

	mu         sync.Mutex
	nextUserID int64
	nextRespID int64
	users      map[int64]*user
	sessions   map[string]*session
}

var _ scoring.Service = (*Server)(nil)

// Option configures a Server.
type Option func(*Server)

// WithBank replaces the embedded question bank.
func WithBank(b *Bank) Option { return func(s *Server) { s.bank = b } }

// WithClock sets the clock used for session timestamps.
func WithClock(c clock.Clock) Option { return func(s *Server) { s.clock = c } }

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option { return func(s *Server) { s.log = l } }

// WithSessionLength sets how many answers end a session.
func WithSessionLength(n int) Option { return func(s *Server) { s.sessionLength = n } }

// New returns an empty Server. User ids start at 101.
func New(opts ...Option) *Server {
	s := &Server{
		clock:         clock.New(),
		log:           slog.Default(),
		sessionLength: DefaultSessionLength,
		nextUserID:    101,
		users:         make(map[int64]*user),
		sessions:      make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.bank == nil {
		s.bank = DefaultBank()
	}
	return s
}

func notFound(what string) error {
	return &scoring.APIError{StatusCode: http.StatusNotFound, Message: what + " not found"}
}

func badRequest(format string, args ...any) error {
	return &scoring.APIError{StatusCode: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// StartSession registers a new user and opens their first session.
func (s *Server) StartSession(_ context.Context, ageGroup string) (scoring.Session, error) {
	if !slices.Contains(scoring.AgeGroups, ageGroup) {
		return scoring.Session{}, badRequest("invalid age group %q", ageGroup)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := &user{id: s.nextUserID, ageGroup: ageGroup}
	s.nextUserID++
	s.users[u.id] = u

	sess := &session{
		id:        fmt.Sprintf("S_%d_%02d", u.id, len(u.sessions)+1),
		user:      u,
		startedAt: s.clock.Now(),
		issued:    make(map[string]issuedQuestion),
		used:      make(map[int]bool),
		perDomain: make(map[diagnosis.Domain]int),
	}
	u.sessions = append(u.sessions, sess)
	s.sessions[sess.id] = sess

	s.log.Info("session started", "user_id", u.id, "session_id", sess.id, "age_group", ageGroup)
	return scoring.Session{UserID: u.id, SessionID: sess.id, AgeGroup: ageGroup}, nil
}

// NextQuestion picks the next question for a session. The domain with the
// fewest answers comes next; difficulty adapts to the last answer.
func (s *Server) NextQuestion(_ context.Context, req scoring.NextQuestionRequest) (scoring.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[req.SessionID]
	if !ok {
		return scoring.Question{}, notFound("Session")
	}
	if len(sess.responses) >= s.sessionLength {
		return scoring.Question{EndSession: true, Message: MsgComplete}, nil
	}

	difficulty := difficulties[0]
	if req.LastQuestionID != "" && req.Correct != nil && req.ResponseTimeMs != nil {
		difficulty = "medium"
		if last, ok := sess.issued[req.LastQuestionID]; ok {
			difficulty = NextDifficulty(last.difficulty, *req.Correct, *req.ResponseTimeMs)
		}
	}
	domain := nextDomain(sess.perDomain)

	idx := s.bank.pick(domain, difficulty, sess.used)
	if idx < 0 {
		return scoring.Question{EndSession: true, Message: MsgNoQuestions}, nil
	}
	sess.used[idx] = true
	it := s.bank.Items[idx]

	id := fmt.Sprintf("Q_%s_%d", sess.id, len(sess.issued)+1)
	sess.issued[id] = issuedQuestion{bankIndex: idx, difficulty: it.Difficulty}

	return scoring.Question{
		QuestionID: id,
		Domain:     it.Domain,
		Difficulty: it.Difficulty,
		Text:       it.Text,
		Options:    slices.Clone(it.Options),
	}, nil
}

// SubmitAnswer records one answer. Mistake tags on correct answers are
// dropped.
func (s *Server) SubmitAnswer(_ context.Context, a scoring.Answer) (scoring.Receipt, error) {
	if a.ResponseTimeMs < 0 {
		return scoring.Receipt{}, badRequest("response_time_ms must not be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(a.UserID, a.SessionID)
	if err != nil {
		return scoring.Receipt{}, err
	}

	r := report.Response{
		Domain:         a.Domain,
		Correct:        a.Correct,
		ResponseTimeMs: a.ResponseTimeMs,
		Confidence:     a.Confidence,
	}
	if !a.Correct {
		r.MistakeType = a.MistakeType
	}
	sess.responses = append(sess.responses, r)
	sess.perDomain[a.Domain]++

	s.nextRespID++
	return scoring.Receipt{Status: "success", ResponseID: s.nextRespID}, nil
}

// EndSession classifies a session's answers and marks it complete.
func (s *Server) EndSession(_ context.Context, in scoring.Session) (scoring.AssessmentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(in.UserID, in.SessionID)
	if err != nil {
		return scoring.AssessmentResult{}, err
	}

	p := report.Predict(sess.responses)
	sess.prediction = &p
	sess.completed = true
	sess.endedAt = s.clock.Now()

	s.log.Info("session ended", "session_id", sess.id, "answers", len(sess.responses), "risk", p.Risk)
	return p.Result(), nil
}

// Dashboard assembles the dashboard for a session with at least one answer.
func (s *Server) Dashboard(_ context.Context, in scoring.Session) (scoring.Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(in.UserID, in.SessionID)
	if err != nil {
		return scoring.Dashboard{}, err
	}
	if len(sess.responses) == 0 {
		return scoring.Dashboard{}, &scoring.APIError{
			StatusCode: http.StatusNotFound,
			Message:    "No responses found for this session",
		}
	}

	var res *scoring.AssessmentResult
	if sess.completed && sess.prediction != nil {
		r := sess.prediction.Result()
		res = &r
	}
	return report.Dashboard(report.Input{
		UserID:    sess.user.id,
		AgeGroup:  sess.user.ageGroup,
		StartedAt: sess.startedAt,
		Responses: sess.responses,
		Result:    res,
	}), nil
}

// History lists the completed sessions of a user in completion order.
func (s *Server) History(_ context.Context, userID int64) ([]history.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, notFound("User")
	}

	entries := []history.Entry{}
	for _, sess := range u.sessions {
		if !sess.completed {
			continue
		}
		at := sess.endedAt
		entries = append(entries, history.Entry{
			SessionID:        sess.id,
			Date:             at.Format(time.DateOnly),
			Time:             at.Format(time.TimeOnly),
			DateTime:         at.Format(time.RFC3339),
			DyslexiaScore:    sess.prediction.Scores.Dyslexia,
			DyscalculiaScore: sess.prediction.Scores.Dyscalculia,
			AttentionScore:   sess.prediction.Scores.Attention,
			RiskLabel:        sess.prediction.Risk,
		})
	}
	return entries, nil
}

// lookup resolves a session owned by userID. Callers hold s.mu.
func (s *Server) lookup(userID int64, sessionID string) (*session, error) {
	if _, ok := s.users[userID]; !ok {
		return nil, notFound("User")
	}
	sess, ok := s.sessions[sessionID]
	if !ok || sess.user.id != userID {
		return nil, notFound("Session")
	}
	return sess, nil
}
