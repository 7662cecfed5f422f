package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/brightpath/ldscreen/internal/history"
	"github.com/brightpath/ldscreen/internal/store"
)

// JournalingService is a decorator that records session lifecycle calls and
// submitted answers in the local journal and caches history feeds.
// Journal failures are logged and never fail the call.
type JournalingService struct {
	inner  Service
	events store.EventRepo
	cache  store.HistoryCache
	log    *slog.Logger

	mu       sync.Mutex
	answered map[string]int
	ageGroup map[string]string
}

// WithJournal wraps a Service with journaling.
func WithJournal(s Service, events store.EventRepo, cache store.HistoryCache, log *slog.Logger) *JournalingService {
	if log == nil {
		log = slog.Default()
	}
	return &JournalingService{
		inner:    s,
		events:   events,
		cache:    cache,
		log:      log,
		answered: make(map[string]int),
		ageGroup: make(map[string]string),
	}
}

func (j *JournalingService) StartSession(ctx context.Context, ageGroup string) (Session, error) {
	s, err := j.inner.StartSession(ctx, ageGroup)
	if err != nil {
		return s, err
	}

	j.mu.Lock()
	j.ageGroup[s.SessionID] = ageGroup
	j.mu.Unlock()

	j.record(ctx, "session start", func() error {
		return j.events.AppendSessionEvent(ctx, store.SessionEventData{
			SessionID: s.SessionID,
			UserID:    s.UserID,
			AgeGroup:  ageGroup,
			Action:    store.ActionStart,
		})
	})
	return s, nil
}

func (j *JournalingService) NextQuestion(ctx context.Context, req NextQuestionRequest) (Question, error) {
	return j.inner.NextQuestion(ctx, req)
}

func (j *JournalingService) SubmitAnswer(ctx context.Context, a Answer) (Receipt, error) {
	r, err := j.inner.SubmitAnswer(ctx, a)
	if err != nil {
		return r, err
	}

	j.mu.Lock()
	j.answered[a.SessionID]++
	j.mu.Unlock()

	j.record(ctx, "response", func() error {
		return j.events.AppendResponseEvent(ctx, store.ResponseEventData{
			SessionID:      a.SessionID,
			Source:         store.SourceAssessment,
			QuestionID:     a.QuestionID,
			Domain:         string(a.Domain),
			Difficulty:     a.Difficulty,
			Correct:        a.Correct,
			ResponseTimeMs: a.ResponseTimeMs,
			MistakeType:    string(a.MistakeType),
			Confidence:     a.Confidence,
		})
	})
	return r, nil
}

func (j *JournalingService) EndSession(ctx context.Context, s Session) (AssessmentResult, error) {
	res, err := j.inner.EndSession(ctx, s)
	if err != nil {
		return res, err
	}

	j.mu.Lock()
	answered := j.answered[s.SessionID]
	ageGroup := j.ageGroup[s.SessionID]
	delete(j.answered, s.SessionID)
	delete(j.ageGroup, s.SessionID)
	j.mu.Unlock()

	j.record(ctx, "session end", func() error {
		return j.events.AppendSessionEvent(ctx, store.SessionEventData{
			SessionID:       s.SessionID,
			UserID:          s.UserID,
			AgeGroup:        ageGroup,
			Action:          store.ActionEnd,
			Risk:            res.Risk,
			ConfidenceLevel: res.ConfidenceLevel,
			KeyInsights:     res.KeyInsights,
			Answered:        answered,
		})
	})
	return res, nil
}

func (j *JournalingService) Dashboard(ctx context.Context, s Session) (Dashboard, error) {
	return j.inner.Dashboard(ctx, s)
}

// History returns the remote feed and caches it. When the service cannot be
// reached the last cached feed for the user is returned instead.
func (j *JournalingService) History(ctx context.Context, userID int64) ([]history.Entry, error) {
	entries, err := j.inner.History(ctx, userID)
	if err == nil {
		j.record(ctx, "history cache", func() error {
			raw, err := json.Marshal(entries)
			if err != nil {
				return err
			}
			return j.cache.Save(ctx, userID, raw)
		})
		return entries, nil
	}

	var te *TransportError
	if !errors.As(err, &te) {
		return nil, err
	}
	raw, fetched, cacheErr := j.cache.Load(ctx, userID)
	if cacheErr != nil || raw == nil {
		return nil, err
	}
	var cached []history.Entry
	if json.Unmarshal(raw, &cached) != nil {
		return nil, err
	}
	j.log.Warn("scoring service unreachable, using cached history",
		"user_id", userID, "fetched_at", fetched, "error", err)
	return cached, nil
}

func (j *JournalingService) record(ctx context.Context, what string, fn func() error) {
	if err := fn(); err != nil {
		j.log.WarnContext(ctx, "journal write failed", "event", what, "error", err)
	}
}
