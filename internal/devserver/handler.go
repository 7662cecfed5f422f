package devserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/brightpath/ldscreen/internal/scoring"
)

// Handler exposes s over HTTP on the same paths as the remote service.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/health"))

	r.Post(scoring.PathStartSession, s.handleStart)
	r.Post(scoring.PathNextQuestion, s.handleNext)
	r.Post(scoring.PathSubmitAnswer, s.handleSubmit)
	r.Post(scoring.PathEndSession, s.handleEnd)
	r.Post(scoring.PathDashboard, s.handleDashboard)
	r.Post(scoring.PathHistory, s.handleHistory)
	return r
}

type startRequest struct {
	AgeGroup string `json:"age_group"`
}

type historyRequest struct {
	UserID int64 `json:"user_id"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !decode(w, r, &req) {
		return
	}
	sess, err := s.StartSession(r.Context(), req.AgeGroup)
	respond(w, http.StatusCreated, sess, err)
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	var req scoring.NextQuestionRequest
	if !decode(w, r, &req) {
		return
	}
	q, err := s.NextQuestion(r.Context(), req)
	respond(w, http.StatusOK, q, err)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var a scoring.Answer
	if !decode(w, r, &a) {
		return
	}
	rec, err := s.SubmitAnswer(r.Context(), a)
	respond(w, http.StatusCreated, rec, err)
}

func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	var sess scoring.Session
	if !decode(w, r, &sess) {
		return
	}
	res, err := s.EndSession(r.Context(), sess)
	respond(w, http.StatusOK, res, err)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	var sess scoring.Session
	if !decode(w, r, &sess) {
		return
	}
	d, err := s.Dashboard(r.Context(), sess)
	respond(w, http.StatusOK, d, err)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	var req historyRequest
	if !decode(w, r, &req) {
		return
	}
	entries, err := s.History(r.Context(), req.UserID)
	respond(w, http.StatusOK, entries, err)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func respond(w http.ResponseWriter, status int, v any, err error) {
	if err != nil {
		var apiErr *scoring.APIError
		if errors.As(err, &apiErr) {
			writeError(w, apiErr.StatusCode, apiErr.Message)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, status, v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// requestLogger logs one line per request with its chi request id.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
