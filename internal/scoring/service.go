// Package scoring is the client side of the remote assessment service that
// hands out questions, records answers and classifies finished sessions.
package scoring

import (
	"context"

	"github.com/brightpath/ldscreen/internal/history"
)

// Service is the remote assessment collaborator.
type Service interface {
	StartSession(ctx context.Context, ageGroup string) (Session, error)
	NextQuestion(ctx context.Context, req NextQuestionRequest) (Question, error)
	SubmitAnswer(ctx context.Context, a Answer) (Receipt, error)
	EndSession(ctx context.Context, s Session) (AssessmentResult, error)
	Dashboard(ctx context.Context, s Session) (Dashboard, error)
	History(ctx context.Context, userID int64) ([]history.Entry, error)
}
