package assessment

import (
	"context"

	"github.com/brightpath/ldscreen/internal/scoring"
)

// Op is a pending call to the scoring service.
type Op struct {
	name string
	gen  uint64
	run  func(context.Context) Outcome
}

// Name identifies the operation for logging.
func (o Op) Name() string { return o.name }

// Valid reports whether o carries work.
func (o Op) Valid() bool { return o.run != nil }

// Run performs the call. It is safe to call from any goroutine and does not
// touch engine state.
func (o Op) Run(ctx context.Context) Outcome {
	out := o.run(ctx)
	out.gen = o.gen
	out.op = o.name
	return out
}

// Outcome is what an Op produced.
type Outcome struct {
	gen uint64
	op  string

	Session   *scoring.Session
	Submitted *Response
	Question  *scoring.Question
	Result    *scoring.AssessmentResult
	Ended     bool
	Err       error
}
