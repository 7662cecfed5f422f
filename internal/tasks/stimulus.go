package tasks

import (
	"strconv"

	"github.com/brightpath/ldscreen/internal/diagnosis"
)

// Kind identifies an interactive task.
type Kind = diagnosis.Task

// Action is what the subject did in response to a stimulus. Tap tasks ignore
// Choice; choice tasks compare it against the stimulus' correct option.
type Action struct {
	Choice string
}

// Tap is the action for go/no-go and pattern tasks.
var Tap = Action{}

// Choose returns the action of picking option s.
func Choose(s string) Action { return Action{Choice: s} }

// ChooseNumber returns the action of picking the numeric option n.
func ChooseNumber(n int) Action { return Action{Choice: strconv.Itoa(n)} }

// Stimulus is one item presented by a task. Each task kind has its own
// stimulus type carrying the data its correctness rule needs.
type Stimulus interface {
	Kind() Kind

	// Accepts reports whether a is the correct response.
	Accepts(a Action) bool

	// ArmsTimeout reports whether the absence of an action within the task
	// window is itself a mistake.
	ArmsTimeout() bool
}

// Chooser is implemented by stimuli that present a fixed set of options.
type Chooser interface {
	Choices() []string
}

// Cue is a go/no-go signal. Only a go cue should be acted on.
type Cue struct {
	Go bool
}

func (Cue) Kind() Kind            { return diagnosis.TaskGoNoGo }
func (c Cue) Accepts(Action) bool { return c.Go }
func (c Cue) ArmsTimeout() bool   { return c.Go }

// LetterChoice asks the subject to pick the option matching Target.
type LetterChoice struct {
	Target  string
	Options []string
	Correct string
}

func (LetterChoice) Kind() Kind              { return diagnosis.TaskLetterFlip }
func (l LetterChoice) Accepts(a Action) bool { return a.Choice == l.Correct }
func (LetterChoice) ArmsTimeout() bool       { return false }
func (l LetterChoice) Choices() []string     { return l.Options }

// MagnitudePair asks which of two numbers is larger.
type MagnitudePair struct {
	Left, Right int
}

func (MagnitudePair) Kind() Kind        { return diagnosis.TaskNumberSense }
func (MagnitudePair) ArmsTimeout() bool { return false }

func (m MagnitudePair) Accepts(a Action) bool {
	n, err := strconv.Atoi(a.Choice)
	if err != nil {
		return false
	}
	return n == max(m.Left, m.Right)
}

func (m MagnitudePair) Choices() []string {
	return []string{strconv.Itoa(m.Left), strconv.Itoa(m.Right)}
}

// PatternItem is one element of a repeating sequence. Tapping is correct
// only when the item breaks the pattern established by Context.
type PatternItem struct {
	Context []string
	Item    string
	IsBreak bool
}

func (PatternItem) Kind() Kind            { return diagnosis.TaskPatternWatch }
func (p PatternItem) Accepts(Action) bool { return p.IsBreak }
func (p PatternItem) ArmsTimeout() bool   { return p.IsBreak }

// EquationMatch asks the subject to match an equation with its value.
type EquationMatch struct {
	Equation string
	Value    int
	Options  []int
}

func (EquationMatch) Kind() Kind        { return diagnosis.TaskVisualMath }
func (EquationMatch) ArmsTimeout() bool { return false }

func (e EquationMatch) Accepts(a Action) bool {
	return a.Choice == strconv.Itoa(e.Value)
}

func (e EquationMatch) Choices() []string {
	out := make([]string, len(e.Options))
	for i, o := range e.Options {
		out[i] = strconv.Itoa(o)
	}
	return out
}
