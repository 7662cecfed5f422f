// Package games generates practice rounds for the interactive tasks and
// summarizes how a round went.
package games

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/google/uuid"

	"github.com/brightpath/ldscreen/internal/diagnosis"
	"github.com/brightpath/ldscreen/internal/store"
	"github.com/brightpath/ldscreen/internal/tasks"
)

// DefaultRoundSize is the number of stimuli in a round.
const DefaultRoundSize = 10

// Info describes a game for menus.
type Info struct {
	Kind  tasks.Kind
	Title string
	Blurb string
}

// Catalog lists the games in menu order.
var Catalog = []Info{
	{diagnosis.TaskGoNoGo, "Focus Guard", "Tap on GREEN. Hold still on RED."},
	{diagnosis.TaskLetterFlip, "Letter Flip Frenzy", "Find the letter that matches."},
	{diagnosis.TaskNumberSense, "Number Sense Dash", "Pick the bigger number."},
	{diagnosis.TaskPatternWatch, "Pattern Watcher", "Tap when the pattern breaks."},
	{diagnosis.TaskVisualMath, "Visual Math Match", "Match the sum to the dots."},
	{diagnosis.TaskReadAloud, "Read Aloud Echo", "Type the sentence you see."},
}

// Lookup returns the catalog entry for kind.
func Lookup(kind tasks.Kind) (Info, bool) {
	for _, info := range Catalog {
		if info.Kind == kind {
			return info, true
		}
	}
	return Info{}, false
}

// Round is one generated sequence of stimuli. Read-aloud rounds carry
// sentences instead of stimuli.
type Round struct {
	ID        string
	Kind      tasks.Kind
	Stimuli   []tasks.Stimulus
	Sentences []string
}

// Len returns the number of items in the round.
func (r Round) Len() int {
	if r.Kind == diagnosis.TaskReadAloud {
		return len(r.Sentences)
	}
	return len(r.Stimuli)
}

// NewRound generates n items for kind.
func NewRound(kind tasks.Kind, rng *rand.Rand, n int) (Round, error) {
	if n <= 0 {
		return Round{}, fmt.Errorf("round size must be positive, got %d", n)
	}
	r := Round{ID: uuid.NewString(), Kind: kind}

	if kind == diagnosis.TaskReadAloud {
		for _, i := range rng.Perm(len(sentences)) {
			if len(r.Sentences) == n {
				break
			}
			r.Sentences = append(r.Sentences, sentences[i])
		}
		for len(r.Sentences) < n {
			r.Sentences = append(r.Sentences, sentences[rng.IntN(len(sentences))])
		}
		return r, nil
	}

	gen, ok := generators[kind]
	if !ok {
		return Round{}, fmt.Errorf("unknown game %q", kind)
	}
	r.Stimuli = make([]tasks.Stimulus, n)
	for i := range r.Stimuli {
		r.Stimuli[i] = gen(rng)
	}
	return r, nil
}

// Event converts one result of the round into a journal entry.
func (r Round) Event(res tasks.Result) store.ResponseEventData {
	return store.ResponseEventData{
		SessionID:      r.ID,
		Source:         store.SourceGame,
		Task:           string(res.Kind),
		Domain:         string(TaskDomain(res.Kind)),
		Correct:        res.Correct,
		ResponseTimeMs: res.ResponseTimeMs,
		MistakeType:    string(res.MistakeType),
	}
}

// EchoEvent converts one read-aloud result into a journal entry.
func (r Round) EchoEvent(res tasks.EchoResult) store.ResponseEventData {
	return store.ResponseEventData{
		SessionID:      r.ID,
		Source:         store.SourceGame,
		Task:           string(diagnosis.TaskReadAloud),
		Domain:         string(diagnosis.DomainReading),
		Correct:        res.Mistakes == 0,
		ResponseTimeMs: res.ResponseTimeMs,
		Accuracy:       res.Accuracy,
		Mistakes:       res.Mistakes,
	}
}

// TaskDomain returns the domain a task exercises.
func TaskDomain(kind tasks.Kind) diagnosis.Domain {
	switch kind {
	case diagnosis.TaskLetterFlip, diagnosis.TaskReadAloud:
		return diagnosis.DomainReading
	case diagnosis.TaskNumberSense, diagnosis.TaskVisualMath:
		return diagnosis.DomainMath
	}
	return diagnosis.DomainAttention
}

var generators = map[tasks.Kind]func(*rand.Rand) tasks.Stimulus{
	diagnosis.TaskGoNoGo:       cue,
	diagnosis.TaskLetterFlip:   letterChoice,
	diagnosis.TaskNumberSense:  magnitudePair,
	diagnosis.TaskPatternWatch: patternItem,
	diagnosis.TaskVisualMath:   equationMatch,
}

// goRatio is the share of go cues in a focus round.
const goRatio = 0.7

func cue(rng *rand.Rand) tasks.Stimulus {
	return tasks.Cue{Go: rng.Float64() < goRatio}
}

// confusable groups letters that are commonly mirrored or swapped.
var confusable = [][]string{
	{"b", "d", "p", "q"},
	{"m", "w", "n", "u"},
	{"E", "F", "3", "B"},
}

func letterChoice(rng *rand.Rand) tasks.Stimulus {
	group := confusable[rng.IntN(len(confusable))]
	options := append([]string(nil), group...)
	rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	target := group[rng.IntN(len(group))]
	return tasks.LetterChoice{Target: target, Options: options, Correct: target}
}

func magnitudePair(rng *rand.Rand) tasks.Stimulus {
	left := 1 + rng.IntN(99)
	right := left
	for right == left {
		right = 1 + rng.IntN(99)
	}
	return tasks.MagnitudePair{Left: left, Right: right}
}

var shapes = []string{"▲", "●", "■", "◆"}

// breakRatio is the share of pattern items that break the pattern.
const breakRatio = 0.25

func patternItem(rng *rand.Rand) tasks.Stimulus {
	order := rng.Perm(len(shapes))
	pattern := make([]string, 2+rng.IntN(2))
	for i := range pattern {
		pattern[i] = shapes[order[i]]
	}
	expected := pattern[0]
	if rng.Float64() >= breakRatio {
		return tasks.PatternItem{Context: pattern, Item: expected}
	}
	// A break is any shape other than the one the pattern predicts.
	item := expected
	for item == expected {
		item = shapes[rng.IntN(len(shapes))]
	}
	return tasks.PatternItem{Context: pattern, Item: item, IsBreak: true}
}

func equationMatch(rng *rand.Rand) tasks.Stimulus {
	a, b := 1+rng.IntN(5), 1+rng.IntN(5)
	v := a + b
	options := []int{v}
	for len(options) < 3 {
		d := v + rng.IntN(5) - 2
		if d < 1 || containsInt(options, d) {
			continue
		}
		options = append(options, d)
	}
	rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	return tasks.EquationMatch{Equation: strconv.Itoa(a) + " + " + strconv.Itoa(b), Value: v, Options: options}
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

var sentences = []string{
	"the cat sat on the mat",
	"a big dog ran to the park",
	"we play ball after school",
	"the sun is hot today",
	"my friend has a red bike",
	"birds sing in the tall tree",
	"she reads a book every night",
	"the fish swims in the pond",
	"he drew a picture of a boat",
	"bread and milk are on the table",
	"the bus stops by the door",
	"rain makes the grass grow",
}
