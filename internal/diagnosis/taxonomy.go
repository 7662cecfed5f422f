package diagnosis

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Mistake describes one entry of the mistake taxonomy.
type Mistake struct {
	Tag         Tag
	Label       string
	Description string
}

// registry is the package-level taxonomy, keyed by tag.
var registry map[Tag]*Mistake

var seedMistakes = []Mistake{
	{TagLetterReversal, "Letter Reversal (b/d, p/q)", "Mirrored or swapped letters when reading"},
	{TagNumberReversal, "Number Reversal", "Digits written or read in the wrong order"},
	{TagSpellingError, "Spelling Errors", "Misspelled words in writing tasks"},
	{TagCalculationError, "Calculation Errors", "Arithmetic carried out incorrectly"},
	{TagSequenceError, "Sequence Errors", "Lost track of order in attention tasks"},
	{TagOmission, "Omissions", "Skipped an item or part of an answer"},
	{TagSubstitution, "Substitutions", "Picked a plausible but wrong alternative"},
	{TagImpulsiveClick, "Impulsive Clicks", "Responded to a stop cue"},
	{TagMissedTarget, "Missed Targets", "Did not respond to a go cue in time"},
	{TagLetterConfusion, "Letter Confusion", "Chose a visually similar letter"},
	{TagMagnitudeError, "Magnitude Errors", "Picked the smaller of two numbers"},
	{TagFalseAlarm, "False Alarms", "Tapped an item that fit the pattern"},
	{TagMissedPatternBreak, "Missed Pattern Breaks", "Did not notice an item breaking the pattern"},
	{TagVisualQuantityMismatch, "Quantity Mismatches", "Matched an equation to the wrong quantity"},
}

func init() {
	registry = make(map[Tag]*Mistake, len(seedMistakes))
	for i := range seedMistakes {
		m := &seedMistakes[i]
		registry[m.Tag] = m
	}
}

// Lookup returns the taxonomy entry for tag, or nil if unknown.
func Lookup(tag Tag) *Mistake {
	return registry[tag]
}

// Label returns a readable name for tag. Tags outside the taxonomy are
// title-cased with underscores replaced by spaces.
func Label(tag Tag) string {
	if m := registry[tag]; m != nil {
		return m.Label
	}
	words := strings.Fields(strings.ReplaceAll(string(tag), "_", " "))
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// All returns every taxonomy entry ordered by tag.
func All() []*Mistake {
	out := make([]*Mistake, 0, len(registry))
	for _, m := range registry {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}
