// Package history orders past session summaries for trend display.
package history

import (
	"fmt"
	"sort"
	"time"
)

// Entry is one past session summary as supplied by the scoring service.
type Entry struct {
	SessionID        string  `json:"session_id"`
	Date             string  `json:"date"`
	Time             string  `json:"time"`
	DateTime         string  `json:"datetime"`
	DyslexiaScore    float64 `json:"dyslexia_score"`
	DyscalculiaScore float64 `json:"dyscalculia_score"`
	AttentionScore   float64 `json:"attention_score"`
	RiskLabel        string  `json:"risk_label"`
}

// Point is one column of the trend display: either a session or a spacer
// separating two calendar days.
type Point struct {
	Key    string
	Spacer bool

	// Label is set on the first session of each day only.
	Label string
	At    time.Time
	Entry Entry
}

// LabelLayout formats the per-day tick label.
const LabelLayout = "Jan 2"

// naive timestamps carry no zone and are interpreted in the display location.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
}

// Timestamp resolves when e happened. The precise datetime wins; otherwise
// the date-only field is taken as midnight in loc. It reports false when
// neither field parses.
func (e Entry) Timestamp(loc *time.Location) (time.Time, bool) {
	if e.DateTime != "" {
		if t, err := time.Parse(time.RFC3339Nano, e.DateTime); err == nil {
			return t, true
		}
		for _, layout := range naiveLayouts {
			if t, err := time.ParseInLocation(layout, e.DateTime, loc); err == nil {
				return t, true
			}
		}
	}
	if e.Date != "" {
		if t, err := time.ParseInLocation(time.DateOnly, e.Date, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Group sorts entries ascending by time, inserts a spacer before every entry
// whose calendar day in loc differs from the previous one, and labels the
// first entry of each day. Entries without a usable timestamp are skipped.
// Ties keep their input order.
func Group(entries []Entry, loc *time.Location) []Point {
	if loc == nil {
		loc = time.Local
	}

	type stamped struct {
		at    time.Time
		entry Entry
	}
	sorted := make([]stamped, 0, len(entries))
	for _, e := range entries {
		if at, ok := e.Timestamp(loc); ok {
			sorted = append(sorted, stamped{at: at, entry: e})
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].at.Before(sorted[j].at)
	})

	points := make([]Point, 0, 2*len(sorted))
	var prevDay string
	for i, s := range sorted {
		day := s.at.In(loc).Format(time.DateOnly)
		newDay := day != prevDay
		if newDay && i > 0 {
			points = append(points, Point{
				Key:    fmt.Sprintf("spacer-%d", i),
				Spacer: true,
			})
		}
		p := Point{
			Key:   fmt.Sprintf("%d_%d", i, s.at.UnixMilli()),
			At:    s.at,
			Entry: s.entry,
		}
		if newDay {
			p.Label = s.at.In(loc).Format(LabelLayout)
		}
		points = append(points, p)
		prevDay = day
	}
	return points
}

// Sessions returns the non-spacer points.
func Sessions(points []Point) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if !p.Spacer {
			out = append(out, p)
		}
	}
	return out
}
