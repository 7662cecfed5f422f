// Package report turns a session's responses into the figures shown on the
// dashboard: per-domain patterns, key insights and the rule-based risk
// estimate used when no trained model is available.
package report

import (
	"math"

	"github.com/brightpath/ldscreen/internal/diagnosis"
	"github.com/brightpath/ldscreen/internal/store"
)

// Response is the part of a recorded answer the report needs.
type Response struct {
	Domain         diagnosis.Domain
	Correct        bool
	ResponseTimeMs int64
	MistakeType    diagnosis.Tag
	Confidence     string
}

// FromEvents converts journaled response events.
func FromEvents(events []store.ResponseEvent) []Response {
	out := make([]Response, 0, len(events))
	for _, ev := range events {
		out = append(out, Response{
			Domain:         diagnosis.Domain(ev.Domain),
			Correct:        ev.Correct,
			ResponseTimeMs: ev.ResponseTimeMs,
			MistakeType:    diagnosis.Tag(ev.MistakeType),
			Confidence:     ev.Confidence,
		})
	}
	return out
}

// Features are the aggregate measures the predictor and the insight rules
// work from. Ratios are in [0,1]; times are milliseconds.
type Features struct {
	Accuracy           float64
	AvgResponseTime    float64
	ErrorRate          float64
	Consistency        float64 // population std dev of response times
	ReadingAccuracy    float64
	MathAccuracy       float64
	LetterReversals    int
	ConfidenceMismatch int
}

// Neutral values used when there is nothing to measure.
const (
	neutralAccuracy    = 0.5
	neutralTimeMs      = 2000
	neutralConsistency = 500
)

// Extract computes Features from responses. An empty slice yields neutral
// values.
func Extract(rs []Response) Features {
	if len(rs) == 0 {
		return Features{
			Accuracy:        neutralAccuracy,
			AvgResponseTime: neutralTimeMs,
			ErrorRate:       1 - neutralAccuracy,
			Consistency:     neutralConsistency,
			ReadingAccuracy: neutralAccuracy,
			MathAccuracy:    neutralAccuracy,
		}
	}

	var f Features
	var correct int
	var sum float64
	for _, r := range rs {
		if r.Correct {
			correct++
		}
		sum += float64(r.ResponseTimeMs)
		if r.MistakeType == diagnosis.TagLetterReversal {
			f.LetterReversals++
		}
		if (r.Confidence == "low" && r.Correct) || (r.Confidence == "high" && !r.Correct) {
			f.ConfidenceMismatch++
		}
	}
	n := float64(len(rs))
	f.Accuracy = float64(correct) / n
	f.ErrorRate = 1 - f.Accuracy
	f.AvgResponseTime = sum / n

	f.Consistency = neutralConsistency
	if len(rs) > 1 {
		var sq float64
		for _, r := range rs {
			d := float64(r.ResponseTimeMs) - f.AvgResponseTime
			sq += d * d
		}
		f.Consistency = math.Sqrt(sq / n)
	}

	f.ReadingAccuracy = domainAccuracy(rs, diagnosis.DomainReading)
	f.MathAccuracy = domainAccuracy(rs, diagnosis.DomainMath)
	return f
}

func domainAccuracy(rs []Response, d diagnosis.Domain) float64 {
	var n, correct int
	for _, r := range rs {
		if r.Domain != d {
			continue
		}
		n++
		if r.Correct {
			correct++
		}
	}
	if n == 0 {
		return neutralAccuracy
	}
	return float64(correct) / float64(n)
}
