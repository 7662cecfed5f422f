package insights

import "github.com/brightpath/ldscreen/internal/llm"

// SummarySchema defines the JSON schema for the parent summary.
var SummarySchema = &llm.Schema{
	Name:        "parent-summary",
	Description: "A plain-language summary of a screening session for a parent or teacher",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"headline": map[string]any{
				"type":        "string",
				"description": "One sentence overall takeaway (8-20 words)",
				"minLength":   1,
			},
			"paragraphs": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "2-3 short paragraphs explaining the results without jargon",
				"minItems":    1,
			},
			"activities": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "2-4 concrete at-home activities (one sentence each)",
			},
		},
		"required":             []any{"headline", "paragraphs", "activities"},
		"additionalProperties": false,
	},
}

// FeedbackSchema defines the JSON schema for read-aloud feedback.
var FeedbackSchema = &llm.Schema{
	Name:        "reading-feedback",
	Description: "An age-relative assessment of one read-aloud attempt",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"reading_speed_wpm": map[string]any{
				"type":        "integer",
				"description": "Words per minute",
				"minimum":     0,
			},
			"accuracy_score": map[string]any{
				"type":        "integer",
				"description": "Reproduction accuracy from 0 to 100",
				"minimum":     0,
				"maximum":     100,
			},
			"emotional_state": map[string]any{
				"type": "string",
				"enum": []any{"Confident", "Anxious", "Frustrated", "Neutral"},
			},
			"struggle_words": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Words from the passage that were missed or garbled",
			},
			"assessment_summary": map[string]any{
				"type":        "string",
				"description": "A 1-sentence summary of the attempt",
			},
			"risk_flag": map[string]any{
				"type":        "boolean",
				"description": "True if performance is significantly below age expectations",
			},
			"recommended_solution": map[string]any{
				"type":        "string",
				"description": "2-3 specific, age-appropriate exercises or strategies",
			},
		},
		"required": []any{
			"reading_speed_wpm", "accuracy_score", "emotional_state", "struggle_words",
			"assessment_summary", "risk_flag", "recommended_solution",
		},
		"additionalProperties": false,
	},
}
