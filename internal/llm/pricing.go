package llm

// Price is USD per million tokens.
type Price struct {
	Input  float64
	Output float64
}

// prices covers the default and commonly configured models. Provider
// prefixes such as "openai/" are stripped before lookup.
var prices = map[string]Price{
	"claude-haiku-4-5-20251001":  {1, 5},
	"claude-haiku-4-5":           {1, 5},
	"claude-sonnet-4-5-20250929": {3, 15},
	"claude-sonnet-4-5":          {3, 15},
	"gpt-4o-mini":                {0.15, 0.6},
	"gpt-4o":                     {2.5, 10},
	"gpt-4.1-mini":               {0.4, 1.6},
	"gpt-5-mini":                 {0.25, 2},
	"gemini-2.0-flash":           {0.1, 0.4},
	"gemini-2.0-flash-001":       {0.1, 0.4},
	"gemini-2.5-flash":           {0.3, 2.5},
	"gemini-2.5-flash-lite":      {0.1, 0.4},
	"gemini-2.5-pro":             {1.25, 10},
}

// EstimateCost returns the USD cost of a request to model, and false when
// the model has no known price.
func EstimateCost(model string, inputTokens, outputTokens int) (float64, bool) {
	p, ok := prices[model]
	if !ok {
		for i := len(model) - 1; i >= 0; i-- {
			if model[i] == '/' {
				p, ok = prices[model[i+1:]]
				break
			}
		}
	}
	if !ok {
		return 0, false
	}
	return (float64(inputTokens)*p.Input + float64(outputTokens)*p.Output) / 1e6, true
}
