package devserver

import (
	_ "embed"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/brightpath/ldscreen/internal/diagnosis"
)

//go:embed questions.yaml
var defaultBankYAML []byte

// Difficulty levels, easiest first.
var difficulties = []string{"easy", "medium", "hard"}

// Domains in rotation order.
var rotation = []diagnosis.Domain{
	diagnosis.DomainReading,
	diagnosis.DomainWriting,
	diagnosis.DomainMath,
	diagnosis.DomainAttention,
}

// Item is one bank question. Options[0] is the correct answer.
type Item struct {
	Domain     diagnosis.Domain `yaml:"domain"`
	Difficulty string           `yaml:"difficulty"`
	Text       string           `yaml:"text"`
	Options    []string         `yaml:"options"`
}

// Bank is an ordered question bank.
type Bank struct {
	Items []Item `yaml:"questions"`
}

// ParseBank decodes and validates a YAML question bank.
func ParseBank(data []byte) (*Bank, error) {
	var b Bank
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	if len(b.Items) == 0 {
		return nil, fmt.Errorf("question bank is empty")
	}
	for i, it := range b.Items {
		if !slices.Contains(rotation, it.Domain) {
			return nil, fmt.Errorf("question %d: unknown domain %q", i, it.Domain)
		}
		if !slices.Contains(difficulties, it.Difficulty) {
			return nil, fmt.Errorf("question %d: unknown difficulty %q", i, it.Difficulty)
		}
		if len(it.Options) < 2 {
			return nil, fmt.Errorf("question %d: needs at least two options", i)
		}
	}
	return &b, nil
}

// DefaultBank returns the embedded practice bank.
func DefaultBank() *Bank {
	b, err := ParseBank(defaultBankYAML)
	if err != nil {
		panic(err)
	}
	return b
}

// pick returns the index of the first unused item matching domain and
// difficulty, relaxing first the difficulty, then the domain, then both.
// It returns -1 when every item has been used.
func (b *Bank) pick(domain diagnosis.Domain, difficulty string, used map[int]bool) int {
	matchers := []func(Item) bool{
		func(it Item) bool { return it.Domain == domain && it.Difficulty == difficulty },
		func(it Item) bool { return it.Domain == domain },
		func(it Item) bool { return it.Difficulty == difficulty },
		func(Item) bool { return true },
	}
	for _, match := range matchers {
		for i, it := range b.Items {
			if !used[i] && match(it) {
				return i
			}
		}
	}
	return -1
}

// NextDifficulty steps difficulty down after a wrong or slow answer and up
// after a right and quick one.
func NextDifficulty(current string, correct bool, responseTimeMs int64) string {
	i := slices.Index(difficulties, current)
	if i < 0 {
		i = 1
	}
	switch {
	case !correct || responseTimeMs > 2000:
		i = max(0, i-1)
	case responseTimeMs < 1500:
		i = min(len(difficulties)-1, i+1)
	}
	return difficulties[i]
}

// nextDomain returns the rotation domain with the fewest answers so far.
func nextDomain(counts map[diagnosis.Domain]int) diagnosis.Domain {
	best := rotation[0]
	for _, d := range rotation[1:] {
		if counts[d] < counts[best] {
			best = d
		}
	}
	return best
}
