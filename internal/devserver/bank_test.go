package devserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath/ldscreen/internal/diagnosis"
)

func TestDefaultBank(t *testing.T) {
	b := DefaultBank()
	counts := make(map[diagnosis.Domain]int)
	for _, it := range b.Items {
		counts[it.Domain]++
	}
	for _, d := range rotation {
		assert.GreaterOrEqual(t, counts[d], len(difficulties), "domain %s", d)
	}
}

func TestParseBankRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty", "questions: []", "empty"},
		{"domain", "questions:\n  - {domain: music, difficulty: easy, text: x, options: [a, b]}", "unknown domain"},
		{"difficulty", "questions:\n  - {domain: math, difficulty: brutal, text: x, options: [a, b]}", "unknown difficulty"},
		{"options", "questions:\n  - {domain: math, difficulty: easy, text: x, options: [a]}", "two options"},
		{"syntax", "questions: [", "parse question bank"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBank([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNextDifficulty(t *testing.T) {
	tests := []struct {
		current string
		correct bool
		ms      int64
		want    string
	}{
		{"easy", true, 1000, "medium"},
		{"medium", true, 1000, "hard"},
		{"hard", true, 1000, "hard"},
		{"medium", true, 1500, "medium"},
		{"medium", true, 2000, "medium"},
		{"medium", true, 2001, "easy"},
		{"medium", false, 500, "easy"},
		{"easy", false, 500, "easy"},
		{"unknown", true, 1000, "hard"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NextDifficulty(tt.current, tt.correct, tt.ms), "%s %v %d", tt.current, tt.correct, tt.ms)
	}
}

func TestNextDomain(t *testing.T) {
	assert.Equal(t, diagnosis.DomainReading, nextDomain(nil))
	assert.Equal(t, diagnosis.DomainWriting, nextDomain(map[diagnosis.Domain]int{diagnosis.DomainReading: 1}))
	assert.Equal(t, diagnosis.DomainReading, nextDomain(map[diagnosis.Domain]int{
		diagnosis.DomainReading: 1, diagnosis.DomainWriting: 1, diagnosis.DomainMath: 1, diagnosis.DomainAttention: 1,
	}))
}

func TestPickRelaxes(t *testing.T) {
	b := &Bank{Items: []Item{
		{Domain: diagnosis.DomainMath, Difficulty: "easy"},
		{Domain: diagnosis.DomainMath, Difficulty: "hard"},
		{Domain: diagnosis.DomainReading, Difficulty: "medium"},
	}}
	used := map[int]bool{}
	assert.Equal(t, 1, b.pick(diagnosis.DomainMath, "hard", used))
	used[1] = true
	assert.Equal(t, 0, b.pick(diagnosis.DomainMath, "hard", used))
	used[0] = true
	assert.Equal(t, 2, b.pick(diagnosis.DomainMath, "medium", used))
	used[2] = true
	assert.Equal(t, -1, b.pick(diagnosis.DomainMath, "easy", used))
}
