package components

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/brightpath/ldscreen/internal/ui/theme"
)

// OptionList is a single-choice list. Moving the cursor does not choose;
// Enter or a digit key does, and the choice stays marked until the options
// change.
type OptionList struct {
	Options []string
	Cursor  int
	chosen  int
}

// NewOptionList returns a list with nothing chosen.
func NewOptionList(options []string) OptionList {
	return OptionList{Options: options, chosen: -1}
}

// Update handles navigation. It reports whether a choice was made by this
// message.
func (o OptionList) Update(msg tea.Msg) (OptionList, bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(o.Options) == 0 {
		return o, false
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if o.Cursor > 0 {
			o.Cursor--
		}
	case "down", "j":
		if o.Cursor < len(o.Options)-1 {
			o.Cursor++
		}
	case "enter", "space":
		o.chosen = o.Cursor
		return o, true
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(o.Options) {
			o.Cursor = n - 1
			o.chosen = o.Cursor
			return o, true
		}
	}
	return o, false
}

// Chosen returns the chosen option.
func (o OptionList) Chosen() (string, bool) {
	if o.chosen < 0 || o.chosen >= len(o.Options) {
		return "", false
	}
	return o.Options[o.chosen], true
}

// View renders the options numbered from 1.
func (o OptionList) View() string {
	var b strings.Builder
	for i, opt := range o.Options {
		prefix := "  "
		if i == o.Cursor {
			prefix = "▸ "
		}
		mark := "○"
		if i == o.chosen {
			mark = "●"
		}
		line := fmt.Sprintf("%s%d) %s %s", prefix, i+1, mark, opt)

		switch {
		case i == o.chosen:
			b.WriteString(theme.Chosen.Render(line))
		case i == o.Cursor:
			b.WriteString(theme.Selected.Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
