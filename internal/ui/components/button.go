package components

import (
	"github.com/brightpath/ldscreen/internal/ui/theme"
)

// Button is a labelled action that renders dimmed while disabled.
type Button struct {
	Label   string
	Enabled bool
}

// View renders the button.
func (b Button) View() string {
	if b.Enabled {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	return theme.ButtonInactive.Render(b.Label)
}
