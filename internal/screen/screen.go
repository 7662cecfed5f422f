package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/brightpath/ldscreen/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first shown.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Closer is implemented by screens that hold timers or other resources.
// The router calls Close when the screen leaves the stack.
type Closer interface {
	Close()
}

// BackInterceptor is implemented by screens that handle Esc themselves,
// for example to confirm leaving a running assessment.
type BackInterceptor interface {
	InterceptBack() bool
}

// Resumer is implemented by screens that refresh when they become active
// again after the screen above them is popped.
type Resumer interface {
	Resume() tea.Cmd
}
