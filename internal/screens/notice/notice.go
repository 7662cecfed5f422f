// Package notice shows a short message, such as an empty state, until the
// user goes back.
package notice

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/brightpath/ldscreen/internal/router"
	"github.com/brightpath/ldscreen/internal/screen"
	"github.com/brightpath/ldscreen/internal/ui/theme"
)

// Screen displays a message centered in the content area.
type Screen struct {
	title   string
	message string
}

var _ screen.Screen = (*Screen)(nil)

// New creates a notice with the given title and message.
func New(title, message string) *Screen {
	return &Screen{title: title, message: message}
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "enter" {
		return s, router.Back
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(s.message + "\n\n" + theme.Hint.Render("Press Enter to go back"))
}

func (s *Screen) Title() string { return s.title }
