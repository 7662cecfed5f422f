// Package games hosts the practice mini-games: a menu of the catalog and a
// screen that plays one round.
package games

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/brightpath/ldscreen/internal/games"
	"github.com/brightpath/ldscreen/internal/router"
	"github.com/brightpath/ldscreen/internal/screen"
	"github.com/brightpath/ldscreen/internal/ui/components"
	"github.com/brightpath/ldscreen/internal/ui/layout"
	"github.com/brightpath/ldscreen/internal/ui/theme"
)

// MenuScreen lists the games in catalog order.
type MenuScreen struct {
	menu components.Menu
}

var _ screen.Screen = (*MenuScreen)(nil)
var _ screen.KeyHintProvider = (*MenuScreen)(nil)

// NewMenu creates the game menu. Choosing a game pushes a fresh round.
func NewMenu(cfg Config) *MenuScreen {
	items := make([]components.MenuItem, 0, len(games.Catalog))
	for _, info := range games.Catalog {
		items = append(items, components.MenuItem{
			Label: info.Title,
			Hint:  info.Blurb,
			Action: func() tea.Cmd {
				return router.PushCmd(NewPlay(cfg, info.Kind))
			},
		})
	}
	return &MenuScreen{menu: components.NewMenu(items)}
}

func (s *MenuScreen) Init() tea.Cmd { return nil }

func (s *MenuScreen) Title() string { return "Mini-games" }

func (s *MenuScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Play"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *MenuScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *MenuScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Pick a game"))
	b.WriteString("\n\n")
	b.WriteString(s.menu.View())
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("Practice rounds are saved to your journal but never change a screening result."))
	return lipgloss.NewStyle().Padding(1, 4).Render(b.String())
}
