package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/brightpath/ldscreen/internal/ui/theme"
)

// ProgressBar displays a horizontal bar for a value in [0,1].
type ProgressBar struct {
	Label   string
	Percent float64
	Width   int

	// Caption replaces the percentage on the right when set.
	Caption string
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string
	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	caption := p.Caption
	if caption == "" {
		caption = fmt.Sprintf("%d%%", int(p.Percent*100))
	}
	caption = "  " + caption

	barWidth := max(p.Width-lipgloss.Width(result)-lipgloss.Width(caption), 4)
	filled := min(max(int(float64(barWidth)*p.Percent), 0), barWidth)

	result += lipgloss.NewStyle().Background(theme.Secondary).Render(strings.Repeat(" ", filled))
	result += lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled))
	result += lipgloss.NewStyle().Foreground(theme.TextDim).Render(caption)
	return result
}
