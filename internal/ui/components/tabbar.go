package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/glossa-app/glossa/internal/ui/theme"
)

// TabBar renders the row of open tab labels.
type TabBar struct {
	Labels []string
	Active int
	Width  int
}

// View renders the tab bar as a single line.
func (t TabBar) View() string {
	parts := make([]string, 0, len(t.Labels))
	for i, label := range t.Labels {
		text := fmt.Sprintf(" %d %s ", i+1, label)
		if i == t.Active {
			parts = append(parts, theme.TabActive.Render(text))
		} else {
			parts = append(parts, theme.TabInactive.Render(text))
		}
	}

	bar := " " + strings.Join(parts, " ")
	return lipgloss.NewStyle().
		Width(t.Width).
		Background(theme.BgDark).
		Render(bar)
}
