package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/glossa-app/glossa/internal/ui/theme"
)

// Choices is a letter-keyed option selector for multiple-choice questions.
// It records the learner's pick but never grades it; grading happens when
// the whole block is submitted.
type Choices struct {
	Options  []string
	Selected int
	Picked   int // -1 until the learner confirms a choice

	// Review fields, set once the block is submitted.
	Reviewing     bool
	CorrectLetter string
	Correct       bool
}

// NewChoices creates a selector over the given options.
func NewChoices(options []string) Choices {
	return Choices{
		Options: options,
		Picked:  -1,
	}
}

// PickedLetter returns the confirmed choice as an uppercase letter, or "".
func (c Choices) PickedLetter() string {
	if c.Picked < 0 {
		return ""
	}
	return string(rune('A' + c.Picked))
}

// SetPickedLetter restores a previously recorded choice.
func (c *Choices) SetPickedLetter(letter string) {
	c.Picked = -1
	if len(letter) != 1 {
		return
	}
	i := int(letter[0] - 'A')
	if i >= 0 && i < len(c.Options) {
		c.Picked = i
		c.Selected = i
	}
}

// Init returns nil.
func (c Choices) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection.
func (c Choices) Update(msg tea.Msg) (Choices, tea.Cmd) {
	if c.Reviewing {
		return c, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	case "enter":
		c.Picked = c.Selected
	default:
		// Direct letter selection, case-insensitive.
		if len(key) == 1 {
			i := -1
			if key[0] >= 'a' && key[0] <= 'z' {
				i = int(key[0] - 'a')
			} else if key[0] >= 'A' && key[0] <= 'Z' {
				i = int(key[0] - 'A')
			}
			if i >= 0 && i < len(c.Options) {
				c.Selected = i
				c.Picked = i
			}
		}
	}

	return c, nil
}

// View renders the option list.
func (c Choices) View() string {
	var s string
	for i, opt := range c.Options {
		letter := string(rune('A' + i))
		prefix := "  "
		if i == c.Selected && !c.Reviewing {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%s)  %s", prefix, letter, opt)

		switch {
		case c.Reviewing && letter == c.CorrectLetter:
			s += lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render(line) + "\n"
		case c.Reviewing && i == c.Picked:
			s += lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render(line) + "\n"
		case c.Reviewing:
			s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
		case i == c.Picked:
			s += lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(line) + "\n"
		case i == c.Selected:
			s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line) + "\n"
		default:
			s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
		}
	}
	return s
}
