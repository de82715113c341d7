package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/glossa-app/glossa/internal/ui/theme"
)

// TextField wraps bubbles/textinput for free-form answer entry.
type TextField struct {
	Model textinput.Model
	Label string
}

// NewTextField creates a styled text field.
func NewTextField(label, placeholder string, charLimit int) TextField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}

	return TextField{
		Model: ti,
		Label: label,
	}
}

// Init returns the initial command.
func (t TextField) Init() tea.Cmd {
	return t.Model.Focus()
}

// Focus gives the field keyboard focus.
func (t *TextField) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes keyboard focus.
func (t *TextField) Blur() {
	t.Model.Blur()
}

// Focused reports whether the field has keyboard focus.
func (t TextField) Focused() bool {
	return t.Model.Focused()
}

// Update handles messages.
func (t TextField) Update(msg tea.Msg) (TextField, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the field with its label.
func (t TextField) View() string {
	view := t.Model.View()
	if t.Label == "" {
		return view
	}
	label := lipgloss.NewStyle().Foreground(theme.TextDim).Render(t.Label + ": ")
	return label + view
}

// Value returns the current input value.
func (t TextField) Value() string {
	return t.Model.Value()
}

// SetValue replaces the current input value.
func (t *TextField) SetValue(v string) {
	t.Model.SetValue(v)
}
