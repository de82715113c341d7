package library

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/glossa-app/glossa/internal/content"
	"github.com/glossa-app/glossa/internal/exercise"
	"github.com/glossa-app/glossa/internal/progress"
	"github.com/glossa-app/glossa/internal/screen"
	"github.com/glossa-app/glossa/internal/screens/workbook"
	"github.com/glossa-app/glossa/internal/store"
	"github.com/glossa-app/glossa/internal/tabs"
	"github.com/glossa-app/glossa/internal/tutor"
	"github.com/glossa-app/glossa/internal/ui/components"
	"github.com/glossa-app/glossa/internal/ui/layout"
	"github.com/glossa-app/glossa/internal/ui/theme"
)

// LibraryScreen lists available exercises and opens them in workbook tabs.
type LibraryScreen struct {
	lib       *content.Library
	gateway   *progress.Gateway
	events    store.EventRepo
	explainer *tutor.Explainer

	infos    []content.Info
	menu     components.Menu
	errMsg   string
	loadWarn string
}

var _ screen.Screen = (*LibraryScreen)(nil)
var _ screen.KeyHintProvider = (*LibraryScreen)(nil)

// New creates the library screen with injected dependencies.
// explainer may be nil when no tutor provider is configured.
func New(lib *content.Library, gateway *progress.Gateway, events store.EventRepo, explainer *tutor.Explainer) *LibraryScreen {
	return &LibraryScreen{
		lib:       lib,
		gateway:   gateway,
		events:    events,
		explainer: explainer,
	}
}

func (l *LibraryScreen) Init() tea.Cmd {
	return l.loadList()
}

func (l *LibraryScreen) Title() string {
	return "Library"
}

func (l *LibraryScreen) TabLabel() string {
	return "Library"
}

func (l *LibraryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "X", Description: "Reset progress"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// libraryLoadedMsg carries the exercise list after a scan.
type libraryLoadedMsg struct {
	Infos []content.Info
	Warn  error
}

func (l *LibraryScreen) loadList() tea.Cmd {
	return func() tea.Msg {
		infos, err := l.lib.List()
		return libraryLoadedMsg{Infos: infos, Warn: err}
	}
}

func (l *LibraryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case libraryLoadedMsg:
		l.infos = msg.Infos
		if msg.Warn != nil {
			l.loadWarn = msg.Warn.Error()
		}
		l.rebuildMenu()
		return l, nil

	case workbook.OpenFailedMsg:
		l.errMsg = fmt.Sprintf("Could not open %s: %v", msg.ExerciseID, msg.Err)
		return l, nil

	case tea.KeyMsg:
		l.errMsg = ""
		if msg.String() == "x" || msg.String() == "X" {
			return l, l.resetSelected()
		}
	}

	var cmd tea.Cmd
	l.menu, cmd = l.menu.Update(msg)
	return l, cmd
}

func (l *LibraryScreen) rebuildMenu() {
	items := make([]components.MenuItem, 0, len(l.infos))
	for _, info := range l.infos {
		info := info
		desc := fmt.Sprintf("%s · %d blocks · %d questions", info.Kind, info.Blocks, info.Questions)
		if l.gateway.Exists(info.ID) {
			desc += " · in progress"
		}
		items = append(items, components.MenuItem{
			Label:       info.Title,
			Description: desc,
			Action:      func() tea.Cmd { return l.openExercise(info.ID) },
		})
	}
	selected := l.menu.Selected
	l.menu = components.NewMenu(items)
	if selected < len(items) {
		l.menu.Selected = selected
	}
}

// openExercise loads the bank, resumes saved progress when the file is
// valid, and opens the workbook in a new tab. A save that exists but is
// corrupt or does not fit the bank falls back to a fresh state with a
// visible warning; only a missing file starts silently fresh.
func (l *LibraryScreen) openExercise(id string) tea.Cmd {
	return func() tea.Msg {
		doc, bank, err := l.lib.Load(id)
		if err != nil {
			return workbook.OpenFailedMsg{ExerciseID: id, Err: err}
		}

		resumed := false
		warning := ""
		state, err := l.gateway.Load(id)
		switch {
		case err != nil:
			warning = fmt.Sprintf("Saved progress could not be read and was ignored: %v", err)
			state = nil
		case state == nil:
			// no prior save
		default:
			if verr := exercise.Validate(state, bank); verr != nil {
				warning = fmt.Sprintf("Saved progress does not fit this exercise and was ignored: %v", verr)
				state = nil
			} else {
				resumed = true
			}
		}
		if state == nil {
			state = exercise.New(bank)
		}

		return tabs.OpenTabMsg{
			Screen: workbook.New(doc, bank, state, resumed, warning, l.gateway, l.events, l.explainer),
		}
	}
}

// resetSelected discards saved progress for the highlighted exercise.
func (l *LibraryScreen) resetSelected() tea.Cmd {
	if l.menu.Selected < 0 || l.menu.Selected >= len(l.infos) {
		return nil
	}
	id := l.infos[l.menu.Selected].ID
	return func() tea.Msg {
		if err := l.gateway.Delete(id); err != nil {
			return libraryLoadedMsg{Infos: l.infos, Warn: err}
		}
		_ = l.events.Append(context.Background(), store.Event{
			Kind:       store.KindReset,
			ExerciseID: id,
		})
		infos, warn := l.lib.List()
		return libraryLoadedMsg{Infos: infos, Warn: warn}
	}
}

func (l *LibraryScreen) View(width, height int) string {
	var b string

	b += lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("\nGrammar Workbook Library") + "\n"

	b += lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Pick an exercise to begin or resume") + "\n\n"

	if len(l.infos) == 0 {
		b += lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("No exercises found.")
		return b
	}

	b += lipgloss.PlaceHorizontal(width, lipgloss.Center, l.menu.View())

	if l.errMsg != "" {
		b += "\n" + lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(l.errMsg)
	}

	if l.loadWarn != "" {
		b += "\n" + lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render("Some content files were skipped: "+l.loadWarn)
	}

	return b
}
