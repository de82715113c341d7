package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/glossa-app/glossa/internal/content"
	"github.com/glossa-app/glossa/internal/progress"
	"github.com/glossa-app/glossa/internal/screen"
	"github.com/glossa-app/glossa/internal/screens/library"
	"github.com/glossa-app/glossa/internal/store"
	"github.com/glossa-app/glossa/internal/tabs"
	"github.com/glossa-app/glossa/internal/tutor"
	"github.com/glossa-app/glossa/internal/ui/components"
	"github.com/glossa-app/glossa/internal/ui/layout"
)

// Deps bundles the services the UI needs. Explainer may be nil when no
// tutor provider is configured.
type Deps struct {
	Library   *content.Library
	Gateway   *progress.Gateway
	Events    store.EventRepo
	Explainer *tutor.Explainer
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	tabs   *tabs.Manager
	width  int
	height int
}

// newAppModel creates a new AppModel with the library in the first tab.
func newAppModel(deps Deps) AppModel {
	lib := library.New(deps.Library, deps.Gateway, deps.Events, deps.Explainer)
	return AppModel{
		tabs: tabs.New(lib),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.tabs.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+w":
			return m, func() tea.Msg { return tabs.CloseTabMsg{} }
		case "ctrl+right", "ctrl+l":
			return m, func() tea.Msg { return tabs.NextTabMsg{} }
		case "ctrl+left", "ctrl+h":
			return m, func() tea.Msg { return tabs.PrevTabMsg{} }
		}
	}

	cmd := m.tabs.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.tabs.Active()
	title := active.Title()

	status := ""
	if m.tabs.Count() > 1 {
		status = fmt.Sprintf("%d tabs", m.tabs.Count())
	}

	header := layout.RenderHeader(title, status, m.width)

	tabBar := ""
	if m.tabs.Count() > 1 {
		tabBar = components.TabBar{
			Labels: m.tabs.Labels(),
			Active: m.tabs.ActiveIndex(),
			Width:  m.width,
		}.View()
	}

	footerHints := []layout.KeyHint{
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(hp.KeyHints(), footerHints...)
	}
	if m.tabs.Count() > 1 {
		footerHints = append([]layout.KeyHint{
			{Key: "Ctrl+←→", Description: "Switch tab"},
		}, footerHints...)
	}

	footer := layout.RenderFooter(footerHints, m.width)

	chromeHeight := lipgloss.Height(header) + lipgloss.Height(footer)
	if tabBar != "" {
		chromeHeight += lipgloss.Height(tabBar)
	}
	contentHeight := m.height - chromeHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.tabs.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, tabBar, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(deps Deps) error {
	p := tea.NewProgram(newAppModel(deps))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
