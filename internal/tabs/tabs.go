package tabs

import (
	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/glossa-app/glossa/internal/screen"
)

// OpenTabMsg requests the manager to open a new tab showing the screen.
// When Replace is set the active tab's screen is swapped instead.
type OpenTabMsg struct {
	Screen  screen.Screen
	Replace bool
}

// CloseTabMsg requests the manager to close the active tab.
type CloseTabMsg struct{}

// NextTabMsg cycles to the next tab.
type NextTabMsg struct{}

// PrevTabMsg cycles to the previous tab.
type PrevTabMsg struct{}

// Tab is one open screen with a stable identity.
type Tab struct {
	ID     string
	Screen screen.Screen
}

// routedMsg wraps an async result so it is delivered to the tab whose
// command produced it, even when another tab is active by the time it
// lands. Results for a closed tab are dropped.
type routedMsg struct {
	tabID string
	inner tea.Msg
}

// routeCmd wraps a screen's command so the resulting message carries the
// originating tab's identity. Batches are unwrapped and each member
// re-wrapped; manager-level tab messages pass through untouched.
func routeCmd(tabID string, cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() tea.Msg {
		switch msg := cmd().(type) {
		case nil:
			return nil
		case tea.BatchMsg:
			out := make([]tea.Cmd, len(msg))
			for i, c := range msg {
				out[i] = routeCmd(tabID, c)
			}
			return tea.BatchMsg(out)
		case OpenTabMsg, CloseTabMsg, NextTabMsg, PrevTabMsg:
			return msg
		default:
			return routedMsg{tabID: tabID, inner: msg}
		}
	}
}

// Manager owns the set of open tabs and the active index.
type Manager struct {
	tabs   []Tab
	active int
}

// New creates a Manager with the given initial screen in its first tab.
func New(initial screen.Screen) *Manager {
	return &Manager{
		tabs: []Tab{{ID: uuid.NewString(), Screen: initial}},
	}
}

// Init starts the first tab's screen.
func (m *Manager) Init() tea.Cmd {
	return routeCmd(m.tabs[m.active].ID, m.tabs[m.active].Screen.Init())
}

// Open adds a tab after the active one, focuses it, and calls Init().
func (m *Manager) Open(s screen.Screen) tea.Cmd {
	t := Tab{ID: uuid.NewString(), Screen: s}
	at := m.active + 1
	m.tabs = append(m.tabs[:at], append([]Tab{t}, m.tabs[at:]...)...)
	m.active = at
	return routeCmd(t.ID, s.Init())
}

// Replace swaps the active tab's screen and calls Init() on the new one.
func (m *Manager) Replace(s screen.Screen) tea.Cmd {
	m.tabs[m.active].Screen = s
	return routeCmd(m.tabs[m.active].ID, s.Init())
}

// Close removes the active tab. The first tab never closes.
func (m *Manager) Close() tea.Cmd {
	if m.active == 0 {
		return nil
	}
	m.tabs = append(m.tabs[:m.active], m.tabs[m.active+1:]...)
	if m.active >= len(m.tabs) {
		m.active = len(m.tabs) - 1
	}
	return nil
}

// Next cycles the active tab forward, wrapping around.
func (m *Manager) Next() {
	m.active = (m.active + 1) % len(m.tabs)
}

// Prev cycles the active tab backward, wrapping around.
func (m *Manager) Prev() {
	m.active = (m.active - 1 + len(m.tabs)) % len(m.tabs)
}

// Active returns the focused screen.
func (m *Manager) Active() screen.Screen {
	return m.tabs[m.active].Screen
}

// ActiveIndex returns the focused tab position.
func (m *Manager) ActiveIndex() int {
	return m.active
}

// Count returns the number of open tabs.
func (m *Manager) Count() int {
	return len(m.tabs)
}

// Labels returns the tab bar labels in order.
func (m *Manager) Labels() []string {
	out := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		if l, ok := t.Screen.(screen.TabLabeler); ok {
			out[i] = l.TabLabel()
		} else {
			out[i] = t.Screen.Title()
		}
	}
	return out
}

// Update forwards a message to the active screen and handles tab messages.
func (m *Manager) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case OpenTabMsg:
		if msg.Replace {
			return m.Replace(msg.Screen)
		}
		return m.Open(msg.Screen)
	case CloseTabMsg:
		return m.Close()
	case NextTabMsg:
		m.Next()
		return nil
	case PrevTabMsg:
		m.Prev()
		return nil
	case routedMsg:
		for i := range m.tabs {
			if m.tabs[i].ID == msg.tabID {
				updated, cmd := m.tabs[i].Screen.Update(msg.inner)
				m.tabs[i].Screen = updated
				return routeCmd(msg.tabID, cmd)
			}
		}
		// Originating tab was closed; drop the result.
		return nil
	}

	id := m.tabs[m.active].ID
	updated, cmd := m.Active().Update(msg)
	m.tabs[m.active].Screen = updated
	return routeCmd(id, cmd)
}

// View renders the active screen.
func (m *Manager) View(width, height int) string {
	return m.Active().View(width, height)
}
