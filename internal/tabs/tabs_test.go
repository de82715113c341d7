package tabs

import (
	"fmt"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/glossa-app/glossa/internal/screen"
)

// fakeScreen is a minimal Screen that records whether Init ran and the
// last message it received.
type fakeScreen struct {
	name   string
	label  string
	inited *bool
	last   tea.Msg
}

func (f *fakeScreen) Init() tea.Cmd {
	if f.inited != nil {
		*f.inited = true
	}
	return nil
}

func (f *fakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	f.last = msg
	return f, func() tea.Msg { return fmt.Sprintf("%s saw %v", f.name, msg) }
}

func (f *fakeScreen) View(width, height int) string { return f.name }

func (f *fakeScreen) Title() string { return f.name }

// labeledScreen additionally implements TabLabeler.
type labeledScreen struct{ fakeScreen }

func (l *labeledScreen) TabLabel() string { return l.label }

func TestNewManager(t *testing.T) {
	m := New(&fakeScreen{name: "home"})

	if m.Count() != 1 || m.ActiveIndex() != 0 {
		t.Fatalf("fresh manager: %d tabs active %d, want 1 and 0", m.Count(), m.ActiveIndex())
	}
	if m.Active().Title() != "home" {
		t.Errorf("active = %q, want home", m.Active().Title())
	}
}

func TestOpenInsertsAfterActive(t *testing.T) {
	m := New(&fakeScreen{name: "home"})

	inited := false
	m.Update(OpenTabMsg{Screen: &fakeScreen{name: "a", inited: &inited}})
	if !inited {
		t.Error("opening a tab should Init its screen")
	}
	m.Update(OpenTabMsg{Screen: &fakeScreen{name: "b"}})
	if m.Count() != 3 || m.Active().Title() != "b" {
		t.Fatalf("after two opens: %d tabs, active %q", m.Count(), m.Active().Title())
	}

	// Move back to "a", open "c": it should land between "a" and "b".
	m.Prev()
	m.Update(OpenTabMsg{Screen: &fakeScreen{name: "c"}})
	labels := m.Labels()
	want := []string{"home", "a", "c", "b"}
	for i, w := range want {
		if labels[i] != w {
			t.Fatalf("labels = %v, want %v", labels, want)
		}
	}
}

func TestReplaceSwapsActive(t *testing.T) {
	m := New(&fakeScreen{name: "home"})
	m.Update(OpenTabMsg{Screen: &fakeScreen{name: "old"}})

	inited := false
	m.Update(OpenTabMsg{Screen: &fakeScreen{name: "new", inited: &inited}, Replace: true})
	if m.Count() != 2 {
		t.Errorf("replace should not change the tab count, got %d", m.Count())
	}
	if m.Active().Title() != "new" {
		t.Errorf("active = %q, want new", m.Active().Title())
	}
	if !inited {
		t.Error("replacement screen should be initialized")
	}
}

func TestCloseKeepsFirstTab(t *testing.T) {
	m := New(&fakeScreen{name: "home"})

	m.Update(CloseTabMsg{})
	if m.Count() != 1 {
		t.Fatal("the first tab must never close")
	}

	m.Update(OpenTabMsg{Screen: &fakeScreen{name: "a"}})
	m.Update(CloseTabMsg{})
	if m.Count() != 1 || m.Active().Title() != "home" {
		t.Errorf("after close: %d tabs, active %q, want 1 and home", m.Count(), m.Active().Title())
	}
}

func TestNextPrevWrap(t *testing.T) {
	m := New(&fakeScreen{name: "home"})
	m.Update(OpenTabMsg{Screen: &fakeScreen{name: "a"}})
	m.Update(OpenTabMsg{Screen: &fakeScreen{name: "b"}})

	m.Update(NextTabMsg{})
	if m.ActiveIndex() != 0 {
		t.Errorf("Next from the last tab should wrap to 0, got %d", m.ActiveIndex())
	}
	m.Update(PrevTabMsg{})
	if m.Active().Title() != "b" {
		t.Errorf("Prev from the first tab should wrap to the last, got %q", m.Active().Title())
	}
}

func TestLabelsPreferTabLabel(t *testing.T) {
	m := New(&fakeScreen{name: "Library"})
	m.Update(OpenTabMsg{Screen: &labeledScreen{
		fakeScreen: fakeScreen{name: "Present Simple Workbook", label: "present-simple"},
	}})

	labels := m.Labels()
	if labels[0] != "Library" || labels[1] != "present-simple" {
		t.Errorf("labels = %v, want [Library present-simple]", labels)
	}
}

func TestUpdateForwardsToActive(t *testing.T) {
	m := New(&fakeScreen{name: "home"})
	m.Update(OpenTabMsg{Screen: &fakeScreen{name: "a"}})

	cmd := m.Update("ping")
	if cmd == nil {
		t.Fatal("expected the active screen's command")
	}
	routed, ok := cmd().(routedMsg)
	if !ok {
		t.Fatalf("command result = %T, want a routed message", cmd())
	}
	if routed.inner != "a saw ping" {
		t.Errorf("message went to %v, want the active tab", routed.inner)
	}
}

func TestRoutedResultReachesOriginTab(t *testing.T) {
	home := &fakeScreen{name: "home"}
	a := &fakeScreen{name: "a"}
	m := New(home)
	m.Update(OpenTabMsg{Screen: a})

	// Start async work on "a", then switch away before the result lands.
	cmd := m.Update("save")
	result := cmd()
	m.Update(PrevTabMsg{})
	home.last = nil

	m.Update(result)
	if a.last != "a saw save" {
		t.Errorf("tab a received %v, want its own async result", a.last)
	}
	if home.last != nil {
		t.Errorf("home received %v, result belongs to tab a", home.last)
	}
	if m.Active().Title() != "home" {
		t.Errorf("active tab = %q, delivery must not refocus", m.Active().Title())
	}
}

func TestRoutedResultForClosedTabDropped(t *testing.T) {
	m := New(&fakeScreen{name: "home"})
	m.Update(OpenTabMsg{Screen: &fakeScreen{name: "a"}})

	cmd := m.Update("save")
	result := cmd()
	m.Update(CloseTabMsg{})

	if follow := m.Update(result); follow != nil {
		t.Errorf("result for a closed tab should be dropped, got %v", follow())
	}
}

func TestRouteCmdUnwrapsBatches(t *testing.T) {
	batch := tea.Batch(
		func() tea.Msg { return "one" },
		func() tea.Msg { return "two" },
	)

	msg := routeCmd("tab-1", batch)()
	inner, ok := msg.(tea.BatchMsg)
	if !ok {
		t.Fatalf("batch result = %T, want tea.BatchMsg", msg)
	}
	for _, c := range inner {
		routed, ok := c().(routedMsg)
		if !ok {
			t.Fatalf("batch member = %T, want a routed message", c())
		}
		if routed.tabID != "tab-1" {
			t.Errorf("batch member routed to %q, want tab-1", routed.tabID)
		}
	}
}

func TestViewDelegates(t *testing.T) {
	m := New(&fakeScreen{name: "home"})
	if got := m.View(80, 24); got != "home" {
		t.Errorf("View = %q, want home", got)
	}
}
