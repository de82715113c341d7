package scorecard

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/glossa-app/glossa/internal/diagnostics"
	"github.com/glossa-app/glossa/internal/exercise"
	"github.com/glossa-app/glossa/internal/questionbank"
	"github.com/glossa-app/glossa/internal/screen"
	"github.com/glossa-app/glossa/internal/ui/components"
	"github.com/glossa-app/glossa/internal/ui/layout"
	"github.com/glossa-app/glossa/internal/ui/theme"
)

// ScorecardScreen shows the diagnostic breakdown for one exercise.
// Left/right keys narrow the view to a single block.
type ScorecardScreen struct {
	doc   *questionbank.Document
	bank  *questionbank.Bank
	state *exercise.State

	block int // diagnostics.AllBlocks or a 1-indexed block
}

var _ screen.Screen = (*ScorecardScreen)(nil)
var _ screen.KeyHintProvider = (*ScorecardScreen)(nil)
var _ screen.TabLabeler = (*ScorecardScreen)(nil)

// New creates a scorecard over a live exercise state.
func New(doc *questionbank.Document, bank *questionbank.Bank, state *exercise.State) *ScorecardScreen {
	return &ScorecardScreen{
		doc:   doc,
		bank:  bank,
		state: state,
		block: diagnostics.AllBlocks,
	}
}

func (s *ScorecardScreen) Init() tea.Cmd {
	return nil
}

func (s *ScorecardScreen) Title() string {
	return s.doc.Title + " — Scorecard"
}

func (s *ScorecardScreen) TabLabel() string {
	return s.doc.ID + ":scores"
}

func (s *ScorecardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Block filter"},
		{Key: "Ctrl+W", Description: "Close tab"},
	}
}

func (s *ScorecardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "left", "h":
		if s.block > diagnostics.AllBlocks {
			s.block--
		}
	case "right", "l":
		if s.block < s.bank.BlockCount() {
			s.block++
		}
	}
	return s, nil
}

func (s *ScorecardScreen) View(width, height int) string {
	scores := diagnostics.Compute(s.state, s.bank, s.block)

	var b strings.Builder

	scope := "All blocks"
	if s.block != diagnostics.AllBlocks {
		scope = fmt.Sprintf("Block %d", s.block)
	}
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  " + scope))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", maxInt(width-4, 0))))
	b.WriteString("\n\n")

	if scores.TotalQuestions == 0 {
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render("  Nothing submitted yet. Submit a block to see scores."))
		return b.String()
	}

	barWidth := minInt(width-8, 60)

	overall := components.NewProgressBar(
		fmt.Sprintf("  Overall   %3d/%3d", scores.TotalCorrect, scores.TotalQuestions),
		float64(scores.OverallPercent)/100,
		true,
		barWidth,
	)
	b.WriteString(overall.View())
	b.WriteString("\n")

	questions := components.NewProgressBar(
		fmt.Sprintf("  Questions %3d/%3d", scores.QuestionsCorrect, scores.QuestionCount),
		safeRatio(scores.QuestionsCorrect, scores.QuestionCount),
		true,
		barWidth,
	)
	b.WriteString(questions.View())
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("  By category"))
	b.WriteString("\n\n")

	labelWidth := 0
	for _, cat := range scores.Categories() {
		if len(cat) > labelWidth {
			labelWidth = len(cat)
		}
	}

	for _, cat := range scores.Categories() {
		cs := scores.PerCategory[cat]
		label := fmt.Sprintf("  %-*s %3d/%3d", labelWidth, cat, cs.Correct, cs.Total)
		bar := components.NewProgressBar(label, float64(cs.Percent())/100, true, barWidth)
		b.WriteString(bar.View())
		b.WriteString("\n")
	}

	return b.String()
}

func safeRatio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
