package workbook

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/glossa-app/glossa/internal/exercise"
	"github.com/glossa-app/glossa/internal/questionbank"
	"github.com/glossa-app/glossa/internal/ui/theme"
)

func (w *WorkbookScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(w.renderBlockHeader(width))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	b.WriteString(w.renderQuestionList(width))
	b.WriteString("\n")
	b.WriteString(w.renderQuestionDetail(width))

	if w.editingNote {
		b.WriteString("\n\n  " + w.noteField.View())
	}

	if w.statusMsg != "" {
		b.WriteString("\n\n" + lipgloss.NewStyle().
			Foreground(theme.Accent).
			Render("  "+w.statusMsg))
	}
	if w.saveWarn != "" {
		b.WriteString("\n" + lipgloss.NewStyle().
			Foreground(theme.Error).
			Render("  Save failed: "+w.saveWarn))
	}
	if w.loadWarn != "" {
		b.WriteString("\n" + lipgloss.NewStyle().
			Foreground(theme.Error).
			Render("  "+w.loadWarn))
	}

	return b.String()
}

func (w *WorkbookScreen) renderBlockHeader(width int) string {
	phase := "answering"
	switch w.state.BlockPhase(w.block) {
	case exercise.PhaseUnanswered:
		phase = "not started"
	case exercise.PhaseSubmitted:
		phase = "submitted"
	}

	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Block %d/%d", w.block, w.bank.BlockCount()))

	right := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(phase + "  ")

	pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right
}

// renderQuestionList shows a one-line status row per question in the block.
func (w *WorkbookScreen) renderQuestionList(width int) string {
	var b strings.Builder
	reviewing := w.reviewing()

	for i, q := range w.bank.Block(w.block) {
		rec := w.state.Record(w.block, q.DisplayID)

		marker := lipgloss.NewStyle().Foreground(theme.TextDim).Render("·")
		if reviewing && rec != nil && rec.Verdict != nil {
			if rec.Verdict.Correct {
				marker = lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
			} else if q.Type.IsMultiBlank() && rec.Verdict.CorrectUnits() > 0 {
				marker = lipgloss.NewStyle().Foreground(theme.Accent).Render("~")
			} else {
				marker = lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
			}
		} else if rec != nil && rec.UserAnswer != nil {
			marker = lipgloss.NewStyle().Foreground(theme.Secondary).Render("●")
		}

		prompt := q.Prompt
		if maxLen := width - 16; maxLen > 3 && len(prompt) > maxLen {
			prompt = prompt[:maxLen-3] + "..."
		}

		line := fmt.Sprintf(" %s %-6s %s", marker, q.DisplayID, prompt)
		if i == w.cursor {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("▸" + line))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(" " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (w *WorkbookScreen) renderQuestionDetail(width int) string {
	q := w.question()
	if q == nil {
		return ""
	}
	rec := w.state.Record(w.block, q.DisplayID)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render("  " + strings.Repeat("┄", max(width-6, 0))))
	b.WriteString("\n\n")

	promptStyle := lipgloss.NewStyle().
		Width(max(width-6, 10)).
		Foreground(theme.Text).
		Bold(true)
	b.WriteString("  " + promptStyle.Render(q.Prompt))
	b.WriteString("\n\n")

	switch {
	case q.Type == questionbank.TypeMultipleChoice:
		b.WriteString(indent(w.choices.View(), "  "))

	case q.Type.IsMultiBlank():
		b.WriteString(w.renderBlankFields(q, rec))

	default:
		if w.reviewing() {
			b.WriteString(w.renderTextReview(q, rec))
		} else if len(w.fields) > 0 {
			b.WriteString("  " + w.fields[0].View())
		}
	}

	if w.reviewing() {
		b.WriteString(w.renderReviewExtras(q, rec, width))
	}

	if rec != nil && rec.Note != "" && !w.editingNote {
		b.WriteString("\n\n  " + lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
			Render("Note: "+rec.Note))
	}

	return b.String()
}

// renderBlankFields shows one row per blank, with verdicts in review.
func (w *WorkbookScreen) renderBlankFields(q *questionbank.Question, rec *exercise.AnswerRecord) string {
	var b strings.Builder
	reviewing := w.reviewing()

	for i, id := range q.BlankIDs() {
		focus := "  "
		if i == w.fieldIdx {
			focus = "▸ "
		}

		if reviewing {
			answer := ""
			if rec != nil && rec.UserAnswer != nil && rec.UserAnswer.Blanks != nil {
				answer = rec.UserAnswer.Blanks[id]
			}
			if answer == "" {
				answer = "(empty)"
			}

			mark := lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
			if rec != nil && rec.Verdict != nil && rec.Verdict.Blanks[id] {
				mark = lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
			}

			b.WriteString(fmt.Sprintf("  %s%s %s: %s", focus, mark, id, answer))
			if rec == nil || rec.Verdict == nil || !rec.Verdict.Blanks[id] {
				key := q.AnswerKey.Blanks[id]
				if key == "" || key == "--" {
					key = "(must stay empty)"
				}
				b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
					Render("  → " + key))
			}
			b.WriteString("\n")
		} else if i < len(w.fields) {
			b.WriteString("  " + focus + w.fields[i].View() + "\n")
		}
	}
	return b.String()
}

func (w *WorkbookScreen) renderTextReview(q *questionbank.Question, rec *exercise.AnswerRecord) string {
	answer := ""
	if rec != nil && rec.UserAnswer != nil {
		answer = rec.UserAnswer.Text
	}
	if answer == "" {
		answer = "(no answer)"
	}

	correct := rec != nil && rec.Verdict != nil && rec.Verdict.Correct

	var b strings.Builder
	if correct {
		b.WriteString("  " + lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render("✓ "+answer))
	} else {
		b.WriteString("  " + lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render("✗ "+answer))
		b.WriteString("\n  " + lipgloss.NewStyle().Foreground(theme.TextDim).
			Render("Expected: "+q.AnswerKey.Text))
	}
	return b.String()
}

// renderReviewExtras shows the bundled explanation and any tutor output.
func (w *WorkbookScreen) renderReviewExtras(q *questionbank.Question, rec *exercise.AnswerRecord, width int) string {
	var b strings.Builder
	wrap := lipgloss.NewStyle().Width(max(width-8, 20)).Foreground(theme.Text)

	if q.Explanation != "" {
		b.WriteString("\n\n  " + lipgloss.NewStyle().Foreground(theme.TextDim).Render("Why: "))
		b.WriteString("\n" + indent(wrap.Render(q.Explanation), "  "))
	}

	if w.explaining {
		b.WriteString("\n\n  " + lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
			Render("Asking the tutor..."))
	} else if exp, ok := w.explanations[q.DisplayID]; ok {
		b.WriteString("\n\n  " + lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("Tutor"))
		b.WriteString("\n" + indent(wrap.Render(exp.Summary), "  "))
		b.WriteString("\n" + indent(wrap.Render(exp.Correction), "  "))
		b.WriteString("\n" + indent(lipgloss.NewStyle().Width(max(width-8, 20)).Foreground(theme.Accent).Render("Tip: "+exp.Tip), "  "))
	}

	return b.String()
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
