package workbook

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/glossa-app/glossa/internal/exercise"
	"github.com/glossa-app/glossa/internal/grading"
	"github.com/glossa-app/glossa/internal/progress"
	"github.com/glossa-app/glossa/internal/questionbank"
	"github.com/glossa-app/glossa/internal/screen"
	"github.com/glossa-app/glossa/internal/screens/scorecard"
	"github.com/glossa-app/glossa/internal/store"
	"github.com/glossa-app/glossa/internal/tabs"
	"github.com/glossa-app/glossa/internal/tutor"
	"github.com/glossa-app/glossa/internal/ui/components"
	"github.com/glossa-app/glossa/internal/ui/layout"
)

// WorkbookScreen drives one open exercise: answering, submitting, and
// reviewing blocks. All mutations go through the exercise lifecycle
// functions; every mutation schedules a background save.
type WorkbookScreen struct {
	doc       *questionbank.Document
	bank      *questionbank.Bank
	state     *exercise.State
	gateway   *progress.Gateway
	events    store.EventRepo
	explainer *tutor.Explainer

	block  int // current block, 1-indexed
	cursor int // question index within the block

	choices  components.Choices
	fields   []components.TextField
	fieldIdx int

	editingNote bool
	noteField   components.TextField

	explanations map[string]*tutor.Explanation
	explaining   bool

	resumed   bool
	loadWarn  string
	saveWarn  string
	statusMsg string
}

var _ screen.Screen = (*WorkbookScreen)(nil)
var _ screen.KeyHintProvider = (*WorkbookScreen)(nil)
var _ screen.TabLabeler = (*WorkbookScreen)(nil)

// New creates a workbook screen over a loaded exercise. A non-empty
// loadWarn marks progress that existed on disk but could not be used; it
// stays visible so the learner knows the state started fresh.
func New(doc *questionbank.Document, bank *questionbank.Bank, state *exercise.State, resumed bool, loadWarn string, gateway *progress.Gateway, events store.EventRepo, explainer *tutor.Explainer) *WorkbookScreen {
	w := &WorkbookScreen{
		doc:          doc,
		bank:         bank,
		state:        state,
		gateway:      gateway,
		events:       events,
		explainer:    explainer,
		block:        1,
		resumed:      resumed,
		loadWarn:     loadWarn,
		explanations: make(map[string]*tutor.Explanation),
	}

	// Resume at the first block that is not yet submitted.
	if resumed {
		for n := 1; n <= bank.BlockCount(); n++ {
			if state.BlockPhase(n) != exercise.PhaseSubmitted {
				w.block = n
				break
			}
		}
	}

	w.syncWidgets()
	return w
}

func (w *WorkbookScreen) Init() tea.Cmd {
	if w.resumed {
		w.statusMsg = "Resumed saved progress"
	}
	return nil
}

func (w *WorkbookScreen) Title() string {
	return w.doc.Title
}

func (w *WorkbookScreen) TabLabel() string {
	return w.doc.ID
}

func (w *WorkbookScreen) KeyHints() []layout.KeyHint {
	if w.editingNote {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Save note"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	if w.reviewing() {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Question"},
			{Key: "[ ]", Description: "Block"},
			{Key: "Ctrl+R", Description: "Reopen"},
			{Key: "O", Description: "Mark correct"},
			{Key: "E", Description: "Explain"},
			{Key: "Ctrl+G", Description: "Scorecard"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Record answer"},
		{Key: "Tab", Description: "Next"},
		{Key: "[ ]", Description: "Block"},
		{Key: "Ctrl+S", Description: "Submit block"},
		{Key: "Ctrl+N", Description: "Note"},
	}
}

// reviewing reports whether the current block is submitted and locked.
func (w *WorkbookScreen) reviewing() bool {
	return w.state.BlockPhase(w.block) == exercise.PhaseSubmitted
}

func (w *WorkbookScreen) question() *questionbank.Question {
	qs := w.bank.Block(w.block)
	if w.cursor < 0 || w.cursor >= len(qs) {
		return nil
	}
	return qs[w.cursor]
}

func (w *WorkbookScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case saveDoneMsg:
		if msg.Err != nil {
			w.saveWarn = msg.Err.Error()
		}
		return w, nil

	case explainReadyMsg:
		w.explaining = false
		if msg.Err != nil {
			w.statusMsg = "Tutor: " + msg.Err.Error()
			return w, nil
		}
		w.explanations[msg.DisplayID] = msg.Explanation
		return w, nil

	case OpenFailedMsg:
		w.statusMsg = fmt.Sprintf("Could not open %s: %v", msg.ExerciseID, msg.Err)
		return w, nil

	case tea.KeyMsg:
		return w.handleKey(msg)
	}

	return w.forwardToField(msg)
}

func (w *WorkbookScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if w.editingNote {
		switch key {
		case "enter":
			q := w.question()
			if q != nil {
				exercise.SetNote(w.state, w.block, q.DisplayID, w.noteField.Value())
			}
			w.editingNote = false
			return w, w.saveCmd()
		case "esc":
			w.editingNote = false
			return w, nil
		}
		var cmd tea.Cmd
		w.noteField, cmd = w.noteField.Update(msg)
		return w, cmd
	}

	// Keys valid in every phase.
	switch key {
	case "[":
		return w, w.gotoBlock(w.block - 1)
	case "]":
		return w, w.gotoBlock(w.block + 1)
	case "ctrl+g":
		return w, w.openScorecard()
	case "ctrl+n":
		return w, w.startNote()
	case "ctrl+r":
		if w.reviewing() {
			return w, w.reopenBlock()
		}
	case "ctrl+s":
		if !w.reviewing() {
			return w, w.submitBlock()
		}
	}

	if w.reviewing() {
		return w.handleReviewKey(key)
	}
	return w.handleAnswerKey(msg, key)
}

func (w *WorkbookScreen) handleReviewKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "up", "k":
		w.moveCursor(-1)
	case "down", "j":
		w.moveCursor(1)
	case "tab":
		w.cycleField(1)
	case "shift+tab":
		w.cycleField(-1)
	case "o", "O":
		return w, w.overrideCurrent()
	case "e", "E":
		return w, w.requestExplanation()
	}
	return w, nil
}

func (w *WorkbookScreen) handleAnswerKey(msg tea.KeyMsg, key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "enter":
		return w, w.recordCurrent()
	case "tab":
		if len(w.fields) > 1 && w.fieldIdx < len(w.fields)-1 {
			w.cycleField(1)
			return w, nil
		}
		w.moveCursor(1)
		return w, nil
	case "shift+tab":
		if len(w.fields) > 1 && w.fieldIdx > 0 {
			w.cycleField(-1)
			return w, nil
		}
		w.moveCursor(-1)
		return w, nil
	case "up", "down":
		if w.question() != nil && w.question().Type == questionbank.TypeMultipleChoice {
			break // let the choices component handle arrows
		}
		if key == "up" {
			w.moveCursor(-1)
		} else {
			w.moveCursor(1)
		}
		return w, nil
	}

	q := w.question()
	if q == nil {
		return w, nil
	}

	if q.Type == questionbank.TypeMultipleChoice {
		var cmd tea.Cmd
		before := w.choices.Picked
		w.choices, cmd = w.choices.Update(msg)
		if w.choices.Picked != before {
			return w, w.recordCurrent()
		}
		return w, cmd
	}

	return w.forwardToField(msg)
}

func (w *WorkbookScreen) forwardToField(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if w.fieldIdx < 0 || w.fieldIdx >= len(w.fields) {
		return w, nil
	}
	var cmd tea.Cmd
	w.fields[w.fieldIdx], cmd = w.fields[w.fieldIdx].Update(msg)
	return w, cmd
}

func (w *WorkbookScreen) moveCursor(delta int) {
	qs := w.bank.Block(w.block)
	next := w.cursor + delta
	if next < 0 || next >= len(qs) {
		return
	}
	w.cursor = next
	w.syncWidgets()
}

func (w *WorkbookScreen) cycleField(delta int) {
	if len(w.fields) == 0 {
		return
	}
	w.fields[w.fieldIdx].Blur()
	w.fieldIdx = (w.fieldIdx + delta + len(w.fields)) % len(w.fields)
	w.fields[w.fieldIdx].Focus()
}

func (w *WorkbookScreen) gotoBlock(n int) tea.Cmd {
	if n < 1 || n > w.bank.BlockCount() {
		return nil
	}
	w.block = n
	w.cursor = 0
	w.statusMsg = ""
	w.syncWidgets()
	return nil
}

// syncWidgets rebuilds the input widgets for the current question from
// its recorded answer.
func (w *WorkbookScreen) syncWidgets() {
	q := w.question()
	if q == nil {
		w.fields = nil
		return
	}
	rec := w.state.Record(w.block, q.DisplayID)

	w.fields = nil
	w.fieldIdx = 0

	switch {
	case q.Type == questionbank.TypeMultipleChoice:
		w.choices = components.NewChoices(q.Choices)
		if rec != nil && rec.UserAnswer != nil {
			w.choices.SetPickedLetter(rec.UserAnswer.Text)
		}
		if w.reviewing() {
			w.choices.Reviewing = true
			w.choices.CorrectLetter = q.AnswerKey.Text
			if rec != nil && rec.Verdict != nil {
				w.choices.Correct = rec.Verdict.Correct
			}
		}

	case q.Type.IsMultiBlank():
		for _, id := range q.BlankIDs() {
			f := components.NewTextField(id, "answer or (leave blank)", 80)
			if rec != nil && rec.UserAnswer != nil && rec.UserAnswer.Blanks != nil {
				f.SetValue(rec.UserAnswer.Blanks[id])
			}
			w.fields = append(w.fields, f)
		}
		if len(w.fields) > 0 {
			w.fields[0].Focus()
		}

	default:
		f := components.NewTextField("", "Type the corrected sentence...", 200)
		if rec != nil && rec.UserAnswer != nil {
			f.SetValue(rec.UserAnswer.Text)
		}
		f.Focus()
		w.fields = []components.TextField{f}
	}
}

// recordCurrent commits the widget contents as the question's answer.
func (w *WorkbookScreen) recordCurrent() tea.Cmd {
	q := w.question()
	if q == nil || w.reviewing() {
		return nil
	}

	var resp *grading.Response
	switch {
	case q.Type == questionbank.TypeMultipleChoice:
		// Enter confirms the highlighted option when nothing is picked yet.
		if w.choices.Picked < 0 {
			w.choices.Picked = w.choices.Selected
		}
		resp = &grading.Response{Text: w.choices.PickedLetter()}

	case q.Type.IsMultiBlank():
		blanks := make(map[string]string)
		for i, id := range q.BlankIDs() {
			blanks[id] = w.fields[i].Value()
		}
		resp = &grading.Response{Blanks: blanks}

	default:
		resp = &grading.Response{Text: w.fields[0].Value()}
	}

	if !exercise.RecordAnswer(w.state, w.block, q.DisplayID, resp) {
		return nil
	}
	w.statusMsg = ""
	w.moveCursor(1)
	return w.saveCmd()
}

// submitBlock grades the block, appends history events, and saves.
func (w *WorkbookScreen) submitBlock() tea.Cmd {
	if !exercise.SubmitBlock(w.state, w.bank, w.block) {
		return nil
	}
	w.statusMsg = fmt.Sprintf("Block %d submitted", w.block)
	w.cursor = 0
	w.syncWidgets()

	// Snapshot the graded rows now. The append runs on another goroutine
	// and must not read the live state.
	events := w.gradedEvents(w.block)
	return tea.Batch(w.saveCmd(), func() tea.Msg {
		ctx := context.Background()
		for _, e := range events {
			_ = w.events.Append(ctx, e)
		}
		return nil
	})
}

// gradedEvents builds the history rows for a just-submitted block, one
// answer event per graded question plus the submit marker.
func (w *WorkbookScreen) gradedEvents(block int) []store.Event {
	var out []store.Event
	for _, q := range w.bank.Block(block) {
		rec := w.state.Record(block, q.DisplayID)
		if rec == nil || rec.Verdict == nil {
			continue
		}
		correct := rec.Verdict.Correct
		out = append(out, store.Event{
			Kind:       store.KindAnswer,
			ExerciseID: w.doc.ID,
			Block:      block,
			QuestionID: q.DisplayID,
			Category:   q.Category,
			Correct:    &correct,
		})
	}
	out = append(out, store.Event{
		Kind:       store.KindSubmit,
		ExerciseID: w.doc.ID,
		Block:      block,
	})
	return out
}

// reopenBlock clears the block's verdicts and unlocks it for editing.
func (w *WorkbookScreen) reopenBlock() tea.Cmd {
	if !exercise.ReopenBlock(w.state, w.block) {
		return nil
	}
	w.statusMsg = fmt.Sprintf("Block %d reopened", w.block)
	w.syncWidgets()

	block := w.block
	return tea.Batch(w.saveCmd(), func() tea.Msg {
		_ = w.events.Append(context.Background(), store.Event{
			Kind:       store.KindReopen,
			ExerciseID: w.doc.ID,
			Block:      block,
		})
		return nil
	})
}

// overrideCurrent marks the reviewed question (or the focused blank of a
// multi-blank question) as correct.
func (w *WorkbookScreen) overrideCurrent() tea.Cmd {
	q := w.question()
	if q == nil {
		return nil
	}

	blankID := ""
	if q.Type.IsMultiBlank() {
		ids := q.BlankIDs()
		if w.fieldIdx >= 0 && w.fieldIdx < len(ids) {
			blankID = ids[w.fieldIdx]
		}
	}

	if !exercise.MarkCorrect(w.state, w.block, q.DisplayID, blankID) {
		return nil
	}
	w.statusMsg = "Marked correct"
	w.syncWidgets()
	return w.saveCmd()
}

func (w *WorkbookScreen) startNote() tea.Cmd {
	q := w.question()
	if q == nil {
		return nil
	}
	rec := w.state.Record(w.block, q.DisplayID)
	w.noteField = components.NewTextField("Note", "Why did I miss this?", 200)
	if rec != nil {
		w.noteField.SetValue(rec.Note)
	}
	w.editingNote = true
	return w.noteField.Focus()
}

// requestExplanation asks the tutor about the reviewed question.
func (w *WorkbookScreen) requestExplanation() tea.Cmd {
	q := w.question()
	if q == nil || w.explainer == nil || w.explaining {
		return nil
	}
	if _, ok := w.explanations[q.DisplayID]; ok {
		return nil
	}

	rec := w.state.Record(w.block, q.DisplayID)
	answer := ""
	correct := false
	if rec != nil {
		if rec.UserAnswer != nil {
			answer = flattenResponse(q, rec.UserAnswer)
		}
		if rec.Verdict != nil {
			correct = rec.Verdict.Correct
		}
	}

	w.explaining = true
	displayID := q.DisplayID
	return func() tea.Msg {
		exp, err := w.explainer.Explain(context.Background(), tutor.ExplainInput{
			Question:      q,
			LearnerAnswer: answer,
			Correct:       correct,
		})
		return explainReadyMsg{DisplayID: displayID, Explanation: exp, Err: err}
	}
}

func flattenResponse(q *questionbank.Question, resp *grading.Response) string {
	if resp.Blanks == nil {
		return resp.Text
	}
	out := ""
	for _, id := range q.BlankIDs() {
		if out != "" {
			out += "; "
		}
		out += id + ": " + resp.Blanks[id]
	}
	return out
}

// openScorecard opens the diagnostics view for this exercise in a new tab.
func (w *WorkbookScreen) openScorecard() tea.Cmd {
	return func() tea.Msg {
		return tabs.OpenTabMsg{
			Screen: scorecard.New(w.doc, w.bank, w.state),
		}
	}
}

// saveCmd persists the state in the background. The encode happens here,
// on the event loop, so the write goroutine only touches the byte
// snapshot. Failures surface as a warning line but never block the UI.
func (w *WorkbookScreen) saveCmd() tea.Cmd {
	data, err := progress.Encode(w.state)
	if err != nil {
		return func() tea.Msg { return saveDoneMsg{Err: err} }
	}
	id := w.doc.ID
	return func() tea.Msg {
		return saveDoneMsg{Err: w.gateway.SaveEncoded(id, data)}
	}
}
