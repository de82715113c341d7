package questionbank

import (
	"encoding/json"
	"fmt"
	"sort"
)

// QuestionType identifies the grading family a question belongs to.
type QuestionType string

const (
	TypeMultipleChoice  QuestionType = "multiple-choice"
	TypeTextCorrection  QuestionType = "short-text-correction"
	TypeSentenceRewrite QuestionType = "sentence-rewrite"
	TypeBlankParagraph  QuestionType = "multi-blank-paragraph"
	TypeBlankErrorID    QuestionType = "multi-blank-error-id"
)

// IsMultiBlank reports whether the type carries a per-blank answer key.
func (t QuestionType) IsMultiBlank() bool {
	return t == TypeBlankParagraph || t == TypeBlankErrorID
}

// Known reports whether t is one of the supported question types.
func (t QuestionType) Known() bool {
	switch t {
	case TypeMultipleChoice, TypeTextCorrection, TypeSentenceRewrite,
		TypeBlankParagraph, TypeBlankErrorID:
		return true
	}
	return false
}

// AnswerKey is the expected answer for a question. Single-valued types
// (multiple choice, text correction, sentence rewrite) use Text; multi-blank
// types use Blanks, keyed by blank ID. In content JSON the key is either a
// string or an object, so the two forms share one type.
type AnswerKey struct {
	Text   string
	Blanks map[string]string
}

// UnmarshalJSON accepts both the string and the blank-map form.
func (k *AnswerKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		k.Text = s
		k.Blanks = nil
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("answerKey must be a string or an object of strings: %w", err)
	}
	k.Text = ""
	k.Blanks = m
	return nil
}

// MarshalJSON writes the form matching the key's shape.
func (k AnswerKey) MarshalJSON() ([]byte, error) {
	if k.Blanks != nil {
		return json.Marshal(k.Blanks)
	}
	return json.Marshal(k.Text)
}

// Question is one immutable exercise question as loaded from content.
type Question struct {
	DisplayID   string       `json:"displayId"`
	Block       int          `json:"block"`
	Section     string       `json:"section"`
	Category    string       `json:"category"`
	Type        QuestionType `json:"type"`
	Prompt      string       `json:"prompt"`
	Choices     []string     `json:"choices,omitempty"`
	AnswerKey   AnswerKey    `json:"answerKey"`
	Explanation string       `json:"explanation,omitempty"`
}

// Units returns the number of scoring units this question contributes to
// category diagnostics: one per blank for multi-blank types, otherwise one.
func (q *Question) Units() int {
	if q.Type.IsMultiBlank() {
		return len(q.AnswerKey.Blanks)
	}
	return 1
}

// BlankIDs returns the question's blank identifiers in sorted order,
// or nil for single-answer types.
func (q *Question) BlankIDs() []string {
	if q.AnswerKey.Blanks == nil {
		return nil
	}
	ids := make([]string, 0, len(q.AnswerKey.Blanks))
	for id := range q.AnswerKey.Blanks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Document is a complete parsed exercise definition.
type Document struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Kind      string     `json:"kind"` // grammar, verb, diagnostic
	Questions []Question `json:"questions"`
}

// Bank indexes a document's questions by block and display ID.
type Bank struct {
	questions []Question
	byID      map[string]*Question
	byBlock   map[int][]*Question
	blocks    int
}

// NewBank builds a Bank, checking the structural invariants: display IDs are
// unique within the exercise and block numbers are contiguous starting at 1.
func NewBank(questions []Question) (*Bank, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("exercise has no questions")
	}

	b := &Bank{
		questions: questions,
		byID:      make(map[string]*Question, len(questions)),
		byBlock:   make(map[int][]*Question),
	}

	for i := range questions {
		q := &b.questions[i]
		if q.DisplayID == "" {
			return nil, fmt.Errorf("question %d has no displayId", i)
		}
		if _, dup := b.byID[q.DisplayID]; dup {
			return nil, fmt.Errorf("duplicate displayId %q", q.DisplayID)
		}
		if q.Block < 1 {
			return nil, fmt.Errorf("question %q: block %d is not >= 1", q.DisplayID, q.Block)
		}
		if !q.Type.Known() {
			return nil, fmt.Errorf("question %q: unknown type %q", q.DisplayID, q.Type)
		}
		if q.Type.IsMultiBlank() && len(q.AnswerKey.Blanks) == 0 {
			return nil, fmt.Errorf("question %q: multi-blank type without blank answer key", q.DisplayID)
		}
		if !q.Type.IsMultiBlank() && q.AnswerKey.Blanks != nil {
			return nil, fmt.Errorf("question %q: blank answer key on single-answer type", q.DisplayID)
		}
		b.byID[q.DisplayID] = q
		b.byBlock[q.Block] = append(b.byBlock[q.Block], q)
		if q.Block > b.blocks {
			b.blocks = q.Block
		}
	}

	for n := 1; n <= b.blocks; n++ {
		if len(b.byBlock[n]) == 0 {
			return nil, fmt.Errorf("block numbers are not contiguous: block %d is empty", n)
		}
	}

	return b, nil
}

// BlockCount returns the number of blocks in the exercise.
func (b *Bank) BlockCount() int { return b.blocks }

// Len returns the total number of questions.
func (b *Bank) Len() int { return len(b.questions) }

// Block returns the questions of block n (1-indexed) in content order.
func (b *Bank) Block(n int) []*Question { return b.byBlock[n] }

// Question looks up a question by display ID.
func (b *Bank) Question(displayID string) (*Question, bool) {
	q, ok := b.byID[displayID]
	return q, ok
}

// Questions returns all questions in content order.
func (b *Bank) Questions() []Question { return b.questions }
