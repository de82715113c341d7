// Package exercise holds the canonical, serializable state of one exercise
// instance and the block lifecycle that mutates it. Each open exercise tab
// owns exactly one State; engine functions receive it explicitly and never
// reach for it through globals.
package exercise

import (
	"github.com/glossa-app/glossa/internal/grading"
	"github.com/glossa-app/glossa/internal/questionbank"
)

// StateVersion tags the persisted format for forward compatibility.
const StateVersion = "1"

// AnswerRecord is the mutable per-question state. UserAnswer is nil while
// unanswered; Verdict is nil until the block is submitted.
type AnswerRecord struct {
	UserAnswer *grading.Response `json:"userAnswer"`
	Verdict    *grading.Verdict  `json:"isCorrect"`
	Note       string            `json:"note,omitempty"`
}

// BlockState is the state of one graded block. Once Completed is true, every
// AnswerRecord carries a non-nil Verdict and inputs are locked.
type BlockState struct {
	Completed bool                     `json:"completed"`
	Answers   map[string]*AnswerRecord `json:"answers"`
}

// State is the persisted unit for one exercise instance. Blocks is 1-indexed
// by block number (Blocks[0] is block 1). IsComplete is true iff every block
// is completed.
type State struct {
	Version    string            `json:"version"`
	Blocks     []*BlockState     `json:"blocks"`
	IsComplete bool              `json:"isComplete"`
	Notes      map[string]string `json:"notes,omitempty"`
}

// New creates a fresh State for the bank: all blocks incomplete, one
// unanswered AnswerRecord per question.
func New(bank *questionbank.Bank) *State {
	blocks := make([]*BlockState, bank.BlockCount())
	for n := 1; n <= bank.BlockCount(); n++ {
		bs := &BlockState{Answers: make(map[string]*AnswerRecord)}
		for _, q := range bank.Block(n) {
			bs.Answers[q.DisplayID] = &AnswerRecord{}
		}
		blocks[n-1] = bs
	}
	return &State{
		Version: StateVersion,
		Blocks:  blocks,
		Notes:   make(map[string]string),
	}
}

// Block returns the state of block n (1-indexed), or nil if out of range.
func (s *State) Block(n int) *BlockState {
	if n < 1 || n > len(s.Blocks) {
		return nil
	}
	return s.Blocks[n-1]
}

// Record returns the answer record for a question in block n, or nil.
func (s *State) Record(n int, displayID string) *AnswerRecord {
	bs := s.Block(n)
	if bs == nil {
		return nil
	}
	return bs.Answers[displayID]
}

// Answered reports whether any question in block n has a recorded answer.
func (s *State) Answered(n int) bool {
	bs := s.Block(n)
	if bs == nil {
		return false
	}
	for _, rec := range bs.Answers {
		if rec.UserAnswer != nil {
			return true
		}
	}
	return false
}

// Phase is the lifecycle phase of a single block.
type Phase int

const (
	PhaseUnanswered Phase = iota // no answers recorded yet
	PhaseAnswering               // at least one answer, not submitted
	PhaseSubmitted               // graded and locked
)

// BlockPhase returns the phase of block n.
func (s *State) BlockPhase(n int) Phase {
	bs := s.Block(n)
	switch {
	case bs == nil:
		return PhaseUnanswered
	case bs.Completed:
		return PhaseSubmitted
	case s.Answered(n):
		return PhaseAnswering
	default:
		return PhaseUnanswered
	}
}
