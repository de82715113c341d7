package exercise

import (
	"errors"
	"fmt"

	"github.com/glossa-app/glossa/internal/questionbank"
)

// ErrInvalidStateShape marks a loaded State that fails the structural
// invariants for its bank. Callers treat it as "invalid save" and fall back
// to a fresh State rather than crashing.
var ErrInvalidStateShape = errors.New("invalid exercise state shape")

// Validate checks a loaded State against the bank it claims to describe:
// the version tag is known, there is one BlockState per bank block, each
// block's answer keys are exactly the display IDs of that block's questions,
// completion flags are consistent, and grading artifacts only exist where
// the lifecycle could have produced them.
func Validate(s *State, bank *questionbank.Bank) error {
	if s == nil {
		return fmt.Errorf("%w: nil state", ErrInvalidStateShape)
	}
	if s.Version != StateVersion {
		return fmt.Errorf("%w: unknown version %q", ErrInvalidStateShape, s.Version)
	}
	if len(s.Blocks) != bank.BlockCount() {
		return fmt.Errorf("%w: %d blocks, bank has %d", ErrInvalidStateShape, len(s.Blocks), bank.BlockCount())
	}

	allCompleted := true
	for n := 1; n <= bank.BlockCount(); n++ {
		bs := s.Blocks[n-1]
		if bs == nil {
			return fmt.Errorf("%w: block %d is null", ErrInvalidStateShape, n)
		}
		questions := bank.Block(n)
		if len(bs.Answers) != len(questions) {
			return fmt.Errorf("%w: block %d has %d answers, expected %d",
				ErrInvalidStateShape, n, len(bs.Answers), len(questions))
		}
		for _, q := range questions {
			rec, ok := bs.Answers[q.DisplayID]
			if !ok || rec == nil {
				return fmt.Errorf("%w: block %d missing answer for %q", ErrInvalidStateShape, n, q.DisplayID)
			}
			if err := validateRecord(q, rec, bs.Completed); err != nil {
				return fmt.Errorf("%w: block %d question %q: %v", ErrInvalidStateShape, n, q.DisplayID, err)
			}
		}
		if !bs.Completed {
			allCompleted = false
		}
	}

	if s.IsComplete != allCompleted {
		return fmt.Errorf("%w: isComplete=%v disagrees with block flags", ErrInvalidStateShape, s.IsComplete)
	}
	return nil
}

func validateRecord(q *questionbank.Question, rec *AnswerRecord, completed bool) error {
	// A submitted block has a verdict on every record (unanswered questions
	// grade to incorrect); an open block has none.
	if completed && rec.Verdict == nil {
		return fmt.Errorf("submitted block with ungraded answer")
	}
	if !completed && rec.Verdict != nil {
		return fmt.Errorf("verdict on an unsubmitted block")
	}

	if rec.UserAnswer != nil {
		if q.Type.IsMultiBlank() != (rec.UserAnswer.Blanks != nil) {
			return fmt.Errorf("answer shape does not match question type")
		}
	}
	if rec.Verdict != nil && q.Type.IsMultiBlank() {
		if rec.Verdict.Blanks == nil {
			return fmt.Errorf("multi-blank question with scalar verdict")
		}
		for id := range rec.Verdict.Blanks {
			if _, ok := q.AnswerKey.Blanks[id]; !ok {
				return fmt.Errorf("verdict for unknown blank %q", id)
			}
		}
	}
	return nil
}
