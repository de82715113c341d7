package exercise

import (
	"github.com/glossa-app/glossa/internal/grading"
	"github.com/glossa-app/glossa/internal/questionbank"
)

// The lifecycle operations return false when they were a no-op. Mutating a
// submitted block is guarded at the call site (the UI disables inputs), but
// every operation re-checks so a stray programmatic call cannot corrupt a
// graded block.

// RecordAnswer sets the user's answer for one question. The verdict is
// cleared; grading happens only on submit. No-op if the block is already
// submitted or the question is unknown.
func RecordAnswer(s *State, block int, displayID string, resp *grading.Response) bool {
	bs := s.Block(block)
	if bs == nil || bs.Completed {
		return false
	}
	rec, ok := bs.Answers[displayID]
	if !ok {
		return false
	}
	rec.UserAnswer = resp
	rec.Verdict = nil
	return true
}

// SubmitBlock grades every question in the block, marks it completed, and
// recomputes exercise completion. Unanswered questions grade to incorrect.
// Idempotent: submitting an already-submitted block changes nothing.
func SubmitBlock(s *State, bank *questionbank.Bank, block int) bool {
	bs := s.Block(block)
	if bs == nil || bs.Completed {
		return false
	}
	for _, q := range bank.Block(block) {
		rec := bs.Answers[q.DisplayID]
		if rec == nil {
			// Shape was validated on load; a missing record here means the
			// bank changed underneath us. Recover by creating an unanswered
			// record rather than dropping the question from grading.
			rec = &AnswerRecord{}
			bs.Answers[q.DisplayID] = rec
		}
		v := grading.Grade(q, rec.UserAnswer)
		rec.Verdict = &v
	}
	bs.Completed = true
	recomputeComplete(s)
	return true
}

// ReopenBlock reverses a submit: clears the completed flag and all verdicts
// while keeping the recorded answers, re-enabling inputs.
func ReopenBlock(s *State, block int) bool {
	bs := s.Block(block)
	if bs == nil || !bs.Completed {
		return false
	}
	bs.Completed = false
	for _, rec := range bs.Answers {
		rec.Verdict = nil
	}
	recomputeComplete(s)
	return true
}

// MarkCorrect overrides a graded answer to correct without re-grading. For
// multi-blank questions blankID selects the blank; an empty blankID flips
// every blank. Allowed only on a submitted block.
func MarkCorrect(s *State, block int, displayID, blankID string) bool {
	bs := s.Block(block)
	if bs == nil || !bs.Completed {
		return false
	}
	rec, ok := bs.Answers[displayID]
	if !ok || rec.Verdict == nil {
		return false
	}
	if rec.Verdict.Blanks == nil {
		rec.Verdict.Correct = true
		return true
	}
	if blankID == "" {
		for id := range rec.Verdict.Blanks {
			rec.Verdict.Blanks[id] = true
		}
	} else {
		if _, ok := rec.Verdict.Blanks[blankID]; !ok {
			return false
		}
		rec.Verdict.Blanks[blankID] = true
	}
	rec.Verdict.Correct = allBlanksTrue(rec.Verdict.Blanks)
	return true
}

// SetNote attaches a free-text note to one question's answer record.
// Notes survive submit and reopen.
func SetNote(s *State, block int, displayID, note string) bool {
	rec := s.Record(block, displayID)
	if rec == nil {
		return false
	}
	rec.Note = note
	return true
}

// SetFreeNote stores a note not tied to any single question.
func SetFreeNote(s *State, noteID, note string) {
	if s.Notes == nil {
		s.Notes = make(map[string]string)
	}
	if note == "" {
		delete(s.Notes, noteID)
		return
	}
	s.Notes[noteID] = note
}

func recomputeComplete(s *State) {
	for _, bs := range s.Blocks {
		if !bs.Completed {
			s.IsComplete = false
			return
		}
	}
	s.IsComplete = true
}

func allBlanksTrue(m map[string]bool) bool {
	for _, ok := range m {
		if !ok {
			return false
		}
	}
	return true
}
