// Package diagnostics computes aggregate correctness statistics from graded
// exercise state. Output is plain labels and numbers; chart rendering is the
// presentation layer's concern.
package diagnostics

import (
	"math"
	"sort"

	"github.com/glossa-app/glossa/internal/exercise"
	"github.com/glossa-app/glossa/internal/questionbank"
)

// AllBlocks selects every submitted block when passed to Compute.
const AllBlocks = 0

// CategoryScore is the raw "n/N" count for one category.
type CategoryScore struct {
	Correct int
	Total   int
}

// Percent returns the rounded 0-100 score, 0 when the category is empty.
func (c CategoryScore) Percent() int {
	return percent(c.Correct, c.Total)
}

// Scores is the aggregate over one block or all submitted blocks.
//
// Counting is per scoring unit: each blank of a multi-blank question is one
// unit, every other question is one unit. QuestionsCorrect/QuestionCount use
// all-or-nothing per-question counting instead (a multi-blank question counts
// as correct only when every blank is), which is what pass/fail style rollups
// want. The asymmetry is deliberate.
type Scores struct {
	OverallPercent int
	TotalCorrect   int
	TotalQuestions int

	QuestionsCorrect int
	QuestionCount    int

	PerCategory map[string]CategoryScore
}

// Categories returns the category labels in sorted order, for stable display.
func (s Scores) Categories() []string {
	labels := make([]string, 0, len(s.PerCategory))
	for c := range s.PerCategory {
		labels = append(labels, c)
	}
	sort.Strings(labels)
	return labels
}

// Compute aggregates scores for one block (1-indexed) or, with AllBlocks,
// every submitted block. Unsubmitted blocks are excluded entirely: they
// appear in neither numerator nor denominator.
func Compute(state *exercise.State, bank *questionbank.Bank, block int) Scores {
	scores := Scores{PerCategory: make(map[string]CategoryScore)}

	for n := 1; n <= bank.BlockCount(); n++ {
		if block != AllBlocks && n != block {
			continue
		}
		bs := state.Block(n)
		if bs == nil || !bs.Completed {
			continue
		}
		for _, q := range bank.Block(n) {
			rec := bs.Answers[q.DisplayID]
			if rec == nil || rec.Verdict == nil {
				continue
			}
			units := q.Units()
			correct := rec.Verdict.CorrectUnits()

			scores.TotalQuestions += units
			scores.TotalCorrect += correct

			cat := scores.PerCategory[q.Category]
			cat.Total += units
			cat.Correct += correct
			scores.PerCategory[q.Category] = cat

			scores.QuestionCount++
			if rec.Verdict.Correct {
				scores.QuestionsCorrect++
			}
		}
	}

	scores.OverallPercent = percent(scores.TotalCorrect, scores.TotalQuestions)
	return scores
}

func percent(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}
