package diagnostics

import (
	"testing"

	"github.com/glossa-app/glossa/internal/exercise"
	"github.com/glossa-app/glossa/internal/grading"
	"github.com/glossa-app/glossa/internal/questionbank"
)

func scoringBank(t *testing.T) *questionbank.Bank {
	t.Helper()
	bank, err := questionbank.NewBank([]questionbank.Question{
		{
			DisplayID: "1", Block: 1, Category: "verb-tense",
			Type:      questionbank.TypeMultipleChoice,
			AnswerKey: questionbank.AnswerKey{Text: "A"},
		},
		{
			DisplayID: "2", Block: 1, Category: "articles",
			Type:      questionbank.TypeBlankParagraph,
			AnswerKey: questionbank.AnswerKey{Blanks: map[string]string{"a": "the", "b": "an", "c": "a"}},
		},
		{
			DisplayID: "3", Block: 2, Category: "verb-tense",
			Type:      questionbank.TypeTextCorrection,
			AnswerKey: questionbank.AnswerKey{Text: "She goes"},
		},
	})
	if err != nil {
		t.Fatalf("build bank: %v", err)
	}
	return bank
}

func TestComputeEmpty(t *testing.T) {
	bank := scoringBank(t)
	s := exercise.New(bank)

	got := Compute(s, bank, AllBlocks)
	if got.OverallPercent != 0 || got.TotalQuestions != 0 || got.QuestionCount != 0 {
		t.Errorf("nothing submitted should score zero across the board, got %+v", got)
	}
	if len(got.PerCategory) != 0 {
		t.Errorf("no categories expected, got %v", got.PerCategory)
	}
}

func TestComputeCountsUnitsAndQuestions(t *testing.T) {
	bank := scoringBank(t)
	s := exercise.New(bank)

	exercise.RecordAnswer(s, 1, "1", &grading.Response{Text: "A"})
	exercise.RecordAnswer(s, 1, "2", &grading.Response{Blanks: map[string]string{
		"a": "the", "b": "an", "c": "wrong",
	}})
	exercise.SubmitBlock(s, bank, 1)

	got := Compute(s, bank, AllBlocks)

	// Unit counting: 1 choice unit + 3 blank units, 3 of 4 correct.
	if got.TotalQuestions != 4 || got.TotalCorrect != 3 {
		t.Errorf("units = %d/%d, want 3/4", got.TotalCorrect, got.TotalQuestions)
	}
	if got.OverallPercent != 75 {
		t.Errorf("OverallPercent = %d, want 75", got.OverallPercent)
	}

	// All-or-nothing question counting: the multi-blank question has a wrong
	// blank, so only the choice question counts as correct.
	if got.QuestionCount != 2 || got.QuestionsCorrect != 1 {
		t.Errorf("questions = %d/%d, want 1/2", got.QuestionsCorrect, got.QuestionCount)
	}

	if cat := got.PerCategory["articles"]; cat.Correct != 2 || cat.Total != 3 {
		t.Errorf("articles = %d/%d, want 2/3", cat.Correct, cat.Total)
	}
	if cat := got.PerCategory["verb-tense"]; cat.Correct != 1 || cat.Total != 1 {
		t.Errorf("verb-tense = %d/%d, want 1/1", cat.Correct, cat.Total)
	}
	if got.PerCategory["articles"].Percent() != 67 {
		t.Errorf("articles percent = %d, want 67", got.PerCategory["articles"].Percent())
	}
}

func TestComputeExcludesUnsubmittedBlocks(t *testing.T) {
	bank := scoringBank(t)
	s := exercise.New(bank)

	exercise.SubmitBlock(s, bank, 1)
	// Block 2 answered but never submitted.
	exercise.RecordAnswer(s, 2, "3", &grading.Response{Text: "She goes"})

	got := Compute(s, bank, AllBlocks)
	if got.TotalQuestions != 4 {
		t.Errorf("unsubmitted block leaked into totals: %d units, want 4", got.TotalQuestions)
	}
	if _, ok := got.PerCategory["verb-tense"]; !ok {
		t.Fatal("verb-tense should still appear from block 1")
	}
	if cat := got.PerCategory["verb-tense"]; cat.Total != 1 {
		t.Errorf("verb-tense total = %d, want 1 (block 2 excluded)", cat.Total)
	}
}

func TestComputeBlockFilter(t *testing.T) {
	bank := scoringBank(t)
	s := exercise.New(bank)

	exercise.RecordAnswer(s, 1, "1", &grading.Response{Text: "A"})
	exercise.SubmitBlock(s, bank, 1)
	exercise.RecordAnswer(s, 2, "3", &grading.Response{Text: "she goes."})
	exercise.SubmitBlock(s, bank, 2)

	got := Compute(s, bank, 2)
	if got.TotalQuestions != 1 || got.TotalCorrect != 1 {
		t.Errorf("block 2 = %d/%d units, want 1/1", got.TotalCorrect, got.TotalQuestions)
	}
	if _, ok := got.PerCategory["articles"]; ok {
		t.Error("block filter should exclude block 1 categories")
	}
	if got.OverallPercent != 100 {
		t.Errorf("OverallPercent = %d, want 100", got.OverallPercent)
	}
}

func TestComputeAfterOverride(t *testing.T) {
	bank := scoringBank(t)
	s := exercise.New(bank)

	exercise.SubmitBlock(s, bank, 1)
	before := Compute(s, bank, 1)
	if before.TotalCorrect != 0 {
		t.Fatalf("setup: expected 0 correct, got %d", before.TotalCorrect)
	}

	exercise.MarkCorrect(s, 1, "2", "b")
	after := Compute(s, bank, 1)
	if after.TotalCorrect != 1 {
		t.Errorf("override should add one unit, got %d", after.TotalCorrect)
	}
	if after.QuestionsCorrect != 0 {
		t.Error("partially overridden multi-blank should still count wrong per-question")
	}
}

func TestCategoriesSorted(t *testing.T) {
	s := Scores{PerCategory: map[string]CategoryScore{
		"verb-tense": {}, "articles": {}, "prepositions": {},
	}}
	got := s.Categories()
	want := []string{"articles", "prepositions", "verb-tense"}
	if len(got) != len(want) {
		t.Fatalf("got %d labels, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Categories()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
