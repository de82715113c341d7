package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/glossa-app/glossa/internal/questionbank"
)

func choiceQ() *questionbank.Question {
	return &questionbank.Question{
		DisplayID: "1",
		Block:     1,
		Type:      questionbank.TypeMultipleChoice,
		Prompt:    "She ___ to work.",
		Choices:   []string{"go", "goes", "going"},
		AnswerKey: questionbank.AnswerKey{Text: "B"},
	}
}

func TestExplain(t *testing.T) {
	mock := NewMockProvider(MockReply{
		Content: json.RawMessage(`{"summary":"Third person singular takes -s.","correction":"goes is correct.","tip":"he/she/it adds -s"}`),
	})
	e := NewExplainer(mock, DefaultExplainerConfig())

	exp, err := e.Explain(context.Background(), ExplainInput{
		Question:      choiceQ(),
		LearnerAnswer: "A",
		Correct:       false,
	})
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if exp.Summary == "" || exp.Correction == "" || exp.Tip == "" {
		t.Errorf("explanation fields lost in decode: %+v", exp)
	}

	if len(mock.Calls) != 1 {
		t.Fatalf("expected 1 provider call, got %d", len(mock.Calls))
	}
	prompt := mock.Calls[0]
	if prompt.Schema != ExplanationSchema {
		t.Error("explain should request the explanation schema")
	}
	if prompt.MaxTokens != DefaultExplainerConfig().MaxTokens {
		t.Errorf("MaxTokens = %d, want %d", prompt.MaxTokens, DefaultExplainerConfig().MaxTokens)
	}
	for _, want := range []string{
		"She ___ to work.",
		"A. go",
		"B. goes",
		"Expected answer: B",
		"Learner's answer: A",
		"Graded: incorrect",
	} {
		if !strings.Contains(prompt.User, want) {
			t.Errorf("user message missing %q:\n%s", want, prompt.User)
		}
	}
}

func TestExplainNilQuestion(t *testing.T) {
	e := NewExplainer(NewMockProvider(), DefaultExplainerConfig())
	if _, err := e.Explain(context.Background(), ExplainInput{}); err == nil {
		t.Fatal("nil question should be rejected")
	}
}

func TestExplainBadReply(t *testing.T) {
	mock := NewMockProvider(MockReply{Content: json.RawMessage(`"not an object"`)})
	e := NewExplainer(mock, DefaultExplainerConfig())

	_, err := e.Explain(context.Background(), ExplainInput{Question: choiceQ(), Correct: true})
	if err == nil {
		t.Fatal("unparseable reply should be an error")
	}
	var bad *ErrBadReply
	if !errors.As(err, &bad) {
		t.Fatalf("expected ErrBadReply, got %T: %v", err, err)
	}
}

func TestBuildExplainMessage(t *testing.T) {
	t.Run("no answer placeholder", func(t *testing.T) {
		msg, err := buildExplainMessage(ExplainInput{Question: choiceQ()})
		if err != nil {
			t.Fatalf("buildExplainMessage: %v", err)
		}
		if !strings.Contains(msg, "(no answer given)") {
			t.Errorf("empty answer should be spelled out:\n%s", msg)
		}
	})

	t.Run("blank key formatting", func(t *testing.T) {
		q := &questionbank.Question{
			DisplayID: "2",
			Block:     1,
			Type:      questionbank.TypeBlankParagraph,
			Prompt:    "Fill in the articles.",
			AnswerKey: questionbank.AnswerKey{Blanks: map[string]string{"b": "--", "a": "the"}},
		}
		msg, err := buildExplainMessage(ExplainInput{Question: q, LearnerAnswer: "a: the; b: an"})
		if err != nil {
			t.Fatalf("buildExplainMessage: %v", err)
		}
		if !strings.Contains(msg, "a: the; b: (must stay empty)") {
			t.Errorf("blank key should list blanks in ID order with empty keys spelled out:\n%s", msg)
		}
		if strings.Contains(msg, "Choices:") {
			t.Error("non-choice question should not render a choices section")
		}
	})
}
