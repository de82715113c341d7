package tutor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/glossa-app/glossa/internal/questionbank"
)

// ExplainerConfig holds configuration for the explanation service.
type ExplainerConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultExplainerConfig returns sensible defaults.
func DefaultExplainerConfig() ExplainerConfig {
	return ExplainerConfig{
		MaxTokens:   512,
		Temperature: 0.3,
	}
}

// Explainer produces grammar explanations for answered questions.
type Explainer struct {
	provider Provider
	cfg      ExplainerConfig
}

// NewExplainer creates an explanation service on top of a Provider.
func NewExplainer(provider Provider, cfg ExplainerConfig) *Explainer {
	return &Explainer{provider: provider, cfg: cfg}
}

// ExplainInput describes one answered question to explain.
type ExplainInput struct {
	Question      *questionbank.Question
	LearnerAnswer string
	Correct       bool
}

// Explanation is the structured tutor output for one question.
type Explanation struct {
	Summary    string `json:"summary"`
	Correction string `json:"correction"`
	Tip        string `json:"tip"`
}

// ExplanationSchema defines the JSON schema for tutor explanations.
var ExplanationSchema = &Schema{
	Name:        "grammar-explanation",
	Description: "Explanation of the grammar rule behind one workbook question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "One or two sentences naming the grammar rule the question tests",
			},
			"correction": map[string]any{
				"type":        "string",
				"description": "What the correct answer is and why, referencing the learner's answer when it was wrong",
			},
			"tip": map[string]any{
				"type":        "string",
				"description": "A short memorable tip for applying the rule in future",
			},
		},
		"required":             []any{"summary", "correction", "tip"},
		"additionalProperties": false,
	},
}

// Explain asks the provider for a structured explanation of one question.
func (e *Explainer) Explain(ctx context.Context, input ExplainInput) (*Explanation, error) {
	if input.Question == nil {
		return nil, fmt.Errorf("explain: question is required")
	}

	userMsg, err := buildExplainMessage(input)
	if err != nil {
		return nil, fmt.Errorf("build explanation prompt: %w", err)
	}

	comp, err := e.provider.Complete(ctx, Prompt{
		System:      explainSystemPrompt,
		User:        userMsg,
		Schema:      ExplanationSchema,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("tutor explanation failed: %w", err)
	}

	var out Explanation
	if err := json.Unmarshal(comp.Content, &out); err != nil {
		return nil, &ErrBadReply{Content: comp.Content, Err: fmt.Errorf("parse explanation: %w", err)}
	}
	return &out, nil
}

const explainSystemPrompt = `You are a friendly English grammar tutor helping an adult learner through a workbook. The learner just reviewed a graded question and asked for an explanation.

Instructions:
- Name the specific grammar rule being tested, not a vague category.
- If the learner's answer was wrong, explain what their answer would mean and why it fails here.
- If the learner's answer was right, confirm why it works.
- Keep every field to at most two sentences. No markdown.`

var explainUserTemplate = template.Must(template.New("explain").Parse(`Question type: {{.Type}}
Question: {{.Prompt}}
{{if .Choices}}Choices:
{{.Choices}}
{{end}}Expected answer: {{.Expected}}
Learner's answer: {{.Answer}}
Graded: {{if .Correct}}correct{{else}}incorrect{{end}}`))

type explainTemplateData struct {
	Type     string
	Prompt   string
	Choices  string
	Expected string
	Answer   string
	Correct  bool
}

func buildExplainMessage(input ExplainInput) (string, error) {
	q := input.Question

	data := explainTemplateData{
		Type:     string(q.Type),
		Prompt:   q.Prompt,
		Expected: formatAnswerKey(q),
		Answer:   input.LearnerAnswer,
		Correct:  input.Correct,
	}
	if data.Answer == "" {
		data.Answer = "(no answer given)"
	}

	if len(q.Choices) > 0 {
		var b strings.Builder
		for i, c := range q.Choices {
			fmt.Fprintf(&b, "%c. %s\n", 'A'+i, c)
		}
		data.Choices = strings.TrimRight(b.String(), "\n")
	}

	var buf bytes.Buffer
	if err := explainUserTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatAnswerKey(q *questionbank.Question) string {
	if q.AnswerKey.Blanks != nil {
		parts := make([]string, 0, len(q.AnswerKey.Blanks))
		for _, id := range q.BlankIDs() {
			val := q.AnswerKey.Blanks[id]
			if val == "" || val == "--" {
				val = "(must stay empty)"
			}
			parts = append(parts, fmt.Sprintf("%s: %s", id, val))
		}
		return strings.Join(parts, "; ")
	}
	return q.AnswerKey.Text
}
