// Package tutor generates short explanations of wrong answers in review
// mode, using whichever hosted model the user has configured. The feature is
// strictly optional: the app runs fully without a provider.
package tutor

import (
	"context"
	"encoding/json"
)

// Provider is the abstraction over a hosted model API. Implementations are
// single-turn: one system prompt, one user message, one structured reply.
type Provider interface {
	// Complete sends the prompt and returns the model's reply. When
	// prompt.Schema is set the provider requests structured output and the
	// returned Content is the validated JSON.
	Complete(ctx context.Context, prompt Prompt) (*Completion, error)

	// ModelID returns the configured model identifier.
	ModelID() string
}

// Prompt is one request to the provider.
type Prompt struct {
	// System sets the model's role and constraints.
	System string

	// User is the single user message.
	User string

	// Schema, when set, constrains the reply to structured JSON.
	Schema *Schema

	// MaxTokens caps the reply length.
	MaxTokens int

	// Temperature in 0.0-1.0; zero means deterministic.
	Temperature float64
}

// Schema names a JSON Schema the reply must conform to.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Completion is the provider's reply.
type Completion struct {
	// Content is the reply body: validated JSON when a Schema was set,
	// otherwise raw text.
	Content json.RawMessage

	// Usage reports token consumption.
	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// Truncated is true when the reply hit MaxTokens.
	Truncated bool
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}
