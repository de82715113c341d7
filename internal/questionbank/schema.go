package questionbank

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// documentSchema is the JSON Schema the parsed content must satisfy before
// it is decoded into a Document. It covers the top-level shape only; the
// cross-question invariants (unique IDs, contiguous blocks) are checked by
// NewBank, which can produce better messages.
var documentSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id":    map[string]any{"type": "string", "minLength": 1},
		"title": map[string]any{"type": "string"},
		"kind": map[string]any{
			"type": "string",
			"enum": []any{"grammar", "verb", "diagnostic"},
		},
		"questions": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"displayId": map[string]any{"type": "string", "minLength": 1},
					"block":     map[string]any{"type": "integer", "minimum": 1},
					"section":   map[string]any{"type": "string"},
					"category":  map[string]any{"type": "string"},
					"type":      map[string]any{"type": "string"},
					"prompt":    map[string]any{"type": "string"},
					"choices": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"answerKey": map[string]any{
						"anyOf": []any{
							map[string]any{"type": "string"},
							map[string]any{
								"type":                 "object",
								"additionalProperties": map[string]any{"type": "string"},
							},
						},
					},
					"explanation": map[string]any{"type": "string"},
				},
				"required": []any{"displayId", "block", "type", "prompt", "answerKey"},
			},
		},
	},
	"required": []any{"id", "questions"},
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// validateShape checks a parsed content value against documentSchema.
func validateShape(parsed any) error {
	compileOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value, not a Go map
		// with typed ints. Round-trip through encoding/json to get one.
		defBytes, err := json.Marshal(documentSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var def any
		if err := json.Unmarshal(defBytes, &def); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const url = "schema://exercise-document.json"
		if err := c.AddResource(url, def); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(url)
	})
	if compileErr != nil {
		return compileErr
	}
	if err := compiledSchema.Validate(parsed); err != nil {
		return fmt.Errorf("content shape: %w", err)
	}
	return nil
}
