package questionbank

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// ParseError indicates exercise content that could not be turned into a
// question bank, even after normalization.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse exercise content: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse normalizes raw exercise content, validates its shape, and returns
// the parsed document. Content is hand-authored and frequently not strict
// JSON; Normalize repairs the common defects before parsing. Any remaining
// failure is reported as *ParseError.
func Parse(raw string) (*Document, error) {
	cleaned := Normalize(raw)

	var parsed any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, &ParseError{Err: err}
	}
	if err := validateShape(parsed); err != nil {
		return nil, &ParseError{Err: err}
	}

	var doc Document
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, &ParseError{Err: err}
	}
	return &doc, nil
}

// Load parses raw content and builds the bank in one step.
func Load(raw string) (*Document, *Bank, error) {
	doc, err := Parse(raw)
	if err != nil {
		return nil, nil, err
	}
	bank, err := NewBank(doc.Questions)
	if err != nil {
		return nil, nil, &ParseError{Err: err}
	}
	return doc, bank, nil
}

// jsonEscapes is the set of characters that may follow a backslash in a
// valid JSON string escape.
const jsonEscapes = `"\/bfnrtu`

// Normalize repairs hand-authored content into strict JSON. Applied in
// order, tracking string boundaries:
//
//  1. outside strings, text from "//" to end of line is dropped
//  2. Unicode whitespace/control characters that are not standard JSON
//     whitespace collapse to a single space
//  3. inside strings, a backslash not starting a valid escape sequence is
//     doubled
//  4. inside strings, literal newlines and carriage returns become their
//     escape sequences
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	runes := []rune(raw)
	inString := false
	pendingSpace := false

	flushSpace := func() {
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if !inString {
			switch {
			case r == '"':
				flushSpace()
				inString = true
				b.WriteRune(r)
			case r == '/' && i+1 < len(runes) && runes[i+1] == '/':
				for i+1 < len(runes) && runes[i+1] != '\n' {
					i++
				}
			case r == ' ' || r == '\t' || r == '\n' || r == '\r':
				flushSpace()
				b.WriteRune(r)
			case unicode.IsSpace(r) || unicode.IsControl(r):
				pendingSpace = true
			default:
				flushSpace()
				b.WriteRune(r)
			}
			continue
		}

		switch {
		case r == '\\':
			if i+1 < len(runes) && strings.ContainsRune(jsonEscapes, runes[i+1]) {
				b.WriteRune(r)
				b.WriteRune(runes[i+1])
				i++
			} else {
				b.WriteString(`\\`)
			}
		case r == '"':
			inString = false
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case unicode.IsControl(r) || (unicode.IsSpace(r) && r != ' '):
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}
