// Package grading grades user answers against a question's answer key.
// All functions are pure; the block lifecycle decides when grading happens.
package grading

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/glossa-app/glossa/internal/questionbank"
)

// leaveBlankPlaceholder is hint text some content inserts into empty blanks.
// Users sometimes submit it untouched; it counts as an empty answer.
const leaveBlankPlaceholder = "(leave blank)"

// emptyBlankKey marks a blank whose correct answer is "leave it empty".
const emptyBlankKey = "--"

// Response is a user's answer to one question. Single-valued question types
// use Text; multi-blank types use Blanks, keyed by blank ID. A nil *Response
// means the question is unanswered.
type Response struct {
	Text   string
	Blanks map[string]string
}

// MarshalJSON writes a string for single-valued answers and an object for
// multi-blank answers, matching the hand-inspectable progress file format.
func (r Response) MarshalJSON() ([]byte, error) {
	if r.Blanks != nil {
		return json.Marshal(r.Blanks)
	}
	return json.Marshal(r.Text)
}

// UnmarshalJSON accepts both forms.
func (r *Response) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.Text = s
		r.Blanks = nil
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("answer must be a string or an object of strings: %w", err)
	}
	r.Text = ""
	r.Blanks = m
	return nil
}

// Verdict is the graded outcome for one question. Correct is the
// all-or-nothing rollup; Blanks carries per-blank results for multi-blank
// types and is nil otherwise. A nil *Verdict means ungraded.
type Verdict struct {
	Correct bool
	Blanks  map[string]bool
}

// MarshalJSON writes a bare boolean for single-valued verdicts and an
// object for per-blank verdicts.
func (v Verdict) MarshalJSON() ([]byte, error) {
	if v.Blanks != nil {
		return json.Marshal(v.Blanks)
	}
	return json.Marshal(v.Correct)
}

// UnmarshalJSON accepts both forms, recomputing the rollup for the
// per-blank case.
func (v *Verdict) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		v.Correct = b
		v.Blanks = nil
		return nil
	}
	var m map[string]bool
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("verdict must be a boolean or an object of booleans: %w", err)
	}
	v.Blanks = m
	v.Correct = allTrue(m)
	return nil
}

// CorrectUnits returns how many scoring units this verdict contributes:
// correct blanks for multi-blank questions, 1 or 0 otherwise.
func (v *Verdict) CorrectUnits() int {
	if v.Blanks != nil {
		n := 0
		for _, ok := range v.Blanks {
			if ok {
				n++
			}
		}
		return n
	}
	if v.Correct {
		return 1
	}
	return 0
}

// Grade grades one answer. An unanswered question (nil resp) is always
// wrong: for multi-blank types every blank grades false, never "correct by
// default".
func Grade(q *questionbank.Question, resp *Response) Verdict {
	if q.Type.IsMultiBlank() {
		return gradeBlanks(q, resp)
	}
	if resp == nil {
		return Verdict{Correct: false}
	}

	switch q.Type {
	case questionbank.TypeMultipleChoice:
		return Verdict{Correct: gradeChoice(resp.Text, q.AnswerKey.Text)}
	default:
		// short-text-correction and sentence-rewrite share one rule.
		return Verdict{Correct: normalizeText(resp.Text) == normalizeText(q.AnswerKey.Text)}
	}
}

// gradeChoice compares choice letters, normalized to uppercase.
func gradeChoice(answer, key string) bool {
	a := strings.ToUpper(strings.TrimSpace(answer))
	k := strings.ToUpper(strings.TrimSpace(key))
	return a != "" && a == k
}

// gradeBlanks grades every blank in the answer key. The key's blank IDs
// define which blanks exist; extra IDs in the response are ignored.
func gradeBlanks(q *questionbank.Question, resp *Response) Verdict {
	results := make(map[string]bool, len(q.AnswerKey.Blanks))
	for id, key := range q.AnswerKey.Blanks {
		if resp == nil {
			results[id] = false
			continue
		}
		results[id] = gradeBlank(resp.Blanks[id], key)
	}
	return Verdict{Correct: allTrue(results), Blanks: results}
}

// gradeBlank grades a single blank. A key of "--" means the blank must be
// left empty.
func gradeBlank(answer, key string) bool {
	a := normalizeBlank(answer)
	if strings.TrimSpace(key) == emptyBlankKey {
		return a == ""
	}
	return a == normalizeBlank(key)
}

// normalizeText lower-cases, strips '.' and ',', and trims surrounding
// whitespace. This is the single answer-checking convention for all text
// question types.
func normalizeText(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer(".", "", ",", "").Replace(s)
	return strings.TrimSpace(s)
}

// normalizeBlank lower-cases, trims, and treats the untouched placeholder
// text as an empty answer.
func normalizeBlank(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, leaveBlankPlaceholder, "")
	return strings.TrimSpace(s)
}

func allTrue(m map[string]bool) bool {
	for _, ok := range m {
		if !ok {
			return false
		}
	}
	return true
}
