package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventKind classifies a history event.
type EventKind string

const (
	KindAnswer EventKind = "answer"
	KindSubmit EventKind = "submit"
	KindReopen EventKind = "reopen"
	KindReset  EventKind = "reset"
)

// Event is one append-only history record. Correct is set for answer events
// (graded at submit time) and nil for lifecycle events.
type Event struct {
	Seq        int64
	ID         string
	Timestamp  time.Time
	Kind       EventKind
	ExerciseID string
	Block      int
	QuestionID string
	Category   string
	Correct    *bool
}

// TutorRequest records one tutor provider call for the stats command.
type TutorRequest struct {
	Provider     string
	Model        string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// CategoryAccuracy is the historical per-category answer accuracy.
type CategoryAccuracy struct {
	Category string
	Answered int
	Correct  int
}

// ExerciseActivity summarizes history for one exercise.
type ExerciseActivity struct {
	ExerciseID string
	Answered   int
	Correct    int
	Submits    int
	LastSeen   time.Time
}

// EventRepo provides append and query access to the history log.
type EventRepo interface {
	// Append records one event, assigning its ID and timestamp if unset.
	Append(ctx context.Context, e Event) error

	// AppendTutorRequest records a tutor provider call.
	AppendTutorRequest(ctx context.Context, r TutorRequest) error

	// AccuracyByCategory aggregates graded answer events per category.
	AccuracyByCategory(ctx context.Context) ([]CategoryAccuracy, error)

	// ActivityByExercise aggregates per-exercise history.
	ActivityByExercise(ctx context.Context) ([]ExerciseActivity, error)

	// Recent returns the most recent events, newest first.
	Recent(ctx context.Context, limit int) ([]Event, error)
}

type eventRepo struct {
	db *sql.DB
}

func (r *eventRepo) Append(ctx context.Context, e Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	var correct sql.NullBool
	if e.Correct != nil {
		correct = sql.NullBool{Bool: *e.Correct, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO events (id, timestamp, kind, exercise_id, block, question_id, category, correct)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Timestamp.Format(time.RFC3339Nano), string(e.Kind),
		e.ExerciseID, e.Block, e.QuestionID, e.Category, correct,
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendTutorRequest(ctx context.Context, req TutorRequest) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tutor_requests (timestamp, provider, model, input_tokens, output_tokens, latency_ms, success, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339Nano),
		req.Provider, req.Model, req.InputTokens, req.OutputTokens,
		req.LatencyMs, req.Success, req.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("append tutor request: %w", err)
	}
	return nil
}

func (r *eventRepo) AccuracyByCategory(ctx context.Context) ([]CategoryAccuracy, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category,
		        COUNT(*),
		        COALESCE(SUM(CASE WHEN correct = 1 THEN 1 ELSE 0 END), 0)
		 FROM events
		 WHERE kind = ? AND correct IS NOT NULL AND category != ''
		 GROUP BY category
		 ORDER BY category`,
		string(KindAnswer),
	)
	if err != nil {
		return nil, fmt.Errorf("query category accuracy: %w", err)
	}
	defer rows.Close()

	var out []CategoryAccuracy
	for rows.Next() {
		var ca CategoryAccuracy
		if err := rows.Scan(&ca.Category, &ca.Answered, &ca.Correct); err != nil {
			return nil, fmt.Errorf("scan category accuracy: %w", err)
		}
		out = append(out, ca)
	}
	return out, rows.Err()
}

func (r *eventRepo) ActivityByExercise(ctx context.Context) ([]ExerciseActivity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT exercise_id,
		        COALESCE(SUM(CASE WHEN kind = 'answer' AND correct IS NOT NULL THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN kind = 'answer' AND correct = 1 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN kind = 'submit' THEN 1 ELSE 0 END), 0),
		        MAX(timestamp)
		 FROM events
		 GROUP BY exercise_id
		 ORDER BY MAX(timestamp) DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query exercise activity: %w", err)
	}
	defer rows.Close()

	var out []ExerciseActivity
	for rows.Next() {
		var ea ExerciseActivity
		var ts string
		if err := rows.Scan(&ea.ExerciseID, &ea.Answered, &ea.Correct, &ea.Submits, &ts); err != nil {
			return nil, fmt.Errorf("scan exercise activity: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			ea.LastSeen = t
		}
		out = append(out, ea)
	}
	return out, rows.Err()
}

func (r *eventRepo) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, id, timestamp, kind, exercise_id, block, question_id, category, correct
		 FROM events ORDER BY seq DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var ts string
		var kind string
		var correct sql.NullBool
		if err := rows.Scan(&e.Seq, &e.ID, &ts, &kind, &e.ExerciseID, &e.Block, &e.QuestionID, &e.Category, &correct); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Kind = EventKind(kind)
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			e.Timestamp = t
		}
		if correct.Valid {
			e.Correct = &correct.Bool
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
