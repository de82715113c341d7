package tutor

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/glossa-app/glossa/internal/store"
)

// LoggingProvider is a decorator that records every tutor call as a
// history record.
type LoggingProvider struct {
	inner    Provider
	provider string
	events   store.EventRepo
}

// WithLogging wraps a Provider with request logging.
func WithLogging(p Provider, provider string, repo store.EventRepo) Provider {
	return &LoggingProvider{inner: p, provider: provider, events: repo}
}

func (l *LoggingProvider) Complete(ctx context.Context, prompt Prompt) (*Completion, error) {
	start := time.Now()

	comp, err := l.inner.Complete(ctx, prompt)

	rec := store.TutorRequest{
		Provider:  l.provider,
		Model:     l.inner.ModelID(),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}

	if comp != nil {
		rec.InputTokens = comp.Usage.InputTokens
		rec.OutputTokens = comp.Usage.OutputTokens
		rec.Model = comp.Model
	}

	if err != nil {
		rec.ErrorMessage = err.Error()
	}

	// Log the record but don't fail the request if logging fails.
	if logErr := l.events.AppendTutorRequest(ctx, rec); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log tutor request: %v\n", logErr)
	}

	return comp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
