package tutor

import (
	"encoding/json"
	"fmt"
	"time"
)

// ErrRateLimited indicates the provider returned HTTP 429.
type ErrRateLimited struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimited) Error() string {
	return fmt.Sprintf("tutor provider rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimited) Unwrap() error { return e.Err }

// ErrBadReply indicates the model returned content that does not conform to
// the requested schema.
type ErrBadReply struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrBadReply) Error() string {
	return fmt.Sprintf("bad tutor reply: %v", e.Err)
}

func (e *ErrBadReply) Unwrap() error { return e.Err }

// ErrUnavailable indicates the provider is down or unreachable.
type ErrUnavailable struct {
	Err error
}

func (e *ErrUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tutor provider unavailable: %v", e.Err)
	}
	return "tutor provider unavailable"
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }
