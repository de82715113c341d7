package tutor

import (
	"context"
	"encoding/json"
	"sync"
)

// MockReply is a canned reply for the MockProvider.
type MockReply struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider is a deterministic Provider for testing.
// It returns canned replies in FIFO order and records all prompts.
type MockProvider struct {
	mu      sync.Mutex
	replies []MockReply
	Calls   []Prompt
}

// NewMockProvider creates a MockProvider with the given canned replies.
func NewMockProvider(replies ...MockReply) *MockProvider {
	return &MockProvider{replies: replies}
}

// Complete returns the next canned reply or ErrUnavailable if the queue
// is empty.
func (m *MockProvider) Complete(_ context.Context, prompt Prompt) (*Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, prompt)

	if len(m.replies) == 0 {
		return nil, &ErrUnavailable{Err: nil}
	}

	reply := m.replies[0]
	m.replies = m.replies[1:]

	if reply.Err != nil {
		return nil, reply.Err
	}

	return &Completion{
		Content: reply.Content,
		Usage:   reply.Usage,
		Model:   "mock",
	}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddReply appends a canned reply to the queue.
func (m *MockProvider) AddReply(reply MockReply) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, reply)
}

// CallCount returns the number of Complete calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
