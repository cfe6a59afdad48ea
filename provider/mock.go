package provider

import (
	"context"
	"fmt"
	"sync"
)

// MockAdapter is a lightweight in-memory Adapter useful for tests and
// examples. Responses are scripted per user message; failures can be queued
// and are consumed one per call before any response lookup. All calls are
// recorded for inspection.
type MockAdapter struct {
	mu        sync.Mutex
	info      Info
	responses map[string]string
	failures  []error
	calls     []Request
}

// NewMockAdapter constructs a MockAdapter identified by id.
func NewMockAdapter(id string) *MockAdapter {
	return &MockAdapter{
		info:      Info{ID: id, Model: "mock"},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for a user message.
func (m *MockAdapter) AddResponse(userMessage, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[userMessage] = response
}

// FailWith queues an error to be returned by the next Complete call.
// Multiple queued errors are consumed in order.
func (m *MockAdapter) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, err)
}

// Calls returns a copy of every request seen so far.
func (m *MockAdapter) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]Request, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// Complete implements Adapter.
func (m *MockAdapter) Complete(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, req)
	if len(m.failures) > 0 {
		err := m.failures[0]
		m.failures = m.failures[1:]
		return nil, err
	}
	text := m.responses[req.UserMessage]
	if text == "" {
		text = fmt.Sprintf("Mock response to: %s", req.UserMessage)
	}
	return &Result{Text: text, ProviderID: m.info.ID}, nil
}

// Info implements Adapter.
func (m *MockAdapter) Info() Info { return m.info }
