package testutil

import (
	"context"

	"github.com/samsaffron/term-copilot/internal/llm"
)

// MockCompleter is a configurable llm.Completer for testing.
type MockCompleter struct {
	Text string
	OK   bool
	Err  error
	// CompleteFn overrides the fixed reply when set.
	CompleteFn func(ctx context.Context, req llm.CompletionRequest) (string, bool, error)

	Requests []llm.CompletionRequest
}

// Reply returns a MockCompleter that answers text.
func Reply(text string) *MockCompleter {
	return &MockCompleter{Text: text, OK: text != ""}
}

// Complete implements llm.Completer.
func (m *MockCompleter) Complete(ctx context.Context, req llm.CompletionRequest) (string, bool, error) {
	m.Requests = append(m.Requests, req)
	if m.CompleteFn != nil {
		return m.CompleteFn(ctx, req)
	}
	return m.Text, m.OK, m.Err
}

// Calls is the number of Complete invocations.
func (m *MockCompleter) Calls() int { return len(m.Requests) }
