package llm

import (
	"context"
	"errors"
)

// APIKeySecret is the secret-store key holding the service credential.
const APIKeySecret = "openai-api-key"

// ErrNoAPIKey is returned when no credential has been stored.
var ErrNoAPIKey = errors.New("API key not configured")

// Role identifies a message role.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged entry of a chat request.
type Message struct {
	Role    Role
	Content string
}

// UserText creates a user message.
func UserText(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// CompletionRequest is a single-turn completion. It is built fresh for every
// call and never persisted.
type CompletionRequest struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
	Model       string
	APIKey      string
	BaseURL     string // empty uses the client default
}

// Messages returns the chat messages for the request: exactly one user turn.
func (r CompletionRequest) Messages() []Message {
	return []Message{UserText(r.Prompt)}
}

// Completer performs one remote completion call.
// ok is false when the service answered without any content.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (text string, ok bool, err error)
}

// Source supplies the credential and settings for a request. Both are read
// on every call so a changed key or model applies to the next request.
type Source interface {
	Secret(ctx context.Context, key string) (string, bool, error)
	ConfigValue(key string) any
}

// Progress shows an indicator while a request is in flight.
type Progress interface {
	BeginProgress(title string) (end func())
}
