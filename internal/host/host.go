// Package host defines the capabilities the copilot core needs from the
// environment it runs in: an editor, a terminal, or a test double.
package host

import (
	"context"

	"github.com/samsaffron/term-copilot/internal/wizard"
)

// Input describes a single free-text prompt.
type Input struct {
	Prompt      string
	Placeholder string
	ErrorText   string // shown while the field is empty
	Password    bool
}

// Document is read access to the active document.
type Document interface {
	DocumentText() string
	SelectionText() string
	// DocumentKind is the language or extension tag of the document,
	// e.g. "python" or "go".
	DocumentKind() string
}

// Prompts asks the user for text. Both methods return wizard.ErrCancelled
// when the user dismisses the prompt.
type Prompts interface {
	PromptInput(ctx context.Context, in Input) (string, error)
	wizard.Prompter
}

// Editor applies generated text.
type Editor interface {
	InsertAtCursor(ctx context.Context, text string) error
	OpenDocument(ctx context.Context, content, kind string) error
}

// Notifier reports to the user.
type Notifier interface {
	ShowError(msg string)
	ShowInfo(msg string)
	// WriteOutput appends text to the long-lived output channel.
	WriteOutput(text string)
	// BeginProgress shows a progress indicator and returns the function
	// that clears it.
	BeginProgress(title string) (end func())
}

// CodeLanguage is implemented by hosts that display generated code. Flows
// pass the language tag of the fenced block before applying its code; the
// tag may be empty.
type CodeLanguage interface {
	SetCodeLanguage(lang string)
}

// Secrets is the persistent secret store.
type Secrets interface {
	Secret(ctx context.Context, key string) (string, bool, error)
	SetSecret(ctx context.Context, key, value string) error
}

// Config reads configuration values. Values are read on every call.
type Config interface {
	ConfigValue(key string) any
}

// Host is the full capability set.
type Host interface {
	Document
	Prompts
	Editor
	Notifier
	Secrets
	Config
}
