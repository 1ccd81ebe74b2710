package testutil

import (
	"context"

	"github.com/samsaffron/term-copilot/internal/host"
	"github.com/samsaffron/term-copilot/internal/wizard"
)

// InputReply scripts one PromptInput answer.
type InputReply struct {
	Value     string
	Cancelled bool
	Err       error
}

// Answer is a submitted InputReply.
func Answer(v string) InputReply { return InputReply{Value: v} }

// Dismiss is a cancelled InputReply.
func Dismiss() InputReply { return InputReply{Cancelled: true} }

// OpenedDocument records one OpenDocument call.
type OpenedDocument struct {
	Content string
	Kind    string
}

// FakeHost is a scripted host.Host. Prompts are answered from Inputs and
// StepReplies in order; once a script runs out the prompt is dismissed.
// Every side effect is recorded for assertions.
type FakeHost struct {
	Text      string
	Selection string
	Kind      string

	Inputs      []InputReply
	StepReplies []wizard.Reply
	StepErr     error

	Secrets   map[string]string
	SecretErr error
	Config    map[string]any

	InsertErr error
	OpenErr   error

	PromptedInputs []host.Input
	ShownSteps     []wizard.InputStep
	Inserted       []string
	Opened         []OpenedDocument
	Errors         []string
	Infos          []string
	Outputs        []string
	CodeLanguages  []string
	ProgressTitles []string
	ProgressEnded  int
}

var (
	_ host.Host         = (*FakeHost)(nil)
	_ host.CodeLanguage = (*FakeHost)(nil)
)

// NewFakeHost returns a FakeHost with empty secret and config maps.
func NewFakeHost() *FakeHost {
	return &FakeHost{Secrets: map[string]string{}, Config: map[string]any{}}
}

func (h *FakeHost) DocumentText() string  { return h.Text }
func (h *FakeHost) SelectionText() string { return h.Selection }
func (h *FakeHost) DocumentKind() string  { return h.Kind }

func (h *FakeHost) PromptInput(ctx context.Context, in host.Input) (string, error) {
	i := len(h.PromptedInputs)
	h.PromptedInputs = append(h.PromptedInputs, in)
	if i >= len(h.Inputs) {
		return "", wizard.ErrCancelled
	}
	r := h.Inputs[i]
	switch {
	case r.Err != nil:
		return "", r.Err
	case r.Cancelled:
		return "", wizard.ErrCancelled
	}
	return r.Value, nil
}

func (h *FakeHost) PromptStep(ctx context.Context, step wizard.InputStep) (wizard.Reply, error) {
	i := len(h.ShownSteps)
	h.ShownSteps = append(h.ShownSteps, step)
	if h.StepErr != nil {
		return wizard.Reply{}, h.StepErr
	}
	if i >= len(h.StepReplies) {
		return wizard.Reply{Action: wizard.Dismiss}, nil
	}
	return h.StepReplies[i], nil
}

func (h *FakeHost) InsertAtCursor(ctx context.Context, text string) error {
	if h.InsertErr != nil {
		return h.InsertErr
	}
	h.Inserted = append(h.Inserted, text)
	return nil
}

func (h *FakeHost) OpenDocument(ctx context.Context, content, kind string) error {
	if h.OpenErr != nil {
		return h.OpenErr
	}
	h.Opened = append(h.Opened, OpenedDocument{Content: content, Kind: kind})
	return nil
}

func (h *FakeHost) SetCodeLanguage(lang string) {
	h.CodeLanguages = append(h.CodeLanguages, lang)
}

func (h *FakeHost) ShowError(msg string)    { h.Errors = append(h.Errors, msg) }
func (h *FakeHost) ShowInfo(msg string)     { h.Infos = append(h.Infos, msg) }
func (h *FakeHost) WriteOutput(text string) { h.Outputs = append(h.Outputs, text) }

func (h *FakeHost) BeginProgress(title string) func() {
	h.ProgressTitles = append(h.ProgressTitles, title)
	return func() { h.ProgressEnded++ }
}

func (h *FakeHost) Secret(ctx context.Context, key string) (string, bool, error) {
	if h.SecretErr != nil {
		return "", false, h.SecretErr
	}
	v, ok := h.Secrets[key]
	return v, ok, nil
}

func (h *FakeHost) SetSecret(ctx context.Context, key, value string) error {
	if h.SecretErr != nil {
		return h.SecretErr
	}
	if h.Secrets == nil {
		h.Secrets = map[string]string{}
	}
	h.Secrets[key] = value
	return nil
}

func (h *FakeHost) ConfigValue(key string) any { return h.Config[key] }

// Mutated reports whether any document was changed or opened.
func (h *FakeHost) Mutated() bool {
	return len(h.Inserted) > 0 || len(h.Opened) > 0
}
