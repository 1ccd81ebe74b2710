package ui

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/samsaffron/term-copilot/internal/host"
	"github.com/samsaffron/term-copilot/internal/wizard"
)

// requireText returns a huh validator rejecting blank input with msg.
func requireText(msg string) func(string) error {
	if msg == "" {
		msg = "A value is required"
	}
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(msg)
		}
		return nil
	}
}

// PromptInput asks for one line of text with a huh form. Escape or ctrl+c
// returns wizard.ErrCancelled.
func PromptInput(ctx context.Context, in io.Reader, out io.Writer, spec host.Input) (string, error) {
	var value string

	field := huh.NewInput().
		Title(spec.Prompt).
		Placeholder(spec.Placeholder).
		Validate(requireText(spec.ErrorText)).
		Value(&value)
	if spec.Password {
		field = field.EchoMode(huh.EchoModePassword)
	}

	form := huh.NewForm(huh.NewGroup(field)).
		WithInput(in).
		WithOutput(out).
		WithShowHelp(false)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", wizard.ErrCancelled
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", err
	}
	return value, nil
}
