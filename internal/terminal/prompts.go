package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/samsaffron/term-copilot/internal/host"
	"github.com/samsaffron/term-copilot/internal/ui"
	"github.com/samsaffron/term-copilot/internal/wizard"
)

// BackCommand typed at a line prompt goes back one step.
const BackCommand = ":back"

// PromptInput asks for one field. On a terminal it uses a form; otherwise it
// reads lines until a non-blank one arrives. End of input cancels.
func (h *Host) PromptInput(ctx context.Context, in host.Input) (string, error) {
	if h.interactive {
		return ui.PromptInput(ctx, h.opts.TTY, h.opts.TTY, in)
	}

	out := h.opts.Stderr
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		label := in.Prompt
		if in.Placeholder != "" && !in.Password {
			label += " (" + in.Placeholder + ")"
		}
		fmt.Fprintf(out, "%s: ", label)

		line, err := h.readLine()
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(line) != "" {
			return line, nil
		}
		msg := in.ErrorText
		if msg == "" {
			msg = "A value is required"
		}
		fmt.Fprintln(out, h.styles.Error.Render(ui.FailIcon+" "+msg))
	}
}

// PromptStep shows one wizard step. In line mode an empty answer keeps the
// pre-filled value and BackCommand goes back.
func (h *Host) PromptStep(ctx context.Context, step wizard.InputStep) (wizard.Reply, error) {
	if h.interactive {
		return ui.RunStep(ctx, h.opts.TTY, h.opts.TTY, step)
	}
	if err := ctx.Err(); err != nil {
		return wizard.Reply{}, err
	}

	out := h.opts.Stderr
	if step.Error != "" {
		fmt.Fprintln(out, h.styles.Error.Render(ui.FailIcon+" "+step.Error))
	}
	label := fmt.Sprintf("[%d/%d] %s", step.Ordinal, step.TotalSteps, step.Title)
	if step.Prompt != "" && step.Prompt != step.Title {
		label += " - " + step.Prompt
	}
	switch {
	case step.Value != "":
		label += " [" + step.Value + "]"
	case step.Placeholder != "":
		label += " (" + step.Placeholder + ")"
	}
	fmt.Fprintf(out, "%s: ", label)

	line, err := h.readLine()
	if errors.Is(err, wizard.ErrCancelled) {
		return wizard.Reply{Action: wizard.Dismiss}, nil
	}
	if err != nil {
		return wizard.Reply{}, err
	}

	switch strings.TrimSpace(line) {
	case BackCommand:
		return wizard.Reply{Action: wizard.Back, Value: step.Value}, nil
	case "":
		return wizard.Reply{Action: wizard.Submit, Value: step.Value}, nil
	}
	return wizard.Reply{Action: wizard.Submit, Value: line}, nil
}

// readLine returns one line without its terminator. End of input with no
// pending text is a cancellation.
func (h *Host) readLine() (string, error) {
	line, err := h.lines.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line == "" {
			return "", wizard.ErrCancelled
		}
		if !errors.Is(err, io.EOF) {
			return "", err
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}
