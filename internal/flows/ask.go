package flows

import (
	"context"
	"fmt"
	"strings"

	"github.com/samsaffron/term-copilot/internal/history"
	"github.com/samsaffron/term-copilot/internal/host"
)

var questionInput = host.Input{
	Prompt:      "Ask about the selection",
	Placeholder: "What does this code do?",
	ErrorText:   "Invalid question",
}

// AskAboutSelection sends the selected text with a question and writes the
// raw reply to the output channel. The document is never changed.
func (r *Runner) AskAboutSelection(ctx context.Context) error {
	rn := r.begin(FlowAsk)

	selection := r.host.SelectionText()
	if strings.TrimSpace(selection) == "" {
		return r.cancelled(ctx, rn, MsgNoSelection)
	}

	question, err := r.host.PromptInput(ctx, questionInput)
	if isCancel(err) || (err == nil && strings.TrimSpace(question) == "") {
		return r.cancelled(ctx, rn, MsgNoPrompt)
	}
	if err != nil {
		return r.fail(ctx, rn, fmt.Errorf("read question: %w", err))
	}

	text, ok, err := r.dispatch(ctx, rn, AskPrompt(question, rn.entry.Kind, selection))
	if err != nil || !ok {
		return err
	}

	r.host.WriteOutput(text)
	r.finish(ctx, rn, history.StatusCompleted)
	return nil
}
