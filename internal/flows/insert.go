package flows

import (
	"context"
	"fmt"
	"strings"

	"github.com/samsaffron/term-copilot/internal/history"
	"github.com/samsaffron/term-copilot/internal/host"
)

var commentInput = host.Input{
	Prompt:      "Enter your comment",
	Placeholder: "What is polymorphism?",
	ErrorText:   "Invalid question",
}

// InsertFunction asks for a comment, generates functions in the document's
// language and inserts the first code block at the cursor. A reply without a
// code block leaves the document untouched.
func (r *Runner) InsertFunction(ctx context.Context) error {
	rn := r.begin(FlowInsert)

	comment, err := r.host.PromptInput(ctx, commentInput)
	if isCancel(err) || (err == nil && strings.TrimSpace(comment) == "") {
		return r.cancelled(ctx, rn, MsgNoPrompt)
	}
	if err != nil {
		return r.fail(ctx, rn, fmt.Errorf("read comment: %w", err))
	}

	text, ok, err := r.dispatch(ctx, rn, InsertPrompt(comment, rn.entry.Kind))
	if err != nil || !ok {
		return err
	}

	code := r.extractCode(text)
	if code == "" {
		r.host.ShowInfo(MsgNoCode)
		r.finish(ctx, rn, history.StatusEmpty)
		return nil
	}
	if err := r.host.InsertAtCursor(ctx, code); err != nil {
		return r.fail(ctx, rn, fmt.Errorf("insert code: %w", err))
	}

	rn.entry.CodeBytes = len(code)
	r.finish(ctx, rn, history.StatusCompleted)
	return nil
}
