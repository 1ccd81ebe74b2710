package flows

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samsaffron/term-copilot/internal/history"
	"github.com/samsaffron/term-copilot/internal/wizard"
)

var (
	newFilePrompts = []string{"Describe the code to generate", "Language or file extension"}
	newFileTitles  = []string{"outline", "ext"}
)

func newFileFields() []wizard.FieldOption {
	return []wizard.FieldOption{
		wizard.WithField(0, func(s *wizard.Step) {
			s.Placeholder = "A function that parses ISO dates"
			s.ErrorText = "Invalid outline"
		}),
		wizard.WithField(1, func(s *wizard.Step) {
			s.Placeholder = "py"
			s.ErrorText = "Invalid extension"
			s.Validate = func(v string) error {
				if strings.ContainsAny(strings.TrimSpace(v), " \t/\\") {
					return errors.New("extension must be a single word")
				}
				return nil
			}
		}),
	}
}

// WriteNewFile collects an outline and an extension, generates code and opens
// it as a new document of that kind. The document is opened even when the
// reply has no code block.
func (r *Runner) WriteNewFile(ctx context.Context) error {
	rn := r.begin(FlowNewFile)

	values, err := wizard.Collect(ctx, r.host, newFilePrompts, newFileTitles, newFileFields()...)
	if isCancel(err) {
		return r.cancelled(ctx, rn, MsgNoPrompt)
	}
	if err != nil {
		return r.fail(ctx, rn, fmt.Errorf("collect input: %w", err))
	}
	outline := strings.TrimSpace(values[0])
	ext := strings.TrimPrefix(strings.TrimSpace(values[1]), ".")
	rn.entry.Kind = ext

	text, ok, err := r.dispatch(ctx, rn, NewFilePrompt(ext, outline))
	if err != nil || !ok {
		return err
	}

	code := r.extractCode(text)
	if err := r.host.OpenDocument(ctx, code, ext); err != nil {
		return r.fail(ctx, rn, fmt.Errorf("open document: %w", err))
	}

	rn.entry.CodeBytes = len(code)
	if code == "" {
		r.finish(ctx, rn, history.StatusEmpty)
		return nil
	}
	r.finish(ctx, rn, history.StatusCompleted)
	return nil
}
