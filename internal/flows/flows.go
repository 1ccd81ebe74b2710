// Package flows implements the user-facing commands: each one collects input
// through the host, dispatches one completion and applies the result.
package flows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samsaffron/term-copilot/internal/config"
	"github.com/samsaffron/term-copilot/internal/extract"
	"github.com/samsaffron/term-copilot/internal/history"
	"github.com/samsaffron/term-copilot/internal/host"
	"github.com/samsaffron/term-copilot/internal/llm"
	"github.com/samsaffron/term-copilot/internal/wizard"
	"github.com/spf13/cast"
)

// Flow names, as recorded in history.
const (
	FlowInsert  = "insert"
	FlowNewFile = "new-file"
	FlowAsk     = "ask"
	FlowSetup   = "setup"
	FlowShowKey = "key"
)

// Messages shown to the user.
const (
	MsgNoPrompt       = "No prompt entered"
	MsgNoResponse     = "No response from model"
	MsgNoCode         = "No code block in the reply, nothing inserted"
	MsgNoSelection    = "No text selected"
	MsgNoAPIKeyInput  = "No API key entered"
	MsgAPIKeySaved    = "API Key saved"
	MsgNoAPIKey       = "No API Key"
	MsgNoAPIKeyAction = "No API Key. Run `term-copilot setup` to store one."
)

// InsertPrompt is the request text for the insert flow. Without a kind the
// language is left to the model.
func InsertPrompt(comment, kind string) string {
	if strings.TrimSpace(kind) == "" {
		return fmt.Sprintf("Follow %s to generate functions", comment)
	}
	return fmt.Sprintf("Follow %s to generate %s functions", comment, kind)
}

// NewFilePrompt is the request text for the new-file flow.
func NewFilePrompt(ext, outline string) string {
	return fmt.Sprintf("Generate %s code according to the following %s", ext, outline)
}

// AskPrompt is the request text for a question about selected code.
func AskPrompt(question, kind, selection string) string {
	return fmt.Sprintf("%s\n\n```%s\n%s\n```", question, kind, strings.TrimRight(selection, "\n"))
}

// Runner owns the collaborators shared by every flow. It holds no per-flow
// state, so one Runner can serve any number of sequential flows.
type Runner struct {
	host       host.Host
	dispatcher *llm.Dispatcher
	history    history.Store
	log        *slog.Logger
}

// NewRunner wires a Runner. A nil store disables history and a nil logger
// uses slog.Default.
func NewRunner(h host.Host, d *llm.Dispatcher, store history.Store, log *slog.Logger) *Runner {
	if store == nil {
		store = &history.NoopStore{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Runner{host: h, dispatcher: d, history: store, log: log}
}

// run tracks one flow invocation for the history log.
type run struct {
	entry history.Entry
	start time.Time
}

func (r *Runner) begin(flow string) *run {
	return &run{
		entry: history.Entry{
			Flow:  flow,
			Model: cast.ToString(r.host.ConfigValue(config.KeyModel)),
			Kind:  r.host.DocumentKind(),
		},
		start: time.Now(),
	}
}

func (r *Runner) finish(ctx context.Context, rn *run, status history.Status) {
	rn.entry.Status = status
	rn.entry.Duration = time.Since(rn.start)
	if err := r.history.Record(context.WithoutCancel(ctx), &rn.entry); err != nil {
		r.log.Warn("failed to record history", "flow", rn.entry.Flow, "error", err)
	}
}

func (r *Runner) cancelled(ctx context.Context, rn *run, msg string) error {
	r.host.ShowError(msg)
	r.finish(ctx, rn, history.StatusCancelled)
	return nil
}

// fail shows err, records it and returns it wrapped with the flow name.
func (r *Runner) fail(ctx context.Context, rn *run, err error) error {
	if errors.Is(err, llm.ErrNoAPIKey) {
		r.host.ShowError(MsgNoAPIKeyAction)
	} else {
		r.host.ShowError(err.Error())
	}
	rn.entry.Error = err.Error()
	r.finish(ctx, rn, history.StatusFailed)
	r.log.Debug("flow failed", "flow", rn.entry.Flow, "error", err)
	return fmt.Errorf("%s: %w", rn.entry.Flow, err)
}

// dispatch runs the request. A nil error with ok false means the model sent
// nothing back; that case is already reported and recorded.
func (r *Runner) dispatch(ctx context.Context, rn *run, prompt string) (string, bool, error) {
	rn.entry.Prompt = prompt
	text, ok, err := r.dispatcher.Dispatch(ctx, prompt, r.host, r.host)
	if err != nil {
		return "", false, r.fail(ctx, rn, err)
	}
	if !ok {
		r.host.ShowInfo(MsgNoResponse)
		r.finish(ctx, rn, history.StatusEmpty)
		return "", false, nil
	}
	return text, true, nil
}

// extractCode returns the first fenced block of text and tells the host its
// language tag when the host wants it.
func (r *Runner) extractCode(text string) string {
	block, _ := extract.First(text)
	if cl, ok := r.host.(host.CodeLanguage); ok {
		cl.SetCodeLanguage(block.Lang)
	}
	return block.Code
}

func isCancel(err error) bool {
	return errors.Is(err, wizard.ErrCancelled)
}
