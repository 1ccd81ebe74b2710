package flows

import (
	"context"
	"fmt"
	"strings"

	"github.com/samsaffron/term-copilot/internal/history"
	"github.com/samsaffron/term-copilot/internal/host"
	"github.com/samsaffron/term-copilot/internal/llm"
)

var apiKeyInput = host.Input{
	Prompt:      "Enter your OpenAI API key",
	Placeholder: "sk-...",
	ErrorText:   "Invalid API key",
	Password:    true,
}

// Setup stores the API key used by every later request.
func (r *Runner) Setup(ctx context.Context) error {
	rn := r.begin(FlowSetup)

	key, err := r.host.PromptInput(ctx, apiKeyInput)
	key = strings.TrimSpace(key)
	if isCancel(err) || (err == nil && key == "") {
		return r.cancelled(ctx, rn, MsgNoAPIKeyInput)
	}
	if err != nil {
		return r.fail(ctx, rn, fmt.Errorf("read API key: %w", err))
	}

	if err := r.host.SetSecret(ctx, llm.APIKeySecret, key); err != nil {
		return r.fail(ctx, rn, fmt.Errorf("store API key: %w", err))
	}
	r.host.ShowInfo(MsgAPIKeySaved)
	r.finish(ctx, rn, history.StatusCompleted)
	return nil
}

// ShowKey writes the stored key, masked, to the output channel.
func (r *Runner) ShowKey(ctx context.Context) error {
	rn := r.begin(FlowShowKey)

	key, ok, err := r.host.Secret(ctx, llm.APIKeySecret)
	if err != nil {
		return r.fail(ctx, rn, fmt.Errorf("read API key: %w", err))
	}
	if !ok || strings.TrimSpace(key) == "" {
		r.host.WriteOutput(MsgNoAPIKey)
		r.finish(ctx, rn, history.StatusEmpty)
		return nil
	}
	r.host.WriteOutput(MaskKey(key))
	r.finish(ctx, rn, history.StatusCompleted)
	return nil
}

// MaskKey keeps the first three and last four characters of keys long enough
// to stay unguessable, and hides shorter keys completely.
func MaskKey(key string) string {
	if len(key) <= 10 {
		return strings.Repeat("*", len(key))
	}
	return key[:3] + strings.Repeat("*", len(key)-7) + key[len(key)-4:]
}
