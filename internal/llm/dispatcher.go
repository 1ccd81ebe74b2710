package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samsaffron/term-copilot/internal/config"
	"github.com/spf13/cast"
)

// ProgressTitle is shown while a request is in flight.
const ProgressTitle = "Loading response..."

// Dispatcher performs exactly one completion call per Dispatch, with a
// progress indicator shown for its duration.
type Dispatcher struct {
	client Completer
	log    *slog.Logger
}

func NewDispatcher(client Completer, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{client: client, log: log}
}

// BuildRequest reads the credential and settings from src.
func BuildRequest(ctx context.Context, prompt string, src Source) (CompletionRequest, error) {
	key, ok, err := src.Secret(ctx, APIKeySecret)
	if err != nil {
		return CompletionRequest{}, fmt.Errorf("read API key: %w", err)
	}
	if !ok || strings.TrimSpace(key) == "" {
		return CompletionRequest{}, ErrNoAPIKey
	}

	maxTokens, err := cast.ToIntE(src.ConfigValue(config.KeyMaxTokens))
	if err != nil {
		return CompletionRequest{}, fmt.Errorf("invalid %s: %w", config.KeyMaxTokens, err)
	}
	temperature, err := cast.ToFloat64E(src.ConfigValue(config.KeyTemperature))
	if err != nil {
		return CompletionRequest{}, fmt.Errorf("invalid %s: %w", config.KeyTemperature, err)
	}
	model := cast.ToString(src.ConfigValue(config.KeyModel))
	if model == "" {
		return CompletionRequest{}, fmt.Errorf("%s not configured", config.KeyModel)
	}

	return CompletionRequest{
		Prompt:      prompt,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Model:       model,
		APIKey:      key,
		BaseURL:     cast.ToString(src.ConfigValue(config.KeyBaseURL)),
	}, nil
}

// Dispatch sends prompt and returns the reply text. ok is false when the
// service returned no content. Remote failures are returned, never retried.
//
// The call cannot be cancelled once started: ctx only contributes its
// values, not its deadline or cancellation.
func (d *Dispatcher) Dispatch(ctx context.Context, prompt string, src Source, progress Progress) (string, bool, error) {
	req, err := BuildRequest(ctx, prompt, src)
	if err != nil {
		return "", false, err
	}

	d.log.Debug("dispatching completion", "model", req.Model, "max_tokens", req.MaxTokens, "temperature", req.Temperature, "prompt_len", len(prompt))

	end := progress.BeginProgress(ProgressTitle)
	defer end()

	text, ok, err := d.client.Complete(context.WithoutCancel(ctx), req)
	if err != nil {
		d.log.Debug("completion failed", "error", err)
		return "", false, err
	}
	d.log.Debug("completion finished", "has_content", ok, "reply_len", len(text))
	return text, ok, nil
}
