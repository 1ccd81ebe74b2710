package llm

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClient implements Completer against an OpenAI-compatible chat
// completions endpoint.
type OpenAIClient struct {
	// HTTPClient carries the requests. It has no timeout: an in-flight
	// call resolves or fails on its own schedule.
	HTTPClient *http.Client
}

func NewOpenAIClient() *OpenAIClient {
	return &OpenAIClient{HTTPClient: &http.Client{}}
}

func (c *OpenAIClient) client(apiKey, baseURL string) openai.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if c.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(c.HTTPClient))
	}
	return openai.NewClient(opts...)
}

func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (string, bool, error) {
	client := c.client(req.APIKey, req.BaseURL)

	params := openai.ChatCompletionNewParams{
		Model:       req.Model,
		Messages:    buildMessages(req.Messages()),
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", false, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", false, nil
	}
	content := resp.Choices[0].Message.Content
	return content, content != "", nil
}

func buildMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

// ListModels returns the ids of the models the endpoint offers, sorted.
func (c *OpenAIClient) ListModels(ctx context.Context, apiKey, baseURL string) ([]string, error) {
	client := c.client(apiKey, baseURL)
	page, err := client.Models.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	models := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		models = append(models, m.ID)
	}
	sort.Strings(models)
	return models, nil
}
