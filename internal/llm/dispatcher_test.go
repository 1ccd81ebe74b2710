package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/samsaffron/term-copilot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	secrets map[string]string
	values  map[string]any
	err     error
}

func (s *fakeSource) Secret(ctx context.Context, key string) (string, bool, error) {
	if s.err != nil {
		return "", false, s.err
	}
	v, ok := s.secrets[key]
	return v, ok, nil
}

func (s *fakeSource) ConfigValue(key string) any { return s.values[key] }

func newFakeSource() *fakeSource {
	return &fakeSource{
		secrets: map[string]string{APIKeySecret: "sk-test"},
		values: map[string]any{
			config.KeyMaxTokens:   512,
			config.KeyTemperature: 0.3,
			config.KeyModel:       "gpt-4o-mini",
			config.KeyBaseURL:     "",
		},
	}
}

type fakeCompleter struct {
	text  string
	ok    bool
	err   error
	calls int
	req   CompletionRequest
	ctx   context.Context
}

func (c *fakeCompleter) Complete(ctx context.Context, req CompletionRequest) (string, bool, error) {
	c.calls++
	c.req = req
	c.ctx = ctx
	return c.text, c.ok, c.err
}

type countingProgress struct {
	begun  int
	ended  int
	titles []string
}

func (p *countingProgress) BeginProgress(title string) func() {
	p.begun++
	p.titles = append(p.titles, title)
	return func() { p.ended++ }
}

func TestDispatchSuccess(t *testing.T) {
	c := &fakeCompleter{text: "```go\nfunc f() {}\n```", ok: true}
	p := &countingProgress{}
	d := NewDispatcher(c, nil)

	text, ok, err := d.Dispatch(context.Background(), "write f", newFakeSource(), p)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "```go\nfunc f() {}\n```", text)

	assert.Equal(t, 1, c.calls)
	assert.Equal(t, CompletionRequest{
		Prompt:      "write f",
		MaxTokens:   512,
		Temperature: 0.3,
		Model:       "gpt-4o-mini",
		APIKey:      "sk-test",
	}, c.req)

	assert.Equal(t, 1, p.begun)
	assert.Equal(t, 1, p.ended)
	assert.Equal(t, []string{ProgressTitle}, p.titles)
}

func TestDispatchClearsProgressExactlyOnce(t *testing.T) {
	tests := []struct {
		name string
		c    *fakeCompleter
	}{
		{"success", &fakeCompleter{text: "hi", ok: true}},
		{"empty", &fakeCompleter{}},
		{"error", &fakeCompleter{err: errors.New("connection refused")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &countingProgress{}
			_, _, _ = NewDispatcher(tt.c, nil).Dispatch(context.Background(), "x", newFakeSource(), p)
			assert.Equal(t, 1, p.begun)
			assert.Equal(t, 1, p.ended)
		})
	}
}

func TestDispatchPropagatesError(t *testing.T) {
	boom := errors.New("dial tcp: connection refused")
	c := &fakeCompleter{err: boom}

	_, ok, err := NewDispatcher(c, nil).Dispatch(context.Background(), "x", newFakeSource(), &countingProgress{})
	assert.ErrorIs(t, err, boom)
	assert.False(t, ok)
	assert.Equal(t, 1, c.calls, "no retries")
}

func TestDispatchEmptyResult(t *testing.T) {
	text, ok, err := NewDispatcher(&fakeCompleter{}, nil).Dispatch(context.Background(), "x", newFakeSource(), &countingProgress{})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, text)
}

func TestDispatchWithoutAPIKey(t *testing.T) {
	src := newFakeSource()
	delete(src.secrets, APIKeySecret)
	c := &fakeCompleter{}
	p := &countingProgress{}

	_, _, err := NewDispatcher(c, nil).Dispatch(context.Background(), "x", src, p)
	assert.ErrorIs(t, err, ErrNoAPIKey)
	assert.Zero(t, c.calls)
	assert.Zero(t, p.begun)
}

func TestDispatchSecretStoreError(t *testing.T) {
	src := newFakeSource()
	src.err = errors.New("permission denied")

	_, _, err := NewDispatcher(&fakeCompleter{}, nil).Dispatch(context.Background(), "x", src, &countingProgress{})
	require.Error(t, err)
	assert.ErrorIs(t, err, src.err)
}

func TestDispatchIgnoresCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := &fakeCompleter{text: "ok", ok: true}

	_, ok, err := NewDispatcher(c, nil).Dispatch(ctx, "x", newFakeSource(), &countingProgress{})
	require.NoError(t, err)
	assert.True(t, ok)
	require.NotNil(t, c.ctx)
	assert.NoError(t, c.ctx.Err(), "in-flight call is not cancellable")
}

func TestDispatchReadsSettingsEveryCall(t *testing.T) {
	src := newFakeSource()
	c := &fakeCompleter{text: "ok", ok: true}
	d := NewDispatcher(c, nil)

	_, _, err := d.Dispatch(context.Background(), "x", src, &countingProgress{})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", c.req.Model)

	src.values[config.KeyModel] = "gpt-4.1"
	src.secrets[APIKeySecret] = "sk-new"
	_, _, err = d.Dispatch(context.Background(), "x", src, &countingProgress{})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4.1", c.req.Model)
	assert.Equal(t, "sk-new", c.req.APIKey)
}

func TestBuildRequestValidation(t *testing.T) {
	src := newFakeSource()
	src.values[config.KeyMaxTokens] = "lots"
	_, err := BuildRequest(context.Background(), "x", src)
	assert.Error(t, err)

	src = newFakeSource()
	src.values[config.KeyModel] = ""
	_, err = BuildRequest(context.Background(), "x", src)
	assert.Error(t, err)

	src = newFakeSource()
	src.values[config.KeyMaxTokens] = "2048"
	src.values[config.KeyBaseURL] = "http://localhost:11434/v1"
	req, err := BuildRequest(context.Background(), "x", src)
	require.NoError(t, err)
	assert.Equal(t, 2048, req.MaxTokens)
	assert.Equal(t, "http://localhost:11434/v1", req.BaseURL)
}
