package terminal

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samsaffron/term-copilot/internal/clipboard"
	"github.com/samsaffron/term-copilot/internal/config"
	"github.com/samsaffron/term-copilot/internal/flows"
	"github.com/samsaffron/term-copilot/internal/host"
	"github.com/samsaffron/term-copilot/internal/llm"
	"github.com/samsaffron/term-copilot/internal/ui"
	"github.com/samsaffron/term-copilot/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapSecrets map[string]string

func (m mapSecrets) Secret(ctx context.Context, key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m mapSecrets) SetSecret(ctx context.Context, key, value string) error {
	m[key] = value
	return nil
}

type mapConfig map[string]any

func (m mapConfig) Value(key string) any { return m[key] }

type testHost struct {
	*Host
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestHost(t *testing.T, opts Options, input string) testHost {
	t.Helper()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	opts.In = strings.NewReader(input)
	opts.Stdout = stdout
	opts.Stderr = stderr
	if opts.Secrets == nil {
		opts.Secrets = mapSecrets{}
	}
	if opts.Config == nil {
		opts.Config = mapConfig{}
	}
	h, err := New(opts)
	require.NoError(t, err)
	return testHost{Host: h, stdout: stdout, stderr: stderr}
}

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0640))
	return path
}

func TestNewMissingDocument(t *testing.T) {
	_, err := New(Options{Path: filepath.Join(t.TempDir(), "missing.go")})
	assert.Error(t, err)
}

func TestDocumentAccessors(t *testing.T) {
	path := writeDoc(t, "calc.py", "import math\n\ndef area(r):\n    return math.pi * r * r\n")
	h := newTestHost(t, Options{Path: path, Selection: LineRange{Start: 3, End: 4}}, "")

	assert.Equal(t, "python", h.DocumentKind())
	assert.Contains(t, h.DocumentText(), "import math")
	assert.Equal(t, "def area(r):\n    return math.pi * r * r\n", h.SelectionText())
}

func TestInsertAtCursorWritesFile(t *testing.T) {
	path := writeDoc(t, "calc.py", "import math\n")
	h := newTestHost(t, Options{Path: path, Cursor: Cursor{Line: 1}}, "")

	require.NoError(t, h.InsertAtCursor(context.Background(), "\ndef add(a, b):\n    return a + b"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "import math\ndef add(a, b):\n    return a + b\n", string(data))
	assert.Equal(t, string(data), h.DocumentText())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0640), info.Mode().Perm(), "mode preserved")

	assert.Contains(t, stripped(h.stderr), "Edit: "+path)
}

func TestInsertAtCursorDryRun(t *testing.T) {
	path := writeDoc(t, "main.go", "package main\n")
	h := newTestHost(t, Options{Path: path, DryRun: true}, "")

	require.NoError(t, h.InsertAtCursor(context.Background(), "\nfunc main() {}\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "package main\n", string(data))
	assert.Contains(t, stripped(h.stderr), "func main() {}")
	assert.Contains(t, stripped(h.stderr), "Dry run")
}

func TestInsertAtCursorWithoutDocument(t *testing.T) {
	h := newTestHost(t, Options{}, "")
	require.NoError(t, h.InsertAtCursor(context.Background(), "print(1)"))
	assert.Equal(t, "print(1)\n", h.stdout.String())
}

func TestInsertAtCursorCopiesToClipboard(t *testing.T) {
	clip := &clipboard.Memory{}
	h := newTestHost(t, Options{Clipboard: clip, CopyResult: true}, "")
	require.NoError(t, h.InsertAtCursor(context.Background(), "print(1)"))

	got, err := clip.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "print(1)", got)
	assert.Equal(t, "print(1)\n", h.stdout.String())
	assert.Contains(t, stripped(h.stderr), "Copied to clipboard")
}

func TestSelectionFromClipboard(t *testing.T) {
	clip := &clipboard.Memory{}
	require.NoError(t, clip.WriteText("SELECT * FROM runs"))

	path := writeDoc(t, "q.sql", "SELECT 1;\n")
	h := newTestHost(t, Options{
		Path:                   path,
		Selection:              LineRange{Start: 1, End: 1},
		Clipboard:              clip,
		SelectionFromClipboard: true,
	}, "")
	assert.Equal(t, "SELECT * FROM runs", h.SelectionText())

	_, err := New(Options{SelectionFromClipboard: true})
	assert.Error(t, err)
}

func TestOpenDocumentWritesUniqueFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	h := newTestHost(t, Options{OutputDir: dir, NewFileName: "Word Counter"}, "")
	ctx := context.Background()

	require.NoError(t, h.OpenDocument(ctx, "print('hi')\n", "py"))
	require.NoError(t, h.OpenDocument(ctx, "", "py"))

	first, err := os.ReadFile(filepath.Join(dir, "word-counter.py"))
	require.NoError(t, err)
	assert.Equal(t, "print('hi')\n", string(first))

	second, err := os.ReadFile(filepath.Join(dir, "word-counter-2.py"))
	require.NoError(t, err)
	assert.Empty(t, second)

	assert.Contains(t, stripped(h.stderr), "Created "+filepath.Join(dir, "word-counter.py"))
}

func TestOpenDocumentInEditor(t *testing.T) {
	dir := t.TempDir()
	h := newTestHost(t, Options{OutputDir: dir, OpenInEditor: true, Editor: "true"}, "")
	require.NoError(t, h.OpenDocument(context.Background(), "x", "go"))

	h = newTestHost(t, Options{OutputDir: dir, OpenInEditor: true, Editor: "false"}, "")
	assert.Error(t, h.OpenDocument(context.Background(), "x", "go"))
}

func TestDocumentKindOverride(t *testing.T) {
	path := writeDoc(t, "calc.py", "")
	h := newTestHost(t, Options{Path: path}, "")
	assert.Equal(t, "python", h.DocumentKind())

	h = newTestHost(t, Options{Path: path, Kind: "Cython"}, "")
	assert.Equal(t, "cython", h.DocumentKind())

	h = newTestHost(t, Options{Kind: "rust"}, "")
	assert.Equal(t, "rust", h.DocumentKind())
}

func TestOpenDocumentHighlightsByFenceLanguage(t *testing.T) {
	dir := t.TempDir()
	const code = "def area(r):\n    return r * r"
	const truecolor = "\x1b[38;2;"

	h := newTestHost(t, Options{OutputDir: dir}, "")
	require.NoError(t, h.OpenDocument(context.Background(), code, "zzz"))
	assert.NotContains(t, h.stderr.String(), truecolor, "no lexer for the path or kind")

	h = newTestHost(t, Options{OutputDir: dir}, "")
	h.SetCodeLanguage("python")
	require.NoError(t, h.OpenDocument(context.Background(), code, "zzz"))
	assert.Contains(t, h.stderr.String(), truecolor)
	assert.Contains(t, stripped(h.stderr), "return r * r")
}

func TestInsertWithoutDocumentIsPlainWhenPiped(t *testing.T) {
	h := newTestHost(t, Options{Kind: "go"}, "")
	h.SetCodeLanguage("go")
	require.NoError(t, h.InsertAtCursor(context.Background(), "x := 1"))
	assert.Equal(t, "x := 1\n", h.stdout.String())
}

func TestPromptInputLineMode(t *testing.T) {
	h := newTestHost(t, Options{}, "\n   \nwhat is a closure?\n")
	v, err := h.PromptInput(context.Background(), host.Input{
		Prompt:      "Enter your comment",
		Placeholder: "What is polymorphism?",
		ErrorText:   "Invalid question",
	})
	require.NoError(t, err)
	assert.Equal(t, "what is a closure?", v)

	out := stripped(h.stderr)
	assert.Equal(t, 2, strings.Count(out, "Invalid question"))
	assert.Contains(t, out, "Enter your comment (What is polymorphism?): ")
}

func TestPromptInputEOFCancels(t *testing.T) {
	h := newTestHost(t, Options{}, "")
	_, err := h.PromptInput(context.Background(), host.Input{Prompt: "Q"})
	assert.ErrorIs(t, err, wizard.ErrCancelled)
}

func TestPromptInputLastLineWithoutNewline(t *testing.T) {
	h := newTestHost(t, Options{}, "sk-abc")
	v, err := h.PromptInput(context.Background(), host.Input{Prompt: "Key", Password: true})
	require.NoError(t, err)
	assert.Equal(t, "sk-abc", v)
}

func TestPromptStepLineModeWithWizard(t *testing.T) {
	h := newTestHost(t, Options{}, "a parser\n:back\na tokenizer\nrs\n")
	steps := []wizard.Step{{Title: "outline"}, {Title: "ext"}}

	got, err := wizard.Run(context.Background(), h, steps)
	require.NoError(t, err)
	assert.Equal(t, []string{"a tokenizer", "rs"}, got)
	assert.Contains(t, stripped(h.stderr), "[1/2] outline [a parser]: ")
}

func TestPromptStepEmptyKeepsPrefill(t *testing.T) {
	h := newTestHost(t, Options{}, "\n")
	reply, err := h.PromptStep(context.Background(), wizard.InputStep{Title: "ext", Ordinal: 1, TotalSteps: 1, Value: "go"})
	require.NoError(t, err)
	assert.Equal(t, wizard.Reply{Action: wizard.Submit, Value: "go"}, reply)
}

func TestPromptStepEOFDismisses(t *testing.T) {
	h := newTestHost(t, Options{}, "a REST client\n")
	_, err := wizard.Run(context.Background(), h, []wizard.Step{{Title: "outline"}, {Title: "ext"}})
	assert.ErrorIs(t, err, wizard.ErrCancelled)
}

func TestLineModeProgressAndOutput(t *testing.T) {
	h := newTestHost(t, Options{}, "")
	end := h.BeginProgress(llm.ProgressTitle)
	end()
	end()
	assert.Contains(t, stripped(h.stderr), "Loading response...")

	h.WriteOutput("**raw** reply")
	assert.Equal(t, "**raw** reply\n", h.stdout.String())
}

func TestSecretsAndConfigDelegate(t *testing.T) {
	secrets := mapSecrets{}
	h := newTestHost(t, Options{Secrets: secrets, Config: mapConfig{config.KeyModel: "m"}}, "")

	require.NoError(t, h.SetSecret(context.Background(), llm.APIKeySecret, "sk"))
	v, ok, err := h.Secret(context.Background(), llm.APIKeySecret)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "sk", v)
	assert.Equal(t, "m", h.ConfigValue(config.KeyModel))
}

func TestInsertFlowEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c","object":"chat.completion","created":1,"model":"gpt-4o-mini","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"` + "```def add(a,b): return a+b```" + `"}}]}`))
	}))
	defer srv.Close()

	path := writeDoc(t, "calc.py", "import math\n")
	h := newTestHost(t, Options{
		Path:    path,
		Cursor:  Cursor{Line: 2, Col: 1},
		Secrets: mapSecrets{llm.APIKeySecret: "sk-test"},
		Config: mapConfig{
			config.KeyModel:       "gpt-4o-mini",
			config.KeyMaxTokens:   256,
			config.KeyTemperature: 0.2,
			config.KeyBaseURL:     srv.URL + "/",
		},
	}, "add two numbers\n")

	runner := flows.NewRunner(h, llm.NewDispatcher(llm.NewOpenAIClient(), nil), nil, nil)
	require.NoError(t, runner.InsertFunction(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "import math\ndef add(a,b): return a+b", string(data))
}

func stripped(b *bytes.Buffer) string {
	return ui.StripANSI(b.String())
}
