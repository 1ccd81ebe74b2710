package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/samsaffron/term-copilot/internal/clipboard"
	"github.com/samsaffron/term-copilot/internal/config"
	"github.com/samsaffron/term-copilot/internal/flows"
	"github.com/samsaffron/term-copilot/internal/history"
	"github.com/samsaffron/term-copilot/internal/llm"
	"github.com/samsaffron/term-copilot/internal/secrets"
	"github.com/samsaffron/term-copilot/internal/signal"
	"github.com/samsaffron/term-copilot/internal/terminal"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "Log debug information to stderr")
	rootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "Do not record this run in the history log")
}

var rootCmd = &cobra.Command{
	Use:   "term-copilot",
	Short: "Generate code into your files from the terminal",
	Long: `term-copilot asks a chat model for code and puts it where you need it.

Examples:
  term-copilot setup                                  # store your API key
  term-copilot insert --file calc.py --line 12        # generate functions at line 12
  term-copilot new-file --dir ./scratch --open        # describe a file, then open it
  term-copilot ask --file main.go --lines 10:42       # explain a block of code

  term-copilot config set model gpt-4o
  term-copilot history --limit 20`,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	SilenceErrors:     true,
	SilenceUsage:      true,
}

var debugLog bool
var noHistory bool

// historyMaxCount caps the history log; older runs are pruned on open.
const historyMaxCount = 1000

// errShown marks an error the host has already reported to the user.
type errShown struct{ err error }

func (e errShown) Error() string { return e.err.Error() }
func (e errShown) Unwrap() error { return e.err }

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var shown errShown
		if !errors.As(err, &shown) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if debugLog {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func notifyContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent)
}

// app holds the collaborators shared by every flow command. They are built
// once per process and injected; nothing below cmd looks them up by name.
type app struct {
	cfg     *config.Source
	secrets *secrets.FileStore
	history history.Store
	log     *slog.Logger
}

func newApp() (*app, error) {
	log := newLogger()

	cfg, err := config.NewSource("")
	if err != nil {
		return nil, err
	}
	settings, err := cfg.Load()
	if err != nil {
		return nil, err
	}

	store, err := secrets.NewFileStore("")
	if err != nil {
		return nil, err
	}
	store.Env[llm.APIKeySecret] = "OPENAI_API_KEY"

	hist, err := history.NewStore(history.Config{
		Enabled:  settings.History.Enabled && !noHistory,
		MaxCount: historyMaxCount,
	})
	if err != nil {
		log.Warn("history disabled", "error", err)
		hist = &history.NoopStore{}
	}

	return &app{cfg: cfg, secrets: store, history: hist, log: log}, nil
}

func (a *app) Close() {
	if err := a.history.Close(); err != nil {
		a.log.Debug("close history", "error", err)
	}
}

// runner builds the terminal host for opts and a flows.Runner on top of it.
// The returned func releases the terminal.
func (a *app) runner(opts terminal.Options) (*flows.Runner, func(), error) {
	settings, err := a.cfg.Load()
	if err != nil {
		return nil, nil, err
	}
	if opts.OutputDir == "" {
		opts.OutputDir = settings.OutputDir
	}
	if opts.Editor == "" {
		opts.Editor = settings.Editor
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.System{}
	}
	opts.Secrets = a.secrets
	opts.Config = a.cfg
	opts.Logger = a.log

	release := func() {}
	if tty, err := terminal.OpenTTY(); err == nil {
		opts.TTY = tty
		release = func() { tty.Close() }
	} else {
		a.log.Debug("no controlling terminal, using line prompts", "error", err)
	}

	h, err := terminal.New(opts)
	if err != nil {
		release()
		return nil, nil, err
	}
	d := llm.NewDispatcher(llm.NewOpenAIClient(), a.log)
	return flows.NewRunner(h, d, a.history, a.log), release, nil
}

// runFlow runs fn against a fresh Runner under an interrupt-aware context.
// Errors returned by fn have already been shown by the host.
func runFlow(cmd *cobra.Command, opts terminal.Options, fn func(context.Context, *flows.Runner) error) error {
	ctx, stop := notifyContext(cmd)
	defer stop()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	r, release, err := a.runner(opts)
	if err != nil {
		return err
	}
	defer release()

	if err := fn(ctx, r); err != nil {
		return errShown{err}
	}
	return nil
}
