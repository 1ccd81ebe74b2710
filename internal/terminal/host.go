// Package terminal is the command-line host: the document is a file on disk,
// prompts use the controlling terminal, and messages go to stderr.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/x/editor"
	"github.com/samsaffron/term-copilot/internal/host"
	"github.com/samsaffron/term-copilot/internal/ui"
	"golang.org/x/term"
)

// SecretStore persists secrets.
type SecretStore interface {
	Secret(ctx context.Context, key string) (string, bool, error)
	SetSecret(ctx context.Context, key, value string) error
}

// ConfigSource reads configuration values.
type ConfigSource interface {
	Value(key string) any
}

// Clipboard reads and writes clipboard text.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// Options configures a Host.
type Options struct {
	// Path is the active document. Empty means there is none.
	Path string
	// Kind overrides the language detected from Path.
	Kind      string
	Cursor    Cursor
	Selection LineRange
	// DryRun prints the insertion diff without writing the file.
	DryRun bool

	// Clipboard is used when SelectionFromClipboard or CopyResult is set.
	Clipboard Clipboard
	// SelectionFromClipboard takes the selection from the clipboard instead
	// of the document.
	SelectionFromClipboard bool
	// CopyResult copies inserted code to the clipboard when there is no
	// document to insert into.
	CopyResult bool

	// OutputDir and NewFileName control where OpenDocument writes.
	OutputDir   string
	NewFileName string
	// OpenInEditor opens new documents in the user's editor; Editor
	// overrides $EDITOR when set.
	OpenInEditor bool
	Editor       string

	// TTY is the controlling terminal. When nil or not a terminal, prompts
	// fall back to reading lines from In.
	TTY    *os.File
	In     io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Secrets SecretStore
	Config  ConfigSource
	Logger  *slog.Logger
}

// Host implements host.Host for the command line.
type Host struct {
	opts        Options
	text        string
	clipped     string
	codeLang    string
	interactive bool
	lines       *bufio.Reader
	styles      *ui.Styles
	log         *slog.Logger
}

var (
	_ host.Host         = (*Host)(nil)
	_ host.CodeLanguage = (*Host)(nil)
)

// OpenTTY opens /dev/tty for direct terminal access (bypasses redirections).
func OpenTTY() (*os.File, error) {
	return os.OpenFile("/dev/tty", os.O_RDWR, 0)
}

// New loads the document, if any, and returns the host.
func New(opts Options) (*Host, error) {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	h := &Host{
		opts:        opts,
		interactive: opts.TTY != nil && term.IsTerminal(int(opts.TTY.Fd())),
		lines:       bufio.NewReader(opts.In),
		log:         opts.Logger,
	}
	h.styles = ui.NewStyles(h.promptOut())

	if opts.Path != "" {
		data, err := os.ReadFile(opts.Path)
		if err != nil {
			return nil, fmt.Errorf("read document: %w", err)
		}
		h.text = string(data)
	}
	if opts.SelectionFromClipboard {
		if opts.Clipboard == nil {
			return nil, errors.New("no clipboard configured")
		}
		clipped, err := opts.Clipboard.ReadText()
		if err != nil {
			return nil, err
		}
		h.clipped = clipped
	}
	return h, nil
}

func (h *Host) promptOut() io.Writer {
	if h.interactive {
		return h.opts.TTY
	}
	return h.opts.Stderr
}

func (h *Host) DocumentText() string { return h.text }

func (h *Host) SelectionText() string {
	if h.opts.SelectionFromClipboard {
		return h.clipped
	}
	return SelectLines(h.text, h.opts.Selection)
}

func (h *Host) DocumentKind() string {
	if h.opts.Kind != "" {
		return strings.ToLower(h.opts.Kind)
	}
	return DetectKind(h.opts.Path)
}

// SetCodeLanguage records the fence tag of the code about to be applied.
func (h *Host) SetCodeLanguage(lang string) { h.codeLang = lang }

// highlighter picks a lexer from path, then from the fence tag, then from
// the given kinds.
func (h *Host) highlighter(path string, kinds ...string) *ui.Highlighter {
	if path != "" {
		if hl := ui.NewHighlighter(path); hl != nil {
			return hl
		}
	}
	for _, lang := range append([]string{h.codeLang}, kinds...) {
		if hl := ui.NewHighlighterForLang(lang); hl != nil {
			return hl
		}
	}
	return nil
}

// stdoutWidth reports the width of stdout when it is a terminal.
func (h *Host) stdoutWidth() (int, bool) {
	f, ok := h.opts.Stdout.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}
	return width, true
}

// InsertAtCursor writes text into the document at the configured cursor and
// prints the resulting diff. Without a document the text goes to stdout.
func (h *Host) InsertAtCursor(ctx context.Context, text string) error {
	if h.opts.Path == "" {
		if h.opts.CopyResult && h.opts.Clipboard != nil {
			if err := h.opts.Clipboard.WriteText(text); err != nil {
				return err
			}
			h.ShowInfo("Copied to clipboard")
		}
		if _, tty := h.stdoutWidth(); tty {
			text = h.highlighter("", h.DocumentKind()).HighlightCode(text)
		}
		_, err := fmt.Fprintln(h.opts.Stdout, text)
		return err
	}

	updated := InsertAt(h.text, h.opts.Cursor, text)
	ui.WriteUnifiedDiff(h.opts.Stderr, h.opts.Path, h.text, updated)
	if h.opts.DryRun {
		h.ShowInfo("Dry run: " + h.opts.Path + " not modified")
		return nil
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(h.opts.Path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(h.opts.Path, []byte(updated), mode); err != nil {
		return fmt.Errorf("write %s: %w", h.opts.Path, err)
	}
	h.text = updated
	h.log.Debug("inserted code", "path", h.opts.Path, "bytes", len(text))
	return nil
}

// OpenDocument writes content to a new file in OutputDir and optionally
// opens it in the editor.
func (h *Host) OpenDocument(ctx context.Context, content, kind string) error {
	if err := os.MkdirAll(h.opts.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	path, err := UniquePath(h.opts.OutputDir, DocumentName(h.opts.NewFileName, kind))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	h.ShowInfo("Created " + path)

	if content != "" {
		if hl := h.highlighter(path, kind); hl != nil && !h.opts.OpenInEditor {
			fmt.Fprintln(h.opts.Stderr, hl.HighlightCode(content))
		}
	}

	if !h.opts.OpenInEditor {
		return nil
	}
	return h.openEditor(ctx, path)
}

func (h *Host) openEditor(ctx context.Context, path string) error {
	var cmd *exec.Cmd
	if fields := strings.Fields(h.opts.Editor); len(fields) > 0 {
		cmd = exec.CommandContext(ctx, fields[0], append(fields[1:], path)...)
	} else {
		c, err := editor.Command("term-copilot", path)
		if err != nil {
			return fmt.Errorf("open editor: %w", err)
		}
		cmd = c
	}

	if h.interactive {
		cmd.Stdin, cmd.Stdout, cmd.Stderr = h.opts.TTY, h.opts.TTY, h.opts.TTY
	} else {
		cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, h.opts.Stderr, h.opts.Stderr
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run editor: %w", err)
	}
	return nil
}

func (h *Host) ShowError(msg string) {
	fmt.Fprintln(h.opts.Stderr, h.styles.FormatResult(false, msg))
}

func (h *Host) ShowInfo(msg string) {
	fmt.Fprintln(h.opts.Stderr, h.styles.Muted.Render(ui.InfoIcon+" ")+msg)
}

// WriteOutput prints text to stdout, rendered as markdown when stdout is a
// terminal. Untagged code blocks are highlighted as the document's kind.
func (h *Host) WriteOutput(text string) {
	if width, tty := h.stdoutWidth(); tty {
		text = ui.RenderAnswer(text, width, h.DocumentKind())
	}
	fmt.Fprintln(h.opts.Stdout, text)
}

// BeginProgress shows a spinner on the terminal, or a single status line
// when there is none.
func (h *Host) BeginProgress(title string) func() {
	if h.interactive {
		return ui.NewSpinner(h.opts.TTY).Begin(title)
	}
	return ui.NewLineProgress(h.opts.Stderr).Begin(title)
}

func (h *Host) Secret(ctx context.Context, key string) (string, bool, error) {
	return h.opts.Secrets.Secret(ctx, key)
}

func (h *Host) SetSecret(ctx context.Context, key, value string) error {
	return h.opts.Secrets.SetSecret(ctx, key, value)
}

func (h *Host) ConfigValue(key string) any {
	return h.opts.Config.Value(key)
}
