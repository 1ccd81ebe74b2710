package cmd

import (
	"context"

	"github.com/samsaffron/term-copilot/internal/flows"
	"github.com/samsaffron/term-copilot/internal/terminal"
	"github.com/spf13/cobra"
)

var (
	askFile  string
	askLines string
	askClip  bool
	askLang  string
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask a question about a block of code",
	Long: `Ask a question about the selected lines of a file. The answer is
rendered as markdown on stdout.

Examples:
  term-copilot ask --file main.go --lines 10:42
  term-copilot ask -f parser.py:7-30
  term-copilot ask -f parser.py -L 7
  term-copilot ask --clipboard -f parser.py   # code from the clipboard, language from the file
  term-copilot ask --clipboard --lang sql`,
	Args: cobra.NoArgs,
	RunE: runAsk,
}

func init() {
	AddFileFlag(askCmd, &askFile, "Document containing the code, optionally with a line range (main.go:10-42)")
	askCmd.Flags().StringVarP(&askLines, "lines", "L", "", "Selected lines as start:end or a single line")
	askCmd.Flags().StringVar(&askLang, "lang", "", "Language of the selected code (default: detected from --file)")
	askCmd.Flags().BoolVar(&askClip, "clipboard", false, "Take the selected code from the clipboard")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	path, sel, err := parseFileSpec(askFile)
	if err != nil {
		return err
	}
	if askLines != "" {
		if sel, err = parseLineRange(askLines); err != nil {
			return err
		}
	}

	opts := terminal.Options{
		Path:                   path,
		Kind:                   askLang,
		Selection:              sel,
		SelectionFromClipboard: askClip,
	}
	return runFlow(cmd, opts, func(ctx context.Context, r *flows.Runner) error {
		return r.AskAboutSelection(ctx)
	})
}
