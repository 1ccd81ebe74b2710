package cmd

import (
	"context"

	"github.com/samsaffron/term-copilot/internal/flows"
	"github.com/samsaffron/term-copilot/internal/terminal"
	"github.com/spf13/cobra"
)

var (
	insertFile   string
	insertLang   string
	insertLine   int
	insertCol    int
	insertDryRun bool
	insertCopy   bool
)

var insertCmd = &cobra.Command{
	Use:   "insert",
	Short: "Generate functions from a comment and insert them at the cursor",
	Long: `Ask for a comment describing the code you want, generate it in the
language of the file and insert the first code block at the cursor.

Without --file the code is printed to stdout, and with --copy also copied
to the clipboard. --lang names the language when there is no file to
detect it from.

Examples:
  term-copilot insert --file calc.py --line 12
  term-copilot insert --file main.go --line 30 --col 1 --dry-run
  term-copilot insert --lang rust --copy`,
	Args: cobra.NoArgs,
	RunE: runInsert,
}

func init() {
	AddFileFlag(insertCmd, &insertFile, "Document to insert into")
	insertCmd.Flags().StringVar(&insertLang, "lang", "", "Language of the generated code (default: detected from --file)")
	insertCmd.Flags().IntVarP(&insertLine, "line", "l", 0, "Cursor line, 1-based (default: end of file)")
	insertCmd.Flags().IntVarP(&insertCol, "col", "c", 0, "Cursor column, 1-based (default: end of line)")
	insertCmd.Flags().BoolVarP(&insertDryRun, "dry-run", "n", false, "Show the diff without writing the file")
	insertCmd.Flags().BoolVar(&insertCopy, "copy", false, "Copy the code to the clipboard when no --file is given")
	rootCmd.AddCommand(insertCmd)
}

func runInsert(cmd *cobra.Command, args []string) error {
	opts := terminal.Options{
		Path:       insertFile,
		Kind:       insertLang,
		Cursor:     terminal.Cursor{Line: insertLine, Col: insertCol},
		DryRun:     insertDryRun,
		CopyResult: insertCopy,
	}
	return runFlow(cmd, opts, func(ctx context.Context, r *flows.Runner) error {
		return r.InsertFunction(ctx)
	})
}
