package cmd

import (
	"context"

	"github.com/samsaffron/term-copilot/internal/flows"
	"github.com/samsaffron/term-copilot/internal/terminal"
	"github.com/spf13/cobra"
)

var (
	newFileName string
	newFileDir  string
	newFileOpen bool
)

var newFileCmd = &cobra.Command{
	Use:     "new-file",
	Aliases: []string{"new"},
	Short:   "Describe a file and generate it",
	Long: `Ask for an outline and a file extension, generate the code and write it
to a new file. At a line prompt, type :back to revisit the previous step.

Examples:
  term-copilot new-file
  term-copilot new-file --name tokenizer --dir ./scratch --open`,
	Args: cobra.NoArgs,
	RunE: runNewFile,
}

func init() {
	newFileCmd.Flags().StringVar(&newFileName, "name", "", "Base name for the new file (default: untitled)")
	newFileCmd.Flags().StringVar(&newFileDir, "dir", "", "Directory for the new file (default: output_dir from config)")
	newFileCmd.Flags().BoolVarP(&newFileOpen, "open", "o", false, "Open the new file in $EDITOR")
	rootCmd.AddCommand(newFileCmd)
}

func runNewFile(cmd *cobra.Command, args []string) error {
	opts := terminal.Options{
		OutputDir:    newFileDir,
		NewFileName:  newFileName,
		OpenInEditor: newFileOpen,
	}
	return runFlow(cmd, opts, func(ctx context.Context, r *flows.Runner) error {
		return r.WriteNewFile(ctx)
	})
}
