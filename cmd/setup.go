package cmd

import (
	"context"

	"github.com/samsaffron/term-copilot/internal/flows"
	"github.com/samsaffron/term-copilot/internal/terminal"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Store your OpenAI API key",
	Long: `Prompt for an OpenAI API key and store it in the secrets file.

OPENAI_API_KEY is used when no key has been stored.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFlow(cmd, terminal.Options{}, func(ctx context.Context, r *flows.Runner) error {
			return r.Setup(ctx)
		})
	},
}

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Show the stored API key (masked)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFlow(cmd, terminal.Options{}, func(ctx context.Context, r *flows.Runner) error {
			return r.ShowKey(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(keyCmd)
}
