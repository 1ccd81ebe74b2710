package cmd

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/samsaffron/term-copilot/internal/config"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage term-copilot configuration",
	Long: `View or edit your term-copilot configuration.

Every key can also be set with a TERM_COPILOT_ environment variable,
e.g. TERM_COPILOT_MODEL or TERM_COPILOT_HISTORY_ENABLED.

Examples:
  term-copilot config                      # show current config
  term-copilot config path                 # print the config file path
  term-copilot config get model
  term-copilot config set max_tokens 2048`,
	Args: cobra.NoArgs,
	RunE: configShow, // Default to show
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print configuration file path",
	Args:  cobra.NoArgs,
	RunE:  configPath,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  configGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

Examples:
  term-copilot config set model gpt-4o
  term-copilot config set temperature 0.5
  term-copilot config set history.enabled false
  term-copilot config set base_url http://localhost:11434/v1/`,
	Args: cobra.ExactArgs(2),
	RunE: configSet,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)

	configGetCmd.ValidArgsFunction = configKeyCompletion
	configSetCmd.ValidArgsFunction = configKeyCompletion
}

func configShow(cmd *cobra.Command, args []string) error {
	src, err := config.NewSource("")
	if err != nil {
		return err
	}
	if _, err := src.Load(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if _, statErr := os.Stat(src.Path()); os.IsNotExist(statErr) {
		fmt.Fprintf(out, "# No config file (using defaults)\n")
		fmt.Fprintf(out, "# Create one at: %s\n\n", src.Path())
	} else {
		fmt.Fprintf(out, "# %s\n\n", src.Path())
	}

	for _, key := range config.Keys() {
		fmt.Fprintf(out, "%s: %s\n", key, formatValue(src.Value(key)))
	}
	return nil
}

func configPath(cmd *cobra.Command, args []string) error {
	src, err := config.NewSource("")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), src.Path())
	return nil
}

func configGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	if !slices.Contains(config.Keys(), key) {
		return fmt.Errorf("%w: %s (known keys: %s)", config.ErrUnknownKey, key, strings.Join(config.Keys(), ", "))
	}

	src, err := config.NewSource("")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatValue(src.Value(key)))
	return nil
}

func configSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	src, err := config.NewSource("")
	if err != nil {
		return err
	}
	if err := src.Set(key, value); err != nil {
		if errors.Is(err, config.ErrUnknownKey) {
			return fmt.Errorf("%w (known keys: %s)", err, strings.Join(config.Keys(), ", "))
		}
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
	return nil
}

func configKeyCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var candidates []string
	switch {
	case len(args) == 0:
		candidates = config.Keys()
	case len(args) == 1 && cmd == configSetCmd:
		candidates = configValueCompletions(args[0])
	}

	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(c, toComplete) {
			out = append(out, c)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func configValueCompletions(key string) []string {
	switch key {
	case config.KeyModel:
		src, err := config.NewSource("")
		if err != nil {
			return nil
		}
		return cachedModels(cast.ToString(src.Value(config.KeyBaseURL)))
	case config.KeyHistoryEnabled:
		return []string{"true", "false"}
	}
	return nil
}

func formatValue(v any) string {
	s := cast.ToString(v)
	if s == "" {
		return `""`
	}
	return s
}
