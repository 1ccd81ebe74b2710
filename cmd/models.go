package cmd

import (
	"fmt"

	"github.com/samsaffron/term-copilot/internal/cache"
	"github.com/samsaffron/term-copilot/internal/config"
	"github.com/samsaffron/term-copilot/internal/llm"
	"github.com/samsaffron/term-copilot/internal/secrets"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

var modelsRefresh bool

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models offered by the configured endpoint",
	Long: `List the models offered by the configured endpoint. The current model
is marked with *. Results are cached for 30 minutes.

Examples:
  term-copilot models
  term-copilot models --refresh`,
	Args: cobra.NoArgs,
	RunE: runModels,
}

func init() {
	modelsCmd.Flags().BoolVar(&modelsRefresh, "refresh", false, "Ignore the cached list")
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	src, err := config.NewSource("")
	if err != nil {
		return err
	}
	baseURL := cast.ToString(src.Value(config.KeyBaseURL))
	current := cast.ToString(src.Value(config.KeyModel))

	models, err := listModels(cmd, baseURL)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, m := range models {
		marker := " "
		if m == current {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %s\n", marker, m)
	}
	return nil
}

func listModels(cmd *cobra.Command, baseURL string) ([]string, error) {
	if !modelsRefresh {
		if c, err := cache.ReadModelCache(baseURL); err == nil && cache.IsCacheValid(c) {
			return c.Models, nil
		}
	}

	store, err := secrets.NewFileStore("")
	if err != nil {
		return nil, err
	}
	store.Env[llm.APIKeySecret] = "OPENAI_API_KEY"
	key, ok, err := store.Secret(cmd.Context(), llm.APIKeySecret)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: run `term-copilot setup` first", llm.ErrNoAPIKey)
	}

	models, err := llm.NewOpenAIClient().ListModels(cmd.Context(), key, baseURL)
	if err != nil {
		return nil, err
	}
	if err := cache.WriteModelCache(baseURL, models); err != nil {
		newLogger().Debug("failed to cache models", "error", err)
	}
	return models, nil
}

// cachedModels is used for shell completion and never hits the network.
func cachedModels(baseURL string) []string {
	c, err := cache.ReadModelCache(baseURL)
	if err != nil {
		return nil
	}
	return c.Models
}
