package cmd

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samsaffron/term-copilot/internal/history"
	"github.com/samsaffron/term-copilot/internal/ui"
	"github.com/spf13/cobra"
)

var (
	historyLimit  int
	historyFlow   string
	historyStatus string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs",
	Long: `List the most recent insert, new-file, ask and setup runs.

Examples:
  term-copilot history
  term-copilot history --limit 5 --flow insert
  term-copilot history --status failed`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of runs to show")
	historyCmd.Flags().StringVar(&historyFlow, "flow", "", "Only show runs of this flow")
	historyCmd.Flags().StringVar(&historyStatus, "status", "", "Only show runs with this status (completed, cancelled, failed, empty)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyStatus != "" {
		valid := []string{
			string(history.StatusCompleted),
			string(history.StatusCancelled),
			string(history.StatusFailed),
			string(history.StatusEmpty),
		}
		if !slices.Contains(valid, historyStatus) {
			return fmt.Errorf("invalid status %q: must be one of %v", historyStatus, valid)
		}
	}

	store, err := history.NewSQLiteStore(history.Config{Enabled: true})
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(cmd.Context(), history.ListOptions{
		Flow:   historyFlow,
		Status: history.Status(historyStatus),
		Limit:  historyLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(out, "%-8s %-9s %-10s %-12s %6s %7s %-10s %s\n",
		"ID", "FLOW", "STATUS", "KIND", "BYTES", "TIME", "AGE", "PROMPT")
	fmt.Fprintln(out, strings.Repeat("-", 100))

	for _, e := range entries {
		prompt := strings.Join(strings.Fields(e.Prompt), " ")
		if e.Status == history.StatusFailed && e.Error != "" {
			prompt = "error: " + e.Error
		}
		fmt.Fprintf(out, "%-8s %-9s %-10s %-12s %6d %7s %-10s %s\n",
			shortID(e.ID), e.Flow, e.Status, ui.Truncate(orDash(e.Kind), 12), e.CodeBytes,
			formatDuration(e.Duration), formatRelativeTime(e.CreatedAt), ui.Truncate(prompt, 40))
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// formatRelativeTime formats a time as relative (e.g., "2h ago")
func formatRelativeTime(t time.Time) string {
	dur := time.Since(t)
	switch {
	case dur < time.Minute:
		return "just now"
	case dur < time.Hour:
		return fmt.Sprintf("%dm ago", int(dur.Minutes()))
	case dur < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(dur.Hours()))
	case dur < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(dur.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}
