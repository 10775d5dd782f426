// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vault-sync/internal/history"
	"github.com/pdiddy/vault-sync/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the outcomes of past sync runs",
	Long: `History lists recent sync runs recorded in the local SQLite database.
Use --run to show the per-document outcomes of a single run.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	dataDir := stringSetting(cmd, "data-dir", "history.data_dir")
	if dataDir == "" {
		return fmt.Errorf("no data directory configured: set --data-dir or history.data_dir")
	}

	store, err := history.NewStore(types.HistoryConfig{DataDir: dataDir})
	if err != nil {
		return err
	}
	defer store.Close()

	jsonOutput, _ := cmd.Flags().GetBool("json")

	runID, _ := cmd.Flags().GetInt64("run")
	if runID > 0 {
		docs, err := store.RunDocuments(context.Background(), runID)
		if err != nil {
			return err
		}
		return formatDocuments(docs, jsonOutput)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Runs(context.Background(), limit)
	if err != nil {
		return err
	}
	return formatRuns(runs, jsonOutput)
}

func formatRuns(runs []history.Run, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-20s  %-7s  %s\n", "Run", "Started", "Synced", "Failed")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 44))
	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-6d  %-20s  %-7d  %d\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Synced, r.Failed)
	}
	fmt.Fprintf(os.Stdout, "\n%d run(s)\n", len(runs))
	return nil
}

func formatDocuments(docs []history.Document, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	}

	if len(docs) == 0 {
		fmt.Println("No documents recorded for that run.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-30s  %-8s  %-7s  %s\n", "Note", "Status", "Images", "Detail")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 70))
	for _, d := range docs {
		name := truncate(d.Name, 30)
		detail := d.OutputPath
		if d.Error != "" {
			detail = d.Error
		}
		fmt.Fprintf(os.Stdout, "%-30s  %-8s  %-7d  %s\n", name, d.Status, d.Images, detail)
	}
	return nil
}

// truncate shortens s to at most max runes, marking the cut with an
// ellipsis. Counting runes keeps multibyte names from being split
// mid-character.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func init() {
	historyCmd.Flags().Int("limit", 0, "maximum number of runs to list")
	historyCmd.Flags().Int64("run", 0, "show per-document outcomes for this run ID")
	historyCmd.Flags().Bool("json", false, "output as JSON")
	historyCmd.Flags().String("data-dir", "", "directory for the run-history database")

	rootCmd.AddCommand(historyCmd)
}
