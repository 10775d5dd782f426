// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/vault-sync/internal/history"
	"github.com/pdiddy/vault-sync/internal/sync"
	"github.com/pdiddy/vault-sync/internal/vault"
	"github.com/pdiddy/vault-sync/pkg/types"
)

var syncCmd = &cobra.Command{
	Use:   "sync [notes...]",
	Short: "Convert selected vault notes into the site content tree",
	Long: `Sync converts the listed notes (vault-relative paths) into the site's
content format: front matter is synthesized, tags extracted, filtered
header sections removed, and embedded images copied into the site tree
with their references rewritten.

Notes are processed independently; a failure in one note never aborts
the batch. Image copies are idempotent, so re-running a partially
failed batch is safe.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg := syncConfigFromFlags(cmd)
	if err := cfg.Validate(); err != nil {
		return err
	}

	v, err := vault.Open(cfg.VaultDir)
	if err != nil {
		return err
	}

	s := sync.New(cfg, v)
	s.DryRun, _ = cmd.Flags().GetBool("dry-run")

	started := time.Now()
	sum := s.SyncAll(args, os.Stdout)

	if reportPath, _ := cmd.Flags().GetString("report"); reportPath != "" && !s.DryRun {
		if err := sync.WriteReport(reportPath, cfg, sum); err != nil {
			return err
		}
		fmt.Println("Report written to", reportPath)
	}

	if err := recordRun(cmd, started, sum, s.DryRun); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record run history: %v\n", err)
	}

	if sum.HasFailures() {
		fmt.Println(sum.Message())
		return fmt.Errorf("%d note(s) failed to sync", sum.Failed)
	}
	return nil
}

// recordRun stores the batch outcome in the history database when a
// data directory is configured. Dry runs are not recorded.
func recordRun(cmd *cobra.Command, started time.Time, sum sync.Summary, dryRun bool) error {
	noHistory, _ := cmd.Flags().GetBool("no-history")
	dataDir := stringSetting(cmd, "data-dir", "history.data_dir")
	if noHistory || dryRun || dataDir == "" {
		return nil
	}

	store, err := history.NewStore(types.HistoryConfig{DataDir: dataDir})
	if err != nil {
		return err
	}
	defer store.Close()

	docs := make([]history.Document, len(sum.Documents))
	for i, d := range sum.Documents {
		docs[i] = history.Document{
			Name:       d.Name,
			Status:     d.Status,
			OutputPath: d.OutputPath,
			Images:     d.Images,
			Error:      d.Error,
		}
	}
	_, err = store.Record(context.Background(), started, sum.Synced, sum.Failed, docs)
	return err
}

// syncConfigFromFlags builds the effective settings: flags take
// precedence over config-file and environment values.
func syncConfigFromFlags(cmd *cobra.Command) types.SyncConfig {
	return types.SyncConfig{
		VaultDir:             stringSetting(cmd, "vault", "vault_dir"),
		OutputDir:            stringSetting(cmd, "output", "output_dir"),
		ContentSubDir:        stringSetting(cmd, "content-dir", "content_sub_dir"),
		StaticSubDir:         stringSetting(cmd, "static-dir", "static_sub_dir"),
		Layout:               types.ImageLayout(stringSetting(cmd, "layout", "layout")),
		FilteredHeaders:      sliceSetting(cmd, "filter-header", "filtered_headers"),
		DescriptionLines:     intSetting(cmd, "description-lines", "description_lines"),
		DescriptionMaxLength: intSetting(cmd, "description-max", "description_max_length"),
		CoverFromFirstImage:  boolSetting(cmd, "cover", "cover_from_first_image"),
		Author:               stringSetting(cmd, "author", "author"),
		TimestampNames:       boolSetting(cmd, "timestamp-names", "timestamp_names"),
	}
}

func stringSetting(cmd *cobra.Command, flag, key string) string {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetString(key)
	}
	v, _ := cmd.Flags().GetString(flag)
	return v
}

func intSetting(cmd *cobra.Command, flag, key string) int {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetInt(key)
	}
	v, _ := cmd.Flags().GetInt(flag)
	return v
}

func boolSetting(cmd *cobra.Command, flag, key string) bool {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetBool(key)
	}
	v, _ := cmd.Flags().GetBool(flag)
	return v
}

func sliceSetting(cmd *cobra.Command, flag, key string) []string {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetStringSlice(key)
	}
	v, _ := cmd.Flags().GetStringSlice(flag)
	return v
}

func init() {
	syncCmd.Flags().String("vault", "", "root directory of the note vault")
	syncCmd.Flags().String("output", "", "root directory of the site source tree")
	syncCmd.Flags().String("content-dir", "content/posts", "sub-path under output for converted notes")
	syncCmd.Flags().String("static-dir", "static", "sub-path under output for shared static assets")
	syncCmd.Flags().String("layout", "centralized", "image layout: centralized or colocated")
	syncCmd.Flags().StringSlice("filter-header", nil, "header text whose section is removed (repeatable)")
	syncCmd.Flags().Int("description-lines", 0, "leading lines of the note used as the description")
	syncCmd.Flags().Int("description-max", 0, "maximum description length in characters (0 = no cap)")
	syncCmd.Flags().Bool("cover", false, "use the first image as the front-matter cover")
	syncCmd.Flags().String("author", "", "author name emitted in front matter")
	syncCmd.Flags().Bool("timestamp-names", false, "append a timestamp to copied image names")
	syncCmd.Flags().Bool("dry-run", false, "transform without writing or copying anything")
	syncCmd.Flags().String("report", "", "write a YAML run report to this path")
	syncCmd.Flags().String("data-dir", "", "directory for the run-history database")
	syncCmd.Flags().Bool("no-history", false, "do not record this run in the history database")

	rootCmd.AddCommand(syncCmd)
}
