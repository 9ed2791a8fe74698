package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/minibot/pkg/minibot/config"
	"github.com/jamesainslie/minibot/pkg/minibot/manifest"
	"github.com/jamesainslie/minibot/pkg/minibot/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View deletion history",
	Long: `View the files deleted in past interactive sessions.

Every batch of deletions is recorded with its scan root, the files removed
and whether they went to the trash.`,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show details of a deletion batch",
	Long:  `Display the files of one batch. A unique prefix of the ID is enough.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean up old history entries",
	Long:  `Remove history entries older than manifest.retention_days.`,
	RunE:  runHistoryClean,
}

var historyLimit int

// showFilesLimit caps the files printed by history show.
const showFilesLimit = 50

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of entries to show")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyCleanCmd)
	rootCmd.AddCommand(historyCmd)
}

// openManifest returns the history store from the configuration, falling
// back to the default directory when the configuration cannot be read.
func openManifest(cmd *cobra.Command) (*manifest.Manifest, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		dir, dirErr := config.ManifestDir()
		if dirErr != nil {
			return nil, nil, fmt.Errorf("failed to get manifest directory: %w", dirErr)
		}
		m, err := manifest.New(dir)
		return m, nil, err
	}

	m, err := manifest.New(cfg.Manifest.Path)
	return m, cfg, err
}

// runHistory lists recent deletion batches.
func runHistory(cmd *cobra.Command, _ []string) error {
	m, _, err := openManifest(cmd)
	if err != nil {
		return fmt.Errorf("failed to initialize manifest: %w", err)
	}

	entries, err := m.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	printHistory(cmd.OutOrStdout(), entries)
	return nil
}

func printHistory(w io.Writer, entries []manifest.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No history entries found.")
		fmt.Fprintln(w, "Deletions made in 'minibot' sessions are recorded here.")
		return
	}

	fmt.Fprintf(w, "\n%-36s  %-19s  %-6s  %-10s  %s\n", "ID", "WHEN", "FILES", "SIZE", "ROOT")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, entry := range entries {
		fmt.Fprintf(w, "%-36s  %-19s  %-6d  %-10s  %s\n",
			entry.ID,
			entry.Timestamp.Local().Format("2006-01-02 15:04:05"),
			entry.Summary.TotalFiles,
			types.FormatSize(entry.Summary.TotalBytes),
			entry.Root,
		)
	}

	fmt.Fprintln(w, strings.Repeat("-", 100))
	fmt.Fprintf(w, "\nShowing %d entries. Use --limit to see more.\n", len(entries))
	fmt.Fprintln(w, "Use 'minibot history show <id>' for details on a specific entry.")
}

// runHistoryShow displays the files of one batch.
func runHistoryShow(cmd *cobra.Command, args []string) error {
	m, _, err := openManifest(cmd)
	if err != nil {
		return fmt.Errorf("failed to initialize manifest: %w", err)
	}

	entry, err := m.Get(args[0])
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	printEntry(cmd.OutOrStdout(), entry)
	return nil
}

func printEntry(w io.Writer, entry *manifest.Entry) {
	fmt.Fprintln(w, "\nDeletion Details")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "ID:         %s\n", entry.ID)
	fmt.Fprintf(w, "Timestamp:  %s\n", entry.Timestamp.Local().Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Root:       %s\n", entry.Root)
	fmt.Fprintf(w, "Files:      %d\n", entry.Summary.TotalFiles)
	fmt.Fprintf(w, "Total Size: %s\n", types.FormatSize(entry.Summary.TotalBytes))

	if len(entry.Files) == 0 {
		return
	}

	fmt.Fprintln(w, "\nFiles:")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "%-12s  %-7s  %s\n", "SIZE", "TRASHED", "PATH")
	fmt.Fprintln(w, strings.Repeat("-", 60))

	limit := min(len(entry.Files), showFilesLimit)
	for _, file := range entry.Files[:limit] {
		trashed := "no"
		if file.Trashed {
			trashed = "yes"
		}
		fmt.Fprintf(w, "%-12s  %-7s  %s\n", types.FormatSize(file.Size), trashed, file.Path)
	}

	if len(entry.Files) > limit {
		fmt.Fprintf(w, "\n... and %d more files\n", len(entry.Files)-limit)
	}
}

// runHistoryClean removes old history entries.
func runHistoryClean(cmd *cobra.Command, _ []string) error {
	m, cfg, err := openManifest(cmd)
	if err != nil {
		return fmt.Errorf("failed to initialize manifest: %w", err)
	}

	retentionDays := config.DefaultRetentionDays
	if cfg != nil && cfg.Manifest.RetentionDays > 0 {
		retentionDays = cfg.Manifest.RetentionDays
	}

	removed, err := m.Cleanup(retentionDays)
	if err != nil {
		return fmt.Errorf("failed to clean history: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d history entries older than %d days.\n", removed, retentionDays)
	return nil
}
