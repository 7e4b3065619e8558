// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/document-engine/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the operation journal (list, clear, export)",
	Long: `History manages the local journal of finished operations. Every
convert, merge, split, and related run is recorded with its inputs,
outputs, outcome, and duration. Plain history lists recent operations;
use clear to empty the journal or export to dump it.`,
	RunE: runHistoryList,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent operations, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(context.Background(), limit)
	if err != nil {
		return err
	}
	return formatHistoryOutput(records)
}

func formatHistoryOutput(records []types.OperationRecord) error {
	if len(records) == 0 {
		fmt.Println("No operations recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-12s  %-20s  %-12s  %-10s  %-9s  %s\n",
		"ID", "Started", "Operation", "Outcome", "Duration", "Inputs")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for _, r := range records {
		inputs := strings.Join(r.Inputs, ", ")
		if len(inputs) > 30 {
			inputs = inputs[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-12s  %-20s  %-12s  %-10s  %-9s  %s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Operation, r.Outcome, r.Duration.Round(time.Millisecond), inputs)
	}

	fmt.Fprintf(os.Stdout, "\n%d operations\n", len(records))
	return nil
}

// --- clear subcommand ---

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every journal record",
	RunE:  runHistoryClear,
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	removed, err := store.Clear(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("Cleared %d operations\n", removed)
	return nil
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the journal to YAML or JSON on stdout",
	RunE:  runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	switch format {
	case "yaml", "":
		_, err = store.ExportYAML(context.Background(), os.Stdout, limit)
	case "json":
		_, err = store.ExportJSON(context.Background(), os.Stdout, limit)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	return err
}

func init() {
	// Shared flag on the parent command, inherited by subcommands.
	historyCmd.PersistentFlags().Int("limit", 20, "maximum records to show")

	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
