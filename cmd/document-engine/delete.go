package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/document-engine/internal/pipeline"
	"github.com/pdiddy/document-engine/internal/split"
	"github.com/pdiddy/document-engine/pkg/types"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [document]",
	Short: "Delete selected pages from a PDF",
	Long: `Delete writes a copy of the document without the pages named by
--pages, keeping the surviving pages in their original order. Deleting
every page is refused; a PDF needs at least one page.`,
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().String("pages", "", "pages to delete, e.g. \"2,4-6\" (required)")
	deleteCmd.Flags().StringP("output", "o", "", "destination PDF path (required)")

	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one PDF document")
	}
	sel, _ := cmd.Flags().GetString("pages")
	if sel == "" {
		return fmt.Errorf("--pages is required, e.g. --pages 2,4-6")
	}
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		return fmt.Errorf("--output is required: the destination PDF path")
	}

	pages, err := split.ParseSelection(sel)
	if err != nil {
		return err
	}

	return runOperation(cmd, types.OpDelete, args, func(ctx context.Context, p *pipeline.Pipeline) types.OperationResult {
		return p.DeletePages(ctx, args[0], pages, out)
	})
}
