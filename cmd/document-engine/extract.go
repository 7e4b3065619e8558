package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/document-engine/internal/pipeline"
	"github.com/pdiddy/document-engine/internal/split"
	"github.com/pdiddy/document-engine/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [document]",
	Short: "Extract selected pages into a new PDF",
	Long: `Extract copies the pages named by --pages into a single new PDF. The
selection is a comma-separated list of page numbers and ranges, like
"1,3,5-9". By default pages come out in document order with duplicates
dropped; --keep-order preserves the selection order instead, duplicates
included.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("pages", "", "pages to extract, e.g. \"1,3,5-9\" (required)")
	extractCmd.Flags().StringP("output", "o", "", "destination PDF path (required)")
	extractCmd.Flags().Bool("keep-order", false, "emit pages in selection order instead of document order")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one PDF document")
	}
	sel, _ := cmd.Flags().GetString("pages")
	if sel == "" {
		return fmt.Errorf("--pages is required, e.g. --pages 1,3,5-9")
	}
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		return fmt.Errorf("--output is required: the destination PDF path")
	}
	keepOrder, _ := cmd.Flags().GetBool("keep-order")

	pages, err := split.ParseSelection(sel)
	if err != nil {
		return err
	}

	return runOperation(cmd, types.OpExtract, args, func(ctx context.Context, p *pipeline.Pipeline) types.OperationResult {
		return p.ExtractPages(ctx, args[0], pages, out, keepOrder)
	})
}
