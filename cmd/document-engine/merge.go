package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/document-engine/internal/pipeline"
	"github.com/pdiddy/document-engine/pkg/types"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [documents...]",
	Short: "Merge PDF documents into one",
	Long: `Merge concatenates two or more PDF documents, in argument order, into a
single new PDF. Every input is validated before the first page is copied,
so a corrupt document anywhere in the list fails the whole operation with
nothing written.`,
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringP("output", "o", "", "destination PDF path (required)")

	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("provide two or more PDF documents to merge")
	}
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		return fmt.Errorf("--output is required: the destination PDF path")
	}

	return runOperation(cmd, types.OpMerge, args, func(ctx context.Context, p *pipeline.Pipeline) types.OperationResult {
		return p.MergePDFs(ctx, args, out)
	})
}
