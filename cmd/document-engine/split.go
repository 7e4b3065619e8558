package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/document-engine/internal/pipeline"
	"github.com/pdiddy/document-engine/pkg/types"
)

var splitCmd = &cobra.Command{
	Use:   "split [document]",
	Short: "Split a PDF into a page range or per-page files",
	Long: `Split extracts part of a PDF document. With --from and --to it copies
that page range (inclusive, 1-based) into a single new PDF at --output.
With --each it writes every page as its own single-page PDF under
--out-dir, named page_001.pdf, page_002.pdf, and so on.`,
	RunE: runSplit,
}

func init() {
	splitCmd.Flags().Int("from", 0, "first page of the range (1-based, inclusive)")
	splitCmd.Flags().Int("to", 0, "last page of the range (inclusive)")
	splitCmd.Flags().StringP("output", "o", "", "destination PDF path for range mode")
	splitCmd.Flags().Bool("each", false, "write every page as its own PDF")
	splitCmd.Flags().StringP("out-dir", "d", "", "destination directory for --each mode")

	rootCmd.AddCommand(splitCmd)
}

func runSplit(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one PDF document to split")
	}
	pdf := args[0]

	each, _ := cmd.Flags().GetBool("each")
	from, _ := cmd.Flags().GetInt("from")
	to, _ := cmd.Flags().GetInt("to")
	out, _ := cmd.Flags().GetString("output")
	outDir, _ := cmd.Flags().GetString("out-dir")

	if each {
		if from != 0 || to != 0 || out != "" {
			return fmt.Errorf("--each cannot be combined with --from, --to, or --output")
		}
		if outDir == "" {
			return fmt.Errorf("--out-dir is required with --each: the directory for the page files")
		}
		return runOperation(cmd, types.OpSplitEach, args, func(ctx context.Context, p *pipeline.Pipeline) types.OperationResult {
			return p.SplitIndividual(ctx, pdf, outDir)
		})
	}

	if from == 0 && to == 0 {
		return fmt.Errorf("choose a mode: --from/--to for a page range, or --each for per-page files")
	}
	if from == 0 || to == 0 {
		return fmt.Errorf("range mode needs both --from and --to")
	}
	if out == "" {
		return fmt.Errorf("--output is required: the destination PDF path")
	}
	return runOperation(cmd, types.OpSplitRange, args, func(ctx context.Context, p *pipeline.Pipeline) types.OperationResult {
		return p.SplitRange(ctx, pdf, from, to, out)
	})
}
