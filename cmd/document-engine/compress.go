package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/document-engine/internal/pipeline"
	"github.com/pdiddy/document-engine/pkg/types"
)

var compressCmd = &cobra.Command{
	Use:   "compress [document]",
	Short: "Write a size-optimized copy of a PDF",
	Long: `Compress rewrites the document with redundant objects removed and
streams recompressed. The result is reported as a size change; a document
the optimizer cannot shrink is still a success.`,
	RunE: runCompress,
}

func init() {
	compressCmd.Flags().StringP("output", "o", "", "destination PDF path (required)")
	compressCmd.Flags().String("level", "", "compression level: low, medium, or high")

	rootCmd.AddCommand(compressCmd)
}

func runCompress(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one PDF document")
	}
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		return fmt.Errorf("--output is required: the destination PDF path")
	}

	level := types.CompressMedium
	if s, _ := cmd.Flags().GetString("level"); s != "" {
		var err error
		if level, err = types.ParseCompressionLevel(s); err != nil {
			return err
		}
	}

	return runOperation(cmd, types.OpCompress, args, func(ctx context.Context, p *pipeline.Pipeline) types.OperationResult {
		return p.Compress(ctx, args[0], out, level)
	})
}
