package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/document-engine/internal/pipeline"
	"github.com/pdiddy/document-engine/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [images...]",
	Short: "Convert image files into a single PDF",
	Long: `Convert lays out image files (PNG, JPEG) one per page, in argument
order, into a single new PDF. Page size, orientation, and margin come
from flags, falling back to the config file.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "destination PDF path (required)")
	convertCmd.Flags().String("page-size", "", "page size: a4, letter, legal, or original")
	convertCmd.Flags().String("orientation", "", "page orientation: portrait, landscape, or auto")
	convertCmd.Flags().String("margin", "", "page margin: none, small, medium, or large")

	rootCmd.AddCommand(convertCmd)
}

// outputSpecFromFlags builds the layout spec from the convert flags. Unset
// flags stay zero so the pipeline fills them from configuration.
func outputSpecFromFlags(cmd *cobra.Command, outPath string) (types.OutputSpec, error) {
	spec := types.OutputSpec{Path: outPath}

	var err error
	if s, _ := cmd.Flags().GetString("page-size"); s != "" {
		if spec.PageSize, err = types.ParsePageSize(s); err != nil {
			return spec, err
		}
	}
	if s, _ := cmd.Flags().GetString("orientation"); s != "" {
		if spec.Orientation, err = types.ParseOrientation(s); err != nil {
			return spec, err
		}
	}
	if s, _ := cmd.Flags().GetString("margin"); s != "" {
		if spec.Margin, err = types.ParseMargin(s); err != nil {
			return spec, err
		}
	}
	return spec, nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more image files to convert")
	}
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		return fmt.Errorf("--output is required: the destination PDF path")
	}

	spec, err := outputSpecFromFlags(cmd, out)
	if err != nil {
		return err
	}

	return runOperation(cmd, types.OpConvert, args, func(ctx context.Context, p *pipeline.Pipeline) types.OperationResult {
		return p.ConvertImagesToPDF(ctx, args, spec)
	})
}
