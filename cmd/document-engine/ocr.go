package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/document-engine/internal/pipeline"
	"github.com/pdiddy/document-engine/pkg/types"
)

var ocrCmd = &cobra.Command{
	Use:   "ocr [document]",
	Short: "Extract text from a PDF, recognizing scanned pages",
	Long: `OCR extracts the document's text into a single UTF-8 file. Pages that
carry an embedded text layer are read directly; scanned pages are
rasterized and recognized with Tesseract. --force recognizes every page
regardless of embedded text.

The mode picks the rasterization density: fast (150 DPI), balanced
(300 DPI), or accurate (600 DPI). An explicit --dpi wins over the mode.`,
	RunE: runOCR,
}

func init() {
	ocrCmd.Flags().StringP("output", "o", "", "destination text file path (required)")
	ocrCmd.Flags().String("lang", "", "Tesseract language code, e.g. eng or eng+deu")
	ocrCmd.Flags().String("mode", "", "speed/accuracy trade-off: fast, balanced, or accurate")
	ocrCmd.Flags().Int("dpi", 0, "rasterization density, overrides the mode")
	ocrCmd.Flags().Bool("force", false, "recognize every page, ignoring embedded text layers")
	ocrCmd.Flags().Bool("no-separators", false, "omit the --- Page N --- markers between pages")

	rootCmd.AddCommand(ocrCmd)
}

func runOCR(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one PDF document")
	}
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		return fmt.Errorf("--output is required: the destination text file path")
	}

	opts := pipeline.OCROptions{}
	opts.Language, _ = cmd.Flags().GetString("lang")
	if s, _ := cmd.Flags().GetString("mode"); s != "" {
		var err error
		if opts.Mode, err = types.ParseOCRMode(s); err != nil {
			return err
		}
	}
	opts.DPI, _ = cmd.Flags().GetInt("dpi")
	opts.Force, _ = cmd.Flags().GetBool("force")
	noSeparators, _ := cmd.Flags().GetBool("no-separators")
	opts.Separators = !noSeparators

	return runOperation(cmd, types.OpOCR, args, func(ctx context.Context, p *pipeline.Pipeline) types.OperationResult {
		return p.OCRText(ctx, args[0], out, opts)
	})
}
