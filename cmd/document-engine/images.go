package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/document-engine/internal/pipeline"
	"github.com/pdiddy/document-engine/pkg/types"
)

var imagesCmd = &cobra.Command{
	Use:   "images [document]",
	Short: "Render PDF pages to image files",
	Long: `Images rasterizes every page of the document to PNG or JPEG files
under --out-dir, named page_001.png, page_002.png, and so on. With --zip
the images go into a single archive instead of loose files.`,
	RunE: runImages,
}

func init() {
	imagesCmd.Flags().StringP("out-dir", "d", "", "destination directory for page images")
	imagesCmd.Flags().String("format", "", "image format: png or jpeg")
	imagesCmd.Flags().Int("dpi", 0, "render resolution in DPI (default from config, 150)")
	imagesCmd.Flags().Int("quality", 0, "JPEG encoder quality, 1-100 (default from config, 95)")
	imagesCmd.Flags().String("zip", "", "pack page images into an archive at this path instead")

	rootCmd.AddCommand(imagesCmd)
}

func runImages(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one PDF document")
	}

	outDir, _ := cmd.Flags().GetString("out-dir")
	zipPath, _ := cmd.Flags().GetString("zip")
	if outDir == "" && zipPath == "" {
		return fmt.Errorf("choose a destination: --out-dir for loose files, or --zip for an archive")
	}
	if outDir != "" && zipPath != "" {
		return fmt.Errorf("--out-dir and --zip are mutually exclusive")
	}

	opts := pipeline.ImagesOptions{ZipPath: zipPath}
	if s, _ := cmd.Flags().GetString("format"); s != "" {
		var err error
		if opts.Format, err = types.ParseImageFormat(s); err != nil {
			return err
		}
	}
	opts.DPI, _ = cmd.Flags().GetInt("dpi")
	opts.JPEGQuality, _ = cmd.Flags().GetInt("quality")

	return runOperation(cmd, types.OpToImages, args, func(ctx context.Context, p *pipeline.Pipeline) types.OperationResult {
		return p.ToImages(ctx, args[0], outDir, opts)
	})
}
