// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pdiddy/document-engine/internal/compress"
	"github.com/pdiddy/document-engine/internal/ocr"
	"github.com/pdiddy/document-engine/internal/render"
	"github.com/pdiddy/document-engine/internal/source"
	"github.com/pdiddy/document-engine/internal/split"
	"github.com/pdiddy/document-engine/internal/writer"
	"github.com/pdiddy/document-engine/pkg/types"
)

// ExtractPages copies the selected 1-based pages into a single new PDF.
// By default pages are taken in document order with duplicates dropped;
// keepOrder preserves the caller's order, duplicates included (R8.1).
func (p *Pipeline) ExtractPages(ctx context.Context, pdf string, pages []int, outPath string, keepOrder bool) types.OperationResult {
	files := types.PDFSources([]string{pdf})
	return p.run(ctx, types.OpExtract, files, func(r *runner) ([]string, error) {
		if err := r.preflight(outPath); err != nil {
			return nil, err
		}
		src, err := source.Open(files[0])
		if err != nil {
			return nil, err
		}
		selected := pages
		if !keepOrder {
			selected = sortedUnique(pages)
		}
		r.setTotal(1)
		err = r.publish(outPath, func(tmp string) error {
			return split.WritePages(pdf, tmp, selected, src.Pages)
		})
		if err != nil {
			return nil, err
		}
		r.advance(1, filepath.Base(outPath))
		r.statusf("extracted: %s (%d of %d pages)\n", outPath, len(selected), src.Pages)
		return []string{outPath}, nil
	})
}

// DeletePages copies pdf to outPath without the given 1-based pages. The
// surviving pages keep their original order (R8.2).
func (p *Pipeline) DeletePages(ctx context.Context, pdf string, pages []int, outPath string) types.OperationResult {
	files := types.PDFSources([]string{pdf})
	return p.run(ctx, types.OpDelete, files, func(r *runner) ([]string, error) {
		if err := r.preflight(outPath); err != nil {
			return nil, err
		}
		src, err := source.Open(files[0])
		if err != nil {
			return nil, err
		}
		removed := len(sortedUnique(pages))
		r.setTotal(1)
		err = r.publish(outPath, func(tmp string) error {
			return split.RemovePages(pdf, tmp, pages, src.Pages)
		})
		if err != nil {
			return nil, err
		}
		r.advance(1, filepath.Base(outPath))
		r.statusf("deleted: %d pages, kept %d (%s)\n", removed, src.Pages-removed, outPath)
		return []string{outPath}, nil
	})
}

// Compress writes an optimized copy of pdf to outPath and reports the size
// change. A document the codec cannot shrink is still a success; the
// status line says so (R8.3).
func (p *Pipeline) Compress(ctx context.Context, pdf, outPath string, level types.CompressionLevel) types.OperationResult {
	files := types.PDFSources([]string{pdf})
	return p.run(ctx, types.OpCompress, files, func(r *runner) ([]string, error) {
		if err := r.preflight(outPath); err != nil {
			return nil, err
		}
		var res compress.Result
		r.setTotal(1)
		err := r.publish(outPath, func(tmp string) error {
			if err := compress.Optimize(pdf, tmp, level); err != nil {
				return err
			}
			var merr error
			res, merr = compress.Measure(pdf, tmp)
			return merr
		})
		if err != nil {
			return nil, err
		}
		r.advance(1, filepath.Base(outPath))
		if res.Saved() > 0 {
			r.statusf("compressed: %s (%s -> %s, %.1f%% smaller)\n",
				outPath, compress.FormatSize(res.Before), compress.FormatSize(res.After), res.Percent())
		} else {
			r.statusf("already optimized: %s (%s -> %s)\n",
				outPath, compress.FormatSize(res.Before), compress.FormatSize(res.After))
		}
		return []string{outPath}, nil
	})
}

// ImagesOptions shape the ToImages operation. Zero values fall back to the
// pipeline configuration.
type ImagesOptions struct {
	Format      types.ImageFormat
	DPI         int
	JPEGQuality int

	// ZipPath, when set, packs every page image into a single archive at
	// that path instead of writing loose files under outDir.
	ZipPath string
}

func (p *Pipeline) imagesDefaults(opts ImagesOptions) ImagesOptions {
	if opts.Format == "" {
		opts.Format = p.cfg.ImageFormat
	}
	if opts.DPI <= 0 {
		opts.DPI = p.cfg.DPI
	}
	if opts.JPEGQuality <= 0 {
		opts.JPEGQuality = p.cfg.JPEGQuality
	}
	return opts
}

// ToImages renders every page of pdf to a raster image under outDir,
// named like split output with the format's extension (R8.4).
func (p *Pipeline) ToImages(ctx context.Context, pdf, outDir string, opts ImagesOptions) types.OperationResult {
	files := types.PDFSources([]string{pdf})
	opts = p.imagesDefaults(opts)
	return p.run(ctx, types.OpToImages, files, func(r *runner) ([]string, error) {
		doc, err := render.Open(pdf)
		if err != nil {
			return nil, err
		}
		defer doc.Close()
		total := doc.NumPage()

		if opts.ZipPath != "" {
			if err := r.preflight(opts.ZipPath); err != nil {
				return nil, err
			}
			r.setTotal(total)
			err := r.publish(opts.ZipPath, func(tmp string) error {
				return render.WriteArchive(r.ctx, doc, pdf, tmp, opts.Format, opts.DPI, opts.JPEGQuality, r.advance)
			})
			if err != nil {
				return nil, err
			}
			r.statusf("archived: %s (%d images)\n", opts.ZipPath, total)
			return []string{opts.ZipPath}, nil
		}

		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return nil, types.NewPermissionError(outDir, err)
		}
		if err := writer.CheckWritable(outDir); err != nil {
			return nil, err
		}
		r.setTotal(total)
		dests := make([]string, total)
		for page := 1; page <= total; page++ {
			dests[page-1] = filepath.Join(outDir, render.PageImageName(page, total, opts.Format))
			if err := r.claim(dests[page-1]); err != nil {
				return nil, err
			}
		}

		outputs := make([]string, 0, total)
		for page := 1; page <= total; page++ {
			dest := dests[page-1]
			err := r.publish(dest, func(tmp string) error {
				return render.WritePageImage(doc, pdf, page, opts.DPI, tmp, opts.Format, opts.JPEGQuality)
			})
			if err != nil {
				return nil, err
			}
			outputs = append(outputs, dest)
			r.advance(1, filepath.Base(dest))
			r.statusf("wrote: %s\n", dest)
		}
		r.statusf("\nrendered: %d pages into %s\n", total, outDir)
		return outputs, nil
	})
}

// OCROptions shape the OCRText operation. Zero values fall back to the
// pipeline's OCR configuration.
type OCROptions struct {
	Language string
	Mode     types.OCRMode

	// DPI overrides the mode's rasterization density when positive.
	DPI int

	// Force rasterizes and recognizes every page even when it carries an
	// embedded text layer.
	Force bool

	// Separators controls the "--- Page N ---" markers between pages.
	Separators bool
}

func (p *Pipeline) ocrDefaults(opts OCROptions) types.OCRConfig {
	cfg := p.cfg.OCR
	if opts.Language != "" {
		cfg.Language = opts.Language
	}
	if opts.Mode != "" {
		cfg.Mode = opts.Mode
	}
	if opts.DPI > 0 {
		cfg.DPI = opts.DPI
	}
	return cfg
}

// OCRText extracts the text of every page of pdf into one UTF-8 file at
// outPath. Pages with an embedded text layer are read directly; the rest
// are rasterized and recognized (R8.5).
func (p *Pipeline) OCRText(ctx context.Context, pdf, outPath string, opts OCROptions) types.OperationResult {
	files := types.PDFSources([]string{pdf})
	cfg := p.ocrDefaults(opts)
	return p.run(ctx, types.OpOCR, files, func(r *runner) ([]string, error) {
		if err := r.preflight(outPath); err != nil {
			return nil, err
		}
		doc, err := render.Open(pdf)
		if err != nil {
			return nil, err
		}
		defer doc.Close()
		r.setTotal(doc.NumPage())

		res, err := ocr.ExtractText(r.ctx, doc, pdf, cfg, opts.Force, opts.Separators, r.advance)
		if err != nil {
			return nil, err
		}
		err = r.publish(outPath, func(tmp string) error {
			if werr := os.WriteFile(tmp, []byte(res.Text), 0o644); werr != nil {
				return types.NewIOError(tmp, werr)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		r.statusf("recognized: %s (%d pages, %d via OCR)\n", outPath, res.Pages, res.Recognized)
		return []string{outPath}, nil
	})
}
