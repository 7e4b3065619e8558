// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pdiddy/document-engine/internal/source"
	"github.com/pdiddy/document-engine/internal/split"
	"github.com/pdiddy/document-engine/internal/writer"
	"github.com/pdiddy/document-engine/pkg/types"
)

// outputDefaults fills unset layout fields from the pipeline configuration.
func (p *Pipeline) outputDefaults(spec types.OutputSpec) types.OutputSpec {
	if spec.PageSize == "" {
		spec.PageSize = p.cfg.PageSize
	}
	if spec.Orientation == "" {
		spec.Orientation = p.cfg.Orientation
	}
	if spec.Margin == "" {
		spec.Margin = p.cfg.Margin
	}
	return spec
}

// ConvertImagesToPDF lays the images out one per page, in argument order,
// into a single new PDF at spec.Path (R2.1).
func (p *Pipeline) ConvertImagesToPDF(ctx context.Context, images []string, spec types.OutputSpec) types.OperationResult {
	files := types.ImageSources(images)
	spec = p.outputDefaults(spec)
	return p.run(ctx, types.OpConvert, files, func(r *runner) ([]string, error) {
		if err := r.preflight(spec.Path); err != nil {
			return nil, err
		}
		sources, total, err := source.OpenAll(files)
		if err != nil {
			return nil, err
		}
		r.setTotal(total)
		err = r.publish(spec.Path, func(tmp string) error {
			return assembleDoc(r.ctx, sources, spec, tmp, r.advance)
		})
		if err != nil {
			return nil, err
		}
		r.statusf("converted: %s (%d images)\n", spec.Path, len(images))
		return []string{spec.Path}, nil
	})
}

// MergePDFs concatenates the documents in argument order into a single new
// PDF at outPath (R2.2).
func (p *Pipeline) MergePDFs(ctx context.Context, pdfs []string, outPath string) types.OperationResult {
	files := types.PDFSources(pdfs)
	return p.run(ctx, types.OpMerge, files, func(r *runner) ([]string, error) {
		if err := r.preflight(outPath); err != nil {
			return nil, err
		}
		sources, total, err := source.OpenAll(files)
		if err != nil {
			return nil, err
		}
		r.setTotal(total)
		err = r.publish(outPath, func(tmp string) error {
			return assembleDoc(r.ctx, sources, types.OutputSpec{Path: outPath}, tmp, r.advance)
		})
		if err != nil {
			return nil, err
		}
		r.statusf("merged: %s (%d pages from %d documents)\n", outPath, total, len(pdfs))
		return []string{outPath}, nil
	})
}

// SplitRange copies pages from through to into a single new PDF at
// outPath. The range is checked against the real page count before
// anything is written (R3.1).
func (p *Pipeline) SplitRange(ctx context.Context, pdf string, from, to int, outPath string) types.OperationResult {
	files := types.PDFSources([]string{pdf})
	return p.run(ctx, types.OpSplitRange, files, func(r *runner) ([]string, error) {
		if err := r.preflight(outPath); err != nil {
			return nil, err
		}
		src, err := source.Open(files[0])
		if err != nil {
			return nil, err
		}
		if err := split.CheckRange(from, to, src.Pages); err != nil {
			return nil, err
		}
		r.setTotal(1)
		err = r.publish(outPath, func(tmp string) error {
			return split.WriteRange(pdf, tmp, from, to, src.Pages)
		})
		if err != nil {
			return nil, err
		}
		r.advance(1, filepath.Base(outPath))
		r.statusf("extracted: %s (pages %d-%d of %d)\n", outPath, from, to, src.Pages)
		return []string{outPath}, nil
	})
}

// SplitIndividual writes every page of pdf as its own single-page document
// under outDir, named page_{NNN}.pdf. Pages already published stay on disk
// if a later page fails or the operation is cancelled; the page being
// written is cleaned up (R3.2, R3.4).
func (p *Pipeline) SplitIndividual(ctx context.Context, pdf string, outDir string) types.OperationResult {
	files := types.PDFSources([]string{pdf})
	return p.run(ctx, types.OpSplitEach, files, func(r *runner) ([]string, error) {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return nil, types.NewPermissionError(outDir, err)
		}
		if err := writer.CheckWritable(outDir); err != nil {
			return nil, err
		}
		src, err := source.Open(files[0])
		if err != nil {
			return nil, err
		}
		r.setTotal(src.Pages)

		// Claim every page destination before the first write so a
		// colliding operation is refused while the directory is still
		// untouched.
		dests := make([]string, src.Pages)
		for page := 1; page <= src.Pages; page++ {
			dests[page-1] = filepath.Join(outDir, split.PageName(page, src.Pages))
			if err := r.claim(dests[page-1]); err != nil {
				return nil, err
			}
		}

		outputs := make([]string, 0, src.Pages)
		for page := 1; page <= src.Pages; page++ {
			dest := dests[page-1]
			err := r.publish(dest, func(tmp string) error {
				return writePage(pdf, tmp, page, src.Pages)
			})
			if err != nil {
				return nil, err
			}
			outputs = append(outputs, dest)
			r.advance(1, filepath.Base(dest))
			r.statusf("wrote: %s\n", dest)
		}
		r.statusf("\nsplit: %d pages into %s\n", src.Pages, outDir)
		return outputs, nil
	})
}
