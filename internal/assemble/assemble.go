// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble materializes ordered page sources into a single PDF.
// Images are laid out onto fresh pages; PDFs are merged as-is with their
// internal page order intact. Input order is the page order of the output,
// with no reordering or deduplication. Implements: prd003-assembly (R1-R4);
//
//	docs/ARCHITECTURE § Assembly.
package assemble

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/pdiddy/document-engine/internal/source"
	"github.com/pdiddy/document-engine/pkg/types"
)

// Advance reports completed page units as assembly progresses. Merged
// documents complete as one batch, so a single call may cover many pages.
type Advance func(pages int, label string)

// Assemble writes the ordered sources into one PDF at outPath. Cancellation
// is honored between page units; a cancelled assembly leaves outPath
// unwritten (R1.2, R4.1).
func Assemble(ctx context.Context, sources []source.Source, spec types.OutputSpec, outPath string, advance Advance) error {
	if advance == nil {
		advance = func(int, string) {}
	}
	if len(sources) == 0 {
		return types.NewValidationError(outPath, "nothing to assemble")
	}

	images, pdfs := 0, 0
	for _, s := range sources {
		if s.File.Kind == types.FileImage {
			images++
		} else {
			pdfs++
		}
	}
	switch {
	case pdfs == 0:
		return imagesToPDF(ctx, sources, spec, outPath, advance)
	case images == 0:
		return mergePDFs(ctx, sources, outPath, advance)
	}
	return mixedToPDF(ctx, sources, spec, outPath, advance)
}

// mergePDFs concatenates whole documents in input order. The codec merges
// in one pass, so progress for all pages lands as one batch (R3.2).
func mergePDFs(ctx context.Context, sources []source.Source, outPath string, advance Advance) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	paths := make([]string, len(sources))
	total := 0
	for i, s := range sources {
		paths[i] = s.File.Path
		total += s.Pages
	}
	if err := api.MergeCreateFile(paths, outPath, false, model.NewDefaultConfiguration()); err != nil {
		return types.NewIOError(outPath, fmt.Errorf("merging %d documents: %w", len(paths), err))
	}
	advance(total, filepath.Base(paths[len(paths)-1]))
	return nil
}

// mixedToPDF handles interleaved image and PDF sources: each image becomes
// a staged single-page document, then everything merges in input order.
func mixedToPDF(ctx context.Context, sources []source.Source, spec types.OutputSpec, outPath string, advance Advance) error {
	stage, err := os.MkdirTemp("", "docengine-stage-*")
	if err != nil {
		return types.NewIOError(outPath, err)
	}
	defer os.RemoveAll(stage)

	paths := make([]string, 0, len(sources))
	merged := 0
	for i, s := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.File.Kind == types.FileImage {
			part := filepath.Join(stage, fmt.Sprintf("part_%03d.pdf", i))
			if err := imagesToPDF(ctx, []source.Source{s}, spec, part, advance); err != nil {
				return err
			}
			paths = append(paths, part)
			continue
		}
		paths = append(paths, s.File.Path)
		merged += s.Pages
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := api.MergeCreateFile(paths, outPath, false, model.NewDefaultConfiguration()); err != nil {
		return types.NewIOError(outPath, fmt.Errorf("merging %d documents: %w", len(paths), err))
	}
	if merged > 0 {
		advance(merged, filepath.Base(outPath))
	}
	return nil
}
