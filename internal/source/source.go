// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source turns validated input files into page sources. An image
// contributes exactly one page; a PDF contributes one page per document
// page. Opening reads headers only, never full page content. Implements:
// prd002-page-sources (R1-R3);
//
//	docs/ARCHITECTURE § Page Sources.
package source

import (
	"fmt"
	"image"
	"os"

	_ "image/jpeg"
	_ "image/png"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/pdiddy/document-engine/pkg/types"
)

// pageCount is swapped in tests that need page counts without real
// documents.
var pageCount = api.PageCountFile

// Source is one opened input with its page contribution. Width, Height and
// Format are set for images only.
type Source struct {
	File   types.SourceFile
	Pages  int
	Width  int
	Height int
	Format string
}

// Open reads just enough of file to know its page count and, for images,
// the pixel dimensions the layout engine needs (R1.1, R2.1).
func Open(file types.SourceFile) (Source, error) {
	switch file.Kind {
	case types.FileImage:
		return openImage(file)
	case types.FilePDF:
		return openPDF(file)
	}
	return Source{}, types.NewValidationError(file.Path, fmt.Sprintf("unsupported file kind %q", file.Kind))
}

// OpenAll opens every file in caller order and totals their pages. Order
// in the returned slice matches the input order exactly (R3.1).
func OpenAll(files []types.SourceFile) ([]Source, int, error) {
	sources := make([]Source, 0, len(files))
	total := 0
	for _, f := range files {
		s, err := Open(f)
		if err != nil {
			return nil, 0, err
		}
		sources = append(sources, s)
		total += s.Pages
	}
	return sources, total, nil
}

func openImage(file types.SourceFile) (Source, error) {
	f, err := os.Open(file.Path)
	if err != nil {
		return Source{}, types.NewIOError(file.Path, err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Source{}, types.NewDecodeError(file.Path, "cannot decode image", err)
	}
	return Source{
		File:   file,
		Pages:  1,
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: format,
	}, nil
}

func openPDF(file types.SourceFile) (Source, error) {
	n, err := pageCount(file.Path)
	if err != nil {
		return Source{}, types.NewDecodeError(file.Path, "cannot read page count", err)
	}
	if n < 1 {
		return Source{}, types.NewDecodeError(file.Path, "document has no pages", nil)
	}
	return Source{File: file, Pages: n}, nil
}
