// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render rasterizes PDF pages into images and reads embedded page
// text. Page numbers are 1-based at this boundary; the underlying renderer
// counts from zero. Implements: prd008-auxiliary (R1, R4);
//
//	docs/ARCHITECTURE § Auxiliary Operations.
package render

import (
	"archive/zip"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"strconv"

	fitz "github.com/gen2brain/go-fitz"

	"github.com/pdiddy/document-engine/pkg/types"
)

// Document is the renderer subset page export needs.
type Document interface {
	NumPage() int
	ImageDPI(page int, dpi float64) (image.Image, error)
	Text(page int) (string, error)
	Close() error
}

// fitzDocument adapts the concrete renderer to Document.
type fitzDocument struct {
	*fitz.Document
}

func (d fitzDocument) ImageDPI(page int, dpi float64) (image.Image, error) {
	return d.Document.ImageDPI(page, dpi)
}

// openDocument is swapped in tests to run against fake documents.
var openDocument = func(path string) (Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return fitzDocument{doc}, nil
}

// Open opens a PDF for rendering. The caller owns the returned document and
// must Close it.
func Open(path string) (Document, error) {
	doc, err := openDocument(path)
	if err != nil {
		return nil, types.NewDecodeError(path, "cannot open document for rendering", err)
	}
	if doc.NumPage() == 0 {
		doc.Close()
		return nil, types.NewDecodeError(path, "document has no pages", nil)
	}
	return doc, nil
}

// PageImageName names one rendered page image. Padding matches the
// per-page PDF naming: at least three digits, growing with the page count.
func PageImageName(page, total int, format types.ImageFormat) string {
	width := len(strconv.Itoa(total))
	if width < 3 {
		width = 3
	}
	return fmt.Sprintf("page_%0*d.%s", width, page, format.Ext())
}

// WritePageImage renders one page at dpi and encodes it to outPath (R1.1).
// Decode failures carry srcPath; write failures carry outPath.
func WritePageImage(doc Document, srcPath string, page, dpi int, outPath string, format types.ImageFormat, jpegQuality int) error {
	img, err := doc.ImageDPI(page-1, float64(dpi))
	if err != nil {
		return types.NewDecodeError(srcPath, fmt.Sprintf("cannot render page %d", page), err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return types.NewIOError(outPath, err)
	}
	if err := encodeImage(f, img, format, jpegQuality); err != nil {
		f.Close()
		os.Remove(outPath)
		return types.NewIOError(outPath, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(outPath)
		return types.NewIOError(outPath, err)
	}
	return nil
}

// WriteArchive renders every page of doc into a zip archive at outPath, one
// image entry per page in page order. Cancellation is honored between
// pages; a failed or cancelled archive is removed.
func WriteArchive(ctx context.Context, doc Document, srcPath, outPath string, format types.ImageFormat, dpi, jpegQuality int, advance func(pages int, label string)) error {
	if advance == nil {
		advance = func(int, string) {}
	}
	f, err := os.Create(outPath)
	if err != nil {
		return types.NewIOError(outPath, err)
	}
	zw := zip.NewWriter(f)

	if err := archivePages(ctx, zw, doc, srcPath, format, dpi, jpegQuality, advance); err != nil {
		zw.Close()
		f.Close()
		os.Remove(outPath)
		return err
	}
	if err := zw.Close(); err != nil {
		f.Close()
		os.Remove(outPath)
		return types.NewIOError(outPath, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(outPath)
		return types.NewIOError(outPath, err)
	}
	return nil
}

func archivePages(ctx context.Context, zw *zip.Writer, doc Document, srcPath string, format types.ImageFormat, dpi, jpegQuality int, advance func(int, string)) error {
	total := doc.NumPage()
	for page := 1; page <= total; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		img, err := doc.ImageDPI(page-1, float64(dpi))
		if err != nil {
			return types.NewDecodeError(srcPath, fmt.Sprintf("cannot render page %d", page), err)
		}
		name := PageImageName(page, total, format)
		entry, err := zw.Create(name)
		if err != nil {
			return types.NewIOError(name, err)
		}
		if err := encodeImage(entry, img, format, jpegQuality); err != nil {
			return types.NewIOError(name, err)
		}
		advance(1, name)
	}
	return nil
}

func encodeImage(w io.Writer, img image.Image, format types.ImageFormat, jpegQuality int) error {
	if format == types.FormatJPEG {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	}
	return png.Encode(w, img)
}
