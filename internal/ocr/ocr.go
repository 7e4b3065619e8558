// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ocr extracts text from documents, recognizing rasterized pages
// with Tesseract when a page carries no embedded text. Requires the
// Tesseract engine at runtime. Implements: prd008-auxiliary (R2);
//
//	docs/ARCHITECTURE § Auxiliary Operations.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/pdiddy/document-engine/internal/render"
	"github.com/pdiddy/document-engine/pkg/types"
)

// Client is the recognizer subset text extraction needs.
type Client interface {
	SetImage(data []byte) error
	SetLanguage(langs ...string) error
	SetDPI(dpi int) error
	Recognize() (string, error)
	Close() error
}

type tesseractClient struct {
	c *gosseract.Client
}

func (t *tesseractClient) SetImage(data []byte) error { return t.c.SetImageFromBytes(data) }

func (t *tesseractClient) SetLanguage(langs ...string) error { return t.c.SetLanguage(langs...) }

func (t *tesseractClient) SetDPI(dpi int) error {
	return t.c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), strconv.Itoa(dpi))
}

func (t *tesseractClient) Recognize() (string, error) { return t.c.Text() }

func (t *tesseractClient) Close() error { return t.c.Close() }

// newClient is swapped in tests to run without a Tesseract install.
var newClient = func() Client {
	return &tesseractClient{c: gosseract.NewClient()}
}

// Result reports how each page's text was obtained.
type Result struct {
	Text       string
	Pages      int
	Recognized int
}

// ExtractText walks every page of doc in order. Pages with embedded text
// use it directly unless force is set; everything else is rasterized at the
// configured density and recognized (R2.1-R2.4). The engine starts lazily,
// so documents with a full text layer never need Tesseract installed.
// With separators set, each page is preceded by a "--- Page N ---" header.
func ExtractText(ctx context.Context, doc render.Document, srcPath string, cfg types.OCRConfig, force, separators bool, advance func(pages int, label string)) (Result, error) {
	if advance == nil {
		advance = func(int, string) {}
	}
	dpi := cfg.DPI
	if dpi <= 0 {
		dpi = cfg.Mode.DPI()
	}

	var client Client
	defer func() {
		if client != nil {
			client.Close()
		}
	}()

	var out strings.Builder
	res := Result{Pages: doc.NumPage()}
	for page := 1; page <= res.Pages; page++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		text, err := doc.Text(page - 1)
		if err != nil {
			return Result{}, types.NewDecodeError(srcPath, fmt.Sprintf("cannot read page %d text", page), err)
		}
		text = Normalize(text)

		if text == "" || force {
			if client == nil {
				client, err = startClient(srcPath, cfg.Language, dpi)
				if err != nil {
					return Result{}, err
				}
			}
			raw, err := recognizePage(client, doc, srcPath, page, dpi)
			if err != nil {
				return Result{}, err
			}
			text = Normalize(raw)
			res.Recognized++
		}

		if page > 1 {
			out.WriteString("\n\n")
		}
		if separators {
			fmt.Fprintf(&out, "--- Page %d ---\n", page)
		}
		out.WriteString(text)
		advance(1, fmt.Sprintf("page %d", page))
	}

	res.Text = out.String()
	return res, nil
}

// startClient configures one engine instance for the whole run. Language
// codes follow Tesseract conventions and may be joined with "+".
func startClient(srcPath, language string, dpi int) (Client, error) {
	client := newClient()
	if language != "" {
		if err := client.SetLanguage(strings.Split(language, "+")...); err != nil {
			client.Close()
			return nil, types.NewValidationError(srcPath, fmt.Sprintf("unusable OCR language %q: %v", language, err))
		}
	}
	if err := client.SetDPI(dpi); err != nil {
		client.Close()
		return nil, types.NewValidationError(srcPath, fmt.Sprintf("unusable OCR density %d: %v", dpi, err))
	}
	return client, nil
}

func recognizePage(client Client, doc render.Document, srcPath string, page, dpi int) (string, error) {
	img, err := doc.ImageDPI(page-1, float64(dpi))
	if err != nil {
		return "", types.NewDecodeError(srcPath, fmt.Sprintf("cannot render page %d", page), err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", types.NewDecodeError(srcPath, fmt.Sprintf("cannot encode page %d", page), err)
	}
	if err := client.SetImage(buf.Bytes()); err != nil {
		return "", types.NewDecodeError(srcPath, fmt.Sprintf("cannot load page %d into the recognizer", page), err)
	}
	text, err := client.Recognize()
	if err != nil {
		return "", types.NewDecodeError(srcPath, fmt.Sprintf("text recognition failed on page %d", page), err)
	}
	return strings.TrimSpace(text), nil
}
