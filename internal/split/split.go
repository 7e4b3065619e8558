// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package split computes page sets and copies them out of a document. Page
// numbers are 1-based and ranges are inclusive on both ends. Implements:
// prd004-splitting (R1-R4);
//
//	docs/ARCHITECTURE § Splitting.
package split

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/pdiddy/document-engine/pkg/types"
)

// CheckRange validates a 1-based inclusive range against a page count.
// Descending, zero, negative, and out-of-bounds ranges all fail before any
// output is produced (R1.2).
func CheckRange(from, to, total int) error {
	switch {
	case from < 1 || to < 1:
		return types.NewInvalidRangeError(fmt.Sprintf("page numbers start at 1, got %d-%d", from, to))
	case from > to:
		return types.NewInvalidRangeError(fmt.Sprintf("range %d-%d is descending", from, to))
	case to > total:
		return types.NewInvalidRangeError(fmt.Sprintf("range %d-%d exceeds the document's %d pages", from, to, total))
	}
	return nil
}

// PageName names one per-page output file. Padding is at least three
// digits and grows with the page count so names sort lexically (R3.1).
func PageName(page, total int) string {
	width := len(strconv.Itoa(total))
	if width < 3 {
		width = 3
	}
	return fmt.Sprintf("page_%0*d.pdf", width, page)
}

// ParseSelection parses a selection like "1,3-5,9". Duplicate pages are
// kept and order is the caller's. Only the form is checked here; pages are
// validated against a document where its page count is known.
func ParseSelection(sel string) ([]int, error) {
	var pages []int
	for _, token := range strings.Split(sel, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			return nil, types.NewInvalidRangeError("empty page selection")
		}
		if from, to, ok := strings.Cut(token, "-"); ok {
			lo, err := parsePage(from)
			if err != nil {
				return nil, err
			}
			hi, err := parsePage(to)
			if err != nil {
				return nil, err
			}
			if lo < 1 || hi < 1 {
				return nil, types.NewInvalidRangeError(fmt.Sprintf("page numbers start at 1, got %d-%d", lo, hi))
			}
			if lo > hi {
				return nil, types.NewInvalidRangeError(fmt.Sprintf("range %d-%d is descending", lo, hi))
			}
			for p := lo; p <= hi; p++ {
				pages = append(pages, p)
			}
			continue
		}
		p, err := parsePage(token)
		if err != nil {
			return nil, err
		}
		if p < 1 {
			return nil, types.NewInvalidRangeError(fmt.Sprintf("page numbers start at 1, got %d", p))
		}
		pages = append(pages, p)
	}
	return pages, nil
}

func parsePage(s string) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, types.NewInvalidRangeError(fmt.Sprintf("invalid page number %q", s))
	}
	return p, nil
}

// WriteRange copies pages from-to of inPath into a new document (R1.1).
func WriteRange(inPath, outPath string, from, to, total int) error {
	if err := CheckRange(from, to, total); err != nil {
		return err
	}
	sel := fmt.Sprintf("%d-%d", from, to)
	if err := api.TrimFile(inPath, outPath, []string{sel}, nil); err != nil {
		return types.NewIOError(outPath, fmt.Errorf("extracting pages %s: %w", sel, err))
	}
	return nil
}

// WritePage copies a single page into a new document (R2.1).
func WritePage(inPath, outPath string, page, total int) error {
	return WriteRange(inPath, outPath, page, page, total)
}

// WritePages copies an explicit page set into a new document, preserving
// the requested order even when it differs from document order.
func WritePages(inPath, outPath string, pages []int, total int) error {
	if len(pages) == 0 {
		return types.NewInvalidRangeError("no pages selected")
	}
	sel := make([]string, len(pages))
	for i, p := range pages {
		if err := CheckRange(p, p, total); err != nil {
			return err
		}
		sel[i] = strconv.Itoa(p)
	}
	if err := api.CollectFile(inPath, outPath, sel, nil); err != nil {
		return types.NewIOError(outPath, fmt.Errorf("collecting %d pages: %w", len(pages), err))
	}
	return nil
}

// RemovePages writes a copy of inPath without the given pages. Removing
// every page is refused; a document cannot be emptied (R4.2).
func RemovePages(inPath, outPath string, pages []int, total int) error {
	if len(pages) == 0 {
		return types.NewInvalidRangeError("no pages selected")
	}
	unique := make(map[int]struct{}, len(pages))
	sel := make([]string, 0, len(pages))
	for _, p := range pages {
		if err := CheckRange(p, p, total); err != nil {
			return err
		}
		if _, seen := unique[p]; seen {
			continue
		}
		unique[p] = struct{}{}
		sel = append(sel, strconv.Itoa(p))
	}
	if len(unique) >= total {
		return types.NewInvalidRangeError("cannot delete every page of the document")
	}
	if err := api.RemovePagesFile(inPath, outPath, sel, nil); err != nil {
		return types.NewIOError(outPath, fmt.Errorf("removing %d pages: %w", len(sel), err))
	}
	return nil
}
