// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate checks source files before any page work begins. Checks
// are read-only and repeatable: validating the same inputs twice yields the
// same outcome and never mutates any file. Implements: prd001-validation
// (R1-R4);
//
//	docs/ARCHITECTURE § Validation.
package validate

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"

	_ "image/jpeg"
	_ "image/png"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/pdiddy/document-engine/pkg/types"
)

// validatePDF and pageCount are swapped in tests to exercise password,
// corruption, and empty-document mapping without exotic fixtures.
var (
	validatePDF = func(path string) error {
		return api.ValidateFile(path, model.NewDefaultConfiguration())
	}
	pageCount = api.PageCountFile
)

// Check validates every file in order and stops at the first failure.
// Image files must decode to a supported color mode; PDF files must pass a
// structural check. The operation kind drives the cross-file cardinality
// rules (R1.1-R3.2).
func Check(files []types.SourceFile, kind types.OperationKind) error {
	if err := checkCount(files, kind); err != nil {
		return err
	}
	for _, f := range files {
		if err := checkFile(f); err != nil {
			return err
		}
	}
	return nil
}

// checkCount enforces per-operation input cardinality (R3.1, R3.2).
func checkCount(files []types.SourceFile, kind types.OperationKind) error {
	switch kind {
	case types.OpConvert:
		if len(files) == 0 {
			return types.NewValidationError("", "convert requires at least one input file")
		}
	case types.OpMerge:
		if len(files) < 2 {
			return types.NewValidationError("", "merge requires at least two documents")
		}
	default:
		if len(files) != 1 {
			return types.NewValidationError("", fmt.Sprintf("%s operates on exactly one document, got %d", kind, len(files)))
		}
	}
	return nil
}

func checkFile(f types.SourceFile) error {
	if err := checkStat(f.Path); err != nil {
		return err
	}
	switch f.Kind {
	case types.FileImage:
		return checkImage(f.Path)
	case types.FilePDF:
		return checkPDF(f.Path)
	}
	return types.NewValidationError(f.Path, fmt.Sprintf("unsupported file kind %q", f.Kind))
}

// checkStat rejects missing, empty, and directory paths before any decoder
// touches them (R1.2).
func checkStat(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return types.NewValidationError(path, "file not found")
	}
	if err != nil {
		return types.NewIOError(path, err)
	}
	if info.IsDir() {
		return types.NewValidationError(path, "is a directory")
	}
	if info.Size() == 0 {
		return types.NewValidationError(path, "file is empty")
	}
	return nil
}

// checkImage decodes only the image header. Unsupported color modes are
// rejected here rather than converted (R2.3).
func checkImage(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return types.NewIOError(path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if errors.Is(err, image.ErrFormat) {
		return types.NewValidationError(path, "not a supported image format")
	}
	if err != nil {
		return types.NewDecodeError(path, "cannot decode image", err)
	}
	return rejectColorMode(path, cfg.ColorModel)
}

// rejectColorMode fails images whose color mode the PDF layout engine
// cannot embed. Rejected modes are never converted (R2.3).
func rejectColorMode(path string, m color.Model) error {
	if name := colorModeName(m); name != "" {
		return types.NewValidationError(path, fmt.Sprintf("unsupported color mode %s", name))
	}
	return nil
}

// colorModeName returns a human-readable name for color modes the PDF
// layout engine cannot embed, and "" for everything it can.
func colorModeName(m color.Model) string {
	switch m {
	case color.CMYKModel:
		return "CMYK"
	}
	return ""
}

// checkPDF runs a structural validation pass over the document and rejects
// documents without a single page (R2.4, R2.5).
func checkPDF(path string) error {
	if err := validatePDF(path); err != nil {
		if errors.Is(err, pdfcpu.ErrWrongPassword) {
			return types.NewValidationError(path, "password protected")
		}
		return types.NewDecodeError(path, "corrupt or unreadable document", err)
	}
	n, err := pageCount(path)
	if err != nil {
		return types.NewDecodeError(path, "cannot determine page count", err)
	}
	if n < 1 {
		return types.NewValidationError(path, "document has no pages")
	}
	return nil
}
