// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compress rewrites a document through the codec's optimization
// pass. Page content is never resampled; savings come from structural
// rewriting, so results vary with how wasteful the input was. Implements:
// prd008-auxiliary (R3);
//
//	docs/ARCHITECTURE § Auxiliary Operations.
package compress

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/pdiddy/document-engine/pkg/types"
)

// Result compares document sizes around one optimization pass.
type Result struct {
	Before int64
	After  int64
}

// Saved returns the byte reduction. Negative when the rewrite grew the
// file, which legitimately happens on already-optimized documents.
func (r Result) Saved() int64 { return r.Before - r.After }

// Percent returns the size reduction as a percentage of the input.
func (r Result) Percent() float64 {
	if r.Before == 0 {
		return 0
	}
	return float64(r.Saved()) / float64(r.Before) * 100
}

// configFor tunes the rewrite aggressiveness. Low keeps classic xref
// tables for maximum reader compatibility; high additionally folds
// duplicate content streams.
func configFor(level types.CompressionLevel) *model.Configuration {
	conf := model.NewDefaultConfiguration()
	switch level {
	case types.CompressLow:
		conf.WriteObjectStream = false
		conf.WriteXRefStream = false
	case types.CompressHigh:
		conf.WriteObjectStream = true
		conf.WriteXRefStream = true
		conf.OptimizeDuplicateContentStreams = true
	}
	return conf
}

// Optimize rewrites inPath into outPath at the given level.
func Optimize(inPath, outPath string, level types.CompressionLevel) error {
	if err := api.OptimizeFile(inPath, outPath, configFor(level)); err != nil {
		return types.NewIOError(outPath, fmt.Errorf("optimizing document: %w", err))
	}
	return nil
}

// Measure compares the sizes of the input and the finished output.
func Measure(inPath, outPath string) (Result, error) {
	in, err := os.Stat(inPath)
	if err != nil {
		return Result{}, types.NewIOError(inPath, err)
	}
	out, err := os.Stat(outPath)
	if err != nil {
		return Result{}, types.NewIOError(outPath, err)
	}
	return Result{Before: in.Size(), After: out.Size()}, nil
}

// FormatSize renders a byte count for status lines.
func FormatSize(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
