// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gen2brain/go-fitz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/document-engine/pkg/types"
)

// pageWidths renders each page at 72dpi and returns its width in points.
func pageWidths(t *testing.T, path string) []int {
	t.Helper()
	doc, err := fitz.New(path)
	require.NoError(t, err, "opening %s", path)
	defer doc.Close()

	widths := make([]int, doc.NumPage())
	for i := range widths {
		img, err := doc.ImageDPI(i, 72)
		require.NoError(t, err, "rendering page %d", i+1)
		widths[i] = img.Bounds().Dx()
	}
	return widths
}

func assertWidths(t *testing.T, got, want []int) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1, "page %d width", i+1)
	}
}

func TestSplitRange(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pdf")
	writeSizedPDF(t, in, [][2]float64{{500, 500}, {510, 510}, {520, 520}, {530, 530}, {540, 540}})
	out := filepath.Join(dir, "range.pdf")

	status := &bytes.Buffer{}
	res := New(types.DefaultConfig(), WithStatus(status)).SplitRange(context.Background(), in, 2, 4, out)

	require.True(t, res.Ok(), res.Message)
	assert.Equal(t, []string{out}, res.OutputPaths)
	assertWidths(t, pageWidths(t, out), []int{510, 520, 530})
	assert.Contains(t, status.String(), "pages 2-4 of 5")
}

func TestSplitRangeInvalidWritesNothing(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pdf")
	writePDF(t, in, 10)

	cases := []struct {
		name     string
		from, to int
	}{
		{"inverted", 6, 3},
		{"zero start", 0, 3},
		{"past end", 8, 12},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := filepath.Join(dir, tc.name+".pdf")
			res := New(types.DefaultConfig()).SplitRange(context.Background(), in, tc.from, tc.to, out)

			assert.Equal(t, types.OutcomeFailed, res.Outcome)
			assert.Equal(t, types.KindInvalidRange, res.ErrorKind)
			_, err := os.Stat(out)
			assert.True(t, os.IsNotExist(err), "output exists after invalid range")
			assert.Empty(t, tmpLeftovers(t, dir))
		})
	}
}

func TestSplitIndividual(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pdf")
	writePDF(t, in, 11)
	outDir := filepath.Join(dir, "pages")

	log := &eventLog{}
	res := New(types.DefaultConfig(), WithProgress(log.sink)).SplitIndividual(context.Background(), in, outDir)

	require.True(t, res.Ok(), res.Message)
	require.Len(t, res.OutputPaths, 11)
	assert.Equal(t, filepath.Join(outDir, "page_001.pdf"), res.OutputPaths[0])
	assert.Equal(t, filepath.Join(outDir, "page_011.pdf"), res.OutputPaths[10])
	for _, p := range res.OutputPaths {
		assert.Equal(t, 1, pageCount(t, p))
	}
	assert.Equal(t, 11, log.last().Done)
	assert.Equal(t, 11, log.last().Total)
	assert.Empty(t, tmpLeftovers(t, outDir))
}

func TestSplitIndividualKeepsEarlierPagesOnFailure(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pdf")
	writePDF(t, in, 5)
	outDir := filepath.Join(dir, "pages")

	orig := writePage
	writePage = func(inPath, outPath string, page, total int) error {
		if page == 3 {
			return errors.New("page 3 write failed")
		}
		return orig(inPath, outPath, page, total)
	}
	t.Cleanup(func() { writePage = orig })

	res := New(types.DefaultConfig()).SplitIndividual(context.Background(), in, outDir)

	assert.Equal(t, types.OutcomeFailed, res.Outcome)
	for _, name := range []string{"page_001.pdf", "page_002.pdf"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, "%s should survive a later failure", name)
	}
	for _, name := range []string{"page_003.pdf", "page_004.pdf", "page_005.pdf"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.True(t, os.IsNotExist(err), "%s written despite failure", name)
	}
	assert.Empty(t, tmpLeftovers(t, outDir))
}

func TestExtractPagesDocumentOrder(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pdf")
	writeSizedPDF(t, in, [][2]float64{{500, 500}, {510, 510}, {520, 520}, {530, 530}, {540, 540}})
	out := filepath.Join(dir, "picked.pdf")

	res := New(types.DefaultConfig()).ExtractPages(context.Background(), in, []int{3, 1, 3}, out, false)

	require.True(t, res.Ok(), res.Message)
	assertWidths(t, pageWidths(t, out), []int{500, 520})
}

func TestExtractPagesKeepOrder(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pdf")
	writeSizedPDF(t, in, [][2]float64{{500, 500}, {510, 510}, {520, 520}})
	out := filepath.Join(dir, "picked.pdf")

	res := New(types.DefaultConfig()).ExtractPages(context.Background(), in, []int{3, 1, 3}, out, true)

	require.True(t, res.Ok(), res.Message)
	assertWidths(t, pageWidths(t, out), []int{520, 500, 520})
}

func TestExtractPagesOutOfRange(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pdf")
	writePDF(t, in, 3)
	out := filepath.Join(dir, "picked.pdf")

	res := New(types.DefaultConfig()).ExtractPages(context.Background(), in, []int{1, 7}, out, false)

	assert.Equal(t, types.OutcomeFailed, res.Outcome)
	assert.Equal(t, types.KindInvalidRange, res.ErrorKind)
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
	assert.Empty(t, tmpLeftovers(t, dir))
}

func TestDeletePages(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pdf")
	writeSizedPDF(t, in, [][2]float64{{500, 500}, {510, 510}, {520, 520}, {530, 530}, {540, 540}})
	out := filepath.Join(dir, "kept.pdf")

	status := &bytes.Buffer{}
	res := New(types.DefaultConfig(), WithStatus(status)).DeletePages(context.Background(), in, []int{4, 2, 4}, out)

	require.True(t, res.Ok(), res.Message)
	assertWidths(t, pageWidths(t, out), []int{500, 520, 540})
	assert.Contains(t, status.String(), "deleted: 2 pages, kept 3")
}

func TestDeletePagesRefusesEmptyResult(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pdf")
	writePDF(t, in, 2)
	out := filepath.Join(dir, "kept.pdf")

	res := New(types.DefaultConfig()).DeletePages(context.Background(), in, []int{1, 2}, out)

	assert.Equal(t, types.OutcomeFailed, res.Outcome)
	assert.Equal(t, types.KindInvalidRange, res.ErrorKind)
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestCompress(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pdf")
	writePDF(t, in, 4)
	out := filepath.Join(dir, "small.pdf")

	status := &bytes.Buffer{}
	res := New(types.DefaultConfig(), WithStatus(status)).Compress(context.Background(), in, out, types.CompressMedium)

	require.True(t, res.Ok(), res.Message)
	assert.Equal(t, 4, pageCount(t, out))
	line := status.String()
	assert.True(t, strings.Contains(line, "compressed:") || strings.Contains(line, "already optimized:"),
		"unexpected status %q", line)
	assert.Empty(t, tmpLeftovers(t, dir))
}
