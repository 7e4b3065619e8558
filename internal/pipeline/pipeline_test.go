// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/document-engine/internal/assemble"
	"github.com/pdiddy/document-engine/internal/progress"
	"github.com/pdiddy/document-engine/internal/source"
	"github.com/pdiddy/document-engine/internal/writer"
	"github.com/pdiddy/document-engine/pkg/types"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err, "creating fixture")
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))), "encoding png fixture")
}

// writePDF emits n blank A4 pages.
func writePDF(t *testing.T, path string, n int) {
	t.Helper()
	doc := gofpdf.New("P", "pt", "A4", "")
	for i := 0; i < n; i++ {
		doc.AddPage()
	}
	require.NoError(t, doc.OutputFileAndClose(path), "writing pdf fixture")
}

// writeSizedPDF emits one blank page per entry, sized in points, so pages
// stay identifiable after reassembly.
func writeSizedPDF(t *testing.T, path string, sizes [][2]float64) {
	t.Helper()
	doc := gofpdf.New("P", "pt", "A4", "")
	for _, s := range sizes {
		doc.AddPageFormat("P", gofpdf.SizeType{Wd: s[0], Ht: s[1]})
	}
	require.NoError(t, doc.OutputFileAndClose(path), "writing pdf fixture")
}

func pageCount(t *testing.T, path string) int {
	t.Helper()
	n, err := api.PageCountFile(path)
	require.NoError(t, err, "counting pages of %s", path)
	return n
}

// eventLog records progress events delivered by the tracker goroutine.
type eventLog struct {
	mu     sync.Mutex
	events []progress.Event
}

func (l *eventLog) sink(ev progress.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) all() []progress.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]progress.Event(nil), l.events...)
}

func (l *eventLog) last() progress.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) == 0 {
		return progress.Event{}
	}
	return l.events[len(l.events)-1]
}

// tmpLeftovers reports in-flight temp files remaining under dir.
func tmpLeftovers(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	return matches
}

func setAssemble(t *testing.T, fn func(ctx context.Context, sources []source.Source, spec types.OutputSpec, outPath string, advance assemble.Advance) error) {
	t.Helper()
	orig := assembleDoc
	assembleDoc = fn
	t.Cleanup(func() { assembleDoc = orig })
}

func TestPipelineIsOneShot(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "a.png")
	writePNG(t, img, 100, 100)

	p := New(types.DefaultConfig())
	first := p.ConvertImagesToPDF(context.Background(), []string{img}, types.OutputSpec{Path: filepath.Join(dir, "one.pdf")})
	require.True(t, first.Ok(), "first run: %s", first.Message)

	second := p.ConvertImagesToPDF(context.Background(), []string{img}, types.OutputSpec{Path: filepath.Join(dir, "two.pdf")})
	assert.Equal(t, types.OutcomeFailed, second.Outcome)
	assert.Equal(t, types.KindValidation, second.ErrorKind)
	assert.Contains(t, second.Message, "already ran")
}

func TestPipelineStateLifecycle(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "a.png")
	writePNG(t, img, 100, 100)

	p := New(types.DefaultConfig())
	assert.Equal(t, StateIdle, p.State())

	res := p.ConvertImagesToPDF(context.Background(), []string{img}, types.OutputSpec{Path: filepath.Join(dir, "out.pdf")})
	require.True(t, res.Ok(), res.Message)
	assert.Equal(t, StateDone, p.State())

	// A failed run ends in the same terminal state.
	q := New(types.DefaultConfig())
	bad := q.MergePDFs(context.Background(), []string{filepath.Join(dir, "only.pdf")}, filepath.Join(dir, "m.pdf"))
	assert.Equal(t, types.OutcomeFailed, bad.Outcome)
	assert.Equal(t, StateDone, q.State())
}

func TestConvertImagesToPDF(t *testing.T) {
	dir := t.TempDir()
	paths := []string{filepath.Join(dir, "one.png"), filepath.Join(dir, "two.png")}
	writePNG(t, paths[0], 300, 200)
	writePNG(t, paths[1], 200, 300)
	out := filepath.Join(dir, "out.pdf")

	log := &eventLog{}
	status := &bytes.Buffer{}
	p := New(types.DefaultConfig(), WithProgress(log.sink), WithStatus(status))

	res := p.ConvertImagesToPDF(context.Background(), paths, types.OutputSpec{Path: out})
	require.True(t, res.Ok(), res.Message)
	assert.Equal(t, []string{out}, res.OutputPaths)
	assert.Equal(t, 2, pageCount(t, out))
	assert.Contains(t, status.String(), "converted: "+out)

	last := log.last()
	assert.Equal(t, 2, last.Done)
	assert.Equal(t, 2, last.Total)
	prev := 0
	for _, ev := range log.all() {
		assert.GreaterOrEqual(t, ev.Done, prev, "progress moved backward")
		prev = ev.Done
	}
	assert.Empty(t, tmpLeftovers(t, dir))
}

func TestConvertFailureLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "a.png")
	writePNG(t, img, 100, 100)
	out := filepath.Join(dir, "out.pdf")

	setAssemble(t, func(_ context.Context, _ []source.Source, _ types.OutputSpec, outPath string, advance assemble.Advance) error {
		advance(1, "a.png")
		// Leave partial bytes behind so the cleanup is observable.
		require.NoError(t, os.WriteFile(outPath, []byte("partial"), 0o644))
		return errors.New("codec exploded")
	})

	p := New(types.DefaultConfig())
	res := p.ConvertImagesToPDF(context.Background(), []string{img}, types.OutputSpec{Path: out})

	assert.Equal(t, types.OutcomeFailed, res.Outcome)
	assert.Equal(t, types.KindIO, res.ErrorKind)
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err), "destination exists after failed write")
	assert.Empty(t, tmpLeftovers(t, dir))
	assert.Equal(t, StateDone, p.State())
}

func TestConvertCancelledMidRun(t *testing.T) {
	dir := t.TempDir()
	paths := make([]string, 4)
	for i := range paths {
		paths[i] = filepath.Join(dir, string(rune('a'+i))+".png")
		writePNG(t, paths[i], 50, 50)
	}
	out := filepath.Join(dir, "out.pdf")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setAssemble(t, func(ctx context.Context, _ []source.Source, _ types.OutputSpec, _ string, advance assemble.Advance) error {
		advance(1, "a.png")
		advance(1, "b.png")
		cancel()
		return ctx.Err()
	})

	log := &eventLog{}
	p := New(types.DefaultConfig(), WithProgress(log.sink))
	res := p.ConvertImagesToPDF(ctx, paths, types.OutputSpec{Path: out})

	assert.Equal(t, types.OutcomeCancelled, res.Outcome)
	assert.Equal(t, types.KindCancelled, res.ErrorKind)
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err), "destination exists after cancelled run")
	assert.Empty(t, tmpLeftovers(t, dir))
	assert.Equal(t, 2, log.last().Done, "progress past the cancellation point")
}

func TestMergePDFs(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	b := filepath.Join(dir, "b.pdf")
	writePDF(t, a, 2)
	writePDF(t, b, 3)
	out := filepath.Join(dir, "merged.pdf")

	status := &bytes.Buffer{}
	p := New(types.DefaultConfig(), WithStatus(status))
	res := p.MergePDFs(context.Background(), []string{a, b}, out)

	require.True(t, res.Ok(), res.Message)
	assert.Equal(t, 5, pageCount(t, out))
	assert.Contains(t, status.String(), "merged: "+out)
	assert.Contains(t, status.String(), "5 pages from 2 documents")
}

func TestMergeRequiresTwoInputs(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	writePDF(t, a, 2)

	p := New(types.DefaultConfig())
	res := p.MergePDFs(context.Background(), []string{a}, filepath.Join(dir, "out.pdf"))

	assert.Equal(t, types.OutcomeFailed, res.Outcome)
	assert.Equal(t, types.KindValidation, res.ErrorKind)
}

func TestMergeClaimedDestinationFailsFast(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	b := filepath.Join(dir, "b.pdf")
	writePDF(t, a, 1)
	writePDF(t, b, 1)
	out := filepath.Join(dir, "out.pdf")

	require.NoError(t, writer.Claim(out))
	defer writer.Release(out)

	p := New(types.DefaultConfig())
	res := p.MergePDFs(context.Background(), []string{a, b}, out)

	assert.Equal(t, types.OutcomeFailed, res.Outcome)
	assert.Contains(t, res.Message, "another operation")
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestRunReleasesClaims(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	b := filepath.Join(dir, "b.pdf")
	writePDF(t, a, 1)
	writePDF(t, b, 1)
	out := filepath.Join(dir, "out.pdf")

	res := New(types.DefaultConfig()).MergePDFs(context.Background(), []string{a, b}, out)
	require.True(t, res.Ok(), res.Message)

	// The claim must be gone once the run ended.
	require.NoError(t, writer.Claim(out))
	writer.Release(out)
}

func TestCancelledBeforeProcessing(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "a.png")
	writePNG(t, img, 50, 50)
	out := filepath.Join(dir, "out.pdf")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := New(types.DefaultConfig()).ConvertImagesToPDF(ctx, []string{img}, types.OutputSpec{Path: out})
	assert.Equal(t, types.OutcomeCancelled, res.Outcome)
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestSortedUnique(t *testing.T) {
	assert.Equal(t, []int{1, 3, 5}, sortedUnique([]int{5, 3, 1, 3, 5}))
	assert.Equal(t, []int{2}, sortedUnique([]int{2, 2, 2}))
	assert.Empty(t, sortedUnique(nil))
}
