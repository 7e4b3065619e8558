// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs document operations end to end: validate the
// inputs, process page by page, publish outputs atomically. Every
// operation reports progress through a tracker, honors cancellation
// between page units, and returns a terminal OperationResult instead of
// leaking errors mid-flight. Implements: prd007-operations (R1-R5);
//
//	docs/ARCHITECTURE § Operation Pipeline.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pdiddy/document-engine/internal/assemble"
	"github.com/pdiddy/document-engine/internal/progress"
	"github.com/pdiddy/document-engine/internal/split"
	"github.com/pdiddy/document-engine/internal/validate"
	"github.com/pdiddy/document-engine/internal/writer"
	"github.com/pdiddy/document-engine/pkg/types"
)

// State is the pipeline's position in its lifecycle. Transitions only move
// forward; Done is terminal regardless of outcome (R1.1).
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateProcessing State = "processing"
	StateWriting    State = "writing"
	StateDone       State = "done"
)

// Swap points for fault injection in tests.
var (
	assembleDoc = assemble.Assemble
	writePage   = split.WritePage
)

// Pipeline executes exactly one document operation. Instances are
// one-shot: a second call on the same instance is refused so no state from
// a finished run can bleed into the next (R1.3). Construct with New.
type Pipeline struct {
	cfg  types.Config
	sink progress.Sink
	out  io.Writer

	mu    sync.Mutex
	state State
	used  bool
}

// Option adjusts a Pipeline at construction time.
type Option func(*Pipeline)

// WithProgress attaches a sink that receives progress events while the
// operation runs.
func WithProgress(sink progress.Sink) Option {
	return func(p *Pipeline) { p.sink = sink }
}

// WithStatus directs per-item status lines to w. Without it the pipeline
// stays silent.
func WithStatus(w io.Writer) Option {
	return func(p *Pipeline) { p.out = w }
}

// New builds a Pipeline carrying the resolved configuration.
func New(cfg types.Config, opts ...Option) *Pipeline {
	p := &Pipeline{cfg: cfg, out: io.Discard, state: StateIdle}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State reports where the pipeline currently is in its lifecycle.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Pipeline) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// begin claims the instance for a single operation.
func (p *Pipeline) begin() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.used {
		return types.NewValidationError("", "pipeline already ran an operation; create a new one")
	}
	p.used = true
	p.state = StateValidating
	return nil
}

// run owns the lifecycle shared by every operation: validation, the
// progress tracker, destination claims, and the mapping of any error onto
// a terminal result. op returns the published paths; errors never escape
// past this boundary (R4.1).
func (p *Pipeline) run(ctx context.Context, kind types.OperationKind, files []types.SourceFile, op func(r *runner) ([]string, error)) types.OperationResult {
	if err := p.begin(); err != nil {
		return types.Failure(err)
	}
	defer p.setState(StateDone)

	if err := validate.Check(files, kind); err != nil {
		return types.Failure(err)
	}
	if err := ctx.Err(); err != nil {
		return types.Failure(err)
	}
	p.setState(StateProcessing)

	r := &runner{ctx: ctx, p: p, tracker: progress.NewTracker(p.sink)}
	defer r.release()
	defer r.tracker.Close()

	outputs, err := op(r)
	if err != nil {
		return types.Failure(err)
	}
	return types.Success(outputs...)
}

// runner carries the per-operation machinery the operations share.
type runner struct {
	ctx     context.Context
	p       *Pipeline
	tracker *progress.Tracker
	done    int
	total   int
	claimed []string
}

// claim reserves dest against concurrent operations for the remainder of
// the run (R5.1).
func (r *runner) claim(dest string) error {
	if err := writer.Claim(dest); err != nil {
		return err
	}
	r.claimed = append(r.claimed, dest)
	return nil
}

func (r *runner) release() {
	for _, dest := range r.claimed {
		writer.Release(dest)
	}
	r.claimed = nil
}

// preflight claims dest and proves its directory is writable before any
// page work is spent (R1.2).
func (r *runner) preflight(dest string) error {
	if err := r.claim(dest); err != nil {
		return err
	}
	return writer.CheckWritable(filepath.Dir(dest))
}

// setTotal fixes the operation's progress denominator.
func (r *runner) setTotal(n int) {
	r.total = n
	r.tracker.Publish(progress.Event{Done: 0, Total: n})
}

// advance reports units more page or file units completed.
func (r *runner) advance(units int, label string) {
	r.done += units
	r.tracker.Publish(progress.Event{Done: r.done, Total: r.total, Label: label})
}

// publish writes one output through the atomic writer, holding the Writing
// state for the duration. A cancelled context stops the operation here,
// between page units, before the next write begins (R2.2, R3.1).
func (r *runner) publish(dest string, write func(tmpPath string) error) error {
	if err := r.ctx.Err(); err != nil {
		return err
	}
	r.p.setState(StateWriting)
	defer r.p.setState(StateProcessing)
	return writer.Publish(dest, write)
}

// statusf prints one status line to the pipeline's status writer.
func (r *runner) statusf(format string, args ...any) {
	fmt.Fprintf(r.p.out, format, args...)
}

// sortedUnique returns pages ascending with duplicates removed.
func sortedUnique(pages []int) []int {
	seen := make(map[int]struct{}, len(pages))
	out := make([]int, 0, len(pages))
	for _, p := range pages {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}
