// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"

	"github.com/pdiddy/document-engine/internal/history"
	"github.com/pdiddy/document-engine/internal/pipeline"
	"github.com/pdiddy/document-engine/internal/progress"
	"github.com/pdiddy/document-engine/pkg/types"
)

// barTemplate renders page-unit progress with a time estimate.
const barTemplate = `{{ bar . " " "━" "━" " " " "}} {{percent .}} {{rtime .}}`

// progressBar adapts pipeline progress events onto a terminal bar. The bar
// is created on the first event, so operations that fail validation never
// draw one.
type progressBar struct {
	out io.Writer

	mu  sync.Mutex
	bar *pb.ProgressBar
}

// sink is a progress.Sink. It runs on the tracker's delivery goroutine.
func (b *progressBar) sink(ev progress.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bar == nil {
		b.bar = pb.New(ev.Total).
			SetTemplateString(barTemplate).
			SetWriter(b.out).
			Start()
	}
	b.bar.SetTotal(int64(ev.Total))
	b.bar.SetCurrent(int64(ev.Done))
}

// finish stops the bar if one was drawn. Safe to call whether or not any
// event arrived.
func (b *progressBar) finish() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bar != nil {
		b.bar.Finish()
	}
}

// runOperation is the shared harness behind every document operation
// command. It resolves configuration, wires Ctrl-C to context cancellation,
// runs op on a fresh pipeline, journals the terminal result, and converts
// a failed or cancelled outcome into the command error.
func runOperation(cmd *cobra.Command, kind types.OperationKind, inputs []string, op func(ctx context.Context, p *pipeline.Pipeline) types.OperationResult) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := []pipeline.Option{pipeline.WithStatus(cmd.OutOrStdout())}
	bar := &progressBar{out: cmd.ErrOrStderr()}
	if quiet, _ := rootCmd.PersistentFlags().GetBool("quiet"); !quiet {
		opts = append(opts, pipeline.WithProgress(bar.sink))
	}

	startedAt := time.Now()
	res := op(ctx, pipeline.New(cfg, opts...))
	bar.finish()

	journal(cfg, types.OperationRecord{
		StartedAt: startedAt,
		Operation: kind,
		Inputs:    inputs,
		Outputs:   res.OutputPaths,
		Outcome:   res.Outcome,
		ErrorKind: res.ErrorKind,
		Message:   res.Message,
		Duration:  time.Since(startedAt),
	})

	if res.Outcome == types.OutcomeSuccess {
		return nil
	}
	return fmt.Errorf("%s", res.Message)
}

// journal appends rec to the history store. Journaling is best-effort: any
// failure here is a warning on stderr, never a failed operation.
func journal(cfg types.Config, rec types.OperationRecord) {
	if cfg.History.Disabled {
		return
	}
	path := cfg.History.Path
	if path == "" {
		var err error
		if path, err = history.DefaultPath(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: history not recorded: %v\n", err)
			return
		}
	}
	store, err := history.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: history not recorded: %v\n", err)
		return
	}
	defer store.Close()
	if err := store.Append(context.Background(), rec); err != nil {
		fmt.Fprintf(os.Stderr, "warning: history not recorded: %v\n", err)
	}
}

// openHistory resolves the journal location and opens it for the history
// subcommands.
func openHistory() (*history.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	path := cfg.History.Path
	if path == "" {
		if path, err = history.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return history.Open(path)
}
