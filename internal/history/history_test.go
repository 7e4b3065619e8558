// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pdiddy/document-engine/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "journal", dbFile))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRecord(op types.OperationKind, startedAt time.Time) types.OperationRecord {
	return types.OperationRecord{
		StartedAt: startedAt,
		Operation: op,
		Inputs:    []string{"a.pdf", "b.pdf"},
		Outputs:   []string{"out.pdf"},
		Outcome:   types.OutcomeSuccess,
		Duration:  1200 * time.Millisecond,
	}
}

func TestAppendAndList(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	if err := store.Append(ctx, sampleRecord(types.OpMerge, base)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := store.Append(ctx, sampleRecord(types.OpSplitEach, base.Add(time.Minute))); err != nil {
		t.Fatalf("Append: %v", err)
	}

	records, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("List returned %d records, want 2", len(records))
	}
	if records[0].Operation != types.OpSplitEach {
		t.Errorf("newest record = %s, want %s", records[0].Operation, types.OpSplitEach)
	}
	if records[1].Operation != types.OpMerge {
		t.Errorf("oldest record = %s, want %s", records[1].Operation, types.OpMerge)
	}

	got := records[1]
	if len(got.Inputs) != 2 || got.Inputs[0] != "a.pdf" {
		t.Errorf("Inputs = %v, want [a.pdf b.pdf]", got.Inputs)
	}
	if len(got.Outputs) != 1 || got.Outputs[0] != "out.pdf" {
		t.Errorf("Outputs = %v, want [out.pdf]", got.Outputs)
	}
	if !got.StartedAt.Equal(base) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, base)
	}
	if got.Duration != 1200*time.Millisecond {
		t.Errorf("Duration = %v, want 1.2s", got.Duration)
	}
	if got.ID == "" {
		t.Error("record ID not assigned")
	}
}

func TestAppendIsIdempotentOnID(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	rec := sampleRecord(types.OpConvert, time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))

	if err := store.Append(ctx, rec); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := store.Append(ctx, rec); err != nil {
		t.Fatalf("re-Append: %v", err)
	}

	records, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("List returned %d records after duplicate append, want 1", len(records))
	}
}

func TestListLimit(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		if err := store.Append(ctx, sampleRecord(types.OpCompress, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	records, err := store.List(ctx, 3)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("List returned %d records, want 3", len(records))
	}
}

func TestListRecordsFailureDetails(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	rec := sampleRecord(types.OpSplitRange, time.Now())
	rec.Outcome = types.OutcomeFailed
	rec.ErrorKind = types.KindInvalidRange
	rec.Message = "range 6-3 is descending"
	rec.Outputs = nil
	if err := store.Append(ctx, rec); err != nil {
		t.Fatalf("Append: %v", err)
	}

	records, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	got := records[0]
	if got.Outcome != types.OutcomeFailed {
		t.Errorf("Outcome = %s, want %s", got.Outcome, types.OutcomeFailed)
	}
	if got.ErrorKind != types.KindInvalidRange {
		t.Errorf("ErrorKind = %s, want %s", got.ErrorKind, types.KindInvalidRange)
	}
	if got.Message != "range 6-3 is descending" {
		t.Errorf("Message = %q", got.Message)
	}
	if len(got.Outputs) != 0 {
		t.Errorf("Outputs = %v, want none", got.Outputs)
	}
}

func TestClear(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if err := store.Append(ctx, sampleRecord(types.OpOCR, base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	n, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d records, want 3", n)
	}
	records, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("List returned %d records after Clear, want 0", len(records))
	}
}

func TestRecordIDStable(t *testing.T) {
	rec := sampleRecord(types.OpMerge, time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))
	a := recordID(rec)
	b := recordID(rec)
	if a != b {
		t.Errorf("recordID not stable: %s vs %s", a, b)
	}
	if len(a) != 12 {
		t.Errorf("recordID length = %d, want 12", len(a))
	}

	other := rec
	other.Inputs = []string{"c.pdf"}
	if recordID(other) == a {
		t.Error("recordID ignores inputs")
	}
}
