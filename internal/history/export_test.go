// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/document-engine/pkg/types"
)

func TestExportYAML(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	if err := store.Append(ctx, sampleRecord(types.OpMerge, base)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := store.Append(ctx, sampleRecord(types.OpCompress, base.Add(time.Minute))); err != nil {
		t.Fatalf("Append: %v", err)
	}

	var buf bytes.Buffer
	n, err := store.ExportYAML(ctx, &buf, 10)
	if err != nil {
		t.Fatalf("ExportYAML: %v", err)
	}
	if n != 2 {
		t.Errorf("exported %d records, want 2", n)
	}

	var entries []exportRecord
	if err := yaml.Unmarshal(buf.Bytes(), &entries); err != nil {
		t.Fatalf("unmarshaling export: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("export holds %d entries, want 2", len(entries))
	}
	if entries[0].Operation != "compress" {
		t.Errorf("newest entry = %s, want compress", entries[0].Operation)
	}
	if entries[0].StartedAt != "2026-03-14T09:31:00Z" {
		t.Errorf("StartedAt = %q, want RFC 3339 UTC", entries[0].StartedAt)
	}
	if entries[0].DurationMS != 1200 {
		t.Errorf("DurationMS = %d, want 1200", entries[0].DurationMS)
	}
}

func TestExportJSON(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	rec := sampleRecord(types.OpOCR, time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC))
	rec.Outcome = types.OutcomeFailed
	rec.Outputs = nil
	rec.ErrorKind = types.KindDecode
	rec.Message = "corrupt or unreadable document"
	if err := store.Append(ctx, rec); err != nil {
		t.Fatalf("Append: %v", err)
	}

	var buf bytes.Buffer
	n, err := store.ExportJSON(ctx, &buf, 10)
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	if n != 1 {
		t.Errorf("exported %d records, want 1", n)
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("JSON export should end with a newline")
	}

	var entries []exportRecord
	if err := json.Unmarshal(buf.Bytes(), &entries); err != nil {
		t.Fatalf("unmarshaling export: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("export holds %d entries, want 1", len(entries))
	}
	if entries[0].Outcome != "failed" || entries[0].ErrorKind != "decode" {
		t.Errorf("entry = %+v, want failed/decode", entries[0])
	}
	if len(entries[0].Outputs) != 0 {
		t.Errorf("Outputs = %v, want empty for a failed run", entries[0].Outputs)
	}
}

func TestExportEmptyJournal(t *testing.T) {
	store := testStore(t)

	var buf bytes.Buffer
	n, err := store.ExportYAML(context.Background(), &buf, 10)
	if err != nil {
		t.Fatalf("ExportYAML: %v", err)
	}
	if n != 0 {
		t.Errorf("exported %d records from an empty journal", n)
	}
}
