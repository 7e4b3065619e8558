// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/document-engine/pkg/types"
)

// exportRecord flattens an OperationRecord for serialization: timestamps
// as RFC 3339, durations in milliseconds.
type exportRecord struct {
	ID         string   `json:"id" yaml:"id"`
	StartedAt  string   `json:"started_at" yaml:"started_at"`
	Operation  string   `json:"operation" yaml:"operation"`
	Inputs     []string `json:"inputs" yaml:"inputs"`
	Outputs    []string `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Outcome    string   `json:"outcome" yaml:"outcome"`
	ErrorKind  string   `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	Message    string   `json:"message,omitempty" yaml:"message,omitempty"`
	DurationMS int64    `json:"duration_ms" yaml:"duration_ms"`
}

// ExportYAML writes the most recent limit records to w as one YAML
// document, newest first (R4.1).
func (s *Store) ExportYAML(ctx context.Context, w io.Writer, limit int) (int, error) {
	entries, err := s.exportEntries(ctx, limit)
	if err != nil {
		return 0, err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return 0, fmt.Errorf("marshaling YAML: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return 0, fmt.Errorf("writing export: %w", err)
	}
	return len(entries), nil
}

// ExportJSON writes the most recent limit records to w as indented JSON,
// newest first (R4.2).
func (s *Store) ExportJSON(ctx context.Context, w io.Writer, limit int) (int, error) {
	entries, err := s.exportEntries(ctx, limit)
	if err != nil {
		return 0, err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("marshaling JSON: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return 0, fmt.Errorf("writing export: %w", err)
	}
	return len(entries), nil
}

func (s *Store) exportEntries(ctx context.Context, limit int) ([]exportRecord, error) {
	records, err := s.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	entries := make([]exportRecord, len(records))
	for i, r := range records {
		entries[i] = flatten(r)
	}
	return entries, nil
}

func flatten(r types.OperationRecord) exportRecord {
	return exportRecord{
		ID:         r.ID,
		StartedAt:  r.StartedAt.UTC().Format(time.RFC3339),
		Operation:  string(r.Operation),
		Inputs:     r.Inputs,
		Outputs:    r.Outputs,
		Outcome:    string(r.Outcome),
		ErrorKind:  string(r.ErrorKind),
		Message:    r.Message,
		DurationMS: r.Duration.Milliseconds(),
	}
}
