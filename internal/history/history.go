// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history journals finished operations to a local SQLite database.
// The journal is an audit trail, not a dependency: appends are best-effort
// and a journaling failure never fails the operation it records.
// Implements: prd009-history (R1-R4);
//
//	docs/ARCHITECTURE § History.
package history

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/document-engine/pkg/types"
)

const dbFile = "history.db"

// Store manages the operation journal database.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the journal location under the user's config
// directory.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config directory: %w", err)
	}
	return filepath.Join(base, "document-engine", dbFile), nil
}

// Open opens or creates the journal at path, creating the schema and any
// missing parent directories (R1.2).
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening journal database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS operations (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			operation TEXT NOT NULL,
			inputs TEXT NOT NULL,
			outputs TEXT,
			outcome TEXT NOT NULL,
			error_kind TEXT,
			message TEXT,
			duration_ms INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_operations_started_at ON operations(started_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Append records one finished operation (R1.1). Records are idempotent on
// ID, so re-appending the same record is harmless.
func (s *Store) Append(ctx context.Context, rec types.OperationRecord) error {
	if rec.ID == "" {
		rec.ID = recordID(rec)
	}
	inputsJSON, _ := json.Marshal(rec.Inputs)
	outputsJSON, _ := json.Marshal(rec.Outputs)

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO operations
			(id, started_at, operation, inputs, outputs, outcome, error_kind, message, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.StartedAt.UTC().Format(time.RFC3339Nano), string(rec.Operation),
		string(inputsJSON), string(outputsJSON), string(rec.Outcome),
		string(rec.ErrorKind), rec.Message, rec.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("appending operation record: %w", err)
	}
	return nil
}

// List returns up to limit records, newest first (R2.1). A non-positive
// limit selects a default page of 20.
func (s *Store) List(ctx context.Context, limit int) ([]types.OperationRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, operation, inputs, outputs, outcome, error_kind, message, duration_ms
		 FROM operations ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying operations: %w", err)
	}
	defer rows.Close()

	var records []types.OperationRecord
	for rows.Next() {
		var (
			rec        types.OperationRecord
			startedAt  string
			operation  string
			inputs     string
			outputs    sql.NullString
			outcome    string
			errorKind  sql.NullString
			message    sql.NullString
			durationMS int64
		)
		if err := rows.Scan(&rec.ID, &startedAt, &operation, &inputs, &outputs,
			&outcome, &errorKind, &message, &durationMS); err != nil {
			return nil, fmt.Errorf("scanning operation record: %w", err)
		}
		if rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("parsing record timestamp %q: %w", startedAt, err)
		}
		rec.Operation = types.OperationKind(operation)
		if err := json.Unmarshal([]byte(inputs), &rec.Inputs); err != nil {
			return nil, fmt.Errorf("parsing record inputs: %w", err)
		}
		if outputs.Valid && outputs.String != "" {
			if err := json.Unmarshal([]byte(outputs.String), &rec.Outputs); err != nil {
				return nil, fmt.Errorf("parsing record outputs: %w", err)
			}
		}
		rec.Outcome = types.Outcome(outcome)
		rec.ErrorKind = types.ErrorKind(errorKind.String)
		rec.Message = message.String
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes every record and reports how many were removed (R3.1).
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM operations`)
	if err != nil {
		return 0, fmt.Errorf("clearing operations: %w", err)
	}
	return res.RowsAffected()
}

// recordID derives a stable identifier from the fields that make a run
// unique.
func recordID(rec types.OperationRecord) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s",
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.Operation,
		strings.Join(rec.Inputs, "\x00"),
	)
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}
