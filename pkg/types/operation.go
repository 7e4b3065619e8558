// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// OperationKind identifies a pipeline operation.
// Per prd007-operations R2.1, prd008-auxiliary R1-R5.
type OperationKind string

const (
	OpConvert    OperationKind = "convert"
	OpMerge      OperationKind = "merge"
	OpSplitRange OperationKind = "split-range"
	OpSplitEach  OperationKind = "split-each"
	OpExtract    OperationKind = "extract"
	OpDelete     OperationKind = "delete"
	OpCompress   OperationKind = "compress"
	OpToImages   OperationKind = "images"
	OpOCR        OperationKind = "ocr"
)

// OperationRecord is one entry in the operation journal.
// Per prd009-history R1.2: enough to reconstruct what ran, on what, and how
// it ended, without storing document contents.
type OperationRecord struct {
	// ID is a short stable identifier derived from the operation, its
	// inputs, and its start time.
	ID string `json:"id" yaml:"id"`

	// StartedAt is when the operation began.
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	// Operation names the pipeline operation that ran.
	Operation OperationKind `json:"operation" yaml:"operation"`

	// Inputs lists the source paths in caller order.
	Inputs []string `json:"inputs" yaml:"inputs"`

	// Outputs lists the published paths, empty unless the outcome is
	// success.
	Outputs []string `json:"outputs,omitempty" yaml:"outputs,omitempty"`

	// Outcome is the terminal outcome.
	Outcome Outcome `json:"outcome" yaml:"outcome"`

	// ErrorKind classifies the failure, empty on success.
	ErrorKind ErrorKind `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`

	// Message is the failure reason, empty on success.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`

	// Duration is how long the operation ran.
	Duration time.Duration `json:"duration" yaml:"duration"`
}
