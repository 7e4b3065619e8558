// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Outcome classifies how an operation ended.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
)

// OperationResult is the terminal report of one pipeline operation.
// A Failed or Cancelled result implies no partial artifact at any
// destination; multi-output operations leave earlier fully published
// files in place. Per prd007-operations R4.1-R4.3.
type OperationResult struct {
	// Outcome is success, failed, or cancelled.
	Outcome Outcome `json:"outcome" yaml:"outcome"`

	// OutputPaths lists the published files: one for convert, merge, and
	// range split; many for per-page split and page images.
	OutputPaths []string `json:"output_paths,omitempty" yaml:"output_paths,omitempty"`

	// ErrorKind classifies the failure for the presentation layer.
	ErrorKind ErrorKind `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`

	// Message is the human-readable reason for a failed or cancelled
	// outcome.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`

	// Err is the underlying error for programmatic callers.
	Err error `json:"-" yaml:"-"`
}

// Ok reports whether the operation succeeded.
func (r OperationResult) Ok() bool {
	return r.Outcome == OutcomeSuccess
}

// Success builds a successful result with the published paths.
func Success(paths ...string) OperationResult {
	return OperationResult{Outcome: OutcomeSuccess, OutputPaths: paths}
}

// Failure builds a terminal result from err, mapping cancellation onto the
// cancelled outcome and everything else onto failed with its taxonomy kind.
func Failure(err error) OperationResult {
	kind := KindOf(err)
	if kind == KindCancelled {
		return Cancelled()
	}
	return OperationResult{
		Outcome:   OutcomeFailed,
		ErrorKind: kind,
		Message:   err.Error(),
		Err:       err,
	}
}

// Cancelled builds the terminal result for a caller-requested cancellation.
func Cancelled() OperationResult {
	return OperationResult{
		Outcome:   OutcomeCancelled,
		ErrorKind: KindCancelled,
		Message:   "operation cancelled",
	}
}
