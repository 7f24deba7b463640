package domain

import "fmt"

// Operation names a public operation of the service.
type Operation string

const (
	OperationReview       Operation = "review"
	OperationSecurityScan Operation = "security-scan"
)

// FailureMode decides what an operation does with an unexpected failure.
type FailureMode int

const (
	// FailureSurface returns the error to the caller with no results.
	FailureSurface FailureMode = iota
	// FailureSwallow logs the error and returns an empty result.
	FailureSwallow
)

// FailurePolicy is the per-operation failure table. Review fails loudly, the
// security scan never does.
var FailurePolicy = map[Operation]FailureMode{
	OperationReview:       FailureSurface,
	OperationSecurityScan: FailureSwallow,
}

// FailureModeFor returns the failure mode for op, surfacing by default.
func FailureModeFor(op Operation) FailureMode {
	if m, ok := FailurePolicy[op]; ok {
		return m
	}
	return FailureSurface
}

// ReviewError is returned when the review pipeline fails unexpectedly.
type ReviewError struct {
	Err error
}

func (e *ReviewError) Error() string {
	return fmt.Sprintf("review failed: %v", e.Err)
}

func (e *ReviewError) Unwrap() error { return e.Err }
