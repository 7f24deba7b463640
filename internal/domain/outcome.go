package domain

import "fmt"

// OutcomeKind classifies how an external tool invocation ended.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeMissing
	OutcomeTimedOut
	OutcomeMalformed
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeMissing:
		return "missing"
	case OutcomeTimedOut:
		return "timed-out"
	case OutcomeMalformed:
		return "malformed"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// ToolOutcome is the result of running one external tool. Stdout is only
// meaningful for OutcomeSuccess; Err carries the cause otherwise.
type ToolOutcome struct {
	Kind   OutcomeKind
	Stdout []byte
	Err    error
}

func Succeeded(stdout []byte) ToolOutcome { return ToolOutcome{Kind: OutcomeSuccess, Stdout: stdout} }
func Missing(err error) ToolOutcome       { return ToolOutcome{Kind: OutcomeMissing, Err: err} }
func TimedOut(err error) ToolOutcome      { return ToolOutcome{Kind: OutcomeTimedOut, Err: err} }
func Malformed(err error) ToolOutcome     { return ToolOutcome{Kind: OutcomeMalformed, Err: err} }
func Failed(err error) ToolOutcome        { return ToolOutcome{Kind: OutcomeFailed, Err: err} }

// Fallback is what an adapter returns instead of parsed tool output.
type Fallback int

const (
	// FallbackEmpty contributes nothing.
	FallbackEmpty Fallback = iota
	// FallbackTimeoutNotice contributes one warning with rule id "timeout".
	FallbackTimeoutNotice
	// FallbackHeuristic runs the built-in substring scanner instead.
	FallbackHeuristic
)

func (f Fallback) String() string {
	switch f {
	case FallbackEmpty:
		return "empty"
	case FallbackTimeoutNotice:
		return "timeout-notice"
	case FallbackHeuristic:
		return "heuristic"
	default:
		return fmt.Sprintf("fallback(%d)", int(f))
	}
}

// FallbackPolicy maps every non-success outcome to a fallback. Each adapter
// declares its own policy; they are deliberately not unified.
type FallbackPolicy struct {
	OnMissing   Fallback
	OnTimeout   Fallback
	OnMalformed Fallback
	OnFailed    Fallback
}

// For returns the fallback for kind. Success has no fallback and yields
// FallbackEmpty.
func (p FallbackPolicy) For(kind OutcomeKind) Fallback {
	switch kind {
	case OutcomeMissing:
		return p.OnMissing
	case OutcomeTimedOut:
		return p.OnTimeout
	case OutcomeMalformed:
		return p.OnMalformed
	case OutcomeFailed:
		return p.OnFailed
	default:
		return FallbackEmpty
	}
}
