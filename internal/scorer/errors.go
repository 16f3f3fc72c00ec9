package scorer

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies why an entity has no score.
type Kind int

const (
	KindUnknown Kind = iota
	CounterpartMissing
	ToolInvocationFailed
	OutputUnparseable
	ExecutableNotFound
	ReferenceMissing
)

// String is the stable reason label used in logs, summaries and metrics.
func (k Kind) String() string {
	switch k {
	case CounterpartMissing:
		return "counterpart_missing"
	case ToolInvocationFailed:
		return "tool_failed"
	case OutputUnparseable:
		return "output_unparseable"
	case ExecutableNotFound:
		return "executable_not_found"
	case ReferenceMissing:
		return "reference_missing"
	default:
		return "unknown"
	}
}

// Error is returned by scorers and the aggregator for a single pair.
type Error struct {
	Kind   Kind
	Entity string
	Path   string // counterpart or executable involved
	Stderr string // captured tool stderr, ToolInvocationFailed only
	Report string // captured tool stdout, OutputUnparseable only
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case CounterpartMissing:
		return fmt.Sprintf("no counterpart file %s", e.Path)
	case ExecutableNotFound:
		return fmt.Sprintf("scoring executable %q not found: %v", e.Path, e.Err)
	case OutputUnparseable:
		return "tool output did not contain a parseable score"
	case ReferenceMissing:
		return fmt.Sprintf("no reference file for %s", e.Path)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

// IsFatal reports whether err must stop the whole run. Only a missing scoring
// executable qualifies: no later invocation could succeed either.
func IsFatal(err error) bool { return KindOf(err) == ExecutableNotFound }
