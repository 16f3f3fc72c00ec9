// internal/runutil/runutil.go
package runutil

import (
	"runtime"

	"github.com/google/uuid"
)

// EffectiveThreads maps the --threads value to a worker count: 0 means
// all CPUs, anything else is used as-is (minimum 1).
func EffectiveThreads(n int) int {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n < 1 {
		n = 1
	}
	return n
}

// NewRunID returns the identifier attached to every log entry of a run.
func NewRunID() string { return uuid.NewString() }
