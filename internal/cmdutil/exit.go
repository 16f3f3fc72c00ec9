// Package cmdutil holds the exit-code convention and output helpers shared
// by the foldbench apps.
package cmdutil

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"foldbench/internal/scorer"
	"foldbench/internal/writers"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitNoResult  = 1 // default; overridable with --no-result-exit-code
	ExitUsage     = 2
	ExitIO        = 3
	ExitNotFound  = 127
	ExitCancelled = 130
)

// Flush flushes w, treating a broken pipe as success.
// It returns ExitOK or ExitIO after reporting the error on stderr.
func Flush(w *bufio.Writer, stderr io.Writer) int {
	if err := w.Flush(); err != nil && !writers.IsBrokenPipe(err) {
		_, _ = fmt.Fprintln(stderr, err)
		return ExitIO
	}
	return ExitOK
}

// CodeFor maps a run error to its exit code.
func CodeFor(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitCancelled
	case scorer.IsFatal(err):
		return ExitNotFound
	case writers.IsBrokenPipe(err):
		return ExitOK
	default:
		return ExitIO
	}
}
