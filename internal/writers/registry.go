// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// PairWriter renders a redundancy report in one format.
type PairWriter func(w io.Writer, r PairReport) error

// Pair writer registry (format → handler). Formats register in init().
var PairWriters = map[string]PairWriter{}

// RegisterPairs is idempotent; the last registration wins.
func RegisterPairs(format string, fn PairWriter) { PairWriters[format] = fn }

// PairFormats lists registered formats, sorted.
func PairFormats() []string {
	out := make([]string, 0, len(PairWriters))
	for f := range PairWriters {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// WritePairs dispatches to the writer registered for format.
func WritePairs(format string, w io.Writer, r PairReport) error {
	fn, ok := PairWriters[format]
	if !ok {
		return fmt.Errorf("unknown output format %q (want %s)", format, strings.Join(PairFormats(), " | "))
	}
	return fn(w, r)
}
