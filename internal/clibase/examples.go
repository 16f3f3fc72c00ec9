// internal/clibase/examples.go
package clibase

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// ErrPrintedAndExitOK is returned by ParseArgs when --examples was given.
// Apps print their examples and exit 0.
var ErrPrintedAndExitOK = errors.New("examples requested")

// Example is one titled command line, continued over Lines.
type Example struct {
	Title string
	Lines []string
}

// PrintExamples prints a quickstart: each example's title, then its lines
// indented and joined with shell continuations.
func PrintExamples(out io.Writer, name string, examples ...Example) {
	if out == nil {
		return
	}
	_, _ = fmt.Fprintf(out, "%s: quickstart\n", name)
	for _, ex := range examples {
		_, _ = fmt.Fprintf(out, "\n%s:\n", ex.Title)
		for i, l := range ex.Lines {
			indent, cont := "  ", " \\"
			if i > 0 {
				indent = "    "
			}
			if i == len(ex.Lines)-1 {
				cont = ""
			}
			_, _ = fmt.Fprintf(out, "%s%s%s\n", indent, l, cont)
		}
	}
	_, _ = fmt.Fprintln(out, "\nTip: run with --help for all flags.")
}
