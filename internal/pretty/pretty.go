// Package pretty draws position-wise identity between two equal-length
// representative chains as a commented ASCII block.
package pretty

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Options control the ASCII rendering.
type Options struct {
	// Residues per row. If <=0, use default (60).
	Width int

	// Glyphs
	ExactGlyph    string // default "|"
	MismatchGlyph string // default " "
}

// DefaultOptions is what the pretty output format uses.
var DefaultOptions = Options{
	Width:         60,
	ExactGlyph:    "|",
	MismatchGlyph: " ",
}

const linePrefix = "# "

func (o Options) width() int {
	if o.Width <= 0 {
		return DefaultOptions.Width
	}
	return o.Width
}

func (o Options) exact() string {
	if o.ExactGlyph == "" {
		return DefaultOptions.ExactGlyph
	}
	return o.ExactGlyph
}

func (o Options) mismatch() string {
	if o.MismatchGlyph == "" {
		return DefaultOptions.MismatchGlyph
	}
	return o.MismatchGlyph
}

// matchLine puts a bar under every position where a and b agree, ignoring case.
func matchLine(a, b []rune, opt Options) string {
	var sb strings.Builder
	sb.Grow(len(a))
	for i := range a {
		if i < len(b) && unicode.ToUpper(a[i]) == unicode.ToUpper(b[i]) {
			sb.WriteString(opt.exact())
		} else {
			sb.WriteString(opt.mismatch())
		}
	}
	return sb.String()
}

// RenderIdentityWithOptions prints a block like
//
//	# nucleic e1 vs e2
//	# e1 1 ATCG 4
//	#      || |
//	# e2 1 ATGG 4
//	#
//
// wrapping every opt.Width residues. Chains of different length are not
// comparable and get a one-line note instead.
func RenderIdentityWithOptions(class, id1, seq1, id2, seq2 string, opt Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s %s vs %s\n", linePrefix, class, id1, id2)

	r1, r2 := []rune(seq1), []rune(seq2)
	if len(r1) == 0 || len(r1) != len(r2) {
		fmt.Fprintf(&b, "%s(pretty not available: lengths differ)\n#\n", linePrefix)
		return b.String()
	}

	idw := max(len(id1), len(id2))
	numw := len(strconv.Itoa(len(r1)))
	pad := strings.Repeat(" ", idw+1+numw+1)
	step := opt.width()

	for start := 0; start < len(r1); start += step {
		end := min(start+step, len(r1))
		fmt.Fprintf(&b, "%s%-*s %*d %s %d\n", linePrefix, idw, id1, numw, start+1, string(r1[start:end]), end)
		fmt.Fprintf(&b, "%s%s%s\n", linePrefix, pad, matchLine(r1[start:end], r2[start:end], opt))
		fmt.Fprintf(&b, "%s%-*s %*d %s %d\n", linePrefix, idw, id2, numw, start+1, string(r2[start:end]), end)
	}

	// spacer
	b.WriteString("#\n")
	return b.String()
}

// RenderIdentity uses DefaultOptions.
func RenderIdentity(class, id1, seq1, id2, seq2 string) string {
	return RenderIdentityWithOptions(class, id1, seq1, id2, seq2, DefaultOptions)
}
