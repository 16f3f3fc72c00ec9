// core/fasta/reader.go
package fasta

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Chain is one record of a multi-chain sequence file: the header line
// (without the leading '>') and the residues with line breaks removed.
type Chain struct {
	Header string
	Seq    string
}

// ParseCtx scans r and calls emit for every record that carries a sequence.
//
// Text before the first '>' is ignored. Records whose sequence is empty after
// whitespace trimming are dropped rather than reported. Cancellation via ctx
// is checked between lines.
func ParseCtx(ctx context.Context, r io.Reader, emit func(Chain) error) error {
	sc := bufio.NewScanner(r)
	const maxLine = 64 * 1024 * 1024 // single-line sequences can be long
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		inRecord bool
		header   string
		seq      strings.Builder
	)
	flush := func() error {
		if !inRecord || seq.Len() == 0 {
			return nil
		}
		return emit(Chain{Header: header, Seq: seq.String()})
	}

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, ">") {
			if err := flush(); err != nil {
				return err
			}
			inRecord = true
			header = strings.TrimSpace(line[1:])
			seq.Reset()
			continue
		}
		if !inRecord || line == "" {
			continue
		}
		seq.WriteString(line)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("fasta scan: %w", err)
	}
	return flush()
}

// Parse is ParseCtx with a background context, collecting all chains.
func Parse(r io.Reader) ([]Chain, error) {
	var out []Chain
	err := ParseCtx(context.Background(), r, func(c Chain) error {
		out = append(out, c)
		return nil
	})
	return out, err
}

// ReadFileCtx opens path (gzip and "-" aware) and returns its chains.
func ReadFileCtx(ctx context.Context, path string) ([]Chain, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	var out []Chain
	err = ParseCtx(ctx, rc, func(c Chain) error {
		out = append(out, c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// ReadFile is ReadFileCtx with a background context.
func ReadFile(path string) ([]Chain, error) {
	return ReadFileCtx(context.Background(), path)
}
