// core/fasta/open.go
package fasta

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
)

var gzipMagic = [2]byte{0x1f, 0x8b}

type readCloser struct {
	io.Reader
	close func() error
}

func (r readCloser) Close() error { return r.close() }

// Open returns a reader for path; "-" is stdin. Gzip input is recognised by
// its magic bytes rather than the file name, so compressed stdin works too.
// Closing the reader closes the underlying file.
func Open(path string) (io.ReadCloser, error) {
	var src io.ReadCloser = io.NopCloser(os.Stdin)
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		src = f
	}

	br := bufio.NewReaderSize(src, 64<<10)
	if magic, _ := br.Peek(2); len(magic) == 2 && magic[0] == gzipMagic[0] && magic[1] == gzipMagic[1] {
		zr, err := gzip.NewReader(br)
		if err != nil {
			_ = src.Close()
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return readCloser{Reader: zr, close: func() error {
			zerr := zr.Close()
			if err := src.Close(); err != nil {
				return err
			}
			return zerr
		}}, nil
	}
	return readCloser{Reader: br, close: src.Close}, nil
}
