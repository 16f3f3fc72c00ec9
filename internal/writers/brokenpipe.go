package writers

import (
	"io"
	"syscall"

	"github.com/pkg/errors"
)

// IsBrokenPipe reports whether err means the reader went away, as when
// output is piped into `head`.
func IsBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe)
}

// dropBrokenPipe returns nil for broken-pipe errors and err otherwise.
func dropBrokenPipe(err error) error {
	if IsBrokenPipe(err) {
		return nil
	}
	return err
}
