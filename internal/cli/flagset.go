// Package cli holds flag plumbing shared by the foldbench command parsers.
package cli

import (
	"flag"
	"io"
)

// NewFlagSet returns a quiet FlagSet with ContinueOnError; callers install
// their own Usage and decide where help goes.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	return fs
}

// Visited returns the names of flags set on the command line.
// Config layering uses it so unset flags never clobber file or env values.
func Visited(fs *flag.FlagSet) map[string]bool {
	m := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { m[f.Name] = true })
	return m
}

// AnyVisited reports whether any of names (aliases of one flag) was set.
func AnyVisited(set map[string]bool, names ...string) bool {
	for _, n := range names {
		if set[n] {
			return true
		}
	}
	return false
}
