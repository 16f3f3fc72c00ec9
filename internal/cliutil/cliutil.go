// internal/cliutil/cliutil.go
package cliutil

import (
	"flag"
	"path/filepath"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
)

// BoolFlags returns the names of fs flags that take no value.
func BoolFlags(fs *flag.FlagSet) mapset.Set[string] {
	out := mapset.NewThreadUnsafeSet[string]()
	fs.VisitAll(func(f *flag.Flag) {
		if bf, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && bf.IsBoolFlag() {
			out.Add(f.Name)
		}
	})
	return out
}

// SplitFlagsAndPositionals lets flags follow positionals, which the flag
// package alone does not. "-" is a positional, everything after "--" is
// positional, and a non-bool flag without "=" consumes the next argument.
// Pass flagArgs to fs.Parse.
func SplitFlagsAndPositionals(fs *flag.FlagSet, argv []string) (flagArgs, posArgs []string) {
	bools := BoolFlags(fs)
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "--":
			return flagArgs, append(posArgs, argv[i+1:]...)
		case arg == "-" || !strings.HasPrefix(arg, "-"):
			posArgs = append(posArgs, arg)
		case strings.Contains(arg, "="):
			flagArgs = append(flagArgs, arg)
		default:
			flagArgs = append(flagArgs, arg)
			if !bools.Contains(strings.TrimLeft(arg, "-")) && i+1 < len(argv) {
				i++
				flagArgs = append(flagArgs, argv[i])
			}
		}
	}
	return flagArgs, posArgs
}

// ExpandPositionals expands glob patterns among input paths. A pattern that
// matches nothing is an error; a path named twice is kept once, at its first
// position.
func ExpandPositionals(posArgs []string) ([]string, error) {
	seen := mapset.NewThreadUnsafeSet[string]()
	var out []string
	add := func(p string) {
		if seen.Add(p) {
			out = append(out, p)
		}
	}
	for _, a := range posArgs {
		if a == "-" || !strings.ContainsAny(a, "*?[") {
			add(a)
			continue
		}
		m, err := filepath.Glob(a)
		if err != nil {
			return nil, errors.Wrapf(err, "bad glob %q", a)
		}
		if len(m) == 0 {
			return nil, errors.Errorf("no input matched %q", a)
		}
		for _, p := range m {
			add(p)
		}
	}
	return out, nil
}
