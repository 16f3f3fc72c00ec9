// internal/clibase/common.go
package clibase

import (
	"errors"
	"flag"
	"fmt"

	"foldbench/internal/logging"
)

// Common holds CLI fields shared by foldbench-score and foldbench-redundancy.
type Common struct {
	ConfigFile string
	EnvFile    string

	LogLevel  string
	LogFormat string
	Quiet     bool

	Examples bool
	Version  bool
}

// Register wires shared flags onto fs.
func Register(fs *flag.FlagSet, c *Common) {
	fs.StringVar(&c.ConfigFile, "config", "", "YAML configuration file")
	fs.StringVar(&c.EnvFile, "env", ".env", "dotenv file with FOLDBENCH_* overrides (ignored if absent) [.env]")

	fs.StringVar(&c.LogLevel, "log-level", "info", "log level: debug | info | warn | error [info]")
	fs.StringVar(&c.LogFormat, "log-format", logging.FormatText, "log format: text | json [text]")
	fs.BoolVar(&c.Quiet, "quiet", false, "only log errors [false]")
	fs.BoolVar(&c.Quiet, "q", false, "alias of --quiet")

	fs.BoolVar(&c.Examples, "examples", false, "show quickstart examples and exit [false]")
	fs.BoolVar(&c.Version, "v", false, "print version and exit [false]")
	fs.BoolVar(&c.Version, "version", false, "print version and exit [false]")
}

// Validate applies shared CLI invariants used by all tools.
func Validate(c *Common) error {
	switch c.LogFormat {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("invalid --log-format %q", c.LogFormat)
	}
	if c.LogLevel == "" {
		return errors.New("--log-level must not be empty")
	}
	return nil
}
