// Package config holds the run configuration for the foldbench tools.
//
// Values are layered: Default(), then an optional YAML file, then the
// environment (optionally seeded from a .env file), then command-line flags
// applied by the cli packages.
package config

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Naming conventions for predicted files inside a group directory.
const (
	NamingPlain    = "plain"    // <entity_id><ext>
	NamingPrefixed = "prefixed" // <prefix><entity_id><ext>, prefix defaults to "<group>_"
)

// Counterpart matching modes for backends.
const (
	MatchIdentifier = "identifier"
	MatchFilename   = "filename"
)

// Environment keys consulted by ApplyEnv.
const (
	EnvTMScore = "FOLDBENCH_TMSCORE"
	EnvLDDT    = "FOLDBENCH_LDDT"
	EnvThreads = "FOLDBENCH_THREADS"
	EnvTimeout = "FOLDBENCH_TIMEOUT"
)

// Reference is the directory of experimental structures, one per entity.
type Reference struct {
	Dir string `yaml:"dir"`
	Ext string `yaml:"ext"`
}

// Group is one prediction method's output directory.
type Group struct {
	Name   string `yaml:"name"`
	Dir    string `yaml:"dir"`
	Ext    string `yaml:"ext"`
	Naming string `yaml:"naming"`
	Prefix string `yaml:"prefix"`
}

// FilePrefix is the string prepended to entity ids in this group.
func (g Group) FilePrefix() string {
	if g.Naming != NamingPrefixed {
		return ""
	}
	if g.Prefix != "" {
		return g.Prefix
	}
	return g.Name + "_"
}

// Tools locates the external scoring executables.
type Tools struct {
	TMScore string `yaml:"tmscore"`
	LDDT    string `yaml:"lddt"`
}

// CustomBackend declares a scoring tool not built into foldbench.
// Exactly one of Regex or JSONPath must be set.
type CustomBackend struct {
	Name        string   `yaml:"name"`
	Executable  string   `yaml:"executable"`
	Args        []string `yaml:"args"`
	Metric      string   `yaml:"metric"`
	FilePrefix  string   `yaml:"file_prefix"`
	Match       string   `yaml:"match"`
	Regex       string   `yaml:"regex"`
	JSONPath    string   `yaml:"json_path"`
	SaveReports bool     `yaml:"save_reports"`
}

// Sequences configures the redundancy detector.
type Sequences struct {
	Dir       string  `yaml:"dir"`
	Ext       string  `yaml:"ext"`
	Threshold float64 `yaml:"threshold"`
}

// Config is everything a run needs; it is passed to components explicitly.
type Config struct {
	Reference      Reference       `yaml:"reference"`
	Groups         []Group         `yaml:"groups"`
	OutputDir      string          `yaml:"output_dir"`
	ReportsDir     string          `yaml:"reports_dir"`
	Backends       []string        `yaml:"backends"`
	Tools          Tools           `yaml:"tools"`
	CustomBackends []CustomBackend `yaml:"custom_backends"`
	Timeout        time.Duration   `yaml:"timeout"`
	Threads        int             `yaml:"threads"`
	SummaryFile    string          `yaml:"summary_file"`
	MetricsFile    string          `yaml:"metrics_file"`
	Sequences      Sequences       `yaml:"sequences"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Reference:  Reference{Ext: ".pdb"},
		OutputDir:  "metrics",
		ReportsDir: "reports",
		Backends:   []string{"rmsd", "tmscore"},
		Tools:      Tools{TMScore: "./TMscore", LDDT: "lddt"},
		Timeout:    10 * time.Minute,
		Sequences:  Sequences{Ext: ".fasta", Threshold: 40},
	}
}

// Load reads a YAML file on top of Default(). Unknown keys are an error.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrap(err, "read config")
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return c, errors.Wrapf(err, "parse config %s", path)
	}
	c.Normalize()
	return c, nil
}

// ApplyEnv loads envFile (if present) into the process environment without
// overriding existing variables, then applies the FOLDBENCH_* keys.
// A missing envFile is not an error.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return errors.Wrapf(err, "load env file %s", envFile)
		}
	}
	if v := os.Getenv(EnvTMScore); v != "" {
		c.Tools.TMScore = v
	}
	if v := os.Getenv(EnvLDDT); v != "" {
		c.Tools.LDDT = v
	}
	if v := os.Getenv(EnvThreads); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "%s", EnvThreads)
		}
		c.Threads = n
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(err, "%s", EnvTimeout)
		}
		c.Timeout = d
	}
	return nil
}

// Normalize fills derived defaults (leading dots, group naming). Callers that
// add groups or backends after Load should call it again before validating.
func (c *Config) Normalize() {
	c.Reference.Ext = normExt(c.Reference.Ext)
	c.Sequences.Ext = normExt(c.Sequences.Ext)
	for i := range c.Groups {
		g := &c.Groups[i]
		g.Ext = normExt(g.Ext)
		if g.Ext == "" {
			g.Ext = ".cif"
		}
		if g.Naming == "" {
			if g.Prefix != "" {
				g.Naming = NamingPrefixed
			} else {
				g.Naming = NamingPlain
			}
		}
	}
	for i := range c.CustomBackends {
		if c.CustomBackends[i].Match == "" {
			c.CustomBackends[i].Match = MatchIdentifier
		}
	}
}

// ValidateScoring checks what the pairing & metric aggregator needs.
func (c Config) ValidateScoring() error {
	if c.Reference.Dir == "" {
		return errors.New("a reference directory is required")
	}
	if c.Reference.Ext == "" {
		return errors.New("reference extension must not be empty")
	}
	if len(c.Groups) == 0 {
		return errors.New("at least one comparison group is required")
	}
	seen := map[string]bool{}
	for _, g := range c.Groups {
		if g.Name == "" || g.Dir == "" {
			return errors.Errorf("group %q: name and dir are required", g.Name)
		}
		if seen[g.Name] {
			return errors.Errorf("duplicate group %q", g.Name)
		}
		seen[g.Name] = true
		if g.Naming != NamingPlain && g.Naming != NamingPrefixed {
			return errors.Errorf("group %q: invalid naming %q", g.Name, g.Naming)
		}
	}
	if len(c.Backends) == 0 {
		return errors.New("at least one backend is required")
	}
	if c.OutputDir == "" {
		return errors.New("an output directory is required")
	}
	if c.Threads < 0 {
		return errors.New("--threads must be ≥ 0")
	}
	if c.Timeout < 0 {
		return errors.New("--timeout must be ≥ 0")
	}
	for _, cb := range c.CustomBackends {
		if err := cb.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSequences checks what the redundancy detector needs.
func (c Config) ValidateSequences() error {
	if c.Sequences.Dir == "" {
		return errors.New("a sequence directory is required")
	}
	if c.Sequences.Threshold < 0 || c.Sequences.Threshold > 100 {
		return errors.New("--threshold must be between 0 and 100")
	}
	if c.Threads < 0 {
		return errors.New("--threads must be ≥ 0")
	}
	return nil
}

// Validate checks a user-defined backend declaration.
func (cb CustomBackend) Validate() error {
	switch {
	case cb.Name == "":
		return errors.New("custom backend: name is required")
	case cb.Executable == "":
		return errors.Errorf("custom backend %q: executable is required", cb.Name)
	case (cb.Regex == "") == (cb.JSONPath == ""):
		return errors.Errorf("custom backend %q: set exactly one of regex or json_path", cb.Name)
	case cb.Match != MatchIdentifier && cb.Match != MatchFilename:
		return errors.Errorf("custom backend %q: invalid match %q", cb.Name, cb.Match)
	}
	return nil
}

// ParseGroup parses a command-line group spec:
//
//	name=DIR[,ext=.cif][,prefix=chai_][,naming=prefixed]
func ParseGroup(spec string) (Group, error) {
	parts := strings.Split(spec, ",")
	name, dir, ok := strings.Cut(parts[0], "=")
	if !ok || name == "" || dir == "" {
		return Group{}, errors.Errorf("bad --group %q: want name=DIR[,ext=.cif][,prefix=P]", spec)
	}
	g := Group{Name: name, Dir: dir}
	for _, kv := range parts[1:] {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return Group{}, errors.Errorf("bad --group option %q in %q", kv, spec)
		}
		switch k {
		case "ext":
			g.Ext = v
		case "prefix":
			g.Prefix = v
		case "naming":
			g.Naming = v
		default:
			return Group{}, errors.Errorf("unknown --group option %q in %q", k, spec)
		}
	}
	return g, nil
}

func normExt(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
