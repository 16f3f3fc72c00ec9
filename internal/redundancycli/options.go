package redundancycli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"foldbench/internal/cli"
	"foldbench/internal/clibase"
	"foldbench/internal/cliutil"
	"foldbench/internal/config"
	"foldbench/internal/writers"
)

type Options struct {
	clibase.Common

	Dir       string
	Files     []string // explicit inputs; "-" is stdin
	Ext       string
	Threshold float64
	Output    string
	Header    bool
	Threads   int

	set map[string]bool
}

func NewFlagSet(name string) *flag.FlagSet {
	fs := cli.NewFlagSet(name)
	clibase.UsageCommon(fs, name, "flag near-duplicate entities by sequence identity", func(out io.Writer, def func(string) string) {
		_, _ = fmt.Fprintln(out, "Usage:")
		_, _ = fmt.Fprintf(out, "  %s [options] DIR\n", name)
		_, _ = fmt.Fprintf(out, "  %s [options] FILE... (globs and '-' accepted)\n", name)

		_, _ = fmt.Fprintln(out, "\nInput:")
		_, _ = fmt.Fprintln(out, "      --sequences dir         Directory of multi-chain FASTA files, one per entity")
		_, _ = fmt.Fprintf(out, "      --ext string            FASTA extension (.gz variants included) [%s]\n", def("ext"))

		_, _ = fmt.Fprintln(out, "\nComparison:")
		_, _ = fmt.Fprintf(out, "      --threshold float       Report pairs with identity above this percentage [%s]\n", def("threshold"))
		_, _ = fmt.Fprintf(out, "  -t, --threads int           Parallel file readers (0=all CPUs) [%s]\n", def("threads"))

		_, _ = fmt.Fprintln(out, "\nOutput:")
		_, _ = fmt.Fprintf(out, "  -o, --output string         text | pretty | tsv | json | jsonl [%s]\n", def("output"))
		_, _ = fmt.Fprintf(out, "      --no-header             Suppress header line [%s]\n", def("no-header"))
	})
	return fs
}

// PrintExamples prints a focused quickstart for foldbench-redundancy.
func PrintExamples(out io.Writer) {
	clibase.PrintExamples(out, "foldbench-redundancy",
		clibase.Example{
			Title: "Pairs above 40% identity in a FASTA directory",
			Lines: []string{"foldbench-redundancy data/fasta/all"},
		},
		clibase.Example{
			Title: "Stricter threshold, machine-readable",
			Lines: []string{"foldbench-redundancy --threshold 90 -o jsonl 'data/fasta/*.fasta.gz'"},
		},
		clibase.Example{
			Title: "Show where two near-duplicates agree",
			Lines: []string{"foldbench-redundancy -o pretty data/fasta/all"},
		},
	)
}

func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	var help, noHeader bool

	def := config.Default()
	clibase.Register(fs, &o.Common)

	fs.StringVar(&o.Dir, "sequences", "", "FASTA directory")
	fs.StringVar(&o.Ext, "ext", def.Sequences.Ext, "FASTA extension")
	fs.Float64Var(&o.Threshold, "threshold", def.Sequences.Threshold, "identity threshold (percent)")
	fs.IntVar(&o.Threads, "threads", 0, "parallel readers (0 = all CPUs)")
	fs.IntVar(&o.Threads, "t", 0, "alias of --threads")
	fs.StringVar(&o.Output, "output", "text", "output format")
	fs.StringVar(&o.Output, "o", "text", "alias of --output")
	fs.BoolVar(&noHeader, "no-header", false, "suppress header line")

	fs.BoolVar(&help, "h", false, "show this help [false]")
	fs.BoolVar(&help, "help", false, "show this help [false]")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return o, err
	}
	if help {
		return o, flag.ErrHelp
	}
	if o.Examples {
		return o, clibase.ErrPrintedAndExitOK
	}
	if o.Version {
		return o, nil
	}
	o.Header = !noHeader
	o.set = cli.Visited(fs)

	if len(posArgs) == 1 && posArgs[0] != "-" {
		if fi, err := os.Stat(posArgs[0]); err == nil && fi.IsDir() {
			if o.Dir != "" {
				return o, errors.New("give the sequence directory once (--sequences or DIR)")
			}
			o.Dir = posArgs[0]
			o.set["sequences"] = true
			posArgs = nil
		}
	}
	if len(posArgs) > 0 {
		if o.Dir != "" {
			return o, errors.New("--sequences conflicts with file arguments")
		}
		files, err := cliutil.ExpandPositionals(posArgs)
		if err != nil {
			return o, err
		}
		o.Files = files
	}

	if err := clibase.Validate(&o.Common); err != nil {
		return o, err
	}
	if _, ok := writers.PairWriters[o.Output]; !ok {
		return o, fmt.Errorf("invalid --output %q", o.Output)
	}
	return o, nil
}

// Config layers defaults, --config, the environment and the flags actually
// given. Explicit files replace the directory requirement.
func (o Options) Config() (config.Config, error) {
	cfg, err := config.Load(o.ConfigFile)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(o.EnvFile); err != nil {
		return cfg, err
	}
	set := func(names ...string) bool { return cli.AnyVisited(o.set, names...) }
	if set("sequences") {
		cfg.Sequences.Dir = o.Dir
	}
	if set("ext") {
		cfg.Sequences.Ext = o.Ext
	}
	if set("threshold") {
		cfg.Sequences.Threshold = o.Threshold
	}
	if set("threads", "t") {
		cfg.Threads = o.Threads
	}
	cfg.Normalize()

	if len(o.Files) > 0 {
		check := cfg
		check.Sequences.Dir = "(files)"
		return cfg, check.ValidateSequences()
	}
	return cfg, cfg.ValidateSequences()
}
