package scorecli

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"

	"foldbench/internal/cli"
	"foldbench/internal/clibase"
	"foldbench/internal/cliutil"
	"foldbench/internal/common"
	"foldbench/internal/config"
)

type Options struct {
	clibase.Common

	Reference    string
	ReferenceExt string
	Groups       []string
	Backends     []string
	OutputDir    string
	ReportsDir   string
	TMScore      string
	LDDT         string
	Timeout      time.Duration
	Threads      int
	SummaryFile  string
	MetricsFile  string

	NoResultExitCode int

	set map[string]bool
}

func NewFlagSet(name string) *flag.FlagSet {
	fs := cli.NewFlagSet(name)
	clibase.UsageCommon(fs, name, "score predicted structures against references", func(out io.Writer, def func(string) string) {
		_, _ = fmt.Fprintln(out, "Usage:")
		_, _ = fmt.Fprintf(out, "  %s --reference DIR --group NAME=DIR [--group ...] [options]\n", name)

		_, _ = fmt.Fprintln(out, "\nInput:")
		_, _ = fmt.Fprintln(out, "      --reference dir         Reference structures, one file per entity [*]")
		_, _ = fmt.Fprintf(out, "      --reference-ext string  Reference file extension [%s]\n", def("reference-ext"))
		_, _ = fmt.Fprintln(out, "      --group spec            name=DIR[,ext=.cif][,prefix=P][,naming=plain|prefixed] (repeatable) [*]")

		_, _ = fmt.Fprintln(out, "\nScoring:")
		_, _ = fmt.Fprintf(out, "      --backend name          rmsd | tmscore | lddt | custom (repeatable) [%s]\n", def("backend"))
		_, _ = fmt.Fprintf(out, "      --tmscore path          TMscore executable [%s]\n", def("tmscore"))
		_, _ = fmt.Fprintf(out, "      --lddt path             lddt executable [%s]\n", def("lddt"))
		_, _ = fmt.Fprintf(out, "      --timeout duration      Per-invocation limit (0=none) [%s]\n", def("timeout"))
		_, _ = fmt.Fprintf(out, "  -t, --threads int           Concurrent tool invocations (0=all CPUs) [%s]\n", def("threads"))

		_, _ = fmt.Fprintln(out, "\nOutput:")
		_, _ = fmt.Fprintf(out, "      --out dir               Metric tables (<prefix>_<group>.csv) [%s]\n", def("out"))
		_, _ = fmt.Fprintf(out, "      --reports dir           Raw tool reports for lddt-like backends [%s]\n", def("reports"))
		_, _ = fmt.Fprintln(out, "      --summary file          Write a JSON run summary")
		_, _ = fmt.Fprintln(out, "      --metrics-file file     Write Prometheus textfile metrics")
		_, _ = fmt.Fprintf(out, "      --no-result-exit-code int  Exit code when no table has a row [%s]\n", def("no-result-exit-code"))
	})
	return fs
}

// PrintExamples prints a focused quickstart for foldbench-score.
func PrintExamples(out io.Writer) {
	clibase.PrintExamples(out, "foldbench-score",
		clibase.Example{
			Title: "RMSD and TM-score for two prediction methods",
			Lines: []string{
				"foldbench-score",
				"--reference final_results/all",
				"--group alphafold3=final_results/alphafold3",
				"--group chai-1=final_results/chai-1,prefix=chai_",
				"--out metrics",
			},
		},
		clibase.Example{
			Title: "lDDT with saved reports, settings from a file",
			Lines: []string{"foldbench-score --config foldbench.yaml --backend lddt --reports reports"},
		},
	)
}

func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	var help bool

	def := config.Default()
	clibase.Register(fs, &o.Common)

	fs.StringVar(&o.Reference, "reference", "", "reference structure directory")
	fs.StringVar(&o.ReferenceExt, "reference-ext", def.Reference.Ext, "reference file extension")
	groups := &cli.StringList{}
	fs.Var(groups, "group", "comparison group name=DIR[,ext=][,prefix=] (repeatable)")
	backends := &cli.StringList{Split: true}
	fs.Var(backends, "backend", "scoring backend (repeatable)")

	fs.StringVar(&o.OutputDir, "out", def.OutputDir, "metric table directory")
	fs.StringVar(&o.ReportsDir, "reports", def.ReportsDir, "raw report directory")
	fs.StringVar(&o.TMScore, "tmscore", def.Tools.TMScore, "TMscore executable")
	fs.StringVar(&o.LDDT, "lddt", def.Tools.LDDT, "lddt executable")
	fs.DurationVar(&o.Timeout, "timeout", def.Timeout, "per-invocation timeout (0 = none)")
	fs.IntVar(&o.Threads, "threads", 0, "concurrent invocations (0 = all CPUs)")
	fs.IntVar(&o.Threads, "t", 0, "alias of --threads")
	fs.StringVar(&o.SummaryFile, "summary", "", "JSON run summary file")
	fs.StringVar(&o.MetricsFile, "metrics-file", "", "Prometheus textfile output")
	fs.IntVar(&o.NoResultExitCode, "no-result-exit-code", 1, "exit code when no rows were produced")

	fs.BoolVar(&help, "h", false, "show this help [false]")
	fs.BoolVar(&help, "help", false, "show this help [false]")

	// The backend flag shows the default in help without pre-filling the list.
	if f := fs.Lookup("backend"); f != nil {
		f.DefValue = "rmsd,tmscore"
	}

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
	if len(posArgs) > 0 {
		return o, fmt.Errorf("unexpected argument %q (inputs are given with --reference/--group)", posArgs[0])
	}

	o.Groups = groups.Values
	o.Backends = common.UniqueLower(backends.Values)
	o.set = cli.Visited(fs)

	if err := clibase.Validate(&o.Common); err != nil {
		return o, err
	}
	if o.NoResultExitCode < 0 || o.NoResultExitCode > 255 {
		return o, errors.New("--no-result-exit-code must be between 0 and 255")
	}
	return o, nil
}

// Config layers defaults, --config, the environment and the flags actually
// given, then validates the result.
func (o Options) Config() (config.Config, error) {
	cfg, err := config.Load(o.ConfigFile)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(o.EnvFile); err != nil {
		return cfg, err
	}

	set := func(names ...string) bool { return cli.AnyVisited(o.set, names...) }
	if set("reference") {
		cfg.Reference.Dir = o.Reference
	}
	if set("reference-ext") {
		cfg.Reference.Ext = o.ReferenceExt
	}
	if len(o.Groups) > 0 {
		cfg.Groups = cfg.Groups[:0:0]
		for _, spec := range o.Groups {
			g, err := config.ParseGroup(spec)
			if err != nil {
				return cfg, err
			}
			cfg.Groups = append(cfg.Groups, g)
		}
	}
	if len(o.Backends) > 0 {
		cfg.Backends = o.Backends
	}
	if set("out") {
		cfg.OutputDir = o.OutputDir
	}
	if set("reports") {
		cfg.ReportsDir = o.ReportsDir
	}
	if set("tmscore") {
		cfg.Tools.TMScore = o.TMScore
	}
	if set("lddt") {
		cfg.Tools.LDDT = o.LDDT
	}
	if set("timeout") {
		cfg.Timeout = o.Timeout
	}
	if set("threads", "t") {
		cfg.Threads = o.Threads
	}
	if set("summary") {
		cfg.SummaryFile = o.SummaryFile
	}
	if set("metrics-file") {
		cfg.MetricsFile = o.MetricsFile
	}

	cfg.Normalize()
	return cfg, cfg.ValidateScoring()
}
