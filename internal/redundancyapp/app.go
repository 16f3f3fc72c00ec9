// internal/redundancyapp/app.go
package redundancyapp

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"foldbench-core/fasta"
	"foldbench-core/seqid"
	"foldbench/internal/clibase"
	"foldbench/internal/cmdutil"
	"foldbench/internal/common"
	"foldbench/internal/logging"
	"foldbench/internal/pipeline"
	"foldbench/internal/redundancycli"
	"foldbench/internal/runutil"
	"foldbench/internal/version"
	"foldbench/internal/writers"
)

const name = "foldbench-redundancy"

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriterSize(stdout, 64<<10)

	fs := redundancycli.NewFlagSet(name)
	if len(argv) == 0 {
		argv = []string{"-h"}
	}
	opts, err := redundancycli.ParseArgs(fs, argv)
	if err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			fs.SetOutput(outw)
			fs.Usage()
			return cmdutil.Flush(outw, stderr)
		case errors.Is(err, clibase.ErrPrintedAndExitOK):
			redundancycli.PrintExamples(outw)
			return cmdutil.Flush(outw, stderr)
		}
		_, _ = fmt.Fprintln(stderr, "error:", err)
		_, _ = fmt.Fprintf(stderr, "run '%s -h' for usage\n", name)
		return cmdutil.ExitUsage
	}
	if opts.Version {
		_, _ = fmt.Fprintf(outw, "%s version %s\n", name, version.Version)
		return cmdutil.Flush(outw, stderr)
	}

	logger, err := logging.New(stderr, opts.LogLevel, opts.LogFormat, opts.Quiet)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "error:", err)
		return cmdutil.ExitUsage
	}
	log := logger.WithField("run_id", runutil.NewRunID())

	cfg, err := opts.Config()
	if err != nil {
		log.WithError(err).Error("invalid configuration")
		return cmdutil.ExitUsage
	}

	inputs := opts.Files
	if len(inputs) == 0 {
		inputs, err = ListSequenceFiles(cfg.Sequences.Dir, cfg.Sequences.Ext)
		if err != nil {
			log.WithError(err).Error("cannot list sequence files")
			return cmdutil.ExitIO
		}
	}
	if len(inputs) == 0 {
		log.WithFields(logrus.Fields{"dir": cfg.Sequences.Dir, "ext": cfg.Sequences.Ext}).Warn("no sequence files found")
	}

	profiles, err := LoadProfiles(parent, inputs, runutil.EffectiveThreads(cfg.Threads), log)
	if err != nil {
		code := cmdutil.CodeFor(err)
		if code == cmdutil.ExitCancelled {
			log.Warn("cancelled")
		} else {
			log.WithError(err).Error("cannot read sequences")
		}
		return code
	}

	pairs := seqid.FindSimilar(profiles, cfg.Sequences.Threshold)
	log.WithFields(logrus.Fields{"entities": len(profiles), "pairs": len(pairs)}).Info("comparison done")

	report := writers.PairReport{
		Threshold: cfg.Sequences.Threshold,
		Entities:  len(profiles),
		Header:    opts.Header,
		Pairs:     pairs,
		Profiles:  profiles,
	}
	if err := writers.WritePairs(opts.Output, outw, report); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return cmdutil.ExitIO
	}
	return cmdutil.Flush(outw, stderr)
}

// ListSequenceFiles returns files in dir ending in ext or ext+".gz"
// (case-insensitive), sorted by name.
func ListSequenceFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	ext = strings.ToLower(ext)
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		lower := strings.ToLower(e.Name())
		if strings.HasSuffix(lower, ext) || strings.HasSuffix(lower, ext+".gz") {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

// LoadProfiles parses every input on threads workers and returns one
// profile per entity, sorted by id. The entity id is the file name up to its
// first dot; "-" is read from stdin as entity "stdin". A file that cannot be
// read is logged and its entity excluded. Duplicate ids and cancellation
// abort.
func LoadProfiles(ctx context.Context, inputs []string, threads int, log logrus.FieldLogger) ([]seqid.Profile, error) {
	type loaded struct {
		path    string
		profile seqid.Profile
		chains  int
		err     error
	}
	work := func(ctx context.Context, path string) (loaded, error) {
		id := entityID(path)
		chains, err := fasta.ReadFileCtx(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return loaded{}, ctx.Err()
			}
			return loaded{path: path, profile: seqid.Profile{ID: id}, err: err}, nil
		}
		return loaded{path: path, profile: seqid.Representatives(id, chains), chains: len(chains)}, nil
	}

	byID := map[string]string{}
	var profiles []seqid.Profile
	visit := func(l loaded) error {
		id := l.profile.ID
		if prev, dup := byID[id]; dup {
			return errors.Errorf("entity %q appears twice: %s and %s", id, prev, l.path)
		}
		byID[id] = l.path
		fields := logrus.Fields{"entity": id, "path": l.path}
		if l.err != nil {
			log.WithFields(fields).WithField("error", l.err.Error()).Warn("entity excluded")
			return nil
		}
		profiles = append(profiles, l.profile)
		if l.chains == 0 {
			log.WithFields(fields).Warn("no usable chains")
		}
		return nil
	}

	if err := pipeline.ForEach(ctx, pipeline.Config{Threads: threads}, inputs, work, visit); err != nil {
		return nil, err
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].ID < profiles[j].ID })
	return profiles, nil
}

func entityID(path string) string {
	if path == "-" {
		return "stdin"
	}
	return common.EntityID(filepath.Base(path))
}
