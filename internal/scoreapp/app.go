// internal/scoreapp/app.go
package scoreapp

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"foldbench/internal/appcore"
	"foldbench/internal/clibase"
	"foldbench/internal/cmdutil"
	"foldbench/internal/logging"
	"foldbench/internal/metrics"
	"foldbench/internal/runutil"
	"foldbench/internal/scorecli"
	"foldbench/internal/scorer"
	"foldbench/internal/version"
	"foldbench/internal/writers"
)

const name = "foldbench-score"

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)

	fs := scorecli.NewFlagSet(name)
	if len(argv) == 0 {
		argv = []string{"-h"}
	}
	opts, err := scorecli.ParseArgs(fs, argv)
	if err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			fs.SetOutput(outw)
			fs.Usage()
			return cmdutil.Flush(outw, stderr)
		case errors.Is(err, clibase.ErrPrintedAndExitOK):
			scorecli.PrintExamples(outw)
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
	backends, err := scorer.Build(cfg)
	if err != nil {
		log.WithError(err).Error("invalid configuration")
		return cmdutil.ExitUsage
	}
	if err := appcore.Preflight(backends); err != nil {
		log.WithError(err).Error("scoring executable not found")
		return cmdutil.ExitNotFound
	}

	var rec *metrics.Recorder
	if cfg.MetricsFile != "" {
		rec = metrics.New()
	}

	res, runErr := appcore.Score(parent, cfg, backends, log, rec)

	// Summary and metrics describe whatever completed, even after an abort.
	if cfg.SummaryFile != "" {
		if err := writers.WriteSummary(cfg.SummaryFile, appcore.Summary(res, cfg)); err != nil {
			log.WithError(err).Error("summary not written")
			if runErr == nil {
				runErr = err
			}
		}
	}
	if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
		log.WithError(err).Error("metrics not written")
		if runErr == nil {
			runErr = err
		}
	}

	if runErr != nil {
		code := cmdutil.CodeFor(runErr)
		switch code {
		case cmdutil.ExitCancelled:
			log.Warn("cancelled")
		case cmdutil.ExitNotFound:
			log.WithError(runErr).Error("scoring executable not found")
		default:
			log.WithError(runErr).Error("run failed")
		}
		return code
	}

	log.WithFields(logrus.Fields{"tables": len(res.Tables), "rows": res.Rows()}).Info("done")
	if res.Rows() == 0 {
		return opts.NoResultExitCode
	}
	return cmdutil.ExitOK
}
