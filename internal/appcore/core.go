// internal/appcore/core.go
package appcore

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"foldbench/internal/aggregate"
	"foldbench/internal/config"
	"foldbench/internal/metrics"
	"foldbench/internal/pairing"
	"foldbench/internal/runutil"
	"foldbench/internal/scorer"
	"foldbench/internal/version"
	"foldbench/internal/writers"
	"foldbench/pkg/api"
)

// Written is one table on disk.
type Written struct {
	Table aggregate.Table
	File  string
}

// Result is what a scoring run produced.
type Result struct {
	RunID    string
	Entities int
	Tables   []Written
}

// Rows counts rows across all tables.
func (r Result) Rows() int {
	n := 0
	for _, w := range r.Tables {
		n += len(w.Table.Rows)
	}
	return n
}

// Preflight resolves every backend's executable before any work starts.
func Preflight(backends []scorer.Backend) error {
	for _, b := range backends {
		if err := b.Preflight(); err != nil {
			return errors.Wrapf(err, "backend %s", b.Name)
		}
	}
	return nil
}

// Score runs every backend over every group, writing each table as soon as
// its group is complete. A fatal scorer error or cancellation stops the run;
// tables already written stay complete.
func Score(ctx context.Context, cfg config.Config, backends []scorer.Backend, log *logrus.Entry, rec *metrics.Recorder) (Result, error) {
	res := Result{RunID: runIDOf(log)}

	refs, err := pairing.ListReferences(cfg.Reference.Dir, cfg.Reference.Ext)
	if err != nil {
		return res, err
	}
	res.Entities = len(refs)
	if len(refs) == 0 {
		log.WithFields(logrus.Fields{"dir": cfg.Reference.Dir, "ext": cfg.Reference.Ext}).Warn("no reference files found")
		return res, nil
	}
	log.WithField("entities", len(refs)).Info("references loaded")

	agg := aggregate.New(aggregate.Options{
		Threads:  runutil.EffectiveThreads(cfg.Threads),
		Log:      log,
		Metrics:  rec,
		OnReport: writers.ReportSink(cfg.ReportsDir),
	})

	for _, b := range backends {
		for _, g := range cfg.Groups {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			t, err := agg.Run(ctx, refs, g, b)
			if err != nil {
				return res, errors.WithMessagef(err, "%s/%s", b.Name, g.Name)
			}
			file, err := writers.WriteTable(cfg.OutputDir, t)
			if err != nil {
				return res, err
			}
			log.WithFields(logrus.Fields{
				"backend": b.Name, "group": g.Name, "file": file,
				"rows": len(t.Rows), "absent": len(t.Absent),
			}).Info("table written")
			res.Tables = append(res.Tables, Written{Table: t, File: file})
		}
	}
	return res, nil
}

// Summary converts a result to its v1 wire form.
func Summary(res Result, cfg config.Config) api.RunSummaryV1 {
	s := api.RunSummaryV1{
		RunID:     res.RunID,
		Version:   version.Version,
		Reference: cfg.Reference.Dir,
		Entities:  res.Entities,
		Tables:    make([]api.TableSummaryV1, 0, len(res.Tables)),
	}
	for _, w := range res.Tables {
		s.Tables = append(s.Tables, api.TableSummaryV1{
			Group:   w.Table.Group,
			Backend: w.Table.Backend,
			Metric:  w.Table.Metric,
			File:    w.File,
			Scored:  len(w.Table.Rows),
			Rows:    toAPIRows(w.Table),
			Absent:  toAPIAbsent(w.Table.Absent),
			Orphans: toAPIAbsent(w.Table.Orphans),
		})
	}
	return s
}

func toAPIRows(t aggregate.Table) []api.MetricRowV1 {
	if len(t.Rows) == 0 {
		return nil
	}
	out := make([]api.MetricRowV1, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = api.MetricRowV1{Group: t.Group, Backend: t.Backend, Entity: r.Entity, Metric: t.Metric, Value: r.Value}
	}
	return out
}

func toAPIAbsent(in []aggregate.Absence) []api.AbsentV1 {
	if len(in) == 0 {
		return nil
	}
	out := make([]api.AbsentV1, len(in))
	for i, a := range in {
		out[i] = api.AbsentV1{Entity: a.Entity, Reason: a.Reason.String(), Path: a.Path, Detail: a.Detail}
	}
	return out
}

func runIDOf(log *logrus.Entry) string {
	if id, ok := log.Data["run_id"].(string); ok {
		return id
	}
	return ""
}
