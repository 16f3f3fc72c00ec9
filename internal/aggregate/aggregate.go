// Package aggregate scores every reference entity of one comparison group
// with one backend and collects the results into a sorted table.
package aggregate

import (
	"context"
	"io"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"foldbench/internal/config"
	"foldbench/internal/metrics"
	"foldbench/internal/pairing"
	"foldbench/internal/pipeline"
	"foldbench/internal/scorer"
)

// Row is a Metric Record with a present score.
type Row struct {
	Entity string
	Value  float64
}

// Absence records why an entity (or an orphan prediction) has no row.
type Absence struct {
	Entity string
	Reason scorer.Kind
	Path   string
	Detail string
}

// Table is the result of one group × backend run. Rows and Absent are
// sorted by entity id.
type Table struct {
	Group      string
	Backend    string
	Metric     string
	FilePrefix string
	Rows       []Row
	Absent     []Absence
	Orphans    []Absence
}

// ReportFunc receives the full tool output of a scored entity.
type ReportFunc func(group, backend, entity, report string) error

// Options configures an Aggregator. Zero values are usable: one thread,
// a discarded logger, no metrics, no report sink.
type Options struct {
	Threads  int
	Log      logrus.FieldLogger
	Metrics  *metrics.Recorder
	OnReport ReportFunc
}

type Aggregator struct {
	opts Options
}

func New(opts Options) *Aggregator {
	if opts.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Log = l
	}
	return &Aggregator{opts: opts}
}

type outcome struct {
	entity  string
	value   float64
	report  string
	absence *Absence
	stderr  string
}

// Run scores refs against group g with backend b. Per-entity failures become
// Absent entries with one warning each; a missing executable or a cancelled
// ctx aborts and returns the error with no table.
func (a *Aggregator) Run(ctx context.Context, refs []pairing.Entity, g config.Group, b scorer.Backend) (Table, error) {
	t := Table{Group: g.Name, Backend: b.Name, Metric: b.Metric, FilePrefix: b.FilePrefix}
	m := pairing.ForGroup(b.Match, g)
	log := a.opts.Log.WithFields(logrus.Fields{"group": g.Name, "backend": b.Name})

	work := func(ctx context.Context, ref pairing.Entity) (outcome, error) {
		cp := m.Counterpart(ref)
		if !pairing.Exists(cp) {
			return outcome{entity: ref.ID, absence: &Absence{Entity: ref.ID, Reason: scorer.CounterpartMissing, Path: cp}}, nil
		}
		start := time.Now()
		res, err := b.Scorer.Score(ctx, ref.Path, cp)
		a.opts.Metrics.ObserveTool(b.Name, time.Since(start))
		if err == nil {
			return outcome{entity: ref.ID, value: res.Value, report: res.Report}, nil
		}
		if ctx.Err() != nil {
			return outcome{}, ctx.Err()
		}
		var se *scorer.Error
		if !errors.As(err, &se) {
			se = &scorer.Error{Kind: scorer.ToolInvocationFailed, Path: cp, Err: err}
		}
		se.Entity = ref.ID
		if scorer.IsFatal(se) {
			return outcome{}, se
		}
		ab := &Absence{Entity: ref.ID, Reason: se.Kind, Path: cp}
		if se.Err != nil {
			ab.Detail = se.Err.Error()
		}
		return outcome{entity: ref.ID, absence: ab, stderr: se.Stderr}, nil
	}

	visit := func(o outcome) error {
		if o.absence != nil {
			t.Absent = append(t.Absent, *o.absence)
			a.warn(log, *o.absence, o.stderr)
			a.opts.Metrics.Absent(b.Name, g.Name, o.absence.Reason.String())
			return nil
		}
		t.Rows = append(t.Rows, Row{Entity: o.entity, Value: o.value})
		a.opts.Metrics.Scored(b.Name, g.Name)
		log.WithField("entity", o.entity).Debugf("%s = %g", b.Metric, o.value)
		if b.SaveReports && a.opts.OnReport != nil {
			if err := a.opts.OnReport(g.Name, b.Name, o.entity, o.report); err != nil {
				return err
			}
		}
		return nil
	}

	if err := pipeline.ForEach(ctx, pipeline.Config{Threads: a.opts.Threads}, refs, work, visit); err != nil {
		return Table{}, err
	}

	sort.Slice(t.Rows, func(i, j int) bool { return t.Rows[i].Entity < t.Rows[j].Entity })
	sort.Slice(t.Absent, func(i, j int) bool { return t.Absent[i].Entity < t.Absent[j].Entity })

	if b.Match == config.MatchFilename && len(refs) > 0 {
		ext := filepath.Ext(refs[0].Path)
		orphans, err := pairing.Orphans(m, refs, g.Dir, ext)
		if err != nil {
			return Table{}, err
		}
		for _, name := range orphans {
			ab := Absence{Entity: pairing.IDFromName(name, ext), Reason: scorer.ReferenceMissing, Path: filepath.Join(g.Dir, name)}
			t.Orphans = append(t.Orphans, ab)
			a.warn(log, ab, "")
			a.opts.Metrics.Absent(b.Name, g.Name, ab.Reason.String())
		}
	}
	return t, nil
}

func (a *Aggregator) warn(log logrus.FieldLogger, ab Absence, stderr string) {
	e := log.WithFields(logrus.Fields{"entity": ab.Entity, "reason": ab.Reason.String(), "path": ab.Path})
	if stderr != "" {
		e = e.WithField("stderr", stderr)
	}
	if ab.Detail != "" {
		e = e.WithField("error", ab.Detail)
	}
	e.Warn("entity excluded")
}
