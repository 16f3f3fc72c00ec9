package aggregate

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"foldbench/internal/config"
	"foldbench/internal/metrics"
	"foldbench/internal/pairing"
	"foldbench/internal/scorer"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte(n), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// jsonLog returns a logger writing JSON lines into buf.
func jsonLog(buf *bytes.Buffer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(buf)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(logrus.InfoLevel)
	return l
}

func logEntries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("bad log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

// fixture: refs 1abc..4jkl, group has 1abc, 2def, 4jkl (3ghi missing).
// The fake scorer reads the model file content to pick its behaviour.
func fixture(t *testing.T) ([]pairing.Entity, config.Group) {
	t.Helper()
	refDir, grpDir := t.TempDir(), t.TempDir()
	touch(t, refDir, "4jkl.pdb", "2def.pdb", "1abc.pdb", "3ghi.pdb")
	touch(t, grpDir, "af3_1abc.cif", "af3_2def.cif", "af3_4jkl.cif")
	refs, err := pairing.ListReferences(refDir, ".pdb")
	if err != nil {
		t.Fatal(err)
	}
	return refs, config.Group{Name: "af3", Dir: grpDir, Ext: ".cif", Naming: config.NamingPrefixed}
}

func fakeBackend(s scorer.Scorer) scorer.Backend {
	return scorer.Backend{Name: "tmscore", Metric: "TM-score", FilePrefix: "tm_score", Match: config.MatchIdentifier, Scorer: s}
}

func TestRun_SortedRowsAndOneWarningPerAbsence(t *testing.T) {
	refs, g := fixture(t)
	s := scorer.Func(func(_ context.Context, ref, model string) (scorer.Result, error) {
		switch filepath.Base(model) {
		case "af3_1abc.cif":
			return scorer.Result{Value: 0.91}, nil
		case "af3_2def.cif":
			return scorer.Result{}, &scorer.Error{Kind: scorer.OutputUnparseable, Path: model}
		default:
			return scorer.Result{Value: 0.42}, nil
		}
	})
	var buf bytes.Buffer
	rec := metrics.New()
	tbl, err := New(Options{Threads: 3, Log: jsonLog(&buf), Metrics: rec}).Run(context.Background(), refs, g, fakeBackend(s))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []Row{{"1abc", 0.91}, {"4jkl", 0.42}}
	if diff := cmp.Diff(want, tbl.Rows); diff != "" {
		t.Fatalf("rows (-want +got):\n%s", diff)
	}
	var reasons []string
	for _, a := range tbl.Absent {
		reasons = append(reasons, a.Entity+":"+a.Reason.String())
	}
	if diff := cmp.Diff([]string{"2def:output_unparseable", "3ghi:counterpart_missing"}, reasons); diff != "" {
		t.Fatalf("absent (-want +got):\n%s", diff)
	}

	entries := logEntries(t, &buf)
	perEntity := map[string]int{}
	for _, e := range entries {
		if e["level"] == "warning" {
			perEntity[e["entity"].(string)]++
			if e["group"] != "af3" || e["backend"] != "tmscore" {
				t.Errorf("missing context fields: %v", e)
			}
		}
	}
	if diff := cmp.Diff(map[string]int{"2def": 1, "3ghi": 1}, perEntity); diff != "" {
		t.Fatalf("warnings per entity (-want +got):\n%s", diff)
	}
}

func TestRun_ToolFailureCarriesStderr(t *testing.T) {
	refs, g := fixture(t)
	s := scorer.Func(func(_ context.Context, _, model string) (scorer.Result, error) {
		return scorer.Result{}, &scorer.Error{Kind: scorer.ToolInvocationFailed, Path: model, Stderr: "segfault", Err: errors.New("exit status 139")}
	})
	var buf bytes.Buffer
	tbl, err := New(Options{Log: jsonLog(&buf)}).Run(context.Background(), refs, g, fakeBackend(s))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(tbl.Rows) != 0 || len(tbl.Absent) != 4 {
		t.Fatalf("rows=%d absent=%d", len(tbl.Rows), len(tbl.Absent))
	}
	var sawStderr bool
	for _, e := range logEntries(t, &buf) {
		if e["reason"] == "tool_failed" && e["stderr"] == "segfault" {
			sawStderr = true
		}
	}
	if !sawStderr {
		t.Fatalf("stderr not logged:\n%s", buf.String())
	}
}

func TestRun_PlainErrorIsToolFailure(t *testing.T) {
	refs, g := fixture(t)
	s := scorer.Func(func(context.Context, string, string) (scorer.Result, error) {
		return scorer.Result{}, errors.New("in-process scorer failed")
	})
	tbl, err := New(Options{}).Run(context.Background(), refs[:1], g, fakeBackend(s))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(tbl.Absent) != 1 || tbl.Absent[0].Reason != scorer.ToolInvocationFailed {
		t.Fatalf("absent = %+v", tbl.Absent)
	}
}

func TestRun_ExecutableNotFoundAborts(t *testing.T) {
	refs, g := fixture(t)
	var calls sync.Map
	s := scorer.Func(func(_ context.Context, ref, _ string) (scorer.Result, error) {
		calls.Store(ref, true)
		return scorer.Result{}, &scorer.Error{Kind: scorer.ExecutableNotFound, Path: "./TMscore", Err: os.ErrNotExist}
	})
	tbl, err := New(Options{Threads: 1}).Run(context.Background(), refs, g, fakeBackend(s))
	if !scorer.IsFatal(err) {
		t.Fatalf("want fatal error, got %v", err)
	}
	if tbl.Rows != nil || tbl.Group != "" {
		t.Fatalf("no table expected on fatal error: %+v", tbl)
	}
	n := 0
	calls.Range(func(_, _ any) bool { n++; return true })
	if n >= 3 {
		t.Fatalf("run should stop after the first fatal error, scored %d", n)
	}
}

func TestRun_Cancelled(t *testing.T) {
	refs, g := fixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	s := scorer.Func(func(ctx context.Context, _, _ string) (scorer.Result, error) {
		cancel()
		<-ctx.Done()
		return scorer.Result{}, ctx.Err()
	})
	if _, err := New(Options{Threads: 2}).Run(ctx, refs, g, fakeBackend(s)); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestRun_FilenameMatchReportsAndOrphans(t *testing.T) {
	refDir, grpDir := t.TempDir(), t.TempDir()
	touch(t, refDir, "1abc.pdb", "2def.pdb")
	touch(t, grpDir, "1abc.pdb", "2def.pdb", "7xyz.v2.pdb", "9xyz.pdb")
	refs, err := pairing.ListReferences(refDir, ".pdb")
	if err != nil {
		t.Fatal(err)
	}
	g := config.Group{Name: "hdock", Dir: grpDir, Ext: ".pdb", Naming: config.NamingPrefixed}
	b := scorer.Backend{
		Name: "lddt", Metric: "lDDT", FilePrefix: "lddt", Match: config.MatchFilename, SaveReports: true,
		Scorer: scorer.Func(func(_ context.Context, ref, model string) (scorer.Result, error) {
			if filepath.Base(ref) != filepath.Base(model) {
				t.Errorf("filename match broken: %s vs %s", ref, model)
			}
			return scorer.Result{Value: 0.7, Report: "Global LDDT score: 0.7\n"}, nil
		}),
	}
	reports := map[string]string{}
	opts := Options{
		Threads: 2,
		OnReport: func(group, backend, entity, report string) error {
			reports[group+"/"+backend+"/"+entity] = report
			return nil
		},
	}
	tbl, err := New(opts).Run(context.Background(), refs, g, b)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(tbl.Rows) != 2 || len(reports) != 2 || reports["hdock/lddt/1abc"] == "" {
		t.Fatalf("rows=%v reports=%v", tbl.Rows, reports)
	}
	wantOrphans := []Absence{
		{Entity: "7xyz.v2", Reason: scorer.ReferenceMissing, Path: filepath.Join(grpDir, "7xyz.v2.pdb")},
		{Entity: "9xyz", Reason: scorer.ReferenceMissing, Path: filepath.Join(grpDir, "9xyz.pdb")},
	}
	if diff := cmp.Diff(wantOrphans, tbl.Orphans); diff != "" {
		t.Fatalf("orphans (-want +got):\n%s", diff)
	}
}

func TestRun_ReportSinkErrorFails(t *testing.T) {
	refs, g := fixture(t)
	b := fakeBackend(scorer.Func(func(context.Context, string, string) (scorer.Result, error) {
		return scorer.Result{Value: 1}, nil
	}))
	b.SaveReports = true
	sinkErr := errors.New("disk full")
	_, err := New(Options{OnReport: func(string, string, string, string) error { return sinkErr }}).
		Run(context.Background(), refs, g, b)
	if !errors.Is(err, sinkErr) {
		t.Fatalf("want sink error, got %v", err)
	}
}

func TestRun_Deterministic(t *testing.T) {
	refs, g := fixture(t)
	s := scorer.Func(func(_ context.Context, ref, _ string) (scorer.Result, error) {
		return scorer.Result{Value: float64(len(ref))}, nil
	})
	first, err := New(Options{Threads: 4}).Run(context.Background(), refs, g, fakeBackend(s))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := New(Options{Threads: 4}).Run(context.Background(), refs, g, fakeBackend(s))
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("run %d differs:\n%s", i, diff)
		}
	}
}
