package cli

import (
	"errors"
	"flag"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStringList(t *testing.T) {
	fs := NewFlagSet("x")
	groups := &StringList{}
	backends := &StringList{Split: true}
	fs.Var(groups, "group", "")
	fs.Var(backends, "backend", "")
	err := fs.Parse([]string{
		"--group", "af3=/d/af3,ext=cif", "--group", "chai-1=/d/chai",
		"--backend", "rmsd, tmscore", "--backend", "lddt",
	})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"af3=/d/af3,ext=cif", "chai-1=/d/chai"}, groups.Values); diff != "" {
		t.Errorf("groups (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"rmsd", "tmscore", "lddt"}, backends.Values); diff != "" {
		t.Errorf("backends (-want +got):\n%s", diff)
	}
	if backends.String() != "rmsd,tmscore,lddt" {
		t.Errorf("String() = %q", backends.String())
	}
}

func TestVisited(t *testing.T) {
	fs := NewFlagSet("x")
	var n int
	fs.IntVar(&n, "threads", 0, "")
	fs.IntVar(&n, "t", 0, "")
	var s string
	fs.StringVar(&s, "out", "metrics", "")
	if err := fs.Parse([]string{"-t", "4"}); err != nil {
		t.Fatal(err)
	}
	set := Visited(fs)
	if !AnyVisited(set, "threads", "t") || AnyVisited(set, "out") {
		t.Fatalf("visited = %v", set)
	}
}

func TestNewFlagSet_ContinueOnError(t *testing.T) {
	fs := NewFlagSet("x")
	if err := fs.Parse([]string{"--nope"}); err == nil || errors.Is(err, flag.ErrHelp) {
		t.Fatalf("want parse error, got %v", err)
	}
}
