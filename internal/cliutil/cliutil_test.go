package cliutil

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitFlagsAndPositionals(t *testing.T) {
	fs := flag.NewFlagSet("x", flag.ContinueOnError)
	fs.Bool("quiet", false, "")
	fs.String("output", "", "")
	fs.Int("t", 0, "")

	flagArgs, posArgs := SplitFlagsAndPositionals(fs, []string{
		"dir1", "--quiet", "-o=json", "--output", "tsv", "-", "-t", "4", "--", "--not-a-flag",
	})
	if diff := cmp.Diff([]string{"--quiet", "-o=json", "--output", "tsv", "-t", "4"}, flagArgs); diff != "" {
		t.Errorf("flags (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"dir1", "-", "--not-a-flag"}, posArgs); diff != "" {
		t.Errorf("positionals (-want +got):\n%s", diff)
	}
}

func TestExpandPositionals(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.fasta")
	b := filepath.Join(dir, "b.fasta")
	for _, p := range []string{a, b} {
		if err := os.WriteFile(p, []byte(">x\nA\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	got, err := ExpandPositionals([]string{b, filepath.Join(dir, "*.fasta"), "-"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{b, a, "-"}, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	if _, err := ExpandPositionals([]string{filepath.Join(dir, "*.pdb")}); err == nil {
		t.Fatal("expected error for a glob with no match")
	}
}
