package common

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestUniqueLower(t *testing.T) {
	got := UniqueLower([]string{" RMSD", "tmscore", "rmsd", "", "LDDT "})
	if diff := cmp.Diff([]string{"rmsd", "tmscore", "lddt"}, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestEntityID(t *testing.T) {
	for in, want := range map[string]string{
		"7abc.fasta":    "7abc",
		"7abc.fasta.gz": "7abc",
		"noext":         "noext",
		".hidden":       "",
	} {
		if got := EntityID(in); got != want {
			t.Errorf("EntityID(%q) = %q, want %q", in, got, want)
		}
	}
}
