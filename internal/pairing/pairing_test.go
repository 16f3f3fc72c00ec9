package pairing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"foldbench/internal/config"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("ATOM\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", n, err)
		}
	}
}

func TestListReferences_SortedCaseInsensitiveExt(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "8xyz.pdb", "1abc.PDB", "7def.cif", "notes.txt", "5ghi.pdb")
	if err := os.Mkdir(filepath.Join(dir, "sub.pdb"), 0o755); err != nil {
		t.Fatal(err)
	}
	refs, err := ListReferences(dir, ".pdb")
	if err != nil {
		t.Fatalf("ListReferences: %v", err)
	}
	var ids []string
	for _, r := range refs {
		ids = append(ids, r.ID)
	}
	if diff := cmp.Diff([]string{"1abc", "5ghi", "8xyz"}, ids); diff != "" {
		t.Fatalf("ids (-want +got):\n%s", diff)
	}
	if refs[0].Path != filepath.Join(dir, "1abc.PDB") {
		t.Fatalf("path = %q", refs[0].Path)
	}
}

func TestListReferences_AmbiguousID(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "1abc.pdb", "1abc.PDB")
	if _, err := ListReferences(dir, ".pdb"); err == nil {
		t.Skip("case-insensitive filesystem")
	}
}

func TestListReferences_MissingDir(t *testing.T) {
	if _, err := ListReferences(filepath.Join(t.TempDir(), "absent"), ".pdb"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestForGroup(t *testing.T) {
	ref := Entity{ID: "1abc", Path: "/refs/1abc.pdb"}
	cases := []struct {
		match string
		g     config.Group
		want  string
	}{
		{config.MatchIdentifier, config.Group{Name: "alphafold3", Dir: "/af3", Ext: ".cif", Naming: config.NamingPlain}, "/af3/1abc.cif"},
		{config.MatchIdentifier, config.Group{Name: "protenix", Dir: "/ptx", Ext: ".cif", Naming: config.NamingPrefixed}, "/ptx/protenix_1abc.cif"},
		{config.MatchIdentifier, config.Group{Name: "chai-1", Dir: "/chai", Ext: ".cif", Naming: config.NamingPrefixed, Prefix: "chai_"}, "/chai/chai_1abc.cif"},
		{config.MatchFilename, config.Group{Name: "hdock", Dir: "/hdock", Ext: ".pdb", Naming: config.NamingPrefixed}, "/hdock/1abc.pdb"},
	}
	for _, c := range cases {
		if got := ForGroup(c.match, c.g).Counterpart(ref); got != c.want {
			t.Errorf("%s/%s: got %q want %q", c.g.Name, c.match, got, c.want)
		}
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdb")
	if !Exists(filepath.Join(dir, "a.pdb")) {
		t.Fatalf("file should exist")
	}
	if Exists(dir) || Exists(filepath.Join(dir, "b.pdb")) {
		t.Fatalf("dir or missing file must not count")
	}
}

func TestOrphans(t *testing.T) {
	refDir, grpDir := t.TempDir(), t.TempDir()
	touch(t, refDir, "1abc.pdb", "2def.pdb")
	touch(t, grpDir, "1abc.pdb", "9zzz.pdb", "3xyz.pdb", "readme.md")
	refs, err := ListReferences(refDir, ".pdb")
	if err != nil {
		t.Fatal(err)
	}
	got, err := Orphans(SameFilename{Dir: grpDir}, refs, grpDir, ".pdb")
	if err != nil {
		t.Fatalf("Orphans: %v", err)
	}
	if diff := cmp.Diff([]string{"3xyz.pdb", "9zzz.pdb"}, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	none, err := Orphans(SameFilename{Dir: "x"}, refs, filepath.Join(grpDir, "absent"), ".pdb")
	if err != nil || len(none) != 0 {
		t.Fatalf("missing dir: %v %v", none, err)
	}
}

func TestIDFromName(t *testing.T) {
	cases := map[string]string{
		"1abc.pdb":    "1abc",
		"1ABC.PDB":    "1ABC",
		"7xyz.v2.pdb": "7xyz.v2",
		"notes.txt":   "notes.txt",
		".pdb":        ".pdb",
	}
	for name, want := range cases {
		if got := IDFromName(name, ".pdb"); got != want {
			t.Errorf("IDFromName(%q) = %q, want %q", name, got, want)
		}
	}
}
