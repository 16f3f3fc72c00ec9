// Package pairing enumerates reference entities and resolves the predicted
// counterpart of each entity inside a comparison group.
package pairing

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"

	"foldbench/internal/config"
)

// Entity is one reference structure keyed by its identifier.
type Entity struct {
	ID   string
	Path string
}

// ListReferences returns the files in dir whose extension equals ext
// (case-insensitive), sorted by identifier. The identifier is the file name
// with the extension stripped.
func ListReferences(dir, ext string) ([]Entity, error) {
	names, err := filesWithExt(dir, ext)
	if err != nil {
		return nil, errors.Wrap(err, "list references")
	}
	out := make([]Entity, 0, len(names))
	seen := make(map[string]string, len(names))
	for _, name := range names {
		id := IDFromName(name, ext)
		if prev, dup := seen[id]; dup {
			return nil, errors.Errorf("reference id %q is ambiguous: %s and %s", id, prev, name)
		}
		seen[id] = name
		out = append(out, Entity{ID: id, Path: filepath.Join(dir, name)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// IDFromName strips ext from a file name already matched against it
// (case-insensitively). Inner dots stay: "7xyz.v2.pdb" is entity "7xyz.v2".
func IDFromName(name, ext string) string {
	if len(name) > len(ext) && strings.EqualFold(name[len(name)-len(ext):], ext) {
		return name[:len(name)-len(ext)]
	}
	return name
}

// Matcher maps a reference entity to the path its counterpart should have.
type Matcher interface {
	Counterpart(ref Entity) string
}

// ByIdentifier expects <Dir>/<Prefix><id><Ext>.
type ByIdentifier struct {
	Dir    string
	Prefix string
	Ext    string
}

func (m ByIdentifier) Counterpart(ref Entity) string {
	return filepath.Join(m.Dir, m.Prefix+ref.ID+m.Ext)
}

// SameFilename expects the reference file name unchanged inside Dir.
type SameFilename struct {
	Dir string
}

func (m SameFilename) Counterpart(ref Entity) string {
	return filepath.Join(m.Dir, filepath.Base(ref.Path))
}

// ForGroup picks the matcher for a backend match mode within group g.
func ForGroup(match string, g config.Group) Matcher {
	if match == config.MatchFilename {
		return SameFilename{Dir: g.Dir}
	}
	return ByIdentifier{Dir: g.Dir, Prefix: g.FilePrefix(), Ext: g.Ext}
}

// Exists reports whether path names an existing non-directory.
func Exists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

// Orphans lists files in dir with extension ext that no reference maps to,
// sorted by name. A missing dir yields no orphans.
func Orphans(m Matcher, refs []Entity, dir, ext string) ([]string, error) {
	names, err := filesWithExt(dir, ext)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "list predictions")
	}
	expected := mapset.NewThreadUnsafeSetWithSize[string](len(refs))
	for _, r := range refs {
		expected.Add(filepath.Base(m.Counterpart(r)))
	}
	present := mapset.NewThreadUnsafeSet(names...)
	out := present.Difference(expected).ToSlice()
	sort.Strings(out)
	return out, nil
}

func filesWithExt(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if len(name) > len(ext) && strings.EqualFold(name[len(name)-len(ext):], ext) {
			out = append(out, name)
		}
	}
	return out, nil
}
