package writers

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"foldbench/internal/aggregate"
)

// TableFileName is <prefix>_<group>.csv.
func TableFileName(t aggregate.Table) string {
	return t.FilePrefix + "_" + t.Group + ".csv"
}

// FormatScore prints the shortest representation that round-trips, keeping
// a ".0" on integral values so every cell reads as a float.
func FormatScore(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return s
	}
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// WriteTable writes t into dir as CSV with header "Structure,<Metric>" and
// returns the path. The file is replaced atomically.
func WriteTable(dir string, t aggregate.Table) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create output dir")
	}
	path := filepath.Join(dir, TableFileName(t))
	err := writeAtomic(path, func(f *os.File) error {
		cw := csv.NewWriter(f)
		if err := cw.Write([]string{"Structure", t.Metric}); err != nil {
			return err
		}
		for _, r := range t.Rows {
			if err := cw.Write([]string{r.Entity, FormatScore(r.Value)}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
	if err != nil {
		return "", errors.Wrapf(err, "write table %s", path)
	}
	return path, nil
}

// writeAtomic fills a temp file next to path and renames it into place.
func writeAtomic(path string, fill func(*os.File) error) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if err := fill(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(0o644); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
