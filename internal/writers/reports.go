package writers

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"foldbench/pkg/api"
)

// ReportFileName is <group>_<entity>.<backend>.txt.
func ReportFileName(group, backend, entity string) string {
	return group + "_" + entity + "." + backend + ".txt"
}

// ReportSink returns a function saving raw tool reports under dir.
func ReportSink(dir string) func(group, backend, entity, report string) error {
	return func(group, backend, entity, report string) error {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create reports dir")
		}
		path := filepath.Join(dir, ReportFileName(group, backend, entity))
		if err := os.WriteFile(path, []byte(report), 0o644); err != nil {
			return errors.Wrapf(err, "write report %s", path)
		}
		return nil
	}
}

// WriteSummary writes s as indented JSON to path.
func WriteSummary(path string, s api.RunSummaryV1) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create summary dir")
		}
	}
	err := writeAtomic(path, func(f *os.File) error {
		return encodeIndented(f, s)
	})
	return errors.Wrapf(err, "write summary %s", path)
}
