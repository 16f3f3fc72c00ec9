// Package writers turns run results into files and report streams.
//
// Metric tables are CSV files written atomically (temp file + rename), so a
// table on disk is either absent or complete. Redundancy reports are
// dispatched by format through a registry; JSON/JSONL go through pkg/api (v1)
// for a stable wire format.
package writers
