// pkg/api/metrics_v1.go
package api

// MetricRowV1 is one scored entity of a group × backend table.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type MetricRowV1 struct {
	Group   string  `json:"group"`
	Backend string  `json:"backend"`
	Entity  string  `json:"entity"`
	Metric  string  `json:"metric"`
	Value   float64 `json:"value"`
}

// AbsentV1 names an entity left out of a table and why.
type AbsentV1 struct {
	Entity string `json:"entity"`
	Reason string `json:"reason"` // counterpart_missing | tool_failed | output_unparseable | reference_missing
	Path   string `json:"path,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// TableSummaryV1 describes one written table.
type TableSummaryV1 struct {
	Group   string        `json:"group"`
	Backend string        `json:"backend"`
	Metric  string        `json:"metric"`
	File    string        `json:"file"`
	Scored  int           `json:"scored"`
	Rows    []MetricRowV1 `json:"rows,omitempty"`
	Absent  []AbsentV1    `json:"absent,omitempty"`
	Orphans []AbsentV1    `json:"orphans,omitempty"`
}

// RunSummaryV1 is the --summary document of a scoring run.
type RunSummaryV1 struct {
	RunID     string           `json:"run_id"`
	Version   string           `json:"version"`
	Reference string           `json:"reference"`
	Entities  int              `json:"entities"`
	Tables    []TableSummaryV1 `json:"tables"`
}
