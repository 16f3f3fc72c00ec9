// pkg/api/pairs_v1.go
package api

// SimilarPairV1 is the stable JSON/JSONL schema for one redundant entity pair.
// Identities are percentages in [0,100]; 0 also means "not comparable".
type SimilarPairV1 struct {
	ID1         string   `json:"id1"`
	ID2         string   `json:"id2"`
	Protein     float64  `json:"protein_identity"`
	Nucleic     float64  `json:"nucleic_identity"`
	TriggeredBy []string `json:"triggered_by"` // "protein" | "nucleic"
}

// RedundancyReportV1 wraps all pairs for the json output format.
type RedundancyReportV1 struct {
	Threshold float64         `json:"threshold"`
	Entities  int             `json:"entities"`
	Pairs     []SimilarPairV1 `json:"pairs"`
}
