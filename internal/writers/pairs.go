package writers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"foldbench-core/seqid"
	"foldbench/internal/jsonlutil"
	"foldbench/internal/pretty"
	"foldbench/pkg/api"
)

// PairReport is everything a redundancy writer needs.
type PairReport struct {
	Threshold float64
	Entities  int
	Header    bool
	Pairs     []seqid.Pair
	Profiles  []seqid.Profile // representatives, used by the pretty format
}

func init() {
	RegisterPairs("text", writePairsText)
	RegisterPairs("tsv", writePairsTSV)
	RegisterPairs("json", writePairsJSON)
	RegisterPairs("jsonl", writePairsJSONL)
	RegisterPairs("pretty", writePairsPretty)
}

// ToAPIPair converts a pair to its v1 wire form.
func ToAPIPair(p seqid.Pair, threshold float64) api.SimilarPairV1 {
	return api.SimilarPairV1{
		ID1:         p.ID1,
		ID2:         p.ID2,
		Protein:     p.Protein,
		Nucleic:     p.Nucleic,
		TriggeredBy: triggers(p, threshold),
	}
}

func triggers(p seqid.Pair, threshold float64) []string {
	out := []string{}
	if p.ProteinHit(threshold) {
		out = append(out, seqid.Protein.String())
	}
	if p.NucleicHit(threshold) {
		out = append(out, seqid.Nucleic.String())
	}
	return out
}

func pct(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// writePairsText prints one line per pair naming only the classes that
// crossed the threshold:
//
//	Similar pairs with sequence identity >40%:
//	7abc and 8def (protein: 45.00%, nucleic: 75.00%)
func writePairsText(w io.Writer, r PairReport) error {
	bw := bufio.NewWriter(w)
	if r.Header {
		fmt.Fprintf(bw, "Similar pairs with sequence identity >%s%%:\n", strconv.FormatFloat(r.Threshold, 'f', -1, 64))
	}
	for _, p := range r.Pairs {
		var reasons []string
		if p.ProteinHit(r.Threshold) {
			reasons = append(reasons, "protein: "+pct(p.Protein)+"%")
		}
		if p.NucleicHit(r.Threshold) {
			reasons = append(reasons, "nucleic: "+pct(p.Nucleic)+"%")
		}
		fmt.Fprintf(bw, "%s and %s (%s)\n", p.ID1, p.ID2, strings.Join(reasons, ", "))
	}
	return flush(bw)
}

// writePairsPretty is the text format with an identity block under each pair
// for every class that crossed the threshold.
func writePairsPretty(w io.Writer, r PairReport) error {
	byID := make(map[string]seqid.Profile, len(r.Profiles))
	for _, p := range r.Profiles {
		byID[p.ID] = p
	}
	bw := bufio.NewWriter(w)
	if err := writePairsText(bw, PairReport{Threshold: r.Threshold, Header: r.Header}); err != nil {
		return err
	}
	for _, p := range r.Pairs {
		if err := writePairsText(bw, PairReport{Threshold: r.Threshold, Pairs: []seqid.Pair{p}}); err != nil {
			return err
		}
		a, okA := byID[p.ID1]
		b, okB := byID[p.ID2]
		if !okA || !okB {
			continue
		}
		if p.ProteinHit(r.Threshold) {
			bw.WriteString(pretty.RenderIdentity(seqid.Protein.String(), a.ID, a.Protein, b.ID, b.Protein))
		}
		if p.NucleicHit(r.Threshold) {
			bw.WriteString(pretty.RenderIdentity(seqid.Nucleic.String(), a.ID, a.Nucleic, b.ID, b.Nucleic))
		}
	}
	return flush(bw)
}

func writePairsTSV(w io.Writer, r PairReport) error {
	bw := bufio.NewWriter(w)
	if r.Header {
		fmt.Fprintln(bw, "id1\tid2\tprotein_identity\tnucleic_identity\ttriggered_by")
	}
	for _, p := range r.Pairs {
		fmt.Fprintf(bw, "%s\t%s\t%s\t%s\t%s\n", p.ID1, p.ID2, pct(p.Protein), pct(p.Nucleic),
			strings.Join(triggers(p, r.Threshold), ","))
	}
	return flush(bw)
}

func writePairsJSON(w io.Writer, r PairReport) error {
	doc := api.RedundancyReportV1{
		Threshold: r.Threshold,
		Entities:  r.Entities,
		Pairs:     make([]api.SimilarPairV1, 0, len(r.Pairs)),
	}
	for _, p := range r.Pairs {
		doc.Pairs = append(doc.Pairs, ToAPIPair(p, r.Threshold))
	}
	return dropBrokenPipe(encodeIndented(w, doc))
}

func writePairsJSONL(w io.Writer, r PairReport) error {
	return jsonlutil.WriteAll(w, r.Pairs,
		func(enc *json.Encoder, p seqid.Pair) error {
			return enc.Encode(ToAPIPair(p, r.Threshold))
		},
		IsBrokenPipe,
	)
}

func flush(bw *bufio.Writer) error {
	return dropBrokenPipe(bw.Flush())
}
