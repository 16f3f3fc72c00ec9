// Package seqid classifies sequence chains, picks per-entity representative
// chains and computes position-wise percent identity between entities.
//
// Identity is deliberately alignment-free: two representatives are compared
// only when their lengths are equal. Anything else scores 0.
package seqid

import (
	"sort"
	"unicode"

	mapset "github.com/deckarep/golang-set/v2"

	"foldbench-core/fasta"
)

// DefaultThreshold is the percent identity above which a pair is reported.
const DefaultThreshold = 40.0

// Class is the coarse molecule type assigned to a chain.
type Class int

const (
	Protein Class = iota
	Nucleic
)

func (c Class) String() string {
	if c == Nucleic {
		return "nucleic"
	}
	return "protein"
}

var nucleicAlphabet = mapset.NewThreadUnsafeSet('A', 'T', 'C', 'G', 'U')

// Classify reports Nucleic when every residue (case-insensitive) is one of
// A, T, C, G or U, and Protein otherwise. It is a heuristic: a peptide made
// only of Ala/Thr/Cys/Gly reads as nucleic.
func Classify(seq string) Class {
	for _, r := range seq {
		if !nucleicAlphabet.Contains(unicode.ToUpper(r)) {
			return Protein
		}
	}
	return Nucleic
}

// Profile holds the representative chains of one entity. An empty string
// means the entity has no chain of that class.
type Profile struct {
	ID      string
	Protein string
	Nucleic string
}

// Representatives picks the longest protein and the longest nucleic chain.
// On equal length the chain seen first wins. Empty chains are ignored.
func Representatives(id string, chains []fasta.Chain) Profile {
	p := Profile{ID: id}
	for _, c := range chains {
		if c.Seq == "" {
			continue
		}
		switch Classify(c.Seq) {
		case Nucleic:
			if len(c.Seq) > len(p.Nucleic) {
				p.Nucleic = c.Seq
			}
		default:
			if len(c.Seq) > len(p.Protein) {
				p.Protein = c.Seq
			}
		}
	}
	return p
}

// Identity returns the percentage of positions at which a and b carry the
// same residue, ignoring case. It is 0 when either is empty or the lengths
// differ.
func Identity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(ra) != len(rb) {
		return 0
	}
	match := 0
	for i := range ra {
		if unicode.ToUpper(ra[i]) == unicode.ToUpper(rb[i]) {
			match++
		}
	}
	return float64(match) / float64(len(ra)) * 100
}

// Pair is two entities whose representatives look alike.
type Pair struct {
	ID1, ID2 string
	Protein  float64
	Nucleic  float64
}

// ProteinHit reports whether the protein identity exceeds threshold.
func (p Pair) ProteinHit(threshold float64) bool { return p.Protein > threshold }

// NucleicHit reports whether the nucleic identity exceeds threshold.
func (p Pair) NucleicHit(threshold float64) bool { return p.Nucleic > threshold }

// Compare computes both identities for a and b.
func Compare(a, b Profile) Pair {
	return Pair{
		ID1:     a.ID,
		ID2:     b.ID,
		Protein: Identity(a.Protein, b.Protein),
		Nucleic: Identity(a.Nucleic, b.Nucleic),
	}
}

// FindSimilar compares every unordered pair of profiles and keeps those where
// either identity is strictly above threshold. Profiles are ordered by ID
// first, so ID1 < ID2 and the result is sorted by (ID1, ID2).
func FindSimilar(profiles []Profile, threshold float64) []Pair {
	sorted := append([]Profile(nil), profiles...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	var out []Pair
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			p := Compare(sorted[i], sorted[j])
			if p.ProteinHit(threshold) || p.NucleicHit(threshold) {
				out = append(out, p)
			}
		}
	}
	return out
}
