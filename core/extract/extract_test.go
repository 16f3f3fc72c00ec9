package extract

import "testing"

const tmscoreReport = `
 *****************************************************************************
 *                                 TM-SCORE                                  *
 * A scoring function to assess the similarity of protein structures         *
 * Based on statistics:                                                      *
 *       0.0 < TM-score < 0.17, random structural similarity                 *
 *       0.5 < TM-score < 1.00, in about the same fold                       *
 *****************************************************************************

Structure1: ref.pdb    Length=  120
Structure2: model.cif  Length=  118 (by which all scores are normalized)
Number of residues in common=  118
RMSD of  the common residues=    1.842

TM-score    = 0.8731  (d0= 3.91, TM10= 0.8652)
MaxSub-score= 0.7815  (d0= 3.50)
`

func TestBuiltinRules(t *testing.T) {
	cases := []struct {
		name string
		rule Rule
		text string
		want float64
		ok   bool
	}{
		{"rmsd", RMSD, tmscoreReport, 1.842, true},
		{"tmscore", TMScore, tmscoreReport, 0.8731, true},
		{"tmscore lower hyphen", TMScore, "tm-score = 0.5", 0.5, true},
		{"tmscore space", TMScore, "TM score=0.25", 0.25, true},
		{"tmscore no separator", TMScore, "TMscore = 0.7", 0.7, true},
		{"lddt", LDDT, "Global LDDT score: 0.8123\n", 0.8123, true},
		{"rmsd missing", RMSD, "nothing here", 0, false},
		{"tmscore range text only", TMScore, "0.0 < TM-score < 0.17", 0, false},
		{"rmsd unparseable", RMSD, "RMSD of the common residues= 1.2.3", 0, false},
	}
	for _, c := range cases {
		got, ok := c.rule.Extract(c.text)
		if ok != c.ok || got != c.want {
			t.Errorf("%s: got (%v,%v), want (%v,%v)", c.name, got, ok, c.want, c.ok)
		}
	}
}

func TestNewRegexRule_NeedsGroup(t *testing.T) {
	if _, err := NewRegexRule(`score=\d+`); err == nil {
		t.Fatalf("expected error for pattern without capture group")
	}
	if _, err := NewRegexRule(`(`); err == nil {
		t.Fatalf("expected error for invalid pattern")
	}
}

func TestJSONRule(t *testing.T) {
	r := JSONRule{Path: "lddt"}
	if v, ok := r.Extract(`{"lddt": 0.91, "rmsd": 1.2}`); !ok || v != 0.91 {
		t.Fatalf("number: got (%v,%v)", v, ok)
	}
	if v, ok := (JSONRule{Path: "scores.global"}).Extract(`{"scores":{"global":"0.5"}}`); !ok || v != 0.5 {
		t.Fatalf("nested string: got (%v,%v)", v, ok)
	}
	if _, ok := r.Extract(`not json`); ok {
		t.Fatalf("invalid JSON must not parse")
	}
	if _, ok := r.Extract(`{"other": 1}`); ok {
		t.Fatalf("missing path must not parse")
	}
	if _, ok := r.Extract(`{"lddt": null}`); ok {
		t.Fatalf("null must not parse")
	}
}

func TestRuleFunc(t *testing.T) {
	r := RuleFunc(func(string) (float64, bool) { return 42, true })
	if v, ok := r.Extract(""); !ok || v != 42 {
		t.Fatalf("RuleFunc: got (%v,%v)", v, ok)
	}
}
