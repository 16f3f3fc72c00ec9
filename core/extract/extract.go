// Package extract turns the text report of a structural scoring tool into a
// single number. Rules are pure functions over the captured stdout, so they
// can be tested without running any tool.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Rule pulls one score out of a tool report. ok is false when the report
// does not contain a parseable value.
type Rule interface {
	Extract(report string) (value float64, ok bool)
}

// RuleFunc adapts a plain function to Rule.
type RuleFunc func(string) (float64, bool)

func (f RuleFunc) Extract(report string) (float64, bool) { return f(report) }

// RegexRule matches a pattern whose first capture group holds the number.
type RegexRule struct {
	re *regexp.Regexp
}

// NewRegexRule compiles pattern and checks it has a capture group.
func NewRegexRule(pattern string) (*RegexRule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad extraction pattern %q: %w", pattern, err)
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("extraction pattern %q needs a capture group", pattern)
	}
	return &RegexRule{re: re}, nil
}

// MustRegexRule is NewRegexRule for package-level rules.
func MustRegexRule(pattern string) *RegexRule {
	r, err := NewRegexRule(pattern)
	if err != nil {
		panic(err)
	}
	return r
}

// Extract uses the first match only.
func (r *RegexRule) Extract(report string) (float64, bool) {
	m := r.re.FindStringSubmatch(report)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (r *RegexRule) String() string { return r.re.String() }

// JSONRule reads a number at a gjson path from a JSON report. String values
// holding a number are accepted too.
type JSONRule struct {
	Path string
}

func (r JSONRule) Extract(report string) (float64, bool) {
	report = strings.TrimSpace(report)
	if report == "" || !gjson.Valid(report) {
		return 0, false
	}
	res := gjson.Get(report, r.Path)
	switch res.Type {
	case gjson.Number:
		return res.Num, true
	case gjson.String:
		v, err := strconv.ParseFloat(strings.TrimSpace(res.Str), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

func (r JSONRule) String() string { return "json:" + r.Path }

// Built-in rules for TM-score's text report and OpenStructure's lddt.
var (
	RMSD    = MustRegexRule(`RMSD of\s+the common residues=\s*([\d.]+)`)
	TMScore = MustRegexRule(`(?i)TM[-\s]*score\s*=\s*([\d.]+)`)
	LDDT    = MustRegexRule(`(?i)Global LDDT score:\s*([\d.]+)`)
)
