package scorer

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"foldbench-core/extract"
	"foldbench/internal/config"
)

// Backend is one scoring tool plus how its results are matched and tabled.
type Backend struct {
	Name        string
	Metric      string // column header after "Structure"
	FilePrefix  string // table file is <FilePrefix>_<group>.csv
	Match       string // config.MatchIdentifier | config.MatchFilename
	SaveReports bool
	Scorer      Scorer
}

// Preflight checks the backend's executable when the scorer supports it.
func (b Backend) Preflight() error {
	if p, ok := b.Scorer.(interface{ Preflight() error }); ok {
		return p.Preflight()
	}
	return nil
}

// Factory builds a backend from the run configuration.
type Factory func(cfg config.Config) Backend

// Backend registry (name → factory). Built-ins register in init().
var factories = map[string]Factory{}

// Register adds or replaces a named backend factory.
func Register(name string, f Factory) { factories[name] = f }

// Names lists registered backend names, sorted.
func Names() []string {
	out := make([]string, 0, len(factories))
	for n := range factories {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Build resolves cfg.Backends in order; names are case-insensitive. Names
// declared in cfg.CustomBackends take precedence over registered factories.
func Build(cfg config.Config) ([]Backend, error) {
	custom := make(map[string]config.CustomBackend, len(cfg.CustomBackends))
	for _, cb := range cfg.CustomBackends {
		custom[strings.ToLower(cb.Name)] = cb
	}
	out := make([]Backend, 0, len(cfg.Backends))
	for _, name := range cfg.Backends {
		name = strings.ToLower(name)
		if cb, ok := custom[name]; ok {
			b, err := FromCustom(cb, cfg)
			if err != nil {
				return nil, err
			}
			out = append(out, b)
			continue
		}
		f, ok := factories[name]
		if !ok {
			return nil, errors.Errorf("unknown backend %q (available: %s)", name, strings.Join(Names(), ", "))
		}
		out = append(out, f(cfg))
	}
	return out, nil
}

// FromCustom builds a backend from a user declaration.
func FromCustom(cb config.CustomBackend, cfg config.Config) (Backend, error) {
	if err := cb.Validate(); err != nil {
		return Backend{}, err
	}
	var rule extract.Rule
	if cb.Regex != "" {
		r, err := extract.NewRegexRule(cb.Regex)
		if err != nil {
			return Backend{}, errors.Wrapf(err, "custom backend %q", cb.Name)
		}
		rule = r
	} else {
		rule = extract.JSONRule{Path: cb.JSONPath}
	}
	args := cb.Args
	if len(args) == 0 {
		args = []string{PlaceholderRef, PlaceholderModel}
	}
	metric := cb.Metric
	if metric == "" {
		metric = cb.Name
	}
	prefix := cb.FilePrefix
	if prefix == "" {
		prefix = cb.Name
	}
	return Backend{
		Name:        cb.Name,
		Metric:      metric,
		FilePrefix:  prefix,
		Match:       cb.Match,
		SaveReports: cb.SaveReports,
		Scorer: &ExecScorer{
			Binary:  cb.Executable,
			Args:    args,
			Rule:    rule,
			Timeout: cfg.Timeout,
		},
	}, nil
}

func init() {
	tmArgs := []string{"-seq", PlaceholderRef, PlaceholderModel}

	Register("rmsd", func(cfg config.Config) Backend {
		return Backend{
			Name:       "rmsd",
			Metric:     "RMSD",
			FilePrefix: "rmsd",
			Match:      config.MatchIdentifier,
			Scorer:     &ExecScorer{Binary: cfg.Tools.TMScore, Args: tmArgs, Rule: extract.RMSD, Timeout: cfg.Timeout},
		}
	})
	Register("tmscore", func(cfg config.Config) Backend {
		return Backend{
			Name:       "tmscore",
			Metric:     "TM-score",
			FilePrefix: "tm_score",
			Match:      config.MatchIdentifier,
			Scorer:     &ExecScorer{Binary: cfg.Tools.TMScore, Args: tmArgs, Rule: extract.TMScore, Timeout: cfg.Timeout},
		}
	})
	Register("lddt", func(cfg config.Config) Backend {
		return Backend{
			Name:        "lddt",
			Metric:      "lDDT",
			FilePrefix:  "lddt",
			Match:       config.MatchFilename,
			SaveReports: true,
			Scorer: &ExecScorer{
				Binary:  cfg.Tools.LDDT,
				Args:    []string{PlaceholderModel, PlaceholderRef},
				Rule:    extract.LDDT,
				Timeout: cfg.Timeout,
			},
		}
	})
}
