package scorer

import (
	"bytes"
	"context"
	"io/fs"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"

	"foldbench-core/extract"
)

// Placeholders recognised in argument templates.
const (
	PlaceholderRef   = "{ref}"
	PlaceholderModel = "{model}"
)

const waitDelay = 2 * time.Second

// Result is one successful score plus the tool report it was parsed from.
type Result struct {
	Value  float64
	Report string
}

// Scorer computes one score for a reference/model pair. Implementations
// return *Error for failures attributable to the pair or the tool.
type Scorer interface {
	Score(ctx context.Context, ref, model string) (Result, error)
}

// Func adapts a plain function to Scorer.
type Func func(ctx context.Context, ref, model string) (Result, error)

func (f Func) Score(ctx context.Context, ref, model string) (Result, error) { return f(ctx, ref, model) }

// ExecScorer runs an external executable once per pair and applies Rule to
// its stdout.
type ExecScorer struct {
	// Binary is resolved through PATH unless it contains a path separator.
	Binary string

	// Args is the argument template; {ref} and {model} are substituted.
	Args []string

	Rule extract.Rule

	// Timeout bounds each invocation. Zero means no limit.
	Timeout time.Duration
}

// Preflight resolves Binary without running it.
func (s *ExecScorer) Preflight() error {
	if _, err := exec.LookPath(s.Binary); err != nil {
		return &Error{Kind: ExecutableNotFound, Path: s.Binary, Err: err}
	}
	return nil
}

func (s *ExecScorer) args(ref, model string) []string {
	r := strings.NewReplacer(PlaceholderRef, ref, PlaceholderModel, model)
	out := make([]string, len(s.Args))
	for i, a := range s.Args {
		out[i] = r.Replace(a)
	}
	return out
}

// Command renders the command line for logging.
func (s *ExecScorer) Command(ref, model string) string {
	return strings.Join(append([]string{s.Binary}, s.args(ref, model)...), " ")
}

func (s *ExecScorer) Score(ctx context.Context, ref, model string) (Result, error) {
	runCtx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, s.Binary, s.args(ref, model)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Grandchildren holding the pipes open must not outlive the kill.
	cmd.WaitDelay = waitDelay

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return Result{}, &Error{Kind: ExecutableNotFound, Path: s.Binary, Err: err}
		}
		if runCtx.Err() == context.DeadlineExceeded {
			err = errors.Errorf("timed out after %s", s.Timeout)
		}
		return Result{}, &Error{
			Kind:   ToolInvocationFailed,
			Path:   model,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}

	report := stdout.String()
	v, ok := s.Rule.Extract(report)
	if !ok {
		return Result{}, &Error{Kind: OutputUnparseable, Path: model, Report: report}
	}
	return Result{Value: v, Report: report}, nil
}
