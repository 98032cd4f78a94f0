package batch

import (
	"context"
	"fmt"

	"github.com/rshade/footprint/internal/footprint"
)

// Mode selects what Score computes for each respondent.
type Mode int

const (
	// ModeBreakdown produces a full ResultSet per respondent.
	ModeBreakdown Mode = iota
	// ModeSummary produces a Summary per respondent.
	ModeSummary
)

// String returns the name used on the command line.
func (m Mode) String() string {
	switch m {
	case ModeBreakdown:
		return "breakdown"
	case ModeSummary:
		return "summary"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode resolves a mode name as printed by String.
func ParseMode(name string) (Mode, error) {
	for _, m := range []Mode{ModeBreakdown, ModeSummary} {
		if m.String() == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", name)
}

// Outcome is the result for one respondent. Exactly one of Result,
// Summary and Err is set.
type Outcome struct {
	Index   int                  `json:"index"`
	Result  *footprint.ResultSet `json:"result,omitempty"`
	Summary *footprint.Summary   `json:"summary,omitempty"`
	Err     error                `json:"-"`
	Error   string               `json:"error,omitempty"`
}

// Options configures Score.
type Options struct {
	Mode        Mode
	BatchSize   int
	Concurrency int
	OnProgress  ProgressCallback
}

// Score runs the engine over every answer set. Outcomes are returned in
// input order. The error is non-nil only for invalid options or a
// cancelled context.
func Score(ctx context.Context, engine *footprint.Engine, sets []footprint.AnswerSet, opts Options) ([]Outcome, error) {
	if len(sets) == 0 {
		return []Outcome{}, nil
	}

	size := opts.BatchSize
	if size == 0 {
		size = DefaultBatchSize
	}
	proc, err := NewProcessor[footprint.AnswerSet](size)
	if err != nil {
		return nil, err
	}
	proc.WithProgressCallback(opts.OnProgress)

	outcomes := make([]Outcome, len(sets))
	err = proc.ProcessConcurrent(ctx, sets, func(ctx context.Context, batch []footprint.AnswerSet, offset int) error {
		for i, set := range batch {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			outcomes[offset+i] = scoreOne(engine, offset+i, set, opts.Mode)
		}
		return nil
	}, opts.Concurrency)
	if err != nil {
		return nil, err
	}
	return outcomes, nil
}

func scoreOne(engine *footprint.Engine, index int, set footprint.AnswerSet, mode Mode) Outcome {
	out := Outcome{Index: index}
	switch mode {
	case ModeSummary:
		out.Summary, out.Err = engine.Summarize(set)
	default:
		out.Result, out.Err = engine.Calculate(set)
	}
	if out.Err != nil {
		out.Result, out.Summary = nil, nil
		out.Error = out.Err.Error()
	}
	return out
}
