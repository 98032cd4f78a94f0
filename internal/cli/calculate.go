package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/footprint/internal/batch"
	"github.com/rshade/footprint/internal/config"
	"github.com/rshade/footprint/internal/footprint"
	"github.com/rshade/footprint/internal/logging"
	"github.com/rshade/footprint/internal/tui"
)

// maxLineBytes bounds one JSON Lines record.
const maxLineBytes = 4 << 20

// errNoAnswerSets is returned when the input holds no answer set.
var errNoAnswerSets = errors.New("input contains no answer sets")

// calculateFlags holds the calculate command flags.
type calculateFlags struct {
	input       string
	mode        string
	output      string
	batchSize   int
	concurrency int
}

// NewCalculateCmd creates the calculate command that scores answer sets.
func NewCalculateCmd() *cobra.Command {
	var flags calculateFlags

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Score quiz answers into per-category emissions",
		Long: `Scores one answer set, or many respondents at once.

The input is either a single JSON document (an answer array, an object keyed
by question id, or {"answers": ...}) or JSON Lines with one answer set per
line. JSON Lines input is scored in concurrent batches.`,
		Example: `  # Score one answer set
  footprint calculate --input answers.json

  # Read from stdin and print JSON
  cat answers.json | footprint calculate --output json

  # Summaries for a survey export
  footprint calculate --input survey.jsonl --mode summary --concurrency 8`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalculate(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.input, "input", "i", "-", "answers file, or - for stdin")
	cmd.Flags().StringVar(&flags.mode, "mode", batch.ModeBreakdown.String(), "result shape: breakdown or summary")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output format: table or json")
	cmd.Flags().IntVar(&flags.batchSize, "batch-size", 0, "respondents per batch (default from config)")
	cmd.Flags().IntVar(&flags.concurrency, "concurrency", 0, "batches scored in parallel (default from config)")

	return cmd
}

func runCalculate(cmd *cobra.Command, flags calculateFlags) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)
	cfg := config.GetGlobalConfig()

	mode, err := batch.ParseMode(flags.mode)
	if err != nil {
		return err
	}
	format, err := resolveFormat(flags.output, cmd.OutOrStdout(), cfg)
	if err != nil {
		return err
	}

	var engineOpts []footprint.Option
	if mode == batch.ModeSummary {
		engineOpts = append(engineOpts, footprint.WithPercentMode(footprint.PercentOfBaseline))
	}
	engine, err := loadEngine(cfg, engineOpts...)
	if err != nil {
		return err
	}

	data, err := readInput(cmd, flags.input)
	if err != nil {
		return err
	}
	sets, single, err := parseAnswerSets(data)
	if err != nil {
		return err
	}
	log.Debug().Ctx(ctx).Int("answer_sets", len(sets)).Str("mode", mode.String()).Msg("input parsed")

	if single {
		return calculateOne(cmd, engine, sets[0], mode, format)
	}

	opts := batch.Options{
		Mode:        mode,
		BatchSize:   firstPositive(flags.batchSize, cfg.Batch.Size),
		Concurrency: firstPositive(flags.concurrency, cfg.Batch.Concurrency),
		OnProgress: func(s batch.ProgressSnapshot) {
			log.Debug().
				Int("processed", s.ProcessedItems).
				Int("total", s.TotalItems).
				Float64("percent", s.PercentComplete).
				Msg("batch progress")
		},
	}
	outcomes, err := batch.Score(ctx, engine, sets, opts)
	if err != nil {
		return err
	}

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			log.Warn().Ctx(ctx).Int("index", o.Index).Err(o.Err).Msg("respondent failed")
		}
	}
	log.Info().Ctx(ctx).Int("respondents", len(outcomes)).Int("failed", failed).Msg("batch scored")

	return renderOutcomes(cmd.OutOrStdout(), outcomes, format)
}

func calculateOne(cmd *cobra.Command, engine *footprint.Engine, set footprint.AnswerSet, mode batch.Mode, format string) error {
	out := cmd.OutOrStdout()
	if mode == batch.ModeSummary {
		s, err := engine.Summarize(set)
		if err != nil {
			return err
		}
		if format == config.FormatJSON {
			return writeJSON(out, s)
		}
		_, err = fmt.Fprintln(out, tui.RenderSummary(s))
		return err
	}

	rs, err := engine.Calculate(set)
	if err != nil {
		return err
	}
	if format == config.FormatJSON {
		return writeJSON(out, rs)
	}
	_, err = fmt.Fprintln(out, tui.RenderResultTable(rs))
	return err
}

func renderOutcomes(w io.Writer, outcomes []batch.Outcome, format string) error {
	if format == config.FormatJSON {
		return writeJSON(w, outcomes)
	}
	for _, o := range outcomes {
		fmt.Fprintf(w, "Respondent %d\n", o.Index+1)
		switch {
		case o.Err != nil:
			fmt.Fprintf(w, "  error: %s\n", o.Error)
		case o.Summary != nil:
			fmt.Fprintln(w, tui.RenderSummary(o.Summary))
		case o.Result != nil:
			fmt.Fprintln(w, tui.RenderResultTable(o.Result))
		}
		fmt.Fprintln(w)
	}
	return nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return data, nil
}

// parseAnswerSets decodes data as one JSON document or, failing that, as
// JSON Lines. single reports whether data was one document.
func parseAnswerSets(data []byte) (sets []footprint.AnswerSet, single bool, err error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, false, errNoAnswerSets
	}

	if json.Valid(trimmed) {
		set, err := parseAnswerSet(trimmed)
		if err != nil {
			return nil, false, err
		}
		return []footprint.AnswerSet{set}, true, nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineBytes)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		set, err := parseAnswerSet(text)
		if err != nil {
			return nil, false, fmt.Errorf("line %d: %w", line, err)
		}
		sets = append(sets, set)
	}
	if err := scanner.Err(); err != nil {
		return nil, false, fmt.Errorf("reading answer sets: %w", err)
	}
	if len(sets) == 0 {
		return nil, false, errNoAnswerSets
	}
	return sets, false, nil
}

// parseAnswerSet decodes a bare answer set or one wrapped in {"answers": ...}.
func parseAnswerSet(doc []byte) (footprint.AnswerSet, error) {
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(doc, &wrapper); err == nil {
		if inner, ok := wrapper["answers"]; ok {
			doc = inner
		}
	}

	var set footprint.AnswerSet
	if err := json.Unmarshal(doc, &set); err != nil {
		return nil, fmt.Errorf("decoding answers: %w", err)
	}
	return set, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
