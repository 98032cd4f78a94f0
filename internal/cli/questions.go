package cli

import (
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/footprint/internal/config"
	"github.com/rshade/footprint/internal/greenops"
	"github.com/rshade/footprint/internal/refdata"
)

// NewQuestionsCmd creates the questions command that lists the quiz.
func NewQuestionsCmd() *cobra.Command {
	var (
		shuffle  bool
		category string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "questions",
		Short: "List the quiz questions",
		Example: `  # All questions in reference order
  footprint questions

  # Food questions as JSON
  footprint questions --category Food --output json

  # Shuffled, as served by the API
  footprint questions --shuffle`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			store, err := loadReference(cfg)
			if err != nil {
				return err
			}

			questions, err := selectQuestions(store, category, shuffle)
			if err != nil {
				return err
			}

			format, err := resolveFormat(output, cmd.OutOrStdout(), cfg)
			if err != nil {
				return err
			}
			if format == config.FormatJSON {
				return writeJSON(cmd.OutOrStdout(), questions)
			}
			renderQuestions(cmd.OutOrStdout(), questions)
			return nil
		},
	}

	cmd.Flags().BoolVar(&shuffle, "shuffle", false, "shuffle question order")
	cmd.Flags().StringVar(&category, "category", "", "only list questions in this category")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table or json")

	return cmd
}

func selectQuestions(store *refdata.Store, category string, shuffle bool) ([]refdata.Question, error) {
	var questions []refdata.Question
	if shuffle {
		//nolint:gosec // Question order is not security sensitive.
		r := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
		questions = store.Shuffled(r)
	} else {
		questions = store.Questions()
	}

	if category == "" {
		return questions, nil
	}
	cat, err := refdata.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	out := questions[:0]
	for _, q := range questions {
		if q.Category == cat {
			out = append(out, q)
		}
	}
	return out, nil
}

func renderQuestions(w io.Writer, questions []refdata.Question) {
	for _, q := range questions {
		fmt.Fprintf(w, "%2d. [%s] %s\n", q.ID, q.Category, q.Text)
		switch q.Kind {
		case refdata.KindSlider:
			if q.Slider != nil {
				fmt.Fprintf(w, "      %s to %s %s (%s kg per %s)\n",
					greenops.FormatFloat(q.Slider.Min, 0),
					greenops.FormatFloat(q.Slider.Max, 0),
					q.Slider.Unit,
					greenops.FormatFloat(q.Slider.Coefficient, 1),
					q.Slider.Unit)
			}
		default:
			for _, o := range q.Options {
				fmt.Fprintf(w, "      - %s (%s)\n", o.Label, greenops.FormatKg(o.CO2))
			}
		}
	}
}
