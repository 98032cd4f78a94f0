package cli

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/footprint/internal/config"
	"github.com/rshade/footprint/internal/footprint"
	"github.com/rshade/footprint/internal/tui"
)

// errNotInteractive is returned when the quiz is started without a terminal.
var errNotInteractive = errors.New("quiz needs an interactive terminal; use 'footprint calculate' for scripted input")

// NewQuizCmd creates the quiz command that runs the interactive terminal quiz.
func NewQuizCmd() *cobra.Command {
	var shuffle bool

	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Take the carbon footprint quiz in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
				return errNotInteractive
			}

			engine, err := loadEngine(config.GetGlobalConfig())
			if err != nil {
				return err
			}

			questions := engine.Store().Questions()
			if shuffle {
				//nolint:gosec // Question order is not security sensitive.
				questions = engine.Store().Shuffled(rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)))
			}

			model := tui.NewQuizModel(questions, func(answers []footprint.RawAnswer) (*footprint.ResultSet, error) {
				return engine.Calculate(answers)
			})

			p := tea.NewProgram(model, tea.WithContext(cmd.Context()))
			if _, err = p.Run(); err != nil {
				return fmt.Errorf("failed to run interactive TUI: %w", err)
			}

			logger.Info().Ctx(cmd.Context()).Int("answers", len(model.Answers())).Msg("quiz finished")
			if rs := model.Result(); rs != nil {
				cmd.Println(tui.RenderResultTable(rs))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&shuffle, "shuffle", false, "shuffle question order")

	return cmd
}
