package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/footprint/internal/config"
	"github.com/rshade/footprint/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the footprint CLI.
// It loads configuration, wires up logging, and registers the serve,
// calculate, questions, quiz and config subcommands.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithEnv(ver, os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit env lookup for testability.
func NewRootCmdWithEnv(ver string, lookupEnv func(string) (string, bool)) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:           "footprint",
		Short:         "Carbon footprint quiz, calculator and chat assistant",
		Long:          "footprint: score lifestyle quiz answers into per-category CO2 emissions and compare them to national averages",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, lookupEnv)
			if err != nil {
				return err
			}
			config.SetGlobalConfig(cfg)

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().String("config", "", "path to a config overlay file (default $FOOTPRINT_CONFIG)")
	cmd.PersistentFlags().String("reference", "", "path to a reference dataset YAML (default embedded dataset)")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	cmd.AddCommand(
		NewServeCmd(), NewCalculateCmd(), NewQuestionsCmd(), NewQuizCmd(), newConfigCmd(),
	)

	return cmd
}

// loadConfig builds the effective configuration. An explicit --config wins
// over $FOOTPRINT_CONFIG and --reference overrides the configured dataset.
func loadConfig(cmd *cobra.Command, lookupEnv func(string) (string, bool)) (*config.Config, error) {
	overlay, _ := cmd.Flags().GetString("config")
	if overlay == "" {
		if v, ok := lookupEnv(config.EnvConfig); ok {
			overlay = v
		}
	}

	cfg, err := config.Load(overlay)
	if err != nil {
		return nil, err
	}

	if ref, _ := cmd.Flags().GetString("reference"); ref != "" {
		cfg.Reference.Path = ref
	}
	return cfg, nil
}

const rootCmdExample = `  # Serve the quiz API and chat assistant
  footprint serve --addr :8080

  # Score a set of answers
  footprint calculate --input answers.json

  # Score many respondents, one answer set per line
  footprint calculate --input survey.jsonl --mode summary --output json

  # List the quiz questions
  footprint questions --category Food

  # Take the quiz in the terminal
  footprint quiz

  # Check configuration and reference data
  footprint config validate`

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigValidateCmd())
	return cmd
}
