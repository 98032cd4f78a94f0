package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/footprint/internal/config"
	"github.com/rshade/footprint/internal/refdata"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and reference data",
		Long: `Validates the effective configuration (~/.footprint/config.yaml, the --config
overlay, .env and FOOTPRINT_* variables) and loads the reference dataset.

This includes:
- Server, session, chat, batch, output and logging settings
- The session cleanup cron schedule
- Reference dataset version, baselines and question definitions`,
		Example: `  # Validate current configuration
  footprint config validate

  # Validate and show detailed information
  footprint config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	store, err := loadReference(cfg)
	if err != nil {
		return fmt.Errorf("reference data validation failed: %w", err)
	}

	if !cfg.Chat.Available() {
		cmd.Println("Warning: chat is disabled or has no API key; /chat will answer 503")
	}
	cmd.Printf("✅ Configuration is valid (reference data %s)\n", store.Version())

	if verbose {
		printVerboseDetails(cmd, cfg, store)
	}

	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config, store *refdata.Store) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Server address: %s\n", cfg.Server.Addr)
	cmd.Printf("  Session TTL: %s\n", cfg.Session.TTL)
	cmd.Printf("  Session cleanup: %s\n", cfg.Session.CleanupSchedule)
	cmd.Printf("  Chat model: %s\n", cfg.Chat.Model)
	cmd.Printf("  Batch size: %d (concurrency %d)\n", cfg.Batch.Size, cfg.Batch.Concurrency)
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Log file: %s\n", cfg.Logging.File)

	printReferenceDetails(cmd, cfg, store)
}

// printReferenceDetails prints the reference dataset summary.
func printReferenceDetails(cmd *cobra.Command, cfg *config.Config, store *refdata.Store) {
	source := cfg.Reference.Path
	if source == "" {
		source = "embedded"
	}
	cmd.Printf("  Reference data: %s (%d questions)\n", source, len(store.Questions()))
	for _, c := range refdata.Categories() {
		ci, _ := store.Category(c)
		cmd.Printf("    - %s: baseline %.0f kg, %d questions\n", c, ci.Baseline, len(store.QuestionsIn(c)))
	}
}
