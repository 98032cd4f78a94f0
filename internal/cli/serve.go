package cli

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rshade/footprint/internal/chat"
	"github.com/rshade/footprint/internal/config"
	"github.com/rshade/footprint/internal/logging"
	"github.com/rshade/footprint/internal/server"
	"github.com/rshade/footprint/internal/session"
)

// NewServeCmd creates the serve command that runs the HTTP API.
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the quiz API and chat assistant",
		Long: `Serves the quiz questions, the emission calculator and, when an API key is
configured, the chat assistant over HTTP. Prometheus metrics are exposed at
/metrics. Expired chat sessions are purged on the configured schedule.`,
		Example: `  # Serve on the configured address
  footprint serve

  # Serve on a specific port
  footprint serve --addr :8080`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			if addr != "" {
				cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :5000)")

	return cmd
}

// runServe wires the engine, session store, chat service and cleanup job
// into a server and runs it until ctx is cancelled.
func runServe(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error {
	log := logging.FromContext(ctx)

	engine, err := loadEngine(cfg)
	if err != nil {
		return err
	}
	log.Debug().Ctx(ctx).Str("reference_version", engine.Store().Version()).Msg("reference data loaded")

	metrics := server.NewMetrics()
	opts := []server.Option{
		server.WithLogger(logging.ComponentLogger(*log, "server")),
		server.WithMetrics(metrics),
	}

	var cleanup *server.Cleanup
	if cfg.Chat.Available() {
		dir, dirErr := cfg.SessionDir()
		if dirErr != nil {
			return dirErr
		}
		store, storeErr := session.NewFileStore(dir, cfg.Session.TTL)
		if storeErr != nil {
			return fmt.Errorf("opening session store: %w", storeErr)
		}

		client := chat.NewClient(cfg.Chat, &http.Client{Timeout: cfg.Chat.Timeout})
		svc := chat.NewService(client, store,
			chat.WithEngine(engine),
			chat.WithMaxHistory(cfg.Session.MaxHistory),
			chat.WithTimeout(cfg.Chat.Timeout),
		)
		opts = append(opts, server.WithChat(svc))

		cleanup, err = server.NewCleanup(cfg.Session.CleanupSchedule, store, metrics,
			logging.ComponentLogger(*log, "cleanup"))
		if err != nil {
			return err
		}
		log.Info().Ctx(ctx).Str("model", cfg.Chat.Model).Str("session_dir", dir).Msg("chat enabled")
	} else {
		log.Warn().Ctx(ctx).Msg("chat disabled: no API key configured")
	}

	srv, err := server.New(cfg.Server, engine, opts...)
	if err != nil {
		return err
	}

	if cleanup != nil {
		cleanup.Start()
		defer cleanup.Stop()
	}

	cmd.Printf("Listening on %s\n", cfg.Server.Addr)
	return srv.Run(ctx)
}
