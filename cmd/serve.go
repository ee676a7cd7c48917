package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zenml-io/mcp-zenml/internal/config"
	"github.com/zenml-io/mcp-zenml/internal/dispatch"
	"github.com/zenml-io/mcp-zenml/internal/server"
	"github.com/zenml-io/mcp-zenml/internal/tools"
	"github.com/zenml-io/mcp-zenml/internal/zenml"
	"github.com/zenml-io/mcp-zenml/pkg/logging"
)

// serve flags. Transport/host/port override the loaded configuration only
// when explicitly set.
var (
	serveTransport         string
	serveHost              string
	servePort              int
	serveConfigPath        string
	serveDebug             bool
	serveStartupValidation string
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Starts the MCP server over the configured transport.

By default the server speaks MCP over stdio: stdout carries protocol
frames and all diagnostics go to stderr. The sse and streamable-http
transports bind a network listener instead.

Connection settings come from the environment (ZENML_STORE_URL,
ZENML_STORE_API_KEY, ZENML_ACTIVE_PROJECT_ID), optionally overlaid on a
config.yaml in --config-path. The remote client is constructed lazily on
the first operation that needs it; --startup-validation changes that:

  off     skip connectivity checks at startup (default)
  warn    attempt a connection at startup, log failures, keep serving
  strict  attempt a connection at startup, refuse to start on failure`,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveTransport, "transport", "", "MCP transport: stdio, sse, or streamable-http")
	cmd.Flags().StringVar(&serveHost, "host", "", "Host to bind for network transports")
	cmd.Flags().IntVar(&servePort, "port", 0, "Port for network transports")
	cmd.Flags().StringVar(&serveConfigPath, "config-path", "", "Directory containing config.yaml")
	cmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging on stderr")
	cmd.Flags().StringVar(&serveStartupValidation, "startup-validation", "off", "Connectivity check at startup: off, warn, or strict")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	level := config.LogLevelFromEnv()
	if serveDebug {
		level = logging.LevelDebug
	}
	logging.InitForStderr(level)

	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("transport") {
		cfg.Server.Transport = serveTransport
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}

	holder := zenml.NewHolder(cfg.Store)

	registry := dispatch.NewRegistry()
	if err := tools.Register(registry, holder, &cfg); err != nil {
		return fmt.Errorf("registering operations: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := validateStartup(ctx, holder, serveStartupValidation); err != nil {
		return err
	}

	logging.Info("Server", "Starting mcp-zenml with %d operations (store: %s)",
		registry.Len(), config.RedactURL(cfg.Store.URL))

	srv := server.New(rootCmd.Version, cfg.Server, dispatch.NewDispatcher(registry))
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	select {
	case <-ctx.Done():
		logging.Info("Server", "Shutting down")
		return srv.Stop(context.Background())
	case err := <-errCh:
		return err
	}
}

// validateStartup optionally proves connectivity before serving. The lazy
// construction contract is unchanged: a failed warn-level check leaves the
// holder free to retry on the first real operation.
func validateStartup(ctx context.Context, holder *zenml.Holder, mode string) error {
	switch mode {
	case "off":
		return nil
	case "warn":
		if _, err := holder.Get(ctx); err != nil {
			logging.Warn("Server", "startup validation failed, serving anyway: %v", err)
		}
		return nil
	case "strict":
		if _, err := holder.Get(ctx); err != nil {
			return fmt.Errorf("startup validation failed: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown --startup-validation mode %q (expected off, warn, or strict)", mode)
	}
}
