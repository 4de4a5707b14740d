package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pulseboard/pulseboard/internal/cache"
	"github.com/pulseboard/pulseboard/internal/config"
	"github.com/pulseboard/pulseboard/internal/domain/member"
	"github.com/pulseboard/pulseboard/internal/domain/project"
	"github.com/pulseboard/pulseboard/internal/domain/ticket"
	"github.com/pulseboard/pulseboard/internal/mcp"
	"github.com/pulseboard/pulseboard/internal/sqlite"
	"github.com/pulseboard/pulseboard/internal/transport"
)

func newServeCmd() *cobra.Command {
	var transportMode string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and MCP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), transportMode)
		},
	}

	cmd.Flags().StringVar(&transportMode, "transport", "http", "Transport mode: http or stdio")

	return cmd
}

func runServe(ctx context.Context, transportMode string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	logger := newLogger(cfg.Log, transportMode)

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return fmt.Errorf("prepare database path: %w", err)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	services := buildServices(db, logger)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects: services.Projects,
			Tickets:  services.Tickets,
			Members:  services.Members,
		},
		Logger: logger,
	})

	if transportMode == "stdio" {
		return runStdioMode(ctx, logger, mcpServer)
	}
	return runHTTPMode(ctx, logger, services, mcpServer, cfg.Server.Host, cfg.Server.Port)
}

func buildServices(db *sqlite.DB, logger *slog.Logger) transport.Services {
	return transport.Services{
		Projects: project.NewService(sqlite.NewProjectRepository(db), logger),
		Tickets:  ticket.NewService(sqlite.NewTicketRepository(db), logger),
		Members:  member.NewService(sqlite.NewMemberRepository(db), logger),
	}
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport")

	// Run blocks until stdin closes or the signal context is canceled.
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, services transport.Services, mcpServer *sdkmcp.Server, host string, port int) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := http.NewServeMux()
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/", mcpHandler)
	router.Handle("/", transport.NewHandler(services, cache.NewMemory(), logger))

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newLogger builds the process logger. Stdio mode logs to stderr to keep
// stdout clean for JSON-RPC; a configured log file gets size-based
// rotation.
func newLogger(cfg config.LogConfig, transportMode string) *slog.Logger {
	logWriter := io.Writer(os.Stdout)
	if transportMode == "stdio" {
		logWriter = os.Stderr
	}
	if cfg.File != "" {
		logWriter = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
	}
	return slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Level),
	}))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
