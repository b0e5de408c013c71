package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/me/restkit/internal/config"
	"github.com/me/restkit/internal/logging"
	"github.com/me/restkit/internal/server"
	"github.com/me/restkit/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		flagAddr      string
		flagLogLevel  string
		flagLogFormat string
		flagDB        string
		flagDocsDir   string
		flagDebug     bool
	)

	root := &cobra.Command{
		Use:           "restkit-server",
		Short:         "Ledger REST API server",
		Long:          "Serves accounts, transactions and transfers through enveloped generic views.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			// Flags win over file and environment.
			if cmd.Flags().Changed("addr") {
				cfg.Addr = flagAddr
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = flagLogLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.LogFormat = flagLogFormat
			}
			if cmd.Flags().Changed("db") {
				cfg.DBPath = flagDB
			}
			if cmd.Flags().Changed("docs-dir") {
				cfg.DocsDir = flagDocsDir
			}
			if flagDebug {
				cfg.LogLevel = "debug"
			}
			return run(cfg)
		},
	}

	root.Flags().StringVar(&flagAddr, "addr", ":8080", "Listen address")
	root.Flags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.Flags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")
	root.Flags().StringVar(&flagDB, "db", "restkit.db", "SQLite database path (\":memory:\" for ephemeral)")
	root.Flags().StringVar(&flagDocsDir, "docs-dir", "", "Directory of documentation override YAML files")
	root.Flags().BoolVar(&flagDebug, "debug", false, "Shorthand for --log-level=debug")

	return root
}

func run(cfg config.Config) error {
	logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)

	st, err := store.NewSQLiteStore(cfg.DBPath, logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	if err := st.Migrate(context.Background()); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	logger.Info("database ready", "path", cfg.DBPath)

	srv, err := server.New(cfg, st, logger)
	if err != nil {
		return fmt.Errorf("configure server: %w", err)
	}

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Handler(),
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
