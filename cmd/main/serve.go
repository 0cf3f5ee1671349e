package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the component API server",
	Long: `Run the HTTP API until SIGINT/SIGTERM or a shutdown request.
A restart request reloads the config file and starts a fresh server cycle.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(configPath)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(path string) error {
	baseLogger := slog.Default()

	actionChan := make(chan string, 1)

	go func() {
		osSignalChan := make(chan os.Signal, 1)
		signal.Notify(osSignalChan, syscall.SIGINT, syscall.SIGTERM)
		<-osSignalChan // Wait for a signal
		baseLogger.Info("OS signal received, initiating shutdown.")
		actionChan <- actionShutdown
	}()

	for {
		action, err := run(path, actionChan)
		if err != nil {
			return fmt.Errorf("server run failed: %w", err)
		}
		if action != actionRestart {
			break
		}
		baseLogger.Info("--- Server Restarting ---")
	}

	baseLogger.Info("docmarkup has shut down.")
	return nil
}

// run hosts one server cycle and returns whenever the server is shut down or restarted.
func run(path string, actionChan chan string) (string, error) {
	cm, err := NewConfigManager(path)
	if err != nil {
		return "", fmt.Errorf("failed to load configuration: %w", err)
	}
	config := cm.Get()

	level := parseLogLevel(config.Server.LogLevel)
	if verbose {
		level = slog.LevelDebug
	}
	logger := newLogger(level)
	logger.Info("Starting server cycle...", "config", path)

	db, err := initDB(config.Server.DatabasePath)
	if err != nil {
		return "", fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		logger.Info("Closing database connection.")
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}()

	server, err := NewServer(cm, logger, db, actionChan)
	if err != nil {
		return "", fmt.Errorf("failed to create server object: %w", err)
	}

	ctx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()
	if config.Templates.HotReload {
		go func() {
			if err := server.tm.Watch(ctx); err != nil {
				logger.Error("Template watcher stopped", "error", err)
			}
		}()
	}

	httpServer := &http.Server{
		Addr:         config.Server.Addr,
		Handler:      server.Handler(),
		ReadTimeout:  time.Duration(config.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(config.Server.WriteTimeoutSec) * time.Second,
	}

	go func() {
		logger.Info("Starting docmarkup server", "address", httpServer.Addr, "version", Version)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			actionChan <- actionShutdown
		}
	}()

	action := <-actionChan // Block here until API or OS signal sends an action.

	logger.Info("Stopping server for " + action + "...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err = httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
	logger.Info("HTTP server stopped.")

	return action, nil
}
