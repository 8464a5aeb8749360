// HealthFlow: health assessment and AI content pipeline MCP server.
//
// Serves a BMI calculator and a research/write/illustrate content
// pipeline over MCP (stdio by default, streamable HTTP with --http)
// plus a small REST surface.
//
// Usage:
//
//	healthflow serve            # MCP server on stdio
//	healthflow serve --http     # REST + MCP over HTTP
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lucasreb/healthflow/internal/config"
	"github.com/lucasreb/healthflow/internal/httpserver"
	"github.com/lucasreb/healthflow/internal/logging"
	hfserver "github.com/lucasreb/healthflow/internal/server"
)

var (
	configPath string
	httpMode   bool
)

var rootCmd = &cobra.Command{
	Use:     "healthflow",
	Short:   "Health assessment and AI content pipeline MCP server",
	Version: hfserver.Version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the server",
	Long: `Start the healthflow server.

By default the MCP server runs on the stdio transport, for use from an
AI tool's MCP configuration. With --http it instead serves REST
endpoints (/bmi, /health, /metrics) and the MCP streamable HTTP
transport at /mcp.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", "", "path to YAML config file")
	serveCmd.Flags().BoolVar(&httpMode, "http", false, "serve REST and MCP over HTTP instead of stdio")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Logs go to stderr: stdout belongs to the MCP stdio transport.
	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("configuring logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	s, cleanup, err := hfserver.New(cfg, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	if !httpMode {
		log.Info("serving MCP on stdio", zap.String("version", hfserver.Version))
		return server.ServeStdio(s)
	}

	return serveHTTP(cfg, log, s)
}

func serveHTTP(cfg *config.Config, log *zap.Logger, s *server.MCPServer) error {
	srv := httpserver.New(s, log, cfg.Server.HTTPAddr)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-sigCh:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
