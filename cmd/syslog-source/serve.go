package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/telhawk-systems/syslog-source/internal/config"
	"github.com/telhawk-systems/syslog-source/internal/connector"
	"github.com/telhawk-systems/syslog-source/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the connector",
	Long:  "Start the syslog listener and forward translated records until interrupted",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	)
	logging.SetDefault(logger)

	slog.Info("starting syslog-source",
		slog.String("topic", cfg.Topic),
		slog.String("log_level", cfg.Logging.Level),
		slog.Bool("reverse_dns", cfg.Resolver.ReverseDNS),
	)
	if cfgFile != "" {
		slog.Info("loaded configuration", slog.String("config_path", cfgFile))
	}

	// Metrics endpoint
	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: mux,
		}
		go func() {
			slog.Info("metrics listening", slog.String("addr", metricsSrv.Addr))
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("metrics server error", slog.String("error", err.Error()))
			}
		}()
	}

	conn := connector.New(cfg, logger)
	if err := conn.Start(cmd.Context()); err != nil {
		return err
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	if err := conn.Stop(); err != nil {
		slog.Error("connector stop", slog.String("error", err.Error()))
	}

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}

	slog.Info("stopped")
	return nil
}
