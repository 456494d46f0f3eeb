package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kylerisse/staleboard/pkg/config"
	"github.com/kylerisse/staleboard/pkg/server"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	listenAddr := flag.String("listen", "", "address to listen on (default :8080)")
	statusDir := flag.String("status-dir", "", "directory containing node status files")
	warning := flag.String("warning", "", "staleness warning threshold (duration or seconds)")
	critical := flag.String("critical", "", "staleness critical threshold (duration or seconds)")
	ageFormat := flag.String("age-format", "", "age presentation: relative or seconds")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "text", "log format (text or json)")
	logFile := flag.String("log-file", "", "write logs to this file instead of stderr")
	flag.Parse()

	logger, err := setupLogging(*logLevel, *logFormat, *logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	if err := applyFlags(cfg, *listenAddr, *statusDir, *warning, *critical, *ageFormat); err != nil {
		logger.Fatalf("Invalid flag: %v", err)
	}

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
	srv.Start()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	logger.Info("Server is running. Press Ctrl+C to stop.")
	<-stop
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
	logger.Info("Server stopped.")
}

// applyFlags overrides cfg with any non-empty command-line values.
func applyFlags(cfg *config.Config, listenAddr, statusDir, warning, critical, ageFormat string) error {
	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}
	if statusDir != "" {
		cfg.StatusDir = statusDir
	}
	if ageFormat != "" {
		cfg.AgeFormat = config.AgeFormat(ageFormat)
	}
	if warning != "" {
		d, err := config.ParseDuration(warning)
		if err != nil {
			return fmt.Errorf("-warning: %w", err)
		}
		cfg.Warning = config.Duration(d)
	}
	if critical != "" {
		d, err := config.ParseDuration(critical)
		if err != nil {
			return fmt.Errorf("-critical: %w", err)
		}
		cfg.Critical = config.Duration(d)
	}
	return nil
}

func setupLogging(level, format, file string) (*logrus.Logger, error) {
	logger := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(lvl)

	switch format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	var out io.Writer = os.Stderr
	if file != "" {
		f, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
	}
	logger.SetOutput(out)

	return logger, nil
}
