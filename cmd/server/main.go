package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"carelink-backend/internal/app"
	"carelink-backend/internal/config"
)

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging (LevelInfo)")
	veryVerbose := flag.Bool("vv", false, "Enable very verbose logging (LevelDebug)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		setLogLevel(slog.LevelError)
		slog.Error("main: Invalid configuration", "error", err)
		os.Exit(1)
	}

	level := cfg.LogLevel
	if *veryVerbose {
		level = slog.LevelDebug
	} else if *verbose {
		level = slog.LevelInfo
	}
	setLogLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg); err != nil {
		slog.Error("main: Server stopped", "error", err)
		os.Exit(1)
	}
}

// setLogLevel configures structured JSON logging at level
func setLogLevel(level slog.Level) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	slog.Debug("main: Log level set to", "level", level.String())
}
