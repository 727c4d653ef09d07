package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/4kphotoz/website/cmd/website/internal/configuration"
)

func setupLogger(config *configuration.Config, version string) {
	level := slog.LevelInfo

	switch strings.ToLower(config.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	options := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, options)

	if version != "development" {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}

	logger := slog.New(handler).With("version", version)
	slog.SetDefault(logger)
}
