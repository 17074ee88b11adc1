// Package logging wires slog for the API: JSON to stdout, with ERROR
// records additionally fanned out to Postgres via PGHandler.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs the global JSON logger. LOG_LEVEL picks the threshold
// (debug, info, warn, error); anything else means info.
func Setup() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: levelFromEnv(),
	})
	slog.SetDefault(slog.New(handler))
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
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
