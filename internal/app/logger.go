package app

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// logLevels maps the accepted level names to slog levels. Level parsing
// lives here and nowhere else, so the CLI and the logger cannot drift
// apart.
var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

func parseLogLevel(s string) (slog.Level, error) {
	level, ok := logLevels[strings.ToLower(s)]
	if !ok {
		return 0, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", s)
	}
	return level, nil
}

func parseLogFormat(s string) (string, error) {
	format := strings.ToLower(s)
	if format != "text" && format != "json" {
		return "", fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", s)
	}
	return format, nil
}

// newLogger builds the app's logger from an already validated Config. It
// never sets the global default, keeping logger instances isolated.
func newLogger(cfg *Config, outW io.Writer) *slog.Logger {
	level, err := parseLogLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(outW, opts))
	}
	return slog.New(slog.NewJSONHandler(outW, opts))
}
