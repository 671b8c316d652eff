package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/config"
)

const appName = "shareit"

// New constructs a zerolog logger based on config settings.
// Defaults to JSON at info level on stdout.
func New(cfg config.LogConfig, env string) zerolog.Logger {
	return newWithWriter(cfg, env, os.Stdout)
}

func newWithWriter(cfg config.LogConfig, env string, out io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level))); err == nil && parsed != zerolog.NoLevel {
		level = parsed
	}

	if strings.ToLower(strings.TrimSpace(cfg.Format)) == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("app", appName).
		Str("env", env).
		Logger()
}
