// Package logging configures the global zerolog logger for each surface.
// The GUI and CLI write human-readable lines to stderr; the terminal UI owns
// the screen, so it writes JSON lines to <config dir>/logs/focusforge.log.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LevelEnv selects the log level when --log-level is not given.
const LevelEnv = "FOCUSFORGE_LOG_LEVEL"

// FileName is the log file written in terminal UI mode.
const FileName = "focusforge.log"

// ParseLevel parses a level name, falling back to info.
func ParseLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "off", "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// ResolveLevel prefers the flag value and falls back to LevelEnv.
func ResolveLevel(flagValue string) zerolog.Level {
	if strings.TrimSpace(flagValue) != "" {
		return ParseLevel(flagValue)
	}
	return ParseLevel(os.Getenv(LevelEnv))
}

// Setup points the global logger at writer.
func Setup(writer io.Writer, level zerolog.Level) {
	log.Logger = zerolog.New(writer).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(level)
}

// SetupConsole writes colourised lines to stderr.
func SetupConsole(level zerolog.Level) {
	Setup(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}, level)
}

// SetupFile appends to <dir>/logs/focusforge.log. The caller closes the
// returned file on exit.
func SetupFile(dir string, level zerolog.Level) (*os.File, error) {
	logsDir := filepath.Join(dir, "logs")
	if err := os.MkdirAll(logsDir, 0o750); err != nil {
		return nil, fmt.Errorf("create logs dir: %w", err)
	}
	file, err := os.OpenFile(filepath.Join(logsDir, FileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	Setup(file, level)
	return file, nil
}
