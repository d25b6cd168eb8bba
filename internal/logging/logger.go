// Package logging builds the file-backed structured logger. Stdout belongs
// to the TUI, so nothing is ever written there.
package logging

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Open builds a logger writing JSON lines to path at the given level. An
// empty path disables logging. The returned closer flushes the file and is
// safe to call even when logging is disabled.
func Open(path, level string) (zerolog.Logger, func() error, error) {
	if path == "" {
		return zerolog.Nop(), func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	logger := zerolog.New(f).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Str("app", "prepterm").
		Logger()
	return logger, f.Close, nil
}

func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
