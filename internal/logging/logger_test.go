package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestOpenWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "prepterm.log")

	logger, closer, err := Open(path, "debug")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	logger.Info().Str("event", "started").Msg("hello")
	if err := closer(); err != nil {
		t.Fatalf("close: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var line map[string]any
	if err := json.Unmarshal(raw, &line); err != nil {
		t.Fatalf("log line not JSON: %v\n%s", err, raw)
	}
	if line["app"] != "prepterm" || line["event"] != "started" {
		t.Errorf("line = %v", line)
	}
}

func TestEmptyPathDisablesLogging(t *testing.T) {
	logger, closer, err := Open("", "info")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	logger.Info().Msg("dropped")
	if err := closer(); err != nil {
		t.Errorf("closer: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"nonsense", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
