package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"bogus": slog.LevelInfo,
		"":      slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestReconfigureLevel(t *testing.T) {
	m, logger := NewManager(Config{Level: "error", Format: "json"})
	defer m.Close() //nolint:errcheck

	if logger.Enabled(t.Context(), slog.LevelInfo) {
		t.Error("info should be disabled at error level")
	}

	m.Reconfigure(Config{Level: "debug", Format: "json"})
	if !logger.Enabled(t.Context(), slog.LevelDebug) {
		t.Error("debug should be enabled after reconfigure")
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")
	m, logger := NewManager(Config{Level: "info", Format: "json", FilePath: path})

	logger.Info("hello", slog.String("k", "v"))
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Errorf("log file missing record: %s", data)
	}
}
