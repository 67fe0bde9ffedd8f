package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Mongo.Database != "radiorasclat" {
		t.Errorf("Database = %q, want radiorasclat", cfg.Mongo.Database)
	}
	if cfg.Search.ReindexCron != "0 */12 * * *" {
		t.Errorf("ReindexCron = %q", cfg.Search.ReindexCron)
	}
	if cfg.Auth.TokenLifeMinutes != 60 {
		t.Errorf("TokenLifeMinutes = %d, want 60", cfg.Auth.TokenLifeMinutes)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
server:
  port: 9090
  base_path: /api/
mongo:
  database: rasclat_test
logging:
  level: debug
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.BasePath != "/api" {
		t.Errorf("BasePath = %q, want /api (trailing slash trimmed)", cfg.Server.BasePath)
	}
	if cfg.Mongo.Database != "rasclat_test" {
		t.Errorf("Database = %q", cfg.Mongo.Database)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("RR_PORT", "7070")
	t.Setenv("RR_MONGODB_URI", "mongodb://db:27017")
	t.Setenv("RR_LOG_FORMAT", "text")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Mongo.URI != "mongodb://db:27017" {
		t.Errorf("URI = %q", cfg.Mongo.URI)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Format = %q", cfg.Logging.Format)
	}
}

func TestInvalidPort(t *testing.T) {
	t.Setenv("RR_PORT", "70000")
	if _, err := Load(""); err == nil {
		t.Error("expected error for out-of-range port")
	}
}

func TestMissingFileIsNotAnError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Fatalf("Load with absent file: %v", err)
	}
}
