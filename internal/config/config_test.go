package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "client.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	yaml := `
client:
  url: wss://signals.example.com/ws
  auth_token: test-token
  reconnect_base_delay: 2s
database:
  host: localhost
  port: 5432
  name: signals
  user: signaler
  password: secret
journal:
  enabled: true
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Client.URL != "wss://signals.example.com/ws" {
		t.Errorf("Client.URL = %q, want %q", cfg.Client.URL, "wss://signals.example.com/ws")
	}
	if cfg.Client.AuthToken != "test-token" {
		t.Errorf("Client.AuthToken = %q, want %q", cfg.Client.AuthToken, "test-token")
	}
	if cfg.Client.ReconnectBaseDelay != 2*time.Second {
		t.Errorf("ReconnectBaseDelay = %v, want 2s", cfg.Client.ReconnectBaseDelay)
	}
	if !cfg.Journal.Enabled {
		t.Error("expected Journal.Enabled to be true")
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("Database.Host = %q, want localhost", cfg.Database.Host)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_AUTH_TOKEN", "secret123")

	yaml := `
client:
  url: wss://signals.example.com/ws
  auth_token: ${TEST_AUTH_TOKEN}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Client.AuthToken != "secret123" {
		t.Errorf("Client.AuthToken = %q, want secret123", cfg.Client.AuthToken)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
client:
  url: wss://signals.example.com/ws
  auth_token: test-token
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.Client.ReconnectBaseDelay != DefaultReconnectBaseDelay {
		t.Errorf("ReconnectBaseDelay = %v, want %v", cfg.Client.ReconnectBaseDelay, DefaultReconnectBaseDelay)
	}
	if cfg.Client.ReconnectMaxDelay != DefaultReconnectMaxDelay {
		t.Errorf("ReconnectMaxDelay = %v, want %v", cfg.Client.ReconnectMaxDelay, DefaultReconnectMaxDelay)
	}
	if cfg.Client.QueueLimit != DefaultQueueLimit {
		t.Errorf("QueueLimit = %d, want %d", cfg.Client.QueueLimit, DefaultQueueLimit)
	}
	if cfg.Database.Port != DefaultDBPort {
		t.Errorf("Database.Port = %d, want %d", cfg.Database.Port, DefaultDBPort)
	}
	if cfg.Metrics.Port != DefaultMetricsPort {
		t.Errorf("Metrics.Port = %d, want %d", cfg.Metrics.Port, DefaultMetricsPort)
	}
	if cfg.Metrics.Path != DefaultMetricsPath {
		t.Errorf("Metrics.Path = %q, want %q", cfg.Metrics.Path, DefaultMetricsPath)
	}
}

func TestValidate_MissingURL(t *testing.T) {
	yaml := `
client:
  auth_token: test-token
`
	path := writeTempFile(t, yaml)

	if _, err := LoadAndValidate(path); err == nil {
		t.Error("expected validation error for missing client.url")
	}
}

func TestValidate_BadScheme(t *testing.T) {
	yaml := `
client:
  url: https://signals.example.com/ws
  auth_token: test-token
`
	path := writeTempFile(t, yaml)

	if _, err := LoadAndValidate(path); err == nil {
		t.Error("expected validation error for non-websocket url")
	}
}

func TestValidate_JournalRequiresDatabase(t *testing.T) {
	yaml := `
client:
  url: wss://signals.example.com/ws
  auth_token: test-token
journal:
  enabled: true
`
	path := writeTempFile(t, yaml)

	if _, err := LoadAndValidate(path); err == nil {
		t.Error("expected validation error for journal without database")
	}
}

func TestValidate_OK(t *testing.T) {
	yaml := `
client:
  url: wss://signals.example.com/ws
  auth_token: test-token
`
	path := writeTempFile(t, yaml)

	if _, err := LoadAndValidate(path); err != nil {
		t.Errorf("LoadAndValidate failed: %v", err)
	}
}
