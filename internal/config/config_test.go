package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "syncd.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoad_ParsesYAML(t *testing.T) {
	path := writeTempConfig(t, `
server:
  ws_url: "wss://sync.example.com/ws"
  rest_url: "https://sync.example.com"
  timeout: 15s
channels:
  ping_interval: 5s
  reconnect_base: 2s
  reconnect_max: 30s
http:
  port: 9000
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.WSURL != "wss://sync.example.com/ws" {
		t.Errorf("WSURL = %q", cfg.Server.WSURL)
	}
	if cfg.Server.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v", cfg.Server.Timeout)
	}
	if cfg.Channels.PingInterval != 5*time.Second {
		t.Errorf("PingInterval = %v", cfg.Channels.PingInterval)
	}
	if cfg.HTTP.Port != 9000 {
		t.Errorf("Port = %d", cfg.HTTP.Port)
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("SYNCD_TEST_KEY", "secret-from-env")

	path := writeTempConfig(t, `
server:
  ws_url: "ws://localhost:4000/ws"
  rest_url: "http://localhost:4000"
  api_key: "${SYNCD_TEST_KEY}"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.APIKey != "secret-from-env" {
		t.Errorf("APIKey = %q, want secret-from-env", cfg.Server.APIKey)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/syncd.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadWithDefaults_FillsOptionalFields(t *testing.T) {
	path := writeTempConfig(t, `
server:
  ws_url: "ws://localhost:4000/ws"
  rest_url: "http://localhost:4000"
`)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults: %v", err)
	}

	if cfg.Server.Timeout != DefaultAPITimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Server.Timeout, DefaultAPITimeout)
	}
	if cfg.Channels.ReconnectBase != DefaultReconnectBase {
		t.Errorf("ReconnectBase = %v, want %v", cfg.Channels.ReconnectBase, DefaultReconnectBase)
	}
	if cfg.Channels.StaleTimeout != DefaultStaleTimeout {
		t.Errorf("StaleTimeout = %v, want %v", cfg.Channels.StaleTimeout, DefaultStaleTimeout)
	}
	if cfg.Journal.BatchSize != DefaultBatchSize {
		t.Errorf("BatchSize = %d, want %d", cfg.Journal.BatchSize, DefaultBatchSize)
	}
	if cfg.HTTP.Port != DefaultHTTPPort {
		t.Errorf("Port = %d, want %d", cfg.HTTP.Port, DefaultHTTPPort)
	}
}

func TestLoadWithDefaults_ExplicitValuesKept(t *testing.T) {
	path := writeTempConfig(t, `
server:
  ws_url: "ws://localhost:4000/ws"
  rest_url: "http://localhost:4000"
channels:
  stale_timeout: 90s
`)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults: %v", err)
	}
	if cfg.Channels.StaleTimeout != 90*time.Second {
		t.Errorf("StaleTimeout = %v, want 90s", cfg.Channels.StaleTimeout)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.Server.WSURL = "ws://localhost:4000/ws"
		cfg.Server.RestURL = "http://localhost:4000"
		cfg.applyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing ws url", func(c *Config) { c.Server.WSURL = "" }, "ws_url"},
		{"http scheme rejected", func(c *Config) { c.Server.WSURL = "http://localhost:4000" }, "ws://"},
		{"missing rest url", func(c *Config) { c.Server.RestURL = "" }, "rest_url"},
		{"reconnect base above max", func(c *Config) {
			c.Channels.ReconnectBase = 2 * time.Minute
		}, "reconnect_base"},
		{"journal batch size", func(c *Config) {
			c.Journal.DSN = "postgres://localhost/sync"
			c.Journal.BatchSize = -1
		}, "batch_size"},
		{"port out of range", func(c *Config) { c.HTTP.Port = 70000 }, "port"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestLoadAndValidate_RejectsBadConfig(t *testing.T) {
	path := writeTempConfig(t, `
server:
  ws_url: "http://not-a-ws-url"
  rest_url: "http://localhost:4000"
`)

	if _, err := LoadAndValidate(path); err == nil {
		t.Fatal("expected validation error for non-ws scheme")
	}
}
