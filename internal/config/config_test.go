package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	yaml := `
api:
  base_url: https://pro-api.coingecko.com/api/v3
  timeout: 10s
refresh:
  interval: 2m
  sparkline: true
storage:
  backend: postgres
  key: my-watchlists
database:
  host: localhost
  port: 5433
  name: coinwatch
  user: testuser
  password: testpass
server:
  addr: 127.0.0.1:9000
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.API.BaseURL != "https://pro-api.coingecko.com/api/v3" {
		t.Errorf("API.BaseURL = %q, want %q", cfg.API.BaseURL, "https://pro-api.coingecko.com/api/v3")
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("API.Timeout = %v, want %v", cfg.API.Timeout, 10*time.Second)
	}
	if cfg.Refresh.Interval != 2*time.Minute {
		t.Errorf("Refresh.Interval = %v, want %v", cfg.Refresh.Interval, 2*time.Minute)
	}
	if !cfg.Refresh.Sparkline {
		t.Error("Refresh.Sparkline = false, want true")
	}
	if cfg.Storage.Backend != BackendPostgres {
		t.Errorf("Storage.Backend = %q, want %q", cfg.Storage.Backend, BackendPostgres)
	}
	if cfg.Database.Port != 5433 {
		t.Errorf("Database.Port = %d, want %d", cfg.Database.Port, 5433)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, "127.0.0.1:9000")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "secret123")
	t.Setenv("TEST_CG_KEY", "CG-abc")

	yaml := `
api:
  api_key: ${TEST_CG_KEY}
database:
  host: localhost
  name: coinwatch
  user: testuser
  password: ${TEST_DB_PASSWORD}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Password != "secret123" {
		t.Errorf("Database.Password = %q, want %q", cfg.Database.Password, "secret123")
	}
	if cfg.API.APIKey != "CG-abc" {
		t.Errorf("API.APIKey = %q, want %q", cfg.API.APIKey, "CG-abc")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	path := writeTempFile(t, "log:\n  level: debug\n")

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	// Check defaults were applied
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("API.BaseURL = %q, want default %q", cfg.API.BaseURL, DefaultBaseURL)
	}
	if cfg.API.MaxRetries != DefaultMaxRetries {
		t.Errorf("API.MaxRetries = %d, want default %d", cfg.API.MaxRetries, DefaultMaxRetries)
	}
	if cfg.Refresh.Interval != DefaultRefreshInterval {
		t.Errorf("Refresh.Interval = %v, want default %v", cfg.Refresh.Interval, DefaultRefreshInterval)
	}
	if cfg.Refresh.PerPage != DefaultPerPage {
		t.Errorf("Refresh.PerPage = %d, want default %d", cfg.Refresh.PerPage, DefaultPerPage)
	}
	if cfg.Storage.Backend != DefaultBackend {
		t.Errorf("Storage.Backend = %q, want default %q", cfg.Storage.Backend, DefaultBackend)
	}
	if cfg.Storage.Key != DefaultStorageKey {
		t.Errorf("Storage.Key = %q, want default %q", cfg.Storage.Key, DefaultStorageKey)
	}
	if cfg.Database.Port != DefaultDBPort {
		t.Errorf("Database.Port = %d, want default %d", cfg.Database.Port, DefaultDBPort)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() unexpected error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return *Default()
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "relative base url",
			mutate:  func(c *Config) { c.API.BaseURL = "/api/v3" },
			wantErr: `api.base_url must be an absolute URL, got "/api/v3"`,
		},
		{
			name:    "negative retries",
			mutate:  func(c *Config) { c.API.MaxRetries = -1 },
			wantErr: "api.max_retries must be >= 0",
		},
		{
			name:    "refresh interval too short",
			mutate:  func(c *Config) { c.Refresh.Interval = 10 * time.Millisecond },
			wantErr: "refresh.interval must be >= 1s, got 10ms",
		},
		{
			name:    "per page out of range",
			mutate:  func(c *Config) { c.Refresh.PerPage = 500 },
			wantErr: "refresh.per_page must be between 1 and 250, got 500",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Storage.Backend = "redis" },
			wantErr: `storage.backend must be one of memory, file, postgres, got "redis"`,
		},
		{
			name:    "file backend without dir",
			mutate:  func(c *Config) { c.Storage.Dir = "" },
			wantErr: "storage.dir is required for the file backend",
		},
		{
			name:    "postgres backend without host",
			mutate:  func(c *Config) { c.Storage.Backend = BackendPostgres },
			wantErr: "database.host is required",
		},
		{
			name: "postgres min_conns exceeds max_conns",
			mutate: func(c *Config) {
				c.Storage.Backend = BackendPostgres
				c.Database = DBConfig{Host: "localhost", Name: "db", User: "user", Password: "pass", MaxConns: 2, MinConns: 5}
			},
			wantErr: "database.min_conns (5) cannot exceed max_conns (2)",
		},
		{
			name: "valid postgres",
			mutate: func(c *Config) {
				c.Storage.Backend = BackendPostgres
				c.Database = DBConfig{Host: "localhost", Name: "db", User: "user", Password: "pass", MaxConns: 4, MinConns: 1}
			},
			wantErr: "",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "trace" },
			wantErr: `log.level must be one of debug, info, warn, error, got "trace"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
