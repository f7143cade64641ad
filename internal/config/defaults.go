package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL         = "https://api.coingecko.com/api/v3"
	DefaultAPITimeout      = 30 * time.Second
	DefaultMaxRetries      = 0
	DefaultRefreshInterval = 60 * time.Second
	DefaultRefreshTimeout  = 20 * time.Second
	DefaultPerPage         = 100
	DefaultBackend         = BackendFile
	DefaultStorageDir      = ".coinwatch"
	DefaultStorageKey      = "watchlists"
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 4
	DefaultMinConns        = 1
	DefaultServerAddr      = ":8080"
	DefaultLogLevel        = "info"
)

func (c *Config) applyDefaults() {
	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}

	// Refresh defaults
	if c.Refresh.Interval == 0 {
		c.Refresh.Interval = DefaultRefreshInterval
	}
	if c.Refresh.Timeout == 0 {
		c.Refresh.Timeout = DefaultRefreshTimeout
	}
	if c.Refresh.PerPage == 0 {
		c.Refresh.PerPage = DefaultPerPage
	}

	// Storage defaults
	if c.Storage.Backend == "" {
		c.Storage.Backend = DefaultBackend
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = DefaultStorageDir
	}
	if c.Storage.Key == "" {
		c.Storage.Key = DefaultStorageKey
	}

	// Database defaults
	applyDBDefaults(&c.Database)

	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
