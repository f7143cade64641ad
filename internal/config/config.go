package config

import "time"

// Config is the root configuration for coinwatch.
type Config struct {
	API      APIConfig     `yaml:"api"`
	Refresh  RefreshConfig `yaml:"refresh"`
	Storage  StorageConfig `yaml:"storage"`
	Database DBConfig      `yaml:"database"`
	Server   ServerConfig  `yaml:"server"`
	Log      LogConfig     `yaml:"log"`
}

// APIConfig holds market-data API settings.
type APIConfig struct {
	BaseURL    string        `yaml:"base_url"`
	APIKey     string        `yaml:"api_key"` // demo key, or a pro key when base_url is the pro host
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// RefreshConfig holds periodic market refresh settings.
type RefreshConfig struct {
	Interval  time.Duration `yaml:"interval"`
	Timeout   time.Duration `yaml:"timeout"` // Per-fetch timeout
	PerPage   int           `yaml:"per_page"`
	Sparkline bool          `yaml:"sparkline"`
}

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// StorageConfig selects where the watchlist slot is persisted.
type StorageConfig struct {
	Backend string `yaml:"backend"` // memory, file or postgres
	Dir     string `yaml:"dir"`     // Directory for the file backend
	Key     string `yaml:"key"`     // Slot key
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// ServerConfig holds HTTP view server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}
