// Package config provides configuration management for styleai.
package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"

	"github.com/nper79/styleai/pkg/models"
)

const (
	// DefaultPort is the default HTTP port for the styleai service.
	DefaultPort = 38380

	// DefaultMaxConns is the default database connection pool size.
	DefaultMaxConns = 10
)

// Config holds the application configuration.
type Config struct {
	// HTTP settings
	Port int `json:"port"`

	// Database settings. DSN selects PostgreSQL; DBPath is the SQLite
	// fallback for local development.
	DSN      string `json:"dsn"`
	DBPath   string `json:"db_path"`
	MaxConns int    `json:"max_conns"`

	// Tuning holds the preference-model parameters. May be overridden per
	// deployment and reloaded live by the settings watcher.
	Tuning *models.TuningConfig `json:"tuning"`
}

var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// DataDir returns the data directory path (~/.styleai).
func DataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".styleai")
}

// DBPath returns the default database file path.
func DBPath() string {
	return filepath.Join(DataDir(), "styleai.db")
}

// SettingsPath returns the settings file path.
func SettingsPath() string {
	return filepath.Join(DataDir(), "settings.json")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0750)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Port:     DefaultPort,
		DBPath:   DBPath(),
		MaxConns: DefaultMaxConns,
		Tuning:   models.DefaultTuningConfig(),
	}
}

// Load loads configuration from the settings file, merging with defaults.
// A missing or unparsable file yields the defaults.
func Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(SettingsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return applyEnv(cfg), nil
		}
		return nil, err
	}

	var settings map[string]interface{}
	if err := json.Unmarshal(data, &settings); err != nil {
		return applyEnv(cfg), nil
	}

	if v, ok := settings["STYLEAI_PORT"].(float64); ok && v > 0 {
		cfg.Port = int(v)
	}
	if v, ok := settings["STYLEAI_DSN"].(string); ok && v != "" {
		cfg.DSN = v
	}
	if v, ok := settings["STYLEAI_DB_PATH"].(string); ok && v != "" {
		cfg.DBPath = v
	}
	if v, ok := settings["STYLEAI_MAX_CONNS"].(float64); ok && v > 0 {
		cfg.MaxConns = int(v)
	}
	if raw, ok := settings["STYLEAI_TUNING"]; ok {
		if blob, err := json.Marshal(raw); err == nil {
			tuning := models.DefaultTuningConfig()
			if err := json.Unmarshal(blob, tuning); err == nil {
				cfg.Tuning = tuning
			}
		}
	}

	return applyEnv(cfg), nil
}

// applyEnv overrides file settings from the environment.
func applyEnv(cfg *Config) *Config {
	if v := os.Getenv("STYLEAI_DSN"); v != "" {
		cfg.DSN = v
	}
	if v := os.Getenv("STYLEAI_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	return cfg
}

// Get returns the global configuration, loading it on first use.
func Get() *Config {
	configOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
		}
		configMu.Lock()
		globalConfig = cfg
		configMu.Unlock()
	})

	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}

// Reload re-reads the settings file and swaps the global configuration.
// Used by the settings watcher for live tuning changes.
func Reload() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return cfg, nil
}
