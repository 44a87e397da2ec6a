// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig               `mapstructure:"app"`
	Server       ServerConfig            `mapstructure:"server"`
	Integrations IntegrationConfig       `mapstructure:"integrations"`
	Sync         SyncConfig              `mapstructure:"sync"`
	Actions      map[string]ActionConfig `mapstructure:"actions"`
	Logging      LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// ActionConfig holds the settings applicable to every sync action.
type ActionConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Timeout int  `mapstructure:"timeout"` // milliseconds, 0 means no deadline
}

// --- Vendor Configuration ---

// IntegrationConfig holds settings for the two CRMs.
type IntegrationConfig struct {
	GHL   GHLConfig   `mapstructure:"ghl"`
	Close CloseConfig `mapstructure:"close"`
}

type GHLConfig struct {
	APIKey      string `mapstructure:"api_key"`
	LocationID  string `mapstructure:"location_id"`
	BaseURL     string `mapstructure:"base_url"`
	APIVersion  string `mapstructure:"api_version"`
	PageLimit   int    `mapstructure:"page_limit"`
	MaxContacts int    `mapstructure:"max_contacts"`
	LookupLimit int    `mapstructure:"lookup_limit"`
	Timeout     int    `mapstructure:"timeout"` // milliseconds
}

type CloseConfig struct {
	APIKey        string `mapstructure:"api_key"`
	BaseURL       string `mapstructure:"base_url"`
	Timeout       int    `mapstructure:"timeout"` // milliseconds
	PageSize      int    `mapstructure:"page_size"`
	MaxActivities int    `mapstructure:"max_activities"`
}

// SyncConfig paces the batch actions. An interval of 0 disables the pause.
type SyncConfig struct {
	PushIntervalMs   int `mapstructure:"push_interval_ms"`
	NoteIntervalMs   int `mapstructure:"note_interval_ms"`
	LookupIntervalMs int `mapstructure:"lookup_interval_ms"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}
