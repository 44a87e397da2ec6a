// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	// 1. base config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// 2. environment overlay
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // ignore error if not found

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads the first .env found walking up from the working directory.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars replaces ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills credentials from the environment when the file left them empty.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Integrations.GHL.APIKey == "" {
		if val := os.Getenv("GHL_API_KEY"); val != "" {
			cfg.Integrations.GHL.APIKey = val
		}
	}
	if cfg.Integrations.GHL.LocationID == "" {
		if val := os.Getenv("GHL_LOCATION_ID"); val != "" {
			cfg.Integrations.GHL.LocationID = val
		}
	}
	if cfg.Integrations.Close.APIKey == "" {
		if val := os.Getenv("CLOSE_API_KEY"); val != "" {
			cfg.Integrations.Close.APIKey = val
		}
	}
}

// setDefaults registers defaults for keys where an explicit zero is meaningful.
func setDefaults(v *viper.Viper) {
	v.SetDefault("sync.push_interval_ms", 200)
	v.SetDefault("sync.note_interval_ms", 200)
	v.SetDefault("sync.lookup_interval_ms", 100)
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "crm-sync"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30000
	}
	if cfg.Server.WriteTimeout == 0 {
		// batch actions can run for minutes
		cfg.Server.WriteTimeout = 900000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30000
	}

	ghl := &cfg.Integrations.GHL
	if ghl.BaseURL == "" {
		ghl.BaseURL = "https://services.leadconnectorhq.com"
	}
	if ghl.APIVersion == "" {
		ghl.APIVersion = "2021-07-28"
	}
	if ghl.PageLimit == 0 {
		ghl.PageLimit = 100
	}
	if ghl.MaxContacts == 0 {
		ghl.MaxContacts = 5000
	}
	if ghl.LookupLimit == 0 {
		ghl.LookupLimit = 10
	}
	if ghl.Timeout == 0 {
		ghl.Timeout = 30000
	}

	closeCfg := &cfg.Integrations.Close
	if closeCfg.BaseURL == "" {
		closeCfg.BaseURL = "https://api.close.com/api/v1"
	}
	if closeCfg.Timeout == 0 {
		closeCfg.Timeout = 30000
	}
	if closeCfg.PageSize == 0 {
		closeCfg.PageSize = 100
	}
	if closeCfg.MaxActivities == 0 {
		closeCfg.MaxActivities = 5000
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Integrations.GHL.APIKey == "" {
		return fmt.Errorf("integrations.ghl.api_key is required")
	}
	if cfg.Integrations.GHL.LocationID == "" {
		return fmt.Errorf("integrations.ghl.location_id is required")
	}
	if cfg.Integrations.Close.APIKey == "" {
		return fmt.Errorf("integrations.close.api_key is required")
	}
	if cfg.Integrations.GHL.PageLimit < 1 || cfg.Integrations.GHL.PageLimit > 100 {
		return fmt.Errorf("integrations.ghl.page_limit must be between 1 and 100")
	}
	if cfg.Sync.PushIntervalMs < 0 || cfg.Sync.NoteIntervalMs < 0 || cfg.Sync.LookupIntervalMs < 0 {
		return fmt.Errorf("sync intervals must not be negative")
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetActionConfig retrieves action-specific configuration with fallback to defaults.
// Viper lower-cases map keys, so the lookup is case-insensitive.
func GetActionConfig(cfg *Config, action string) ActionConfig {
	if ac, exists := cfg.Actions[strings.ToLower(action)]; exists {
		return ac
	}
	return ActionConfig{Enabled: true}
}

// IsActionEnabled checks if a specific action is enabled
func IsActionEnabled(cfg *Config, action string) bool {
	return GetActionConfig(cfg, action).Enabled
}
