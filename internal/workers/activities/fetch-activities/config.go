package fetchactivities

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	Timeout       time.Duration `mapstructure:"timeout"`
	PageSize      int           `mapstructure:"page_size"`
	MaxActivities int           `mapstructure:"max_activities"`
	// LookupInterval spaces the contact lookups used to resolve emails.
	LookupInterval time.Duration `mapstructure:"lookup_interval"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:        true,
		PageSize:       100,
		MaxActivities:  5000,
		LookupInterval: 100 * time.Millisecond,
	}
}

func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive")
	}
	if c.MaxActivities <= 0 {
		return fmt.Errorf("max_activities must be positive")
	}
	if c.LookupInterval < 0 {
		return fmt.Errorf("lookup_interval must not be negative")
	}
	return nil
}
