package pushcontacts

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled bool          `mapstructure:"enabled"`
	Timeout time.Duration `mapstructure:"timeout"` // 0 runs the batch to completion
	// Interval spaces every outbound Close call of a batch.
	Interval time.Duration `mapstructure:"interval"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:  true,
		Interval: 200 * time.Millisecond,
	}
}

func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.Interval < 0 {
		return fmt.Errorf("interval must not be negative")
	}
	return nil
}
