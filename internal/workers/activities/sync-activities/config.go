package syncactivities

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled        bool          `mapstructure:"enabled"`
	Timeout        time.Duration `mapstructure:"timeout"`
	LookupInterval time.Duration `mapstructure:"lookup_interval"`
	NoteInterval   time.Duration `mapstructure:"note_interval"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:        true,
		LookupInterval: 100 * time.Millisecond,
		NoteInterval:   200 * time.Millisecond,
	}
}

func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.LookupInterval < 0 || c.NoteInterval < 0 {
		return fmt.Errorf("intervals must not be negative")
	}
	return nil
}
