package server

import (
	"fmt"
	"time"

	"github.com/ratst-engine/ratst/mapping"
)

// Config holds the settings the server is started with
type Config struct {
	Addr           string
	Dialect        string // used when a request names none
	ValidateOutput bool   // parse generated queries before answering
	Pluralize      bool
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxBodyBytes   int64
}

// DefaultConfig returns the settings used when no flag overrides them
func DefaultConfig() Config {
	return Config{
		Addr:         ":5000",
		Dialect:      mapping.DefaultDialect,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		MaxBodyBytes: 1 << 20,
	}
}

// Validate checks the config and normalizes the dialect name
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("listen address is required")
	}
	dialect, ok := mapping.NormalizeDialect(c.Dialect)
	if !ok {
		return fmt.Errorf("unsupported dialect: %s (supported: %v)", c.Dialect, mapping.SupportedDialects)
	}
	c.Dialect = dialect
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body size must be positive")
	}
	return nil
}
