// Package store provides implementations of the connection and variable
// stores backed by an orchestrator metadata database (raw PostgreSQL or
// GORM), plus an in-memory store for tests and examples.
package store

import (
	"fmt"
	"time"
)

// Config holds the settings shared by the database-backed stores.
type Config struct {
	ConnectionURL string
	Options       map[string]interface{}
}

// PoolConfig holds connection-pool settings parsed from Config.Options.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.ConnectionURL == "" {
		return fmt.Errorf("connection URL is required")
	}
	return nil
}

// parsePoolConfig extracts pool options from Config.Options, falling back to
// defaults.
func parsePoolConfig(options map[string]interface{}) *PoolConfig {
	cfg := &PoolConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
	}

	if options == nil {
		return cfg
	}

	if v, ok := options["max_open_conns"].(int); ok {
		cfg.MaxOpenConns = v
	}
	if v, ok := options["max_idle_conns"].(int); ok {
		cfg.MaxIdleConns = v
	}
	if v, ok := options["conn_max_lifetime"].(time.Duration); ok {
		cfg.ConnMaxLifetime = v
	}
	if v, ok := options["conn_max_idle_time"].(time.Duration); ok {
		cfg.ConnMaxIdleTime = v
	}

	return cfg
}
