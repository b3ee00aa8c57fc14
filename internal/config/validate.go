package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Client.URL == "" {
		return errors.New("client.url is required")
	}
	if !strings.HasPrefix(c.Client.URL, "ws://") && !strings.HasPrefix(c.Client.URL, "wss://") {
		return fmt.Errorf("client.url must be a ws:// or wss:// endpoint, got %q", c.Client.URL)
	}
	if c.Client.AuthToken == "" {
		return errors.New("client.auth_token is required")
	}

	if c.Client.ReconnectJitter < 0 || c.Client.ReconnectJitter >= 1 {
		return errors.New("client.reconnect_jitter must be in [0, 1)")
	}
	if c.Client.MaxAttempts < 0 {
		return errors.New("client.max_attempts must be >= 0")
	}
	if c.Client.QueueLimit < 0 {
		return errors.New("client.queue_limit must be >= 0")
	}

	if c.Journal.Enabled {
		if c.Database.Host == "" {
			return errors.New("database.host is required when journal is enabled")
		}
		if c.Database.Name == "" {
			return errors.New("database.name is required when journal is enabled")
		}
		if c.Database.User == "" {
			return errors.New("database.user is required when journal is enabled")
		}
		if c.Journal.BatchSize < 1 {
			return errors.New("journal.batch_size must be >= 1")
		}
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return errors.New("metrics.port must be between 1 and 65535")
	}

	return nil
}
