package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Server.WSURL == "" {
		return errors.New("server.ws_url is required")
	}
	if !strings.HasPrefix(c.Server.WSURL, "ws://") && !strings.HasPrefix(c.Server.WSURL, "wss://") {
		return fmt.Errorf("server.ws_url must be a ws:// or wss:// URL, got %q", c.Server.WSURL)
	}
	if c.Server.RestURL == "" {
		return errors.New("server.rest_url is required")
	}

	if c.Channels.ReconnectBase > c.Channels.ReconnectMax {
		return errors.New("channels.reconnect_base must be <= channels.reconnect_max")
	}

	if c.Journal.DSN != "" {
		if c.Journal.BatchSize < 1 {
			return errors.New("journal.batch_size must be >= 1")
		}
	}

	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	return nil
}
