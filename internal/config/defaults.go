package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultAPITimeout       = 30 * time.Second
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultWriteTimeout     = 5 * time.Second
	DefaultPingInterval     = 15 * time.Second
	DefaultStaleTimeout     = 60 * time.Second
	DefaultReconnectBase    = 1 * time.Second
	DefaultReconnectMax     = 60 * time.Second
	DefaultBatchSize        = 500
	DefaultFlushInterval    = 1 * time.Second
	DefaultHTTPPort         = 8090
)

func (c *Config) applyDefaults() {
	if c.Server.Timeout == 0 {
		c.Server.Timeout = DefaultAPITimeout
	}

	if c.Channels.HandshakeTimeout == 0 {
		c.Channels.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.Channels.WriteTimeout == 0 {
		c.Channels.WriteTimeout = DefaultWriteTimeout
	}
	if c.Channels.PingInterval == 0 {
		c.Channels.PingInterval = DefaultPingInterval
	}
	if c.Channels.StaleTimeout == 0 {
		c.Channels.StaleTimeout = DefaultStaleTimeout
	}
	if c.Channels.ReconnectBase == 0 {
		c.Channels.ReconnectBase = DefaultReconnectBase
	}
	if c.Channels.ReconnectMax == 0 {
		c.Channels.ReconnectMax = DefaultReconnectMax
	}

	if c.Journal.BatchSize == 0 {
		c.Journal.BatchSize = DefaultBatchSize
	}
	if c.Journal.FlushInterval == 0 {
		c.Journal.FlushInterval = DefaultFlushInterval
	}

	if c.HTTP.Port == 0 {
		c.HTTP.Port = DefaultHTTPPort
	}
}
