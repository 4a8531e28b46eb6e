package config

import "time"

// Config is the top-level syncd configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Channels ChannelsConfig `yaml:"channels"`
	Journal  JournalConfig  `yaml:"journal"`
	HTTP     HTTPConfig     `yaml:"http"`
}

// ServerConfig addresses the remote sync server.
type ServerConfig struct {
	WSURL   string        `yaml:"ws_url"`   // Base WebSocket endpoint; channels attach as sub-paths
	RestURL string        `yaml:"rest_url"` // Base REST endpoint for bootstrap reads
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"` // REST client timeout
}

// ChannelsConfig tunes the per-channel transport clients.
type ChannelsConfig struct {
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	PingInterval     time.Duration `yaml:"ping_interval"`
	StaleTimeout     time.Duration `yaml:"stale_timeout"`
	ReconnectBase    time.Duration `yaml:"reconnect_base"`
	ReconnectMax     time.Duration `yaml:"reconnect_max"`
}

// JournalConfig enables the optional Postgres event journal. An empty DSN
// disables it.
type JournalConfig struct {
	DSN           string        `yaml:"dsn"`
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
}

// HTTPConfig configures the read-only state API.
type HTTPConfig struct {
	Port int `yaml:"port"`
}
