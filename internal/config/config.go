package config

import "time"

// Config is the root configuration for the signal client daemon.
type Config struct {
	Client   ClientConfig  `yaml:"client"`
	Database DBConfig      `yaml:"database"`
	Journal  JournalConfig `yaml:"journal"`
	Metrics  MetricsConfig `yaml:"metrics"`
}

// ClientConfig holds execution-service connection settings.
type ClientConfig struct {
	URL       string `yaml:"url"`        // ws:// or wss:// endpoint
	AuthToken string `yaml:"auth_token"` // credential sent on open

	// DisableReconnect turns off automatic reconnection on unexpected
	// close. Zero value keeps it enabled.
	DisableReconnect bool `yaml:"disable_reconnect"`

	ReconnectBaseDelay time.Duration `yaml:"reconnect_base_delay"`
	ReconnectMaxDelay  time.Duration `yaml:"reconnect_max_delay"`
	ReconnectJitter    float64       `yaml:"reconnect_jitter"`
	MaxAttempts        int           `yaml:"max_attempts"` // 0 = retry forever

	QueueLimit int `yaml:"queue_limit"` // 0 = unbounded

	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	PingInterval     time.Duration `yaml:"ping_interval"`
}

// DBConfig holds the Postgres connection for the signal journal.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// JournalConfig holds signal journal settings.
type JournalConfig struct {
	Enabled       bool          `yaml:"enabled"`
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}
