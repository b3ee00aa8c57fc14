package client

import (
	"log/slog"
	"time"

	"github.com/optionslab/multileg-client/internal/metrics"
	"github.com/optionslab/multileg-client/internal/transport"
)

// State is the connection lifecycle state. Exactly one value holds at a
// time, owned by the Client; everything else only reads it.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateClosing
)

// String returns the string representation of a State.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// Config configures a signal Client.
type Config struct {
	URL           string // Execution service endpoint (ws:// or wss://)
	AuthToken     string // Credential sent in the auth envelope on open
	AutoReconnect bool   // Reconnect automatically on unexpected close

	ReconnectBaseDelay time.Duration // First retry delay
	ReconnectMaxDelay  time.Duration // Retry delay ceiling
	ReconnectJitter    float64       // Fractional jitter on retry delays (0-1)
	MaxAttempts        int           // Give up after this many scheduled attempts (0 = never)

	QueueLimit int // Outbound queue bound, drop-oldest on overflow (0 = unbounded)

	HandshakeTimeout time.Duration // Websocket dial deadline
	WriteTimeout     time.Duration // Write deadline for sends
	PingInterval     time.Duration // Keepalive ping period
	EventBufferSize  int           // Transport event channel buffer
}

// DefaultConfig returns sensible defaults. URL and AuthToken must still
// be set by the caller.
func DefaultConfig() Config {
	return Config{
		AutoReconnect:      true,
		ReconnectBaseDelay: 1 * time.Second,
		ReconnectMaxDelay:  60 * time.Second,
		ReconnectJitter:    0.1,
		QueueLimit:         1024,
		HandshakeTimeout:   10 * time.Second,
		WriteTimeout:       5 * time.Second,
		PingInterval:       30 * time.Second,
		EventBufferSize:    1000,
	}
}

// Stats are runtime counters for monitoring and tests.
type Stats struct {
	State             State
	QueueDepth        int
	ReconnectAttempts int
	Sent              int64
	Queued            int64
	Dropped           int64
	ParseErrors       int64
	UnknownKinds      int64
}

// DialFunc builds a Transport Handle for one connection attempt.
// transport.NewHandle satisfies it; tests substitute fakes.
type DialFunc func(cfg transport.Config, logger *slog.Logger) transport.Handle

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets the Prometheus collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithDialer overrides how Transport Handles are built.
func WithDialer(dial DialFunc) Option {
	return func(c *Client) {
		if dial != nil {
			c.dial = dial
		}
	}
}
