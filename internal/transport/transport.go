package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Errors
var (
	ErrNotConnected  = errors.New("not connected")
	ErrAlreadyClosed = errors.New("already closed")
)

// EventKind discriminates transport events.
type EventKind int

const (
	// EventOpen is delivered once when the handshake completes.
	EventOpen EventKind = iota

	// EventMessage carries one inbound text frame in Data.
	EventMessage

	// EventError carries a transport-level failure in Err. It does not
	// terminate the event stream; the paired EventClose does.
	EventError

	// EventClose is the final event on the stream, carrying the close
	// code and reason. The events channel is closed after it.
	EventClose
)

// Event is one item on a Handle's event stream.
type Event struct {
	Kind   EventKind
	Data   []byte
	Err    error
	Code   int
	Reason string
}

// Handle is a single-use full-duplex text channel. Start begins the
// connection attempt in the background; all outcomes, including dial
// failure, are observed on Events. A Handle cannot be restarted after
// its EventClose; reconnection builds a fresh Handle.
type Handle interface {
	// Start begins dialing and event delivery. Non-blocking.
	Start(ctx context.Context)

	// Send writes one text frame. Fails with ErrNotConnected before the
	// open event or after close.
	Send(data []byte) error

	// Close tears the connection down. The event stream still ends with
	// an EventClose.
	Close() error

	// Events returns the event stream. Closed after EventClose.
	Events() <-chan Event
}

// Config configures a transport Handle.
type Config struct {
	URL              string        // ws:// or wss:// endpoint
	HandshakeTimeout time.Duration // Dial deadline
	WriteTimeout     time.Duration // Write deadline for sends
	PingInterval     time.Duration // Keepalive ping period (0 disables)
	BufferSize       int           // Event channel buffer size
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     5 * time.Second,
		PingInterval:     30 * time.Second,
		BufferSize:       1000,
	}
}

// handle implements the Handle interface over gorilla/websocket.
type handle struct {
	cfg    Config
	logger *slog.Logger

	events chan Event

	writeMu sync.Mutex

	mu        sync.RWMutex
	conn      *websocket.Conn
	connected bool
	closed    bool
	cancel    context.CancelFunc
}

// NewHandle creates an unstarted websocket transport Handle.
func NewHandle(cfg Config, logger *slog.Logger) Handle {
	if logger == nil {
		logger = slog.Default()
	}
	return &handle{
		cfg:    cfg,
		logger: logger,
		events: make(chan Event, cfg.BufferSize),
	}
}

// Start begins dialing and event delivery.
func (h *handle) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	h.mu.Lock()
	h.cancel = cancel
	h.mu.Unlock()

	go h.run(ctx)
}

// run dials, then reads frames until the connection ends. It owns all
// event emission, so EventClose is delivered exactly once.
func (h *handle) run(ctx context.Context) {
	defer close(h.events)

	dialer := websocket.Dialer{
		HandshakeTimeout: h.cfg.HandshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, h.cfg.URL, nil)
	if err != nil {
		h.events <- Event{Kind: EventError, Err: fmt.Errorf("dial %s: %w", h.cfg.URL, err)}
		h.events <- Event{Kind: EventClose, Code: websocket.CloseAbnormalClosure, Reason: err.Error()}
		return
	}

	h.mu.Lock()
	if h.closed {
		// Close raced the handshake
		h.mu.Unlock()
		conn.Close()
		h.events <- Event{Kind: EventClose, Code: websocket.CloseNormalClosure, Reason: "closed"}
		return
	}
	h.conn = conn
	h.connected = true
	h.mu.Unlock()

	h.events <- Event{Kind: EventOpen}

	if h.cfg.PingInterval > 0 {
		go h.pingLoop(ctx, conn)
	}

	h.readLoop(conn)
}

// readLoop reads frames and emits message events until the connection ends.
func (h *handle) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			h.mu.Lock()
			h.connected = false
			wasClosed := h.closed
			h.mu.Unlock()

			code, reason := closeInfo(err)
			if wasClosed {
				// Local close; the read error is expected noise
				h.events <- Event{Kind: EventClose, Code: websocket.CloseNormalClosure, Reason: "closed"}
				return
			}
			if _, ok := err.(*websocket.CloseError); !ok {
				h.events <- Event{Kind: EventError, Err: err}
			}
			h.events <- Event{Kind: EventClose, Code: code, Reason: reason}
			return
		}

		select {
		case h.events <- Event{Kind: EventMessage, Data: data}:
		default:
			h.logger.Warn("event buffer full, dropping message")
		}
	}
}

// closeInfo extracts the close code and reason from a read error.
func closeInfo(err error) (int, string) {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Code, ce.Text
	}
	return websocket.CloseAbnormalClosure, err.Error()
}

// pingLoop sends keepalive pings until the connection ends.
func (h *handle) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(h.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deadline := time.Now().Add(h.cfg.WriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, []byte("keepalive"), deadline); err != nil {
				h.logger.Debug("failed to send ping", "error", err)
				return
			}
		}
	}
}

// Send writes one text frame to the connection.
func (h *handle) Send(data []byte) error {
	h.mu.RLock()
	if !h.connected {
		h.mu.RUnlock()
		return ErrNotConnected
	}
	conn := h.conn
	h.mu.RUnlock()

	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// Close tears the connection down.
func (h *handle) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrAlreadyClosed
	}
	h.closed = true
	h.connected = false
	conn := h.conn
	cancel := h.cancel
	h.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	if conn != nil {
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		return conn.Close()
	}

	return nil
}

// Events returns the event stream.
func (h *handle) Events() <-chan Event {
	return h.events
}
