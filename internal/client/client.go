package client

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/optionslab/multileg-client/internal/metrics"
	"github.com/optionslab/multileg-client/internal/signal"
	"github.com/optionslab/multileg-client/internal/transport"
	"github.com/optionslab/multileg-client/internal/wire"
)

// Client is the resilient transport for trading-strategy control
// signals. It owns the connection state machine, the reconnect policy,
// the outbound queue, and inbound dispatch.
//
// All state shared between the caller and the transport's event
// goroutine (state, queue, attempt counter, retry timer) is guarded by
// mu. Connect, Disconnect, and SendSignal never block on network I/O
// beyond a single non-handshake websocket write.
type Client struct {
	cfg     Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	dial    DialFunc

	registry registry

	mu          sync.Mutex
	state       State
	intentional bool
	handle      transport.Handle
	gen         int // connection generation, guards stale transport events
	queue       [][]byte
	attempts    int
	retryTimer  *time.Timer

	sent         int64
	queued       int64
	dropped      int64
	parseErrors  int64
	unknownKinds int64
}

// New creates a Client. The client starts Disconnected; call Connect to
// begin the handshake.
func New(cfg Config, opts ...Option) *Client {
	if cfg.ReconnectBaseDelay == 0 {
		cfg.ReconnectBaseDelay = DefaultConfig().ReconnectBaseDelay
	}
	if cfg.ReconnectMaxDelay == 0 {
		cfg.ReconnectMaxDelay = DefaultConfig().ReconnectMaxDelay
	}
	if cfg.EventBufferSize == 0 {
		cfg.EventBufferSize = DefaultConfig().EventBufferSize
	}

	c := &Client{
		cfg:    cfg,
		logger: slog.Default(),
		dial:   transport.NewHandle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect starts a connection attempt. Returns true when the attempt was
// initiated; it does not wait for the handshake. A no-op returning false
// while a connection is in flight or established, so reconnection never
// races an existing attempt.
func (c *Client) Connect() bool {
	c.mu.Lock()
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return false
	}
	c.stopRetryLocked()
	c.state = StateConnecting
	c.intentional = false
	c.gen++
	gen := c.gen
	h := c.dial(c.transportConfig(), c.logger)
	c.handle = h
	c.mu.Unlock()

	c.metrics.SetState(int(StateConnecting))
	c.logger.Info("connecting", "url", c.cfg.URL)

	h.Start(context.Background())
	go c.eventLoop(h, gen)
	return true
}

// Disconnect closes the connection intentionally, suppressing
// reconnection and cancelling any pending retry timer. Returns false
// when there is nothing to close.
func (c *Client) Disconnect() bool {
	c.mu.Lock()
	c.stopRetryLocked()
	if c.state != StateConnecting && c.state != StateConnected {
		c.mu.Unlock()
		return false
	}
	c.intentional = true
	c.state = StateClosing
	h := c.handle
	c.mu.Unlock()

	c.metrics.SetState(int(StateClosing))
	if h != nil {
		h.Close()
	}
	return true
}

// SendSignal validates and transmits a trading signal. Returns true when
// a frame was handed to the transport; false when the signal failed
// validation (nothing is sent or buffered) or when it was accepted into
// the outbound queue for delivery on the next connection.
func (c *Client) SendSignal(sig signal.Signal) bool {
	if !signal.Validate(sig) {
		c.logger.Warn("rejecting structurally invalid signal")
		return false
	}

	data, err := wire.Encode(wire.TypeSignal, sig)
	if err != nil {
		c.logger.Warn("failed to encode signal", "error", err)
		return false
	}
	return c.trySend(data)
}

// OnConnect registers a callback invoked on entry into Connected.
func (c *Client) OnConnect(fn ConnectFunc) {
	c.registry.addConnect(fn)
}

// OnDisconnect registers a callback invoked with the close code and reason.
func (c *Client) OnDisconnect(fn DisconnectFunc) {
	c.registry.addDisconnect(fn)
}

// OnSignal registers a callback for inbound signal envelopes.
func (c *Client) OnSignal(fn PayloadFunc) {
	c.registry.addSignal(fn)
}

// OnStatusUpdate registers a callback for inbound status_update envelopes.
func (c *Client) OnStatusUpdate(fn PayloadFunc) {
	c.registry.addStatusUpdate(fn)
}

// OnError registers a callback for transport errors and inbound
// error envelopes.
func (c *Client) OnError(fn PayloadFunc) {
	c.registry.addError(fn)
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Stats returns current runtime counters.
func (c *Client) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		State:             c.state,
		QueueDepth:        len(c.queue),
		ReconnectAttempts: c.attempts,
		Sent:              c.sent,
		Queued:            c.queued,
		Dropped:           c.dropped,
		ParseErrors:       c.parseErrors,
		UnknownKinds:      c.unknownKinds,
	}
}

func (c *Client) transportConfig() transport.Config {
	return transport.Config{
		URL:              c.cfg.URL,
		HandshakeTimeout: c.cfg.HandshakeTimeout,
		WriteTimeout:     c.cfg.WriteTimeout,
		PingInterval:     c.cfg.PingInterval,
		BufferSize:       c.cfg.EventBufferSize,
	}
}

// eventLoop consumes one Handle's event stream and drives the state
// machine. It exits on the close event; a fresh loop is started per
// connection attempt.
func (c *Client) eventLoop(h transport.Handle, gen int) {
	for ev := range h.Events() {
		switch ev.Kind {
		case transport.EventOpen:
			c.onOpen(gen, h)
		case transport.EventMessage:
			c.dispatch(ev.Data)
		case transport.EventError:
			c.onTransportError(ev.Err)
		case transport.EventClose:
			c.onClose(gen, ev.Code, ev.Reason)
			return
		}
	}
}

// onOpen handles the transport open event: transition to Connected,
// reset the attempt counter, authenticate, notify subscribers, flush.
func (c *Client) onOpen(gen int, h transport.Handle) {
	c.mu.Lock()
	if gen != c.gen || c.state != StateConnecting {
		c.mu.Unlock()
		return
	}
	c.state = StateConnected
	c.attempts = 0
	c.mu.Unlock()

	c.metrics.SetState(int(StateConnected))
	c.logger.Info("connected", "url", c.cfg.URL)

	// Authenticate before anything else goes out
	if data, err := wire.Encode(wire.TypeAuth, map[string]string{"token": c.cfg.AuthToken}); err == nil {
		if err := h.Send(data); err != nil {
			c.logger.Warn("failed to send auth envelope", "error", err)
		}
	}

	c.registry.fireConnect(c.logger, c.metrics)

	c.flush()
}

// onTransportError forwards a transport-level failure to the error
// callbacks as a synthesized description. State transitions are driven
// by the paired close event, not here.
func (c *Client) onTransportError(err error) {
	c.logger.Warn("transport error", "error", err)
	c.registry.fireError(c.logger, c.metrics, encodeErrorString("transport error: "+err.Error()))
}

// onClose handles the transport close event: transition to
// Disconnected, notify subscribers, and schedule reconnection unless
// the closure was intentional.
func (c *Client) onClose(gen, code int, reason string) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	intentional := c.intentional
	c.state = StateDisconnected
	c.handle = nil
	c.mu.Unlock()

	c.metrics.SetState(int(StateDisconnected))
	c.logger.Info("disconnected", "code", code, "reason", reason)

	c.registry.fireDisconnect(c.logger, c.metrics, code, reason)

	if !intentional && c.cfg.AutoReconnect {
		c.scheduleReconnect()
	}
}

// trySend transmits immediately when connected, otherwise appends to
// the outbound queue. Returns true only when a frame went out.
func (c *Client) trySend(data []byte) bool {
	c.mu.Lock()
	if c.state == StateConnected && c.handle != nil {
		h := c.handle
		c.mu.Unlock()

		if err := h.Send(data); err != nil {
			// Connection dropped under us; buffer for the next one
			c.logger.Warn("send failed, buffering", "error", err)
			c.mu.Lock()
			c.enqueueLocked(data)
			c.mu.Unlock()
			return false
		}

		c.mu.Lock()
		c.sent++
		c.mu.Unlock()
		c.metrics.IncSent()
		return true
	}

	c.enqueueLocked(data)
	c.mu.Unlock()
	return false
}

// enqueueLocked appends to the queue tail, applying the drop-oldest
// overflow policy. Caller holds c.mu.
func (c *Client) enqueueLocked(data []byte) {
	if c.cfg.QueueLimit > 0 && len(c.queue) >= c.cfg.QueueLimit {
		c.queue = c.queue[1:]
		c.dropped++
		c.metrics.IncDropped()
		c.logger.Warn("outbound queue full, dropping oldest", "limit", c.cfg.QueueLimit)
	}
	c.queue = append(c.queue, data)
	c.queued++
	c.metrics.IncQueued()
	c.metrics.SetQueueDepth(len(c.queue))
}

// flush drains the outbound queue head to tail. A send failure mid-drain
// leaves the remaining entries queued in original order for the next
// successful connection; flush never drops and never reorders.
func (c *Client) flush() {
	for {
		c.mu.Lock()
		if c.state != StateConnected || c.handle == nil || len(c.queue) == 0 {
			depth := len(c.queue)
			c.mu.Unlock()
			c.metrics.SetQueueDepth(depth)
			return
		}
		data := c.queue[0]
		c.queue = c.queue[1:]
		h := c.handle
		c.mu.Unlock()

		if err := h.Send(data); err != nil {
			c.logger.Warn("flush interrupted, re-queueing", "error", err)
			c.mu.Lock()
			c.queue = append([][]byte{data}, c.queue...)
			c.mu.Unlock()
			return
		}

		c.mu.Lock()
		c.sent++
		c.mu.Unlock()
		c.metrics.IncSent()
	}
}
