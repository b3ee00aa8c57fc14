package client

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/optionslab/multileg-client/internal/metrics"
)

// ConnectFunc is invoked on entry into the connected state.
type ConnectFunc func()

// DisconnectFunc is invoked with the close code and reason.
type DisconnectFunc func(code int, reason string)

// PayloadFunc is invoked with an envelope payload. For transport-level
// errors the payload is a synthesized JSON string description; for
// error-kind envelopes it is the peer's payload verbatim.
type PayloadFunc func(payload json.RawMessage)

// registry holds subscriber callbacks per event category. Entries are
// append-only for the lifetime of the client; callbacks run
// synchronously in registration order.
type registry struct {
	mu         sync.Mutex
	connect    []ConnectFunc
	disconnect []DisconnectFunc
	signal     []PayloadFunc
	status     []PayloadFunc
	errs       []PayloadFunc
}

func (r *registry) addConnect(fn ConnectFunc) {
	r.mu.Lock()
	r.connect = append(r.connect, fn)
	r.mu.Unlock()
}

func (r *registry) addDisconnect(fn DisconnectFunc) {
	r.mu.Lock()
	r.disconnect = append(r.disconnect, fn)
	r.mu.Unlock()
}

func (r *registry) addSignal(fn PayloadFunc) {
	r.mu.Lock()
	r.signal = append(r.signal, fn)
	r.mu.Unlock()
}

func (r *registry) addStatusUpdate(fn PayloadFunc) {
	r.mu.Lock()
	r.status = append(r.status, fn)
	r.mu.Unlock()
}

func (r *registry) addError(fn PayloadFunc) {
	r.mu.Lock()
	r.errs = append(r.errs, fn)
	r.mu.Unlock()
}

func (r *registry) fireConnect(logger *slog.Logger, m *metrics.Metrics) {
	r.mu.Lock()
	fns := append([]ConnectFunc(nil), r.connect...)
	r.mu.Unlock()

	for _, fn := range fns {
		safeCall(logger, m, "connect", func() { fn() })
	}
}

func (r *registry) fireDisconnect(logger *slog.Logger, m *metrics.Metrics, code int, reason string) {
	r.mu.Lock()
	fns := append([]DisconnectFunc(nil), r.disconnect...)
	r.mu.Unlock()

	for _, fn := range fns {
		safeCall(logger, m, "disconnect", func() { fn(code, reason) })
	}
}

func (r *registry) fireSignal(logger *slog.Logger, m *metrics.Metrics, payload json.RawMessage) {
	r.mu.Lock()
	fns := append([]PayloadFunc(nil), r.signal...)
	r.mu.Unlock()

	for _, fn := range fns {
		safeCall(logger, m, "signal", func() { fn(payload) })
	}
}

func (r *registry) fireStatusUpdate(logger *slog.Logger, m *metrics.Metrics, payload json.RawMessage) {
	r.mu.Lock()
	fns := append([]PayloadFunc(nil), r.status...)
	r.mu.Unlock()

	for _, fn := range fns {
		safeCall(logger, m, "status_update", func() { fn(payload) })
	}
}

func (r *registry) fireError(logger *slog.Logger, m *metrics.Metrics, payload json.RawMessage) {
	r.mu.Lock()
	fns := append([]PayloadFunc(nil), r.errs...)
	r.mu.Unlock()

	for _, fn := range fns {
		safeCall(logger, m, "error", func() { fn(payload) })
	}
}

// safeCall runs one callback, isolating a panic so later callbacks in
// the same sequence still run.
func safeCall(logger *slog.Logger, m *metrics.Metrics, category string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			m.IncCallbackPanic()
			logger.Warn("subscriber callback panicked",
				"category", category,
				"panic", r,
			)
		}
	}()
	fn()
}
