// Package client implements the connection lifecycle engine for the
// multi-leg signal channel.
//
// The Client:
//   - Owns the connection state machine (disconnected, connecting,
//     connected, closing) and the intentional-close flag
//   - Reconnects with exponential backoff after unexpected closes
//   - Buffers outbound envelopes while disconnected and flushes them in
//     order on reconnection
//   - Parses inbound frames and dispatches them by kind to subscriber
//     callbacks
//
// Nothing here raises past its boundary: failures surface through
// boolean returns and the error callback category, so the client
// survives network flakiness without caller intervention.
package client
