// Package wire defines the envelope format exchanged with the execution
// service: a JSON text frame {"type": ..., "payload": ...} where payload
// is opaque to the transport core.
package wire
