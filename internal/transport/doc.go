// Package transport implements the websocket Transport Handle.
//
// A Handle wraps one gorilla/websocket connection and turns its
// lifecycle into a tagged event stream (open, message, error, close)
// consumed by the connection state machine. Handles are single-use:
// the state machine builds a fresh one for every connection attempt.
package transport
