package client

import (
	"encoding/json"

	"github.com/optionslab/multileg-client/internal/wire"
)

// dispatch parses one inbound frame and routes it by kind. Malformed
// frames are swallowed: counted and logged, but no callback runs and
// connection state is untouched. Unknown kinds are valid wire data with
// no registered route and are silently dropped.
func (c *Client) dispatch(data []byte) {
	env, err := wire.Decode(data)
	if err != nil {
		c.mu.Lock()
		c.parseErrors++
		c.mu.Unlock()
		c.metrics.IncParseError()
		c.logger.Debug("dropping malformed frame", "error", err)
		return
	}

	switch env.Type {
	case wire.TypeSignal:
		c.registry.fireSignal(c.logger, c.metrics, env.Payload)
	case wire.TypeStatusUpdate:
		c.registry.fireStatusUpdate(c.logger, c.metrics, env.Payload)
	case wire.TypeError:
		c.registry.fireError(c.logger, c.metrics, env.Payload)
	default:
		c.mu.Lock()
		c.unknownKinds++
		c.mu.Unlock()
		c.metrics.IncUnknownKind()
		c.logger.Debug("no route for envelope", "type", env.Type)
	}
}

// encodeErrorString wraps a synthesized error description as a JSON
// string payload, so error subscribers can distinguish it from the
// peer's structured error payloads by shape.
func encodeErrorString(msg string) json.RawMessage {
	data, _ := json.Marshal(msg)
	return data
}
