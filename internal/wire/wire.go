package wire

import (
	"encoding/json"
	"errors"
)

// Errors
var (
	ErrMalformed   = errors.New("malformed envelope")
	ErrMissingType = errors.New("envelope missing type")
)

// Envelope is the tagged wire unit exchanged over the channel.
// Payload shape is the concern of the producer; the core only reads Type.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Recognized inbound envelope types, plus the outbound-only auth type.
const (
	TypeSignal       = "signal"
	TypeStatusUpdate = "status_update"
	TypeError        = "error"
	TypeAuth         = "auth"
)

// Encode marshals a payload into an envelope frame of the given type.
func Encode(envType string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: envType, Payload: raw})
}

// Decode parses a text frame into an Envelope. A frame that does not
// parse, or that carries no type discriminator, is rejected.
func Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, ErrMalformed
	}
	if env.Type == "" {
		return Envelope{}, ErrMissingType
	}
	return env, nil
}
