// Package signal builds and validates multi-leg trading signals: the
// payloads instructing the execution service to enter or exit a
// multi-leg position.
package signal

import "github.com/google/uuid"

// Signal is a multi-leg trading instruction. Beyond the fields checked
// by Validate, its shape is owned by the strategy producing it.
type Signal map[string]interface{}

// Signal types.
const (
	TypeEntry = "ENTRY"
	TypeExit  = "EXIT"
)

// Product codes understood by the execution service.
const (
	ProductIntraday = "MIS"
	ProductCarry    = "NRML"
)

// NewEntry builds an entry signal for a multi-leg strategy. parameters
// carries optional strategy tuning (strike widths, offsets) and is
// omitted when nil.
func NewEntry(strategyType, strategyTag, symbol string, lots int, product string, parameters map[string]interface{}) Signal {
	sig := newSignal(TypeEntry, strategyType, strategyTag, symbol, lots, product)
	if parameters != nil {
		sig["parameters"] = parameters
	}
	return sig
}

// NewExit builds an exit signal for a multi-leg strategy.
func NewExit(strategyType, strategyTag, symbol string, lots int, product string) Signal {
	return newSignal(TypeExit, strategyType, strategyTag, symbol, lots, product)
}

func newSignal(sigType, strategyType, strategyTag, symbol string, lots int, product string) Signal {
	return Signal{
		"id":       uuid.NewString(),
		"multileg": true,
		"type":     sigType,
		"strategy": map[string]interface{}{
			"type": strategyType,
			"tag":  strategyTag,
		},
		"instrument": map[string]interface{}{
			"symbol":  symbol,
			"lots":    lots,
			"product": product,
		},
	}
}

// Validate performs the structural check required before a signal may be
// sent: a boolean multileg flag, a strategy mapping, and an instrument
// mapping carrying a symbol. It does not mutate the signal.
func Validate(s Signal) bool {
	if _, ok := s["multileg"].(bool); !ok {
		return false
	}
	if _, ok := s["strategy"].(map[string]interface{}); !ok {
		return false
	}
	instrument, ok := s["instrument"].(map[string]interface{})
	if !ok {
		return false
	}
	if _, ok := instrument["symbol"]; !ok {
		return false
	}
	return true
}
