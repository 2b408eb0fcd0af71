package starknet

import (
	"fmt"

	"github.com/NethermindEth/juno-cheatnet/core/felt"
)

const (
	MaxEventKeys = 50
	MaxEventData = 300
)

type Event struct {
	Keys []felt.Felt `json:"keys"`
	Data []felt.Felt `json:"data"`
}

func (e *Event) Validate() error {
	if len(e.Keys) > MaxEventKeys {
		return fmt.Errorf("Exceeded the maximum keys length, keys length: %d, max keys length: %d.",
			len(e.Keys), MaxEventKeys)
	}
	if len(e.Data) > MaxEventData {
		return fmt.Errorf("Exceeded the maximum data length, data length: %d, max data length: %d.",
			len(e.Data), MaxEventData)
	}
	return nil
}

// OrderedEvent is an event with its position among the events of one call
type OrderedEvent struct {
	Order uint64 `json:"order"`
	Event
}
