package event

import (
	"encoding/json"
	"fmt"
)

// DecodePayload converts an event payload into its typed form. Payloads
// survive a JSON round trip (dead letter file, wire transport), so decoding
// goes through json regardless of the in-memory type.
func DecodePayload[T any](payload interface{}) (T, error) {
	var out T

	raw, err := json.Marshal(payload)
	if err != nil {
		return out, fmt.Errorf("encode payload: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode payload: %w", err)
	}
	return out, nil
}
