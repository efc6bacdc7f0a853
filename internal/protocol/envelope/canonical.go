package envelope

import (
	"encoding/json"
	"fmt"
)

// canonicalize renders v as compact JSON with sorted keys: marshal, then
// round-trip through a generic structure (Go sorts map keys on marshal).
// Associated data must serialize identically on both ends or the AEAD
// tag will not verify.
func canonicalize(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	out, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	return out, nil
}
