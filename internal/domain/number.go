package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// ParseNumber decodes a raw JSON token that must be a finite number.
// Strings, booleans, null and absent values are malformed.
func ParseNumber(raw json.RawMessage) (float64, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0, fmt.Errorf("%w: value is missing", ErrMalformedInput)
	}

	c := trimmed[0]
	if c != '-' && (c < '0' || c > '9') {
		return 0, fmt.Errorf("%w: value is not a number", ErrMalformedInput)
	}

	var v float64
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	if !IsFinite(v) {
		return 0, fmt.Errorf("%w: value is not finite", ErrMalformedInput)
	}

	return v, nil
}

// IsFinite reports whether v is neither NaN nor infinite
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
