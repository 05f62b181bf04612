package dto

import "encoding/json"

// ReconcileDepositRequest asks to credit recent deposits from an identity
type ReconcileDepositRequest struct {
	Identity string `json:"identity"`
}

// SubmitGameEventRequest reports the result of one game round.
// Profit and volume stay raw so non-number tokens can be rejected as malformed.
type SubmitGameEventRequest struct {
	Identity  string          `json:"identity"`
	Profit    json.RawMessage `json:"profit"`
	Volume    json.RawMessage `json:"volume"`
	Signature string          `json:"signature,omitempty"`
}
