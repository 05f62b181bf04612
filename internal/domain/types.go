package domain

import (
	"strings"
	"time"

	"github.com/btcsuite/btcutil/base58"
)

// Identity is the opaque wallet address points are credited to
type Identity string

// Valid reports whether the identity is non-blank and within the length bound
func (i Identity) Valid() bool {
	s := string(i)
	return strings.TrimSpace(s) != "" && len(s) <= MAX_IDENTITY_LENGTH
}

// String returns the identity as a plain string
func (i Identity) String() string {
	return string(i)
}

// IsSolanaAddress checks if s is a base58 encoded 32-byte public key
func IsSolanaAddress(s string) bool {
	if s == "" || len(s) > 44 {
		return false
	}
	return len(base58.Decode(s)) == 32
}

// IsSolanaSignature checks if s is a base58 encoded 64-byte transaction signature
func IsSolanaSignature(s string) bool {
	if s == "" || len(s) > 88 {
		return false
	}
	return len(base58.Decode(s)) == 64
}

// Window is the lookback span of the current leaderboard view
type Window string

const (
	Window48h Window = "48h"
	Window7d  Window = "7d"
)

// ParseWindow maps a client supplied window to a known one, defaulting to 48h
func ParseWindow(s string) Window {
	switch Window(strings.ToLower(strings.TrimSpace(s))) {
	case Window7d:
		return Window7d
	default:
		return Window48h
	}
}

// Duration returns the span covered by the window
func (w Window) Duration() time.Duration {
	if w == Window7d {
		return 7 * 24 * time.Hour
	}
	return 48 * time.Hour
}

// SignatureInfo is one entry of the recent signature list of an address
type SignatureInfo struct {
	Signature string
	Slot      uint64
	BlockTime *time.Time
	// Failed is set when the transaction executed with an error
	Failed bool
}

// Transfer is a single native transfer instruction
type Transfer struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Lamports    uint64 `json:"lamports"`
}

// TransferDetail is the parsed content of a transaction
type TransferDetail struct {
	Signature string
	Success   bool
	BlockTime *time.Time
	Transfers []Transfer
}

// PointsEventType represents the kind of points mutation published to the bus
type PointsEventType string

const (
	PointsEventDepositCredited   PointsEventType = "deposit_credited"
	PointsEventGameEventAdmitted PointsEventType = "game_event_admitted"
)

// PointsEvent is published after every successful credit
type PointsEvent struct {
	Type      PointsEventType `json:"type"`
	Identity  string          `json:"identity"`
	Points    int64           `json:"points"`
	Reference string          `json:"reference"`
	Season    string          `json:"season,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}
