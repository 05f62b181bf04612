package domain

import "errors"

// Game event rejection reasons, in the order the validator checks them
var (
	// ErrMalformedInput is returned when profit or volume is missing or not a number
	ErrMalformedInput = errors.New("malformed input")

	// ErrInvalidValue is returned when profit or volume is negative
	ErrInvalidValue = errors.New("invalid value")

	// ErrInvalidRound is returned when a round reports profit without any volume
	ErrInvalidRound = errors.New("invalid round")

	// ErrImplausibleResult is returned when profit exceeds volume times the multiplier cap
	ErrImplausibleResult = errors.New("implausible result")

	// ErrIdentityBlocked is returned when the identity is on the blocklist
	ErrIdentityBlocked = errors.New("identity blocked")

	// ErrTooFast is returned when events arrive closer than the pacing interval
	ErrTooFast = errors.New("too fast")

	// ErrRateLimited is returned when the per-window event cap is reached
	ErrRateLimited = errors.New("rate limited")
)

var (
	// ErrSourceUnavailable is returned when the external transfer source cannot be reached
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrConflict is returned when a signature has already been credited
	ErrConflict = errors.New("signature already processed")

	// ErrInvalidSeason is returned when a season identifier cannot be parsed
	ErrInvalidSeason = errors.New("invalid season")

	// ErrInvalidSignature is returned when a wallet signature does not verify
	ErrInvalidSignature = errors.New("invalid wallet signature")

	// ErrNegativeDelta is returned when a balance mutation would subtract points
	ErrNegativeDelta = errors.New("negative points delta")
)
