package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of an admission check
type Decision int

const (
	// Admitted means the event was recorded against the identity's rate state
	Admitted Decision = iota
	// TooFast means the event arrived inside the pacing interval of the previous one
	TooFast
	// RateLimited means the identity already used every slot of the current window
	RateLimited
)

// String returns the decision name
func (d Decision) String() string {
	switch d {
	case Admitted:
		return "admitted"
	case TooFast:
		return "too_fast"
	case RateLimited:
		return "rate_limited"
	default:
		return "unknown"
	}
}

// Policy is the per-identity pacing and throughput policy
type Policy struct {
	// MinInterval is the minimum gap between two admitted events
	MinInterval time.Duration
	// Window is the length of the fixed throughput window
	Window time.Duration
	// Cap is the number of events admitted per window
	Cap int
}

// Limiter performs the atomic check-and-record of game event pacing.
// A rejected check leaves the rate state untouched.
//
//go:generate mockgen -source=limiter.go -destination=../mocks/ratelimit_limiter.go -package=mocks -mock_names=Limiter=MockLimiter
type Limiter interface {
	Admit(ctx context.Context, identity string, now time.Time) (Decision, error)
}

// rateState is the ephemeral admission state of one identity
type rateState struct {
	lastEventAt time.Time
	windowStart time.Time
	windowCount int
}

// admit applies the policy to a state and records the event when admitted
func (s *rateState) admit(policy Policy, now time.Time) Decision {
	if !s.lastEventAt.IsZero() && now.Sub(s.lastEventAt) < policy.MinInterval {
		return TooFast
	}

	windowStart, windowCount := s.windowStart, s.windowCount
	if windowStart.IsZero() || now.Sub(windowStart) >= policy.Window {
		windowStart, windowCount = now, 0
	}

	if windowCount >= policy.Cap {
		return RateLimited
	}

	s.lastEventAt = now
	s.windowStart = windowStart
	s.windowCount = windowCount + 1
	return Admitted
}
