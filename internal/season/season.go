// Package season derives the weekly leaderboard season from wall-clock time.
// A season starts every Monday at 00:00 UTC and is identified by that date.
package season

import (
	"fmt"
	"time"

	"github.com/solspace/solspace-backend/internal/adapter"
	"github.com/solspace/solspace-backend/internal/domain"
)

const (
	// ID_LAYOUT is the date layout of a season identifier
	ID_LAYOUT = "2006-01-02"

	// LENGTH is the duration of one season
	LENGTH = 7 * 24 * time.Hour
)

// ID identifies a season by the date of its starting Monday, e.g. "2024-06-03".
// IDs sort lexically in chronological order.
type ID string

// StartOf returns the Monday 00:00 UTC at or before t
func StartOf(t time.Time) time.Time {
	u := t.UTC()
	midnight := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	daysSinceMonday := (int(u.Weekday()) + 6) % 7
	return midnight.AddDate(0, 0, -daysSinceMonday)
}

// Of returns the season containing t
func Of(t time.Time) ID {
	return ID(StartOf(t).Format(ID_LAYOUT))
}

// Parse validates a season identifier
func Parse(s string) (ID, error) {
	start, err := time.ParseInLocation(ID_LAYOUT, s, time.UTC)
	if err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrInvalidSeason, s)
	}
	if start.Weekday() != time.Monday {
		return "", fmt.Errorf("%w: %s is not a Monday", domain.ErrInvalidSeason, s)
	}
	return ID(s), nil
}

// Start returns the first instant of the season
func (id ID) Start() time.Time {
	start, err := time.ParseInLocation(ID_LAYOUT, string(id), time.UTC)
	if err != nil {
		return time.Time{}
	}
	return start
}

// End returns the first instant after the season
func (id ID) End() time.Time {
	return id.Start().Add(LENGTH)
}

// Contains reports whether t falls inside the season
func (id ID) Contains(t time.Time) bool {
	start := id.Start()
	return !t.Before(start) && t.Before(start.Add(LENGTH))
}

// Previous returns the season immediately before id
func (id ID) Previous() ID {
	return Of(id.Start().Add(-LENGTH))
}

// Next returns the season immediately after id
func (id ID) Next() ID {
	return Of(id.End())
}

// String returns the identifier as a plain string
func (id ID) String() string {
	return string(id)
}

// Clock resolves the current season from an injected time source
type Clock struct {
	clock adapter.Clock
}

// NewClock creates a season clock
func NewClock(clock adapter.Clock) *Clock {
	return &Clock{clock: clock}
}

// Current returns the season in effect now
func (c *Clock) Current() ID {
	return Of(c.clock.Now())
}
