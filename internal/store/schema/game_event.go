package schema

import (
	"time"
)

// GameEvent represents the game_events table - the append-only log of admitted game results
type GameEvent struct {
	// ID is a ULID so ids sort by admission time
	ID string `gorm:"column:id;primaryKey;type:varchar(26)"`
	// Identity is the player wallet
	Identity string `gorm:"column:identity;not null;type:varchar(128);index:idx_game_events_identity"`
	// Profit is the reported winnings, never negative
	Profit float64 `gorm:"column:profit;not null"`
	// Volume is the reported wagered amount, never negative
	Volume float64 `gorm:"column:volume;not null"`
	// Rounds is always 1 per event
	Rounds int64 `gorm:"column:rounds;not null;default:1"`
	// PointsCredited is the integer part of profit added to the balance
	PointsCredited int64 `gorm:"column:points_credited;not null"`
	// Season is the season id the event was admitted in
	Season string `gorm:"column:season;not null;type:varchar(10);index:idx_game_events_season_occurred,priority:1"`
	// OccurredAt is the admission time
	OccurredAt time.Time `gorm:"column:occurred_at;not null;index:idx_game_events_occurred_at;index:idx_game_events_season_occurred,priority:2"`
}

// TableName specifies the table name for the GameEvent model
func (GameEvent) TableName() string {
	return "game_events"
}
