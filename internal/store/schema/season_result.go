package schema

import (
	"time"
)

// SeasonResult represents the season_results table - the frozen final standings of a closed season
type SeasonResult struct {
	Season      string    `gorm:"column:season;primaryKey;type:varchar(10)"`
	Rank        int       `gorm:"column:rank;primaryKey"`
	Identity    string    `gorm:"column:identity;not null;type:varchar(128)"`
	TotalProfit float64   `gorm:"column:total_profit;not null"`
	TotalVolume float64   `gorm:"column:total_volume;not null"`
	Rounds      int64     `gorm:"column:rounds;not null"`
	Score       float64   `gorm:"column:score;not null"`
	FinalizedAt time.Time `gorm:"column:finalized_at;not null"`
}

// TableName specifies the table name for the SeasonResult model
func (SeasonResult) TableName() string {
	return "season_results"
}
