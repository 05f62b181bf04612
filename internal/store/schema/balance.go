package schema

import (
	"time"
)

// Balance represents the balances table - the running points total per identity
type Balance struct {
	// Identity is the wallet address that owns the points
	Identity string `gorm:"column:identity;primaryKey;type:varchar(128)"`
	// Points is only ever incremented
	Points int64 `gorm:"column:points;not null;default:0"`
	// CreatedAt is when the identity was first credited
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	// UpdatedAt is the time of the latest credit
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName specifies the table name for the Balance model
func (Balance) TableName() string {
	return "balances"
}
