package schema

import "time"

// KeyValueStore holds small pieces of service state such as sweeper cursors
type KeyValueStore struct {
	Key       string    `gorm:"column:key;primaryKey;type:varchar(255)"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (KeyValueStore) TableName() string {
	return "key_value_store"
}
