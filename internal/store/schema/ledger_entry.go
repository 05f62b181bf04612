package schema

import (
	"time"

	"gorm.io/datatypes"
)

// LedgerEntry represents the ledger_entries table - one row per credited transaction signature.
// The primary key on signature is what makes deposit crediting exactly-once.
type LedgerEntry struct {
	// Signature is the base58 transaction signature
	Signature string `gorm:"column:signature;primaryKey;type:varchar(128)"`
	// Identity is the wallet that sent the transfer
	Identity string `gorm:"column:identity;not null;type:varchar(128);index:idx_ledger_entries_identity"`
	// Lamports is the summed qualifying transfer amount
	Lamports int64 `gorm:"column:lamports;not null"`
	// PointsCredited is the number of points added to the balance
	PointsCredited int64 `gorm:"column:points_credited;not null"`
	// Transfers holds the qualifying transfer instructions as JSON
	Transfers datatypes.JSON `gorm:"column:transfers"`
	// BlockTime is the on-chain time of the transaction, when known
	BlockTime *time.Time `gorm:"column:block_time"`
	// ObservedAt is when the reconciler credited the signature
	ObservedAt time.Time `gorm:"column:observed_at;not null"`
}

// TableName specifies the table name for the LedgerEntry model
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
