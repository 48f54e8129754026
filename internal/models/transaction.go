package models

import "gorm.io/gorm"

// Trade sides as recorded in the transaction history.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// Transaction represents one executed trade in the append-only history.
// Rows are never updated or deleted after creation.
type Transaction struct {
	gorm.Model
	AccountID string  `gorm:"index:idx_account_ts;not null" json:"account_id"`
	Symbol    string  `gorm:"not null" json:"symbol"`
	Side      string  `gorm:"not null" json:"side"` // "BUY" or "SELL"
	Quantity  float64 `gorm:"not null" json:"quantity"`
	Price     float64 `gorm:"not null" json:"price"` // unit price at execution time
	Timestamp int64   `gorm:"index:idx_account_ts" json:"timestamp"`
}
