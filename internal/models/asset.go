package models

import "gorm.io/gorm"

// Asset represents one holding: the quantity of a single symbol owned by
// an account. The reference unit (USDT) is an Asset like any other.
// Invariant: Quantity > 0 for every stored row; a holding that reaches
// exactly zero is deleted, never kept at zero.
type Asset struct {
	gorm.Model
	AccountID string  `gorm:"uniqueIndex:idx_account_symbol;not null" json:"account_id"`
	Symbol    string  `gorm:"uniqueIndex:idx_account_symbol;not null" json:"symbol"`
	Quantity  float64 `gorm:"not null" json:"quantity"`
}
