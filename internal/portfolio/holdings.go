package portfolio

import (
	"context"
	"errors"
	"fmt"

	"cryvia/internal/models"
	"gorm.io/gorm"
)

// GetHoldings returns all holdings of an account. An account with no
// holdings yields an empty slice, not an error.
func (s *Service) GetHoldings(ctx context.Context, accountID string) ([]models.Asset, error) {
	var assets []models.Asset
	if err := s.db.WithContext(ctx).Where("account_id = ?", accountID).Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return assets, nil
}

// upsertHolding sets the stored quantity for (account, symbol) inside an
// open transaction. A quantity of exactly zero deletes the row instead of
// keeping it; no zero-quantity holding is ever stored. Negative quantities
// are a precondition violation the callers must have rejected already.
func upsertHolding(tx *gorm.DB, accountID, symbol string, quantity float64) error {
	if quantity < 0 {
		return fmt.Errorf("%w: cannot store %f %s", ErrInvalidQuantity, quantity, symbol)
	}

	if quantity == 0 {
		// Hard delete: a soft-deleted row would still occupy the
		// (account, symbol) unique index and block re-buying the asset.
		return tx.Unscoped().Where("account_id = ? AND symbol = ?", accountID, symbol).
			Delete(&models.Asset{}).Error
	}

	var asset models.Asset
	err := tx.Where("account_id = ? AND symbol = ?", accountID, symbol).First(&asset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		asset = models.Asset{AccountID: accountID, Symbol: symbol, Quantity: quantity}
		return tx.Create(&asset).Error
	}
	if err != nil {
		return err
	}

	return tx.Model(&asset).Update("quantity", quantity).Error
}

// holdingQuantity reads the stored quantity for (account, symbol) inside an
// open transaction, 0 if no row exists.
func holdingQuantity(tx *gorm.DB, accountID, symbol string) (float64, error) {
	var asset models.Asset
	err := tx.Where("account_id = ? AND symbol = ?", accountID, symbol).First(&asset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return asset.Quantity, nil
}
