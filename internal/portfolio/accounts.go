package portfolio

import (
	"context"
	"errors"
	"fmt"

	"cryvia/internal/market"
	"cryvia/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FindOrCreateAccount looks up an account by username, creating it on
// first login. A new account is seeded with the starting reference-unit
// balance in the same transaction, so an account can never be observed
// without its wallet. Usernames are case-sensitive as stored.
func (s *Service) FindOrCreateAccount(ctx context.Context, username string) (*models.Account, error) {
	if username == "" {
		return nil, ErrInvalidUsername
	}

	var account models.Account
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&account).Error
	if err == nil {
		return &account, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	account = models.Account{Username: username}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&account).Error; err != nil {
			return err
		}
		wallet := models.Asset{
			AccountID: account.ID,
			Symbol:    market.ReferenceUnit,
			Quantity:  s.startingBalance,
		}
		return tx.Create(&wallet).Error
	})
	if err != nil {
		// A concurrent first login for the same username may have won the
		// unique-index race; re-read before giving up.
		var existing models.Account
		if lookupErr := s.db.WithContext(ctx).Where("username = ?", username).First(&existing).Error; lookupErr == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.logger.Info("Created account with starting balance",
		zap.String("username", username),
		zap.Float64("balance", s.startingBalance))
	return &account, nil
}

// findAccount loads an account by id.
func (s *Service) findAccount(ctx context.Context, accountID string) (*models.Account, error) {
	var account models.Account
	err := s.db.WithContext(ctx).Where("id = ?", accountID).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &account, nil
}
