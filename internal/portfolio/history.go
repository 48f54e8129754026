package portfolio

import (
	"context"
	"fmt"

	"cryvia/internal/models"
)

// History returns an account's transactions newest first. Timestamp ties
// are broken by insertion order (the auto-increment id), so the ordering
// is stable across reads.
func (s *Service) History(ctx context.Context, accountID string) ([]models.Transaction, error) {
	if _, err := s.findAccount(ctx, accountID); err != nil {
		return nil, err
	}

	var transactions []models.Transaction
	err := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("timestamp desc, id desc").
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return transactions, nil
}
