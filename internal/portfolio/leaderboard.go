package portfolio

import (
	"context"
	"fmt"
	"sort"

	"cryvia/internal/models"
	"go.uber.org/zap"
)

// LeaderboardEntry is one ranked participant: username and the total value
// of their portfolio. Derived on demand, never persisted.
type LeaderboardEntry struct {
	Username   string  `json:"username"`
	TotalValue float64 `json:"total_value"`
}

// Rank computes the leaderboard: every account's total portfolio value
// against one shared oracle batch, sorted descending. Accounts with no
// holdings appear with total 0. Ties keep a stable but unspecified
// relative order. Rank takes no account locks; a concurrently trading
// account may be valued mid-trade snapshot, which is acceptable for a
// display ranking.
func (s *Service) Rank(ctx context.Context) ([]LeaderboardEntry, error) {
	var accounts []models.Account
	if err := s.db.WithContext(ctx).Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var assets []models.Asset
	if err := s.db.WithContext(ctx).Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	assetsByAccount := make(map[string][]models.Asset)
	for _, a := range assets {
		assetsByAccount[a.AccountID] = append(assetsByAccount[a.AccountID], a)
	}

	// One batch for every account keeps cross-account prices consistent
	// within a single ranking.
	prices, err := s.prices.GetPrices(ctx, s.table.Symbols())
	if err != nil {
		s.logger.Warn("Oracle unavailable, ranking with zero prices", zap.Error(err))
		prices = map[string]float64{}
	}

	entries := make([]LeaderboardEntry, 0, len(accounts))
	for _, account := range accounts {
		var total float64
		for _, asset := range assetsByAccount[account.ID] {
			total += asset.Quantity * prices[asset.Symbol]
		}
		entries = append(entries, LeaderboardEntry{
			Username:   account.Username,
			TotalValue: total,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalValue > entries[j].TotalValue
	})

	return entries, nil
}
