package portfolio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cryvia/internal/market"
	"cryvia/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TradeResult is the terminal state of a successful trade: the recorded
// transaction and a refreshed valuation of the account.
type TradeResult struct {
	Transaction models.Transaction `json:"transaction"`
	Valuation   *Valuation         `json:"valuation,omitempty"`
}

// Buy exchanges reference units for quantity of symbol at the current
// oracle price. The price is captured once and reused for both the balance
// mutation and the history record, so the amount debited and the amount
// recorded can never disagree.
//
// The debit of the reference-unit balance and the credit of the symbol
// balance are applied in one database transaction, under the account's
// write lock. No half-applied state is ever observable.
func (s *Service) Buy(ctx context.Context, accountID, symbol string, quantity float64) (*TradeResult, error) {
	return s.trade(ctx, accountID, symbol, models.SideBuy, quantity)
}

// Sell exchanges quantity of symbol for reference units at the current
// oracle price. Selling a holding down to exactly zero deletes the holding
// row. Atomicity and locking are the same as for Buy.
func (s *Service) Sell(ctx context.Context, accountID, symbol string, quantity float64) (*TradeResult, error) {
	return s.trade(ctx, accountID, symbol, models.SideSell, quantity)
}

func (s *Service) trade(ctx context.Context, accountID, symbol, side string, quantity float64) (*TradeResult, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	symbol = strings.ToUpper(symbol)

	if _, err := s.findAccount(ctx, accountID); err != nil {
		return nil, err
	}

	l := s.logger.With(
		zap.String("account_id", accountID),
		zap.String("symbol", symbol),
		zap.String("side", side),
		zap.Float64("quantity", quantity),
	)

	// Single logical writer per account: no other trade may interleave its
	// read-validate-mutate sequence with ours.
	lock := s.locks.get(accountID)
	lock.Lock()
	defer lock.Unlock()

	if side == models.SideSell {
		held, err := s.currentQuantity(ctx, accountID, symbol)
		if err != nil {
			return nil, err
		}
		if held < quantity {
			return nil, ErrInsufficientAsset
		}
	}

	prices, err := s.prices.GetPrices(ctx, []string{symbol})
	if err != nil {
		l.Warn("Trade blocked, oracle unavailable", zap.Error(err))
		return nil, err
	}
	price, ok := prices[symbol]
	if !ok || price <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrPriceUnavailable, symbol)
	}

	transaction := models.Transaction{
		AccountID: accountID,
		Symbol:    symbol,
		Side:      side,
		Quantity:  quantity,
		Price:     price,
		Timestamp: time.Now().Unix(),
	}

	// Paired mutation and history append commit or roll back as one unit:
	// a trade is never observable half-applied or applied-but-unrecorded.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if side == models.SideBuy {
			if err := s.applyBuy(tx, accountID, symbol, quantity, price); err != nil {
				return err
			}
		} else {
			if err := s.applySell(tx, accountID, symbol, quantity, price); err != nil {
				return err
			}
		}
		if err := tx.Create(&transaction).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.Info("Trade executed", zap.Float64("price", price))

	result := &TradeResult{Transaction: transaction}
	valuation, err := s.Valuate(ctx, accountID)
	if err != nil {
		l.Warn("Failed to refresh valuation after trade", zap.Error(err))
	} else {
		result.Valuation = valuation
	}
	return result, nil
}

// applyBuy re-checks the funds precondition and applies the paired
// mutation inside an open transaction.
func (s *Service) applyBuy(tx *gorm.DB, accountID, symbol string, quantity, price float64) error {
	cost := quantity * price

	balance, err := holdingQuantity(tx, accountID, market.ReferenceUnit)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if balance < cost {
		return ErrInsufficientFunds
	}

	if err := upsertHolding(tx, accountID, market.ReferenceUnit, balance-cost); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	held, err := holdingQuantity(tx, accountID, symbol)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := upsertHolding(tx, accountID, symbol, held+quantity); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// applySell re-checks the asset precondition and applies the paired
// mutation inside an open transaction.
func (s *Service) applySell(tx *gorm.DB, accountID, symbol string, quantity, price float64) error {
	proceeds := quantity * price

	held, err := holdingQuantity(tx, accountID, symbol)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if held < quantity {
		return ErrInsufficientAsset
	}

	// Exactly zero deletes the holding row via upsertHolding.
	if err := upsertHolding(tx, accountID, symbol, held-quantity); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	balance, err := holdingQuantity(tx, accountID, market.ReferenceUnit)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := upsertHolding(tx, accountID, market.ReferenceUnit, balance+proceeds); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// currentQuantity reads the live holding quantity outside any transaction;
// only safe under the account's write lock.
func (s *Service) currentQuantity(ctx context.Context, accountID, symbol string) (float64, error) {
	qty, err := holdingQuantity(s.db.WithContext(ctx), accountID, symbol)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return qty, nil
}
