package portfolio

import (
	"context"

	"cryvia/internal/coingecko"
	"go.uber.org/zap"
)

// ValuedHolding is one catalog entry of a valued portfolio: the held
// quantity (possibly zero), the current unit price and the resulting value.
type ValuedHolding struct {
	Symbol   string  `json:"symbol"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Value    float64 `json:"value"`
	Image    string  `json:"image,omitempty"`
}

// Valuation is a full portfolio view: every tracked symbol, valued at the
// latest oracle prices, plus the total.
type Valuation struct {
	Holdings   []ValuedHolding `json:"holdings"`
	TotalValue float64         `json:"total_value"`
}

// Valuate values an account's holdings against one fresh oracle batch for
// the whole tracked catalog. Symbols the account does not hold appear as
// zero-quantity placeholders so the caller can render the full catalog;
// those placeholders are a display convenience and are never persisted.
//
// An unavailable oracle degrades the result instead of failing it: every
// price defaults to 0 and the total understates. The reference unit is
// priced through the same batch as everything else, so a skewed oracle
// price for it skews the total too.
func (s *Service) Valuate(ctx context.Context, accountID string) (*Valuation, error) {
	if _, err := s.findAccount(ctx, accountID); err != nil {
		return nil, err
	}

	assets, err := s.GetHoldings(ctx, accountID)
	if err != nil {
		return nil, err
	}

	held := make(map[string]float64, len(assets))
	for _, a := range assets {
		held[a.Symbol] = a.Quantity
	}

	markets, err := s.prices.GetMarkets(ctx, s.table.Symbols())
	if err != nil {
		s.logger.Warn("Oracle unavailable, valuating with zero prices",
			zap.String("account_id", accountID), zap.Error(err))
		markets = map[string]coingecko.Market{}
	}

	valuation := &Valuation{Holdings: make([]ValuedHolding, 0, len(s.table.Symbols()))}
	for _, symbol := range s.table.Symbols() {
		m := markets[symbol] // zero value when the batch omitted the symbol
		quantity := held[symbol]
		value := quantity * m.Price

		valuation.Holdings = append(valuation.Holdings, ValuedHolding{
			Symbol:   symbol,
			Quantity: quantity,
			Price:    m.Price,
			Value:    value,
			Image:    m.Image,
		})
		valuation.TotalValue += value
	}

	return valuation, nil
}
