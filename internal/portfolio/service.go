package portfolio

import (
	"cryvia/internal/coingecko"
	"cryvia/internal/config"
	"cryvia/internal/market"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service is the portfolio ledger and trade-execution engine. It owns all
// reads and writes of accounts, holdings and the transaction history, and
// values them against prices from the CoinGecko client.
type Service struct {
	db              *gorm.DB
	prices          coingecko.PriceClientInterface
	logger          *zap.Logger
	table           market.Table
	locks           *accountLocks
	startingBalance float64
}

// NewService creates a new portfolio service.
func NewService(db *gorm.DB, prices coingecko.PriceClientInterface, table market.Table, cfg *config.Simulator, logger *zap.Logger) *Service {
	return &Service{
		db:              db,
		prices:          prices,
		logger:          logger,
		table:           table,
		locks:           newAccountLocks(),
		startingBalance: cfg.StartingBalance,
	}
}
