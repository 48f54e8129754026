package portfolio

import (
	"context"
	"testing"

	"cryvia/internal/coingecko"
	"cryvia/internal/market"
	"cryvia/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestValuate_FullCatalogPlaceholders(t *testing.T) {
	svc, db, mockClient := setupTest(t)
	account := createAccount(t, svc, "alice")
	db.Create(&models.Asset{AccountID: account.ID, Symbol: "BTC", Quantity: 0.5})

	mockClient.On("GetMarkets", mock.Anything).Return(map[string]coingecko.Market{
		"BTC":  {Price: 50000, Image: "https://img/btc.png"},
		"USDT": {Price: 1},
	}, nil)

	valuation, err := svc.Valuate(context.Background(), account.ID)
	assert.NoError(t, err)

	// Every tracked symbol appears, held or not.
	catalog := market.Default().Symbols()
	assert.Len(t, valuation.Holdings, len(catalog))

	bySymbol := make(map[string]ValuedHolding)
	for _, h := range valuation.Holdings {
		bySymbol[h.Symbol] = h
	}

	assert.Equal(t, 0.5, bySymbol["BTC"].Quantity)
	assert.Equal(t, 25000.0, bySymbol["BTC"].Value)
	assert.Equal(t, "https://img/btc.png", bySymbol["BTC"].Image)

	// Unheld symbols are zero-quantity placeholders.
	assert.Equal(t, 0.0, bySymbol["ETH"].Quantity)
	assert.Equal(t, 0.0, bySymbol["ETH"].Value)

	assert.InDelta(t, 26000, valuation.TotalValue, 1e-9)

	// Placeholders are a display convenience, never persisted.
	var count int64
	db.Model(&models.Asset{}).Where("account_id = ?", account.ID).Count(&count)
	assert.Equal(t, int64(2), count) // USDT seed + BTC
}

func TestValuate_MissingPriceDefaultsToZero(t *testing.T) {
	svc, db, mockClient := setupTest(t)
	account := createAccount(t, svc, "alice")
	db.Create(&models.Asset{AccountID: account.ID, Symbol: "BTC", Quantity: 1})

	// The batch came back without BTC. The holding values at 0 and the
	// total simply understates; the valuation does not fail.
	mockClient.On("GetMarkets", mock.Anything).Return(map[string]coingecko.Market{
		"ETH":  {Price: 2000},
		"USDT": {Price: 1},
	}, nil)

	valuation, err := svc.Valuate(context.Background(), account.ID)
	assert.NoError(t, err)

	bySymbol := make(map[string]ValuedHolding)
	for _, h := range valuation.Holdings {
		bySymbol[h.Symbol] = h
	}
	assert.Equal(t, 1.0, bySymbol["BTC"].Quantity)
	assert.Equal(t, 0.0, bySymbol["BTC"].Value)
	assert.InDelta(t, 1000, valuation.TotalValue, 1e-9)
}

func TestValuate_OracleUnavailableDegrades(t *testing.T) {
	svc, _, mockClient := setupTest(t)
	account := createAccount(t, svc, "alice")

	mockClient.On("GetMarkets", mock.Anything).
		Return(map[string]coingecko.Market{}, coingecko.ErrOracleUnavailable)

	valuation, err := svc.Valuate(context.Background(), account.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, valuation.TotalValue)
	for _, h := range valuation.Holdings {
		assert.Equal(t, 0.0, h.Price)
		assert.Equal(t, 0.0, h.Value)
	}
}

// The reference unit is priced through the same oracle batch as every other
// symbol. If the oracle reports tether away from 1, the total skews with it.
func TestValuate_ReferenceUnitPricedByOracle(t *testing.T) {
	svc, _, mockClient := setupTest(t)
	account := createAccount(t, svc, "alice")

	mockClient.On("GetMarkets", mock.Anything).Return(map[string]coingecko.Market{
		"USDT": {Price: 0.998},
	}, nil)

	valuation, err := svc.Valuate(context.Background(), account.ID)
	assert.NoError(t, err)
	assert.InDelta(t, 998, valuation.TotalValue, 1e-9)
}

func TestValuate_UnknownAccount(t *testing.T) {
	svc, _, _ := setupTest(t)

	_, err := svc.Valuate(context.Background(), "no-such-account")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
