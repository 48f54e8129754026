package coingecko

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cryvia/internal/config"
	"cryvia/internal/market"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.coingecko.com/api/v3"

// ErrOracleUnavailable is returned when a price batch cannot be fetched at
// all (network failure, HTTP error, unparseable body). Callers decide what
// that means: valuation reads degrade to zero prices, trades are rejected.
var ErrOracleUnavailable = errors.New("price oracle unavailable")

// PriceClientInterface defines the interface for the CoinGecko price client.
type PriceClientInterface interface {
	GetMarkets(ctx context.Context, symbols []string) (map[string]Market, error)
	GetPrices(ctx context.Context, symbols []string) (map[string]float64, error)
}

// Market holds the current market data the simulator cares about for one
// tracked symbol.
type Market struct {
	Price float64
	Image string
}

// Client is a client for the CoinGecko markets API.
// It implements PriceClientInterface.
type Client struct {
	client  *resty.Client
	table   market.Table
	logger  *zap.Logger
	limiter *rate.Limiter
}

// ensure Client implements the interface
var _ PriceClientInterface = (*Client)(nil)

// NewClient creates a new CoinGecko API client.
func NewClient(cfg *config.CoinGecko, table market.Table, logger *zap.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	client := resty.New().SetBaseURL(baseURL)

	// rate.Limit is requests per second.
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	return &Client{
		client:  client,
		table:   table,
		logger:  logger,
		limiter: limiter,
	}
}

// coinMarket is one element of the /coins/markets response.
type coinMarket struct {
	ID           string  `json:"id"`
	Symbol       string  `json:"symbol"`
	CurrentPrice float64 `json:"current_price"`
	Image        string  `json:"image"`
}

// GetMarkets fetches current market data for the given symbols in one batch.
// Symbols with no coin id mapping are dropped silently; symbols the API did
// not return are simply absent from the result. A transport or decode
// failure fails the whole batch with ErrOracleUnavailable. The client never
// retries and never caches — retry policy belongs to the caller.
func (c *Client) GetMarkets(ctx context.Context, symbols []string) (map[string]Market, error) {
	ids := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		id, ok := c.table.CoinID(symbol)
		if !ok {
			continue
		}
		ids = append(ids, id)
	}

	markets := make(map[string]Market, len(ids))
	if len(ids) == 0 {
		return markets, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter wait failed: %v", ErrOracleUnavailable, err)
	}

	var coins []coinMarket
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("vs_currency", "usd").
		SetQueryParam("ids", strings.Join(ids, ",")).
		SetResult(&coins).
		Get("/coins/markets")
	if err != nil {
		c.logger.Warn("CoinGecko request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}
	if resp.IsError() {
		c.logger.Warn("CoinGecko request rejected",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", resp.String()))
		return nil, fmt.Errorf("%w: status %s", ErrOracleUnavailable, resp.Status())
	}

	for _, coin := range coins {
		symbol, ok := c.table.SymbolFor(coin.ID)
		if !ok {
			continue
		}
		markets[symbol] = Market{Price: coin.CurrentPrice, Image: coin.Image}
	}

	return markets, nil
}

// GetPrices fetches current unit prices for the given symbols. It is the
// price-only projection of GetMarkets.
func (c *Client) GetPrices(ctx context.Context, symbols []string) (map[string]float64, error) {
	markets, err := c.GetMarkets(ctx, symbols)
	if err != nil {
		return nil, err
	}

	prices := make(map[string]float64, len(markets))
	for symbol, m := range markets {
		prices[symbol] = m.Price
	}
	return prices, nil
}
