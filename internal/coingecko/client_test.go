package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"cryvia/internal/market"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// setupTestServer creates a new test server and a Client configured to use it.
func setupTestServer(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)

	c := &Client{
		client:  resty.New().SetBaseURL(server.URL),
		table:   market.Default(),
		logger:  zap.NewNop(), // Use a no-op logger for tests
		limiter: rate.NewLimiter(rate.Inf, 1),
	}

	return c, server
}

func TestGetPrices(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockResponse := `[
			{"id": "bitcoin", "symbol": "btc", "current_price": 50000, "image": "https://img/btc.png"},
			{"id": "ethereum", "symbol": "eth", "current_price": 1800, "image": "https://img/eth.png"},
			{"id": "tether", "symbol": "usdt", "current_price": 1, "image": "https://img/usdt.png"}
		]`

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/coins/markets", r.URL.Path)
			assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
			assert.Equal(t, "bitcoin,ethereum,tether", r.URL.Query().Get("ids"))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(mockResponse))
		})

		c, server := setupTestServer(handler)
		defer server.Close()

		// Act
		prices, err := c.GetPrices(context.Background(), []string{"BTC", "ETH", "USDT"})

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, map[string]float64{"BTC": 50000, "ETH": 1800, "USDT": 1}, prices)
	})

	t.Run("PartialBatch", func(t *testing.T) {
		// The API answered but omitted BTC. The missing symbol is simply
		// absent from the result; the batch does not fail.
		mockResponse := `[{"id": "ethereum", "symbol": "eth", "current_price": 1800, "image": ""}]`

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(mockResponse))
		})

		c, server := setupTestServer(handler)
		defer server.Close()

		prices, err := c.GetPrices(context.Background(), []string{"BTC", "ETH"})

		assert.NoError(t, err)
		assert.Equal(t, map[string]float64{"ETH": 1800}, prices)
		_, ok := prices["BTC"]
		assert.False(t, ok)
	})

	t.Run("UnmappedSymbolDropped", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Only the mapped symbol reaches the API.
			assert.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id": "bitcoin", "symbol": "btc", "current_price": 50000, "image": ""}]`))
		})

		c, server := setupTestServer(handler)
		defer server.Close()

		prices, err := c.GetPrices(context.Background(), []string{"BTC", "NOPE"})

		assert.NoError(t, err)
		assert.Equal(t, map[string]float64{"BTC": 50000}, prices)
	})

	t.Run("NoMappedSymbols", func(t *testing.T) {
		// Nothing to ask for means no request at all.
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected request")
		})

		c, server := setupTestServer(handler)
		defer server.Close()

		prices, err := c.GetPrices(context.Background(), []string{"NOPE"})

		assert.NoError(t, err)
		assert.Empty(t, prices)
	})

	t.Run("APIError", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"status": {"error_code": 429}}`))
		})

		c, server := setupTestServer(handler)
		defer server.Close()

		prices, err := c.GetPrices(context.Background(), []string{"BTC"})

		assert.Error(t, err)
		assert.ErrorIs(t, err, ErrOracleUnavailable)
		assert.Nil(t, prices)
	})

	t.Run("NetworkError", func(t *testing.T) {
		c, server := setupTestServer(http.NotFoundHandler())
		server.Close() // Close immediately so the request fails to connect.

		prices, err := c.GetPrices(context.Background(), []string{"BTC"})

		assert.Error(t, err)
		assert.ErrorIs(t, err, ErrOracleUnavailable)
		assert.Nil(t, prices)
	})
}

func TestGetMarkets_Images(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": "solana", "symbol": "sol", "current_price": 150, "image": "https://img/sol.png"}]`))
	})

	c, server := setupTestServer(handler)
	defer server.Close()

	markets, err := c.GetMarkets(context.Background(), []string{"SOL"})

	assert.NoError(t, err)
	assert.Equal(t, Market{Price: 150, Image: "https://img/sol.png"}, markets["SOL"])
}
