package market

// ReferenceUnit is the stable unit every trade is denominated through.
// It is a tracked symbol like any other and is priced by the oracle, not
// hard-coded to 1.
const ReferenceUnit = "USDT"

// Table is an immutable registry of the tracked asset symbols and their
// CoinGecko coin ids. One instance is shared by the price client and the
// portfolio service so the catalog is defined in exactly one place.
type Table struct {
	ids    map[string]string
	order  []string
	bySlug map[string]string
}

// Default returns the table of currently supported assets.
func Default() Table {
	return newTable([]entry{
		{"BTC", "bitcoin"},
		{"ETH", "ethereum"},
		{"SOL", "solana"},
		{"XRP", "ripple"},
		{"BNB", "binancecoin"},
		{"DOGE", "dogecoin"},
		{"TRX", "tron"},
		{"ADA", "cardano"},
		{"HYPE", "hyperliquid"},
		{"SUI", "sui"},
		{"XLM", "stellar"},
		{"LINK", "chainlink"},
		{ReferenceUnit, "tether"},
	})
}

type entry struct {
	symbol string
	coinID string
}

func newTable(entries []entry) Table {
	t := Table{
		ids:    make(map[string]string, len(entries)),
		order:  make([]string, 0, len(entries)),
		bySlug: make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		t.ids[e.symbol] = e.coinID
		t.bySlug[e.coinID] = e.symbol
		t.order = append(t.order, e.symbol)
	}
	return t
}

// CoinID resolves a symbol to its CoinGecko coin id.
func (t Table) CoinID(symbol string) (string, bool) {
	id, ok := t.ids[symbol]
	return id, ok
}

// SymbolFor resolves a CoinGecko coin id back to its symbol.
func (t Table) SymbolFor(coinID string) (string, bool) {
	s, ok := t.bySlug[coinID]
	return s, ok
}

// Tracked returns whether the symbol is part of the catalog.
func (t Table) Tracked(symbol string) bool {
	_, ok := t.ids[symbol]
	return ok
}

// Symbols returns the full tracked symbol set in catalog order.
func (t Table) Symbols() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}
