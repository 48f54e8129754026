package portfolio

import "errors"

// Trade and query rejections reported to the presentation layer. All of
// them are user-visible outcomes, not process failures, and none are
// retried automatically.
var (
	// ErrInvalidQuantity rejects a trade whose quantity is not strictly
	// positive, before any state is touched.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")

	// ErrPriceUnavailable rejects a trade when the oracle has no usable
	// price for the requested symbol. Trades cannot be priced safely
	// without it; valuation reads degrade instead.
	ErrPriceUnavailable = errors.New("no current price for symbol")

	// ErrInsufficientFunds rejects a buy whose cost exceeds the account's
	// reference-unit balance.
	ErrInsufficientFunds = errors.New("insufficient USDT balance")

	// ErrInsufficientAsset rejects a sell of more than the held quantity.
	ErrInsufficientAsset = errors.New("insufficient asset quantity")

	// ErrInvalidUsername rejects account creation with an empty username.
	ErrInvalidUsername = errors.New("username must not be empty")

	// ErrAccountNotFound is returned for operations against an unknown
	// account id.
	ErrAccountNotFound = errors.New("account not found")

	// ErrStoreUnavailable wraps failures of the underlying database. The
	// request fails; the paired balance mutation it interrupted is rolled
	// back as one unit.
	ErrStoreUnavailable = errors.New("store unavailable")
)
