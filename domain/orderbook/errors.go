package orderbook

import "errors"

// Validation errors: the order (or book) was malformed at admission.
var (
	ErrNilOrder      = errors.New("order is nil")
	ErrEmptyOrderID  = errors.New("order ID is empty")
	ErrInvalidPrice  = errors.New("price must be positive")
	ErrInvalidQty    = errors.New("quantity must be positive")
	ErrAlreadyFilled = errors.New("order is already filled")
	ErrEmptySymbol   = errors.New("symbol is empty")
)

// ErrDuplicateOrder rejects an ID collision in the order registry.
var ErrDuplicateOrder = errors.New("duplicate order ID")

// Internal invariant violations. The matching path never computes a fill
// exceeding min(level aggregate, order remaining), so these surface only
// through a bug or misuse of the low-level API.
var (
	ErrOverfill      = errors.New("fill exceeds remaining quantity")
	ErrEmptyLevel    = errors.New("price level is empty")
	ErrPriceMismatch = errors.New("order price does not match level price")
	ErrNotInLevel    = errors.New("order is not queued in this level")
)
