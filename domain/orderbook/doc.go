// Package orderbook implements a single-instrument limit-order matching
// engine under price-time priority. It maintains two red-black trees of
// FIFO price levels keyed by integer tick prices, an order registry for
// direct lookup and cancellation, and an append-only trade log.
//
// The engine is single-writer and deterministic: every public operation
// runs to completion with no internal locking, and callers must
// serialize all mutating operations for price-time priority to be
// meaningful.
package orderbook
