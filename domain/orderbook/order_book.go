package orderbook

import (
	"fmt"
	"sync/atomic"
	"time"
)

// OrderBook is the matching engine for one instrument: two ordered
// sides of price levels, an order registry, and the trade log. It is
// single-writer and deterministic.
type OrderBook struct {
	Symbol string

	Bids *LevelTree
	Asks *LevelTree

	orders map[string]*Order
	trades []Trade

	LastSeq atomic.Uint64

	fills []LevelFill // scratch, reused across match calls
}

func New(symbol string) (*OrderBook, error) {
	if symbol == "" {
		return nil, ErrEmptySymbol
	}
	return &OrderBook{
		Symbol: symbol,
		Bids:   NewLevelTree(),
		Asks:   NewLevelTree(),
		orders: make(map[string]*Order),
	}, nil
}

// AddOrder admits o, matches it against the opposite side, and rests
// any unfilled remainder at its price (creating the level if absent).
// It returns the trades produced by this call in execution order.
// After a successful return the book is never crossed.
func (b *OrderBook) AddOrder(o *Order) ([]Trade, error) {
	if o == nil {
		return nil, ErrNilOrder
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if o.IsFilled() {
		return nil, ErrAlreadyFilled
	}
	if _, exists := b.orders[o.ID]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateOrder, o.ID)
	}

	b.orders[o.ID] = o
	b.LastSeq.Store(o.SeqID)

	mark := len(b.trades)
	var err error
	if o.Side == Bid {
		err = b.matchBid(o)
	} else {
		err = b.matchAsk(o)
	}
	if err == nil && !o.IsFilled() {
		err = b.sideTree(o.Side).UpsertLevel(o.Price).Enqueue(o)
	}
	return b.trades[mark:], err
}

// CancelOrder removes a resting order: unlink from its level (destroying
// the level if it empties), zero the remaining quantity, drop the
// registry entry. Unknown IDs and orders that already fully matched
// return false without mutating the book.
func (b *OrderBook) CancelOrder(id string) bool {
	o, ok := b.orders[id]
	if !ok || o.Status != Active || o.level == nil {
		return false
	}

	lvl := o.level
	if err := lvl.Remove(o); err != nil {
		return false
	}
	if lvl.Empty() {
		b.sideTree(o.Side).DeleteLevel(lvl.Price)
	}

	o.cancel()
	delete(b.orders, id)
	return true
}

// GetOrder looks up any order the book knows about, resting or filled.
// Cancelled orders are forgotten.
func (b *OrderBook) GetOrder(id string) (*Order, bool) {
	o, ok := b.orders[id]
	return o, ok
}

// ---- matching ----

// matchBid walks ask levels from the lowest price upward and stops at
// the first level priced above the bid. Ask prices only increase along
// the walk, so no later level can be eligible.
func (b *OrderBook) matchBid(o *Order) error {
	for !o.IsFilled() {
		lvl := b.Asks.MinLevel()
		if lvl == nil || lvl.Price > o.Price {
			return nil
		}
		if err := b.matchAtLevel(o, lvl); err != nil {
			return err
		}
		if lvl.Empty() {
			b.Asks.DeleteLevel(lvl.Price)
		}
	}
	return nil
}

// matchAsk mirrors matchBid: bid levels from the highest price
// downward, while the incoming price <= level price.
func (b *OrderBook) matchAsk(o *Order) error {
	for !o.IsFilled() {
		lvl := b.Bids.MaxLevel()
		if lvl == nil || lvl.Price < o.Price {
			return nil
		}
		if err := b.matchAtLevel(o, lvl); err != nil {
			return err
		}
		if lvl.Empty() {
			b.Bids.DeleteLevel(lvl.Price)
		}
	}
	return nil
}

// matchAtLevel fills o against lvl and records one trade per resting
// order touched, each for the exact quantity taken from that order, at
// the maker's price.
func (b *OrderBook) matchAtLevel(o *Order, lvl *PriceLevel) error {
	matched, fills, err := lvl.Match(o.Remaining(), b.fills[:0])
	for _, f := range fills {
		if o.Side == Bid {
			b.recordTrade(o.ID, f.Order.ID, lvl.Price, f.Qty)
		} else {
			b.recordTrade(f.Order.ID, o.ID, lvl.Price, f.Qty)
		}
	}
	b.fills = fills[:0]
	if err != nil {
		return err
	}
	if matched > 0 {
		return o.Fill(matched)
	}
	return nil
}

func (b *OrderBook) recordTrade(buyID, sellID string, price, qty int64) {
	b.trades = append(b.trades, Trade{
		ID:          uint64(len(b.trades) + 1),
		BuyOrderID:  buyID,
		SellOrderID: sellID,
		Price:       price,
		Qty:         qty,
		Time:        time.Now(),
	})
}

func (b *OrderBook) sideTree(s Side) *LevelTree {
	if s == Bid {
		return b.Bids
	}
	return b.Asks
}

// ---- market data ----

// BestBid returns the highest bid price. ok is false when the bid side
// is empty; zero is never used as a sentinel.
func (b *OrderBook) BestBid() (int64, bool) {
	lvl := b.Bids.MaxLevel()
	if lvl == nil {
		return 0, false
	}
	return lvl.Price, true
}

// BestAsk returns the lowest ask price. ok is false when the ask side
// is empty.
func (b *OrderBook) BestAsk() (int64, bool) {
	lvl := b.Asks.MinLevel()
	if lvl == nil {
		return 0, false
	}
	return lvl.Price, true
}

// Spread returns best ask minus best bid; ok is false when either side
// is empty.
func (b *OrderBook) Spread() (int64, bool) {
	bid, okBid := b.BestBid()
	ask, okAsk := b.BestAsk()
	if !okBid || !okAsk {
		return 0, false
	}
	return ask - bid, true
}

func (b *OrderBook) BidQtyAt(price int64) int64 {
	if lvl := b.Bids.FindLevel(price); lvl != nil {
		return lvl.TotalQty
	}
	return 0
}

func (b *OrderBook) AskQtyAt(price int64) int64 {
	if lvl := b.Asks.FindLevel(price); lvl != nil {
		return lvl.TotalQty
	}
	return 0
}

// OrderCount returns the registry size: resting plus fully matched
// orders, minus cancelled ones.
func (b *OrderBook) OrderCount() int {
	return len(b.orders)
}

func (b *OrderBook) TradeCount() int {
	return len(b.trades)
}

// Trades returns the append-only execution log. Callers must treat the
// returned slice as read-only.
func (b *OrderBook) Trades() []Trade {
	return b.trades
}

func (b *OrderBook) LastTrade() (Trade, bool) {
	if len(b.trades) == 0 {
		return Trade{}, false
	}
	return b.trades[len(b.trades)-1], true
}

// RestingOrders counts orders currently queued in a level on either
// side. Unlike OrderCount it excludes fully matched orders.
func (b *OrderBook) RestingOrders() int {
	n := 0
	count := func(lvl *PriceLevel) bool {
		n += lvl.OrderCount
		return true
	}
	b.Bids.ForEachAscending(count)
	b.Asks.ForEachAscending(count)
	return n
}

func (b *OrderBook) IsEmpty() bool {
	return b.Bids.Size() == 0 && b.Asks.Size() == 0
}

// ---- traversal helpers ----

// BidsWalk visits bid levels best (highest price) first.
func (b *OrderBook) BidsWalk(fn func(*PriceLevel) bool) {
	b.Bids.ForEachDescending(fn)
}

// AsksWalk visits ask levels best (lowest price) first.
func (b *OrderBook) AsksWalk(fn func(*PriceLevel) bool) {
	b.Asks.ForEachAscending(fn)
}
