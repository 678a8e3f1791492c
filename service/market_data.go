package service

import (
	"github.com/shopspring/decimal"

	"matchbook/domain/orderbook"
)

// LevelView is one price level rendered for display.
type LevelView struct {
	Price  decimal.Decimal
	Qty    int64
	Orders int
}

// BestBid returns the highest bid as a decimal price. ok is false when
// the bid side is empty.
func (s *OrderService) BestBid() (decimal.Decimal, bool) {
	ticks, ok := s.book.BestBid()
	if !ok {
		return decimal.Zero, false
	}
	return s.scale.FromTicks(ticks), true
}

// BestAsk returns the lowest ask as a decimal price. ok is false when
// the ask side is empty.
func (s *OrderService) BestAsk() (decimal.Decimal, bool) {
	ticks, ok := s.book.BestAsk()
	if !ok {
		return decimal.Zero, false
	}
	return s.scale.FromTicks(ticks), true
}

// Spread returns best ask minus best bid; ok is false when either side
// is empty.
func (s *OrderService) Spread() (decimal.Decimal, bool) {
	ticks, ok := s.book.Spread()
	if !ok {
		return decimal.Zero, false
	}
	return s.scale.FromTicks(ticks), true
}

// QtyAt reports the resting quantity at an exact price on one side.
// Prices that do not land on a tick have no level, hence zero quantity.
func (s *OrderService) QtyAt(side orderbook.Side, price decimal.Decimal) int64 {
	ticks, err := s.scale.ToTicks(price)
	if err != nil {
		return 0
	}
	if side == orderbook.Bid {
		return s.book.BidQtyAt(ticks)
	}
	return s.book.AskQtyAt(ticks)
}

func (s *OrderService) OrderCount() int {
	return s.book.OrderCount()
}

func (s *OrderService) TradeCount() int {
	return s.book.TradeCount()
}

// Trades returns the full execution history, oldest first.
func (s *OrderService) Trades() []TradeView {
	return s.tradeViews(s.book.Trades())
}

func (s *OrderService) LastTrade() (TradeView, bool) {
	t, ok := s.book.LastTrade()
	if !ok {
		return TradeView{}, false
	}
	views := s.tradeViews([]orderbook.Trade{t})
	return views[0], true
}

// Depth returns up to n levels per side, best first.
func (s *OrderService) Depth(n int) (bids, asks []LevelView) {
	if n <= 0 {
		return nil, nil
	}
	collect := func(out *[]LevelView) func(*orderbook.PriceLevel) bool {
		return func(lvl *orderbook.PriceLevel) bool {
			*out = append(*out, LevelView{
				Price:  s.scale.FromTicks(lvl.Price),
				Qty:    lvl.TotalQty,
				Orders: lvl.OrderCount,
			})
			return len(*out) < n
		}
	}
	s.book.BidsWalk(collect(&bids))
	s.book.AsksWalk(collect(&asks))
	return bids, asks
}
