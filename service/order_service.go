package service

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"matchbook/domain/orderbook"
	"matchbook/domain/tick"
	"matchbook/infra/memory"
	"matchbook/infra/metrics"
	"matchbook/infra/sequence"
)

/*
OrderService is the ONLY write entry point into the engine.

All coordination between:
- domain (orderbook, tick)
- infra (memory, sequence)
- observability (zap, metrics)
happens here.
*/

type OrderService struct {
	book  *orderbook.OrderBook
	pool  *memory.Pool[orderbook.Order]
	seq   *sequence.Sequencer
	scale tick.Scale
	log   *zap.Logger
	stats *metrics.Metrics
}

// NewOrderService wires all dependencies. stats may be nil to run
// without observability.
func NewOrderService(
	book *orderbook.OrderBook,
	pool *memory.Pool[orderbook.Order],
	seq *sequence.Sequencer,
	scale tick.Scale,
	log *zap.Logger,
	stats *metrics.Metrics,
) *OrderService {
	return &OrderService{
		book:  book,
		pool:  pool,
		seq:   seq,
		scale: scale,
		log:   log,
		stats: stats,
	}
}

// TradeView is a trade rendered in decimal prices for callers.
type TradeView struct {
	ID          uint64
	BuyOrderID  string
	SellOrderID string
	Price       decimal.Decimal
	Qty         int64
	Time        time.Time
}

// SubmitResult reports what happened to a submitted order.
type SubmitResult struct {
	Trades    []TradeView
	Remaining int64
	Rested    bool
}

// Submit converts the price to ticks, stamps the arrival sequence, and
// runs the order through the book. The returned error wraps one of the
// orderbook or tick sentinels on rejection.
func (s *OrderService) Submit(id string, side orderbook.Side, price decimal.Decimal, qty int64) (SubmitResult, error) {
	ticks, err := s.scale.ToTicks(price)
	if err != nil {
		s.stats.OrderRejected()
		s.log.Warn("order rejected",
			zap.String("id", id),
			zap.String("price", price.String()),
			zap.Error(err))
		return SubmitResult{}, err
	}

	o := s.pool.Get()
	*o = orderbook.Order{
		ID:     id,
		Side:   side,
		Price:  ticks,
		Qty:    qty,
		SeqID:  s.seq.Next(),
		Time:   time.Now(),
		Status: orderbook.Active,
	}

	trades, err := s.book.AddOrder(o)
	if err != nil {
		s.stats.OrderRejected()
		s.log.Warn("order rejected",
			zap.String("id", id),
			zap.Error(err))
		// Recycle only when the book did not register the order.
		if _, known := s.book.GetOrder(id); !known {
			s.pool.Put(o)
		}
		return SubmitResult{}, err
	}

	res := SubmitResult{
		Trades:    s.tradeViews(trades),
		Remaining: o.Remaining(),
		Rested:    !o.IsFilled(),
	}

	var volume int64
	for _, t := range trades {
		volume += t.Qty
	}
	s.stats.OrderSubmitted()
	s.stats.TradesExecuted(len(trades), volume)
	s.updateGauges()

	s.log.Info("order submitted",
		zap.String("id", id),
		zap.String("side", side.String()),
		zap.String("price", price.String()),
		zap.Int64("qty", qty),
		zap.Int("trades", len(trades)),
		zap.Int64("remaining", res.Remaining),
		zap.Bool("rested", res.Rested))

	return res, nil
}

// Cancel removes a resting order and recycles it. Unknown or fully
// matched IDs return false.
func (s *OrderService) Cancel(id string) bool {
	o, ok := s.book.GetOrder(id)
	if !ok {
		return false
	}
	if !s.book.CancelOrder(id) {
		return false
	}

	s.stats.OrderCancelled()
	s.updateGauges()
	s.log.Info("order cancelled", zap.String("id", id))

	// The registry has forgotten the order, nothing references it now.
	s.pool.Put(o)
	return true
}

func (s *OrderService) updateGauges() {
	if s.stats == nil {
		return
	}
	s.stats.SetRestingOrders(s.book.RestingOrders())
	s.stats.SetBookDepth(s.book.Bids.Size(), s.book.Asks.Size())
}

func (s *OrderService) tradeViews(trades []orderbook.Trade) []TradeView {
	if len(trades) == 0 {
		return nil
	}
	out := make([]TradeView, len(trades))
	for i, t := range trades {
		out[i] = TradeView{
			ID:          t.ID,
			BuyOrderID:  t.BuyOrderID,
			SellOrderID: t.SellOrderID,
			Price:       s.scale.FromTicks(t.Price),
			Qty:         t.Qty,
			Time:        t.Time,
		}
	}
	return out
}
