package orderbook

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBook(t *testing.T) *OrderBook {
	t.Helper()
	b, err := New("AAPL")
	require.NoError(t, err)
	return b
}

// place submits an order that the test expects to be accepted and
// returns the trades it produced.
func place(t *testing.T, b *OrderBook, id string, side Side, price, qty int64) []Trade {
	t.Helper()
	o, err := NewOrder(id, side, price, qty)
	require.NoError(t, err)
	o.SeqID = b.LastSeq.Load() + 1
	trades, err := b.AddOrder(o)
	require.NoError(t, err)
	return trades
}

func assertNotCrossed(t *testing.T, b *OrderBook) {
	t.Helper()
	bid, okBid := b.BestBid()
	ask, okAsk := b.BestAsk()
	if okBid && okAsk {
		assert.Less(t, bid, ask, "book must never be crossed")
	}
}

func TestEmptySymbolRejected(t *testing.T) {
	_, err := New("")
	require.ErrorIs(t, err, ErrEmptySymbol)
}

func TestRestingOrdersDoNotCross(t *testing.T) {
	b := newBook(t)
	place(t, b, "B1", Bid, 5000, 1000)
	place(t, b, "S1", Ask, 5100, 500)

	bid, ok := b.BestBid()
	require.True(t, ok)
	assert.Equal(t, int64(5000), bid)

	ask, ok := b.BestAsk()
	require.True(t, ok)
	assert.Equal(t, int64(5100), ask)

	spread, ok := b.Spread()
	require.True(t, ok)
	assert.Equal(t, int64(100), spread)

	assert.Zero(t, b.TradeCount())
	assertNotCrossed(t, b)
}

func TestAggressiveBuySweepsTwoLevels(t *testing.T) {
	b := newBook(t)
	place(t, b, "B1", Bid, 20000, 1000)
	place(t, b, "B2", Bid, 19950, 500)
	place(t, b, "S1", Ask, 20100, 800)
	place(t, b, "S2", Ask, 20150, 600)
	require.Zero(t, b.TradeCount())
	assertNotCrossed(t, b)

	trades := place(t, b, "B3", Bid, 20150, 1000)
	require.Len(t, trades, 2)

	assert.Equal(t, "B3", trades[0].BuyOrderID)
	assert.Equal(t, "S1", trades[0].SellOrderID)
	assert.Equal(t, int64(20100), trades[0].Price)
	assert.Equal(t, int64(800), trades[0].Qty)

	assert.Equal(t, "B3", trades[1].BuyOrderID)
	assert.Equal(t, "S2", trades[1].SellOrderID)
	assert.Equal(t, int64(20150), trades[1].Price)
	assert.Equal(t, int64(200), trades[1].Qty)

	b3, ok := b.GetOrder("B3")
	require.True(t, ok)
	assert.True(t, b3.IsFilled())

	// S1's level was drained and destroyed
	assert.Zero(t, b.AskQtyAt(20100))
	assert.Nil(t, b.Asks.FindLevel(20100))

	s2, ok := b.GetOrder("S2")
	require.True(t, ok)
	assert.Equal(t, int64(400), s2.Remaining())
	assert.Equal(t, int64(400), b.AskQtyAt(20150))
	assertNotCrossed(t, b)
}

func TestSellIntoBestBid(t *testing.T) {
	b := newBook(t)
	place(t, b, "B1", Bid, 20000, 1000)
	place(t, b, "B2", Bid, 19950, 500)

	trades := place(t, b, "S3", Ask, 19900, 800)
	require.Len(t, trades, 1)
	assert.Equal(t, "B1", trades[0].BuyOrderID)
	assert.Equal(t, "S3", trades[0].SellOrderID)
	assert.Equal(t, int64(20000), trades[0].Price, "execution at the maker's price")
	assert.Equal(t, int64(800), trades[0].Qty)

	b1, ok := b.GetOrder("B1")
	require.True(t, ok)
	assert.Equal(t, int64(200), b1.Remaining())

	s3, ok := b.GetOrder("S3")
	require.True(t, ok)
	assert.True(t, s3.IsFilled())

	// partially drained bid level survives
	assert.Equal(t, int64(200), b.BidQtyAt(20000))
	assert.Equal(t, 2, b.Bids.Size())
	assertNotCrossed(t, b)
}

func TestCancelRestingOrder(t *testing.T) {
	b := newBook(t)
	before := b.OrderCount()

	place(t, b, "C1", Bid, 10000, 500)
	require.True(t, b.CancelOrder("C1"))

	assert.Equal(t, before, b.OrderCount())
	_, ok := b.GetOrder("C1")
	assert.False(t, ok)
	assert.Zero(t, b.BidQtyAt(10000))
	assert.True(t, b.IsEmpty())

	// re-cancelling is a no-op
	assert.False(t, b.CancelOrder("C1"))
}

func TestCancelUnknownOrder(t *testing.T) {
	b := newBook(t)
	place(t, b, "B1", Bid, 10000, 100)

	assert.False(t, b.CancelOrder("NOPE"))
	assert.Equal(t, 1, b.OrderCount())
	assert.Equal(t, int64(100), b.BidQtyAt(10000))
}

func TestCancelFullyMatchedOrder(t *testing.T) {
	b := newBook(t)
	place(t, b, "S1", Ask, 10000, 100)
	place(t, b, "B1", Bid, 10000, 100)

	s1, ok := b.GetOrder("S1")
	require.True(t, ok)
	require.True(t, s1.IsFilled())

	assert.False(t, b.CancelOrder("S1"), "matched orders cannot be cancelled")
	assert.False(t, b.CancelOrder("B1"))
}

func TestCancelMiddleOfLevelKeepsBookkeeping(t *testing.T) {
	b := newBook(t)
	place(t, b, "A", Bid, 10000, 10)
	place(t, b, "B", Bid, 10000, 20)
	place(t, b, "C", Bid, 10000, 30)

	require.True(t, b.CancelOrder("B"))
	assert.Equal(t, int64(40), b.BidQtyAt(10000))

	// a sell sweeping the level must only see A and C, in that order
	trades := place(t, b, "S", Ask, 10000, 40)
	require.Len(t, trades, 2)
	assert.Equal(t, "A", trades[0].BuyOrderID)
	assert.Equal(t, int64(10), trades[0].Qty)
	assert.Equal(t, "C", trades[1].BuyOrderID)
	assert.Equal(t, int64(30), trades[1].Qty)
}

func TestEmptyBookQueries(t *testing.T) {
	b := newBook(t)

	_, ok := b.BestBid()
	assert.False(t, ok)
	_, ok = b.BestAsk()
	assert.False(t, ok)
	_, ok = b.Spread()
	assert.False(t, ok)
	_, ok = b.LastTrade()
	assert.False(t, ok)

	assert.Zero(t, b.BidQtyAt(100))
	assert.Zero(t, b.AskQtyAt(100))
	assert.True(t, b.IsEmpty())
}

func TestDuplicateOrderRejected(t *testing.T) {
	b := newBook(t)
	place(t, b, "B1", Bid, 10000, 100)

	dup, err := NewOrder("B1", Bid, 9900, 50)
	require.NoError(t, err)
	_, err = b.AddOrder(dup)
	require.ErrorIs(t, err, ErrDuplicateOrder)

	// original untouched
	assert.Equal(t, int64(100), b.BidQtyAt(10000))
	assert.Equal(t, 1, b.OrderCount())
}

func TestAddOrderValidation(t *testing.T) {
	b := newBook(t)

	_, err := b.AddOrder(nil)
	require.ErrorIs(t, err, ErrNilOrder)

	filled, err := NewOrder("F1", Bid, 100, 10)
	require.NoError(t, err)
	require.NoError(t, filled.Fill(10))
	_, err = b.AddOrder(filled)
	require.ErrorIs(t, err, ErrAlreadyFilled)

	_, err = b.AddOrder(&Order{ID: "", Price: 100, Qty: 10})
	require.ErrorIs(t, err, ErrEmptyOrderID)

	assert.Zero(t, b.OrderCount())
}

func TestPerOrderAttributionAtOneLevel(t *testing.T) {
	b := newBook(t)
	place(t, b, "A1", Ask, 10000, 300)
	place(t, b, "A2", Ask, 10000, 500)

	trades := place(t, b, "B1", Bid, 10000, 600)
	require.Len(t, trades, 2)

	// each trade carries the quantity taken from that specific maker,
	// not the maker's original size and not the level total
	assert.Equal(t, "A1", trades[0].SellOrderID)
	assert.Equal(t, int64(300), trades[0].Qty)
	assert.Equal(t, "A2", trades[1].SellOrderID)
	assert.Equal(t, int64(300), trades[1].Qty)

	a2, ok := b.GetOrder("A2")
	require.True(t, ok)
	assert.Equal(t, int64(200), a2.Remaining())
	assert.Equal(t, int64(200), b.AskQtyAt(10000))
}

func TestFIFOFairnessWithinLevel(t *testing.T) {
	b := newBook(t)
	place(t, b, "EARLY", Ask, 10000, 100)
	place(t, b, "LATE", Ask, 10000, 100)

	trades := place(t, b, "B1", Bid, 10000, 150)
	require.Len(t, trades, 2)
	assert.Equal(t, "EARLY", trades[0].SellOrderID)
	assert.Equal(t, int64(100), trades[0].Qty)
	assert.Equal(t, "LATE", trades[1].SellOrderID)
	assert.Equal(t, int64(50), trades[1].Qty)

	early, ok := b.GetOrder("EARLY")
	require.True(t, ok)
	assert.True(t, early.IsFilled(), "earlier order is never filled after a later one")
}

func TestTradeLogOrderingAndLastTrade(t *testing.T) {
	b := newBook(t)
	place(t, b, "A1", Ask, 10000, 100)
	place(t, b, "A2", Ask, 10100, 100)
	place(t, b, "B1", Bid, 10100, 200)

	trades := b.Trades()
	require.Len(t, trades, 2)
	assert.Equal(t, uint64(1), trades[0].ID)
	assert.Equal(t, uint64(2), trades[1].ID)
	assert.Equal(t, int64(10000), trades[0].Price, "better price matched first")
	assert.Equal(t, int64(10100), trades[1].Price)

	last, ok := b.LastTrade()
	require.True(t, ok)
	assert.Equal(t, trades[1], last)
	assert.Equal(t, 2, b.TradeCount())
}

func TestSubmitThenCancelRoundTrip(t *testing.T) {
	b := newBook(t)
	place(t, b, "B1", Bid, 10000, 100)
	place(t, b, "A1", Ask, 10200, 50)

	bidQty := b.BidQtyAt(10000)
	askQty := b.AskQtyAt(10200)
	orders := b.OrderCount()

	place(t, b, "TMP", Bid, 9900, 77)
	require.True(t, b.CancelOrder("TMP"))

	assert.Equal(t, bidQty, b.BidQtyAt(10000))
	assert.Equal(t, askQty, b.AskQtyAt(10200))
	assert.Equal(t, orders, b.OrderCount())
	assert.Zero(t, b.BidQtyAt(9900))
}

func TestConservationOfQuantity(t *testing.T) {
	b := newBook(t)
	place(t, b, "S1", Ask, 10000, 250)
	place(t, b, "S2", Ask, 10000, 250)
	place(t, b, "S3", Ask, 10100, 500)
	place(t, b, "B1", Bid, 10100, 600)

	var traded int64
	for _, tr := range b.Trades() {
		traded += tr.Qty
	}
	b1, ok := b.GetOrder("B1")
	require.True(t, ok)
	assert.Equal(t, b1.Qty, traded+b1.Remaining())
	assert.True(t, b1.IsFilled())

	// per-maker: sum of trade quantities never exceeds original size
	perMaker := map[string]int64{}
	for _, tr := range b.Trades() {
		perMaker[tr.SellOrderID] += tr.Qty
	}
	for id, q := range perMaker {
		o, ok := b.GetOrder(id)
		require.True(t, ok)
		assert.LessOrEqual(t, q, o.Qty, id)
	}
}

func TestBookNeverCrossedUnderFlow(t *testing.T) {
	b := newBook(t)
	flow := []struct {
		id    string
		side  Side
		price int64
		qty   int64
	}{
		{"1", Bid, 10000, 100},
		{"2", Ask, 10200, 100},
		{"3", Bid, 10200, 50},
		{"4", Ask, 9900, 500},
		{"5", Bid, 10100, 300},
		{"6", Ask, 10100, 300},
		{"7", Bid, 9800, 40},
	}
	for _, f := range flow {
		place(t, b, f.id, f.side, f.price, f.qty)
		assertNotCrossed(t, b)
	}
}

func TestRestingOrdersCount(t *testing.T) {
	b := newBook(t)
	assert.Zero(t, b.RestingOrders())

	for i := 0; i < 5; i++ {
		place(t, b, "B"+strconv.Itoa(i), Bid, int64(10000-i*10), 100)
	}
	assert.Equal(t, 5, b.RestingOrders())

	place(t, b, "S1", Ask, 9960, 250) // fills B0 and B1, half of B2
	assert.Equal(t, 3, b.RestingOrders())
	assert.Equal(t, 6, b.OrderCount(), "registry keeps fully matched orders")

	require.True(t, b.CancelOrder("B4"))
	assert.Equal(t, 2, b.RestingOrders())
}
