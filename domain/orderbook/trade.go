package orderbook

import (
	"fmt"
	"time"
)

// Trade is one execution between a buy and a sell order, priced at the
// maker's (resting order's) price. Trades are immutable once recorded;
// the book's log is the sole source of history.
type Trade struct {
	ID          uint64
	BuyOrderID  string
	SellOrderID string
	Price       int64 // maker price, ticks
	Qty         int64
	Time        time.Time
}

func (t Trade) String() string {
	return fmt.Sprintf("Trade[#%d buy=%s sell=%s price=%d qty=%d]",
		t.ID, t.BuyOrderID, t.SellOrderID, t.Price, t.Qty)
}
