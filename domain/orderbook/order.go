package orderbook

import (
	"fmt"
	"time"
)

type Side uint8
type Status uint8

const (
	Bid Side = iota
	Ask
)

const (
	Active Status = iota
	Filled
	Cancelled
)

func (s Side) String() string {
	if s == Bid {
		return "BUY"
	}
	return "SELL"
}

// Order is a pure domain entity. Identity is the ID string, not the
// pointer: the struct is owned by the book's pool and is linked into at
// most one price level while resting.
type Order struct {
	ID     string
	Side   Side
	Price  int64 // ticks
	Qty    int64 // original quantity
	Filled int64
	SeqID  uint64
	Time   time.Time
	Status Status

	next, prev *Order      // FIFO queue inside a price level
	level      *PriceLevel // level currently holding the order, nil when not resting
}

// NewOrder builds a validated active order priced in ticks.
func NewOrder(id string, side Side, price, qty int64) (*Order, error) {
	o := &Order{ID: id, Side: side, Price: price, Qty: qty, Time: time.Now()}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// Validate enforces the admission rules for a freshly constructed order.
func (o *Order) Validate() error {
	if o == nil {
		return ErrNilOrder
	}
	if o.ID == "" {
		return ErrEmptyOrderID
	}
	if o.Price <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidPrice, o.Price)
	}
	if o.Qty <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQty, o.Qty)
	}
	return nil
}

func (o *Order) Remaining() int64 {
	return o.Qty - o.Filled
}

func (o *Order) IsFilled() bool {
	return o.Remaining() == 0
}

// Fill consumes qty from the remaining quantity. Overfilling is an
// error, never a silent clamp.
func (o *Order) Fill(qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQty, qty)
	}
	if qty > o.Remaining() {
		return fmt.Errorf("%w: fill %d, remaining %d", ErrOverfill, qty, o.Remaining())
	}
	o.Filled += qty
	if o.Remaining() == 0 {
		o.Status = Filled
	}
	return nil
}

// cancel zeroes the remaining quantity. Only the book calls this, after
// unlinking the order from its level.
func (o *Order) cancel() {
	o.Filled = o.Qty
	o.Status = Cancelled
}

// Next returns the successor in the level FIFO. Read-only traversal helper.
func (o *Order) Next() *Order {
	return o.next
}

func (o *Order) String() string {
	return fmt.Sprintf("Order[ID=%s Side=%s Price=%d Qty=%d Remaining=%d]",
		o.ID, o.Side, o.Price, o.Qty, o.Remaining())
}
