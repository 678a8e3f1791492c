package orderbook

import "fmt"

// LevelFill records how much of one resting order a single Match call
// consumed. Per-order attribution keeps the trade log exact when an
// aggressor sweeps several orders at one price.
type LevelFill struct {
	Order *Order
	Qty   int64
}

// PriceLevel is a FIFO queue of resting orders at a single price.
// TotalQty always equals the sum of the members' remaining quantities,
// and the head is always the next order to match.
type PriceLevel struct {
	Price int64

	head *Order
	tail *Order

	TotalQty   int64
	OrderCount int
}

// Enqueue appends o to the FIFO tail. The order must carry exactly this
// level's price.
func (p *PriceLevel) Enqueue(o *Order) error {
	if o == nil {
		return ErrNilOrder
	}
	if o.Price != p.Price {
		return fmt.Errorf("%w: order %d, level %d", ErrPriceMismatch, o.Price, p.Price)
	}
	if p.head == nil {
		p.head = o
		p.tail = o
	} else {
		p.tail.next = o
		o.prev = p.tail
		p.tail = o
	}
	o.level = p
	p.TotalQty += o.Remaining()
	p.OrderCount++
	return nil
}

// Match consumes up to requested quantity from the FIFO head, filling
// each order by min(its remaining, still needed) and unlinking orders
// that fill completely. Per-order attribution is appended to fills
// (callers may pass a reusable scratch slice) and returned together
// with the total quantity matched.
func (p *PriceLevel) Match(requested int64, fills []LevelFill) (int64, []LevelFill, error) {
	var matched int64
	for p.head != nil && matched < requested {
		o := p.head
		take := min(o.Remaining(), requested-matched)
		if err := o.Fill(take); err != nil {
			return matched, fills, err
		}
		matched += take
		p.TotalQty -= take
		fills = append(fills, LevelFill{Order: o, Qty: take})
		if o.IsFilled() {
			p.popHead()
		}
	}
	return matched, fills, nil
}

// Remove unlinks an arbitrary member, decrementing the aggregate by the
// member's remaining quantity. O(1) via the intrusive links. This is
// the cancellation path; matching never uses it.
func (p *PriceLevel) Remove(o *Order) error {
	if p.head == nil {
		return ErrEmptyLevel
	}
	if o == nil || o.level != p {
		return ErrNotInLevel
	}
	p.TotalQty -= o.Remaining()
	p.OrderCount--
	p.unlink(o)
	return nil
}

// popHead detaches a fully filled head. Its remaining quantity is zero,
// so the aggregate is untouched.
func (p *PriceLevel) popHead() *Order {
	o := p.head
	if o == nil {
		return nil
	}
	p.OrderCount--
	p.unlink(o)
	return o
}

func (p *PriceLevel) unlink(o *Order) {
	if o.prev != nil {
		o.prev.next = o.next
	} else {
		p.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		p.tail = o.prev
	}
	o.next = nil
	o.prev = nil
	o.level = nil
}

func (p *PriceLevel) Empty() bool {
	return p.head == nil
}

// Head returns the next order to match. Read-only helper.
func (p *PriceLevel) Head() *Order {
	return p.head
}

func (p *PriceLevel) String() string {
	return fmt.Sprintf("PriceLevel[Price=%d Orders=%d TotalQty=%d]",
		p.Price, p.OrderCount, p.TotalQty)
}
