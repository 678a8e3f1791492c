// Package tick converts between external decimal prices and the
// engine's integer tick representation. The matching core compares and
// indexes prices as int64 tick counts only, so equality is exact and no
// tolerance comparisons exist anywhere.
package tick

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidTickSize  = errors.New("tick size must be positive")
	ErrNonPositivePrice = errors.New("price must be positive")
	ErrMisaligned       = errors.New("price is not a multiple of the tick size")
)

// Scale is the instrument's minimum price increment.
type Scale struct {
	size decimal.Decimal
}

func NewScale(size string) (Scale, error) {
	d, err := decimal.NewFromString(size)
	if err != nil {
		return Scale{}, fmt.Errorf("parse tick size: %w", err)
	}
	if d.Sign() <= 0 {
		return Scale{}, ErrInvalidTickSize
	}
	return Scale{size: d}, nil
}

func (s Scale) Size() decimal.Decimal {
	return s.size
}

// ToTicks converts p to tick units. Non-positive and tick-misaligned
// prices are rejected.
func (s Scale) ToTicks(p decimal.Decimal) (int64, error) {
	if p.Sign() <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrNonPositivePrice, p)
	}
	q := p.Div(s.size)
	if !q.IsInteger() {
		return 0, fmt.Errorf("%w: %s with tick size %s", ErrMisaligned, p, s.size)
	}
	return q.IntPart(), nil
}

// FromTicks renders a tick count as a decimal price.
func (s Scale) FromTicks(t int64) decimal.Decimal {
	return s.size.Mul(decimal.NewFromInt(t))
}

// ParseTicks parses a decimal price string and converts it to ticks.
func (s Scale) ParseTicks(p string) (int64, error) {
	d, err := decimal.NewFromString(p)
	if err != nil {
		return 0, fmt.Errorf("parse price: %w", err)
	}
	return s.ToTicks(d)
}
