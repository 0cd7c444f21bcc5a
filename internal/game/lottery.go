package game

import (
	"errors"
	"fmt"
)

// ErrEmptyLottery is returned for a lottery with nothing to draw.
var ErrEmptyLottery = errors.New("lottery has no entries")

// Lottery picks items with probability proportional to their weight.
// Tables are checked once at construction so Pick can never fail.
type Lottery[T any] struct {
	items   []T
	weights []float64
	total   float64
}

// NewLottery builds a lottery. Every weight must be positive.
func NewLottery[T any](items []T, weights []float64) (*Lottery[T], error) {
	if len(items) == 0 {
		return nil, ErrEmptyLottery
	}
	if len(items) != len(weights) {
		return nil, fmt.Errorf("lottery: %d items, %d weights", len(items), len(weights))
	}
	var total float64
	for i, w := range weights {
		if !(w > 0) {
			return nil, fmt.Errorf("lottery: entry %d has weight %v", i, w)
		}
		total += w
	}
	return &Lottery[T]{items: items, weights: weights, total: total}, nil
}

// Pick draws one item using a single sample from r.
func (l *Lottery[T]) Pick(r Rand) T {
	x := r.Float64() * l.total
	for i, w := range l.weights {
		if x < w {
			return l.items[i]
		}
		x -= w
	}
	return l.items[len(l.items)-1]
}
