package bptree

import (
	"cmp"
	"fmt"
)

const (
	// DefaultOrder is the branching factor used when Config.Order is left unset.
	DefaultOrder = 3
	// MinOrder is the smallest branching factor a tree accepts.
	MinOrder = 3
)

// Config configures a sparse B+ tree.
type Config[K cmp.Ordered] struct {
	// Order is the branching factor. It equals the maximum number of keys per
	// node. Zero selects DefaultOrder.
	Order int
	// Observer, if set, is notified about every structural transition.
	Observer Observer[K]
}

func (cfg Config[K]) normalized() Config[K] {
	if cfg.Order == 0 {
		cfg.Order = DefaultOrder
	}
	return cfg
}

func (cfg Config[K]) validate() error {
	cfg = cfg.normalized()
	if cfg.Order < MinOrder {
		return fmt.Errorf("%w: order must be >= %d, is %d", ErrInvalidConfig, MinOrder, cfg.Order)
	}
	if cfg.minKeys() < 1 {
		return fmt.Errorf("%w: order %d yields minKeys < 1", ErrInvalidConfig, cfg.Order)
	}
	return nil
}

// minKeys is ceil((order+1)/2) - 1.
func (cfg Config[K]) minKeys() int {
	return (cfg.Order+2)/2 - 1
}

func (cfg Config[K]) maxKeys() int {
	return cfg.Order
}
