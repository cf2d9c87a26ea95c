package observe

import (
	"context"

	"github.com/guiguan/caster"
	"github.com/npillmayer/bptree"
)

// Broadcaster publishes structural events to any number of subscribers.
//
// Observe publishes events synchronously from within the tree operation.
// Subscribers should choose a channel capacity matching their processing
// speed.
type Broadcaster[K any] struct {
	cast *caster.Caster
}

// NewBroadcaster creates a broadcaster. It is closed when ctx is done or by
// calling Close.
func NewBroadcaster[K any](ctx context.Context) *Broadcaster[K] {
	return &Broadcaster[K]{cast: caster.New(ctx)}
}

// Observe is part of interface bptree.Observer.
func (b *Broadcaster[K]) Observe(e bptree.Event[K]) {
	if !b.cast.Pub(e) {
		tracer().Debugf("broadcaster closed, dropping %s event", e.Kind)
	}
}

// Subscribe returns a channel delivering events published after the call.
// The channel is closed when ctx is done or when the broadcaster is closed.
// Subscribe reports false if the broadcaster has already been closed.
func (b *Broadcaster[K]) Subscribe(ctx context.Context, capacity uint) (<-chan bptree.Event[K], bool) {
	select {
	case <-b.cast.Done():
		return nil, false
	default:
	}
	raw, ok := b.cast.Sub(ctx, capacity)
	if !ok {
		return nil, false
	}
	ch := make(chan bptree.Event[K], capacity)
	go func() {
		defer close(ch)
		for msg := range raw {
			e, ok := msg.(bptree.Event[K])
			if !ok {
				tracer().Errorf("broadcaster: unexpected message type %T", msg)
				continue
			}
			select {
			case ch <- e:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, true
}

// Close shuts down the broadcaster and closes all subscriber channels.
func (b *Broadcaster[K]) Close() {
	b.cast.Close()
}
