package observe

import (
	"github.com/npillmayer/bptree"
	"github.com/npillmayer/schuko/tracing"
)

// Tracer narrates structural events to a tracer, one line per event.
// Misses are traced at debug level, everything else at info level.
type Tracer[K any] struct {
	trace tracing.Trace
}

// NewTracer creates an observer writing to trace. If trace is nil, the
// package tracer (key 'bptree') is used.
func NewTracer[K any](trace tracing.Trace) *Tracer[K] {
	if trace == nil {
		trace = tracer()
	}
	return &Tracer[K]{trace: trace}
}

// Observe is part of interface bptree.Observer.
func (tr *Tracer[K]) Observe(e bptree.Event[K]) {
	level := "internal"
	if e.Leaf {
		level = "leaf"
	}
	t := tr.trace.P("op", e.Op.String())
	if e.Kind == bptree.EventNotFound {
		t.Debugf("key %v not found", e.Key)
		return
	}
	t.Infof("%s %s key=%v: %v -> %v", level, e.Kind, e.Key, e.Before, e.After)
}
