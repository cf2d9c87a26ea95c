package observe

import (
	"github.com/npillmayer/bptree"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts structural events as Prometheus metrics:
//
//	<namespace>_structural_events_total{kind, level}
//	<namespace>_misses_total{op}
//	<namespace>_root_height_changes_total{direction}
type Metrics[K any] struct {
	events      *prometheus.CounterVec
	misses      *prometheus.CounterVec
	rootChanges *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them with reg. A nil reg
// selects prometheus.DefaultRegisterer.
func NewMetrics[K any](reg prometheus.Registerer, namespace string) *Metrics[K] {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics[K]{
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "structural_events_total",
			Help:      "Number of node splits, merges and redistributions",
		}, []string{"kind", "level"}),
		misses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "misses_total",
			Help:      "Number of searches and deletes for absent keys",
		}, []string{"op"}),
		rootChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "root_height_changes_total",
			Help:      "Number of times the tree grew or shrank by one level",
		}, []string{"direction"}),
	}
}

// Observe is part of interface bptree.Observer.
func (m *Metrics[K]) Observe(e bptree.Event[K]) {
	switch e.Kind {
	case bptree.EventNotFound:
		m.misses.WithLabelValues(e.Op.String()).Inc()
	case bptree.EventNewRoot:
		m.rootChanges.WithLabelValues("grow").Inc()
	case bptree.EventCollapse:
		m.rootChanges.WithLabelValues("shrink").Inc()
	default:
		level := "internal"
		if e.Leaf {
			level = "leaf"
		}
		m.events.WithLabelValues(e.Kind.String(), level).Inc()
	}
}

// Events returns the counter of a structural event kind at a tree level
// ("leaf" or "internal").
func (m *Metrics[K]) Events(kind bptree.EventKind, level string) prometheus.Counter {
	return m.events.WithLabelValues(kind.String(), level)
}

// Misses returns the miss counter of an operation.
func (m *Metrics[K]) Misses(op bptree.Op) prometheus.Counter {
	return m.misses.WithLabelValues(op.String())
}

// RootChanges returns the counter of root height changes, direction being
// "grow" or "shrink".
func (m *Metrics[K]) RootChanges(direction string) prometheus.Counter {
	return m.rootChanges.WithLabelValues(direction)
}
