/*
Package observe provides observers for structural events of a bptree.Tree.

A tree reports splits, merges, redistributions, root changes and misses to a
single bptree.Observer. The observers in this package forward these events to
a tracer, count them as Prometheus metrics, or broadcast them to any number of
subscribers. Tee combines several of them.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package observe

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'bptree'
func tracer() tracing.Trace {
	return tracing.Select("bptree")
}
