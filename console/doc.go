/*
Package console prints the shape of a bptree.Tree to a terminal.

Nodes are printed level by level, one level per line, with keys in brackets.
Levels are colored alternately and lines which are wider than the terminal
are wrapped at node boundaries. Widths are measured in fixed-width
positions (“en”s) according to UAX#11, so keys containing East Asian wide
characters are wrapped correctly.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package console

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'bptree'
func tracer() tracing.Trace {
	return tracing.Select("bptree")
}
