/*
Package keyfile loads lists of integer keys from comma separated text files.

A key file holds decimal integers separated by commas. Keys may be spread over
any number of lines; blank fields and lines starting with '#' are ignored.
Keys are returned in file order, duplicates included.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package keyfile

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'bptree'
func tracer() tracing.Trace {
	return tracing.Select("bptree")
}
