/*
Package pattern implements the patterns a lexer is built from.

The set of pattern variants is closed: Choice, Seq, Opt, Star, Plus and
Charset. Every variant knows how to generate its NFA fragment between a
start node and an end node, threading a node allocator and writing into a
transition sink:

	alloc := legs.NewNodeAllocator()
	gen := pattern.NewGenerator(alloc, pattern.UTF8, sink)
	gen.GenNFA(pattern.Some(pattern.Range('0', '9')), legs.StartNode, alloc.Next())

Charsets are sets of Unicode code points. They are encoded to byte
sequences using an Encoding, UTF-8 being the default. Code points not
representable in the encoding are skipped; use Check to find them
beforehand.

Regex renders a pattern as a regular expression understood by lexmachine,
which is used for cross-checking generated automata.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package pattern

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'legs.pattern'.
func tracer() tracing.Trace {
	return tracing.Select("legs.pattern")
}
