/*
Package tables implements compressed transition tables for generated lexers.

A table has one row per automaton node and one column per byte value.
Lexer automata have a lot of transitions per node, but only few distinct
destinations: an identifier node moves to itself for all letters and digits.
Rows are therefore stored as runs of consecutive bytes sharing the same
destination, a variant of the COO algorithm (a.k.a. triplet-encoding):

	https://medium.com/@jmaxg3/101-ways-to-store-a-sparse-matrix-c7f2bf15a229

Tables are built from a (usually combined) DFA and may be exported to HTML
for inspection.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package tables

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'legs.tables'.
func tracer() tracing.Trace {
	return tracing.Select("legs.tables")
}
