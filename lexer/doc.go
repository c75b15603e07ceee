/*
Package lexer runs the automata built by package automata on input text.

A lexer executes the transition table of a combined multi-mode automaton.
Each token is recognized by maximal munch: starting at the start node of the
current mode, the lexer follows transitions as far as possible and then backs
up to the last match node it passed. If it never reaches a match node, the
bytes consumed form a token of the mode's 'incomplete' kind. Bytes which
cannot start any token are grouped into tokens of kind 'invalid'.

Modes are organized as a stack. A mode transition (mode, kind) → (child,
pop) pushes mode child whenever a token of kind is recognized in mode; a
token of kind pop recognized in child pops back.

	lx, err := lexer.New(table, modes, transitions, strings.NewReader(input))
	for tok := lx.NextToken(); tok.Kind() != legs.EOFKind; tok = lx.NextToken() {
	    ...
	}

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package lexer

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'legs.lexer'.
func tracer() tracing.Trace {
	return tracing.Select("legs.lexer")
}
