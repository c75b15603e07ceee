/*
Package compiler drives the construction of a lexer automaton from a grammar.

A grammar consists of modes, each holding a list of named patterns, and of
mode transitions. Grammars may be built with a grammar builder:

	b := compiler.NewGrammarBuilder("json")
	b.Pattern("num", pattern.Some(pattern.Range('0', '9')))
	b.Pattern("quote", pattern.Lit(`"`)).Push("str", "quote_end")
	b.Mode("str")
	b.Pattern("text", pattern.Some(pattern.Range('a', 'z')))
	b.Pattern("quote_end", pattern.Lit(`"`))
	result, err := compiler.Compile(b.Grammar())

Compile runs the pipeline NFA → DFA → minimized DFA for every mode,
optionally in parallel, and combines the minimized DFAs. If patterns are
ambiguous, the error is an *automata.AmbiguityError listing the conflicting
patterns of all modes. WriteDiagnostics prints such errors in a form suited
for end users.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package compiler

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'legs.compiler'.
func tracer() tracing.Trace {
	return tracing.Select("legs.compiler")
}
