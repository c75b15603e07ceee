/*
Package automata builds the finite automata a lexer runs on.

# Pipeline

Named patterns are assembled into an NFA, the NFA is determinized by subset
construction, the resulting DFA is minimized, and finally the DFAs of all
lexer modes are combined into one global automaton:

	nfa := automata.BuildNFA("main", patterns)
	dfa := automata.BuildDFA(nfa)
	minDFA, err := automata.Minimize(dfa) // err is an *AmbiguityError
	...
	all, modes, nodeModes, err := automata.Combine(pairs, modePatternNames)

Every NFA has a start node 0 and an unreachable node 1, which is reserved for
the 'invalid' pattern. The determinizer wires the invalid node up: for every
byte which cannot start a token, the start node transitions to the invalid
node, and the invalid node loops to itself. A lexer running the DFA is thus
guaranteed to always advance.

# Ambiguity

Two patterns may match the same input. If the set of DFA nodes matching
pattern q is a strict subset of the nodes matching pattern p, q is the more
specific pattern and p is dropped from the shared nodes. This is the typical
situation of a keyword literal and an identifier pattern. Any node still
matching more than one pattern after this reduction makes minimization fail
with an AmbiguityError.

All automata are immutable after construction and may be shared between
goroutines.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package automata

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'legs.automata'.
func tracer() tracing.Trace {
	return tracing.Select("legs.automata")
}
