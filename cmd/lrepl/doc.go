/*
Package lrepl/main provides an interactive command line tool (L.REPL) for
experiments with lexer automata. L.REPL compiles a small two-mode demo
grammar and tokenizes every line the user enters. Commands starting with a
colon inspect the compiled automata:

    :modes                 list modes, their patterns and mode transitions
    :stats                 print the sizes of all intermediate automata
    :dot <file>            export the combined DFA in GraphViz DOT format
    :html <file>           export the transition table as HTML
    :match <mode> <text>   cross-check the automata of a mode on text
    :quit                  leave L.REPL

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'legs.lrepl'
func tracer() tracing.Trace {
	return tracing.Select("legs.lrepl")
}
