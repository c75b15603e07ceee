/*
Package legs is a lexer-generator toolbox.

Legs builds a finite-state tokenizer from a set of named patterns. The
heavy lifting happens in the automaton engine: NFAs are constructed from
pattern fragments, determinized by subset construction, minimized by
partition refinement and finally combined into one multi-mode automaton,
ready to be handed to code generators or to a runtime lexer. Package
structure is as follows:

■ pattern: Package pattern implements the closed set of pattern variants
(choice, sequence, option, star, plus, charset) and their NFA fragments.

■ automata: Package automata implements NFAs, DFAs, determinization,
minimization and the combination of lexer modes.

■ compiler: Package compiler drives the per-mode pipelines for a grammar.

■ tables: Package tables provides compressed transition tables for
generated lexers.

■ lexer: Package lexer runs a combined automaton over input text.

■ crosscheck: Package crosscheck validates automata against each other and
against lexmachine.

■ cmd/lrepl: L.REPL is an interactive sandbox for tokenizing text with a
demo grammar and inspecting its automata.

The base package contains data types which are used throughout all the other packages.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package legs
